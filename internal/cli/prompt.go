package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// prompter reads answers line by line from the command's stdin.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

// fill prompts for *value when it is empty.
func (p *prompter) fill(label string, value *string) error {
	if *value != "" {
		return nil
	}
	fmt.Fprintf(p.cmd.ErrOrStderr(), "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	*value = strings.TrimSpace(line)
	return nil
}
