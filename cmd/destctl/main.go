package main

import (
	"fmt"
	"os"

	"github.com/wanderlust-labs/destination-portal/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "destctl:", err)
		os.Exit(1)
	}
}
