package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderlust-labs/destination-portal/internal/domain"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *runtime) printDestinations(cmd *cobra.Command, dests []domain.Destination) error {
	if r.jsonOutput {
		return printJSON(cmd, dests)
	}
	out := cmd.OutOrStdout()
	if len(dests) == 0 {
		fmt.Fprintln(out, "No destinations found.")
		return nil
	}
	fmt.Fprintf(out, "%-6s  %-30s  %-24s  %s\n", "ID", "NAME", "LOCATION", "RATING")
	fmt.Fprintf(out, "%-6s  %-30s  %-24s  %s\n", "--", "----", "--------", "------")
	for _, d := range dests {
		fmt.Fprintf(out, "%-6d  %-30s  %-24s  %.1f\n", d.ID, truncate(d.Name, 30), truncate(d.Location, 24), d.Rating)
	}
	return nil
}

func (r *runtime) printDestination(cmd *cobra.Command, d *domain.Destination) error {
	if r.jsonOutput {
		return printJSON(cmd, d)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", d.ID)
	fmt.Fprintf(out, "Name:        %s\n", d.Name)
	fmt.Fprintf(out, "Location:    %s\n", d.Location)
	fmt.Fprintf(out, "Rating:      %.1f\n", d.Rating)
	if d.ImageURL != "" {
		fmt.Fprintf(out, "Image:       %s\n", d.ImageURL)
	}
	if d.Description != "" {
		fmt.Fprintf(out, "\n%s\n", d.Description)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
