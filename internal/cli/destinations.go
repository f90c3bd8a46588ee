package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wanderlust-labs/destination-portal/internal/domain"
)

func newListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, false); err != nil {
				return err
			}
			dests, err := rt.destinations.List(rt.ctx(cmd))
			if err != nil {
				return explain(err)
			}
			return rt.printDestinations(cmd, dests)
		},
	}
}

func newTopCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "List the top rated destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, false); err != nil {
				return err
			}
			dests, err := rt.destinations.Top(rt.ctx(cmd))
			if err != nil {
				return explain(err)
			}
			return rt.printDestinations(cmd, dests)
		},
	}
}

func newSearchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search destinations by name or location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, false); err != nil {
				return err
			}
			dests, err := rt.destinations.Search(rt.ctx(cmd), args[0])
			if err != nil {
				return explain(err)
			}
			return rt.printDestinations(cmd, dests)
		},
	}
}

func newShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, false); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dest, err := rt.destinations.Get(rt.ctx(cmd), id)
			if err != nil {
				return explain(err)
			}
			return rt.printDestination(cmd, dest)
		},
	}
}

type destinationFlags struct {
	name        string
	location    string
	description string
	imageURL    string
	rating      float64
}

func (f *destinationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "destination name")
	cmd.Flags().StringVar(&f.location, "location", "", "where it is")
	cmd.Flags().StringVar(&f.description, "description", "", "free text description")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "direct image URL (.jpg, .jpeg, .png, .gif, .webp)")
	cmd.Flags().Float64Var(&f.rating, "rating", 0, "rating from 0 to 5")
}

// apply overwrites the fields of in whose flags were set on the command line.
func (f *destinationFlags) apply(cmd *cobra.Command, in domain.DestinationInput) domain.DestinationInput {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("location") {
		in.Location = f.location
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("image-url") {
		in.ImageURL = f.imageURL
	}
	if changed("rating") {
		in.Rating = f.rating
	}
	return in
}

func newAddCmd(rt *runtime) *cobra.Command {
	var flags destinationFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a destination (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, true); err != nil {
				return err
			}
			dest, err := rt.destinations.Create(rt.ctx(cmd), flags.apply(cmd, domain.DestinationInput{}))
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created destination %d\n", dest.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(rt *runtime) *cobra.Command {
	var flags destinationFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a destination (admin)",
		Long:  "Only the fields given as flags change; the rest keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, true); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := rt.ctx(cmd)
			current, err := rt.destinations.Get(ctx, id)
			if err != nil {
				return explain(err)
			}
			if _, err := rt.destinations.Update(ctx, id, flags.apply(cmd, current.Input())); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated destination %d\n", id)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a destination (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, true); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.destinations.Delete(rt.ctx(cmd), id); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted destination %d\n", id)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid destination id %q", raw)
	}
	return id, nil
}
