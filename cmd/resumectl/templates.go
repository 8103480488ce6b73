package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"resume-renderer/internal/templates"

	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := templates.Default()
			var list []templates.Template
			switch strings.ToLower(tier) {
			case "", "all":
				list = reg.All()
			case "free":
				list = reg.ListFree()
			case "premium":
				list = reg.ListPremium()
			default:
				return fmt.Errorf("invalid tier %q (want free or premium)", tier)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTIER")
			for _, t := range list {
				tierName := "free"
				if t.Premium {
					tierName = "premium"
				}
				id := t.ID
				if id == reg.Default().ID {
					id += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, t.Name, t.Category, tierName)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "Filter by tier: free or premium")
	return cmd
}
