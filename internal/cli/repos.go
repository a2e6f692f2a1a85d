package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daap14/repoteams/internal/teamcrud"
)

func newReposCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Browse the organization's repositories",
	}

	var limit int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search repositories by name or slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := teamcrud.NewSearchProvider(a.api, a.org(), a.provider(), a.notifier,
				teamcrud.WithSearchLimit(limit),
			)
			if err := p.Search(cmd.Context(), args[0]); err != nil {
				return err
			}

			repos := p.Results()
			if len(repos) == 0 {
				fmt.Fprintln(a.out, "No repositories found.")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREPOSITORY")
			for _, r := range repos {
				fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Label())
			}
			return w.Flush()
		},
	}
	search.Flags().IntVar(&limit, "limit", 0, "maximum number of results (server default when 0)")

	cmd.AddCommand(search)
	return cmd
}
