package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daap14/repoteams/internal/team"
	"github.com/daap14/repoteams/internal/teamcrud"
)

func newTeamsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List, inspect and create teams",
	}
	cmd.AddCommand(newTeamsListCmd(a), newTeamsShowCmd(a), newTeamsCreateCmd(a))
	return cmd
}

func (a *app) newCRUD(opts ...teamcrud.Option) *teamcrud.CRUD {
	return teamcrud.New(teamcrud.Deps{
		API:         a.api,
		Notifier:    a.notifier,
		Org:         a.org(),
		Provider:    a.provider(),
		SearchDelay: a.cfg.SearchDelay,
	}, opts...)
}

func newTeamsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the organization's teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.newCRUD()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}

			teams := c.Teams()
			if len(teams) == 0 {
				fmt.Fprintln(a.out, "No teams.")
				return nil
			}
			sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREPOS")
			for _, t := range teams {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.ID, t.Name, len(c.Store().TeamRepos(t.ID)))
			}
			return w.Flush()
		},
	}
}

func newTeamsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <team-id>",
		Short: "Show a team and its repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}

			c := a.newCRUD()
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			t, ok := c.Store().Team(id)
			if !ok {
				return fmt.Errorf("team %s not found", id)
			}

			fmt.Fprintf(a.out, "%s (%s)\n", t.Name, t.ID)
			for _, r := range c.Store().TeamRepos(id) {
				fmt.Fprintf(a.out, "  %s\n", r.Label())
			}
			return nil
		},
	}
}

func newTeamsCreateCmd(a *app) *cobra.Command {
	var (
		name    string
		queries []string
		from    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team from repository searches",
		Long: `Create a team. Each --repo is searched in the organization's repositories
and must resolve to a single repository: an exact id, slug or name match, or
the only search result. --from starts from the repositories of an existing team;
--name is then required and must differ from that team's name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []teamcrud.Option
			if from != "" {
				id, err := uuid.Parse(from)
				if err != nil {
					return fmt.Errorf("invalid --from team id %q", from)
				}
				opts = append(opts, teamcrud.WithEditingTeam(id))
			}

			c := a.newCRUD(opts...)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			if c.IsEditing() && c.EditingTeam() == nil {
				return fmt.Errorf("team %s not found", from)
			}

			if cmd.Flags().Changed("name") || !c.IsEditing() {
				c.SetTeamName(name)
			}
			if src := c.EditingTeam(); src != nil && strings.TrimSpace(c.TeamName()) == src.Name {
				return fmt.Errorf("team %q already exists: pass --name for the new team", src.Name)
			}

			for _, q := range queries {
				if err := c.SearchRepos(cmd.Context(), q); err != nil {
					return err
				}
				repo, err := resolveRepo(q, c.RepoOptions())
				if err != nil {
					return err
				}
				c.SelectRepo(repo)
			}

			var created *team.Team
			if err := c.Save(cmd.Context(), func(t *team.Team) { created = t }); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created team %s (%s) with %d repositories\n", created.Name, created.ID, created.Repos.Count())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "team name")
	cmd.Flags().StringArrayVar(&queries, "repo", nil, "repository to add (repeatable)")
	cmd.Flags().StringVar(&from, "from", "", "start from an existing team's repositories")
	return cmd
}

// resolveRepo picks the repository query designates among results.
func resolveRepo(query string, results []team.Repository) (team.Repository, error) {
	q := strings.TrimSpace(query)
	for _, r := range results {
		if r.ID == q || strings.EqualFold(r.Slug, q) || strings.EqualFold(r.Label(), q) {
			return r, nil
		}
	}

	var byName []team.Repository
	for _, r := range results {
		if strings.EqualFold(r.Name, q) {
			byName = append(byName, r)
		}
	}
	switch {
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) == 0 && len(results) == 1:
		return results[0], nil
	case len(results) == 0:
		return team.Repository{}, fmt.Errorf("no repository matches %q", q)
	}

	candidates := byName
	if len(candidates) == 0 {
		candidates = results
	}
	labels := make([]string, 0, len(candidates))
	for _, r := range candidates {
		labels = append(labels, r.Label())
	}
	return team.Repository{}, fmt.Errorf("%q is ambiguous: %s", q, strings.Join(labels, ", "))
}
