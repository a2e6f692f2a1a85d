// Package cli implements the teamctl commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/daap14/repoteams/internal/client"
	"github.com/daap14/repoteams/internal/config"
	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// app carries what every subcommand needs once the root has loaded the config.
type app struct {
	cfgFile string
	verbose bool

	out    io.Writer
	errOut io.Writer

	cfg      *config.ClientConfig
	api      *client.Client
	notifier notify.Notifier
}

// NewRootCmd builds the teamctl command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "teamctl",
		Short: "Manage repository teams",
		Long: `teamctl groups an organization's repositories into teams. Teams are
used to aggregate metrics across the repositories they own.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", ".teamctl.yml", "config file path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newTeamsCmd(a))
	root.AddCommand(newReposCmd(a))
	root.AddCommand(newSettingsCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level})))

	cfg, err := config.LoadClient(a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	api, err := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}
	a.api = api
	a.notifier = notify.NewConsole(a.errOut)

	slog.Debug("config loaded", "api", cfg.APIURL, "org", cfg.OrgName, "provider", cfg.Provider)
	return nil
}

func (a *app) org() team.Organization {
	return a.cfg.Organization()
}

func (a *app) provider() team.Provider {
	return team.Provider(a.cfg.Provider)
}
