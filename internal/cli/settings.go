package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write team settings",
	}

	var getType string
	get := &cobra.Command{
		Use:   "get <team-id>",
		Short: "Print a team setting as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}
			s, err := a.api.GetTeamSettings(cmd.Context(), id, getType)
			if err != nil {
				return err
			}
			return printJSON(a, s.SettingData)
		},
	}
	get.Flags().StringVar(&getType, "type", "", "setting type")
	_ = get.MarkFlagRequired("type")

	var setType, data string
	set := &cobra.Command{
		Use:   "set <team-id>",
		Short: "Create or replace a team setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}
			var raw json.RawMessage
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data must be valid JSON")
				}
				raw = json.RawMessage(data)
			}
			s, err := a.api.PutTeamSettings(cmd.Context(), id, setType, raw)
			if err != nil {
				return err
			}
			return printJSON(a, s.SettingData)
		},
	}
	set.Flags().StringVar(&setType, "type", "", "setting type")
	set.Flags().StringVar(&data, "data", "", "setting data as a JSON object")
	_ = set.MarkFlagRequired("type")

	cmd.AddCommand(get, set)
	return cmd
}

func printJSON(a *app, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding setting data: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}
