package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change kbadmin settings.

Settings are stored in config.toml in the configuration directory.
Each key can also be overridden with an environment variable, e.g.
backend.base_url with KBADMIN_BACKEND_BASE_URL.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Run "kbadmin settings show" for the list of keys.

Examples:
  kbadmin settings set backend.base_url http://rag.internal:8000
  kbadmin settings set backend.fallback_enabled false
  kbadmin settings set tasks.poll_interval_seconds 10`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	addOutputFlag(settingsCmd)
	addOutputFlag(settingsShowCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	return render(cmd, values, func() {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("Current Settings")
		cmd.Println("================")
		for _, k := range keys {
			v := values[k]
			if s, ok := v.(string); ok && s == "" {
				v = "(default)"
			}
			cmd.Printf("  %-30s %v\n", k, v)
		}
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}
