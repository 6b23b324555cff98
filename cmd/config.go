package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/jasyptor/internal/configs"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/utils"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jasyptor preferences",
	Long: `Manages the preferences stored in <user config dir>/jasyptor/config.toml.

Keys:
  password    default password for encrypt and decrypt
  algorithm   default algorithm for encrypt and decrypt
  workers     default --workers for process
  audit       record process runs in the audit log (true/false)

Examples:
  jasyptor config set algorithm PBEWithHMACSHA256AndAES_128
  jasyptor config set password        # prompts
  jasyptor config unset password
  jasyptor config show`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
	ConfigCmd.AddCommand(configUnsetCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		prefs, paths, err := loadPreferences()
		if err != nil {
			return err
		}

		all, err := prefs.All()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read %s: %v", paths.PreferencesPath, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Preferences %s\n", ui.Arrow(), ui.Muted.Sprint(paths.PreferencesPath))
		if len(all) == 0 {
			fmt.Fprintf(out, "    none set, run %s\n", ui.Code.Sprint("jasyptor config set <key> <value>"))
			return nil
		}
		for _, key := range configs.Keys() {
			v, ok := all[key]
			if !ok {
				continue
			}
			if key == configs.KeyPassword {
				v = utils.MaskSecret(v)
			}
			fmt.Fprintf(out, "    %-10s %s\n", key+":", v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a preference",
	Long: `Sets a preference. When the key is password and no value is given, the
password is prompted for without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")
		key := args[0]

		var value string
		switch {
		case len(args) == 2:
			value = args[1]
		case key == configs.KeyPassword:
			pw, err := utils.ReadPassphrase("Password to remember: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			value = string(pw)
		default:
			return fmt.Errorf("missing value for %s", ui.Highlight.Sprint(key))
		}

		prefs, paths, err := loadPreferences()
		if err != nil {
			return err
		}
		if err := prefs.Set(key, value); err != nil {
			if errors.Is(err, kerrors.ErrUnknownPreference) || errors.Is(err, kerrors.ErrInvalidPreference) {
				return err
			}
			return Logger.ErrorfAndReturn("failed to save %s: %v", paths.PreferencesPath, err)
		}

		if key == configs.KeyPassword {
			Logger.WarnfAlways("The password is stored in plain text in %s", paths.PreferencesPath)
			value = utils.MaskSecret(value)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s to %s\n", ui.Check(), ui.Highlight.Sprint(key), value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config unset command")
		prefs, _, err := loadPreferences()
		if err != nil {
			return err
		}
		if err := prefs.Unset(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Unset %s\n", ui.Check(), ui.Highlight.Sprint(args[0]))
		return nil
	},
}
