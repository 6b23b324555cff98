package cmd

import (
	"errors"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/PolarWolf314/jasyptor/internal/logging"
	"github.com/PolarWolf314/jasyptor/internal/ui"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "jasyptor",
		Short: "Encrypt and decrypt ENC(...) values in Spring configuration files",
		Long: `jasyptor rewrites the ENC(...) placeholders in YAML and .properties
files with Jasypt-compatible password-based encryption.

A placeholder holding ciphertext is decrypted and written back as the bare
plaintext, without the ENC(...) wrapper. Any other placeholder is encrypted
and stays wrapped. Everything outside the placeholders is left exactly as
it was.

The password and algorithm come from the file's own jasypt.encryptor
section, or from the application.yml / application.properties next to it.
Passwords may reference the environment as ${NAME} or ${NAME:default}.

Examples:
  # Encrypt or decrypt every placeholder under src/main/resources
  jasyptor process src/main/resources

  # Preview without writing
  jasyptor process --dry-run config/application.yml

  # Encrypt a single value
  jasyptor encrypt --config src/main/resources/application.yml 'db-password'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewColorFigure("jasyptor", "small", "green", true)
			fmt.Fprintln(cmd.OutOrStdout(), banner.ColorString())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Run %s to see available commands.\n", ui.Arrow(), ui.Code.Sprint("jasyptor --help"))
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(processCmd)
	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(resolveCmd)
	RootCmd.AddCommand(algorithmsCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(logCmd)
}

// reportedError is an error whose message the command already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	return reportedError{err}
}

// IsReported reports whether err was already shown to the user, so the
// caller only needs to set the exit code.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetProcessState()
	resetValueState()
	resetResolveState()
	resetLogState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState marks every flag of c and its subcommands as unset so
// one test's flags do not leak into the next.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
