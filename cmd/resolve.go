package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/utils"
	"github.com/PolarWolf314/jasyptor/internal/workflows"
)

var resolveEnvFiles []string

func init() {
	resolveCmd.Flags().StringArrayVar(&resolveEnvFiles, "env-file", nil, "dotenv file consulted for ${NAME} passwords (repeatable)")
}

func resetResolveState() {
	resolveEnvFiles = nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Show which jasypt settings apply to a file",
	Long: `Shows the encryption settings process would use for a file and the file
they come from. The password is masked.

The file's own jasypt.encryptor section is used first, then
application.yml and application.yaml next to it (for YAML files) or
application.properties and application.yml (for .properties files).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting resolve command")

		env, err := buildEnv(resolveEnvFiles)
		if err != nil {
			return err
		}

		result, err := workflows.Resolve(cmd.Context(), workflows.ResolveOptions{Path: args[0], Env: env})
		out := cmd.OutOrStdout()
		if err != nil {
			if errors.Is(err, kerrors.ErrConfigNotFound) && result != nil {
				fmt.Fprintf(out, "%s No %s found for %s\n", ui.Cross(), ui.Code.Sprint("jasypt.encryptor.password"), ui.Path.Sprint(args[0]))
				fmt.Fprintf(out, "%s Searched:%s", ui.Arrow(), utils.FormatPaths(result.Searched))
				return reported(err)
			}
			return fmt.Errorf("%s %w", ui.Kind.Sprint(kerrors.Kind(err)), err)
		}

		cfg := result.Config
		var b strings.Builder
		fmt.Fprintf(&b, "%s Settings for %s\n", ui.Check(), ui.Path.Sprint(result.Path))
		row := func(k, v string) { fmt.Fprintf(&b, "    %-16s %s\n", k+":", v) }
		row("source", ui.Path.Sprint(result.Source))
		row("password", utils.MaskSecret(cfg.Password))
		row("algorithm", ui.Token.Sprint(cfg.Algorithm))
		row("salt generator", cfg.SaltGenerator)
		row("iv generator", cfg.IVPolicy())
		row("iterations", fmt.Sprint(cfg.Iterations))
		row("pool size", fmt.Sprint(cfg.PoolSize))
		row("output", cfg.OutputType)
		fmt.Fprint(out, b.String())
		return nil
	},
}
