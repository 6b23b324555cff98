package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/jasyptor/internal/configs"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/utils"
	"github.com/PolarWolf314/jasyptor/internal/workflows"
)

var (
	processDryRun   bool
	processWorkers  int
	processEnvFiles []string
	processNoAudit  bool
)

func init() {
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "show what would change without writing any file")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "number of files to process at once (default from preferences, else 1)")
	processCmd.Flags().StringArrayVar(&processEnvFiles, "env-file", nil, "dotenv file consulted for ${NAME} passwords (repeatable)")
	processCmd.Flags().BoolVar(&processNoAudit, "no-audit", false, "do not record this run in the audit log")
}

func resetProcessState() {
	processDryRun = false
	processWorkers = 0
	processEnvFiles = nil
	processNoAudit = false
}

var processCmd = &cobra.Command{
	Use:   "process [paths...]",
	Short: "Encrypt or decrypt every ENC(...) value in the given files",
	Long: `Rewrites every ENC(...) placeholder in the given YAML and .properties
files. Directories are searched recursively and doublestar globs such as
'config/**/*.yml' are expanded. With no arguments the current directory is
processed.

A placeholder holding ciphertext for the file's settings is replaced by its
bare plaintext. Any other placeholder is encrypted and stays wrapped in
ENC(...).

Files without a jasypt.encryptor.password in their resolution chain are
skipped. Broken settings, such as an empty password, fail the file even when
it has no placeholders. A failing file never stops the others and is never
partially written.

Examples:
  # Process a resources directory
  jasyptor process src/main/resources

  # Preview a set of files
  jasyptor process --dry-run 'config/**/*.yml'

  # Take ${JASYPT_PASSWORD} from a dotenv file
  jasyptor process --env-file .env application.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting process command")
		Logger.Debugf("Flags: dry-run=%t, workers=%d, env-files=%v, no-audit=%t", processDryRun, processWorkers, processEnvFiles, processNoAudit)

		prefs, paths, err := loadPreferences()
		if err != nil {
			return err
		}

		workers := processWorkers
		if !cmd.Flags().Changed("workers") {
			workers = configs.Int(prefs, configs.KeyWorkers, 1)
		}
		auditPath := ""
		if !processNoAudit && configs.Bool(prefs, configs.KeyAudit, true) {
			auditPath = paths.AuditPath
		}

		env, err := buildEnv(processEnvFiles)
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Processing configuration files...", cmd.OutOrStdout())
		defer cleanup()

		result, err := workflows.Process(cmd.Context(), workflows.ProcessOptions{
			Paths:     args,
			DryRun:    processDryRun,
			Workers:   workers,
			Env:       env,
			Logger:    Logger,
			AuditPath: auditPath,
			Progress: func(done, total int) {
				setSpinnerSuffix(s, fmt.Sprintf("Processing configuration files (%d/%d)...", done, total))
			},
		})
		if err != nil && result == nil {
			switch {
			case errors.Is(err, kerrors.ErrFileNotFound):
				s.FinalMSG = ui.Cross() + " " + err.Error()
			case errors.Is(err, kerrors.ErrNoFilesFound):
				s.FinalMSG = ui.Cross() + " No " + ui.Path.Sprint(".yml") + ", " + ui.Path.Sprint(".yaml") +
					" or " + ui.Path.Sprint(".properties") + " files found in " + ui.Path.Sprint(strings.Join(args, ", "))
			default:
				return Logger.ErrorfAndReturn("failed to process files: %v", err)
			}
			return reported(err)
		}

		s.FinalMSG = formatProcessResult(result)
		if err != nil {
			return reported(err)
		}
		if n := len(result.Failures()); n > 0 {
			return reported(fmt.Errorf("%d of %d files failed", n, result.Total()))
		}
		return nil
	},
}

// formatProcessResult renders the batch summary: totals, changed files and
// itemised failures.
func formatProcessResult(r *workflows.ProcessResult) string {
	var b strings.Builder

	changed := r.ChangedFiles()
	failures := r.Failures()
	skipped := r.Skipped()

	verb := "Rewrote"
	if r.DryRun {
		verb = "Would rewrite"
	}

	mark := ui.Check()
	if len(failures) > 0 {
		mark = ui.Cross()
	}
	fmt.Fprintf(&b, "%s Processed %d files: %d changed, %d skipped, %d failed\n",
		mark, r.Total(), len(changed), len(skipped), len(failures))

	if len(changed) > 0 {
		b.WriteString(verb + ":" + utils.FormatPaths(changed))
	}

	if len(skipped) > 0 && (verbose || debug) {
		b.WriteString("Skipped:\n")
		for _, f := range skipped {
			fmt.Fprintf(&b, "    - %s %s\n", ui.Path.Sprint(f.Path), ui.Muted.Sprint(f.Kind()))
		}
	}

	if len(failures) > 0 {
		b.WriteString("Failed:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "    %s %s %s %v\n", ui.Cross(), ui.Path.Sprint(f.Path), ui.Kind.Sprint(f.Kind()), f.Err)
		}
	}

	if r.DryRun {
		fmt.Fprintf(&b, "%s Dry run, no files were written\n", ui.Arrow())
	} else if len(changed) > 0 && r.RunID != "" {
		fmt.Fprintf(&b, "%s Recorded as run %s\n", ui.Arrow(), ui.Muted.Sprint(r.RunID))
	}

	return b.String()
}
