package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/jasyptor/internal/ui"
	"github.com/PolarWolf314/jasyptor/internal/workflows"
)

var (
	logLimit      int
	logReverse    bool
	logOperations string
	logSince      string
	logUntil      string
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show at most this many entries")
	logCmd.Flags().BoolVarP(&logReverse, "reverse", "r", false, "most recent first")
	logCmd.Flags().StringVar(&logOperations, "operation", "", "only these operations (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "only entries on or after this date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "only entries on or before this date (YYYY-MM-DD)")
}

func resetLogState() {
	logLimit = 0
	logReverse = false
	logOperations = ""
	logSince = ""
	logUntil = ""
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show past process runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")
		paths, err := loadPaths()
		if err != nil {
			return err
		}

		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			AuditPath:  paths.AuditPath,
			Limit:      logLimit,
			Reverse:    logReverse,
			Operations: logOperations,
			Since:      logSince,
			Until:      logUntil,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Entries) == 0 {
			fmt.Fprintf(out, "%s No runs recorded in %s\n", ui.Arrow(), ui.Path.Sprint(paths.AuditPath))
			return nil
		}
		for _, e := range result.Entries {
			id := e.RunID
			if len(id) > 8 {
				id = id[:8]
			}
			fmt.Fprintf(out, "%s  %-8s %s  %s\n", workflows.FormatDateTime(e.Timestamp), e.Operation, ui.Muted.Sprint(id), workflows.FormatDetails(e))
		}
		return nil
	},
}
