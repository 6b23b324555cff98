package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/jasyptor/internal/pbe"
	"github.com/PolarWolf314/jasyptor/internal/ui"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the supported PBE algorithms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, alg := range pbe.SupportedAlgorithms() {
			line := ui.Token.Sprint(alg)
			if alg == pbe.DefaultAlgorithm {
				line += " " + ui.Muted.Sprint("default")
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	},
}
