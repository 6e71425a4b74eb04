package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var ticksCmd = &cobra.Command{
	Use:   "ticks <value>...",
	Short: "Print axis tick labels, abbreviating thousands as K",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", a, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), analysis.FormatYTicks(v))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ticksCmd)
}
