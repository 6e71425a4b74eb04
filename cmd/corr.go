package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	"github.com/KaramelBytes/edaloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	corrMethod    string
	corrMin       float64
	corrMax       float64
	corrPrecision int
	corrHide      bool
	corrFormat    string
	corrOutput    string
	corrLoad      loadFlags
)

var corrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "Render a styled, threshold-filtered correlation matrix of the numeric columns",
	Example: `  edaloom corr harvest.csv
  edaloom corr harvest.csv --min 0.5
  edaloom corr harvest.csv --max -0.3 --method spearman
  edaloom corr harvest.xlsx --hide-blanks-ones --format xlsx -o corr.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		f := cmd.Flags()
		opt := analysis.DefaultStyleOptions()
		opt.Precision = c.CorrPrecision
		opt.MinThreshold = c.CorrMinThreshold
		opt.MaxThreshold = c.CorrMaxThreshold
		opt.HideBlanksOnes = c.CorrHideBlanksOnes
		methodName := c.CorrMethod
		if f.Changed("method") {
			methodName = corrMethod
		}
		if f.Changed("min") {
			opt.MinThreshold = corrMin
		}
		if f.Changed("max") {
			opt.MaxThreshold = corrMax
		}
		if f.Changed("precision") {
			opt.Precision = corrPrecision
		}
		if f.Changed("hide-blanks-ones") {
			opt.HideBlanksOnes = corrHide
		}
		if opt.MinThreshold > opt.MaxThreshold {
			return fmt.Errorf("--min %g is greater than --max %g", opt.MinThreshold, opt.MaxThreshold)
		}
		m, err := analysis.ParseMethod(methodName)
		if err != nil {
			return err
		}
		opt.Method = m

		t, err := corrLoad.load(args[0])
		if err != nil {
			return err
		}
		sm, err := analysis.StyleCorrMatrix(t, opt)
		if err != nil {
			return err
		}
		slog.Debug("styled matrix", "file", t.Name, "columns", len(sm.Columns), "retained", sm.Retained())

		var out []byte
		switch strings.ToLower(corrFormat) {
		case "md", "markdown":
			out = []byte(sm.Markdown())
		case "html":
			out = []byte(sm.HTML())
		case "json":
			b, err := utils.PrettyJSON(sm)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		case "xlsx":
			if corrOutput == "" {
				return fmt.Errorf("--format xlsx requires --output")
			}
			var buf bytes.Buffer
			if err := sm.WriteXLSX(&buf); err != nil {
				return err
			}
			out = buf.Bytes()
		default:
			return fmt.Errorf("unsupported --format: %s (use md|html|json|xlsx)", corrFormat)
		}

		if corrOutput != "" {
			if err := utils.SafeWriteFile(corrOutput, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote correlation matrix to %s\n", corrOutput)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrCmd.Flags().StringVar(&corrMethod, "method", "pearson", "correlation method: pearson|spearman|kendall")
	corrCmd.Flags().Float64Var(&corrMin, "min", -1, "minimum correlation to keep (inclusive)")
	corrCmd.Flags().Float64Var(&corrMax, "max", 1, "maximum correlation to keep (inclusive)")
	corrCmd.Flags().IntVar(&corrPrecision, "precision", 2, "decimal places to display")
	corrCmd.Flags().BoolVar(&corrHide, "hide-blanks-ones", false, "show each pair once: hide the diagonal and upper triangle")
	corrCmd.Flags().StringVar(&corrFormat, "format", "md", "output format: md|html|json|xlsx")
	corrCmd.Flags().StringVarP(&corrOutput, "output", "o", "", "optional path to write the matrix")
	corrLoad.register(corrCmd)
}
