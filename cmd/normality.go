package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	"github.com/KaramelBytes/edaloom-cli/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	normTarget   string
	normGroup    string
	normFigure   string
	normNoFigure bool
	normJSON     string
	normWidth    int
	normHeight   int
	normLoad     loadFlags
)

var normalityCmd = &cobra.Command{
	Use:   "normality <file>",
	Short: "Shapiro-Wilk per group, Bartlett across groups, with Q-Q plots",
	Example: `  edaloom normality harvest.csv --target yield --group plot
  edaloom normality harvest.csv --target yield --group plot --figure qq.png --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		t, err := normLoad.load(args[0])
		if err != nil {
			return err
		}
		opt := analysis.DefaultNormalityOptions()
		opt.Out = cmd.OutOrStdout()
		opt.PanelWidth = c.PanelWidth
		opt.PanelHeight = c.PanelHeight
		if normWidth > 0 {
			opt.PanelWidth = normWidth
		}
		if normHeight > 0 {
			opt.PanelHeight = normHeight
		}
		rep, err := analysis.CheckNormality(t, normTarget, normGroup, opt)
		if err != nil {
			return err
		}

		if !normNoFigure {
			path := normFigure
			if path == "" {
				name := fmt.Sprintf("qq-%s-%s.png", utils.SafeBase(normTarget), uuid.NewString()[:8])
				path = filepath.Join(c.OutputDir, name)
			}
			var buf bytes.Buffer
			if err := rep.Figure.WritePNG(&buf); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
				return fmt.Errorf("write figure: %w", err)
			}
			fmt.Printf("✓ Wrote Q-Q figure to %s\n", path)
		}
		if normJSON != "" {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(normJSON, b); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
			fmt.Printf("✓ Wrote test results to %s\n", normJSON)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalityCmd)
	normalityCmd.Flags().StringVarP(&normTarget, "target", "t", "", "numeric column to test")
	normalityCmd.Flags().StringVarP(&normGroup, "group", "g", "", "column whose values partition the rows")
	normalityCmd.Flags().StringVar(&normFigure, "figure", "", "path for the Q-Q figure PNG (default <output_dir>/qq-<target>-<id>.png)")
	normalityCmd.Flags().BoolVar(&normNoFigure, "no-figure", false, "skip writing the Q-Q figure")
	normalityCmd.Flags().StringVar(&normJSON, "json", "", "optional path to write the results as JSON")
	normalityCmd.Flags().IntVar(&normWidth, "panel-width", 0, "width of each Q-Q panel in pixels (overrides config)")
	normalityCmd.Flags().IntVar(&normHeight, "panel-height", 0, "height of each Q-Q panel in pixels (overrides config)")
	_ = normalityCmd.MarkFlagRequired("target")
	_ = normalityCmd.MarkFlagRequired("group")
	normLoad.register(normalityCmd)
}
