package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/edaloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set EDALoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "corr_method: %s\n", c.CorrMethod)
		fmt.Fprintf(out, "corr_precision: %d\n", c.CorrPrecision)
		fmt.Fprintf(out, "corr_min_threshold: %g\n", c.CorrMinThreshold)
		fmt.Fprintf(out, "corr_max_threshold: %g\n", c.CorrMaxThreshold)
		fmt.Fprintf(out, "corr_hide_blanks_ones: %t\n", c.CorrHideBlanksOnes)
		fmt.Fprintf(out, "panel_width: %d\n", c.PanelWidth)
		fmt.Fprintf(out, "panel_height: %d\n", c.PanelHeight)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		if c.LogLevel != "" {
			fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "corr_method":
			m, err := analysis.ParseMethod(val)
			if err != nil {
				return err
			}
			cfg.CorrMethod = string(m)
		case "corr_precision":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for corr_precision: %v", val)
			}
			cfg.CorrPrecision = i
		case "corr_min_threshold", "corr_max_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "corr_min_threshold" {
				cfg.CorrMinThreshold = f
			} else {
				cfg.CorrMaxThreshold = f
			}
		case "corr_hide_blanks_ones":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for corr_hide_blanks_ones: %w", err)
			}
			cfg.CorrHideBlanksOnes = b
		case "panel_width", "panel_height", "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "panel_width":
				cfg.PanelWidth = i
			case "panel_height":
				cfg.PanelHeight = i
			default:
				cfg.MaxRows = i
			}
		case "output_dir":
			cfg.OutputDir = val
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
