package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/edaloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edaloom",
	Short: "EDALoom CLI: correlation matrices, tick labels and normality checks for tabular data",
	Long: `EDALoom is a CLI tool for quick exploratory data analysis of CSV/TSV/XLSX files:
styled correlation matrices, abbreviated chart tick labels, and Shapiro-Wilk/Bartlett
tests with Q-Q plots per group.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edaloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		setupLogging("info")
		return
	}
	cfg = c
	setupLogging(cfg.LogLevel)
	slog.Debug("config loaded", "output_dir", cfg.OutputDir, "corr_method", cfg.CorrMethod)
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if debug {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// activeConfig returns the loaded configuration or built-in defaults.
func activeConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return &cfgpkg.Global{CorrMethod: "pearson", CorrPrecision: 2, CorrMinThreshold: -1, CorrMaxThreshold: 1,
			PanelWidth: 360, PanelHeight: 360, MaxRows: 100000, OutputDir: "output"}
	}
	cfg = c
	return cfg
}
