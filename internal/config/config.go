package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Correlation matrix defaults
	CorrMethod         string  `mapstructure:"corr_method" yaml:"corr_method"`
	CorrPrecision      int     `mapstructure:"corr_precision" yaml:"corr_precision"`
	CorrMinThreshold   float64 `mapstructure:"corr_min_threshold" yaml:"corr_min_threshold"`
	CorrMaxThreshold   float64 `mapstructure:"corr_max_threshold" yaml:"corr_max_threshold"`
	CorrHideBlanksOnes bool    `mapstructure:"corr_hide_blanks_ones" yaml:"corr_hide_blanks_ones"`

	// Q-Q figure geometry, per panel
	PanelWidth  int `mapstructure:"panel_width" yaml:"panel_width"`
	PanelHeight int `mapstructure:"panel_height" yaml:"panel_height"`

	// Loading
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows"`

	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns ~/.edaloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edaloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edaloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDALOOM")
	v.AutomaticEnv()

	v.SetDefault("corr_method", "pearson")
	v.SetDefault("corr_precision", 2)
	v.SetDefault("corr_min_threshold", -1.0)
	v.SetDefault("corr_max_threshold", 1.0)
	v.SetDefault("corr_hide_blanks_ones", false)
	v.SetDefault("panel_width", 360)
	v.SetDefault("panel_height", 360)
	v.SetDefault("max_rows", 100000)
	v.SetDefault("output_dir", "")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.OutputDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.OutputDir = filepath.Join(dir, "output")
	}
	return &c, nil
}
