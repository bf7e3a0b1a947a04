package config

import "github.com/spf13/viper"

// GridConfig holds the tunable grid dimensions for custom-mode tables.
type GridConfig struct {
	MaxDepth             float64 `mapstructure:"max_depth"`
	DepthStep            float64 `mapstructure:"depth_step"`
	DeepDepthStep        float64 `mapstructure:"deep_depth_step"`
	DeepDepthStart       float64 `mapstructure:"deep_depth_start"`
	MaxDistance          float64 `mapstructure:"max_distance"`
	DistanceStep         float64 `mapstructure:"distance_step"`
	RegionalDistanceStep float64 `mapstructure:"regional_distance_step"`
}

// Config holds all runtime configuration for a ttgen run.
// Values are populated from .ttgen.yaml, TTGEN_* env vars, and CLI flags.
type Config struct {
	Model         string     `mapstructure:"model"`
	Prefix        string     `mapstructure:"prefix"`
	OutputDir     string     `mapstructure:"output_dir"`
	Mode          string     `mapstructure:"mode"`
	OraclePath    string     `mapstructure:"oracle_path"`
	Workers       int        `mapstructure:"workers"`
	CachePath     string     `mapstructure:"cache_path"`
	TelemetryPath string     `mapstructure:"telemetry_path"`
	Verbose       bool       `mapstructure:"verbose"`
	Grid          GridConfig `mapstructure:"grid"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("model", "iasp91")
	viper.SetDefault("prefix", "")
	viper.SetDefault("output_dir", "tables")
	viper.SetDefault("mode", "default")
	viper.SetDefault("oracle_path", "ttimes")
	viper.SetDefault("workers", 0)
	viper.SetDefault("cache_path", "")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("grid.max_depth", 800.0)
	viper.SetDefault("grid.depth_step", 5.0)
	viper.SetDefault("grid.deep_depth_step", 50.0)
	viper.SetDefault("grid.deep_depth_start", 100.0)
	viper.SetDefault("grid.max_distance", 180.0)
	viper.SetDefault("grid.distance_step", 1.0)
	viper.SetDefault("grid.regional_distance_step", 0.2)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
