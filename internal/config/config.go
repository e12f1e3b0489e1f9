// Package config handles tmxtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Assets  AssetsConfig  `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AssetsConfig controls how external tilesets are found.
type AssetsConfig struct {
	SearchPaths   []string `yaml:"search_paths"`   // Extra directories for .tsx lookups
	CacheTilesets bool     `yaml:"cache_tilesets"` // Reuse parsed tilesets across maps
}

// OutputConfig controls command output.
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "yaml"
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Assets: AssetsConfig{
			SearchPaths:   nil,
			CacheTilesets: true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
