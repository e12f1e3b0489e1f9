package config

import (
	"flag"
	"strings"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Also write logs to this file")
	flagTilesetPath = flag.String("tileset-path", "", "Extra tileset search paths, separated by commas")
	flagFormat      = flag.String("format", "", "Output format: text or yaml")
	flagNoCache     = flag.Bool("no-cache", false, "Parse external tilesets again for every map")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagTilesetPath != "" {
		for _, p := range strings.Split(*flagTilesetPath, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Assets.SearchPaths = append(cfg.Assets.SearchPaths, p)
			}
		}
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagNoCache {
		cfg.Assets.CacheTilesets = false
	}
}
