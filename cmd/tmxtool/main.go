// tmxtool inspects and validates Tiled maps.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Faultbox/tiledmap/internal/assets"
	"github.com/Faultbox/tiledmap/internal/config"
	"github.com/Faultbox/tiledmap/internal/logger"
)

// env is handed to every subcommand.
type env struct {
	cfg    *config.Config
	assets *assets.Manager
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&infoCmd{}, "inspect")
	subcommands.Register(&tileCmd{}, "inspect")
	subcommands.Register(&dumpCmd{}, "inspect")
	subcommands.Register(&encodeCmd{}, "convert")
	subcommands.Register(&checkCmd{}, "validate")
	subcommands.Register(&exportCmd{}, "convert")
	subcommands.Register(&cellCmd{}, "inspect")
	subcommands.Register(&configCmd{}, "")

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("config: %+v", cfg)

	mgr := assets.NewManager(cfg.Assets.CacheTilesets, logger.Named("assets"))
	defer mgr.Close()
	for _, p := range cfg.Assets.SearchPaths {
		mgr.AddSearchPath(p)
	}

	status := subcommands.Execute(context.Background(), &env{cfg: cfg, assets: mgr})
	logger.Sync()
	os.Exit(int(status))
}

// envFrom extracts the shared environment passed to Execute.
func envFrom(args []interface{}) *env {
	return args[0].(*env)
}
