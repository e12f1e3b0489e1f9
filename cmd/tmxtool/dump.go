package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/internal/logger"
	"github.com/Faultbox/tiledmap/pkg/tiled"
)

type dumpCmd struct{}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "print a tile layer as a grid" }
func (*dumpCmd) Usage() string {
	return "tmxtool dump <map.tmx> [layer]\n  Without a layer name every tile layer is printed.\n"
}
func (*dumpCmd) SetFlags(*flag.FlagSet) {}

func (c *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	m, err := e.assets.LoadMap(f.Arg(0))
	if err != nil {
		logger.Error("loading map failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	layers := m.TileLayers()
	if f.NArg() == 2 {
		l, ok := m.TileLayerByName(f.Arg(1))
		if !ok {
			fmt.Fprintf(os.Stderr, "no tile layer named %q\n", f.Arg(1))
			return subcommands.ExitFailure
		}
		layers = []*tiled.TileLayer{l}
	}

	for i, l := range layers {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("# %s (%dx%d)\n", l.Name, l.Width, l.Height)
		grid, err := tiled.EncodeTileData(l.Tiles, l.Width, tiled.EncodingCSV, tiled.CompressionNone)
		if err != nil {
			logger.Error("encoding layer failed", zap.String("layer", l.Name), zap.Error(err))
			return subcommands.ExitFailure
		}
		fmt.Println(grid)
	}
	return subcommands.ExitSuccess
}
