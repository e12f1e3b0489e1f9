package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/internal/logger"
	"github.com/Faultbox/tiledmap/pkg/tiled"
)

type tileCmd struct{}

func (*tileCmd) Name() string     { return "tile" }
func (*tileCmd) Synopsis() string { return "resolve the tile at a cell of a layer" }
func (*tileCmd) Usage() string {
	return "tmxtool tile <map.tmx> <layer> <x> <y>\n"
}
func (*tileCmd) SetFlags(*flag.FlagSet) {}

func (c *tileCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if f.NArg() != 4 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	x, errX := strconv.Atoi(f.Arg(2))
	y, errY := strconv.Atoi(f.Arg(3))
	if errX != nil || errY != nil {
		fmt.Fprintf(os.Stderr, "invalid coordinate %s,%s\n", f.Arg(2), f.Arg(3))
		return subcommands.ExitUsageError
	}

	m, err := e.assets.LoadMap(f.Arg(0))
	if err != nil {
		logger.Error("loading map failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	layer, ok := m.TileLayerByName(f.Arg(1))
	if !ok {
		fmt.Fprintf(os.Stderr, "no tile layer named %q\n", f.Arg(1))
		return subcommands.ExitFailure
	}

	gid, err := m.TileAt(layer, x, y)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ref, err := m.Resolve(gid)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("(%d,%d) in %q: gid %s\n", x, y, layer.Name, gid)
	if ref.IsEmpty() {
		fmt.Println("  empty")
		return subcommands.ExitSuccess
	}
	printTileRef(ref)
	return subcommands.ExitSuccess
}

func printTileRef(ref tiled.TileRef) {
	ts := ref.Tileset
	fmt.Printf("  tileset: %s (first gid %d)\n", ts.Name, ts.FirstGID)
	fmt.Printf("  local id: %d\n", ref.LocalID)
	if ref.Flags != 0 {
		fmt.Printf("  flags: %s\n", flagNames(ref.Flags))
	}
	if r, ok := ts.TileRect(ref.LocalID); ok {
		fmt.Printf("  source rect: %d,%d %dx%d in %s\n", r.Min.X, r.Min.Y, r.Dx(), r.Dy(), ts.Image.Source)
	}

	t, ok := ts.Tile(ref.LocalID)
	if !ok {
		return
	}
	if t.Type != "" {
		fmt.Printf("  type: %s\n", t.Type)
	}
	if t.Image != nil {
		fmt.Printf("  image: %s\n", t.Image.Source)
	}
	for _, fr := range t.Animation {
		fmt.Printf("  frame: tile %d for %s\n", fr.TileID, fr.Duration)
	}
	for name, p := range t.Properties {
		fmt.Printf("  property %s (%s) = %s\n", name, p.Type, p.Raw)
	}
}

func flagNames(f tiled.GlobalTileID) string {
	var s string
	add := func(bit tiled.GlobalTileID, name string) {
		if f&bit == 0 {
			return
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	add(tiled.FlipHorizontal, "horizontal")
	add(tiled.FlipVertical, "vertical")
	add(tiled.FlipDiagonal, "diagonal")
	add(tiled.RotateHex120, "hex120")
	return s
}
