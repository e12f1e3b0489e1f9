package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/internal/logger"
	"github.com/Faultbox/tiledmap/internal/mapdb"
	"github.com/Faultbox/tiledmap/pkg/tiled"
)

type cellCmd struct{}

func (*cellCmd) Name() string     { return "cell" }
func (*cellCmd) Synopsis() string { return "read cells back from an exported database" }
func (*cellCmd) Usage() string {
	return `tmxtool cell <maps.db>                          list stored maps
tmxtool cell <maps.db> <map> <layer>            list stored cells of a layer
tmxtool cell <maps.db> <map> <layer> <x> <y>    print one cell
`
}
func (*cellCmd) SetFlags(*flag.FlagSet) {}

func (c *cellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch f.NArg() {
	case 1, 3, 5:
	default:
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	r, err := mapdb.NewReader(f.Arg(0))
	if err != nil {
		logger.Error("opening database failed", zap.String("path", f.Arg(0)), zap.Error(err))
		return subcommands.ExitFailure
	}
	defer r.Close()

	if err := queryCells(os.Stdout, r, f.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// queryCells prints the maps of the database, the cells of one layer or a
// single cell, depending on how many of map, layer, x and y are given.
func queryCells(w io.Writer, r *mapdb.Reader, args []string) error {
	maps, err := r.Maps()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		for _, p := range maps {
			fmt.Fprintln(w, p)
		}
		return nil
	}
	if len(args) != 2 && len(args) != 4 {
		return fmt.Errorf("expected <map> <layer> [<x> <y>], got %d arguments", len(args))
	}

	mapPath, layer := args[0], args[1]
	if !slices.Contains(maps, mapPath) {
		return fmt.Errorf("map %q is not in the database", mapPath)
	}

	if len(args) == 2 {
		return r.VisitCells(mapPath, layer, func(x, y int, gid tiled.GlobalTileID) error {
			_, err := fmt.Fprintf(w, "%d,%d %s\n", x, y, gid)
			return err
		})
	}

	x, errX := strconv.Atoi(args[2])
	y, errY := strconv.Atoi(args[3])
	if errX != nil || errY != nil {
		return fmt.Errorf("invalid coordinate %s,%s", args[2], args[3])
	}
	gid, err := r.ReadCell(mapPath, layer, x, y)
	if err != nil {
		return err
	}
	if gid.IsEmpty() {
		fmt.Fprintf(w, "%d,%d empty\n", x, y)
		return nil
	}
	fmt.Fprintf(w, "%d,%d %s", x, y, gid)
	if flags := gid.Flags(); flags != 0 {
		fmt.Fprintf(w, " (%s)", flagNames(flags))
	}
	fmt.Fprintln(w)
	return nil
}
