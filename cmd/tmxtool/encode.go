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

type encodeCmd struct {
	encoding    string
	compression string
}

func (*encodeCmd) Name() string     { return "encode" }
func (*encodeCmd) Synopsis() string { return "re-encode a tile layer's data" }
func (*encodeCmd) Usage() string {
	return "tmxtool encode [-e csv|base64] [-c none|zlib|gzip] <map.tmx> <layer>\n"
}

func (c *encodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.encoding, "e", "base64", "target encoding (csv, base64)")
	f.StringVar(&c.compression, "c", "zlib", "target compression for base64 (none, zlib, gzip)")
}

func (c *encodeCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	enc := tiled.Encoding(c.encoding)
	comp := tiled.Compression(c.compression)
	if comp == "none" || enc == tiled.EncodingCSV {
		comp = tiled.CompressionNone
	}

	m, err := e.assets.LoadMap(f.Arg(0))
	if err != nil {
		logger.Error("loading map failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	l, ok := m.TileLayerByName(f.Arg(1))
	if !ok {
		fmt.Fprintf(os.Stderr, "no tile layer named %q\n", f.Arg(1))
		return subcommands.ExitFailure
	}

	payload, err := tiled.EncodeTileData(l.Tiles, l.Width, enc, comp)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// Prove the payload reads back before handing it out.
	back, err := tiled.DecodeTileData(payload, enc, comp, len(l.Tiles))
	if err != nil {
		logger.Error("re-encoded data does not decode", zap.Error(err))
		return subcommands.ExitFailure
	}
	for i := range back {
		if back[i] != l.Tiles[i] {
			logger.Error("re-encoded data differs", zap.Int("index", i))
			return subcommands.ExitFailure
		}
	}

	fmt.Printf("<data encoding=%q", enc)
	if comp != tiled.CompressionNone {
		fmt.Printf(" compression=%q", comp)
	}
	fmt.Printf(">\n%s\n</data>\n", payload)
	return subcommands.ExitSuccess
}
