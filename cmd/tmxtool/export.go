package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/internal/logger"
	"github.com/Faultbox/tiledmap/internal/mapdb"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "store map cells in an SQLite database" }
func (*exportCmd) Usage() string {
	return "tmxtool export -o <maps.db> <path>...\n  Directories are walked for .tmx files.\n"
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output database path")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if c.output == "" || f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	paths, err := collectMaps(f.Args())
	if err != nil {
		logger.Error("collecting maps failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	w, err := mapdb.NewWriter(c.output, logger.Named("mapdb"))
	if err != nil {
		logger.Error("opening database failed", zap.String("path", c.output), zap.Error(err))
		return subcommands.ExitFailure
	}
	defer w.Close()

	bar := progressbar.NewOptions(len(paths), progressbar.OptionShowCount(), progressbar.OptionSetDescription("exporting"))
	failed := 0
	for _, p := range paths {
		if err := c.exportOne(e, w, p); err != nil {
			logger.Warn("map skipped", zap.String("path", p), zap.Error(err))
			failed++
		}
		bar.Add(1)
	}
	bar.Finish()

	if err := w.Finalize(); err != nil {
		logger.Error("indexing database failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	fmt.Printf("%d maps exported to %s, %d skipped\n", len(paths)-failed, c.output, failed)
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) exportOne(e *env, w *mapdb.Writer, path string) error {
	m, err := e.assets.LoadMap(path)
	if err != nil {
		return err
	}
	return w.WriteMap(path, m)
}
