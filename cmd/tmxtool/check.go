package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/internal/logger"
)

type checkCmd struct {
	quiet bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate every map under the given paths" }
func (*checkCmd) Usage() string {
	return "tmxtool check [-q] <path>...\n  Directories are walked for .tmx files.\n"
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "q", false, "hide the progress bar")
}

type checkFailure struct {
	path string
	err  error
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	paths, err := collectMaps(f.Args())
	if err != nil {
		logger.Error("collecting maps failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	if len(paths) == 0 {
		fmt.Println("no .tmx files found")
		return subcommands.ExitSuccess
	}

	var bar *progressbar.ProgressBar
	if !c.quiet {
		bar = progressbar.Default(int64(len(paths)), "checking")
	}

	var failures []checkFailure
	warnings := 0
	for _, p := range paths {
		m, err := e.assets.LoadMap(p)
		if err != nil {
			failures = append(failures, checkFailure{path: p, err: err})
		} else {
			warnings += len(m.Warnings)
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	for _, fl := range failures {
		fmt.Printf("FAIL %s\n     %v\n", fl.path, fl.err)
	}
	hits, misses := e.assets.Stats()
	logger.Debug("tileset cache", zap.Int("hits", hits), zap.Int("misses", misses))

	fmt.Printf("%d maps, %d failed, %d warnings\n", len(paths), len(failures), warnings)
	if len(failures) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// collectMaps expands directories into the .tmx files below them.
func collectMaps(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".tmx") {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
