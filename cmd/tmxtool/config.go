package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tiledmap/internal/config"
)

type configCmd struct {
	save string
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "print or save the effective configuration" }
func (*configCmd) Usage() string {
	return "tmxtool [global flags] config [-save path|-save default]\n"
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.save, "save", "", `write the configuration to a file ("default" for `+config.ConfigDir()+"/config.yaml)")
}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)

	switch c.save {
	case "":
		out, err := yaml.Marshal(e.cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		os.Stdout.Write(out)
		return subcommands.ExitSuccess
	case "default":
		if err := e.cfg.Save(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	default:
		if err := e.cfg.SaveTo(c.save); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	fmt.Println("configuration saved")
	return subcommands.ExitSuccess
}
