package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tiledmap/internal/logger"
	"github.com/Faultbox/tiledmap/pkg/tiled"
)

type infoCmd struct{}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "show map dimensions, tilesets and layers" }
func (*infoCmd) Usage() string {
	return "tmxtool [-format text|yaml] info <map.tmx>\n"
}
func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (c *infoCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	m, err := e.assets.LoadMap(f.Arg(0))
	if err != nil {
		logger.Error("loading map failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	s := summarize(f.Arg(0), m)
	if e.cfg.Output.Format == "yaml" {
		out, err := yaml.Marshal(s)
		if err != nil {
			logger.Error("encoding summary failed", zap.Error(err))
			return subcommands.ExitFailure
		}
		os.Stdout.Write(out)
		return subcommands.ExitSuccess
	}

	printSummary(os.Stdout, s)
	return subcommands.ExitSuccess
}

type mapSummary struct {
	Path        string           `yaml:"path"`
	Orientation string           `yaml:"orientation"`
	RenderOrder string           `yaml:"render_order"`
	Size        string           `yaml:"size"`
	TileSize    string           `yaml:"tile_size"`
	Background  string           `yaml:"background,omitempty"`
	Tilesets    []tilesetSummary `yaml:"tilesets"`
	Layers      []layerSummary   `yaml:"layers"`
	Properties  map[string]any   `yaml:"properties,omitempty"`
	Warnings    []string         `yaml:"warnings,omitempty"`
}

type tilesetSummary struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source,omitempty"`
	FirstGID uint32 `yaml:"first_gid"`
	LastGID  uint32 `yaml:"last_gid"`
	Image    string `yaml:"image,omitempty"`
}

type layerSummary struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Depth   int    `yaml:"depth"`
	Visible bool   `yaml:"visible"`
	Detail  string `yaml:"detail,omitempty"`
}

func summarize(path string, m *tiled.Map) mapSummary {
	s := mapSummary{
		Path:        path,
		Orientation: string(m.Orientation),
		RenderOrder: string(m.RenderOrder),
		Size:        fmt.Sprintf("%dx%d", m.Width, m.Height),
		TileSize:    fmt.Sprintf("%dx%d", m.TileWidth, m.TileHeight),
		Warnings:    m.Warnings,
	}
	if m.BackgroundColor != nil {
		s.Background = m.BackgroundColor.String()
	}
	if len(m.Properties) > 0 {
		s.Properties = make(map[string]any, len(m.Properties))
		for name, p := range m.Properties {
			s.Properties[name] = propertyValue(p)
		}
	}
	for _, ts := range m.Tilesets {
		t := tilesetSummary{Name: ts.Name, Source: ts.Source, FirstGID: ts.FirstGID, LastGID: ts.LastGID()}
		if ts.Image != nil {
			t.Image = ts.Image.Source
		}
		s.Tilesets = append(s.Tilesets, t)
	}
	s.Layers = summarizeLayers(m.Layers, 0, nil)
	return s
}

func propertyValue(p tiled.Property) any {
	if c, ok := p.Color(); ok {
		return c.String()
	}
	return p.Value
}

func summarizeLayers(layers []tiled.Layer, depth int, out []layerSummary) []layerSummary {
	for _, l := range layers {
		info := l.Info()
		ls := layerSummary{Name: info.Name, Kind: l.Kind().String(), Depth: depth, Visible: info.Visible}
		switch l := l.(type) {
		case *tiled.TileLayer:
			used := 0
			for _, gid := range l.Tiles {
				if !gid.IsEmpty() {
					used++
				}
			}
			ls.Detail = fmt.Sprintf("%dx%d, %d tiles set", l.Width, l.Height, used)
		case *tiled.ObjectGroup:
			ls.Detail = fmt.Sprintf("%d objects", len(l.Objects))
		case *tiled.ImageLayer:
			if l.Image != nil {
				ls.Detail = l.Image.Source
			}
		case *tiled.GroupLayer:
			ls.Detail = fmt.Sprintf("%d layers", len(l.Layers))
		}
		out = append(out, ls)
		if g, ok := l.(*tiled.GroupLayer); ok {
			out = summarizeLayers(g.Layers, depth+1, out)
		}
	}
	return out
}

func printSummary(w io.Writer, s mapSummary) {
	fmt.Fprintf(w, "Map:         %s\n", s.Path)
	fmt.Fprintf(w, "Orientation: %s (%s)\n", s.Orientation, s.RenderOrder)
	fmt.Fprintf(w, "Size:        %s tiles of %s px\n", s.Size, s.TileSize)
	if s.Background != "" {
		fmt.Fprintf(w, "Background:  %s\n", s.Background)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tilesets:")
	for _, ts := range s.Tilesets {
		src := ""
		if ts.Source != "" {
			src = " <- " + ts.Source
		}
		fmt.Fprintf(w, "  %-20s gids %d-%d%s\n", ts.Name, ts.FirstGID, ts.LastGID, src)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Layers:")
	for _, l := range s.Layers {
		hidden := ""
		if !l.Visible {
			hidden = " (hidden)"
		}
		fmt.Fprintf(w, "  %s%-12s %-20s %s%s\n", strings.Repeat("  ", l.Depth), l.Kind, l.Name, l.Detail, hidden)
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}
}
