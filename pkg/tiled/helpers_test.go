package tiled_test

import (
	"testing"

	"github.com/Faultbox/tiledmap/pkg/tiled"
	"github.com/Faultbox/tiledmap/pkg/xmltree"
)

// parseDoc parses an XML document held in a string.
func parseDoc(t *testing.T, doc string) tiled.Element {
	t.Helper()
	root, err := xmltree.ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parsing test document: %v", err)
	}
	return root
}

// assemble parses and assembles doc without a tileset loader.
func assemble(t *testing.T, doc string) (*tiled.Map, error) {
	t.Helper()
	return tiled.Assemble(parseDoc(t, doc), tiled.Options{})
}

// mustAssemble fails the test on any assembly error.
func mustAssemble(t *testing.T, doc string) *tiled.Map {
	t.Helper()
	m, err := assemble(t, doc)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return m
}

// kindOf returns the structured error behind err, failing if there is none.
func kindOf(t *testing.T, err error) *tiled.Error {
	t.Helper()
	te, ok := err.(*tiled.Error)
	if !ok {
		t.Fatalf("expected *tiled.Error, got %T (%v)", err, err)
	}
	return te
}

// gids converts plain integers to global tile ids.
func gids(ns ...uint32) []tiled.GlobalTileID {
	out := make([]tiled.GlobalTileID, len(ns))
	for i, n := range ns {
		out[i] = tiled.GlobalTileID(n)
	}
	return out
}

// sequence returns 1..n as global tile ids.
func sequence(n int) []tiled.GlobalTileID {
	out := make([]tiled.GlobalTileID, n)
	for i := range out {
		out[i] = tiled.GlobalTileID(i + 1)
	}
	return out
}
