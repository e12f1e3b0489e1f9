package tiled_test

import (
	"errors"
	"testing"

	"github.com/Faultbox/tiledmap/pkg/tiled"
)

func newIndex(t *testing.T, tilesets ...*tiled.Tileset) *tiled.TilesetIndex {
	t.Helper()
	idx, err := tiled.NewTilesetIndex(tilesets)
	if err != nil {
		t.Fatalf("NewTilesetIndex failed: %v", err)
	}
	return idx
}

func TestResolveEveryOwnedID(t *testing.T) {
	ground := &tiled.Tileset{Name: "ground", FirstGID: 1, TileCount: 16}
	walls := &tiled.Tileset{Name: "walls", FirstGID: 17, TileCount: 8}
	props := &tiled.Tileset{Name: "props", FirstGID: 40, TileCount: 4}
	idx := newIndex(t, props, ground, walls)

	owner := func(id uint32) *tiled.Tileset {
		switch {
		case id >= 1 && id <= 16:
			return ground
		case id >= 17 && id <= 24:
			return walls
		case id >= 40 && id <= 43:
			return props
		}
		return nil
	}

	for id := uint32(0); id <= 50; id++ {
		ts, local, err := idx.Resolve(tiled.GlobalTileID(id))
		want := owner(id)
		if want == nil {
			if !errors.Is(err, tiled.ErrUnknownTileID) {
				t.Errorf("gid %d: expected ErrUnknownTileID, got %v", id, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("gid %d: unexpected error: %v", id, err)
			continue
		}
		if ts != want {
			t.Errorf("gid %d: expected tileset %s, got %s", id, want.Name, ts.Name)
		}
		if local != id-want.FirstGID {
			t.Errorf("gid %d: expected local %d, got %d", id, id-want.FirstGID, local)
		}
	}

	if got := idx.MaxGID(); got != 43 {
		t.Errorf("expected max gid 43, got %d", got)
	}
}

func TestResolveIgnoresFlags(t *testing.T) {
	ts := &tiled.Tileset{Name: "ground", FirstGID: 1, TileCount: 16}
	idx := newIndex(t, ts)

	got, local, err := idx.Resolve(5 | tiled.FlipHorizontal | tiled.FlipVertical)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != ts || local != 4 {
		t.Errorf("expected ground/4, got %s/%d", got.Name, local)
	}
}

func TestIndexSortsTilesets(t *testing.T) {
	a := &tiled.Tileset{Name: "a", FirstGID: 1, TileCount: 4}
	b := &tiled.Tileset{Name: "b", FirstGID: 5, TileCount: 4}
	c := &tiled.Tileset{Name: "c", FirstGID: 9, TileCount: 4}
	idx := newIndex(t, c, a, b)

	var names []string
	for _, ts := range idx.Tilesets() {
		names = append(names, ts.Name)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("expected [a b c], got %v", names)
	}
}

func TestIndexRejectsOverlap(t *testing.T) {
	tests := []struct {
		name string
		sets []*tiled.Tileset
		want error
	}{
		{
			name: "duplicate first gid",
			sets: []*tiled.Tileset{{Name: "a", FirstGID: 1, TileCount: 16}, {Name: "b", FirstGID: 1, TileCount: 16}},
			want: tiled.ErrOverlappingTilesetRanges,
		},
		{
			name: "duplicate empty tilesets",
			sets: []*tiled.Tileset{{Name: "a", FirstGID: 3}, {Name: "b", FirstGID: 3}},
			want: tiled.ErrOverlappingTilesetRanges,
		},
		{
			name: "range overlap",
			sets: []*tiled.Tileset{{Name: "a", FirstGID: 1, TileCount: 16}, {Name: "b", FirstGID: 10, TileCount: 4}},
			want: tiled.ErrOverlappingTilesetRanges,
		},
		{
			name: "sparse tile ids extend range",
			sets: []*tiled.Tileset{
				{Name: "a", FirstGID: 1, TileCount: 2, Tiles: map[uint32]*tiled.Tile{9: {ID: 9}}},
				{Name: "b", FirstGID: 5, TileCount: 4},
			},
			want: tiled.ErrOverlappingTilesetRanges,
		},
		{
			name: "zero first gid",
			sets: []*tiled.Tileset{{Name: "a", FirstGID: 0, TileCount: 4}},
			want: tiled.ErrInvalidAttributeValue,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tiled.NewTilesetIndex(tc.sets)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIndexAdjacentRanges(t *testing.T) {
	a := &tiled.Tileset{Name: "a", FirstGID: 1, TileCount: 4}
	b := &tiled.Tileset{Name: "b", FirstGID: 5, TileCount: 4}
	idx := newIndex(t, a, b)

	if ts, _, err := idx.Resolve(4); err != nil || ts != a {
		t.Errorf("gid 4: expected a, got %v (%v)", ts, err)
	}
	if ts, _, err := idx.Resolve(5); err != nil || ts != b {
		t.Errorf("gid 5: expected b, got %v (%v)", ts, err)
	}
}

func TestTileRect(t *testing.T) {
	ts := &tiled.Tileset{
		FirstGID:   1,
		TileWidth:  16,
		TileHeight: 16,
		Spacing:    2,
		Margin:     1,
		TileCount:  8,
		Columns:    4,
		Image:      &tiled.Image{Source: "tiles.png", Width: 71, Height: 35},
	}

	tests := []struct {
		local        uint32
		wantX, wantY int
		wantOK       bool
	}{
		{0, 1, 1, true},
		{1, 19, 1, true},
		{3, 55, 1, true},
		{4, 1, 19, true},
		{7, 55, 19, true},
		{8, 0, 0, false},
	}

	for _, tc := range tests {
		r, ok := ts.TileRect(tc.local)
		if ok != tc.wantOK {
			t.Errorf("tile %d: expected ok=%v, got %v", tc.local, tc.wantOK, ok)
			continue
		}
		if !ok {
			continue
		}
		if r.Min.X != tc.wantX || r.Min.Y != tc.wantY || r.Dx() != 16 || r.Dy() != 16 {
			t.Errorf("tile %d: expected 16x16 at (%d,%d), got %v", tc.local, tc.wantX, tc.wantY, r)
		}
	}

	collection := &tiled.Tileset{FirstGID: 1, TileWidth: 16, TileHeight: 16, TileCount: 2}
	if _, ok := collection.TileRect(0); ok {
		t.Error("expected image collection to have no tile rectangles")
	}
}
