package tiled

import (
	"fmt"
	"slices"
	"sort"
)

// TilesetLoader supplies tilesets that a map references by source instead
// of embedding. It is called once per external reference.
type TilesetLoader func(source string) (*Tileset, error)

// TilesetIndex resolves global tile ids to their owning tileset. It keeps
// tilesets sorted by FirstGID and answers queries by binary search.
type TilesetIndex struct {
	tilesets []*Tileset
}

// NewTilesetIndex builds an index over tilesets in any order. Duplicate
// first ids or overlapping ranges are rejected.
func NewTilesetIndex(tilesets []*Tileset) (*TilesetIndex, error) {
	sorted := slices.Clone(tilesets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FirstGID < sorted[j].FirstGID
	})

	for i, ts := range sorted {
		if ts.FirstGID == 0 {
			return nil, &Error{Kind: ErrInvalidAttributeValue, Element: "tileset", Attr: "firstgid", Tileset: ts.label(), Msg: "must be at least 1"}
		}
		if end := uint64(ts.FirstGID) + ts.span(); end > maxLocalIDs {
			return nil, &Error{
				Kind:    ErrInvalidAttributeValue,
				Element: "tileset",
				Attr:    "firstgid",
				Tileset: ts.label(),
				Msg:     fmt.Sprintf("range [%d,%d) exceeds the id space", ts.FirstGID, end),
			}
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if ts.FirstGID == prev.FirstGID || uint64(ts.FirstGID) < uint64(prev.FirstGID)+prev.span() {
			return nil, &Error{
				Kind:    ErrOverlappingTilesetRanges,
				Tileset: ts.label(),
				Msg: fmt.Sprintf("firstgid %d falls inside %q [%d,%d)",
					ts.FirstGID, prev.label(), prev.FirstGID, uint64(prev.FirstGID)+prev.span()),
			}
		}
	}
	return &TilesetIndex{tilesets: sorted}, nil
}

// Tilesets returns the indexed tilesets in ascending FirstGID order.
func (idx *TilesetIndex) Tilesets() []*Tileset {
	if idx == nil {
		return nil
	}
	return idx.tilesets
}

// Resolve returns the tileset owning gid and the tile's local index.
// Flag bits are ignored.
func (idx *TilesetIndex) Resolve(gid GlobalTileID) (*Tileset, uint32, error) {
	id := gid.ID()
	if id == 0 {
		return nil, 0, newError(ErrUnknownTileID, "gid 0 is the empty tile")
	}
	if idx == nil {
		return nil, 0, newError(ErrUnknownTileID, "gid %d: no tilesets", id)
	}

	// First tileset whose FirstGID is above id; its predecessor is the
	// only candidate owner.
	i := sort.Search(len(idx.tilesets), func(i int) bool {
		return idx.tilesets[i].FirstGID > id
	})
	if i == 0 {
		return nil, 0, newError(ErrUnknownTileID, "gid %d is below every tileset", id)
	}
	ts := idx.tilesets[i-1]
	if !ts.Contains(gid) {
		return nil, 0, newError(ErrUnknownTileID, "gid %d is not owned by any tileset", id)
	}
	return ts, id - ts.FirstGID, nil
}

// MaxGID returns the highest global id owned by any tileset, or 0.
func (idx *TilesetIndex) MaxGID() uint32 {
	var maxGID uint32
	if idx == nil {
		return 0
	}
	for _, ts := range idx.tilesets {
		if ts.span() > 0 && ts.LastGID() > maxGID {
			maxGID = ts.LastGID()
		}
	}
	return maxGID
}
