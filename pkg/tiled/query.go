package tiled

// TileRef is a resolved global tile id.
type TileRef struct {
	Tileset *Tileset
	LocalID uint32
	Flags   GlobalTileID
}

// IsEmpty reports whether the reference points at no tile.
func (r TileRef) IsEmpty() bool {
	return r.Tileset == nil
}

// At returns the id at (x, y), or ErrOutOfBounds. A nil layer has no cells.
func (l *TileLayer) At(x, y int) (GlobalTileID, error) {
	if l == nil {
		return 0, &Error{Kind: ErrOutOfBounds, X: x, Y: y, HasCoord: true, Msg: "no layer"}
	}
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height || y*l.Width+x >= len(l.Tiles) {
		return 0, &Error{Kind: ErrOutOfBounds, Layer: l.Name, X: x, Y: y, HasCoord: true}
	}
	return l.Tiles[y*l.Width+x], nil
}

// TileAt returns the raw global id, flags included, at (x, y) of layer.
func (m *Map) TileAt(layer *TileLayer, x, y int) (GlobalTileID, error) {
	return layer.At(x, y)
}

// HasTile reports whether (x, y) of layer holds a tile.
func (m *Map) HasTile(layer *TileLayer, x, y int) (bool, error) {
	gid, err := layer.At(x, y)
	if err != nil {
		return false, err
	}
	return !gid.IsEmpty(), nil
}

// TilesetFor returns the tileset owning gid. The empty id yields a nil
// tileset and no error.
func (m *Map) TilesetFor(gid GlobalTileID) (*Tileset, error) {
	ref, err := m.Resolve(gid)
	return ref.Tileset, err
}

// Resolve maps gid to its tileset and local id. The empty id yields an
// empty TileRef.
func (m *Map) Resolve(gid GlobalTileID) (TileRef, error) {
	if gid.IsEmpty() {
		return TileRef{}, nil
	}
	ts, local, err := m.index.Resolve(gid)
	if err != nil {
		return TileRef{}, err
	}
	return TileRef{Tileset: ts, LocalID: local, Flags: gid.Flags()}, nil
}

// MaxGID returns the highest global id any tileset of the map owns.
func (m *Map) MaxGID() uint32 {
	return m.index.MaxGID()
}

// LayerByName returns the first layer, searching groups depth-first,
// with the given name.
func (m *Map) LayerByName(name string) (Layer, bool) {
	var found Layer
	_ = walkLayers(m.Layers, func(l Layer) error {
		if found == nil && l.Info().Name == name {
			found = l
		}
		return nil
	})
	return found, found != nil
}

// TileLayerByName is LayerByName restricted to tile layers.
func (m *Map) TileLayerByName(name string) (*TileLayer, bool) {
	for _, l := range m.TileLayers() {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// TileLayers returns every tile layer, including those inside groups, in
// document order.
func (m *Map) TileLayers() []*TileLayer {
	var out []*TileLayer
	_ = walkLayers(m.Layers, func(l Layer) error {
		if tl, ok := l.(*TileLayer); ok {
			out = append(out, tl)
		}
		return nil
	})
	return out
}

// TilesetByName returns the first tileset with the given name.
func (m *Map) TilesetByName(name string) (*Tileset, bool) {
	for _, ts := range m.Tilesets {
		if ts.Name == name {
			return ts, true
		}
	}
	return nil, false
}
