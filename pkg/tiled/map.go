package tiled

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Orientation is the projection of the map grid.
type Orientation string

// Map orientations.
const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
	Staggered  Orientation = "staggered"
	Hexagonal  Orientation = "hexagonal"
)

func parseOrientation(s string) (Orientation, bool) {
	switch o := Orientation(s); o {
	case Orthogonal, Isometric, Staggered, Hexagonal:
		return o, true
	}
	return "", false
}

// RenderOrder is the order tiles are drawn in. It does not affect storage:
// tile grids are always row-major from the top-left.
type RenderOrder string

// Render orders.
const (
	RightDown RenderOrder = "right-down"
	RightUp   RenderOrder = "right-up"
	LeftDown  RenderOrder = "left-down"
	LeftUp    RenderOrder = "left-up"
)

func parseRenderOrder(s string) (RenderOrder, bool) {
	switch r := RenderOrder(s); r {
	case RightDown, RightUp, LeftDown, LeftUp:
		return r, true
	}
	return "", false
}

// Map is an assembled, validated map document. It is not modified after
// Assemble returns and may be shared between goroutines.
type Map struct {
	Version         string
	TiledVersion    string
	Orientation     Orientation
	RenderOrder     RenderOrder
	Width           int // in tiles
	Height          int // in tiles
	TileWidth       int // in pixels
	TileHeight      int // in pixels
	BackgroundColor *Color
	Infinite        bool
	HexSideLength   int
	StaggerAxis     string
	StaggerIndex    string
	Tilesets        []*Tileset // ascending FirstGID
	Layers          []Layer    // document order
	Properties      Properties
	Warnings        []string // non-fatal notes collected during assembly

	index *TilesetIndex
}

// PropertyMap implements PropertyHolder.
func (m *Map) PropertyMap() Properties { return m.Properties }

// Options configure Assemble.
type Options struct {
	// LoadTileset resolves <tileset source="..."/> references. When nil,
	// maps with external tilesets fail with ErrMissingExternalTileset.
	LoadTileset TilesetLoader
	// Logger receives notes about skipped input. Defaults to a no-op logger.
	Logger *zap.Logger
}

// notes collects non-fatal observations about the input.
type notes struct {
	list []string
	log  *zap.Logger
}

func (n *notes) addf(format string, args ...any) {
	if n == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	n.list = append(n.list, msg)
	if n.log != nil {
		n.log.Debug("tolerated input", zap.String("note", msg))
	}
}

type assembler struct {
	m      *Map
	notes  *notes
	loader TilesetLoader
	log    *zap.Logger
}

// Assemble builds a Map from a parsed document whose root is <map>.
// Either a fully validated map or an error is returned, never both.
func Assemble(root Element, opts Options) (*Map, error) {
	if root == nil || root.Name() != "map" {
		return nil, newError(ErrStructuralValidation, "root element is not <map>")
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	as := &assembler{
		m:      &Map{Properties: make(Properties)},
		notes:  &notes{log: log},
		loader: opts.LoadTileset,
		log:    log,
	}

	if err := as.readMapAttrs(root); err != nil {
		return nil, err
	}

	var tilesets []*Tileset
	for _, c := range root.Children() {
		switch c.Name() {
		case "tileset":
			ts, err := as.readTileset(c)
			if err != nil {
				return nil, err
			}
			tilesets = append(tilesets, ts)
		case "properties":
			props, err := parseProperties(c, as.notes)
			if err != nil {
				return nil, err
			}
			as.m.Properties = props
		default:
			layer, ok, err := as.parseLayer(c)
			if err != nil {
				return nil, err
			}
			if !ok {
				as.notes.addf("map: skipped <%s>", c.Name())
				continue
			}
			as.m.Layers = append(as.m.Layers, layer)
		}
	}

	index, err := NewTilesetIndex(tilesets)
	if err != nil {
		return nil, err
	}
	as.m.index = index
	as.m.Tilesets = index.Tilesets()

	if err := as.m.validate(); err != nil {
		return nil, err
	}

	as.m.Warnings = as.notes.list
	for _, w := range as.m.Warnings {
		log.Warn("map assembled with notes", zap.String("note", w))
	}
	log.Debug("map assembled",
		zap.Int("width", as.m.Width),
		zap.Int("height", as.m.Height),
		zap.Int("tilesets", len(as.m.Tilesets)),
		zap.Int("layers", len(as.m.Layers)))

	return as.m, nil
}

// maxCells caps width*height of a map.
const maxCells = math.MaxInt32

func (as *assembler) readMapAttrs(root Element) error {
	a := readAttrs(root)
	m := as.m
	m.Version = a.str("version", "")
	m.TiledVersion = a.str("tiledversion", "")

	orientation := a.requiredStr("orientation")
	m.Width = a.positive("width")
	m.Height = a.positive("height")
	m.TileWidth = a.positive("tilewidth")
	m.TileHeight = a.positive("tileheight")
	renderOrder := a.str("renderorder", string(RightDown))
	m.BackgroundColor = a.color("backgroundcolor")
	m.Infinite = a.bool("infinite", false)
	m.HexSideLength = a.int("hexsidelength", 0)
	m.StaggerAxis = a.str("staggeraxis", "")
	m.StaggerIndex = a.str("staggerindex", "")
	if a.err != nil {
		return a.err
	}
	if cells := uint64(m.Width) * uint64(m.Height); cells > maxCells {
		return invalidAttr("map", "width", fmt.Sprintf("%dx%d", m.Width, m.Height),
			fmt.Errorf("%d cells exceed %d", cells, maxCells))
	}

	var ok bool
	if m.Orientation, ok = parseOrientation(orientation); !ok {
		return invalidAttr("map", "orientation", orientation, nil)
	}
	if m.RenderOrder, ok = parseRenderOrder(renderOrder); !ok {
		return invalidAttr("map", "renderorder", renderOrder, nil)
	}
	return nil
}

func (as *assembler) readTileset(el Element) (*Tileset, error) {
	a := readAttrs(el)
	firstGID := a.uint32("firstgid", 0, true)
	source := a.str("source", "")
	if a.err != nil {
		return nil, inTileset(a.err, source)
	}

	if source == "" {
		return parseTileset(el, firstGID, as.notes)
	}

	if as.loader == nil {
		return nil, &Error{Kind: ErrMissingExternalTileset, Tileset: source, Msg: "no tileset loader configured"}
	}
	loaded, err := as.loader(source)
	if err != nil {
		return nil, &Error{Kind: ErrMissingExternalTileset, Tileset: source, Err: err}
	}
	if loaded == nil {
		return nil, &Error{Kind: ErrMissingExternalTileset, Tileset: source, Msg: "loader returned no tileset"}
	}
	as.log.Debug("external tileset loaded", zap.String("source", source), zap.Uint32("firstgid", firstGID))

	// The loader may hand out shared values; the map owns its own copy.
	ts := *loaded
	ts.FirstGID = firstGID
	ts.Source = source
	return &ts, nil
}

// validate enforces the model invariants on a fully parsed map.
func (m *Map) validate() error {
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return newError(ErrStructuralValidation, "map dimensions must be positive")
	}
	return walkLayers(m.Layers, func(l Layer) error {
		switch l := l.(type) {
		case *TileLayer:
			return m.validateTileLayer(l)
		case *ObjectGroup:
			return m.validateObjects(l)
		}
		return nil
	})
}

func (m *Map) validateTileLayer(l *TileLayer) error {
	if l.Width != m.Width || l.Height != m.Height || len(l.Tiles) != m.Width*m.Height {
		return &Error{Kind: ErrStructuralValidation, Layer: l.Name,
			Msg: fmt.Sprintf("grid has %d tiles, want %d", len(l.Tiles), m.Width*m.Height)}
	}
	for i, gid := range l.Tiles {
		if gid.IsEmpty() {
			continue
		}
		if _, _, err := m.index.Resolve(gid); err != nil {
			return &Error{Kind: ErrUnknownTileID, Layer: l.Name, X: i % l.Width, Y: i / l.Width, HasCoord: true,
				Msg: fmt.Sprintf("gid %d", gid.ID())}
		}
	}
	return nil
}

func (m *Map) validateObjects(g *ObjectGroup) error {
	for _, obj := range g.Objects {
		if !obj.IsTile() {
			continue
		}
		if _, _, err := m.index.Resolve(obj.GID); err != nil {
			return &Error{Kind: ErrUnknownTileID, Layer: g.Name, Element: "object",
				Msg: fmt.Sprintf("object %d: gid %d", obj.ID, obj.GID.ID())}
		}
	}
	return nil
}

// walkLayers visits layers depth-first in document order.
func walkLayers(layers []Layer, fn func(Layer) error) error {
	for _, l := range layers {
		if err := fn(l); err != nil {
			return err
		}
		if g, ok := l.(*GroupLayer); ok {
			if err := walkLayers(g.Layers, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
