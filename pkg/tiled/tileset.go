package tiled

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"
)

// Image references an image file used by a tileset, tile or image layer.
type Image struct {
	Source string
	Trans  *Color // color treated as transparent
	Width  int
	Height int
}

// TileOffset shifts every tile of a tileset when drawn.
type TileOffset struct {
	X, Y int
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32 // local id within the same tileset
	Duration time.Duration
}

// Tile holds per-tile data. Only tiles that declare something appear in
// Tileset.Tiles.
type Tile struct {
	ID          uint32
	Type        string
	Probability float64
	// Terrain lists the terrain index of each corner (top-left, top-right,
	// bottom-left, bottom-right); -1 marks a corner without terrain.
	Terrain     []int
	Image       *Image
	Animation   []Frame
	ObjectGroup *ObjectGroup // collision shapes
	Properties  Properties
}

// PropertyMap implements PropertyHolder.
func (t *Tile) PropertyMap() Properties { return t.Properties }

// Tileset is a collection of same-sized tiles owning a contiguous range of
// global tile ids starting at FirstGID.
type Tileset struct {
	FirstGID   uint32
	Source     string // external reference, empty for inline tilesets
	Name       string
	Class      string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	TileCount  uint32
	Columns    int
	TileOffset TileOffset
	Image      *Image
	Properties Properties
	Tiles      map[uint32]*Tile
}

// PropertyMap implements PropertyHolder.
func (ts *Tileset) PropertyMap() Properties { return ts.Properties }

// maxLocalIDs is the number of ids addressable once the flag bits are
// masked off.
const maxLocalIDs = uint64(^FlipMask) + 1

// span is the number of global ids the tileset owns. Image collections have
// no tileset image and may declare tile ids beyond the declared count.
func (ts *Tileset) span() uint64 {
	n := uint64(ts.TileCount)
	if ts.Image != nil {
		return n
	}
	for id := range ts.Tiles {
		if uint64(id)+1 > n {
			n = uint64(id) + 1
		}
	}
	return n
}

// Contains reports whether the (unflagged) global id belongs to the tileset.
func (ts *Tileset) Contains(gid GlobalTileID) bool {
	id := gid.ID()
	return id >= ts.FirstGID && uint64(id-ts.FirstGID) < ts.span()
}

// LastGID returns the highest global id owned, or FirstGID-1 when empty.
func (ts *Tileset) LastGID() uint32 {
	return uint32(uint64(ts.FirstGID) + ts.span() - 1)
}

// Tile returns per-tile data for a local id, if any was declared.
func (ts *Tileset) Tile(localID uint32) (*Tile, bool) {
	t, ok := ts.Tiles[localID]
	return t, ok
}

// TileRect returns the pixel rectangle of a tile within the tileset image.
// It fails for tilesets without a single image.
func (ts *Tileset) TileRect(localID uint32) (image.Rectangle, bool) {
	if ts.Image == nil || ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return image.Rectangle{}, false
	}
	cols := ts.columns()
	if cols <= 0 || uint64(localID) >= ts.span() {
		return image.Rectangle{}, false
	}

	col := int(localID) % cols
	row := int(localID) / cols
	x := ts.Margin + (ts.TileWidth+ts.Spacing)*col
	y := ts.Margin + (ts.TileHeight+ts.Spacing)*row
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight), true
}

func (ts *Tileset) columns() int {
	if ts.Columns > 0 {
		return ts.Columns
	}
	if ts.Image == nil {
		return 0
	}
	return fit(ts.Image.Width, ts.TileWidth, ts.Margin, ts.Spacing)
}

func (ts *Tileset) rows() int {
	if ts.Image == nil {
		return 0
	}
	return fit(ts.Image.Height, ts.TileHeight, ts.Margin, ts.Spacing)
}

// fit counts the tiles of the given size that fit along one image axis.
func fit(extent, size, margin, spacing int) int {
	step := size + spacing
	room := extent - 2*margin + spacing
	if step <= 0 || room <= 0 {
		return 0
	}
	return room / step
}

// label names the tileset in errors and notes.
func (ts *Tileset) label() string {
	if ts.Name != "" {
		return ts.Name
	}
	return ts.Source
}

// ParseTileset parses a standalone tileset document whose root is
// <tileset>. External tileset files carry no firstgid; the caller supplies
// the one declared by the referencing map.
func ParseTileset(root Element, firstGID uint32) (*Tileset, []string, error) {
	if root == nil || root.Name() != "tileset" {
		return nil, nil, newError(ErrStructuralValidation, "root element is not <tileset>")
	}
	var n notes
	ts, err := parseTileset(root, firstGID, &n)
	if err != nil {
		return nil, nil, err
	}
	return ts, n.list, nil
}

func parseTileset(el Element, firstGID uint32, n *notes) (*Tileset, error) {
	a := readAttrs(el)
	ts := &Tileset{
		FirstGID:   firstGID,
		Name:       a.str("name", ""),
		Class:      a.str("class", ""),
		TileWidth:  a.positive("tilewidth"),
		TileHeight: a.positive("tileheight"),
		Spacing:    a.natural("spacing"),
		Margin:     a.natural("margin"),
		TileCount:  a.uint32("tilecount", 0, false),
		Columns:    a.natural("columns"),
		Properties: make(Properties),
		Tiles:      make(map[uint32]*Tile),
	}
	_, declaredCount := el.Attr("tilecount")
	if a.err == nil && uint64(ts.TileCount) > maxLocalIDs {
		a.fail(invalidAttr("tileset", "tilecount", strconv.FormatUint(uint64(ts.TileCount), 10), nil))
	}
	if a.err != nil {
		return nil, inTileset(a.err, ts.Name)
	}

	for _, c := range el.Children() {
		var err error
		switch c.Name() {
		case "image":
			ts.Image, err = parseImage(c)
		case "tileoffset":
			oa := readAttrs(c)
			ts.TileOffset = TileOffset{X: oa.int("x", 0), Y: oa.int("y", 0)}
			err = oa.err
		case "properties":
			ts.Properties, err = parseProperties(c, n)
		case "tile":
			var t *Tile
			t, err = parseTile(c, n)
			if err == nil {
				ts.Tiles[t.ID] = t
			}
		default:
			n.addf("tileset %q: skipped <%s>", ts.Name, c.Name())
		}
		if err != nil {
			return nil, inTileset(err, ts.Name)
		}
	}

	if !declaredCount && ts.Image != nil {
		if cols, rows := ts.columns(), ts.rows(); cols > 0 && rows > 0 {
			n := uint64(cols) * uint64(rows)
			if n > maxLocalIDs {
				return nil, inTileset(invalidAttr("image", "width", strconv.Itoa(ts.Image.Width),
					fmt.Errorf("%d tiles exceed the id space", n)), ts.Name)
			}
			ts.TileCount = uint32(n)
		}
	}
	return ts, nil
}

func parseImage(el Element) (*Image, error) {
	a := readAttrs(el)
	img := &Image{
		Source: a.str("source", ""),
		Trans:  a.color("trans"),
		Width:  a.natural("width"),
		Height: a.natural("height"),
	}
	if a.err != nil {
		return nil, a.err
	}
	return img, nil
}

func parseTile(el Element, n *notes) (*Tile, error) {
	a := readAttrs(el)
	t := &Tile{
		ID:          a.uint32("id", 0, true),
		Type:        a.str("type", a.str("class", "")),
		Probability: a.float("probability", 1),
		Properties:  make(Properties),
	}
	if a.err == nil && uint64(t.ID) >= maxLocalIDs {
		a.fail(invalidAttr("tile", "id", strconv.FormatUint(uint64(t.ID), 10), nil))
	}
	if terrain, ok := a.lookup("terrain", false); ok {
		corners, err := parseTerrain(terrain)
		if err != nil {
			a.fail(invalidAttr("tile", "terrain", terrain, err))
		}
		t.Terrain = corners
	}
	if a.err != nil {
		return nil, a.err
	}

	for _, c := range el.Children() {
		var err error
		switch c.Name() {
		case "properties":
			t.Properties, err = parseProperties(c, n)
		case "image":
			t.Image, err = parseImage(c)
		case "animation":
			t.Animation, err = parseAnimation(c)
		case "objectgroup":
			t.ObjectGroup, err = parseObjectGroup(c, n)
		default:
			n.addf("tile %d: skipped <%s>", t.ID, c.Name())
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parseTerrain reads "a,b,c,d" where empty entries mean no terrain.
func parseTerrain(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, strconv.ErrSyntax
	}
	corners := make([]int, 4)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			corners[i] = -1
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		corners[i] = v
	}
	return corners, nil
}

func parseAnimation(el Element) ([]Frame, error) {
	var frames []Frame
	for _, c := range el.Children() {
		if c.Name() != "frame" {
			continue
		}
		a := readAttrs(c)
		f := Frame{
			TileID:   a.uint32("tileid", 0, true),
			Duration: time.Duration(a.uint32("duration", 0, true)) * time.Millisecond,
		}
		if a.err != nil {
			return nil, a.err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
