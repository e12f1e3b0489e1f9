package tiled

import "fmt"

// LayerKind identifies the variant behind a Layer.
type LayerKind int

// Layer variants.
const (
	KindTileLayer LayerKind = iota
	KindObjectGroup
	KindImageLayer
	KindGroup
)

// String returns the element name of the variant.
func (k LayerKind) String() string {
	switch k {
	case KindTileLayer:
		return "layer"
	case KindObjectGroup:
		return "objectgroup"
	case KindImageLayer:
		return "imagelayer"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// LayerInfo holds the attributes every layer variant shares.
type LayerInfo struct {
	ID         int
	Name       string
	Class      string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	ParallaxX  float64
	ParallaxY  float64
	TintColor  *Color
	Properties Properties
}

// Info returns the shared attributes.
func (l *LayerInfo) Info() *LayerInfo { return l }

// PropertyMap implements PropertyHolder.
func (l *LayerInfo) PropertyMap() Properties { return l.Properties }

// Layer is one of *TileLayer, *ObjectGroup, *ImageLayer or *GroupLayer.
// The set is closed; switch on the concrete type or on Kind.
type Layer interface {
	Info() *LayerInfo
	Kind() LayerKind
	PropertyMap() Properties
	isLayer()
}

// TileLayer is a dense grid of global tile ids.
type TileLayer struct {
	LayerInfo
	Width  int
	Height int
	// Tiles is row-major: the tile at (x, y) is Tiles[y*Width+x].
	Tiles []GlobalTileID
}

// ImageLayer draws a single image.
type ImageLayer struct {
	LayerInfo
	Image   *Image
	RepeatX bool
	RepeatY bool
}

// GroupLayer nests other layers.
type GroupLayer struct {
	LayerInfo
	Layers []Layer
}

func (*TileLayer) Kind() LayerKind   { return KindTileLayer }
func (*ObjectGroup) Kind() LayerKind { return KindObjectGroup }
func (*ImageLayer) Kind() LayerKind  { return KindImageLayer }
func (*GroupLayer) Kind() LayerKind  { return KindGroup }

func (*TileLayer) isLayer()   {}
func (*ObjectGroup) isLayer() {}
func (*ImageLayer) isLayer()  {}
func (*GroupLayer) isLayer()  {}

func parseLayerInfo(el Element, n *notes) (LayerInfo, error) {
	a := readAttrs(el)
	info := LayerInfo{
		ID:         a.int("id", 0),
		Name:       a.str("name", ""),
		Class:      a.str("class", ""),
		Opacity:    a.float("opacity", 1),
		Visible:    a.bool("visible", true),
		OffsetX:    a.float("offsetx", 0),
		OffsetY:    a.float("offsety", 0),
		ParallaxX:  a.float("parallaxx", 1),
		ParallaxY:  a.float("parallaxy", 1),
		TintColor:  a.color("tintcolor"),
		Properties: make(Properties),
	}
	if a.err != nil {
		return LayerInfo{}, a.err
	}
	if p := firstChild(el, "properties"); p != nil {
		props, err := parseProperties(p, n)
		if err != nil {
			return LayerInfo{}, err
		}
		info.Properties = props
	}
	return info, nil
}

// parseLayer dispatches on the element name. ok is false for elements
// that are not layers.
func (as *assembler) parseLayer(el Element) (layer Layer, ok bool, err error) {
	switch el.Name() {
	case "layer":
		layer, err = as.parseTileLayer(el)
	case "objectgroup":
		layer, err = parseObjectGroup(el, as.notes)
	case "imagelayer":
		layer, err = parseImageLayer(el, as.notes)
	case "group":
		layer, err = as.parseGroupLayer(el)
	default:
		return nil, false, nil
	}
	if err != nil {
		name, _ := el.Attr("name")
		return nil, true, inLayer(err, name)
	}
	return layer, true, nil
}

func (as *assembler) parseTileLayer(el Element) (*TileLayer, error) {
	info, err := parseLayerInfo(el, as.notes)
	if err != nil {
		return nil, err
	}

	a := readAttrs(el)
	width := a.int("width", as.m.Width)
	height := a.int("height", as.m.Height)
	if a.err != nil {
		return nil, a.err
	}
	if width != as.m.Width || height != as.m.Height {
		return nil, newError(ErrStructuralValidation, "layer is %dx%d, map is %dx%d", width, height, as.m.Width, as.m.Height)
	}

	data := firstChild(el, "data")
	if data == nil {
		return nil, newError(ErrStructuralValidation, "tile layer has no <data>")
	}
	da := readAttrs(data)
	enc := Encoding(da.str("encoding", ""))
	comp := Compression(da.str("compression", ""))
	if da.err != nil {
		return nil, da.err
	}
	if firstChild(data, "chunk") != nil {
		return nil, newError(ErrUnsupportedEncoding, "chunked tile data")
	}

	count := width * height
	var tiles []GlobalTileID
	if enc == EncodingXML {
		tiles, err = decodeTileElements(data, count)
	} else {
		tiles, err = DecodeTileData(data.Text(), enc, comp, count)
	}
	if err != nil {
		return nil, err
	}

	return &TileLayer{LayerInfo: info, Width: width, Height: height, Tiles: tiles}, nil
}

// decodeTileElements reads <tile gid="..."/> children; a tile without gid
// is empty.
func decodeTileElements(data Element, count int) ([]GlobalTileID, error) {
	children := data.Children()
	tiles := make([]GlobalTileID, 0, min(count, len(children)))
	for _, c := range children {
		if c.Name() != "tile" {
			continue
		}
		a := readAttrs(c)
		gid := a.uint32("gid", 0, false)
		if a.err != nil {
			return nil, &Error{Kind: ErrMalformedTileData, Msg: fmt.Sprintf("tile %d", len(tiles)), Err: a.err}
		}
		tiles = append(tiles, GlobalTileID(gid))
	}
	if len(tiles) != count {
		return nil, newError(ErrMalformedTileData, "got %d tiles, want %d", len(tiles), count)
	}
	return tiles, nil
}

func parseImageLayer(el Element, n *notes) (*ImageLayer, error) {
	info, err := parseLayerInfo(el, n)
	if err != nil {
		return nil, err
	}
	a := readAttrs(el)
	l := &ImageLayer{
		LayerInfo: info,
		RepeatX:   a.bool("repeatx", false),
		RepeatY:   a.bool("repeaty", false),
	}
	if a.err != nil {
		return nil, a.err
	}
	if img := firstChild(el, "image"); img != nil {
		if l.Image, err = parseImage(img); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (as *assembler) parseGroupLayer(el Element) (*GroupLayer, error) {
	info, err := parseLayerInfo(el, as.notes)
	if err != nil {
		return nil, err
	}
	g := &GroupLayer{LayerInfo: info}
	for _, c := range el.Children() {
		layer, ok, err := as.parseLayer(c)
		if err != nil {
			return nil, err
		}
		if ok {
			g.Layers = append(g.Layers, layer)
		} else if c.Name() != "properties" {
			as.notes.addf("group %q: skipped <%s>", info.Name, c.Name())
		}
	}
	return g, nil
}
