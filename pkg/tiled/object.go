package tiled

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the geometry of an object.
type Shape int

// Object shapes. Rectangle is the default when no shape element is present.
const (
	ShapeRectangle Shape = iota
	ShapeEllipse
	ShapePoint
	ShapePolygon
	ShapePolyline
	ShapeText
)

// String returns the shape's element name.
func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	case ShapePoint:
		return "point"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	case ShapeText:
		return "text"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Point is a vertex relative to the object's position.
type Point struct {
	X, Y float64
}

// Object is a free-form placement inside an object group.
type Object struct {
	ID       int
	Name     string
	Type     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // degrees, clockwise
	Visible  bool
	// GID is non-zero for tile objects.
	GID        GlobalTileID
	Shape      Shape
	Points     []Point // polygon and polyline vertices
	Text       string
	Properties Properties
}

// PropertyMap implements PropertyHolder.
func (o *Object) PropertyMap() Properties { return o.Properties }

// IsTile reports whether the object draws a tile.
func (o *Object) IsTile() bool {
	return !o.GID.IsEmpty()
}

// ObjectGroup is a layer of objects.
type ObjectGroup struct {
	LayerInfo
	Color     *Color
	DrawOrder string // "topdown" (default) or "index"
	Objects   []Object
}

func parseObjectGroup(el Element, n *notes) (*ObjectGroup, error) {
	info, err := parseLayerInfo(el, n)
	if err != nil {
		return nil, err
	}
	a := readAttrs(el)
	g := &ObjectGroup{
		LayerInfo: info,
		Color:     a.color("color"),
		DrawOrder: a.str("draworder", "topdown"),
	}
	if a.err != nil {
		return nil, a.err
	}

	for _, c := range el.Children() {
		if c.Name() != "object" {
			continue
		}
		obj, err := parseObject(c, n)
		if err != nil {
			return nil, err
		}
		g.Objects = append(g.Objects, obj)
	}
	return g, nil
}

func parseObject(el Element, n *notes) (Object, error) {
	a := readAttrs(el)
	obj := Object{
		ID:         a.int("id", 0),
		Name:       a.str("name", ""),
		Type:       a.str("type", a.str("class", "")),
		X:          a.float("x", 0),
		Y:          a.float("y", 0),
		Width:      a.float("width", 0),
		Height:     a.float("height", 0),
		Rotation:   a.float("rotation", 0),
		Visible:    a.bool("visible", true),
		GID:        GlobalTileID(a.uint32("gid", 0, false)),
		Shape:      ShapeRectangle,
		Properties: make(Properties),
	}
	if a.err != nil {
		return Object{}, a.err
	}

	for _, c := range el.Children() {
		var err error
		switch c.Name() {
		case "properties":
			obj.Properties, err = parseProperties(c, n)
		case "ellipse":
			obj.Shape = ShapeEllipse
		case "point":
			obj.Shape = ShapePoint
		case "polygon":
			obj.Shape = ShapePolygon
			obj.Points, err = parsePointsAttr(c)
		case "polyline":
			obj.Shape = ShapePolyline
			obj.Points, err = parsePointsAttr(c)
		case "text":
			obj.Shape = ShapeText
			obj.Text = c.Text()
		default:
			n.addf("object %d: skipped <%s>", obj.ID, c.Name())
		}
		if err != nil {
			return Object{}, err
		}
	}
	return obj, nil
}

func parsePointsAttr(el Element) ([]Point, error) {
	a := readAttrs(el)
	raw := a.requiredStr("points")
	if a.err != nil {
		return nil, a.err
	}
	pts, err := parsePoints(raw)
	if err != nil {
		return nil, invalidAttr(el.Name(), "points", raw, err)
	}
	return pts, nil
}

// parsePoints reads "x1,y1 x2,y2 ...".
func parsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	pts := make([]Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: missing comma", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, err
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts, nil
}
