package tiled

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color as written in Tiled documents.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB"; the leading '#' is optional.
// Colors without an alpha component are opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	switch len(b) {
	case 3:
		return Color{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
	case 4:
		return Color{A: b[0], R: b[1], G: b[2], B: b[3]}, nil
	default:
		return Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
}

// String returns the color as "#AARRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// PropertyType is the declared type of a custom property.
type PropertyType string

// Property types understood by the reader. Anything else is kept as a
// string.
const (
	PropertyString PropertyType = "string"
	PropertyInt    PropertyType = "int"
	PropertyFloat  PropertyType = "float"
	PropertyBool   PropertyType = "bool"
	PropertyColor  PropertyType = "color"
	PropertyFile   PropertyType = "file"
)

// Property is one typed custom property.
//
// Value holds a string (string, file and unrecognised types), int64, float64,
// bool or Color depending on Type.
type Property struct {
	Name  string
	Type  PropertyType
	Raw   string
	Value any
}

// String returns the value for string-like properties.
func (p Property) String() (string, bool) {
	s, ok := p.Value.(string)
	return s, ok
}

// Int returns the value of an int property.
func (p Property) Int() (int64, bool) {
	n, ok := p.Value.(int64)
	return n, ok
}

// Float returns the value of a float property. Int properties convert.
func (p Property) Float() (float64, bool) {
	switch v := p.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the value of a bool property.
func (p Property) Bool() (bool, bool) {
	b, ok := p.Value.(bool)
	return b, ok
}

// Color returns the value of a color property.
func (p Property) Color() (Color, bool) {
	c, ok := p.Value.(Color)
	return c, ok
}

// Properties maps property names to values.
type Properties map[string]Property

// Get looks up a property by name.
func (p Properties) Get(name string) (Property, bool) {
	prop, ok := p[name]
	return prop, ok
}

// PropertyHolder is anything that carries custom properties.
type PropertyHolder interface {
	PropertyMap() Properties
}

// PropertyOf returns the named property of holder. A missing property is
// reported through ok, not as an error.
func PropertyOf(holder PropertyHolder, name string) (Property, bool) {
	if holder == nil {
		return Property{}, false
	}
	return holder.PropertyMap().Get(name)
}

// parseProperties reads a <properties> block. Unknown types are kept as
// raw strings and reported as notes.
func parseProperties(el Element, n *notes) (Properties, error) {
	props := make(Properties)
	for _, c := range el.Children() {
		if c.Name() != "property" {
			continue
		}
		prop, err := parseProperty(c, n)
		if err != nil {
			return nil, err
		}
		props[prop.Name] = prop
	}
	return props, nil
}

func parseProperty(el Element, n *notes) (Property, error) {
	a := readAttrs(el)
	name := a.requiredStr("name")
	typ := PropertyType(a.str("type", string(PropertyString)))
	if a.err != nil {
		return Property{}, a.err
	}

	// Multi-line string values are stored as text content.
	raw, ok := el.Attr("value")
	if !ok {
		raw = el.Text()
	}

	prop := Property{Name: name, Type: typ, Raw: raw}
	var err error
	switch typ {
	case PropertyString, PropertyFile:
		prop.Value = raw
	case PropertyInt:
		prop.Value, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case PropertyFloat:
		prop.Value, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case PropertyBool:
		prop.Value, err = parseBool(raw)
	case PropertyColor:
		// Unset colors are written as an empty value.
		if strings.TrimSpace(raw) == "" {
			prop.Value = Color{}
		} else {
			prop.Value, err = ParseColor(raw)
		}
	default:
		prop.Value = raw
		n.addf("property %q: unknown type %q stored as string", name, typ)
	}
	if err != nil {
		return Property{}, invalidAttr("property", name, raw, err)
	}
	return prop, nil
}
