// Package tiled decodes Tiled map documents into an immutable, queryable map model.
package tiled

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Errors returned by this package are *Error values whose Kind
// is one of these; match them with errors.Is.
var (
	ErrMissingAttribute         = errors.New("missing attribute")
	ErrInvalidAttributeValue    = errors.New("invalid attribute value")
	ErrMalformedTileData        = errors.New("malformed tile data")
	ErrBase64Decode             = errors.New("base64 decode error")
	ErrDecompression            = errors.New("decompression error")
	ErrUnsupportedEncoding      = errors.New("unsupported encoding")
	ErrUnknownTileID            = errors.New("unknown tile id")
	ErrOverlappingTilesetRanges = errors.New("overlapping tileset ranges")
	ErrMissingExternalTileset   = errors.New("missing external tileset")
	ErrOutOfBounds              = errors.New("out of bounds")
	ErrStructuralValidation     = errors.New("structural validation error")
)

// Error carries the kind of a failure together with the place in the
// document where it happened.
type Error struct {
	Kind     error  // one of the Err* sentinels
	Element  string // element name, if known
	Attr     string // attribute name, if relevant
	Layer    string // enclosing layer name
	Tileset  string // enclosing tileset name or source
	X, Y     int    // cell coordinate, valid when HasCoord is set
	HasCoord bool
	Msg      string
	Err      error // underlying cause
}

// Error formats the kind followed by whatever context is set.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tiled: ")
	b.WriteString(e.Kind.Error())

	var ctx []string
	if e.Layer != "" {
		ctx = append(ctx, fmt.Sprintf("layer %q", e.Layer))
	}
	if e.Tileset != "" {
		ctx = append(ctx, fmt.Sprintf("tileset %q", e.Tileset))
	}
	if e.Element != "" {
		ctx = append(ctx, "<"+e.Element+">")
	}
	if e.Attr != "" {
		ctx = append(ctx, fmt.Sprintf("attribute %q", e.Attr))
	}
	if e.HasCoord {
		ctx = append(ctx, fmt.Sprintf("at (%d,%d)", e.X, e.Y))
	}
	if len(ctx) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ctx, ", "))
		b.WriteString(")")
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func missingAttr(element, attr string) *Error {
	return &Error{Kind: ErrMissingAttribute, Element: element, Attr: attr}
}

func invalidAttr(element, attr, value string, cause error) *Error {
	return &Error{Kind: ErrInvalidAttributeValue, Element: element, Attr: attr, Msg: fmt.Sprintf("%q", value), Err: cause}
}

// inLayer attaches layer context to err. Errors without a structured
// form are classified as structural.
func inLayer(err error, layer string) error {
	var te *Error
	if errors.As(err, &te) {
		if te.Layer == "" {
			te.Layer = layer
		}
		return te
	}
	return &Error{Kind: ErrStructuralValidation, Layer: layer, Err: err}
}

// inTileset attaches tileset context to err.
func inTileset(err error, tileset string) error {
	var te *Error
	if errors.As(err, &te) {
		if te.Tileset == "" {
			te.Tileset = tileset
		}
		return te
	}
	return &Error{Kind: ErrStructuralValidation, Tileset: tileset, Err: err}
}
