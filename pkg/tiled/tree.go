package tiled

import (
	"strconv"
	"strings"
)

// Element is the minimal view of a parsed markup document the assembler
// needs. Any markup backend can satisfy it.
type Element interface {
	Name() string
	Attr(name string) (string, bool)
	Children() []Element
	Text() string
}

// attrs reads typed attributes off one element. The first failure is kept
// and later reads become no-ops, so callers check err once.
type attrs struct {
	el  Element
	err error
}

func readAttrs(el Element) *attrs {
	return &attrs{el: el}
}

func (a *attrs) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *attrs) lookup(name string, required bool) (string, bool) {
	if a.err != nil {
		return "", false
	}
	v, ok := a.el.Attr(name)
	if !ok && required {
		a.fail(missingAttr(a.el.Name(), name))
	}
	return v, ok
}

func (a *attrs) str(name, def string) string {
	if v, ok := a.lookup(name, false); ok {
		return v
	}
	return def
}

func (a *attrs) requiredStr(name string) string {
	v, _ := a.lookup(name, true)
	return v
}

func (a *attrs) uint32(name string, def uint32, required bool) uint32 {
	v, ok := a.lookup(name, required)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		a.fail(invalidAttr(a.el.Name(), name, v, err))
		return def
	}
	return uint32(n)
}

// positive reads a required attribute that must be greater than zero.
func (a *attrs) positive(name string) int {
	n := a.uint32(name, 0, true)
	if a.err == nil && n == 0 {
		a.fail(invalidAttr(a.el.Name(), name, "0", nil))
	}
	return int(n)
}

// natural reads an optional attribute that must not be negative.
func (a *attrs) natural(name string) int {
	return int(a.uint32(name, 0, false))
}

func (a *attrs) int(name string, def int) int {
	v, ok := a.lookup(name, false)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		a.fail(invalidAttr(a.el.Name(), name, v, err))
		return def
	}
	return n
}

func (a *attrs) float(name string, def float64) float64 {
	v, ok := a.lookup(name, false)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		a.fail(invalidAttr(a.el.Name(), name, v, err))
		return def
	}
	return f
}

// bool accepts Tiled's "0"/"1" as well as "true"/"false".
func (a *attrs) bool(name string, def bool) bool {
	v, ok := a.lookup(name, false)
	if !ok {
		return def
	}
	b, err := parseBool(v)
	if err != nil {
		a.fail(invalidAttr(a.el.Name(), name, v, err))
		return def
	}
	return b
}

func (a *attrs) color(name string) *Color {
	v, ok := a.lookup(name, false)
	if !ok || v == "" {
		return nil
	}
	c, err := ParseColor(v)
	if err != nil {
		a.fail(invalidAttr(a.el.Name(), name, v, err))
		return nil
	}
	return &c
}

func parseBool(v string) (bool, error) {
	switch strings.TrimSpace(v) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// firstChild returns the first child element with the given name.
func firstChild(el Element, name string) Element {
	for _, c := range el.Children() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
