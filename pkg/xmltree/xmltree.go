// Package xmltree parses Tiled XML documents (.tmx, .tsx) into trees that
// satisfy tiled.Element.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/tiledmap/pkg/tiled"
)

// Parse errors.
var (
	ErrNoRoot        = errors.New("xmltree: document has no root element")
	ErrMultipleRoots = errors.New("xmltree: document has more than one root element")
)

// Node is one element of a parsed document.
type Node struct {
	name     string
	attrs    []xml.Attr
	children []tiled.Element
	text     strings.Builder
}

// Name returns the local element name.
func (n *Node) Name() string { return n.name }

// Attr looks up an attribute by local name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns child elements in document order.
func (n *Node) Children() []tiled.Element { return n.children }

// Text returns the character data directly inside the element.
func (n *Node) Text() string { return n.text.String() }

// Parse reads a whole document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// ParseBytes parses a document held in memory.
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile parses a document from disk.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}
