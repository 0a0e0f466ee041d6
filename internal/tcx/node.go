package tcx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Node is one element of a decoded document. Names carry the resolved
// namespace URI, not the prefix used in the source text.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node

	text strings.Builder
}

// decodeTree reads content into an element tree rooted at the document element
func decodeTree(content []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("more than one root element")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
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
		return nil, errors.New("no root element")
	}
	return root, nil
}

// Child returns the first direct child with the given name, or nil
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name.Space == space && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name in document order
func (n *Node) ChildrenNamed(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of direct children that all live in one namespace
func (n *Node) Path(space string, locals ...string) *Node {
	cur := n
	for _, local := range locals {
		cur = cur.Child(space, local)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Find returns the first descendant with the given name in depth-first
// document order. The node itself is not considered.
func (n *Node) Find(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name.Space == space && c.Name.Local == local {
			return c
		}
		if found := c.Find(space, local); found != nil {
			return found
		}
	}
	return nil
}

// Attr returns the value of an unqualified attribute, or ""
func (n *Node) Attr(local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Text returns the element's own character data with surrounding whitespace removed
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text.String())
}

func (n *Node) parseFloat(field string) (float64, error) {
	v, err := strconv.ParseFloat(n.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrMalformedDocument, field, n.Text())
	}
	return v, nil
}

func (n *Node) parseInt(field string) (int, error) {
	v, err := strconv.Atoi(n.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", ErrMalformedDocument, field, n.Text())
	}
	return v, nil
}

// optionalFloat converts n when it exists and reports absence as nil
func optionalFloat(n *Node, field string) (*float64, error) {
	if n == nil {
		return nil, nil
	}
	v, err := n.parseFloat(field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// optionalInt converts n when it exists and reports absence as nil
func optionalInt(n *Node, field string) (*int, error) {
	if n == nil {
		return nil, nil
	}
	v, err := n.parseInt(field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
