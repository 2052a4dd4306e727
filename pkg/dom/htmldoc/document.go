// Package htmldoc is an in-memory dom host backed by golang.org/x/net/html.
//
// Selectors are matched with cascadia, inline styles are parsed with
// douceur, and markup insertion goes through html.ParseFragment. A Document
// hands out one *Node per tree node, so elements returned by separate
// queries compare equal when they refer to the same node.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"domsel/pkg/dom"
)

// Document owns a parsed tree and the listeners registered on its nodes.
// It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	nodes     map[*html.Node]*Node
	listeners map[*html.Node]map[string][]dom.Handler
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return New(root), nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// New wraps an existing tree. root is normally an html.DocumentNode.
func New(root *html.Node) *Document {
	return &Document{
		root:      root,
		nodes:     make(map[*html.Node]*Node),
		listeners: make(map[*html.Node]map[string][]dom.Handler),
	}
}

// Root returns the underlying tree.
func (d *Document) Root() *html.Node { return d.root }

func (d *Document) Kind() dom.Kind {
	if d == nil || d.root == nil {
		return dom.KindOther
	}
	return kindOf(d.root)
}

// QueryAll matches selector against the descendants of the document root.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	return d.queryAll(d.root, selector)
}

// Wrap returns the Node for n, creating it on first use.
func (d *Document) Wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.nodes[n] = w
	return w
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the current tree as a string.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Dispatch fires event at target and then at each of its ancestors,
// calling listeners in registration order. It returns the number of
// listeners invoked.
func (d *Document) Dispatch(target *Node, event string) int {
	if target == nil {
		return 0
	}
	called := 0
	for n := target.n; n != nil; n = n.Parent {
		handlers := slices.Clone(d.listeners[n][event])
		for _, h := range handlers {
			h(dom.Event{Type: event, Target: d.Wrap(n)})
			called++
		}
	}
	return called
}

func (d *Document) listen(n *html.Node, event string, h dom.Handler) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]dom.Handler)
		d.listeners[n] = byType
	}
	byType[event] = append(byType[event], h)
}

func (d *Document) queryAll(n *html.Node, selector string) ([]dom.Element, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("parse selector: %w", err)
	}
	found := cascadia.QueryAll(n, sel)
	out := make([]dom.Element, 0, len(found))
	for _, f := range found {
		out = append(out, d.Wrap(f))
	}
	return out, nil
}

func kindOf(n *html.Node) dom.Kind {
	switch n.Type {
	case html.DocumentNode:
		return dom.KindDocument
	case html.ElementNode:
		return dom.KindElement
	default:
		return dom.KindOther
	}
}
