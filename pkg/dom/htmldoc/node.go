package htmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"domsel/pkg/dom"
)

// ErrNotElement is returned when an element primitive is called on a node
// that is not an element.
var ErrNotElement = errors.New("node is not an element")

// Node is a handle to one node of a Document.
type Node struct {
	doc *Document
	n   *html.Node
}

var _ dom.Element = (*Node)(nil)

// HTMLNode returns the wrapped tree node.
func (e *Node) HTMLNode() *html.Node { return e.n }

func (e *Node) Kind() dom.Kind {
	if e == nil || e.n == nil {
		return dom.KindOther
	}
	return kindOf(e.n)
}

// QueryAll matches selector against the descendants of e.
func (e *Node) QueryAll(selector string) ([]dom.Element, error) {
	return e.doc.queryAll(e.n, selector)
}

// Text returns the concatenated text of e and its descendants.
func (e *Node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

// OuterHTML renders e and its descendants.
func (e *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.n); err != nil {
		return ""
	}
	return buf.String()
}

// Attached reports whether e still has a parent.
func (e *Node) Attached() bool { return e.n.Parent != nil }

func (e *Node) element() error {
	if e == nil || e.n == nil || e.n.Type != html.ElementNode {
		return ErrNotElement
	}
	return nil
}

func (e *Node) AddClass(name string) error {
	return e.updateClasses(func(set []string) []string {
		if slices.Contains(set, name) {
			return set
		}
		return append(set, name)
	})
}

func (e *Node) RemoveClass(name string) error {
	return e.updateClasses(func(set []string) []string {
		return slices.DeleteFunc(set, func(c string) bool { return c == name })
	})
}

func (e *Node) ToggleClass(name string) error {
	return e.updateClasses(func(set []string) []string {
		if slices.Contains(set, name) {
			return slices.DeleteFunc(set, func(c string) bool { return c == name })
		}
		return append(set, name)
	})
}

// updateClasses rewrites the class attribute from the token set returned
// by fn. An element without a class attribute keeps none if the set stays
// empty.
func (e *Node) updateClasses(fn func([]string) []string) error {
	if err := e.element(); err != nil {
		return err
	}
	raw, had := e.attr("class")
	set := fn(tokenSet(raw))
	if !had && len(set) == 0 {
		return nil
	}
	e.setAttr("class", strings.Join(set, " "))
	return nil
}

// tokenSet splits s on ASCII whitespace, dropping duplicates.
func tokenSet(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if !slices.Contains(out, tok) {
			out = append(out, tok)
		}
	}
	return out
}

// SetText replaces every child of e with a single text node.
func (e *Node) SetText(text string) error {
	if err := e.element(); err != nil {
		return err
	}
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return nil
}

// AddEventListener registers handler; Document.Dispatch invokes it.
func (e *Node) AddEventListener(event string, handler dom.Handler) error {
	if err := e.element(); err != nil {
		return err
	}
	if handler == nil {
		return errors.New("nil handler")
	}
	e.doc.listen(e.n, event, handler)
	return nil
}

func (e *Node) SetAttribute(name, value string) error {
	if err := e.element(); err != nil {
		return err
	}
	e.setAttr(e.key(name), value)
	return nil
}

func (e *Node) RemoveAttribute(name string) error {
	if err := e.element(); err != nil {
		return err
	}
	key := e.key(name)
	e.n.Attr = slices.DeleteFunc(e.n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
	return nil
}

func (e *Node) Attribute(name string) (string, bool, error) {
	if err := e.element(); err != nil {
		return "", false, err
	}
	v, ok := e.attr(e.key(name))
	return v, ok, nil
}

// key lower-cases attribute names on HTML elements, as browsers do.
func (e *Node) key(name string) string {
	if e.n.Namespace == "" {
		return strings.ToLower(name)
	}
	return name
}

func (e *Node) attr(key string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Node) setAttr(key, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == key {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: key, Val: value})
}

// InsertHTML parses markup in the context of e and inserts the result.
func (e *Node) InsertHTML(pos dom.Position, markup string) error {
	if err := e.element(); err != nil {
		return err
	}
	nodes, err := parseFragment(e.n, markup)
	if err != nil {
		return err
	}
	switch pos {
	case dom.BeforeEnd:
		for _, n := range nodes {
			e.n.AppendChild(n)
		}
	case dom.AfterBegin:
		first := e.n.FirstChild
		for _, n := range nodes {
			e.n.InsertBefore(n, first)
		}
	default:
		return fmt.Errorf("unknown insert position %d", pos)
	}
	return nil
}

func (e *Node) Remove() error {
	if err := e.element(); err != nil {
		return err
	}
	if e.n.Parent == nil {
		return nil
	}
	e.n.Parent.RemoveChild(e.n)
	return nil
}

func (e *Node) ReplaceWith(markup string) error {
	if err := e.element(); err != nil {
		return err
	}
	parent := e.n.Parent
	if parent == nil {
		return nil
	}
	nodes, err := parseFragment(parent, markup)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.InsertBefore(n, e.n)
	}
	parent.RemoveChild(e.n)
	return nil
}

// parseFragment parses markup as the children of context. Non-element
// contexts fall back to <body>.
func parseFragment(context *html.Node, markup string) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return nodes, nil
}
