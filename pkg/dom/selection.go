package dom

import (
	"maps"
	"slices"
)

// Selection applies mutations to a fixed, non-empty sequence of elements.
//
// Every mutating method returns the receiver. The first error, whether a
// rejected argument or a host failure, is kept; later calls do nothing and
// Err reports it. Arguments are checked before any element is touched.
// A Selection is not safe for concurrent use.
type Selection struct {
	nodes []Element
	err   error
}

// NewSelection wraps nodes. It fails when nodes is empty.
func NewSelection(nodes ...Element) (*Selection, error) {
	if len(nodes) == 0 {
		return nil, argError("NewSelection", "nodes", "must not be empty")
	}
	return &Selection{nodes: slices.Clone(nodes)}, nil
}

// Len returns the number of wrapped elements.
func (s *Selection) Len() int { return len(s.nodes) }

// Nodes returns a copy of the wrapped elements in document order.
func (s *Selection) Nodes() []Element { return slices.Clone(s.nodes) }

// Err returns the first error recorded by the chain.
func (s *Selection) Err() error { return s.err }

// each runs fn on every element, stopping at the first host failure.
func (s *Selection) each(op string, fn func(Element) error) *Selection {
	for i, el := range s.nodes {
		if err := fn(el); err != nil {
			s.err = hostError(op, i, err)
			return s
		}
	}
	return s
}

// fail records err unless an earlier error is already held.
func (s *Selection) fail(err error) *Selection {
	if s.err == nil {
		s.err = err
	}
	return s
}

func (s *Selection) AddClass(name string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkToken("AddClass", "name", name); err != nil {
		return s.fail(err)
	}
	return s.each("AddClass", func(el Element) error { return el.AddClass(name) })
}

func (s *Selection) RemoveClass(name string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkToken("RemoveClass", "name", name); err != nil {
		return s.fail(err)
	}
	return s.each("RemoveClass", func(el Element) error { return el.RemoveClass(name) })
}

// ToggleClass adds name where it is absent and removes it where present.
func (s *Selection) ToggleClass(name string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkToken("ToggleClass", "name", name); err != nil {
		return s.fail(err)
	}
	return s.each("ToggleClass", func(el Element) error { return el.ToggleClass(name) })
}

// SetText replaces each element's children with a single text node.
func (s *Selection) SetText(text string) *Selection {
	if s.err != nil {
		return s
	}
	return s.each("SetText", func(el Element) error { return el.SetText(text) })
}

// On registers handler for event on every element.
func (s *Selection) On(event string, handler Handler) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkNonEmpty("On", "event", event); err != nil {
		return s.fail(err)
	}
	if handler == nil {
		return s.fail(argError("On", "handler", "must not be nil"))
	}
	return s.each("On", func(el Element) error { return el.AddEventListener(event, handler) })
}

func (s *Selection) SetAttribute(name, value string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkAttrName("SetAttribute", name); err != nil {
		return s.fail(err)
	}
	return s.each("SetAttribute", func(el Element) error { return el.SetAttribute(name, value) })
}

func (s *Selection) RemoveAttribute(name string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkAttrName("RemoveAttribute", name); err != nil {
		return s.fail(err)
	}
	return s.each("RemoveAttribute", func(el Element) error { return el.RemoveAttribute(name) })
}

// GetAttribute reads name from the first element. It ends a chain: ok is
// false when the attribute is absent, and err carries any earlier failure.
func (s *Selection) GetAttribute(name string) (value string, ok bool, err error) {
	if s.err != nil {
		return "", false, s.err
	}
	if err := checkAttrName("GetAttribute", name); err != nil {
		s.fail(err)
		return "", false, err
	}
	value, ok, err = s.nodes[0].Attribute(name)
	if err != nil {
		err = hostError("GetAttribute", 0, err)
		s.fail(err)
		return "", false, err
	}
	return value, ok, nil
}

// AddStyle sets each property of style as an inline style, in sorted
// property order. An empty value clears the property.
func (s *Selection) AddStyle(style Style) *Selection {
	if s.err != nil {
		return s
	}
	if style == nil {
		return s.fail(argError("AddStyle", "style", "must be a non-nil map"))
	}
	props := slices.Sorted(maps.Keys(style))
	for _, p := range props {
		if p == "" {
			return s.fail(argError("AddStyle", "style", "has an empty property name"))
		}
	}
	return s.each("AddStyle", func(el Element) error {
		for _, p := range props {
			var err error
			if v := style[p]; v == "" {
				err = el.RemoveStyle(propertyName(p))
			} else {
				err = el.SetStyle(propertyName(p), v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Selection) RemoveStyle(name string) *Selection {
	if s.err != nil {
		return s
	}
	if err := checkNonEmpty("RemoveStyle", "name", name); err != nil {
		return s.fail(err)
	}
	prop := propertyName(name)
	return s.each("RemoveStyle", func(el Element) error { return el.RemoveStyle(prop) })
}

// Append parses markup and adds it after each element's last child.
func (s *Selection) Append(markup string) *Selection {
	if s.err != nil {
		return s
	}
	return s.each("Append", func(el Element) error { return el.InsertHTML(BeforeEnd, markup) })
}

// Prepend parses markup and adds it before each element's first child.
func (s *Selection) Prepend(markup string) *Selection {
	if s.err != nil {
		return s
	}
	return s.each("Prepend", func(el Element) error { return el.InsertHTML(AfterBegin, markup) })
}

// Remove detaches every element from its parent.
func (s *Selection) Remove() *Selection {
	if s.err != nil {
		return s
	}
	return s.each("Remove", Element.Remove)
}

// ToggleVisibility hides visible elements with display: none and clears the
// inline display of hidden ones, falling back to the stylesheet value.
func (s *Selection) ToggleVisibility() *Selection {
	if s.err != nil {
		return s
	}
	return s.each("ToggleVisibility", func(el Element) error {
		display, err := el.Style("display")
		if err != nil {
			return err
		}
		if display == "none" {
			return el.RemoveStyle("display")
		}
		return el.SetStyle("display", "none")
	})
}

// ReplaceWith substitutes parsed markup for every attached element.
func (s *Selection) ReplaceWith(markup string) *Selection {
	if s.err != nil {
		return s
	}
	return s.each("ReplaceWith", func(el Element) error { return el.ReplaceWith(markup) })
}
