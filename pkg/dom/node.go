package dom

// Kind classifies a host node for context validation.
type Kind int

const (
	// KindOther is any node that cannot serve as a query context.
	KindOther Kind = iota
	KindDocument
	KindElement
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	default:
		return "other"
	}
}

// Position selects where InsertHTML places parsed markup.
type Position int

const (
	// BeforeEnd inserts after the last child.
	BeforeEnd Position = iota
	// AfterBegin inserts before the first child.
	AfterBegin
)

// Root is a node selectors can be evaluated against.
type Root interface {
	Kind() Kind
	// QueryAll returns the descendants matching selector in document order.
	QueryAll(selector string) ([]Element, error)
}

// Element is the set of primitive mutations a host provides for one element.
// Implementations apply each call directly to the live tree.
type Element interface {
	Root

	AddClass(name string) error
	RemoveClass(name string) error
	ToggleClass(name string) error

	SetText(text string) error
	AddEventListener(event string, handler Handler) error

	SetAttribute(name, value string) error
	RemoveAttribute(name string) error
	// Attribute reports the value and whether the attribute is present.
	Attribute(name string) (string, bool, error)

	SetStyle(property, value string) error
	RemoveStyle(property string) error
	Style(property string) (string, error)

	InsertHTML(pos Position, markup string) error
	// Remove detaches the element. Detached elements are left alone.
	Remove() error
	// ReplaceWith substitutes parsed markup for the element in its parent.
	// Detached elements are left alone.
	ReplaceWith(markup string) error
}

// Event is passed to listeners registered through Selection.On.
type Event struct {
	Type string
	// Target is the element the listener was registered on.
	Target Element
}

// Handler receives events for a registered listener.
type Handler func(Event)

// Style maps inline style properties to values for AddStyle.
type Style map[string]string
