package dom

import (
	"fmt"

	"go.uber.org/zap"
)

// Resolver evaluates selectors against a default document.
type Resolver struct {
	doc    Root
	logger *zap.Logger
}

// NewResolver returns a resolver querying doc by default. Zero-match
// diagnostics go to logger; a nil logger discards them.
func NewResolver(doc Root, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{doc: doc, logger: logger}
}

// Select resolves selector against the resolver's document.
// See SelectFrom.
func (r *Resolver) Select(selector string) (Element, *Selection, error) {
	return r.SelectFrom(r.doc, selector)
}

// SelectFrom resolves selector under ctx. With no match it returns all nils
// after logging a warning. With one match it returns that element, and with
// more it returns a Selection wrapping every match in document order.
func (r *Resolver) SelectFrom(ctx Root, selector string) (Element, *Selection, error) {
	matches, err := r.query("Select", ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil, nil
	case 1:
		return matches[0], nil, nil
	default:
		return nil, &Selection{nodes: matches}, nil
	}
}

// SelectAll resolves selector against the resolver's document.
// See SelectAllFrom.
func (r *Resolver) SelectAll(selector string) ([]Element, error) {
	return r.SelectAllFrom(r.doc, selector)
}

// SelectAllFrom returns every element under ctx matching selector. An empty
// result is not an error; it is logged and returned as an empty slice.
func (r *Resolver) SelectAllFrom(ctx Root, selector string) ([]Element, error) {
	matches, err := r.query("SelectAll", ctx, selector)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []Element{}
	}
	return matches, nil
}

func (r *Resolver) query(op string, ctx Root, selector string) ([]Element, error) {
	if err := checkNonEmpty(op, "selector", selector); err != nil {
		return nil, err
	}
	if ctx == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidContext)
	}
	if k := ctx.Kind(); k != KindDocument && k != KindElement {
		return nil, fmt.Errorf("%s: %w (got %s)", op, ErrInvalidContext, k)
	}

	matches, err := ctx.QueryAll(selector)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", op, selector, err)
	}
	if len(matches) == 0 {
		r.logger.Warn("No elements found for selector", zap.String("selector", selector))
	}
	return matches, nil
}
