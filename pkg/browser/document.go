package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"domsel/pkg/dom"
)

// Document is a live page exposed as a dom.Root.
type Document struct {
	page    *rod.Page
	meta    Session
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	bindings []func() error
}

var _ dom.Root = (*Document)(nil)

func newDocument(page *rod.Page, meta Session, timeout time.Duration, logger *zap.Logger) *Document {
	return &Document{page: page, meta: meta, timeout: timeout, logger: logger}
}

// NewDocument wraps an already open page. Callers own the page lifecycle.
func NewDocument(page *rod.Page, cfg Config, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newDocument(page, Session{TargetID: string(page.TargetID), CreatedAt: time.Now()},
		cfg.OperationTimeout(), logger)
}

// Session returns the document's metadata.
func (d *Document) Session() Session { return d.meta }

// Page returns the underlying rod page.
func (d *Document) Page() *rod.Page { return d.page }

func (d *Document) Kind() dom.Kind {
	if d == nil || d.page == nil {
		return dom.KindOther
	}
	return dom.KindDocument
}

// QueryAll runs querySelectorAll on the page document.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	els, err := d.page.Timeout(d.timeout).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return d.wrap(els), nil
}

// HTML snapshots the page's current markup.
func (d *Document) HTML() (string, error) {
	return d.page.Timeout(d.timeout).HTML()
}

// Close unbinds every exposed listener and closes the page.
func (d *Document) Close() error {
	d.mu.Lock()
	bindings := d.bindings
	d.bindings = nil
	d.mu.Unlock()

	for _, stop := range bindings {
		if err := stop(); err != nil {
			d.logger.Debug("Unbind listener failed", zap.Error(err))
		}
	}
	return d.page.Close()
}

func (d *Document) track(stop func() error) {
	d.mu.Lock()
	d.bindings = append(d.bindings, stop)
	d.mu.Unlock()
}

func (d *Document) wrap(els rod.Elements) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{doc: d, el: el})
	}
	return out
}
