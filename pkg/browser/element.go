package browser

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"domsel/pkg/dom"
)

const (
	jsAddClass        = `function (c) { this.classList.add(c) }`
	jsRemoveClass     = `function (c) { this.classList.remove(c) }`
	jsToggleClass     = `function (c) { this.classList.toggle(c) }`
	jsSetText         = `function (t) { this.textContent = t }`
	jsSetAttribute    = `function (n, v) { this.setAttribute(n, v) }`
	jsRemoveAttribute = `function (n) { this.removeAttribute(n) }`
	jsSetStyle        = `function (p, v) { this.style.setProperty(p, v) }`
	jsRemoveStyle     = `function (p) { this.style.removeProperty(p) }`
	jsStyle           = `function (p) { return this.style.getPropertyValue(p) }`
	jsInsertHTML      = `function (where, html) { this.insertAdjacentHTML(where, html) }`
	jsRemove          = `function () { if (this.parentNode) this.parentNode.removeChild(this) }`
	jsReplaceWith     = `function (html) {
		if (!this.parentNode) return
		const frag = document.createRange().createContextualFragment(html)
		this.parentNode.replaceChild(frag, this)
	}`
	jsListen = `function (event, binding) {
		this.addEventListener(event, (e) => { window[binding](e.type) })
	}`
)

// Element is a remote element of a Document.
type Element struct {
	doc *Document
	el  *rod.Element
}

var _ dom.Element = (*Element)(nil)

// RodElement returns the underlying rod element.
func (e *Element) RodElement() *rod.Element { return e.el }

func (e *Element) Kind() dom.Kind {
	if e == nil || e.el == nil {
		return dom.KindOther
	}
	return dom.KindElement
}

// QueryAll runs querySelectorAll on the element.
func (e *Element) QueryAll(selector string) ([]dom.Element, error) {
	els, err := e.el.Timeout(e.doc.timeout).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return e.doc.wrap(els), nil
}

func (e *Element) eval(js string, args ...interface{}) (gson.JSON, error) {
	res, err := e.el.Timeout(e.doc.timeout).Eval(js, args...)
	if err != nil {
		return gson.JSON{}, err
	}
	return res.Value, nil
}

func (e *Element) call(js string, args ...interface{}) error {
	_, err := e.eval(js, args...)
	return err
}

func (e *Element) AddClass(name string) error    { return e.call(jsAddClass, name) }
func (e *Element) RemoveClass(name string) error { return e.call(jsRemoveClass, name) }
func (e *Element) ToggleClass(name string) error { return e.call(jsToggleClass, name) }
func (e *Element) SetText(text string) error     { return e.call(jsSetText, text) }

func (e *Element) SetAttribute(name, value string) error {
	return e.call(jsSetAttribute, name, value)
}

func (e *Element) RemoveAttribute(name string) error { return e.call(jsRemoveAttribute, name) }

func (e *Element) Attribute(name string) (string, bool, error) {
	v, err := e.el.Timeout(e.doc.timeout).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) SetStyle(property, value string) error {
	return e.call(jsSetStyle, property, value)
}

func (e *Element) RemoveStyle(property string) error { return e.call(jsRemoveStyle, property) }

func (e *Element) Style(property string) (string, error) {
	v, err := e.eval(jsStyle, property)
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *Element) InsertHTML(pos dom.Position, markup string) error {
	var where string
	switch pos {
	case dom.BeforeEnd:
		where = "beforeend"
	case dom.AfterBegin:
		where = "afterbegin"
	default:
		return fmt.Errorf("unknown insert position %d", pos)
	}
	return e.call(jsInsertHTML, where, markup)
}

func (e *Element) Remove() error                   { return e.call(jsRemove) }
func (e *Element) ReplaceWith(markup string) error { return e.call(jsReplaceWith, markup) }

// AddEventListener exposes handler to the page under a unique binding and
// registers a DOM listener that calls it. Handlers run on rod's event
// goroutine, not the caller's.
func (e *Element) AddEventListener(event string, handler dom.Handler) error {
	name := bindingName()
	stop, err := e.doc.page.Expose(name, func(j gson.JSON) (interface{}, error) {
		handler(dom.Event{Type: j.Str(), Target: e})
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("expose listener: %w", err)
	}
	if err := e.call(jsListen, event, name); err != nil {
		if uerr := stop(); uerr != nil {
			e.doc.logger.Debug("Unbind listener failed", zap.String("binding", name), zap.Error(uerr))
		}
		return err
	}
	e.doc.track(stop)
	return nil
}

// bindingName returns a page-global identifier for an exposed listener.
func bindingName() string {
	return "domsel_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
