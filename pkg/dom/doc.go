// Package dom resolves CSS selectors against a host document and batches
// mutations over the matched elements.
//
// The package owns no document model. A host (the in-memory htmldoc package,
// or the rod-backed browser package) supplies the tree through the Root and
// Element interfaces; dom only validates arguments, runs the query, and fans
// each mutation out to every matched element in document order.
//
// Resolution has two entry points:
//
//	el, sel, err := r.Select("li")   // nil/nil, one Element, or a *Selection
//	all, err := r.SelectAll("li")    // always a slice, possibly empty
//
// A Selection is chainable. The first failure is kept and every later call
// becomes a no-op, so a chain is checked once at the end:
//
//	if err := sel.AddClass("done").SetText("x").Err(); err != nil { ... }
package dom
