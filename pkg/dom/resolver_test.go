package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"

	"domsel/pkg/dom"
	"domsel/pkg/dom/htmldoc"
)

const listPage = `<html><body>
<ul id="list"><li id="a">one</li><li id="b">two</li><li id="c">three</li></ul>
<p class="only">single</p>
<div id="box"><span>x</span><span>y</span></div>
</body></html>`

func newResolver(t *testing.T, page string) (*dom.Resolver, *htmldoc.Document, *observer.ObservedLogs) {
	t.Helper()
	doc, err := htmldoc.ParseString(page)
	require.NoError(t, err)
	core, logs := observer.New(zapcore.WarnLevel)
	return dom.NewResolver(doc, zap.New(core)), doc, logs
}

func TestSelect_SingleMatchReturnsElement(t *testing.T) {
	r, _, logs := newResolver(t, listPage)

	el, sel, err := r.Select("p.only")
	require.NoError(t, err)
	assert.Nil(t, sel)
	require.NotNil(t, el)

	node, ok := el.(*htmldoc.Node)
	require.True(t, ok)
	assert.Equal(t, "single", node.Text())
	assert.Zero(t, logs.Len())
}

func TestSelect_MultipleMatchesMirrorSelectAll(t *testing.T) {
	r, _, _ := newResolver(t, listPage)

	el, sel, err := r.Select("li")
	require.NoError(t, err)
	assert.Nil(t, el)
	require.NotNil(t, sel)

	all, err := r.SelectAll("li")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, len(all), sel.Len())

	nodes := sel.Nodes()
	for i := range all {
		assert.Same(t, all[i], nodes[i], "element %d", i)
	}
	var ids []string
	for _, n := range nodes {
		id, _, err := n.Attribute("id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestSelect_NoMatchWarnsOnce(t *testing.T) {
	r, _, logs := newResolver(t, listPage)

	el, sel, err := r.Select("#missing")
	require.NoError(t, err)
	assert.Nil(t, el)
	assert.Nil(t, sel)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "#missing", entries[0].ContextMap()["selector"])
}

func TestSelectAll_NoMatchReturnsEmptySlice(t *testing.T) {
	r, _, logs := newResolver(t, listPage)

	all, err := r.SelectAll("table")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
	assert.Equal(t, 1, logs.FilterField(zap.String("selector", "table")).Len())
}

func TestSelectFrom_ScopesToContext(t *testing.T) {
	r, _, _ := newResolver(t, listPage)

	box, _, err := r.Select("#box")
	require.NoError(t, err)
	require.NotNil(t, box)

	_, sel, err := r.SelectFrom(box, "span")
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.Len())

	all, err := r.SelectAllFrom(box, "li")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSelect_InvalidContext(t *testing.T) {
	r, doc, logs := newResolver(t, listPage)

	text := doc.Wrap(&html.Node{Type: html.TextNode, Data: "123"})
	tests := []struct {
		name string
		ctx  dom.Root
	}{
		{"nil", nil},
		{"text node", text},
		{"typed nil", (*htmldoc.Node)(nil)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := r.SelectFrom(tc.ctx, "div")
			assert.ErrorIs(t, err, dom.ErrInvalidContext)

			_, err = r.SelectAllFrom(tc.ctx, "div")
			assert.ErrorIs(t, err, dom.ErrInvalidContext)
		})
	}
	assert.Zero(t, logs.Len(), "no query may run for an invalid context")
}

func TestSelect_InvalidSelector(t *testing.T) {
	r, _, logs := newResolver(t, listPage)

	_, _, err := r.Select("")
	var argErr *dom.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "selector", argErr.Param)
	assert.ErrorIs(t, err, dom.ErrInvalidArgument)

	_, err = r.SelectAll("li[")
	require.Error(t, err)
	assert.NotErrorIs(t, err, dom.ErrInvalidArgument)
	assert.Zero(t, logs.Len())
}

func TestNewResolver_NilLogger(t *testing.T) {
	doc, err := htmldoc.ParseString(listPage)
	require.NoError(t, err)

	r := dom.NewResolver(doc, nil)
	el, sel, err := r.Select("#nothing")
	require.NoError(t, err)
	assert.Nil(t, el)
	assert.Nil(t, sel)
}
