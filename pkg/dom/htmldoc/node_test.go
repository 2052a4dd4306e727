package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domsel/pkg/dom"
)

func firstNode(t *testing.T, page, selector string) (*Document, *Node) {
	t.Helper()
	doc := mustParse(t, page)
	nodes := mustQuery(t, doc, selector)
	require.NotEmpty(t, nodes)
	return doc, nodes[0]
}

func TestNode_ClassList(t *testing.T) {
	tests := []struct {
		name string
		page string
		op   func(*Node) error
		want string
	}{
		{"add to empty", `<p></p>`, func(n *Node) error { return n.AddClass("a") }, `<p class="a"></p>`},
		{"add existing normalizes", `<p class=" a  a b"></p>`, func(n *Node) error { return n.AddClass("a") }, `<p class="a b"></p>`},
		{"remove", `<p class="a b"></p>`, func(n *Node) error { return n.RemoveClass("a") }, `<p class="b"></p>`},
		{"remove last keeps attribute", `<p class="a"></p>`, func(n *Node) error { return n.RemoveClass("a") }, `<p class=""></p>`},
		{"remove without attribute", `<p></p>`, func(n *Node) error { return n.RemoveClass("a") }, `<p></p>`},
		{"toggle on", `<p class="b"></p>`, func(n *Node) error { return n.ToggleClass("a") }, `<p class="b a"></p>`},
		{"toggle off", `<p class="a b"></p>`, func(n *Node) error { return n.ToggleClass("a") }, `<p class="b"></p>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, n := firstNode(t, tc.page, "p")
			require.NoError(t, tc.op(n))
			assert.Equal(t, tc.want, n.OuterHTML())
		})
	}
}

func TestNode_SetText(t *testing.T) {
	_, n := firstNode(t, `<div><b>bold</b> and <i>it</i></div>`, "div")

	require.NoError(t, n.SetText(`<x> & y`))
	assert.Equal(t, `<div>&lt;x&gt; &amp; y</div>`, n.OuterHTML())
	assert.Equal(t, `<x> & y`, n.Text())

	require.NoError(t, n.SetText(""))
	assert.Equal(t, `<div></div>`, n.OuterHTML())
	assert.Nil(t, n.HTMLNode().FirstChild)
}

func TestNode_Attributes(t *testing.T) {
	_, n := firstNode(t, `<input TYPE="text">`, "input")

	v, ok, err := n.Attribute("Type")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "text", v)

	require.NoError(t, n.SetAttribute("TYPE", "email"))
	require.NoError(t, n.SetAttribute("placeholder", ""))
	assert.Equal(t, `<input type="email" placeholder=""/>`, n.OuterHTML())

	require.NoError(t, n.RemoveAttribute("type"))
	require.NoError(t, n.RemoveAttribute("absent"))
	_, ok, err = n.Attribute("type")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNode_InlineStyle(t *testing.T) {
	_, n := firstNode(t, `<p style="color:blue;margin: 0 !important"></p>`, "p")

	v, err := n.Style("margin")
	require.NoError(t, err)
	assert.Equal(t, "0", v)

	require.NoError(t, n.SetStyle("color", "red"))
	require.NoError(t, n.SetStyle("padding", "2px"))
	assert.Equal(t, `<p style="color: red; margin: 0 !important; padding: 2px;"></p>`, n.OuterHTML())

	require.NoError(t, n.RemoveStyle("margin"))
	require.NoError(t, n.SetStyle("color", ""))
	assert.Equal(t, `<p style="padding: 2px;"></p>`, n.OuterHTML())

	v, err = n.Style("color")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestNode_InlineStyleDropsMalformedDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"empty declaration", `width: 1px;; height: 2px`, `width: 1px; height: 2px; display: none;`},
		{"property without value", `color`, `display: none;`},
		{"property with colon only", `color:; width: 1px`, `width: 1px; display: none;`},
		{"trailing brace", `color: red; width: 1px }`, `color: red; display: none;`},
		{"stray braces", `{color: red}`, `display: none;`},
		{"whitespace in name", `col or: red; top: 0`, `top: 0; display: none;`},
		{"function with semicolon in string", `background: url("a;b.png")`, `background: url("a;b.png"); display: none;`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, n := firstNode(t, `<i style='`+tc.style+`'></i>`, "i")

			require.NoError(t, n.SetStyle("display", "none"))
			style, _, err := n.Attribute("style")
			require.NoError(t, err)
			assert.Equal(t, tc.want, style)

			require.NoError(t, n.RemoveStyle("display"))
			v, err := n.Style("display")
			require.NoError(t, err)
			assert.Empty(t, v)
		})
	}
}

func TestNode_SetStyleIgnoresInvalidValues(t *testing.T) {
	_, n := firstNode(t, `<p style="color: blue"></p>`, "p")

	for _, value := range []string{
		"red; display: none",
		"red !important",
		"red }",
		"{red}",
	} {
		require.NoError(t, n.SetStyle("color", value), value)
		assert.Equal(t, `<p style="color: blue"></p>`, n.OuterHTML(), value)
	}

	require.NoError(t, n.SetStyle("color", "  rgb(1, 2, 3) "))
	v, err := n.Style("color")
	require.NoError(t, err)
	assert.Equal(t, "rgb(1, 2, 3)", v)
}

func TestNode_RemoveStyleWithoutAttribute(t *testing.T) {
	_, n := firstNode(t, `<p></p>`, "p")
	require.NoError(t, n.RemoveStyle("color"))
	assert.Equal(t, `<p></p>`, n.OuterHTML())
}

func TestNode_InsertHTML(t *testing.T) {
	_, n := firstNode(t, `<table><tbody><tr><td>1</td></tr></tbody></table>`, "tbody")

	require.NoError(t, n.InsertHTML(dom.BeforeEnd, `<tr><td>2</td></tr>`))
	require.NoError(t, n.InsertHTML(dom.AfterBegin, `<tr><td>0</td></tr>`))
	assert.Equal(t, `<tbody><tr><td>0</td></tr><tr><td>1</td></tr><tr><td>2</td></tr></tbody>`, n.OuterHTML())

	assert.Error(t, n.InsertHTML(dom.Position(9), `<tr></tr>`))
}

func TestNode_RemoveAndReplace(t *testing.T) {
	doc, n := firstNode(t, `<ul><li>a</li><li>b</li></ul>`, "li")

	require.NoError(t, n.ReplaceWith(`<li>x</li><li>y</li>`))
	assert.False(t, n.Attached())
	ul := mustQuery(t, doc, "ul")[0]
	assert.Equal(t, `<ul><li>x</li><li>y</li><li>b</li></ul>`, ul.OuterHTML())

	// Detached nodes are skipped.
	require.NoError(t, n.ReplaceWith(`<li>z</li>`))
	require.NoError(t, n.Remove())
	assert.Equal(t, `<ul><li>x</li><li>y</li><li>b</li></ul>`, ul.OuterHTML())

	last := mustQuery(t, doc, "li")[2]
	require.NoError(t, last.Remove())
	assert.Equal(t, `<ul><li>x</li><li>y</li></ul>`, ul.OuterHTML())
}
