package contextmenu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeInsertAndDetach(t *testing.T) {
	var tr Tree
	root := tr.New(NodeContainer, ClassContainer)
	a := tr.New(NodeItem)
	b := tr.New(NodeItem)
	c := tr.New(NodeItem)

	assert.Equal(t, 0, tr.InsertAt(root, a, -1))
	assert.Equal(t, 1, tr.InsertAt(root, b, 7))
	assert.Equal(t, 0, tr.InsertAt(root, c, 0))
	assert.Equal(t, []NodeID{c, a, b}, tr.Node(root).Children)
	assert.Equal(t, root, tr.Node(a).Parent)

	// moving keeps a node under one parent only
	tr.InsertAt(root, c, 2)
	assert.Equal(t, []NodeID{a, b, c}, tr.Node(root).Children)

	tr.Detach(b)
	assert.Equal(t, NoNode, tr.Node(b).Parent)
	assert.Equal(t, -1, tr.IndexOf(root, b))
	assert.Equal(t, c, tr.Child(root, 1))
	assert.Equal(t, NoNode, tr.Child(root, 5))

	assert.Equal(t, -1, tr.InsertAt(root, NodeID(99), 0))
}

func TestTreeFreeReleasesSubtree(t *testing.T) {
	var tr Tree
	root := tr.New(NodeContainer)
	item := tr.New(NodeItem)
	sub := tr.New(NodeContainer)
	leaf := tr.New(NodeItem)
	tr.InsertAt(root, item, -1)
	tr.InsertAt(item, sub, -1)
	tr.InsertAt(sub, leaf, -1)

	tr.Free(item)
	assert.Nil(t, tr.Node(item))
	assert.Nil(t, tr.Node(sub))
	assert.Nil(t, tr.Node(leaf))
	assert.Empty(t, tr.Node(root).Children)

	// ids are not reused
	next := tr.New(NodeItem)
	assert.Greater(t, int(next), int(leaf))
	assert.NotPanics(t, func() { tr.Free(item) })
}

func TestNodeClassesAndAttrs(t *testing.T) {
	var tr Tree
	n := tr.Node(tr.New(NodeItem, ClassItem, ClassInner))
	require.NotNil(t, n)

	n.AddClass(ClassDisabled)
	n.AddClass(ClassDisabled)
	n.AddClass("")
	assert.Equal(t, []string{ClassItem, ClassInner, ClassDisabled}, n.Classes)

	n.RemoveClass(ClassInner)
	assert.False(t, n.HasClass(ClassInner))
	assert.True(t, n.HasClass(ClassDisabled))

	n.SetAttr("role", "button")
	assert.Equal(t, "button", n.Attr("role"))
	assert.Empty(t, n.Attr("aria-expanded"))
}

func TestTreeWalkCanSkipChildren(t *testing.T) {
	var tr Tree
	root := tr.New(NodeContainer)
	skip := tr.New(NodeItem)
	hidden := tr.New(NodeItem)
	keep := tr.New(NodeItem)
	tr.InsertAt(root, skip, -1)
	tr.InsertAt(skip, hidden, -1)
	tr.InsertAt(root, keep, -1)
	tr.Node(skip).Hidden = true

	var seen []NodeID
	tr.Walk(root, func(n *Node) bool {
		seen = append(seen, n.ID)
		return !n.Hidden
	})
	assert.Equal(t, []NodeID{root, skip, keep}, seen)
}
