package contextmenu

import "slices"

// Class names carried by menu nodes. Hosts style and draw nodes by them.
const (
	ClassContainer = "dropdown-menu"
	ClassItem      = "dropdown"
	ClassInner     = "dropdown-item"
	ClassToggle    = "dropdown-toggle"
	ClassSeparator = "dropdown-divider"
	ClassDisabled  = "disabled"
	ClassOpen      = "show"
	ClassOver      = "over"
)

// ZIndex is the stacking order of the top level frame. Each open sub-menu
// level stacks one above its parent.
const ZIndex = 10000

// NodeID addresses a node in a Tree. NoNode is the absent node.
type NodeID int

const NoNode NodeID = -1

type NodeKind int

const (
	NodeContainer NodeKind = iota
	NodeItem
	NodeSeparator
)

// Node is one element of the menu's visual tree.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Parent   NodeID
	Children []NodeID

	Classes []string
	Attrs   map[string]string

	Text      string
	Icon      string
	IconClass string

	// Hidden is the display:none state.
	Hidden bool

	// Width fixes a container's width. Zero sizes it to its content.
	Width float64

	// Item is the entry an item or separator node renders.
	Item *Item
}

func (n *Node) HasClass(cls string) bool {
	return slices.Contains(n.Classes, cls)
}

func (n *Node) AddClass(cls string) {
	if cls != "" && !n.HasClass(cls) {
		n.Classes = append(n.Classes, cls)
	}
}

func (n *Node) RemoveClass(cls string) {
	n.Classes = slices.DeleteFunc(n.Classes, func(c string) bool { return c == cls })
}

func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// Tree is an index-addressed arena of nodes. Freed slots are not reused, so
// a stale NodeID resolves to nil instead of to somebody else's node.
type Tree struct {
	nodes []*Node
}

// New allocates a detached node.
func (t *Tree) New(kind NodeKind, classes ...string) NodeID {
	id := NodeID(len(t.nodes))
	n := &Node{ID: id, Kind: kind, Parent: NoNode}
	for _, c := range classes {
		n.AddClass(c)
	}
	t.nodes = append(t.nodes, n)
	return id
}

// Node returns the node for id, or nil when id is unknown or freed.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// InsertAt attaches child under parent before the child currently at index.
// An index outside the children appends. It returns the index used.
func (t *Tree) InsertAt(parent, child NodeID, index int) int {
	p, c := t.Node(parent), t.Node(child)
	if p == nil || c == nil {
		return -1
	}
	t.Detach(child)
	if index < 0 || index >= len(p.Children) {
		index = len(p.Children)
	}
	p.Children = slices.Insert(p.Children, index, child)
	c.Parent = parent
	return index
}

// Detach unlinks id from its parent. The node stays allocated.
func (t *Tree) Detach(id NodeID) {
	c := t.Node(id)
	if c == nil || c.Parent == NoNode {
		return
	}
	if p := t.Node(c.Parent); p != nil {
		p.Children = slices.DeleteFunc(p.Children, func(n NodeID) bool { return n == id })
	}
	c.Parent = NoNode
}

// Free detaches id and releases it together with its descendants.
func (t *Tree) Free(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	t.Detach(id)
	for _, c := range slices.Clone(n.Children) {
		t.Free(c)
	}
	t.nodes[id] = nil
}

// IndexOf returns the position of child under parent, or -1.
func (t *Tree) IndexOf(parent, child NodeID) int {
	p := t.Node(parent)
	if p == nil {
		return -1
	}
	return slices.Index(p.Children, child)
}

// Child returns the index-th child of parent, or NoNode.
func (t *Tree) Child(parent NodeID, index int) NodeID {
	p := t.Node(parent)
	if p == nil || index < 0 || index >= len(p.Children) {
		return NoNode
	}
	return p.Children[index]
}

// Walk visits id and its descendants depth first. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(*Node) bool) {
	n := t.Node(id)
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, fn)
	}
}
