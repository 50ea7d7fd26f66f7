package contextmenu

import "slices"

// Registry is the ordered list of entries shown in one menu container.
// Its order always matches the container node's children: every insert and
// removal updates both.
type Registry struct {
	tree      *Tree
	container NodeID
	items     []*Item
}

func newRegistry(tree *Tree, container NodeID) *Registry {
	return &Registry{tree: tree, container: container}
}

// Container is the node the registry's entries are attached to.
func (r *Registry) Container() NodeID {
	return r.container
}

func (r *Registry) Len() int {
	return len(r.items)
}

// At returns the entry at display position i, or nil.
func (r *Registry) At(i int) *Item {
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return r.items[i]
}

// Items returns a copy of the entries in display order.
func (r *Registry) Items() []*Item {
	return slices.Clone(r.items)
}

// Find returns the entry with the given id and its position.
func (r *Registry) Find(id ItemID) (*Item, int) {
	for i, it := range r.items {
		if it.ID == id {
			return it, i
		}
	}
	return nil, -1
}

// IndexOf returns the display position of it, or -1.
func (r *Registry) IndexOf(it *Item) int {
	if it == nil {
		return -1
	}
	_, i := r.Find(it.ID)
	return i
}

// insert places it before the entry at index, appending when index is out
// of range, and returns where it landed.
func (r *Registry) insert(it *Item, index int) int {
	if index < 0 || index > len(r.items) {
		index = len(r.items)
	}
	r.items = slices.Insert(r.items, index, it)
	r.tree.InsertAt(r.container, it.node, index)
	it.parent = r
	return index
}

// remove takes the entry with id out of the registry and the tree. It
// returns nil when there is no such entry, so removing twice is harmless.
func (r *Registry) remove(id ItemID) *Item {
	it, i := r.Find(id)
	if it == nil {
		return nil
	}
	r.items = slices.Delete(r.items, i, i+1)
	r.tree.Free(it.node)
	it.parent = nil
	it.onSelect = nil
	return it
}

// walk visits every entry of r and of its nested sub-menus.
func (r *Registry) walk(fn func(*Item)) {
	for _, it := range r.items {
		fn(it)
		if it.sub != nil {
			it.sub.walk(fn)
		}
	}
}
