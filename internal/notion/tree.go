package notion

import "github.com/google/uuid"

// Tree indexes a decoded block forest. Nodes live in one slice and refer to
// each other by index; parent links are lookups only and never own a node.
type Tree struct {
	nodes []treeNode
	roots []int
	index map[uuid.UUID]int
}

type treeNode struct {
	block    Block
	parent   int // -1 for roots
	depth    int
	children []int
}

// NewTree flattens roots and their populated children in document order.
func NewTree(roots []Block) *Tree {
	t := &Tree{index: make(map[uuid.UUID]int)}
	for _, b := range roots {
		t.roots = append(t.roots, t.add(b, -1, 0))
	}
	return t
}

func (t *Tree) add(b Block, parent, depth int) int {
	i := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{block: b, parent: parent, depth: depth})
	t.index[b.Base().ID] = i
	for _, child := range b.Base().Children {
		c := t.add(child, i, depth+1)
		t.nodes[i].children = append(t.nodes[i].children, c)
	}
	return i
}

// Len returns the number of blocks in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Roots returns the top-level blocks.
func (t *Tree) Roots() []Block {
	roots := make([]Block, 0, len(t.roots))
	for _, i := range t.roots {
		roots = append(roots, t.nodes[i].block)
	}
	return roots
}

// Lookup finds a block by identifier.
func (t *Tree) Lookup(id uuid.UUID) (Block, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i].block, true
}

// Parent returns the block that holds id as a child. Roots have no parent
// inside the tree even though their Parent field points at the page.
func (t *Tree) Parent(id uuid.UUID) (Block, bool) {
	i, ok := t.index[id]
	if !ok || t.nodes[i].parent < 0 {
		return nil, false
	}
	return t.nodes[t.nodes[i].parent].block, true
}

// Children returns the populated children of id in document order.
func (t *Tree) Children(id uuid.UUID) []Block {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	children := make([]Block, 0, len(t.nodes[i].children))
	for _, c := range t.nodes[i].children {
		children = append(children, t.nodes[c].block)
	}
	return children
}

// Walk visits every block depth first in document order. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(b Block, depth int) bool) {
	for i := range t.nodes {
		if !fn(t.nodes[i].block, t.nodes[i].depth) {
			return
		}
	}
}

// Count returns how many blocks of kind the tree holds.
func (t *Tree) Count(kind BlockKind) int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].block.Kind() == kind {
			n++
		}
	}
	return n
}
