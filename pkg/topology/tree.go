package topology

import (
	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// NodeRef is a handle to a node of a [Tree]. Handles stay comparable and
// cheap to copy; they are only meaningful for the tree that issued them.
type NodeRef struct {
	tree  *Tree
	index int
}

// TreeNode is a snapshot of one tree node.
type TreeNode struct {
	ID     string
	Invert float64
	Length float64 // length of the link to the parent; 0 for the root
}

type treeNode struct {
	TreeNode
	parent   int // -1 for the root
	children []int
	alive    bool
}

// Tree is a rooted, parent-linked structure over network nodes.
//
// Nodes live in an arena indexed by [NodeRef]. Invalidating a node clears its
// alive flag (and that of its descendants); any later operation taking the
// node fails with STRUCTURAL. Children lists are append-only.
type Tree struct {
	nodes []treeNode
	byID  map[string]int
	root  int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{byID: make(map[string]int), root: -1}
}

// Size returns the number of live nodes.
func (t *Tree) Size() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].alive {
			n++
		}
	}
	return n
}

// Root returns the root node, if one has been added.
func (t *Tree) Root() (NodeRef, bool) {
	if t.root < 0 {
		return NodeRef{}, false
	}
	return NodeRef{tree: t, index: t.root}, true
}

// AddRoot creates the root node. A tree has exactly one root, set once.
func (t *Tree) AddRoot(id string, invert float64) (NodeRef, error) {
	if t.root >= 0 {
		return NodeRef{}, errors.New(errors.ErrCodeStructural, "tree already has root %q", t.nodes[t.root].ID)
	}
	if err := errors.ValidateID("node", id); err != nil {
		return NodeRef{}, err
	}
	t.root = t.insert(TreeNode{ID: id, Invert: invert}, -1)
	return NodeRef{tree: t, index: t.root}, nil
}

// AddChild appends a child to parent. length is the link length to the
// parent and must be positive.
func (t *Tree) AddChild(parent NodeRef, id string, length, invert float64) (NodeRef, error) {
	if length <= 0 {
		return NodeRef{}, errors.New(errors.ErrCodeStructural, "node %q: length must be positive, got %v", id, length)
	}
	if err := t.Validate(parent); err != nil {
		return NodeRef{}, err
	}
	if err := errors.ValidateID("node", id); err != nil {
		return NodeRef{}, err
	}
	if _, dup := t.byID[id]; dup {
		return NodeRef{}, errors.New(errors.ErrCodeStructural, "node %q already in tree", id)
	}
	i := t.insert(TreeNode{ID: id, Invert: invert, Length: length}, parent.index)
	t.nodes[parent.index].children = append(t.nodes[parent.index].children, i)
	return NodeRef{tree: t, index: i}, nil
}

func (t *Tree) insert(n TreeNode, parent int) int {
	t.nodes = append(t.nodes, treeNode{TreeNode: n, parent: parent, alive: true})
	i := len(t.nodes) - 1
	t.byID[n.ID] = i
	return i
}

// Validate checks that ref was issued by t and has not been invalidated.
func (t *Tree) Validate(ref NodeRef) error {
	if ref.tree != t || ref.index < 0 || ref.index >= len(t.nodes) {
		return errors.New(errors.ErrCodeStructural, "node does not belong to this tree")
	}
	if !t.nodes[ref.index].alive {
		return errors.New(errors.ErrCodeStructural, "node %q is no longer valid", t.nodes[ref.index].ID)
	}
	return nil
}

// Node returns the data held by ref.
func (t *Tree) Node(ref NodeRef) (TreeNode, error) {
	if err := t.Validate(ref); err != nil {
		return TreeNode{}, err
	}
	return t.nodes[ref.index].TreeNode, nil
}

// Find looks up a live node by ID.
func (t *Tree) Find(id string) (NodeRef, bool) {
	i, ok := t.byID[id]
	if !ok || !t.nodes[i].alive {
		return NodeRef{}, false
	}
	return NodeRef{tree: t, index: i}, true
}

// Parent returns the parent of ref. The root has no parent.
func (t *Tree) Parent(ref NodeRef) (NodeRef, bool, error) {
	if err := t.Validate(ref); err != nil {
		return NodeRef{}, false, err
	}
	p := t.nodes[ref.index].parent
	if p < 0 {
		return NodeRef{}, false, nil
	}
	return NodeRef{tree: t, index: p}, true, nil
}

// Children returns the live children of ref in insertion order.
func (t *Tree) Children(ref NodeRef) ([]NodeRef, error) {
	if err := t.Validate(ref); err != nil {
		return nil, err
	}
	var out []NodeRef
	for _, c := range t.nodes[ref.index].children {
		if t.nodes[c].alive {
			out = append(out, NodeRef{tree: t, index: c})
		}
	}
	return out, nil
}

// Invalidate removes ref and its subtree from the tree. The root cannot be
// invalidated.
func (t *Tree) Invalidate(ref NodeRef) error {
	if err := t.Validate(ref); err != nil {
		return err
	}
	if ref.index == t.root {
		return errors.New(errors.ErrCodeStructural, "cannot invalidate root %q", t.nodes[ref.index].ID)
	}
	stack := []int{ref.index}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.nodes[i].alive = false
		delete(t.byID, t.nodes[i].ID)
		stack = append(stack, t.nodes[i].children...)
	}
	return nil
}

// Walk calls fn for every live node in depth-first pre-order, starting at the
// root, with the node's depth (root = 0).
func (t *Tree) Walk(fn func(ref NodeRef, depth int)) {
	if t.root < 0 {
		return
	}
	var visit func(i, depth int)
	visit = func(i, depth int) {
		fn(NodeRef{tree: t, index: i}, depth)
		for _, c := range t.nodes[i].children {
			if t.nodes[c].alive {
				visit(c, depth+1)
			}
		}
	}
	visit(t.root, 0)
}
