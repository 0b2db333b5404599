package topology

import (
	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// SpanningTree derives a tree rooted at root from the breadth-first traversal
// of g. Each discovered node becomes a child of the node it was reached from,
// with the connecting link's length. Zero-length links (orifices) cannot be
// tree edges and make the derivation fail with STRUCTURAL.
func SpanningTree(g *Graph, root string) (*Tree, error) {
	t := NewTree()
	err := walk(g, root, func(id string, via *Neighbor) error {
		n := g.nodes[id]
		if via == nil {
			_, err := t.AddRoot(id, n.Invert)
			return err
		}
		parent, _ := t.Find(via.Node)
		length := g.links[via.Link].Length
		if length <= 0 {
			return errors.New(errors.ErrCodeStructural, "link %q between %q and %q has no length", via.Link, via.Node, id)
		}
		_, err := t.AddChild(parent, id, length, n.Invert)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
