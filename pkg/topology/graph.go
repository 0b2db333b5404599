package topology

import (
	"maps"
	"slices"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Neighbor is one adjacency entry: the node on the other side of a link.
type Neighbor struct {
	Node string // neighbouring node ID
	Link string // connecting link ID
}

// Node is a network node with its adjacency list in insertion order.
type Node struct {
	ID        string
	Invert    float64 // invert elevation
	Neighbors []Neighbor
}

// Link is a conveyance link. From and To are empty until the link has been
// connected with [Graph.AddNeighbor].
type Link struct {
	ID     string
	Length float64
	From   string
	To     string
}

func (l *Link) connected() bool { return l.From != "" }

func (l *Link) joins(a, b string) bool {
	return (l.From == a && l.To == b) || (l.From == b && l.To == a)
}

// Graph is an undirected adjacency structure over network nodes and links.
// Every edge is recorded in both endpoints' neighbour lists, and a link
// connects at most one pair of nodes.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes map[string]*Node
	links map[string]*Link
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		links: make(map[string]*Link),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddNode adds a node if it does not exist yet. Adding an existing node is a
// no-op that keeps the original invert.
func (g *Graph) AddNode(id string, invert float64) error {
	if err := errors.ValidateID("node", id); err != nil {
		return err
	}
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &Node{ID: id, Invert: invert}
	}
	return nil
}

// AddLink adds an unconnected link if it does not exist yet. Negative lengths
// are rejected with STRUCTURAL.
func (g *Graph) AddLink(id string, length float64) error {
	if err := errors.ValidateID("link", id); err != nil {
		return err
	}
	if length < 0 {
		return errors.New(errors.ErrCodeStructural, "link %q: length must not be negative, got %v", id, length)
	}
	if _, ok := g.links[id]; !ok {
		g.links[id] = &Link{ID: id, Length: length}
	}
	return nil
}

// AddNeighbor connects node and neighbor through link.
//
// node must already exist; neighbor is created with neighborInvert and link
// with length when missing. Repeating an existing connection is a no-op. The
// call fails without modifying the graph when the link already joins a
// different pair of nodes, when the connection would be a self-loop or when
// a new link has a negative length.
func (g *Graph) AddNeighbor(node, neighbor string, neighborInvert float64, link string, length float64) error {
	n1, ok := g.nodes[node]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", node)
	}
	if err := errors.ValidateID("node", neighbor); err != nil {
		return err
	}
	if err := errors.ValidateID("link", link); err != nil {
		return err
	}
	if node == neighbor {
		return errors.New(errors.ErrCodeStructural, "link %q: self-loop on node %q", link, node)
	}

	l, exists := g.links[link]
	switch {
	case !exists && length < 0:
		return errors.New(errors.ErrCodeStructural, "link %q: length must not be negative, got %v", link, length)
	case exists && l.connected() && !l.joins(node, neighbor):
		return errors.New(errors.ErrCodeStructural, "link %q already connects %q and %q", link, l.From, l.To)
	case exists && l.connected():
		return nil
	}

	if !exists {
		l = &Link{ID: link, Length: length}
		g.links[link] = l
	}
	n2, ok := g.nodes[neighbor]
	if !ok {
		n2 = &Node{ID: neighbor, Invert: neighborInvert}
		g.nodes[neighbor] = n2
	}
	l.From, l.To = node, neighbor
	n1.Neighbors = append(n1.Neighbors, Neighbor{Node: neighbor, Link: link})
	n2.Neighbors = append(n2.Neighbors, Neighbor{Node: node, Link: link})
	return nil
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	out := *n
	out.Neighbors = slices.Clone(n.Neighbors)
	return out, true
}

// Link returns a copy of the link with the given ID.
func (g *Graph) Link(id string) (Link, bool) {
	l, ok := g.links[id]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// Neighbors returns the IDs of the nodes adjacent to id, in insertion order.
func (g *Graph) Neighbors(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	out := make([]string, len(n.Neighbors))
	for i, nb := range n.Neighbors {
		out[i] = nb.Node
	}
	return out, nil
}

// Length returns the length of a link.
func (g *Graph) Length(link string) (float64, error) {
	l, ok := g.links[link]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "link %q not found", link)
	}
	return l.Length, nil
}

// Nodes returns all node IDs sorted.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Links returns all links sorted by ID.
func (g *Graph) Links() []Link {
	out := make([]Link, 0, len(g.links))
	for _, id := range slices.Sorted(maps.Keys(g.links)) {
		out = append(out, *g.links[id])
	}
	return out
}

// RenameNode changes a node's ID in place. The node keeps its edges and every
// neighbour list and link endpoint referring to it is updated.
func (g *Graph) RenameNode(oldID, newID string) error {
	n, ok := g.nodes[oldID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", oldID)
	}
	if err := errors.ValidateID("node", newID); err != nil {
		return err
	}
	if oldID == newID {
		return nil
	}
	if _, taken := g.nodes[newID]; taken {
		return errors.New(errors.ErrCodeStructural, "node %q already exists", newID)
	}

	for _, nb := range n.Neighbors {
		other := g.nodes[nb.Node]
		for i := range other.Neighbors {
			if other.Neighbors[i].Node == oldID {
				other.Neighbors[i].Node = newID
			}
		}
		l := g.links[nb.Link]
		if l.From == oldID {
			l.From = newID
		}
		if l.To == oldID {
			l.To = newID
		}
	}
	delete(g.nodes, oldID)
	n.ID = newID
	g.nodes[newID] = n
	return nil
}

// RenameLink changes a link's ID in place, updating both endpoints'
// neighbour entries.
func (g *Graph) RenameLink(oldID, newID string) error {
	l, ok := g.links[oldID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "link %q not found", oldID)
	}
	if err := errors.ValidateID("link", newID); err != nil {
		return err
	}
	if oldID == newID {
		return nil
	}
	if _, taken := g.links[newID]; taken {
		return errors.New(errors.ErrCodeStructural, "link %q already exists", newID)
	}

	if l.connected() {
		for _, id := range []string{l.From, l.To} {
			n := g.nodes[id]
			for i := range n.Neighbors {
				if n.Neighbors[i].Link == oldID {
					n.Neighbors[i].Link = newID
				}
			}
		}
	}
	delete(g.links, oldID)
	l.ID = newID
	g.links[newID] = l
	return nil
}
