package topology

import (
	"slices"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Reachable returns every node reachable from start by following links,
// start included, sorted by ID. It fails with NOT_FOUND when start is not a
// node of g.
func Reachable(g *Graph, start string) ([]string, error) {
	var out []string
	err := walk(g, start, func(id string, _ *Neighbor) error {
		out = append(out, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

// walk visits the nodes reachable from start in level order. visit receives
// each node once together with the adjacency entry through which it was
// discovered (nil for start). Links are followed in insertion order.
func walk(g *Graph, start string, visit func(id string, via *Neighbor) error) error {
	if !g.HasNode(start) {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", start)
	}

	type item struct {
		id  string
		via *Neighbor
	}
	visited := map[string]bool{start: true}
	queue := []item{{id: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if err := visit(cur.id, cur.via); err != nil {
			return err
		}
		for _, nb := range g.nodes[cur.id].Neighbors {
			if visited[nb.Node] {
				continue
			}
			visited[nb.Node] = true
			queue = append(queue, item{id: nb.Node, via: &Neighbor{Node: cur.id, Link: nb.Link}})
		}
	}
	return nil
}
