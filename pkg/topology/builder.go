package topology

import (
	"maps"
	"slices"
)

// Endpoint describes where a link starts and ends and how long it is.
type Endpoint struct {
	From   string  `json:"from" yaml:"from"`
	To     string  `json:"to" yaml:"to"`
	Length float64 `json:"length" yaml:"length"`
}

// Description is the network data needed to build a [Graph]: conveyance
// links and control orifices keyed by ID, and optional node inverts.
type Description struct {
	Links    map[string]Endpoint
	Orifices map[string]Endpoint
	Inverts  map[string]float64 // nodes missing here get invert 0
}

// Build derives a graph from a network description. Every link becomes an
// edge with its length; every orifice becomes an edge of length 0, since
// orifices carry no routing length. The resulting graph does not depend on
// map iteration order.
func Build(d Description) (*Graph, error) {
	g := New()
	if err := addEdges(g, d.Links, d.Inverts, false); err != nil {
		return nil, err
	}
	if err := addEdges(g, d.Orifices, d.Inverts, true); err != nil {
		return nil, err
	}
	return g, nil
}

func addEdges(g *Graph, edges map[string]Endpoint, inverts map[string]float64, orifice bool) error {
	for _, id := range slices.Sorted(maps.Keys(edges)) {
		e := edges[id]
		length := e.Length
		if orifice {
			length = 0
		}
		if err := g.AddNode(e.From, inverts[e.From]); err != nil {
			return err
		}
		if err := g.AddNeighbor(e.From, e.To, inverts[e.To], id, length); err != nil {
			return err
		}
	}
	return nil
}
