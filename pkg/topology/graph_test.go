package topology

import (
	"slices"
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

func chain(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(Description{
		Links: map[string]Endpoint{
			"L1": {From: "A", To: "B", Length: 5},
			"L2": {From: "B", To: "C", Length: 3},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestReachable_Undirected(t *testing.T) {
	g := chain(t)
	want := []string{"A", "B", "C"}

	for _, start := range []string{"A", "C"} {
		got, err := Reachable(g, start)
		if err != nil {
			t.Fatalf("Reachable(%s): %v", start, err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("Reachable(%s) = %v, want %v", start, got, want)
		}
	}
}

func TestReachable_UnknownStart(t *testing.T) {
	_, err := Reachable(chain(t), "Z")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Reachable(Z) error = %v, want NOT_FOUND", err)
	}
}

func TestReachable_Cycle(t *testing.T) {
	g := New()
	_ = g.AddNode("A", 0)
	_ = g.AddNeighbor("A", "B", 0, "L1", 1)
	_ = g.AddNeighbor("B", "C", 0, "L2", 1)
	_ = g.AddNeighbor("C", "A", 0, "L3", 1)
	_ = g.AddNode("D", 0)

	got, err := Reachable(g, "B")
	if err != nil {
		t.Fatalf("Reachable: %v", err)
	}
	if !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Reachable(B) = %v, want [A B C]", got)
	}
}

func TestBuild_Orifices(t *testing.T) {
	g, err := Build(Description{
		Links:    map[string]Endpoint{"C1": {From: "J1", To: "J2", Length: 400}},
		Orifices: map[string]Endpoint{"OR1": {From: "J2", To: "T1", Length: 99}},
		Inverts:  map[string]float64{"J1": 12.5},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Len() != 3 || g.LinkCount() != 2 {
		t.Errorf("Len/LinkCount = %d/%d, want 3/2", g.Len(), g.LinkCount())
	}
	if l, _ := g.Length("OR1"); l != 0 {
		t.Errorf("orifice length = %v, want 0", l)
	}
	if l, _ := g.Length("C1"); l != 400 {
		t.Errorf("conduit length = %v, want 400", l)
	}
	if n, _ := g.Node("J1"); n.Invert != 12.5 {
		t.Errorf("J1 invert = %v, want 12.5", n.Invert)
	}
	if n, _ := g.Node("T1"); n.Invert != 0 {
		t.Errorf("T1 invert = %v, want 0", n.Invert)
	}
}

func TestAddNeighbor_Idempotent(t *testing.T) {
	g := New()
	_ = g.AddNode("A", 0)
	for range 3 {
		if err := g.AddNeighbor("A", "B", 0, "L1", 2); err != nil {
			t.Fatalf("AddNeighbor: %v", err)
		}
	}
	// Same link from the other side is still the same edge.
	if err := g.AddNeighbor("B", "A", 0, "L1", 2); err != nil {
		t.Fatalf("AddNeighbor reversed: %v", err)
	}

	a, _ := g.Neighbors("A")
	b, _ := g.Neighbors("B")
	if !slices.Equal(a, []string{"B"}) || !slices.Equal(b, []string{"A"}) {
		t.Errorf("neighbors = %v / %v, want [B] / [A]", a, b)
	}
}

func TestAddNeighbor_Errors(t *testing.T) {
	tests := []struct {
		name string
		node string
		nb   string
		link string
		len  float64
		code errors.Code
	}{
		{"unknown node", "Z", "B", "L9", 1, errors.ErrCodeNotFound},
		{"negative length", "A", "C", "L9", -1, errors.ErrCodeStructural},
		{"link reused", "A", "C", "L1", 1, errors.ErrCodeStructural},
		{"self loop", "A", "A", "L9", 1, errors.ErrCodeStructural},
		{"empty link", "A", "C", "", 1, errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			_ = g.AddNode("A", 0)
			_ = g.AddNeighbor("A", "B", 0, "L1", 1)

			err := g.AddNeighbor(tt.node, tt.nb, 0, tt.link, tt.len)
			if !errors.Is(err, tt.code) {
				t.Fatalf("AddNeighbor error = %v, want %s", err, tt.code)
			}
			if g.Len() != 2 || g.LinkCount() != 1 {
				t.Errorf("graph modified by failed call: %d nodes, %d links", g.Len(), g.LinkCount())
			}
		})
	}
}

func TestAddLink_Negative(t *testing.T) {
	g := New()
	if err := g.AddLink("L1", -0.5); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("AddLink(-0.5) error = %v, want STRUCTURAL", err)
	}
	if err := g.AddLink("L1", 0); err != nil {
		t.Errorf("AddLink(0) error = %v", err)
	}
}

func TestRenameNode(t *testing.T) {
	g := chain(t)
	if err := g.RenameNode("B", "B2"); err != nil {
		t.Fatalf("RenameNode: %v", err)
	}
	if g.HasNode("B") || !g.HasNode("B2") {
		t.Fatal("rename did not move node")
	}

	nb, _ := g.Neighbors("B2")
	if !slices.Equal(nb, []string{"A", "C"}) {
		t.Errorf("Neighbors(B2) = %v, want [A C]", nb)
	}
	a, _ := g.Neighbors("A")
	if !slices.Equal(a, []string{"B2"}) {
		t.Errorf("Neighbors(A) = %v, want [B2]", a)
	}
	if l, _ := g.Link("L2"); l.From != "B2" {
		t.Errorf("L2.From = %q, want B2", l.From)
	}

	if err := g.RenameNode("A", "C"); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("RenameNode onto existing error = %v, want STRUCTURAL", err)
	}
	if err := g.RenameNode("nope", "X"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("RenameNode(nope) error = %v, want NOT_FOUND", err)
	}
}

func TestRenameLink(t *testing.T) {
	g := chain(t)
	if err := g.RenameLink("L1", "C-1"); err != nil {
		t.Fatalf("RenameLink: %v", err)
	}
	if _, err := g.Length("L1"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Length(L1) error = %v, want NOT_FOUND", err)
	}
	if l, _ := g.Length("C-1"); l != 5 {
		t.Errorf("Length(C-1) = %v, want 5", l)
	}
	a, _ := g.Node("A")
	if a.Neighbors[0] != (Neighbor{Node: "B", Link: "C-1"}) {
		t.Errorf("A neighbor = %+v", a.Neighbors[0])
	}
}

func TestSpanningTree(t *testing.T) {
	g := chain(t)
	tree, err := SpanningTree(g, "B")
	if err != nil {
		t.Fatalf("SpanningTree: %v", err)
	}
	if tree.Size() != 3 {
		t.Errorf("Size() = %d, want 3", tree.Size())
	}
	root, _ := tree.Root()
	kids, _ := tree.Children(root)
	if len(kids) != 2 {
		t.Fatalf("root children = %d, want 2", len(kids))
	}
	c, _ := tree.Find("C")
	n, _ := tree.Node(c)
	if n.Length != 3 {
		t.Errorf("C length = %v, want 3", n.Length)
	}

	g2, _ := Build(Description{Orifices: map[string]Endpoint{"O1": {From: "X", To: "Y"}}})
	if _, err := SpanningTree(g2, "X"); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("SpanningTree over orifice error = %v, want STRUCTURAL", err)
	}
}
