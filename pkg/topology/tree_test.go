package topology

import (
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

func TestTree_Root(t *testing.T) {
	tree := NewTree()
	r, err := tree.AddRoot("R", 0)
	if err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if _, err := tree.AddRoot("R2", 0); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("second AddRoot error = %v, want STRUCTURAL", err)
	}

	if _, err := tree.AddChild(r, "C1", 10, 0); err != nil {
		t.Errorf("AddChild(C1, 10) error = %v", err)
	}
	if _, err := tree.AddChild(r, "C2", 0, 0); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("AddChild(C2, 0) error = %v, want STRUCTURAL", err)
	}
	if tree.Size() != 2 {
		t.Errorf("Size() = %d, want 2", tree.Size())
	}
}

func TestTree_ParentChildren(t *testing.T) {
	tree := NewTree()
	r, _ := tree.AddRoot("R", 1)
	a, _ := tree.AddChild(r, "A", 5, 2)
	b, _ := tree.AddChild(r, "B", 7, 3)
	aa, _ := tree.AddChild(a, "AA", 1, 4)

	kids, err := tree.Children(r)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Errorf("Children(R) = %v, want [A B]", kids)
	}

	p, ok, err := tree.Parent(aa)
	if err != nil || !ok || p != a {
		t.Errorf("Parent(AA) = %v, %v, %v, want A", p, ok, err)
	}
	if _, ok, _ := tree.Parent(r); ok {
		t.Error("root has a parent")
	}

	n, _ := tree.Node(aa)
	if n != (TreeNode{ID: "AA", Invert: 4, Length: 1}) {
		t.Errorf("Node(AA) = %+v", n)
	}
}

func TestTree_Validate(t *testing.T) {
	t1 := NewTree()
	r1, _ := t1.AddRoot("R", 0)
	t2 := NewTree()
	_, _ = t2.AddRoot("R", 0)

	if err := t2.Validate(r1); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("foreign ref error = %v, want STRUCTURAL", err)
	}
	if _, err := t2.AddChild(r1, "X", 1, 0); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("AddChild with foreign parent error = %v, want STRUCTURAL", err)
	}
	if err := t1.Validate(NodeRef{}); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("zero ref error = %v, want STRUCTURAL", err)
	}
}

func TestTree_Invalidate(t *testing.T) {
	tree := NewTree()
	r, _ := tree.AddRoot("R", 0)
	a, _ := tree.AddChild(r, "A", 1, 0)
	aa, _ := tree.AddChild(a, "AA", 1, 0)
	_, _ = tree.AddChild(r, "B", 1, 0)

	if err := tree.Invalidate(a); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	for _, ref := range []NodeRef{a, aa} {
		if _, err := tree.AddChild(ref, "X", 1, 0); !errors.Is(err, errors.ErrCodeStructural) {
			t.Errorf("AddChild under invalidated node error = %v, want STRUCTURAL", err)
		}
		if _, err := tree.Children(ref); !errors.Is(err, errors.ErrCodeStructural) {
			t.Errorf("Children of invalidated node error = %v, want STRUCTURAL", err)
		}
	}

	kids, _ := tree.Children(r)
	if len(kids) != 1 {
		t.Errorf("live children = %d, want 1", len(kids))
	}
	if tree.Size() != 2 {
		t.Errorf("Size() = %d, want 2", tree.Size())
	}
	if _, ok := tree.Find("AA"); ok {
		t.Error("Find(AA) found an invalidated node")
	}
	if err := tree.Invalidate(r); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("Invalidate(root) error = %v, want STRUCTURAL", err)
	}
}

func TestTree_Walk(t *testing.T) {
	tree := NewTree()
	r, _ := tree.AddRoot("R", 0)
	a, _ := tree.AddChild(r, "A", 1, 0)
	_, _ = tree.AddChild(a, "AA", 1, 0)
	_, _ = tree.AddChild(r, "B", 1, 0)

	var got []string
	tree.Walk(func(ref NodeRef, depth int) {
		n, _ := tree.Node(ref)
		got = append(got, n.ID+":"+string(rune('0'+depth)))
	})
	want := []string{"R:0", "A:1", "AA:2", "B:1"}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
