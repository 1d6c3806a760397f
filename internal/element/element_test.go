package element

import (
	"testing"

	"github.com/waylayer/uibackend/internal/vm"
)

func TestElement_FindWalksSubtree(t *testing.T) {
	root := New(0, vm.Pen{})
	a := New(1, vm.Pen{})
	b := New(2, vm.Pen{})
	root.AddChild(a)
	a.AddChild(b)

	if root.Find(2) != b {
		t.Error("Find(2) did not locate the grandchild")
	}
	if root.Find(99) != nil {
		t.Error("Find(99) should return nil for a missing ID")
	}
}

func TestElement_WalkVisitsPreOrder(t *testing.T) {
	root := New(0, vm.Pen{})
	a := New(1, vm.Pen{})
	b := New(2, vm.Pen{})
	root.AddChild(a)
	root.AddChild(b)

	var order []uint64
	root.Walk(func(e *Element) { order = append(order, e.ID) })

	want := []uint64{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
		}
	}
}

func TestElement_LayoutableRoundTrip(t *testing.T) {
	e := New(0, vm.Pen{})
	if e.LayoutStyle().Display != e.Style.Display {
		t.Error("LayoutStyle should mirror Style")
	}
	if iw, ih := e.IntrinsicSize(); iw != 0 || ih != 0 {
		t.Errorf("IntrinsicSize = (%v, %v), want (0, 0)", iw, ih)
	}
}
