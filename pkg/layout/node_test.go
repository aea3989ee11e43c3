package layout

import (
	"testing"

	"github.com/go-drift/fabric/pkg/graphics"
)

func TestNode_ChildOwnership(t *testing.T) {
	parent := NewNode(nil)
	a, b, c := NewNode(nil), NewNode(nil), NewNode(nil)

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertChild(b, 1)

	if parent.ChildCount() != 3 {
		t.Fatalf("ChildCount = %d, want 3", parent.ChildCount())
	}
	for i, want := range []*Node{a, b, c} {
		if parent.Child(i) != want {
			t.Errorf("Child(%d) is not the expected node", i)
		}
		if want.Owner() != parent {
			t.Errorf("child %d owner is not parent", i)
		}
	}

	if !parent.RemoveChild(b) {
		t.Fatal("RemoveChild returned false for an existing child")
	}
	if b.Owner() != nil {
		t.Error("removed child should have no owner")
	}
	if parent.RemoveChild(b) {
		t.Error("RemoveChild returned true for a missing child")
	}
	if parent.ChildCount() != 2 || parent.Child(1) != c {
		t.Error("remaining children out of order")
	}
}

func TestNode_MarkDirtyPropagates(t *testing.T) {
	root := newTestNode(nil, fixed(100, 100))
	mid := newTestNode(nil, nil)
	leaf := newTestNode(nil, fixed(10, 10))
	root.AppendChild(mid)
	mid.AppendChild(leaf)
	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	for _, n := range []*Node{root, mid, leaf} {
		if n.IsDirty() {
			t.Fatal("tree should be clean after layout")
		}
	}

	leaf.MarkDirty()
	for name, n := range map[string]*Node{"root": root, "mid": mid, "leaf": leaf} {
		if !n.IsDirty() {
			t.Errorf("%s should be dirty", name)
		}
	}
}

func TestNode_SetStyleOnlyDirtiesOnChange(t *testing.T) {
	node := newTestNode(nil, fixed(10, 10))
	CalculateLayout(node, Undefined, Undefined, DirectionLTR)

	node.SetStyle(node.Style())
	if node.IsDirty() {
		t.Error("setting an equal style should not dirty the node")
	}

	s := node.Style()
	s.Width = Points(20)
	node.SetStyle(s)
	if !node.IsDirty() {
		t.Error("changing the width should dirty the node")
	}
}

func TestNode_MeasureFuncIgnoredWithChildren(t *testing.T) {
	parent := NewNode(nil)
	parent.AppendChild(NewNode(nil))
	parent.SetMeasureFunc(func(*Node, float64, MeasureMode, float64, MeasureMode) graphics.Size {
		return graphics.Size{}
	})
	if parent.HasMeasureFunc() {
		t.Error("a node with children must not become measurable")
	}

	leaf := NewNode(nil)
	leaf.SetMeasureFunc(func(*Node, float64, MeasureMode, float64, MeasureMode) graphics.Size {
		return graphics.Size{}
	})
	leaf.AppendChild(NewNode(nil))
	if leaf.HasMeasureFunc() {
		t.Error("adding a child should clear the measure func")
	}
}

func TestNode_CloneSharesChildren(t *testing.T) {
	root := NewNode(nil)
	child := NewNode(nil)
	root.AppendChild(child)
	root.SetContext("ctx")

	clone := root.Clone()
	if clone == root {
		t.Fatal("Clone returned the same node")
	}
	if clone.Owner() != nil {
		t.Error("clone should be detached")
	}
	if clone.Child(0) != child || child.Owner() != root {
		t.Error("clone should share children without taking ownership")
	}
	if clone.Context() != "ctx" {
		t.Errorf("Context = %v, want ctx", clone.Context())
	}

	clone.AppendChild(NewNode(nil))
	if root.ChildCount() != 1 {
		t.Errorf("appending to a clone changed the original: %d children", root.ChildCount())
	}
}

func TestValue_Resolve(t *testing.T) {
	type tc struct {
		value     Value
		ownerSize float64
		expected  float64
	}

	tests := map[string]tc{
		"points":             {value: Points(12), ownerSize: 100, expected: 12},
		"percent":            {value: Percent(25), ownerSize: 200, expected: 50},
		"percent of nothing": {value: Percent(25), ownerSize: Undefined, expected: Undefined},
		"auto":               {value: Auto(), ownerSize: 100, expected: Undefined},
		"nan points":         {value: Points(Undefined), ownerSize: 100, expected: Undefined},
		"zero value":         {value: Value{}, ownerSize: 100, expected: Undefined},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.value.Resolve(tt.ownerSize); !FloatsEqual(got, tt.expected) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.ownerSize, got, tt.expected)
			}
		})
	}
}

func TestLayout_Frame(t *testing.T) {
	l := Layout{Left: 1, Top: 2, Width: 3, Height: 4}
	if got, want := l.Frame(), graphics.RectFromXYWH(1, 2, 3, 4); got != want {
		t.Errorf("Frame = %v, want %v", got, want)
	}
}
