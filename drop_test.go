package nbt

import (
	"reflect"
	"testing"
)

// dropTree builds {a: 1, b: {c: 2}, d: 3}, fully expanded. True lines:
// root 0, a 1, b 2, c 3, d 4.
func dropTree() *Element {
	root := NewCompound()
	put(root, "a", NewInt(1))
	put(root, "b", put(NewCompound(), "c", NewInt(2)))
	put(root, "d", NewInt(3))
	root.Expand()
	return root
}

func TestDropZones(t *testing.T) {
	tests := []struct {
		name        string
		y           int
		targetDepth int
		wantLine    int
		wantIndices []int
		wantBefore  string // name of the entry right after the insertion
	}{
		{"before_first_child", 8, 2, 1, []int{0}, "a"},
		{"after_a", 24, 1, 2, []int{1}, "b"},
		{"before_c", 40, 1, 3, []int{1, 0}, "c"},
		{"after_c", 56, 1, 4, []int{1, 1}, ""},
		{"after_b_subtree", 56, 0, 4, []int{2}, "d"},
		{"after_d", 76, 0, 5, []int{3}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := dropTree()
			beforeTrue := root.TrueHeight()
			res, indices := ResolveDrop(root, "new", NewInt(9), test.y, test.targetDepth)
			if res.Outcome != DropDropped {
				t.Fatalf("** outcome = %v, wanted DropDropped", res.Outcome)
			}
			if res.Line != test.wantLine {
				t.Errorf("** Line = %d, wanted %d", res.Line, test.wantLine)
			}
			if !reflect.DeepEqual(indices, test.wantIndices) {
				t.Errorf("** indices = %v, wanted %v", indices, test.wantIndices)
			}
			if root.TrueHeight() != beforeTrue+1 {
				t.Errorf("** TrueHeight = %d, wanted %d", root.TrueHeight(), beforeTrue+1)
			}

			parent := root
			for _, idx := range indices[:len(indices)-1] {
				parent = parent.Child(idx)
			}
			at := test.wantIndices[len(test.wantIndices)-1]
			if parent.Name(at) != "new" {
				t.Errorf("** entry at %v is %q, wanted %q", indices, parent.Name(at), "new")
			}
			if test.wantBefore != "" && parent.Name(at+1) != test.wantBefore {
				t.Errorf("** entry after insertion is %q, wanted %q", parent.Name(at+1), test.wantBefore)
			}
			checkCounters(t, root)
		})
	}
}

func TestDropIntoCollapsed(t *testing.T) {
	root := NewCompound()
	put(root, "e", put(NewCompound(), "x", NewInt(1)))
	root.Toggle() // root open, e collapsed

	res, indices := ResolveDrop(root, "new", NewInt(9), 36, 1)
	if res.Outcome != DropDropped {
		t.Fatalf("** outcome = %v, wanted DropDropped", res.Outcome)
	}
	e := root.Get("e")
	if !e.Open() || e.Len() != 2 || e.Name(1) != "new" {
		t.Errorf("** collapsed target: open=%v len=%d", e.Open(), e.Len())
	}
	if res.Line != 3 {
		t.Errorf("** Line = %d, wanted 3", res.Line)
	}
	if !reflect.DeepEqual(indices, []int{0, 1}) {
		t.Errorf("** indices = %v", indices)
	}
	if res.DeltaHeight != 2 || res.DeltaTrueHeight != 1 {
		t.Errorf("** deltas = (%d, %d), wanted (2, 1)", res.DeltaHeight, res.DeltaTrueHeight)
	}
	checkCounters(t, root)
}

func TestDropShallowRetry(t *testing.T) {
	// targetDepth 1 first misses inside the leaf a, then depth 0 accepts.
	root := dropTree()
	res, indices := ResolveDrop(root, "new", NewInt(9), 24, 1)
	if res.Outcome != DropDropped || res.Line != 2 || !reflect.DeepEqual(indices, []int{1}) {
		t.Errorf("** res = %+v, indices = %v", res, indices)
	}
}

func TestDropRootFallback(t *testing.T) {
	root := dropTree()
	res, indices := ResolveDrop(root, "top", NewInt(9), 4, 2)
	if res.Outcome != DropDropped || res.Line != 1 || !reflect.DeepEqual(indices, []int{0}) {
		t.Errorf("** top-half drop: res = %+v, indices = %v", res, indices)
	}
	if root.Name(0) != "top" {
		t.Errorf("** entry 0 = %q", root.Name(0))
	}
	checkCounters(t, root)
}

func TestDropInvalidType(t *testing.T) {
	root := NewCompound()
	l := NewList(KindShort)
	put(l, "", NewShort(1))
	put(l, "", NewShort(2))
	put(root, "l", l)
	root.Expand()

	res, _ := ResolveDrop(root, "", NewByte(1), 24, 1)
	if res.Outcome != DropInvalidType {
		t.Fatalf("** outcome = %v, wanted DropInvalidType", res.Outcome)
	}
	if l.Len() != 2 {
		t.Errorf("** rejected drop mutated the list: len=%d", l.Len())
	}
	checkCounters(t, root)

	res, _ = ResolveDrop(NewCompound(), "c", NewChunk(NewCompound(), 0, 0, 0, CompressionZlib), 8, 0)
	if res.Outcome != DropInvalidType {
		t.Errorf("** chunk into compound: outcome = %v", res.Outcome)
	}
}

func TestDropResolutionTotal(t *testing.T) {
	proto := buildSampleDocument()
	proto.Expand()
	limit := proto.TrueHeight() * RowHeight
	for y := 0; y < limit; y++ {
		root := buildSampleDocument()
		root.Expand()
		res, _ := ResolveDrop(root, "zz", NewInt(0), y, root.MaxDepth())
		if res.Outcome == DropMissed {
			t.Fatalf("** y=%d resolved to DropMissed", y)
		}
		if res.Outcome == DropDropped {
			checkCounters(t, root)
			if res.Line < 1 || res.Line >= root.TrueHeight() {
				t.Errorf("** y=%d Line=%d out of range", y, res.Line)
			}
		}
	}
}

func TestDropChunkIntoRegion(t *testing.T) {
	r := NewRegion()
	ensure(r.InsertChunk(0, NewChunk(put(NewCompound(), "id", NewInt(1)), 3, 3, 0, CompressionZlib)))
	r.Expand()

	incoming := NewChunk(put(NewCompound(), "id", NewInt(2)), 3, 3, 0, CompressionZlib)
	if !r.DetectDuplicate("", incoming) {
		t.Error("** duplicate coordinate not detected")
	}

	res, _ := ResolveDrop(r, "", incoming, 8, 0)
	if res.Outcome != DropDropped {
		t.Fatalf("** outcome = %v", res.Outcome)
	}
	if incoming.X() != 3 || incoming.Z() != 4 {
		t.Errorf("** chunk landed at (%d, %d), wanted (3, 4)", incoming.X(), incoming.Z())
	}
	if res.Label != "4" {
		t.Errorf("** Label = %q, wanted %q", res.Label, "4")
	}
	if r.Len() != 2 {
		t.Errorf("** region Len = %d", r.Len())
	}
	checkCounters(t, r)

	res, _ = ResolveDrop(r, "x", NewInt(1), 8, 0)
	if res.Outcome != DropInvalidType {
		t.Errorf("** int into region: outcome = %v", res.Outcome)
	}
}

func TestDetectDuplicate(t *testing.T) {
	c := NewCompound()
	put(c, "a", NewInt(1))
	if !c.DetectDuplicate("a", NewInt(2)) {
		t.Error("** existing key not detected")
	}
	if c.DetectDuplicate("b", NewInt(2)) {
		t.Error("** fresh key flagged")
	}
	if NewInt(1).DetectDuplicate("a", NewInt(2)) {
		t.Error("** leaf flagged")
	}
}
