package nbt

import "strconv"

// RowHeight is the fixed row unit of the row-index addressing scheme. Row
// budgets passed to Drop are measured in these units; tie-break zones sit on
// half-row boundaries.
const RowHeight = 16

const halfRow = RowHeight / 2

type DropOutcome uint8

const (
	// DropMissed: no zone at or below this element matched. The pending
	// pair is handed back untouched; the caller retries at an ancestor or
	// a later sibling.
	DropMissed DropOutcome = iota
	// DropDropped: the value was inserted. DeltaHeight/DeltaTrueHeight are
	// the row-count contributions the ancestors were adjusted by, and
	// Line is the row of the inserted value.
	DropDropped
	// DropInvalidType: a zone matched but the target cannot hold this
	// value's kind. Nothing was mutated.
	DropInvalidType
)

// DropResult is the outcome of one Drop resolution.
type DropResult struct {
	Outcome         DropOutcome
	DeltaHeight     int
	DeltaTrueHeight int
	Label           string // inserted entry's key, or a chunk's z coordinate
	Line            int    // row of the inserted value

	// pending pair, returned unconsumed on Missed and InvalidType
	Key   string
	Value *Element
}

func dropped(dh, dth int, label string, line int) DropResult {
	return DropResult{Outcome: DropDropped, DeltaHeight: dh, DeltaTrueHeight: dth, Label: label, Line: line}
}

func missed(key string, value *Element) DropResult {
	return DropResult{Outcome: DropMissed, Key: key, Value: value}
}

func invalidType(key string, value *Element) DropResult {
	return DropResult{Outcome: DropInvalidType, Key: key, Value: value}
}

// Drop resolves an insertion of (key, value) against el. y is the remaining
// row budget in RowHeight units, consumed as the walk descends; depth is
// el's nesting depth and targetDepth the depth the insertion aims at; line
// is el's running line number; indices accumulates the child-index path to
// the insertion point.
//
// Mutation happens exactly on the successful path: the accepting element
// inserts, and every ancestor on the return path adjusts its cached row
// counts by the reported deltas.
func (el *Element) Drop(key string, value *Element, y *int, depth, targetDepth int, line int, indices *[]int) DropResult {
	switch el.kind {
	case KindRegion:
		return el.dropRegion(key, value, y, depth, targetDepth, line, indices)
	case KindByteArray, KindIntArray, KindLongArray, KindList, KindCompound, KindChunk:
		return el.dropComposite(key, value, y, depth, targetDepth, line, indices)
	default:
		// A leaf consumes its own row on the way past.
		if *y >= RowHeight {
			*y -= RowHeight
		}
		return missed(key, value)
	}
}

func (el *Element) dropComposite(key string, value *Element, y *int, depth, targetDepth int, line int, indices *[]int) DropResult {
	if *y < RowHeight && *y >= halfRow && depth == targetDepth {
		// bottom half of el's own row: insert before the first child
		before := el.Height()
		beforeTrue := el.TrueHeight()
		*indices = append(*indices, 0)
		if err := el.Insert(0, key, value); err != nil {
			*indices = (*indices)[:len(*indices)-1]
			return invalidType(key, value)
		}
		el.open = true
		el.recacheDepth()
		return dropped(el.Height()-before, el.TrueHeight()-beforeTrue, key, line+1)
	}
	if el.Height() == 1 && *y >= RowHeight && *y < 2*RowHeight && depth == targetDepth {
		// row right below a collapsed element: insert as its last child
		beforeTrue := el.TrueHeight()
		*indices = append(*indices, el.Len())
		if err := el.Insert(el.Len(), key, value); err != nil {
			*indices = (*indices)[:len(*indices)-1]
			return invalidType(key, value)
		}
		el.open = true
		el.recacheDepth()
		return dropped(el.Height()-1, el.TrueHeight()-beforeTrue, key, line+beforeTrue)
	}

	if *y < RowHeight {
		return missed(key, value)
	}
	*y -= RowHeight

	if el.open && !el.IsEmpty() {
		*indices = append(*indices, 0)
		last := len(*indices) - 1
		for idx, n := 0, el.Len(); idx < n; idx++ {
			child := el.Child(idx)
			(*indices)[last] = idx
			vh, vth := value.Height(), value.TrueHeight()
			if *y < halfRow && depth == targetDepth {
				// top half of this child's first row: insert before it
				if err := el.Insert(idx, key, value); err != nil {
					return invalidType(key, value)
				}
				el.recacheDepth()
				return dropped(vh, vth, key, line+1)
			}
			span := child.Height() * RowHeight
			if *y >= span-halfRow && *y < span && depth == targetDepth {
				// bottom half of this child's last row: insert after it
				(*indices)[last] = idx + 1
				childTrue := child.TrueHeight()
				if err := el.Insert(idx+1, key, value); err != nil {
					return invalidType(key, value)
				}
				el.recacheDepth()
				return dropped(vh, vth, key, line+childTrue+1)
			}

			// A pointer inside this child resolves there or nowhere at
			// this level; a pointer past it must consume exactly the
			// child's span on the way through.
			inside := *y < span
			res := child.Drop(key, value, y, depth+1, targetDepth, line+1, indices)
			switch res.Outcome {
			case DropInvalidType:
				return res
			case DropDropped:
				el.increment(res.DeltaHeight, res.DeltaTrueHeight)
				el.recacheDepth()
				return res
			}
			if inside {
				*indices = (*indices)[:last]
				return missed(key, value)
			}
			line += child.TrueHeight()
		}
		*indices = (*indices)[:last]
	}
	return missed(key, value)
}

func (el *Element) dropRegion(key string, value *Element, y *int, depth, targetDepth int, line int, indices *[]int) DropResult {
	if *y < RowHeight && *y >= halfRow && depth == targetDepth {
		before := el.Height()
		beforeTrue := el.TrueHeight()
		*indices = append(*indices, 0)
		if err := el.InsertChunk(0, value); err != nil {
			*indices = (*indices)[:len(*indices)-1]
			return invalidType(key, value)
		}
		el.open = true
		el.recacheDepth()
		return dropped(el.Height()-before, el.TrueHeight()-beforeTrue, chunkLabel(value), line+1)
	}
	if el.Height() == 1 && *y >= RowHeight && *y < 2*RowHeight && depth == targetDepth {
		beforeTrue := el.TrueHeight()
		*indices = append(*indices, el.Len())
		if err := el.InsertChunk(el.Len(), value); err != nil {
			*indices = (*indices)[:len(*indices)-1]
			return invalidType(key, value)
		}
		el.open = true
		el.recacheDepth()
		return dropped(el.Height()-1, el.TrueHeight()-beforeTrue, chunkLabel(value), line+beforeTrue)
	}

	if *y < RowHeight {
		return missed(key, value)
	}
	*y -= RowHeight

	if el.open && !el.IsEmpty() {
		*indices = append(*indices, 0)
		last := len(*indices) - 1
		for idx, n := 0, el.Len(); idx < n; idx++ {
			child := el.Child(idx)
			(*indices)[last] = idx
			vh, vth := value.Height(), value.TrueHeight()
			if *y < halfRow && depth == targetDepth {
				if err := el.InsertChunk(idx, value); err != nil {
					return invalidType(key, value)
				}
				el.recacheDepth()
				return dropped(vh, vth, chunkLabel(value), line+1)
			}
			span := child.Height() * RowHeight
			if *y >= span-halfRow && *y < span && depth == targetDepth {
				(*indices)[last] = idx + 1
				childTrue := child.TrueHeight()
				if err := el.InsertChunk(idx+1, value); err != nil {
					return invalidType(key, value)
				}
				el.recacheDepth()
				return dropped(vh, vth, chunkLabel(value), line+childTrue+1)
			}

			if value.kind == KindChunk {
				// chunks never nest below the region itself
				if *y < span {
					break
				}
				*y -= span
			} else {
				inside := *y < span
				res := child.Drop(key, value, y, depth+1, targetDepth, line+1, indices)
				switch res.Outcome {
				case DropInvalidType:
					return res
				case DropDropped:
					el.increment(res.DeltaHeight, res.DeltaTrueHeight)
					el.recacheDepth()
					return res
				}
				if inside {
					*indices = (*indices)[:last]
					return missed(key, value)
				}
			}
			line += child.TrueHeight()
		}
		*indices = (*indices)[:last]
	}
	return missed(key, value)
}

// ResolveDrop is the mutation entry point display layers call: it resolves
// (key, value) against root at row budget y, trying the deepest requested
// target depth first and retrying shallower levels while the walk misses.
// It returns the final result and the child-index path to the insertion.
//
// A pointer in the top half of the root's own row, or past every zone the
// walk knows, resolves against the root itself, so resolution is total over
// y in [0, TrueHeight()*RowHeight) for an expanded root.
func ResolveDrop(root *Element, key string, value *Element, y int, targetDepth int) (DropResult, []int) {
	for td := targetDepth; td >= 0; td-- {
		rem := y
		indices := make([]int, 0, 8)
		res := root.Drop(key, value, &rem, 0, td, 0, &indices)
		if res.Outcome != DropMissed {
			return res, indices
		}
	}

	idx, line := 0, 1
	if y >= RowHeight {
		idx, line = root.Len(), root.TrueHeight()
	}
	before := root.Height()
	beforeTrue := root.TrueHeight()
	if err := root.Insert(idx, key, value); err != nil {
		return invalidType(key, value), nil
	}
	root.open = true
	root.recacheDepth()
	label := key
	if root.kind == KindRegion {
		label = chunkLabel(value)
	}
	return dropped(root.Height()-before, root.TrueHeight()-beforeTrue, label, line), []int{idx}
}

// DetectDuplicate reports whether inserting (key, value) among el's children
// would collide with an existing entry: a compound entry with the same name,
// or a chunk whose coordinate is already occupied. This is a read-only side
// channel for display layers; it never affects resolution.
func (el *Element) DetectDuplicate(key string, value *Element) bool {
	switch el.kind {
	case KindCompound, KindChunk:
		return el.Has(key)
	case KindRegion:
		if value != nil && value.kind == KindChunk {
			return el.ChunkAt(value.x, value.z) != nil
		}
	}
	return false
}

func chunkLabel(chunk *Element) string {
	return strconv.Itoa(int(chunk.z))
}
