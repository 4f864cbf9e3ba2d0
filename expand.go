package nbt

import "golang.org/x/sync/errgroup"

// expandBandwidth is the number of children handed to one expansion task.
const expandBandwidth = 32

// Shut collapses el and every descendant. The visible row count collapses
// with it: each child contributes exactly one row again.
func (el *Element) Shut() {
	switch el.kind {
	case KindByteArray, KindIntArray, KindLongArray:
		el.open = false
	case KindList, KindCompound, KindChunk:
		for _, c := range el.children {
			c.Shut()
		}
		el.open = false
		el.height = uint32(len(el.children) + 1)
	case KindRegion:
		for _, pos := range el.posMap {
			el.children[pos].Shut()
		}
		el.open = false
		el.height = uint32(len(el.posMap) + 1)
	default:
		return
	}
	el.recacheDepth()
}

// Expand opens el and every descendant. Children are expanded in fixed-size
// batches, one task per batch, joined before return; each subtree is owned
// by exactly one task, so the tasks share no mutable state.
func (el *Element) Expand() {
	if !el.IsComposite() {
		return
	}
	el.open = !el.IsEmpty()
	el.height = el.trueHeight

	var kids []*Element
	switch el.kind {
	case KindList, KindCompound, KindChunk:
		kids = el.children
	case KindRegion:
		kids = make([]*Element, 0, len(el.posMap))
		for _, pos := range el.posMap {
			kids = append(kids, el.children[pos])
		}
	default:
		// array entries have no subtrees
		el.recacheDepth()
		return
	}

	var g errgroup.Group
	for len(kids) > 0 {
		batch := kids
		if len(batch) > expandBandwidth {
			batch = batch[:expandBandwidth]
		}
		kids = kids[len(batch):]
		g.Go(func() error {
			for _, c := range batch {
				c.Expand()
			}
			return nil
		})
	}
	ensure(g.Wait())
	el.recacheDepth()
}

// recacheDepth recomputes the cached maximum nesting from the children's
// caches. It is called at each level of every structural mutation path, so
// the caches stay consistent bottom-up without full traversals.
func (el *Element) recacheDepth() {
	var max uint32
	if el.open {
		switch el.kind {
		case KindByteArray, KindIntArray, KindLongArray:
			max = 1
		case KindList, KindCompound, KindChunk:
			for _, c := range el.children {
				if d := 1 + c.maxDepth; d > max {
					max = d
				}
			}
		case KindRegion:
			for _, pos := range el.posMap {
				if d := 1 + el.children[pos].maxDepth; d > max {
					max = d
				}
			}
		}
	}
	el.maxDepth = max
}
