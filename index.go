package quadtree

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

var _ Index[int] = &index[int]{}

type index[E comparable] struct {
	locks    int
	capacity int
	maxDepth int
	nodes    []node[E]
	free     []int
	tracked  map[E]int
	opQueue  opQueue[E]
	flushErr error
}

func newIndex[E comparable](cfg IndexConfig) *index[E] {
	cfg = cfg.withDefaults()
	idx := &index[E]{
		capacity: cfg.Capacity,
		maxDepth: cfg.MaxDepth,
		tracked:  make(map[E]int),
		opQueue:  newOpQueue[E](),
	}
	idx.nodes = append(idx.nodes, node[E]{
		extent:   cfg.Root,
		parent:   noParent,
		children: noChildren,
	})
	return idx
}

func (idx *index[E]) Root() Extent {
	return idx.nodes[rootSlot].extent
}

func (idx *index[E]) Len() int {
	return len(idx.tracked)
}

func (idx *index[E]) Lookup(entity E) (Extent, bool) {
	m := idx.member(entity)
	if m == nil {
		return Extent{}, false
	}
	return m.extent, true
}

// Insert adds an untracked entity. Re-inserting with the same extent is a no-op.
func (idx *index[E]) Insert(entity E, extent Extent) error {
	if idx.Locked() {
		return LockedIndexError{}
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}
	if m := idx.member(entity); m != nil {
		if m.extent == extent {
			return nil
		}
		return EntityExistsError{Entity: entity, Extent: m.extent}
	}
	idx.add(idx.findNode(rootSlot, extent), member[E]{entity: entity, extent: extent})
	return nil
}

// Remove drops entity from the node extent routes to. Entities that are not
// found there are left alone.
func (idx *index[E]) Remove(entity E, extent Extent) error {
	if idx.Locked() {
		return LockedIndexError{}
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}
	slot := idx.findNode(rootSlot, extent)
	if tracked, ok := idx.tracked[entity]; !ok || tracked != slot {
		return nil
	}
	if _, ok := idx.detach(slot, entity); !ok {
		panic("quadtree: tracked entity missing from its node")
	}
	delete(idx.tracked, entity)
	return nil
}

// Relocate re-homes entity after its extent changed. Untracked entities are
// inserted. Entities that still fit their node stay or descend; the rest are
// re-inserted from the root.
func (idx *index[E]) Relocate(entity E, extent Extent) error {
	if idx.Locked() {
		return LockedIndexError{}
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}

	slot, tracked := idx.tracked[entity]
	if !tracked {
		target := idx.findNode(rootSlot, extent)
		logs.WithTag("entity", entity).
			WithTag("node", idx.nodes[target].extent).
			Debug("not yet indexed, adding to node")
		idx.add(target, member[E]{entity: entity, extent: extent})
		instrumentRelocation(outcomeInserted)
		return nil
	}

	n := &idx.nodes[slot]
	i := n.find(entity)
	if i < 0 {
		panic("quadtree: tracked entity missing from its node")
	}

	if n.extent.Contains(extent) {
		better := idx.findNode(slot, extent)
		if better == slot {
			n.members[i].extent = extent
			instrumentRelocation(outcomeStayed)
			return nil
		}
		m := n.members[i]
		m.extent = extent
		logs.WithTag("entity", entity).
			WithTag("node", idx.nodes[better].extent).
			Debug("moving to child node")
		idx.add(better, m)
		idx.detach(slot, entity)
		instrumentRelocation(outcomeDescended)
		return nil
	}

	m, _ := idx.detach(slot, entity)
	m.extent = extent
	target := idx.findNode(rootSlot, extent)
	logs.WithTag("entity", entity).
		WithTag("node", idx.nodes[target].extent).
		Debug("outgrew node, moving to node")
	idx.add(target, m)
	instrumentRelocation(outcomeReinserted)
	return nil
}

func (idx *index[E]) MarkLayers(entity E, bits ...uint32) bool {
	m := idx.member(entity)
	if m == nil {
		return false
	}
	markLayers(&m.layers, bits...)
	return true
}

func (idx *index[E]) UnmarkLayers(entity E, bits ...uint32) bool {
	m := idx.member(entity)
	if m == nil {
		return false
	}
	for _, bit := range bits {
		if bit < MaxLayers {
			m.layers.Unmark(bit)
		}
	}
	return true
}

func (idx *index[E]) Locked() bool {
	return idx.locks > 0
}

func (idx *index[E]) Lock() {
	idx.locks++
}

// Unlock releases one lock. Releasing the last one flushes queued operations.
func (idx *index[E]) Unlock() {
	if idx.locks == 0 {
		return
	}
	idx.locks--
	if idx.locks > 0 || idx.opQueue.len() == 0 {
		return
	}
	idx.flushErr = idx.processOperationQueue()
	if idx.flushErr != nil {
		logs.Warn(idx.flushErr)
	}
}

// FlushErr reports the failures of the most recent queue flush, nil when
// every queued operation applied.
func (idx *index[E]) FlushErr() error {
	return idx.flushErr
}

func (idx *index[E]) EnqueueInsert(entity E, extent Extent) error {
	if !idx.Locked() {
		return idx.Insert(entity, extent)
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}
	idx.opQueue.EnqueueInsert(entity, extent)
	return nil
}

func (idx *index[E]) EnqueueRemove(entity E, extent Extent) error {
	if !idx.Locked() {
		return idx.Remove(entity, extent)
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}
	idx.opQueue.EnqueueRemove(entity, extent)
	return nil
}

func (idx *index[E]) EnqueueRelocate(entity E, extent Extent) error {
	if !idx.Locked() {
		return idx.Relocate(entity, extent)
	}
	if err := idx.checkBounds(extent); err != nil {
		return err
	}
	idx.opQueue.EnqueueRelocate(entity, extent)
	return nil
}

// Walk visits nodes depth-first in child order until fn returns false.
func (idx *index[E]) Walk(fn func(NodeInfo[E]) bool) {
	stack := []int{rootSlot}
	for len(stack) > 0 {
		slot := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &idx.nodes[slot]

		info := NodeInfo[E]{
			Extent:  n.extent,
			Depth:   n.depth,
			Leaf:    n.leaf(),
			Members: make([]Member[E], len(n.members)),
		}
		for i, m := range n.members {
			info.Members[i] = Member[E]{Entity: m.entity, Extent: m.extent}
		}
		if !fn(info) {
			return
		}
		if !n.leaf() {
			for i := childCount - 1; i >= 0; i-- {
				stack = append(stack, n.children+i)
			}
		}
	}
}

func (idx *index[E]) DebugInfo() DebugInfo {
	info := DebugInfo{
		Tracked: len(idx.tracked),
		Queued:  idx.opQueue.len(),
	}
	idx.Walk(func(n NodeInfo[E]) bool {
		info.NodeCount++
		if n.Leaf {
			info.LeafCount++
		}
		info.MaxDepth = max(info.MaxDepth, n.Depth)
		info.MemberCount += len(n.Members)
		return true
	})
	return info
}

func (idx *index[E]) member(entity E) *member[E] {
	slot, ok := idx.tracked[entity]
	if !ok {
		return nil
	}
	n := &idx.nodes[slot]
	i := n.find(entity)
	if i < 0 {
		return nil
	}
	return &n.members[i]
}

func (idx *index[E]) checkBounds(extent Extent) error {
	if !extent.valid() {
		return InvalidExtentError{Extent: extent}
	}
	if root := idx.Root(); !root.Contains(extent) {
		return OutOfBoundsError{Extent: extent, Root: root}
	}
	return nil
}
