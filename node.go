package quadtree

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

const (
	rootSlot   = 0
	noParent   = -1
	noChildren = -1
	childCount = 4
)

type member[E comparable] struct {
	entity E
	extent Extent
	layers mask.Mask
}

// node is one quadrant of the arena. children is the first slot of a
// contiguous block of four, or noChildren for a leaf.
type node[E comparable] struct {
	extent   Extent
	parent   int
	children int
	depth    int
	members  []member[E]
}

func (n *node[E]) leaf() bool {
	return n.children == noChildren
}

func (n *node[E]) find(entity E) int {
	for i := range n.members {
		if n.members[i].entity == entity {
			return i
		}
	}
	return -1
}

// findNode descends from slot while a single child quadrant fully contains
// extent. It stops at a leaf or at the first node extent straddles.
func (idx *index[E]) findNode(slot int, extent Extent) int {
	for {
		n := &idx.nodes[slot]
		if n.leaf() {
			return slot
		}
		q, ok := n.extent.quadrant(extent)
		if !ok {
			return slot
		}
		slot = n.children + q
	}
}

func (idx *index[E]) add(slot int, m member[E]) {
	n := &idx.nodes[slot]
	if !n.leaf() || len(n.members) < idx.capacity || n.depth >= idx.maxDepth {
		idx.place(slot, m)
		return
	}
	idx.split(slot)

	n = &idx.nodes[slot]
	displaced := n.members
	n.members = make([]member[E], 0, idx.capacity)
	for _, d := range displaced {
		idx.rehome(slot, d)
	}
	idx.rehome(slot, m)
}

// rehome routes m from a freshly split slot into the child holding it, or
// keeps it on slot when it straddles.
func (idx *index[E]) rehome(slot int, m member[E]) {
	target := idx.findNode(slot, m.extent)
	if target == slot {
		idx.place(slot, m)
		return
	}
	idx.add(target, m)
}

func (idx *index[E]) place(slot int, m member[E]) {
	idx.nodes[slot].members = append(idx.nodes[slot].members, m)
	idx.tracked[m.entity] = slot
}

func (idx *index[E]) split(slot int) {
	first := idx.allocBlock()
	parent := &idx.nodes[slot]
	for i := 0; i < childCount; i++ {
		child := &idx.nodes[first+i]
		child.extent = parent.extent.Split(i)
		child.parent = slot
		child.children = noChildren
		child.depth = parent.depth + 1
		child.members = child.members[:0]
	}
	parent.children = first
	instrumentSplit()
}

// detach swap-removes entity from slot and collapses any ancestors left with
// four empty leaves. Tracking is left to the caller.
func (idx *index[E]) detach(slot int, entity E) (member[E], bool) {
	n := &idx.nodes[slot]
	i := n.find(entity)
	if i < 0 {
		return member[E]{}, false
	}
	m := n.members[i]
	last := len(n.members) - 1
	n.members[i] = n.members[last]
	n.members[last] = member[E]{}
	n.members = n.members[:last]

	if last == 0 || !n.leaf() {
		idx.collapse(slot)
	}
	return m, true
}

func (idx *index[E]) collapse(slot int) {
	for slot != noParent {
		n := &idx.nodes[slot]
		if !n.leaf() {
			if !idx.collapsible(n) {
				return
			}
			idx.freeBlock(n.children)
			n.children = noChildren
			instrumentMerge()
		}
		slot = n.parent
	}
}

// collapsible holds when all four children are empty leaves and the node's own
// members fit in a leaf. A node holding more than capacity straddling members
// stays split over four empty children: leaf capacity wins over the rule that
// no subtree is left empty. The children collapse once a straddler leaves.
func (idx *index[E]) collapsible(n *node[E]) bool {
	if len(n.members) > idx.capacity {
		return false
	}
	for i := 0; i < childCount; i++ {
		c := &idx.nodes[n.children+i]
		if !c.leaf() || len(c.members) > 0 {
			return false
		}
	}
	return true
}

func (idx *index[E]) allocBlock() int {
	if n := len(idx.free); n > 0 {
		first := idx.free[n-1]
		idx.free = idx.free[:n-1]
		return first
	}
	first := len(idx.nodes)
	for i := 0; i < childCount; i++ {
		idx.nodes = append(idx.nodes, node[E]{})
	}
	return first
}

func (idx *index[E]) freeBlock(first int) {
	for i := 0; i < childCount; i++ {
		c := &idx.nodes[first+i]
		if !c.leaf() || len(c.members) > 0 {
			panic(fmt.Sprintf("quadtree: freeing non-empty node %d", first+i))
		}
		c.parent = noParent
		c.members = c.members[:0]
	}
	idx.free = append(idx.free, first)
}
