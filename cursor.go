package quadtree

import (
	"iter"
)

var _ iCursor[int] = &RangeCursor[int]{}

func newRangeCursor[E comparable](idx *index[E], target Point, maxDist float32, filter FilterNode) *RangeCursor[E] {
	idx.Lock()
	instrumentRangeQuery()

	var maxSqDist float32
	if maxDist > 0 {
		maxSqDist = maxDist * maxDist
	}
	return &RangeCursor[E]{
		index:     idx,
		target:    target,
		maxSqDist: maxSqDist,
		filter:    filter,
		node:      rootSlot,
		visited:   1,
	}
}

// Next moves to the next member within range. Once it returns false the
// cursor is spent and the index lock it held is released.
func (c *RangeCursor[E]) Next() bool {
	if c.exhausted {
		return false
	}
	if c.advance() {
		return true
	}
	c.Close()
	return false
}

func (c *RangeCursor[E]) advance() bool {
	nodes := c.index.nodes
	for {
		n := &nodes[c.node]

		for c.idx < len(n.members) {
			m := n.members[c.idx]
			c.idx++
			if c.admits(m) {
				c.current = m
				return true
			}
		}

		if !n.leaf() {
			if child, ok := c.nextChild(n); ok {
				c.node = child
				c.idx = 0
				c.resume = 0
				c.visited++
				continue
			}
		}

		if n.parent == noParent {
			return false
		}
		// Resume the parent after the child just exited; its own members
		// were yielded before descending.
		c.resume = c.node - nodes[n.parent].children + 1
		c.node = n.parent
		c.idx = len(nodes[c.node].members)
	}
}

func (c *RangeCursor[E]) nextChild(n *node[E]) (int, bool) {
	for i := c.resume; i < childCount; i++ {
		slot := n.children + i
		if c.index.nodes[slot].extent.MinSqDist(c.target) < c.maxSqDist {
			return slot, true
		}
	}
	return 0, false
}

func (c *RangeCursor[E]) admits(m member[E]) bool {
	if m.extent.MinSqDist(c.target) >= c.maxSqDist {
		return false
	}
	return c.filter == nil || c.filter.Evaluate(m.layers)
}

func (c *RangeCursor[E]) Members() iter.Seq2[E, Extent] {
	return func(yield func(E, Extent) bool) {
		for c.Next() {
			if !yield(c.current.entity, c.current.extent) {
				c.Close()
				return
			}
		}
	}
}

func (c *RangeCursor[E]) Entity() E {
	return c.current.entity
}

func (c *RangeCursor[E]) Extent() Extent {
	return c.current.extent
}

// Visited is the number of nodes entered so far, the root included.
func (c *RangeCursor[E]) Visited() int {
	return c.visited
}

// Close ends the traversal early. Calling it on a spent cursor does nothing.
func (c *RangeCursor[E]) Close() {
	if c.exhausted {
		return
	}
	c.exhausted = true
	c.current = member[E]{}
	instrumentVisited(c.visited)
	c.index.Unlock()
}
