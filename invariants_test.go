package quadtree

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pt(x, y float32) Extent {
	return Extent{Origin: Point{X: x, Y: y}}
}

func box(x, y, size float32) Extent {
	return Extent{Origin: Point{X: x, Y: y}, Size: size}
}

func newTestIndex(t testing.TB, cfg IndexConfig) *index[int] {
	t.Helper()
	return newIndex[int](cfg)
}

func mustInsert(t testing.TB, idx *index[int], entity int, extent Extent) {
	t.Helper()
	require.NoError(t, idx.Insert(entity, extent))
}

// requireInvariants walks every live node and checks containment, capacity,
// tracking and the absence of empty subtrees.
func requireInvariants(t testing.TB, idx *index[int]) {
	t.Helper()

	seen := make(map[int]bool)
	stack := []int{rootSlot}
	for len(stack) > 0 {
		slot := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &idx.nodes[slot]

		if n.leaf() && n.depth < idx.maxDepth {
			require.LessOrEqual(t, len(n.members), idx.capacity, "leaf %d over capacity", slot)
		}
		for _, m := range n.members {
			require.False(t, seen[m.entity], "entity %d indexed twice", m.entity)
			seen[m.entity] = true
			require.True(t, n.extent.Contains(m.extent), "entity %d at %+v escapes node %+v", m.entity, m.extent, n.extent)
			require.Equal(t, slot, idx.tracked[m.entity], "entity %d tracked at the wrong node", m.entity)
			require.Equal(t, slot, idx.findNode(rootSlot, m.extent), "entity %d not at its canonical node", m.entity)
		}
		if n.leaf() {
			continue
		}
		require.False(t, idx.collapsible(n), "node %d has four empty children", slot)
		for i := 0; i < childCount; i++ {
			child := n.children + i
			require.Equal(t, slot, idx.nodes[child].parent)
			require.Equal(t, n.extent.Split(i), idx.nodes[child].extent)
			stack = append(stack, child)
		}
	}
	require.Len(t, idx.tracked, len(seen))
}

// snapshot renders the tree shape with members sorted, so trees that differ
// only in member order compare equal.
func snapshot(idx *index[int]) string {
	var b strings.Builder
	idx.Walk(func(n NodeInfo[int]) bool {
		ids := make([]int, 0, len(n.Members))
		for _, m := range n.Members {
			ids = append(ids, m.Entity)
		}
		slices.Sort(ids)
		fmt.Fprintf(&b, "%s%+v leaf=%v %v\n", strings.Repeat("  ", n.Depth), n.Extent, n.Leaf, ids)
		return true
	})
	return b.String()
}

func membersOf(idx *index[int], path ...int) []int {
	slot := rootSlot
	for _, q := range path {
		slot = idx.nodes[slot].children + q
	}
	var ids []int
	for _, m := range idx.nodes[slot].members {
		ids = append(ids, m.entity)
	}
	slices.Sort(ids)
	return ids
}

func drain(c *RangeCursor[int]) []int {
	var ids []int
	for c.Next() {
		ids = append(ids, c.Entity())
	}
	return ids
}
