package quadtree

import (
	"math/rand"
	"testing"
)

func benchExtents(n int, seed int64) []Extent {
	rng := rand.New(rand.NewSource(seed))
	extents := make([]Extent, n)
	for i := range extents {
		extents[i] = pt(rng.Float32()*0.999, rng.Float32()*0.999)
	}
	return extents
}

func BenchmarkInsert(b *testing.B) {
	extents := benchExtents(10000, 1)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		idx := newIndex[int](IndexConfig{})
		for e, x := range extents {
			idx.Insert(e, x)
		}
	}
}

func BenchmarkRelocate(b *testing.B) {
	extents := benchExtents(10000, 1)
	moves := benchExtents(len(extents), 2)
	idx := newIndex[int](IndexConfig{})
	for e, x := range extents {
		idx.Insert(e, x)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e := i % len(extents)
		if i/len(extents)%2 == 0 {
			idx.Relocate(e, moves[e])
		} else {
			idx.Relocate(e, extents[e])
		}
	}
}

func BenchmarkQueryRange(b *testing.B) {
	extents := benchExtents(10000, 1)
	idx := newIndex[int](IndexConfig{})
	for e, x := range extents {
		idx.Insert(e, x)
	}
	b.ResetTimer()

	found := 0
	for i := 0; i < b.N; i++ {
		cursor := idx.QueryRange(extents[i%len(extents)].Origin, 0.02)
		for cursor.Next() {
			found++
		}
	}
	_ = found
}
