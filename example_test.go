package quadtree_test

import (
	"fmt"

	"github.com/TheBitDrifter/quadtree"
)

// point builds a zero-sized extent
func point(x, y float32) quadtree.Extent {
	return quadtree.Extent{Origin: quadtree.Point{X: x, Y: y}}
}

// Example shows basic index usage with inserts and a range query
func Example_basic() {
	// Create an index over the unit square
	index := quadtree.FactoryNewIndex[int](quadtree.IndexConfig{})

	// The fifth entity overflows the root and splits it
	index.Insert(1, point(0, 0))
	index.Insert(2, point(0.1, 0))
	index.Insert(3, point(0, 0.1))
	index.Insert(4, point(0.6, 0.6))
	index.Insert(5, point(0.9, 0.9))

	info := index.DebugInfo()
	fmt.Printf("%d nodes, %d leaves\n", info.NodeCount, info.LeafCount)

	// Query everything closer than 0.2 to the bottom left corner
	cursor := index.QueryRange(quadtree.Point{X: 0.05, Y: 0.05}, 0.2)
	for cursor.Next() {
		fmt.Printf("Found entity %d at (%.1f, %.1f)\n", cursor.Entity(), cursor.Extent().Origin.X, cursor.Extent().Origin.Y)
	}
	fmt.Printf("Visited %d nodes\n", cursor.Visited())

	// Output:
	// 5 nodes, 4 leaves
	// Found entity 1 at (0.0, 0.0)
	// Found entity 2 at (0.1, 0.0)
	// Found entity 3 at (0.0, 0.1)
	// Visited 2 nodes
}

// Example_relocation shows how moves made during a query are deferred
func Example_relocation() {
	index := quadtree.FactoryNewIndex[string](quadtree.IndexConfig{})
	index.Insert("ship", point(0.2, 0.2))
	index.Insert("rock", point(0.3, 0.2))

	// The open cursor locks the index, so the move is queued
	for name := range index.QueryRange(quadtree.Point{X: 0.2, Y: 0.2}, 0.5).Members() {
		if name == "ship" {
			index.EnqueueRelocate(name, point(0.8, 0.8))
			fmt.Printf("Locked while iterating: %v\n", index.Locked())
		}
	}

	extent, _ := index.Lookup("ship")
	fmt.Printf("Ship moved to (%.1f, %.1f)\n", extent.Origin.X, extent.Origin.Y)

	// Direct mutations fail while a cursor is open
	cursor := index.QueryRange(quadtree.Point{}, 1)
	err := index.Remove("rock", point(0.3, 0.2))
	fmt.Println(err)
	cursor.Close()

	// Output:
	// Locked while iterating: true
	// Ship moved to (0.8, 0.8)
	// index is locked by an open range cursor
}

// Example_layers shows how to use layer filters with range queries
func Example_layers() {
	const (
		player uint32 = iota
		enemy
		projectile
	)

	index := quadtree.FactoryNewIndex[string](quadtree.IndexConfig{})
	index.Insert("hero", point(0.5, 0.5))
	index.Insert("orc", point(0.55, 0.5))
	index.Insert("arrow", point(0.5, 0.55))
	index.MarkLayers("hero", player)
	index.MarkLayers("orc", enemy)
	index.MarkLayers("arrow", enemy, projectile)

	center := quadtree.Point{X: 0.5, Y: 0.5}
	query := quadtree.Factory.NewLayerQuery()

	// OR filter: enemies or players
	count := 0
	for range index.QueryRangeFiltered(center, 0.1, query.Or(player, enemy)).Members() {
		count++
	}
	fmt.Printf("OR filter matched %d entities\n", count)

	// AND filter: enemy projectiles
	count = 0
	for range index.QueryRangeFiltered(center, 0.1, query.And(enemy, projectile)).Members() {
		count++
	}
	fmt.Printf("AND filter matched %d entities\n", count)

	// NOT filter: anything that is not an enemy
	count = 0
	for range index.QueryRangeFiltered(center, 0.1, query.Not(enemy)).Members() {
		count++
	}
	fmt.Printf("NOT filter matched %d entities\n", count)

	// Output:
	// OR filter matched 3 entities
	// AND filter matched 1 entities
	// NOT filter matched 1 entities
}
