/*
Package quadtree provides a dynamic region quadtree for indexing moving entities.

Entities are tracked by a comparable identifier together with a square extent inside a
fixed root square. Leaves split into four quadrants once they hold more than the configured
capacity, and collapse back when all four quadrants empty out. Entities whose extent
straddles a midline stay on the internal node above it.

Core Concepts:

  - Extent: A square region (origin + edge length) describing where an entity is.
  - Index: The tree, with insert, remove and per-tick relocation of entities.
  - RangeCursor: A resumable traversal yielding every entity closer than a distance bound.
  - Batch: A per-tick list of changed extents applied to an index in one call.

Basic Usage:

	index := quadtree.FactoryNewIndex[int](quadtree.IndexConfig{})

	index.Insert(1, quadtree.Extent{Origin: quadtree.Point{X: 0.1, Y: 0.1}})
	index.Insert(2, quadtree.ExtentFromCenter(quadtree.Point{X: 0.5, Y: 0.5}, 0.05))

	// Once per tick
	index.Relocate(1, quadtree.Extent{Origin: quadtree.Point{X: 0.2, Y: 0.1}})

	cursor := index.QueryRange(quadtree.Point{X: 0.5, Y: 0.5}, 0.15)
	for entity, extent := range cursor.Members() {
		fmt.Println(entity, extent)
	}

An open cursor locks the index. Mutations made while it is open fail with LockedIndexError;
the Enqueue variants defer them until the last cursor is spent or closed.
*/
package quadtree
