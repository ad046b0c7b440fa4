package quadtree

import (
	"errors"
	"fmt"

	"github.com/TheBitDrifter/table"
)

type relocation[E comparable] struct {
	Entity E
	Extent Extent
}

// Batch is the per-tick work list of extents to relocate. Rows live in a
// table so table-backed environments can fill it row by row.
type Batch[E comparable] struct {
	table table.Table
	rows  table.Accessor[relocation[E]]
}

func newBatch[E comparable]() (*Batch[E], error) {
	rowType := table.FactoryNewElementType[relocation[E]]()
	schema := table.Factory.NewSchema()
	schema.Register(rowType)

	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(table.Factory.NewEntryIndex()).
		WithElementTypes(rowType).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch table: %w", err)
	}
	return &Batch[E]{
		table: tbl,
		rows:  table.FactoryNewAccessor[relocation[E]](rowType),
	}, nil
}

func (b *Batch[E]) Add(entity E, extent Extent) error {
	entries, err := b.table.NewEntries(1)
	if err != nil {
		return fmt.Errorf("failed to add batch row: %w", err)
	}
	entry := entries[0]
	row := b.rows.Get(entry.Index(), b.table)
	row.Entity = entity
	row.Extent = extent
	return nil
}

func (b *Batch[E]) Len() int {
	return b.table.Length()
}

// Apply relocates every row in the order it was added, then clears the
// batch. Rows reaching a locked index are queued until it unlocks. Failing
// rows do not stop the rest.
func (b *Batch[E]) Apply(idx Index[E]) error {
	var errs []error
	for i := 0; i < b.table.Length(); i++ {
		row := b.rows.Get(i, b.table)
		if err := idx.EnqueueRelocate(row.Entity, row.Extent); err != nil {
			errs = append(errs, fmt.Errorf("failed to relocate %v: %w", row.Entity, err))
		}
	}
	if err := b.Clear(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Clear deletes every row. DeleteEntries takes row indices, not entry IDs.
func (b *Batch[E]) Clear() error {
	n := b.table.Length()
	if n == 0 {
		return nil
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	if _, err := b.table.DeleteEntries(rows...); err != nil {
		return fmt.Errorf("failed to clear batch: %w", err)
	}
	return nil
}
