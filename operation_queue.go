package quadtree

import (
	"errors"
	"fmt"
)

type operation[E comparable] struct {
	typ    operationType
	entity E
	extent Extent
}

type operationType int

const (
	opInsert operationType = iota
	opRelocate
	opRemove
	opCancelled
)

// opQueue holds operations requested while the index is locked. They flush
// in the order they were made.
type opQueue[E comparable] struct {
	ops    []operation[E]
	live   int
	latest map[E]int
}

func newOpQueue[E comparable]() opQueue[E] {
	return opQueue[E]{
		latest: make(map[E]int),
	}
}

func (q *opQueue[E]) enqueueOp(op operation[E]) {
	q.latest[op.entity] = len(q.ops)
	q.ops = append(q.ops, op)
	q.live++
}

// last returns the entity's most recent live operation.
func (q *opQueue[E]) last(entity E) (*operation[E], bool) {
	i, ok := q.latest[entity]
	if !ok || q.ops[i].typ == opCancelled {
		return nil, false
	}
	return &q.ops[i], true
}

func (q *opQueue[E]) cancel(op *operation[E]) {
	op.typ = opCancelled
	q.live--
}

func (q *opQueue[E]) len() int {
	return q.live
}

func (q *opQueue[E]) reset() {
	q.ops = q.ops[:0]
	q.live = 0
	clear(q.latest)
}

func (idx *index[E]) processOperationQueue() error {
	if idx.opQueue.len() == 0 {
		return nil
	}
	ops := idx.opQueue.ops
	defer idx.opQueue.reset()

	var errs []error
	for _, op := range ops {
		switch op.typ {
		case opInsert:
			if err := idx.Insert(op.entity, op.extent); err != nil {
				errs = append(errs, fmt.Errorf("failed to process queued insert: %w", err))
			}
		case opRelocate:
			if err := idx.Relocate(op.entity, op.extent); err != nil {
				errs = append(errs, fmt.Errorf("failed to process queued relocation: %w", err))
			}
		case opRemove:
			// Routed by the extent the entity holds now, which earlier
			// queued operations may have changed
			extent, ok := idx.Lookup(op.entity)
			if !ok {
				continue
			}
			if err := idx.Remove(op.entity, extent); err != nil {
				errs = append(errs, fmt.Errorf("failed to process queued removal: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}

func (q *opQueue[E]) EnqueueInsert(entity E, extent Extent) {
	q.enqueueOp(operation[E]{typ: opInsert, entity: entity, extent: extent})
}

func (q *opQueue[E]) EnqueueRemove(entity E, extent Extent) {
	if last, ok := q.last(entity); ok {
		switch last.typ {
		case opRemove:
			return
		case opRelocate:
			// The removal routes by the entity's extent at flush time, so a
			// move just before it has no effect
			q.cancel(last)
		}
	}
	q.enqueueOp(operation[E]{typ: opRemove, entity: entity, extent: extent})
}

func (q *opQueue[E]) EnqueueRelocate(entity E, extent Extent) {
	if last, ok := q.last(entity); ok && last.typ == opRelocate {
		last.extent = extent
		return
	}
	q.enqueueOp(operation[E]{typ: opRelocate, entity: entity, extent: extent})
}
