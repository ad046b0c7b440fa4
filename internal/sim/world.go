// Package sim moves bodies around the unit square and keeps a quadtree in
// step with them, one batch of relocations per tick.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/TheBitDrifter/quadtree"
	"github.com/google/uuid"
)

type Body struct {
	ID       uuid.UUID
	Kind     uint32
	Position quadtree.Point
	Velocity quadtree.Point
	HalfSize float32
}

func (b Body) Extent() quadtree.Extent {
	return quadtree.ExtentFromCenter(b.Position, b.HalfSize)
}

type Options struct {
	Entities int
	Kinds    int
	// KindNames names the kinds in order. Unnamed kinds are called kind0,
	// kind1 and so on.
	KindNames []string
	HalfSize float32
	Speed    float32
	Seed     int64
	Index    quadtree.IndexConfig
}

type World struct {
	tick   int
	bodies []Body
	lookup map[uuid.UUID]int
	index  quadtree.Index[uuid.UUID]
	batch  *quadtree.Batch[uuid.UUID]
	kinds  quadtree.LayerRegistry
}

func NewWorld(opts Options) (*World, error) {
	batch, err := quadtree.FactoryNewBatch[uuid.UUID]()
	if err != nil {
		return nil, err
	}
	w := &World{
		lookup: make(map[uuid.UUID]int, opts.Entities),
		index:  quadtree.FactoryNewIndex[uuid.UUID](opts.Index),
		batch:  batch,
		kinds:  quadtree.Factory.NewLayerRegistry(quadtree.MaxLayers),
	}

	kinds := max(opts.Kinds, len(opts.KindNames), 1)
	for k := 0; k < kinds; k++ {
		name := fmt.Sprintf("kind%d", k)
		if k < len(opts.KindNames) {
			name = opts.KindNames[k]
		}
		if _, err := w.kinds.Register(name); err != nil {
			return nil, fmt.Errorf("failed to register kind %q: %w", name, err)
		}
	}
	kinds = len(w.kinds.Names())

	rng := rand.New(rand.NewSource(opts.Seed))
	root := w.index.Root()
	span := root.Size - 2*opts.HalfSize
	for i := 0; i < opts.Entities; i++ {
		body := Body{
			ID:   uuid.New(),
			Kind: uint32(i % kinds),
			Position: quadtree.Point{
				X: root.Origin.X + opts.HalfSize + rng.Float32()*span,
				Y: root.Origin.Y + opts.HalfSize + rng.Float32()*span,
			},
			Velocity: quadtree.Point{
				X: (rng.Float32()*2 - 1) * opts.Speed,
				Y: (rng.Float32()*2 - 1) * opts.Speed,
			},
			HalfSize: opts.HalfSize,
		}
		if err := w.Spawn(body); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) Spawn(body Body) error {
	if _, exists := w.lookup[body.ID]; exists {
		return fmt.Errorf("body %s already spawned", body.ID)
	}
	if err := w.index.Insert(body.ID, body.Extent()); err != nil {
		return fmt.Errorf("failed to index body %s: %w", body.ID, err)
	}
	w.index.MarkLayers(body.ID, body.Kind)
	w.lookup[body.ID] = len(w.bodies)
	w.bodies = append(w.bodies, body)
	return nil
}

// Step integrates every moving body and stages its new extent in the batch.
// Bodies bounce off the root walls so their extents stay inside it.
func (w *World) Step() error {
	root := w.index.Root()
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.Velocity == (quadtree.Point{}) {
			continue
		}
		b.Position.X, b.Velocity.X = bounce(b.Position.X+b.Velocity.X, b.Velocity.X, root.Origin.X, root.Size, b.HalfSize)
		b.Position.Y, b.Velocity.Y = bounce(b.Position.Y+b.Velocity.Y, b.Velocity.Y, root.Origin.Y, root.Size, b.HalfSize)
		if err := w.batch.Add(b.ID, b.Extent()); err != nil {
			return err
		}
	}
	return nil
}

func bounce(pos, vel, lo, size, half float32) (float32, float32) {
	lower := lo + half
	// Extents are half-open, keep the far edge strictly inside.
	upper := lo + size - half - size*1e-6
	switch {
	case pos < lower:
		return lower, -vel
	case pos > upper:
		return upper, -vel
	}
	return pos, vel
}

// Tick runs one movement step and applies the resulting relocations.
func (w *World) Tick() error {
	if err := w.Step(); err != nil {
		return err
	}
	w.tick++
	return w.batch.Apply(w.index)
}

// Neighbours lists the bodies closer than radius to the centre of id,
// excluding id. With kinds set, only bodies of those kinds are returned.
func (w *World) Neighbours(id uuid.UUID, radius float32, kinds ...uint32) []uuid.UUID {
	i, ok := w.lookup[id]
	if !ok {
		return nil
	}
	target := w.bodies[i].Position

	var cursor *quadtree.RangeCursor[uuid.UUID]
	if len(kinds) > 0 {
		filter := quadtree.Factory.NewLayerQuery().Or(kinds)
		cursor = w.index.QueryRangeFiltered(target, radius, filter)
	} else {
		cursor = w.index.QueryRange(target, radius)
	}

	var found []uuid.UUID
	for other := range cursor.Members() {
		if other != id {
			found = append(found, other)
		}
	}
	return found
}

// Contacts counts, over all bodies, the neighbours closer than radius.
func (w *World) Contacts(radius float32) int {
	total := 0
	for _, b := range w.bodies {
		total += len(w.Neighbours(b.ID, radius))
	}
	return total
}

// Kind resolves a kind name to the layer its bodies are marked with.
func (w *World) Kind(name string) (uint32, bool) {
	return w.kinds.Bit(name)
}

// KindCounts counts bodies per kind name.
func (w *World) KindCounts() map[string]int {
	counts := make(map[string]int, len(w.kinds.Names()))
	for _, b := range w.bodies {
		counts[w.kinds.Name(b.Kind)]++
	}
	return counts
}

func (w *World) Body(id uuid.UUID) (Body, bool) {
	i, ok := w.lookup[id]
	if !ok {
		return Body{}, false
	}
	return w.bodies[i], true
}

func (w *World) Bodies() []Body {
	return w.bodies
}

func (w *World) Index() quadtree.Index[uuid.UUID] {
	return w.index
}

func (w *World) Ticks() int {
	return w.tick
}
