package quadtree

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

type Index[E comparable] interface {
	Insert(entity E, extent Extent) error
	Remove(entity E, extent Extent) error
	Relocate(entity E, extent Extent) error
	EnqueueInsert(entity E, extent Extent) error
	EnqueueRemove(entity E, extent Extent) error
	EnqueueRelocate(entity E, extent Extent) error
	MarkLayers(entity E, bits ...uint32) bool
	UnmarkLayers(entity E, bits ...uint32) bool
	Lookup(entity E) (Extent, bool)
	Len() int
	Root() Extent
	QueryRange(target Point, maxDist float32) *RangeCursor[E]
	QueryRangeFiltered(target Point, maxDist float32, filter FilterNode) *RangeCursor[E]
	Walk(fn func(NodeInfo[E]) bool)
	DebugInfo() DebugInfo
	Locked() bool
	Lock()
	Unlock()
	FlushErr() error
}

type LayerQuery interface {
	FilterNode
	And(items ...interface{}) FilterNode
	Or(items ...interface{}) FilterNode
	Not(items ...interface{}) FilterNode
}

type FilterNode interface {
	Evaluate(layers mask.Mask) bool
}

// LayerRegistry names layer bits.
type LayerRegistry interface {
	Bit(name string) (uint32, bool)
	Name(bit uint32) string
	Register(name string) (uint32, error)
	Names() []string
	Clear()
}

type iCursor[E comparable] interface {
	Members() iter.Seq2[E, Extent]
	Next() bool
	Close()
}

type Point struct {
	X, Y float32
}

// Extent is the square [Origin.X, Origin.X+Size) × [Origin.Y, Origin.Y+Size).
type Extent struct {
	Origin Point
	Size   float32
}

// NodeInfo is a read-only view of one node handed out by Walk.
type NodeInfo[E comparable] struct {
	Extent  Extent
	Depth   int
	Leaf    bool
	Members []Member[E]
}

type Member[E comparable] struct {
	Entity E
	Extent Extent
}

type DebugInfo struct {
	NodeCount   int
	LeafCount   int
	MaxDepth    int
	MemberCount int
	Tracked     int
	Queued      int
}

// Warning: holds slot indices into the index arena, never retain across a mutation.
type RangeCursor[E comparable] struct {
	index *index[E]

	target    Point
	maxSqDist float32
	filter    FilterNode

	// Traversal state
	node    int
	idx     int
	resume  int
	current member[E]
	visited int

	exhausted bool
}
