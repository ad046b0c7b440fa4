package quadtree

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []FilterNode
	layers   mask.Mask
}

type leafNode struct {
	layers mask.Mask
}

type layerQuery struct {
	root FilterNode
}

func newLayerQuery() LayerQuery {
	return &layerQuery{}
}

func newCompositeNode(op Operation, layers mask.Mask) *compositeNode {
	return &compositeNode{
		op:       op,
		children: make([]FilterNode, 0),
		layers:   layers,
	}
}

func newLeafNode(layers mask.Mask) *leafNode {
	return &leafNode{layers: layers}
}

func (n *compositeNode) Evaluate(layers mask.Mask) bool {
	switch n.op {
	case OpAnd:
		if !layers.ContainsAll(n.layers) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(layers) {
				return false
			}
		}
		return true

	case OpOr:
		if layers.ContainsAny(n.layers) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(layers) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return layers.ContainsNone(n.layers)
		}
		for _, child := range n.children {
			if child.Evaluate(layers) {
				return false
			}
		}
		return !layers.ContainsAny(n.layers)
	}
	return false
}

func (n *leafNode) Evaluate(layers mask.Mask) bool {
	return layers.ContainsAll(n.layers)
}

func (q *layerQuery) And(items ...interface{}) FilterNode {
	layers, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, layers)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *layerQuery) Or(items ...interface{}) FilterNode {
	layers, children := q.processItems(items...)
	node := newCompositeNode(OpOr, layers)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *layerQuery) Not(items ...interface{}) FilterNode {
	layers, children := q.processItems(items...)
	node := newCompositeNode(OpNot, layers)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

// processItems accepts layer bits (uint32, int, []uint32) and nested FilterNodes.
// Bits outside [0, MaxLayers) are skipped.
func (q *layerQuery) processItems(items ...interface{}) (mask.Mask, []FilterNode) {
	var layers mask.Mask
	children := make([]FilterNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case uint32:
			markLayers(&layers, v)
		case int:
			if v >= 0 {
				markLayers(&layers, uint32(v))
			}
		case []uint32:
			markLayers(&layers, v...)
		case FilterNode:
			children = append(children, v)
		}
	}

	return layers, children
}

func markLayers(layers *mask.Mask, bits ...uint32) {
	for _, bit := range bits {
		if bit < MaxLayers {
			layers.Mark(bit)
		}
	}
}

func (q *layerQuery) Evaluate(layers mask.Mask) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(layers)
}

// QueryRange opens a cursor over every member whose extent lies closer than
// maxDist to target. The index stays locked until the cursor is spent or closed.
func (idx *index[E]) QueryRange(target Point, maxDist float32) *RangeCursor[E] {
	return newRangeCursor(idx, target, maxDist, nil)
}

// QueryRangeFiltered is QueryRange restricted to members whose layers satisfy filter.
func (idx *index[E]) QueryRangeFiltered(target Point, maxDist float32, filter FilterNode) *RangeCursor[E] {
	return newRangeCursor(idx, target, maxDist, filter)
}
