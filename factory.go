package quadtree

import "github.com/TheBitDrifter/mask"

type factory struct{}

var Factory factory

func (f factory) NewLayerQuery() LayerQuery {
	return newLayerQuery()
}

// NewLayerFilter matches members carrying every one of bits.
func (f factory) NewLayerFilter(bits ...uint32) FilterNode {
	var layers mask.Mask
	markLayers(&layers, bits...)
	return newLeafNode(layers)
}

// NewLayerRegistry hands out at most capacity named layers, MaxLayers when
// capacity is out of range.
func (f factory) NewLayerRegistry(capacity int) LayerRegistry {
	if capacity <= 0 || capacity > MaxLayers {
		capacity = MaxLayers
	}
	return &layerRegistry{
		bits:        make(map[string]uint32),
		maxCapacity: capacity,
	}
}

func (f factory) NewUnitConfig(capacity int) IndexConfig {
	return IndexConfig{Root: Extent{Size: 1}, Capacity: capacity}
}

func FactoryNewIndex[E comparable](cfg IndexConfig) Index[E] {
	return newIndex[E](cfg)
}

func FactoryNewBatch[E comparable]() (*Batch[E], error) {
	return newBatch[E]()
}
