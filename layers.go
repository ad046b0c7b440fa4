package quadtree

import "fmt"

// MaxLayers bounds the number of named layers a registry hands out.
const MaxLayers = 64

var _ LayerRegistry = &layerRegistry{}

type layerRegistry struct {
	names       []string
	bits        map[string]uint32
	maxCapacity int
}

func (r *layerRegistry) Bit(name string) (uint32, bool) {
	bit, ok := r.bits[name]
	return bit, ok
}

func (r *layerRegistry) Name(bit uint32) string {
	if int(bit) >= len(r.names) {
		return ""
	}
	return r.names[bit]
}

// Register hands out the next free bit for name. Registering a known name
// returns its existing bit.
func (r *layerRegistry) Register(name string) (uint32, error) {
	if bit, ok := r.bits[name]; ok {
		return bit, nil
	}
	if len(r.names) >= r.maxCapacity {
		return 0, fmt.Errorf("layer registry at maximum capacity (%d)", r.maxCapacity)
	}

	bit := uint32(len(r.names))
	r.bits[name] = bit
	r.names = append(r.names, name)
	return bit, nil
}

func (r *layerRegistry) Names() []string {
	return r.names
}

func (r *layerRegistry) Clear() {
	r.names = r.names[:0]
	r.bits = make(map[string]uint32)
}
