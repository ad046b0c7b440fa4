package quadtree

import "github.com/TheBitDrifter/table"

const (
	DefaultCapacity = 4
	DefaultMaxDepth = 16
)

// Config holds global configuration for the tables backing batches
var Config config = config{}

type config struct {
	tableEvents table.TableEvents
}

// SetTableEvents configures the table event callbacks
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// IndexConfig configures a new index. Zero fields fall back to the unit
// square, DefaultCapacity and DefaultMaxDepth.
type IndexConfig struct {
	Root     Extent
	Capacity int
	// Leaves at MaxDepth never split, so coincident entities cannot split forever.
	MaxDepth int
}

func (c IndexConfig) withDefaults() IndexConfig {
	if !(c.Root.Size > 0) {
		c.Root = Extent{Size: 1}
	}
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	return c
}
