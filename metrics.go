package quadtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"

	outcomeInserted   = "inserted"
	outcomeStayed     = "stayed"
	outcomeDescended  = "descended"
	outcomeReinserted = "reinserted"
)

var (
	quadtreeSplits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quadtree_splits",
		Help: "The number of leaves split into four children.",
	})

	quadtreeMerges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quadtree_merges",
		Help: "The number of nodes collapsed back into leaves.",
	})

	quadtreeRelocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quadtree_relocations",
		Help: "The number of relocations by outcome.",
	}, []string{outcomeLabel})

	quadtreeRangeQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quadtree_range_queries",
		Help: "The number of range cursors opened.",
	})

	quadtreeNodesVisited = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quadtree_range_query_nodes_visited",
		Help:    "The number of nodes entered by a range cursor.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

func instrumentSplit() {
	quadtreeSplits.Inc()
}

func instrumentMerge() {
	quadtreeMerges.Inc()
}

func instrumentRelocation(outcome string) {
	quadtreeRelocations.
		With(prometheus.Labels{outcomeLabel: outcome}).
		Inc()
}

func instrumentRangeQuery() {
	quadtreeRangeQueries.Inc()
}

func instrumentVisited(n int) {
	quadtreeNodesVisited.Observe(float64(n))
}
