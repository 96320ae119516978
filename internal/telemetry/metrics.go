package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are package-level promauto vars, the same pattern as the
// teacher's internal/metrics/metrics.go FlightOperationsTotal and
// friends. Every series is labeled by "instance" so more than one
// Manager/ParallelManager can run in the same process without
// colliding.
var (
	NodeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beamtree_node_count",
			Help: "Current number of live nodes held by the tree manager.",
		},
		[]string{"instance"},
	)

	// SearchedCount is registered here, but neither tree manager sets
	// it; its series stays absent unless a caller sets it.
	SearchedCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beamtree_searched_count",
			Help: "Current number of nodes that have been returned from get_task and expanded.",
		},
		[]string{"instance"},
	)

	CollisionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beamtree_collision_count_total",
			Help: "Total number of child submissions dropped as transposition-table duplicates.",
		},
		[]string{"instance"},
	)

	PruneTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beamtree_prune_total",
			Help: "Total number of prune attempts, labeled by whether they made progress.",
		},
		[]string{"instance", "outcome"},
	)

	AdvanceRootTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beamtree_advance_root_total",
			Help: "Total number of root-advancement cycles, labeled by whether the tree shifted or reset.",
		},
		[]string{"instance", "outcome"},
	)

	FinalizeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beamtree_finalize_duration_seconds",
			Help:    "Duration of the parallel beam-finalization pass.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"instance"},
	)

	LaneImbalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beamtree_lane_imbalance",
			Help: "max(lane live count) - min(lane live count) across the parallel variant's node pool lanes.",
		},
		[]string{"instance"},
	)
)
