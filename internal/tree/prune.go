package tree

import (
	"go.uber.org/zap"

	"github.com/23skdu/beamtree/internal/telemetry"
)

// prune implements the lineage-prune algorithm from spec.md §4.6: when
// node_count > node_limit (GetTask's pool.isAtLimit gate), collapse every branch of the tree except
// the single best-scoring lineage, so the search keeps making forward
// progress at the cost of breadth.
//
// Grounded on node_manager_new.hpp::prune.
func (m *Manager[S]) prune() bool {
	first := m.firstActiveDepth()
	last := m.lastActiveDepth()

	if last == -1 {
		// Node limit hit but no depth has unsearched work left: there
		// is no leaf to keep a lineage for, so no forward progress is
		// possible at this node_limit.
		m.lastErr = ErrLimitUnderflow
		return false
	}
	if first == -1 {
		// No depth has more than one live node: the tree is already
		// a single lineage, nothing left to prune.
		telemetry.PruneTotal.WithLabelValues(m.instance, "noop").Inc()
		return false
	}
	if first == last {
		telemetry.PruneTotal.WithLabelValues(m.instance, "noop").Inc()
		return false
	}
	// spec.md §9: PruneDepthLimit == 0 means "no lineage-depth cap",
	// not "disabled" — only a positive limit restricts eligibility.
	if m.cfg.PruneDepthLimit > 0 && first > m.cfg.PruneDepthLimit {
		telemetry.PruneTotal.WithLabelValues(m.instance, "noop").Inc()
		return false
	}

	bestLeaf := m.buckets[last].unsearched.top().node
	survivor := bestLeaf.parentAt(last - first)

	m.buckets[first].filter(survivor, m.pool)
	for i := first; i <= last; i++ {
		m.buckets[i].cleanup(m.pool)
	}

	telemetry.PruneTotal.WithLabelValues(m.instance, "pruned").Inc()
	telemetry.NodeCount.WithLabelValues(m.instance).Set(float64(m.pool.size()))
	m.logger.Debug("lineage prune",
		zap.Int("first_depth", first),
		zap.Int("last_depth", last),
		zap.Int("node_count", m.pool.size()),
	)
	return true
}

// firstActiveDepth returns the index of the first depth bucket holding
// more than one live node, or -1 if none does.
func (m *Manager[S]) firstActiveDepth() int {
	for i, b := range m.buckets {
		if b.size() > 1 {
			return i
		}
	}
	return -1
}

// lastActiveDepth returns the index of the deepest depth bucket that
// still has unsearched work pending, or -1 if none does. This mirrors
// bestLeaf's walk deliberately: prune keeps the lineage of the top node
// of this same bucket.
func (m *Manager[S]) lastActiveDepth() int {
	for i := len(m.buckets) - 1; i >= 0; i-- {
		if !m.buckets[i].unsearched.empty() {
			return i
		}
	}
	return -1
}
