package tree

import (
	"time"

	"go.uber.org/zap"

	"github.com/23skdu/beamtree/internal/telemetry"
)

// Finalize is the score-propagation and beam-prune pass, run once the
// deepest bucket has accumulated leaves. It does nothing if the
// deepest bucket is empty.
//
// Grounded on node_manager.hpp::finalize.
func (m *ParallelManager[S]) Finalize() {
	start := time.Now()
	defer func() {
		telemetry.FinalizeDurationSeconds.WithLabelValues(m.instance).Observe(time.Since(start).Seconds())
	}()

	last := m.buckets[len(m.buckets)-1]
	if last.unsearched.empty() {
		return
	}

	// Award the top award_width leaves a linear-decay score
	// contribution, then put them back.
	topK := make([]nodeValue[S], 0, m.cfg.AwardWidth)
	for !last.unsearched.empty() && len(topK) < m.cfg.AwardWidth {
		topK = append(topK, last.unsearched.pop())
	}
	awardSize := len(topK)
	for _, nv := range topK {
		nv.node.award(float64(awardSize))
		awardSize--
		last.unsearched.push(nv)
	}

	// Walk down single-child chains from root to the shallowest
	// branching node.
	cursor := m.root
	for cursor.firstChild != nil && cursor.firstChild.nextSibling == nil {
		cursor = cursor.firstChild
	}
	if cursor.firstChild == nil {
		return
	}

	// Rank cursor's children worst-first by accumulated_score so the
	// losers are the ones popped off.
	frontier := newHeap(func(a, b *node[S]) bool { return a.accumulatedScore < b.accumulatedScore })
	childCount := 0
	for c := cursor.firstChild; c != nil; c = c.nextSibling {
		frontier.push(c)
		childCount++
	}

	target := m.cfg.PruneWidth
	if target > childCount {
		target = 1
	}
	pruned := 0
	for frontier.size() > target {
		worst := frontier.pop()
		m.lanes.deallocateSubtree(worst)
		pruned++
	}

	cursor.firstChild = nil
	for _, survivor := range frontier.export() {
		survivor.nextSibling = cursor.firstChild
		cursor.firstChild = survivor
	}

	for i := range m.buckets {
		m.buckets[i].cleanup(m.lanes)
	}

	telemetry.NodeCount.WithLabelValues(m.instance).Set(float64(m.lanes.size()))
	m.logger.Debug("beam finalize",
		zap.Int("awarded", len(topK)),
		zap.Int("pruned_siblings", pruned),
		zap.Int("node_count", m.lanes.size()),
	)
}
