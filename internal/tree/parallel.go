package tree

import (
	"go.uber.org/zap"

	"github.com/23skdu/beamtree/internal/telemetry"
	"github.com/23skdu/beamtree/internal/treeconfig"
)

// ParallelManager is the lane-pooled, sibling-linked tree manager,
// grounded on original_source/node_manager.hpp's NodeTreeManager. The
// manager itself still runs single-threaded (spec.md §5): lanes exist
// so a driver can hand pre-allocated child slots to distinct workers
// without the workers stepping on each other's free lists, not so the
// manager's own methods can be called concurrently.
type ParallelManager[S any] struct {
	cfg      treeconfig.Config
	hash     func(S) uint64
	collides func(a, b S) bool
	logger   *zap.Logger
	instance string

	lanes   *laneSet[S]
	buckets []*bucket[S]
	root    *node[S]

	collisions int64
}

// NewParallel constructs a ParallelManager. It allocates no lanes and
// no root; call Reset, whose laneCount argument should equal the number
// of worker goroutines the driver intends to dispatch batches to, before
// any other method.
func NewParallel[S any](hash func(S) uint64, collides func(a, b S) bool, cfg treeconfig.Config, logger *zap.Logger, instance string) *ParallelManager[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ParallelManager[S]{
		cfg:      cfg,
		hash:     hash,
		collides: collides,
		logger:   logger,
		instance: instance,
	}
	m.allocateBuckets()
	return m
}

func (m *ParallelManager[S]) allocateBuckets() {
	m.buckets = make([]*bucket[S], m.cfg.MaxDepth+1)
	for i := range m.buckets {
		m.buckets[i] = newBucket[S](m.hash, m.collides)
	}
}

// Reset tears down the current tree (if any) and starts a fresh one
// rooted at rootState with laneCount lanes. Grounded on
// NodeTreeManager::reset.
func (m *ParallelManager[S]) Reset(rootState S, laneCount int) {
	if laneCount < 1 {
		laneCount = 1
	}
	if m.lanes == nil {
		m.lanes = newLaneSet[S](laneCount)
	} else if m.root != nil {
		m.lanes.deallocateSubtree(m.root)
		m.lanes.deallocateRoot(m.root)
		m.lanes.reset(laneCount)
	} else {
		m.lanes.reset(laneCount)
	}
	m.allocateBuckets()
	m.root = m.lanes.allocateRoot(rootState)
	m.buckets[0].push(m.root, 0)
	telemetry.AdvanceRootTotal.WithLabelValues(m.instance, "reset").Inc()
}

// IsSearchComplete reports whether every dispatchable depth (every
// bucket but the last, which is finalize-only) has been drained and
// the node limit has not been reached, per is_search_complete.
func (m *ParallelManager[S]) IsSearchComplete() bool {
	if m.lanes.isAtLimit(m.cfg.NodeLimit) {
		return false
	}
	for i := 0; i < len(m.buckets)-1; i++ {
		if !m.buckets[i].unsearched.empty() {
			return false
		}
	}
	return true
}

// IsReleasable mirrors is_releasable: it reports true whenever the
// finalize-only deepest depth holds unsearched leaves, and otherwise
// returns IsSearchComplete.
func (m *ParallelManager[S]) IsReleasable() bool {
	last := m.buckets[len(m.buckets)-1]
	if last.unsearched.empty() {
		return m.IsSearchComplete()
	}
	return true
}

// AllocateChild reserves a node in lane laneID, parented at task's
// node. The caller writes the child's state through the returned
// handle, then reports it with ReportChild.
func (m *ParallelManager[S]) AllocateChild(laneID int, task Task[S]) ChildHandle[S] {
	if task.Depth+1 >= len(m.buckets) {
		panic(&InvariantViolationError{Reason: "AllocateChild called on a task at max_depth; the caller must treat max_depth tasks as leaves"})
	}
	child := m.lanes.allocate(laneID, task.node)
	if m.cfg.DebugChecks {
		child.sanityCheck()
	}
	return ChildHandle[S]{Depth: task.Depth + 1, State: &child.state, node: child}
}

// ReportChild runs transposition dedup at handle.Depth exactly as the
// single-threaded Manager does.
func (m *ParallelManager[S]) ReportChild(handle ChildHandle[S], score float64) {
	if !m.buckets[handle.Depth].push(handle.node, score) {
		m.lanes.deallocate(handle.node)
		m.collisions++
		telemetry.CollisionCount.WithLabelValues(m.instance).Inc()
	}
	telemetry.NodeCount.WithLabelValues(m.instance).Set(float64(m.lanes.size()))
}

// AdvanceRoot promotes the root's child with the highest
// accumulatedScore to root, deallocating every sibling subtree, and
// shifts depth buckets up by one. Returns false if the root has no
// children yet. Grounded on NodeTreeManager::try_advance, but unlike
// it, every displaced-or-losing sibling is deallocated exactly once:
// the original only frees a best candidate that later gets displaced,
// never a candidate that was simply worse when visited, which leaks
// the rest of the frontier.
//
// Follows the single-threaded shiftRoot's shape: pick the survivor,
// shift buckets, then let bucket.filter/makeRoot/cleanup do the actual
// freeing and orphan sweep rather than walking sibling subtrees here.
func (m *ParallelManager[S]) AdvanceRoot() bool {
	if m.root == nil || m.root.firstChild == nil {
		return false
	}

	var best *node[S]
	for c := m.root.firstChild; c != nil; c = c.nextSibling {
		if best == nil || c.accumulatedScore > best.accumulatedScore {
			best = c
		}
	}

	m.lanes.deallocateRoot(m.root)
	best.nextSibling = nil

	last := len(m.buckets) - 1
	for i := 0; i < last; i++ {
		m.buckets[i] = m.buckets[i+1]
	}
	m.buckets[last] = newBucket[S](m.hash, m.collides)

	m.buckets[0].filter(best, m.lanes)
	m.buckets[0].makeRoot()
	m.root = best

	for i := 1; i < last; i++ {
		m.buckets[i].cleanup(m.lanes)
	}

	telemetry.AdvanceRootTotal.WithLabelValues(m.instance, "advanced").Inc()
	m.logger.Debug("root advanced",
		zap.Float64("winning_score", best.accumulatedScore),
		zap.Int("node_count", m.lanes.size()),
	)
	return true
}

// BestNextMove returns the state of the root's child on the path to
// the current best deepest leaf. Grounded on get_best_state.
func (m *ParallelManager[S]) BestNextMove() (S, bool) {
	leaf := m.bestLeaf()
	if leaf == nil {
		var zero S
		return zero, false
	}
	parent := leaf.firstParent()
	if parent == nil {
		var zero S
		return zero, false
	}
	return parent.state, true
}

func (m *ParallelManager[S]) bestLeaf() *node[S] {
	for i := len(m.buckets) - 1; i >= 0; i-- {
		if !m.buckets[i].unsearched.empty() {
			return m.buckets[i].unsearched.top().node
		}
	}
	return nil
}

// LaneImbalance reports max(lane live count) - min(lane live count),
// surfaced for a caller tuning lane/worker counts.
func (m *ParallelManager[S]) LaneImbalance() int {
	imbalance := m.lanes.imbalance()
	telemetry.LaneImbalance.WithLabelValues(m.instance).Set(float64(imbalance))
	return imbalance
}

func (m *ParallelManager[S]) NodeCount() int { return m.lanes.size() }

func (m *ParallelManager[S]) SearchedCount() int {
	total := 0
	for _, b := range m.buckets {
		total += len(b.searched)
	}
	return total
}

func (m *ParallelManager[S]) CollisionCount() int64 { return m.collisions }
