// Package tree implements the node-tree manager described in
// spec.md: a depth-stratified priority-queue forest with its own
// pooled node allocator, transposition table, reparenting logic for
// root advancement, and pruning/orphan-sweep algorithms.
//
// Manager is the single-threaded variant, grounded on
// original_source/node_manager_new.hpp (lineage pruning, in-state
// pruned flag generalized here to an explicit bool per spec.md §9).
// ParallelManager (parallel.go) is the lane-pooled, sibling-linked
// variant grounded on node_manager.hpp.
package tree

import (
	"go.uber.org/zap"

	"github.com/23skdu/beamtree/internal/telemetry"
	"github.com/23skdu/beamtree/internal/treeconfig"
)

// Task is returned by GetTask: the parent node the caller should
// expand, and the depth it lives at.
type Task[S any] struct {
	State S
	Depth int

	node *node[S]
}

// ChildHandle is returned by AllocateChild. The caller writes the new
// state through State, then calls ReportChild with the same handle.
// Per spec.md §6, a handle is only valid until the matching
// ReportChild call.
type ChildHandle[S any] struct {
	Depth int
	State *S

	node *node[S]
}

// Manager is the single-threaded tree manager.
type Manager[S any] struct {
	cfg      treeconfig.Config
	hash     func(S) uint64
	collides func(a, b S) bool
	logger   *zap.Logger
	instance string

	pool    *pool[S]
	buckets []*bucket[S]
	root    *node[S]
	cursor  int

	collisions int64
	lastErr    error
}

// New constructs a Manager. instance labels this manager's metrics
// series; pass "" if you only ever run one Manager per process.
func New[S any](hash func(S) uint64, collides func(a, b S) bool, cfg treeconfig.Config, logger *zap.Logger, instance string) *Manager[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager[S]{
		cfg:      cfg,
		hash:     hash,
		collides: collides,
		logger:   logger,
		instance: instance,
		pool:     newPool[S](),
	}
	m.allocateBuckets()
	return m
}

func (m *Manager[S]) allocateBuckets() {
	m.buckets = make([]*bucket[S], m.cfg.MaxDepth+1)
	for i := range m.buckets {
		m.buckets[i] = newBucket[S](m.hash, m.collides)
	}
}

// PrepareRoot initializes or reuses the tree for a new search
// iteration. If the existing root's depth-1 best-path child matches
// currentState under the collision predicate, the tree shifts down
// one depth (root.go); otherwise it is fully reset.
//
// Grounded on node_manager_new.hpp::prepare_tree.
func (m *Manager[S]) PrepareRoot(currentState S) {
	if m.root == nil {
		m.reset(currentState)
		return
	}
	survivor := m.bestFirstParent()
	if survivor == nil || !m.collides(survivor.state, currentState) {
		m.reset(currentState)
		return
	}
	m.shiftRoot(survivor)
}

func (m *Manager[S]) reset(rootState S) {
	m.pool.reset()
	m.allocateBuckets()
	m.root = m.pool.allocate(nil)
	m.root.state = rootState
	m.buckets[0].push(m.root, 0)
	m.cursor = 0
	telemetry.AdvanceRootTotal.WithLabelValues(m.instance, "reset").Inc()
}

// GetTask returns the highest-score unsearched node at the current
// round-robin depth cursor, advancing the cursor past exhausted
// depths. If the tree is at the node limit it attempts a prune first;
// if the prune makes no progress, GetTask returns false — per
// spec.md §4.7, this is ordinarily just the caller's signal to stop
// searching this iteration, not an error. The one exception is
// ErrLimitUnderflow, set on Err and retrievable after a false return,
// the same way bufio.Scanner.Scan's false return defers to Scanner.Err:
// node_limit was exceeded with no unsearched node left in any depth,
// so prune has no leaf to keep a lineage for and the caller cannot
// make progress by retrying with the same limit.
func (m *Manager[S]) GetTask() (Task[S], bool) {
	m.lastErr = nil
	if m.pool.isAtLimit(m.cfg.NodeLimit) {
		if !m.prune() {
			return Task[S]{}, false
		}
	}

	checked := 0
	for checked < len(m.buckets) && m.buckets[m.cursor].unsearched.empty() {
		checked++
		m.cursor = (m.cursor + 1) % len(m.buckets)
	}
	if checked == len(m.buckets) {
		return Task[S]{}, false
	}

	depth := m.cursor
	n := m.buckets[depth].popUnsearched()
	return Task[S]{State: n.state, Depth: depth, node: n}, true
}

// Err returns the error that made the most recent GetTask call return
// false, or nil if it returned false for the ordinary reason (nothing
// left to search this round).
func (m *Manager[S]) Err() error { return m.lastErr }

// AdvanceCursor moves the explicit round-robin depth cursor forward
// one position. spec.md §9 resolves the "implicit vs explicit cursor
// advance" Open Question in favor of an explicit call the driver makes
// once per task round, which is what this method is for; GetTask
// itself only skips cursor positions that are already empty.
func (m *Manager[S]) AdvanceCursor() {
	m.cursor = (m.cursor + 1) % len(m.buckets)
}

// AllocateChild reserves a node parented at task's node. The caller
// writes the child's state through the returned handle's State
// pointer, then reports it with ReportChild.
func (m *Manager[S]) AllocateChild(task Task[S]) ChildHandle[S] {
	if task.Depth+1 >= len(m.buckets) {
		panic(&InvariantViolationError{Reason: "AllocateChild called on a task at max_depth; the caller must treat max_depth tasks as leaves"})
	}
	child := m.pool.allocate(task.node)
	child.linkChild(task.node)
	if m.cfg.DebugChecks {
		child.sanityCheck()
	}
	return ChildHandle[S]{Depth: task.Depth + 1, State: &child.state, node: child}
}

// ReportChild runs transposition dedup at handle.Depth; if the state
// is unique at that depth it is pushed into the unsearched queue,
// otherwise the handle's node is deallocated and the collision
// counter is incremented. ReportChild never fails loudly, per
// spec.md §7.
func (m *Manager[S]) ReportChild(handle ChildHandle[S], score float64) {
	if !m.buckets[handle.Depth].push(handle.node, score) {
		m.pool.deallocate(handle.node)
		m.collisions++
		telemetry.CollisionCount.WithLabelValues(m.instance).Inc()
	}
	telemetry.NodeCount.WithLabelValues(m.instance).Set(float64(m.pool.size()))
}

// BestNextMove returns the state of the root's child that lies on the
// path to the current best deepest leaf.
func (m *Manager[S]) BestNextMove() (S, bool) {
	best := m.bestFirstParent()
	if best == nil {
		var zero S
		return zero, false
	}
	return best.state, true
}

func (m *Manager[S]) bestFirstParent() *node[S] {
	leaf := m.bestLeaf()
	if leaf == nil {
		return nil
	}
	return leaf.firstParent()
}

// bestLeaf returns the top of the deepest non-empty unsearched
// bucket.
func (m *Manager[S]) bestLeaf() *node[S] {
	for i := len(m.buckets) - 1; i >= 0; i-- {
		if !m.buckets[i].unsearched.empty() {
			return m.buckets[i].unsearched.top().node
		}
	}
	return nil
}

func (m *Manager[S]) NodeCount() int { return m.pool.size() }

func (m *Manager[S]) SearchedCount() int {
	total := 0
	for _, b := range m.buckets {
		total += len(b.searched)
	}
	return total
}

func (m *Manager[S]) CollisionCount() int64 { return m.collisions }
