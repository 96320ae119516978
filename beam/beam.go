// Package beam is the public entry point for the beam search tree
// engine: a thin generic wrapper around internal/tree, the same
// relationship client/client.go has to internal/store in the teacher
// repo this module was built from. Callers should only ever import
// this package, not internal/tree directly.
package beam

import (
	"go.uber.org/zap"

	"github.com/23skdu/beamtree/internal/tree"
	"github.com/23skdu/beamtree/internal/treeconfig"
)

// Config is the tree manager's tunables. See treeconfig.Config for
// field-by-field documentation and defaults.
type Config = treeconfig.Config

// DefaultConfig returns a Config populated with this engine's
// defaults (max_depth=7, node_limit=100000, award_width=25,
// prune_width=1, depth_task_size=16, lane_count=1).
func DefaultConfig() Config { return treeconfig.DefaultConfig() }

// LoadConfigFromEnv loads a Config from environment variables
// prefixed with prefix. Optional ergonomics for a host process; the
// engine itself never reads the environment.
func LoadConfigFromEnv(prefix string) (Config, error) { return treeconfig.LoadFromEnv(prefix) }

// ErrLimitUnderflow is the error Manager.Err reports when node_limit
// is too low for the state's fan-out.
var ErrLimitUnderflow = tree.ErrLimitUnderflow

// IsInvariantViolation reports whether a recovered panic value (or
// wrapped error) is an internal invariant violation rather than a
// data condition the caller can act on.
func IsInvariantViolation(err error) bool { return tree.IsInvariantViolation(err) }

// HashBytes and HashString are ready-made Hash implementations for
// byte-serializable states.
func HashBytes(b []byte) uint64 { return tree.HashBytes(b) }
func HashString(s string) uint64 { return tree.HashString(s) }

// Task is a unit of work returned by Manager.GetTask or within a
// DepthBatch: the parent node's state and depth to expand.
type Task[S any] = tree.Task[S]

// ChildHandle is returned by Manager.AllocateChild. The caller writes
// the child's state through it, then reports it with ReportChild. A
// handle is valid only until the matching ReportChild call.
type ChildHandle[S any] = tree.ChildHandle[S]

// DepthBatch and WorkerBatch group tasks returned by
// ParallelManager.GetTaskBatches.
type DepthBatch[S any] = tree.DepthBatch[S]
type WorkerBatch[S any] = tree.WorkerBatch[S]

// Manager is the single-threaded best-first beam search tree manager.
// S is the caller's search state type; hash and collides are the
// caller-supplied hashing and equality functions spec.md §6 requires.
type Manager[S any] struct {
	inner *tree.Manager[S]
}

// New constructs a Manager. instance labels this manager's metrics
// series; pass "" if only one Manager runs per process.
func New[S any](hash func(S) uint64, collides func(a, b S) bool, cfg Config, logger *zap.Logger, instance string) *Manager[S] {
	return &Manager[S]{inner: tree.New[S](hash, collides, cfg, logger, instance)}
}

func (m *Manager[S]) PrepareRoot(currentState S)   { m.inner.PrepareRoot(currentState) }
func (m *Manager[S]) GetTask() (Task[S], bool)     { return m.inner.GetTask() }
func (m *Manager[S]) Err() error                   { return m.inner.Err() }
func (m *Manager[S]) AdvanceCursor()               { m.inner.AdvanceCursor() }
func (m *Manager[S]) AllocateChild(t Task[S]) ChildHandle[S] {
	return m.inner.AllocateChild(t)
}
func (m *Manager[S]) ReportChild(h ChildHandle[S], score float64) { m.inner.ReportChild(h, score) }
func (m *Manager[S]) BestNextMove() (S, bool)                     { return m.inner.BestNextMove() }
func (m *Manager[S]) NodeCount() int                              { return m.inner.NodeCount() }
func (m *Manager[S]) SearchedCount() int                          { return m.inner.SearchedCount() }
func (m *Manager[S]) CollisionCount() int64                       { return m.inner.CollisionCount() }

// ParallelManager is the lane-pooled, sibling-linked beam search tree
// manager: the same contract as Manager, plus batched dispatch,
// explicit root advancement, and beam finalization.
type ParallelManager[S any] struct {
	inner *tree.ParallelManager[S]
}

// NewParallel constructs a ParallelManager.
func NewParallel[S any](hash func(S) uint64, collides func(a, b S) bool, cfg Config, logger *zap.Logger, instance string) *ParallelManager[S] {
	return &ParallelManager[S]{inner: tree.NewParallel[S](hash, collides, cfg, logger, instance)}
}

func (m *ParallelManager[S]) Reset(rootState S, laneCount int) { m.inner.Reset(rootState, laneCount) }
func (m *ParallelManager[S]) IsSearchComplete() bool           { return m.inner.IsSearchComplete() }
func (m *ParallelManager[S]) IsReleasable() bool               { return m.inner.IsReleasable() }
func (m *ParallelManager[S]) GetTaskBatches() []WorkerBatch[S] { return m.inner.GetTaskBatches() }
func (m *ParallelManager[S]) AllocateChild(laneID int, t Task[S]) ChildHandle[S] {
	return m.inner.AllocateChild(laneID, t)
}
func (m *ParallelManager[S]) ReportChild(h ChildHandle[S], score float64) {
	m.inner.ReportChild(h, score)
}
func (m *ParallelManager[S]) AdvanceRoot() bool       { return m.inner.AdvanceRoot() }
func (m *ParallelManager[S]) Finalize()               { m.inner.Finalize() }
func (m *ParallelManager[S]) BestNextMove() (S, bool) { return m.inner.BestNextMove() }
func (m *ParallelManager[S]) LaneImbalance() int      { return m.inner.LaneImbalance() }
func (m *ParallelManager[S]) NodeCount() int          { return m.inner.NodeCount() }
func (m *ParallelManager[S]) SearchedCount() int      { return m.inner.SearchedCount() }
func (m *ParallelManager[S]) CollisionCount() int64   { return m.inner.CollisionCount() }
