package tree

import (
	"errors"
	"fmt"
)

// ErrLimitUnderflow is the error Manager.Err reports after a GetTask
// call returns false because node_limit was exceeded with no unsearched
// node left in any depth bucket: prune has no leaf to keep a lineage
// for, so no forward progress is possible at that node_limit. It is
// a sentinel in the style of cmd/longbow/config.go's
// ErrInvalidListenAddr family: check it with errors.Is.
var ErrLimitUnderflow = errors.New("tree: node_limit too low for observed fan-out")

// InvariantViolationError marks a bug: a parent went missing, a depth
// index ran out of range, or a survivor lineage could not be found.
// These always indicate a defect in the engine or in how the caller
// used a handle after it expired, never a data condition the caller
// can recover from — the manager panics with one of these rather than
// returning it, but the type is exported so a caller that wraps the
// manager in its own recover() can still inspect what failed.
//
// Modeled on client/errors.go's ErrForwardRequired / IsForwardRequired
// pair: a typed error plus a predicate, rather than a bare sentinel.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("tree: invariant violated: %s", e.Reason)
}

// IsInvariantViolation reports whether err is (or wraps) an
// InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}
