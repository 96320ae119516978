// Package treeconfig holds the tree manager's tunables, following the
// same struct-plus-Validate shape as cmd/longbow/config.go: a plain
// struct with envconfig tags for callers that want to source settings
// from the environment, a DefaultConfig constructor, and an explicit
// Validate that returns named sentinel errors rather than panicking.
package treeconfig

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors, in the style of cmd/longbow/config.go's
// ErrInvalidListenAddr family.
var (
	ErrInvalidMaxDepth      = errors.New("treeconfig: max_depth must be >= 0")
	ErrInvalidNodeLimit     = errors.New("treeconfig: node_limit must be > 0")
	ErrInvalidAwardWidth    = errors.New("treeconfig: award_width must be > 0")
	ErrInvalidPruneWidth    = errors.New("treeconfig: prune_width must be > 0")
	ErrInvalidDepthTaskSize = errors.New("treeconfig: depth_task_size must be > 0")
	ErrInvalidLaneCount     = errors.New("treeconfig: lane_count must be > 0")
)

// Config mirrors spec.md §4.5's TreeConfig table.
type Config struct {
	// MaxDepth is the number of expansion levels; buckets = MaxDepth+1.
	MaxDepth int `envconfig:"MAX_DEPTH" default:"7"`

	// NodeLimit is the soft cap on live node count; pruning triggers
	// once the live count goes strictly over it.
	NodeLimit int `envconfig:"NODE_LIMIT" default:"100000"`

	// PruneDepthLimit, if > 0, restricts lineage pruning to rounds
	// where the first depth holding more than one live node is <= this
	// value. 0 means
	// "uncapped" (always eligible), not "disabled" — see spec.md §9's
	// Open Question on this field.
	PruneDepthLimit int `envconfig:"PRUNE_DEPTH_LIMIT" default:"0"`

	// AwardWidth is the top-K of the deepest bucket that receive score
	// awards during parallel beam finalization.
	AwardWidth int `envconfig:"AWARD_WIDTH" default:"25"`

	// PruneWidth is the sibling survivor count at the first branching
	// depth during parallel beam finalization.
	PruneWidth int `envconfig:"PRUNE_WIDTH" default:"1"`

	// DepthTaskSize is the batch granularity per (depth, worker) pair
	// for the parallel variant's batched dispatcher.
	DepthTaskSize int `envconfig:"DEPTH_TASK_SIZE" default:"16"`

	// LaneCount is a per-worker node pool lane count for callers to
	// carry alongside the other tunables. Neither manager reads it:
	// ParallelManager takes its lane count as the argument to Reset.
	LaneCount int `envconfig:"LANE_COUNT" default:"1"`

	// DebugChecks enables the O(fan-out) sanity-check walk carried
	// forward from node_manager.hpp's Node::sanity_check. Off by
	// default; meant for development, not production search loops.
	DebugChecks bool `envconfig:"DEBUG_CHECKS" default:"false"`
}

// DefaultConfig returns a Config populated with spec.md's defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        7,
		NodeLimit:       100000,
		PruneDepthLimit: 0,
		AwardWidth:      25,
		PruneWidth:      1,
		DepthTaskSize:   16,
		LaneCount:       1,
		DebugChecks:     false,
	}
}

// Validate checks the configuration and returns the first violated
// constraint, or nil.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.NodeLimit <= 0 {
		return ErrInvalidNodeLimit
	}
	if c.AwardWidth <= 0 {
		return ErrInvalidAwardWidth
	}
	if c.PruneWidth <= 0 {
		return ErrInvalidPruneWidth
	}
	if c.DepthTaskSize <= 0 {
		return ErrInvalidDepthTaskSize
	}
	if c.LaneCount <= 0 {
		return ErrInvalidLaneCount
	}
	return nil
}

// LoadFromEnv loads a Config from environment variables prefixed with
// prefix (e.g. "BEAMTREE_MAX_DEPTH"), starting from DefaultConfig for
// any unset field. It is pure ergonomics for a host process that wants
// to tune the search loop without recompiling — the engine itself
// takes no environment variables per spec.md §6.
//
// If a .env file is present in the working directory it is loaded
// first via godotenv, mirroring the teacher's local-dev workflow
// (joho/godotenv is in its go.mod alongside envconfig).
func LoadFromEnv(prefix string) (Config, error) {
	_ = godotenv.Load() // optional: absence of .env is not an error

	cfg := DefaultConfig()
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("treeconfig: loading from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
