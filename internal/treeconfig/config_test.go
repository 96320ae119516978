package treeconfig

import "testing"

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxDepth != 7 {
		t.Errorf("DefaultConfig().MaxDepth = %d, want 7", cfg.MaxDepth)
	}
	if cfg.NodeLimit != 100000 {
		t.Errorf("DefaultConfig().NodeLimit = %d, want 100000", cfg.NodeLimit)
	}
	if cfg.PruneDepthLimit != 0 {
		t.Errorf("DefaultConfig().PruneDepthLimit = %d, want 0", cfg.PruneDepthLimit)
	}
	if cfg.AwardWidth != 25 {
		t.Errorf("DefaultConfig().AwardWidth = %d, want 25", cfg.AwardWidth)
	}
	if cfg.PruneWidth != 1 {
		t.Errorf("DefaultConfig().PruneWidth = %d, want 1", cfg.PruneWidth)
	}
	if cfg.DepthTaskSize != 16 {
		t.Errorf("DefaultConfig().DepthTaskSize = %d, want 16", cfg.DepthTaskSize)
	}
	if cfg.LaneCount != 1 {
		t.Errorf("DefaultConfig().LaneCount = %d, want 1", cfg.LaneCount)
	}
}

func TestValidate_NegativeMaxDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = -1
	if err := cfg.Validate(); err != ErrInvalidMaxDepth {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidMaxDepth)
	}
}

func TestValidate_MaxDepthZeroIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with MaxDepth=0 error = %v, want nil", err)
	}
}

func TestValidate_InvalidNodeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeLimit = 0
	if err := cfg.Validate(); err != ErrInvalidNodeLimit {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidNodeLimit)
	}

	cfg.NodeLimit = -5
	if err := cfg.Validate(); err != ErrInvalidNodeLimit {
		t.Errorf("Validate() with negative NodeLimit error = %v, want %v", err, ErrInvalidNodeLimit)
	}
}

func TestValidate_InvalidAwardWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AwardWidth = 0
	if err := cfg.Validate(); err != ErrInvalidAwardWidth {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidAwardWidth)
	}
}

func TestValidate_InvalidPruneWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneWidth = 0
	if err := cfg.Validate(); err != ErrInvalidPruneWidth {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidPruneWidth)
	}
}

func TestValidate_InvalidDepthTaskSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DepthTaskSize = 0
	if err := cfg.Validate(); err != ErrInvalidDepthTaskSize {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidDepthTaskSize)
	}
}

func TestValidate_InvalidLaneCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LaneCount = 0
	if err := cfg.Validate(); err != ErrInvalidLaneCount {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidLaneCount)
	}
}

func TestLoadFromEnv_PrefixNotSetUsesDefaults(t *testing.T) {
	cfg, err := LoadFromEnv("BEAMTREE_TEST_UNSET")
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadFromEnv() with no env set = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadFromEnv_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("BEAMTREE_TEST_MAX_DEPTH", "3")
	t.Setenv("BEAMTREE_TEST_NODE_LIMIT", "42")

	cfg, err := LoadFromEnv("BEAMTREE_TEST")
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("LoadFromEnv().MaxDepth = %d, want 3", cfg.MaxDepth)
	}
	if cfg.NodeLimit != 42 {
		t.Errorf("LoadFromEnv().NodeLimit = %d, want 42", cfg.NodeLimit)
	}
}

func TestLoadFromEnv_InvalidOverrideFailsValidation(t *testing.T) {
	t.Setenv("BEAMTREE_TEST_NODE_LIMIT", "0")
	if _, err := LoadFromEnv("BEAMTREE_TEST"); err != ErrInvalidNodeLimit {
		t.Errorf("LoadFromEnv() error = %v, want %v", err, ErrInvalidNodeLimit)
	}
}
