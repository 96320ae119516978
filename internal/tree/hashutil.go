package tree

import "github.com/cespare/xxhash/v2"

// HashBytes and HashString are ready-made Hash implementations for
// callers whose state is byte-serializable. The engine itself treats
// hash as an opaque caller-supplied function (spec.md §6); these exist
// only because most states the engine searches over (board encodings,
// candidate strings) are naturally byte-serializable, and xxhash is
// already in the dependency graph transitively via the teacher's
// ristretto dependency and directly via DaemonDB in the example pack.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
