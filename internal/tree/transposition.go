package tree

// transpositionTable is the per-depth dedup index described in
// spec.md §4.4: a map from 64-bit hash to a bucket of nodes at that
// depth, with a linear scan under the caller's collision predicate to
// tell a true duplicate from a hash collision. One table exists per
// depth bucket deliberately — identical states reached at different
// depths are distinct search contexts, the per-depth-vs-global
// decision spec.md §4.4 and §9 make explicit.
//
// Grounded on node_manager.hpp's
// unordered_map<uint64_t, std::vector<Node*>> transposition_table.
type transpositionTable[S any] struct {
	hash     func(S) uint64
	collides func(a, b S) bool
	buckets  map[uint64][]*node[S]
}

func newTranspositionTable[S any](hash func(S) uint64, collides func(a, b S) bool) *transpositionTable[S] {
	return &transpositionTable[S]{
		hash:     hash,
		collides: collides,
		buckets:  make(map[uint64][]*node[S]),
	}
}

// insert records n under its state's hash. Returns true if n was a
// duplicate of an already-present node (and was therefore not
// recorded) so the caller can decide whether to keep or discard n.
func (t *transpositionTable[S]) insert(n *node[S]) (duplicate bool) {
	h := t.hash(n.state)
	bucket := t.buckets[h]
	for _, existing := range bucket {
		if t.collides(existing.state, n.state) {
			return true
		}
	}
	t.buckets[h] = append(bucket, n)
	return false
}

// removeOrphans drops every node whose liveness fails isLive from
// every hash bucket, and drops now-empty buckets entirely. Used by
// bucket.cleanup.
func (t *transpositionTable[S]) removeOrphans(isLive func(*node[S]) bool) {
	for h, bucket := range t.buckets {
		kept := bucket[:0]
		for _, n := range bucket {
			if isLive(n) {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(t.buckets, h)
		} else {
			t.buckets[h] = kept
		}
	}
}

func (t *transpositionTable[S]) clear() {
	t.buckets = make(map[uint64][]*node[S])
}
