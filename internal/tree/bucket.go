package tree

// nodeValue pairs a node with the score it was pushed with, the Go
// shape of node_manager.hpp's NodeValue. Score is a separate field
// rather than reading node.accumulatedScore because the single-
// threaded variant's unsearched queue orders by the evaluator's raw
// score, not by an accumulated award total.
type nodeValue[S any] struct {
	node  *node[S]
	score float64
}

// bucket is a depth bucket: the per-level pair of (unsearched
// max-heap, searched list) plus the depth-scoped transposition index,
// per spec.md §3/§4.3. Node_manager_new.hpp's NodeDepth is the direct
// source.
type bucket[S any] struct {
	unsearched *heap[nodeValue[S]]
	searched   []*node[S]
	tt         *transpositionTable[S]
}

func newBucket[S any](hash func(S) uint64, collides func(a, b S) bool) *bucket[S] {
	return &bucket[S]{
		unsearched: newHeap(func(a, b nodeValue[S]) bool { return a.score > b.score }),
		tt:         newTranspositionTable[S](hash, collides),
	}
}

// push inserts node into unsearched, deduplicating against the depth's
// transposition table first. Returns false if node was a duplicate
// (and was not inserted).
func (b *bucket[S]) push(n *node[S], score float64) bool {
	if b.tt.insert(n) {
		return false
	}
	b.unsearched.push(nodeValue[S]{node: n, score: score})
	return true
}

// popUnsearched removes the highest-score node, appends it to
// searched, and returns it.
func (b *bucket[S]) popUnsearched() *node[S] {
	nv := b.unsearched.pop()
	b.searched = append(b.searched, nv.node)
	return nv.node
}

func (b *bucket[S]) size() int {
	return b.unsearched.size() + len(b.searched)
}

func (b *bucket[S]) empty() bool {
	return b.unsearched.empty() && len(b.searched) == 0
}

// makeRoot clears the parent link of the bucket's single node,
// promoting it to root. Precondition: the bucket holds exactly one
// node.
func (b *bucket[S]) makeRoot() {
	if b.size() != 1 {
		panic(&InvariantViolationError{Reason: "makeRoot requires exactly one node in the bucket"})
	}
	if len(b.searched) == 1 {
		b.searched[0].parent = nil
		return
	}
	nv := b.unsearched.top()
	nv.node.parent = nil
}

// cleanup sweeps both unsearched and searched, dropping any node that
// is itself already pruned (a direct target of an earlier deallocate,
// still dangling in this container) and deallocating any orphan (a
// node whose parent is pruned, but who has not yet been freed itself)
// via pool. Uses the export/filter/import pattern from
// original_source/priority_queue.hpp to avoid an O(n log n) rebuild.
//
// The self-pruned case is node_manager_new.hpp's is_pruned() check
// (a direct deallocate target left sitting in its own bucket); the
// parent-pruned case lets a single shallow-to-deep sweep cascade
// through descendants, since each depth's pruned flags land before
// the next depth's cleanup call runs.
func (b *bucket[S]) cleanup(p deallocator[S]) {
	shouldDrop := func(n *node[S]) bool {
		return n.pruned || (n.parent != nil && n.parent.pruned)
	}

	data := b.unsearched.export()
	kept := data[:0]
	for _, nv := range data {
		if !shouldDrop(nv.node) {
			kept = append(kept, nv)
			continue
		}
		if !nv.node.pruned {
			p.deallocate(nv.node)
		}
	}
	b.unsearched.importSlice(kept)

	searchedKept := b.searched[:0]
	for _, n := range b.searched {
		if !shouldDrop(n) {
			searchedKept = append(searchedKept, n)
			continue
		}
		if !n.pruned {
			p.deallocate(n)
		}
	}
	b.searched = searchedKept

	b.tt.removeOrphans(func(n *node[S]) bool { return !n.pruned })
}

// filter keeps only survivor, deallocating every other node in the
// bucket via pool. Used at the head of a prune or root-advance cycle.
func (b *bucket[S]) filter(survivor *node[S], p deallocator[S]) {
	data := b.unsearched.export()
	kept := data[:0]
	for _, nv := range data {
		if nv.node != survivor {
			p.deallocate(nv.node)
		} else {
			kept = append(kept, nv)
		}
	}
	b.unsearched.importSlice(kept)

	searchedKept := b.searched[:0]
	for _, n := range b.searched {
		if n != survivor {
			p.deallocate(n)
		} else {
			searchedKept = append(searchedKept, n)
		}
	}
	b.searched = searchedKept

	b.tt.removeOrphans(func(n *node[S]) bool { return n == survivor })
}

func (b *bucket[S]) clear() {
	b.unsearched.clear()
	b.searched = b.searched[:0]
	b.tt.clear()
}
