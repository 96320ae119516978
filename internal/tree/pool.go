package tree

// segmentSize is the slab chunk size: 256 node slots per segment, a
// modest slab (a node is a handful of words), well above the 64-byte
// bucket floor the teacher uses for byte buffers in
// internal/store/pooled_allocator.go.
const segmentSize = 256

// pool is an append-only segmented slab of node slots with a free
// list, the Go analogue of the std::deque<Node> backing store in both
// original_source/node_manager.hpp and node_manager_new.hpp.
//
// Segments are fixed-size arrays allocated once and never moved, so a
// *node[S] handed out by allocate stays valid for the pool's entire
// lifetime — a plain growable []node[S] would violate this the moment
// append triggers a reallocation and relocates every existing node.
type pool[S any] struct {
	segments  [][]node[S]
	next      int // next free slot within segments[len-1], before appending a new segment
	freeHead  *node[S]
	freeCount int
}

func newPool[S any]() *pool[S] {
	return &pool[S]{}
}

// allocate returns a fresh node parented at parent, reusing a freed
// slot if one is available; otherwise it grows the slab.
func (p *pool[S]) allocate(parent *node[S]) *node[S] {
	n := p.allocateRaw()
	*n = node[S]{parent: parent}
	return n
}

func (p *pool[S]) allocateRaw() *node[S] {
	if p.freeHead != nil {
		n := p.freeHead
		p.freeHead = n.parent
		p.freeCount--
		return n
	}
	if len(p.segments) == 0 || p.next == len(p.segments[len(p.segments)-1]) {
		p.segments = append(p.segments, make([]node[S], segmentSize))
		p.next = 0
	}
	seg := p.segments[len(p.segments)-1]
	n := &seg[p.next]
	p.next++
	return n
}

// deallocate marks node pruned and threads it into the free list via
// its parent field, per spec.md §9's "free list threaded through
// parent" design note.
func (p *pool[S]) deallocate(n *node[S]) {
	n.pruned = true
	n.parent = p.freeHead
	n.firstChild = nil
	n.nextSibling = nil
	p.freeHead = n
	p.freeCount++
}

// size returns the number of live (non-free) slots.
func (p *pool[S]) size() int {
	return p.carvedCount() - p.freeCount
}

// carvedCount returns the number of node slots ever carved out of
// segments via allocateRaw's growth path — segments[len-1]'s unused
// tail past next is capacity, not a carved slot, and must not be
// counted as live or free.
func (p *pool[S]) carvedCount() int {
	if len(p.segments) == 0 {
		return 0
	}
	return (len(p.segments)-1)*segmentSize + p.next
}

func (p *pool[S]) remaining() int {
	return p.freeCount
}

// isAtLimit reports whether the pool has gone strictly over limit.
// node_limit is a *soft* cap (spec.md §4.5): a pool sitting exactly at
// the limit (e.g. just the root, with node_limit == 1) must still be
// able to hand out that one pending node as a task, or no search could
// ever start at a tight limit. Pruning only needs to kick in once the
// cap has actually been exceeded.
func (p *pool[S]) isAtLimit(limit int) bool {
	return p.size() > limit
}

// reset marks every carved slot free without releasing the underlying
// slabs or touching next/segments, for amortized fast re-use across
// search iterations (spec.md §5, "prepare_root may keep [pools] hot
// via reset"). Only slots actually carved by allocateRaw are threaded
// onto the free list; an unfilled tail past next in the last segment
// is untouched capacity, not a slot to free.
func (p *pool[S]) reset() {
	p.freeHead = nil
	p.freeCount = 0
	remaining := p.carvedCount()
	var prev *node[S]
	for _, seg := range p.segments {
		n := len(seg)
		if n > remaining {
			n = remaining
		}
		for i := 0; i < n; i++ {
			seg[i] = node[S]{}
			if prev != nil {
				prev.parent = &seg[i]
			} else {
				p.freeHead = &seg[i]
			}
			prev = &seg[i]
		}
		remaining -= n
		p.freeCount += n
		if remaining == 0 {
			break
		}
	}
}
