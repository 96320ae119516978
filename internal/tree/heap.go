package tree

// heap is a conventional binary heap over a contiguous backing slice,
// parameterized by a less function so the same type serves both the
// descending-score unsearched queue of a depth bucket and the
// ascending-accumulated-score prune-candidate queue of beam
// finalization (NodeValueCompare and NodePruneCompare in
// node_manager.hpp are the same shape, just opposite orderings).
//
// Modeled on the teacher's hand-rolled internal/store/arrow_heap.go
// and arrow_maxheap.go: no container/heap interface, just bubbleUp/
// bubbleDown over a slice, because the export/import pair below needs
// direct access to the backing slice that container/heap's interface
// would hide behind Push/Pop allocations.
type heap[T any] struct {
	items []T
	less  func(a, b T) bool
}

// newHeap creates an empty heap ordered by less: less(a, b) == true
// means a must end up closer to the root than b.
func newHeap[T any](less func(a, b T) bool) *heap[T] {
	return &heap[T]{less: less}
}

// reserve pre-sizes the backing storage.
func (h *heap[T]) reserve(n int) {
	if cap(h.items) >= n {
		return
	}
	grown := make([]T, len(h.items), n)
	copy(grown, h.items)
	h.items = grown
}

func (h *heap[T]) size() int   { return len(h.items) }
func (h *heap[T]) empty() bool { return len(h.items) == 0 }

func (h *heap[T]) clear() {
	h.items = h.items[:0]
}

// top returns the root element without removing it. Panics if empty;
// callers are expected to check empty()/size() first, matching the
// undefined-behavior-on-empty-top contract of std::priority_queue that
// original_source/priority_queue.hpp inherits.
func (h *heap[T]) top() T {
	return h.items[0]
}

func (h *heap[T]) push(v T) {
	h.items = append(h.items, v)
	h.bubbleUp(len(h.items) - 1)
}

func (h *heap[T]) pop() T {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if last > 0 {
		h.bubbleDown(0)
	}
	return top
}

// export moves the backing slice out, leaving the heap empty. Paired
// with importSlice, this lets a caller filter the backing storage in
// place and reheapify in one linear pass instead of paying
// O(n log n) for n individual push calls — the same trick as
// PriorityQueue::export_container/import_container.
func (h *heap[T]) export() []T {
	out := h.items
	h.items = nil
	return out
}

// importSlice takes ownership of items and re-heapifies it in linear
// time (bottom-up heap construction).
func (h *heap[T]) importSlice(items []T) {
	h.items = items
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.bubbleDown(i)
	}
}

func (h *heap[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *heap[T]) bubbleDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		best := i
		if left < n && h.less(h.items[left], h.items[best]) {
			best = left
		}
		if right < n && h.less(h.items[right], h.items[best]) {
			best = right
		}
		if best == i {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
