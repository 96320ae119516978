package tree

// node is the tree node itself. depth is implicit: it is determined by
// which depth bucket holds the node, never stored on the node.
//
// The free list that backs deallocation threads through parent, exactly
// as NodeMemory::deallocate does in both C++ source variants this engine
// was distilled from: a freed node's parent field becomes the next
// pointer of the free list rather than a real ancestor link.
type node[S any] struct {
	parent *node[S]
	state  S
	pruned bool

	// Parallel-variant fields. Kept on every node (rather than behind a
	// second struct type) so the single-threaded and parallel managers
	// can share bucket/heap/pool code. The single-threaded manager also
	// links firstChild/nextSibling (via linkChild in AllocateChild, which
	// sanityCheck walks), but never sets laneID or accumulatedScore.
	firstChild       *node[S]
	nextSibling      *node[S]
	laneID           int
	accumulatedScore float64
}

// award adds value to the accumulatedScore of n and of each of its
// ancestors, stopping before the root (the root's own score is left
// unchanged), per the "award" method on node_manager.hpp's Node.
func (n *node[S]) award(value float64) {
	for cur := n; cur.parent != nil; cur = cur.parent {
		cur.accumulatedScore += value
	}
}

// firstParent returns the node's depth-1 ancestor: the root's direct
// child on the path to n. Returns nil if n is the root itself.
func (n *node[S]) firstParent() *node[S] {
	cur := n
	for cur.parent != nil && cur.parent.parent != nil {
		cur = cur.parent
	}
	if cur.parent == nil {
		return nil
	}
	return cur
}

// parentAt walks n steps toward the root and returns that ancestor.
//
// The original node_manager_new.hpp::get_parent_at does not decrement
// its recursion argument, which infinite-recurses for any n > 0; this
// is flagged as a bug in spec.md and fixed here with a counted loop.
func (n *node[S]) parentAt(steps int) *node[S] {
	cur := n
	for i := 0; i < steps; i++ {
		if cur.parent == nil {
			panic(&InvariantViolationError{Reason: "parentAt walked past the root"})
		}
		cur = cur.parent
	}
	return cur
}

// sanityCheck asserts that n is reachable from its parent's child list.
// Debug-only: gated behind Config.DebugChecks because it is O(fan-out)
// and is only useful while developing the allocator/linking logic, the
// same role node_manager.hpp's Node::sanity_check plays in the source.
func (n *node[S]) sanityCheck() {
	if n.parent == nil {
		return
	}
	found := false
	for c := n.parent.firstChild; c != nil; c = c.nextSibling {
		if c == n {
			found = true
			break
		}
	}
	if !found {
		panic(&InvariantViolationError{Reason: "node not found in parent's child list"})
	}
	n.parent.sanityCheck()
}

// linkChild attaches n as a child of parent, threading it into the
// intrusive sibling list. Both managers call it when allocating a
// child.
func (n *node[S]) linkChild(parent *node[S]) {
	n.parent = parent
	if parent == nil {
		return
	}
	n.nextSibling = parent.firstChild
	parent.firstChild = n
}
