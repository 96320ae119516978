package tree

import "testing"

// FuzzTranspositionTable_InsertRespectsCollisionPredicate hammers the
// table with a hash function collapsed to a small bucket space (far
// fewer buckets than possible states, guaranteeing frequent hash
// collisions) and checks that insert's reported duplicate-ness always
// agrees with the collision predicate, never the raw hash.
func FuzzTranspositionTable_InsertRespectsCollisionPredicate(f *testing.F) {
	f.Add(1, 2)
	f.Add(5, 5)
	f.Add(-3, 3)
	f.Add(0, 0)

	f.Fuzz(func(t *testing.T, a, b int) {
		narrowHash := func(s int) uint64 { return uint64(uint32(s)) % 4 }
		tt := newTranspositionTable(narrowHash, intCollides)

		n1 := &node[int]{state: a}
		firstDup := tt.insert(n1)
		if firstDup {
			t.Fatalf("insert on an empty table reported a duplicate for state %d", a)
		}

		n2 := &node[int]{state: b}
		secondDup := tt.insert(n2)
		wantDup := intCollides(a, b)
		if secondDup != wantDup {
			t.Fatalf("insert(%d) after insert(%d): got duplicate=%v, want %v (narrowHash(%d)=%d, narrowHash(%d)=%d)",
				b, a, secondDup, wantDup, a, narrowHash(a), b, narrowHash(b))
		}
	})
}

// FuzzTranspositionTable_RemoveOrphansNeverDropsLiveNodes inserts a
// batch of nodes under a narrow hash space, prunes a pseudo-random
// subset, and checks that removeOrphans drops exactly the pruned ones
// and nothing else.
func FuzzTranspositionTable_RemoveOrphansNeverDropsLiveNodes(f *testing.F) {
	f.Add(uint8(0b1010))
	f.Add(uint8(0b0000))
	f.Add(uint8(0b1111))

	f.Fuzz(func(t *testing.T, pruneMask uint8) {
		narrowHash := func(s int) uint64 { return uint64(s) % 3 }
		tt := newTranspositionTable(narrowHash, intCollides)

		nodes := make([]*node[int], 8)
		for i := range nodes {
			nodes[i] = &node[int]{state: i}
			if tt.insert(nodes[i]) {
				t.Fatalf("insert(%d) unexpectedly reported a duplicate among distinct states", i)
			}
		}

		for i, n := range nodes {
			if pruneMask&(1<<uint(i)) != 0 {
				n.pruned = true
			}
		}

		tt.removeOrphans(func(n *node[int]) bool { return !n.pruned })

		for i, n := range nodes {
			probe := &node[int]{state: i}
			stillTracked := tt.insert(probe)
			if n.pruned && stillTracked {
				t.Fatalf("state %d was pruned but removeOrphans left it tracked", i)
			}
			if !n.pruned && !stillTracked {
				t.Fatalf("state %d was live but removeOrphans dropped it", i)
			}
		}
	})
}
