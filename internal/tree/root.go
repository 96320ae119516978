package tree

import "github.com/23skdu/beamtree/internal/telemetry"

// shiftRoot implements the "Root advancement (shift)" algorithm from
// spec.md §4.6: the caller has already identified survivor, the
// depth-1 node on the path to the current best leaf. Preconditions:
// m.buckets[0] holds exactly the root.
func (m *Manager[S]) shiftRoot(survivor *node[S]) {
	m.pool.deallocate(m.root)

	last := len(m.buckets) - 1
	for i := 0; i < last; i++ {
		m.buckets[i] = m.buckets[i+1]
	}
	m.buckets[last] = newBucket[S](m.hash, m.collides)

	m.buckets[0].filter(survivor, m.pool)
	m.buckets[0].makeRoot()
	m.root = survivor

	for i := 1; i < last; i++ {
		m.buckets[i].cleanup(m.pool)
	}

	m.cursor = 0
	telemetry.AdvanceRootTotal.WithLabelValues(m.instance, "advanced").Inc()
}
