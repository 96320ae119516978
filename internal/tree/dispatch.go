package tree

import "math"

// DepthBatch groups the tasks pulled from one depth bucket for a
// single worker.
type DepthBatch[S any] struct {
	Depth int
	Tasks []Task[S]
}

// WorkerBatch is everything one worker lane should expand this round.
// Workers with no work are trimmed out of the slice GetTaskBatches
// returns, so a batch's position is not its lane; LaneID carries the
// lane identity, since callers index lanes by ID.
type WorkerBatch[S any] struct {
	LaneID int
	Depths []DepthBatch[S]
}

// GetTaskBatches walks depths shallow-to-deep, pulling up to
// DepthTaskSize nodes per (lane, depth) pair and assigning lanes by
// the score free_capacity(lane) - assigned_tasks(lane), so lanes with
// more headroom take more work. The deepest bucket is reserved for
// Finalize and never dispatched here.
//
// Grounded on node_manager.hpp::get_tasks.
func (m *ParallelManager[S]) GetTaskBatches() []WorkerBatch[S] {
	laneCount := len(m.lanes.lanes)
	batches := make([]WorkerBatch[S], laneCount)
	for i := range batches {
		batches[i].LaneID = i
	}

	freeCounts := m.lanes.freeCounts()
	taskCounts := make([]int, laneCount)

	bestFreeLane := func() int {
		best, bestFree := 0, math.MinInt
		for lane, fc := range freeCounts {
			if fc > bestFree {
				bestFree, best = fc, lane
			}
		}
		return best
	}
	bestScoredLane := func() int {
		best := 0
		bestScore := math.Inf(-1)
		for lane := range batches {
			score := float64(freeCounts[lane] - taskCounts[lane])
			if score > bestScore {
				bestScore, best = score, lane
			}
		}
		return best
	}

	currentLane := bestFreeLane()
	dispatchableDepths := len(m.buckets) - 1 // last depth is finalization only
	for depth := 0; depth < dispatchableDepths; depth++ {
		b := m.buckets[depth]
		if b.unsearched.empty() {
			continue
		}

		added := 0
		for !b.unsearched.empty() && added < m.cfg.DepthTaskSize {
			n := b.popUnsearched()
			appendTask(&batches[currentLane], depth, Task[S]{State: n.state, Depth: depth, node: n})
			added++
			taskCounts[currentLane]++
		}

		if taskCounts[currentLane] >= m.cfg.DepthTaskSize {
			currentLane = bestScoredLane()
		}
	}

	trimmed := batches[:0]
	for _, wb := range batches {
		if len(wb.Depths) > 0 {
			trimmed = append(trimmed, wb)
		}
	}
	return trimmed
}

func appendTask[S any](wb *WorkerBatch[S], depth int, t Task[S]) {
	if len(wb.Depths) == 0 || wb.Depths[len(wb.Depths)-1].Depth != depth {
		wb.Depths = append(wb.Depths, DepthBatch[S]{Depth: depth})
	}
	last := &wb.Depths[len(wb.Depths)-1]
	last.Tasks = append(last.Tasks, t)
}
