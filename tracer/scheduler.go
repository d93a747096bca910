package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list.
	Schedule(tracers []Tracer, frameH int) []int
}

// The naive scheduler splits rows according to the speed estimate of each
// tracer.
type naiveScheduler struct{}

func NewNaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(tracers []Tracer, frameH int) []int {
	return assignBySpeed(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []int
}

// Create a new perfect scheduler instance
func NewPerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH int) []int {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = assignBySpeed(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics
	speeds := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		blockTime := math.Max(1, float64(stats.BlockTime))
		speeds[idx] = float64(stats.BlockH) / blockTime
	}
	sch.blockAssignment = distribute(speeds, frameH)
	return sch.blockAssignment
}

func assignBySpeed(tracers []Tracer, frameH int) []int {
	speeds := make([]float64, len(tracers))
	for idx, tr := range tracers {
		speeds[idx] = tr.SpeedEstimate()
	}
	return distribute(speeds, frameH)
}

// Split frameH rows proportionally to the given weights. Every tracer gets
// at least one row when there are enough rows to go around; leftover rows
// are appended to the first tracer.
func distribute(weights []float64, frameH int) []int {
	assignment := make([]int, len(weights))
	if len(weights) == 0 {
		return assignment
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if !(total > 0) {
		for idx := range weights {
			weights[idx] = 1
		}
		total = float64(len(weights))
	}

	scaler := float64(frameH) / total
	scheduledRows := 0
	for idx, w := range weights {
		assignment[idx] = int(math.Max(1.0, math.Floor(w*scaler)))
		scheduledRows += assignment[idx]
	}

	// Take back rows from the end of the list if the minimum assignment
	// exceeds the frame height.
	for idx := len(assignment) - 1; scheduledRows > frameH && idx >= 0; idx-- {
		take := assignment[idx]
		if over := scheduledRows - frameH; take > over {
			take = over
		}
		assignment[idx] -= take
		scheduledRows -= take
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	assignment[0] += frameH - scheduledRows
	return assignment
}
