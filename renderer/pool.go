package renderer

import (
	"fmt"
	"runtime"

	"github.com/achilleasa/go-daylight/tracer"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Resolve the number of tracers to spawn. Zero selects one tracer per
// logical cpu.
func workerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		logger.Warningf("could not detect cpu count (%v); falling back to the go runtime", err)
		return runtime.NumCPU()
	}
	return count
}

// Number of tracers spawned when Workers is zero.
func DefaultWorkers() int {
	return workerCount(0)
}

type tracerPool []tracer.Tracer

func newTracerPool(workers int, stage tracer.Stage) tracerPool {
	pool := make(tracerPool, workerCount(workers))
	for idx := range pool {
		pool[idx] = tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", idx), stage)
	}
	return pool
}

func (pool tracerPool) Close() {
	for _, tr := range pool {
		tr.Close()
	}
}

// Split frameH rows into blocks according to blockAssignment and wait for
// all tracers to complete their blocks.
func (pool tracerPool) runPass(blockAssignment []int, pass, spp int, seed uint64) error {
	doneChan := make(chan int, len(pool))
	errChan := make(chan error, len(pool))

	blockY := 0
	pending := 0
	for idx, tr := range pool {
		blockH := blockAssignment[idx]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			Pass:            pass,
			SamplesPerPixel: spp,
			Seed:            seed,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockH
		pending++
	}

	var err error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	return err
}

// Collect the per-tracer stats for the last pass.
func (pool tracerPool) stats(blockAssignment []int, frameH int) []TracerStat {
	out := make([]TracerStat, len(pool))
	for idx, tr := range pool {
		out[idx] = TracerStat{
			Id:           tr.Id(),
			BlockH:       blockAssignment[idx],
			FramePercent: 100 * float32(blockAssignment[idx]) / float32(frameH),
		}
		if blockAssignment[idx] > 0 {
			out[idx].RenderTime = tr.Stats().BlockTime
		}
	}
	return out
}
