package tracer

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/go-daylight/log"
)

// A Stage processes a block request using the worker's private scratch
// space.
type Stage func(blockReq *BlockRequest, scratch *Scratch) error

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *Stats

	// The work executed for each block.
	stage Stage
}

// Create a tracer that runs stage for each enqueued block on a dedicated
// go-routine.
func NewCPUTracer(id string, stage Stage) Tracer {
	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan BlockRequest),
		stats:        &Stats{},
		stage:        stage,
	}
	tr.startWorker()
	return tr
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers share the same baseline speed.
func (tr *cpuTracer) SpeedEstimate() float64 {
	return 1.0
}

// Shutdown the worker.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}

	tr.closeChan <- struct{}{}

	// wait for worker to ack close and shutdown channel
	<-tr.closeChan
	close(tr.closeChan)
	tr.closeChan = nil
	tr.wg.Wait()
}

// Enqueue block request. The call blocks until the worker picks up the
// request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Retrieve last block statistics. Stats are only safe to read after the
// block completion has been signaled.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		scratch := NewScratch()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()
				if err := tr.runStage(&blockReq, scratch); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.BlockTime = time.Since(startTime)

				tr.logger.Debugf("processed block [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.BlockTime)
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Run the stage, converting panics raised by contract violations into
// errors for the renderer.
func (tr *cpuTracer) runStage(blockReq *BlockRequest, scratch *Scratch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tracer %s: %v", tr.id, r)
		}
	}()
	return tr.stage(blockReq, scratch)
}
