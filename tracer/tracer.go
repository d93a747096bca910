package tracer

import (
	"time"

	"github.com/achilleasa/go-daylight/bvh"
)

// A unit of work that is processed by a tracer: a range of image rows or a
// range of sensors.
type BlockRequest struct {
	// Block start row and height.
	BlockY int
	BlockH int

	// Index of the progressive pass this block belongs to.
	Pass int

	// The number of samples per pixel to trace in this pass.
	SamplesPerPixel int

	// Seed for the per-row random number generators.
	Seed uint64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- int

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH int

	// The time for rendering this block
	BlockTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline implementation.
	SpeedEstimate() float64

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}

// Per-worker scratch space. A Scratch must not be shared between goroutines.
type Scratch struct {
	stack *bvh.Stack
}

func NewScratch() *Scratch {
	return &Scratch{stack: bvh.NewStack()}
}
