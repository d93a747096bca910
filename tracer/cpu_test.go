package tracer

import (
	"strings"
	"testing"
)

func TestCPUTracer(t *testing.T) {
	var seen []int
	tr := NewCPUTracer("cpu-0", func(blockReq *BlockRequest, scratch *Scratch) error {
		if scratch == nil || scratch.stack == nil {
			t.Error("expected worker scratch space")
		}
		for row := blockReq.BlockY; row < blockReq.BlockY+blockReq.BlockH; row++ {
			seen = append(seen, row)
		}
		return nil
	})
	defer tr.Close()

	doneChan := make(chan int, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{BlockY: 3, BlockH: 4, DoneChan: doneChan, ErrChan: errChan})

	select {
	case rows := <-doneChan:
		if rows != 4 {
			t.Fatalf("expected 4 completed rows; got %d", rows)
		}
	case err := <-errChan:
		t.Fatal(err)
	}

	if len(seen) != 4 || seen[0] != 3 || seen[3] != 6 {
		t.Fatalf("expected rows 3-6 to be processed; got %v", seen)
	}
	if stats := tr.Stats(); stats.BlockH != 4 || stats.BlockTime < 0 {
		t.Fatalf("expected stats for a 4 row block; got %+v", *stats)
	}
}

func TestCPUTracerPanic(t *testing.T) {
	tr := NewCPUTracer("cpu-1", func(*BlockRequest, *Scratch) error {
		panic("contract violation")
	})
	defer tr.Close()

	doneChan := make(chan int, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{BlockH: 1, DoneChan: doneChan, ErrChan: errChan})

	select {
	case <-doneChan:
		t.Fatal("expected block to fail")
	case err := <-errChan:
		if !strings.Contains(err.Error(), "contract violation") {
			t.Fatalf("expected error to mention the panic; got %v", err)
		}
	}
}
