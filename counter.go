package main

import (
	"sync"
	"sync/atomic"
)

// ByteCount is a number of bytes. 64 bits wide so multi-terabyte
// transfers never wrap.
type ByteCount uint64

// Counter accumulates bytes moved by the copier until the sampler drains it.
// Add and Drain are lock-free, so the copier never waits on the sampler.
type Counter struct {
	n atomic.Uint64
}

// Add increases the counter by n.
func (c *Counter) Add(n ByteCount) {
	c.n.Add(uint64(n))
}

// Drain returns the current value and resets the counter to zero in one step.
// Bytes added concurrently land in exactly one drain window.
func (c *Counter) Drain() ByteCount {
	return ByteCount(c.n.Swap(0))
}

// Load returns the current value without resetting it.
func (c *Counter) Load() ByteCount {
	return ByteCount(c.n.Load())
}

// completion is the one-shot handoff from the copier to the foreground.
// A nil error means end of stream was reached.
type completion struct {
	once sync.Once
	ch   chan error
}

func newCompletion() *completion {
	return &completion{ch: make(chan error, 1)}
}

// fire records the outcome. Only the first call has any effect and it never
// blocks.
func (c *completion) fire(err error) bool {
	fired := false
	c.once.Do(func() {
		c.ch <- err
		fired = true
	})
	return fired
}

// C is ready once fire has been called.
func (c *completion) C() <-chan error {
	return c.ch
}
