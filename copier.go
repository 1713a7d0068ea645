package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
)

const (
	defaultChunkSize = 8192 // Bytes moved per read/write cycle
	maxEmptyReads    = 100  // Consecutive (0, nil) reads tolerated before giving up
)

// Copier moves bytes from src to dst in fixed-size chunks and reports every
// chunk to a Counter. It runs on its own goroutine; the foreground only ever
// sees the counter and the completion signal.
type Copier struct {
	src       io.Reader
	dst       io.Writer
	counter   *Counter
	chunkSize int
	written   ByteCount
}

// NewCopier creates a Copier. A chunkSize of 0 or less uses the default.
func NewCopier(src io.Reader, dst io.Writer, counter *Counter, chunkSize int) *Copier {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Copier{
		src:       src,
		dst:       dst,
		counter:   counter,
		chunkSize: chunkSize,
	}
}

// Written returns the number of bytes written to dst so far. Only safe to
// call after the completion signal has fired.
func (c *Copier) Written() ByteCount {
	return c.written
}

// Run copies until end of stream, an I/O error, or ctx is cancelled.
// It returns nil on a clean end of stream.
func (c *Copier) Run(ctx context.Context) error {
	buf := make([]byte, c.chunkSize)
	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, rerr := c.src.Read(buf)
		if n > 0 {
			empty = 0
			// Bytes returned alongside an error are still delivered.
			if err := c.write(buf[:n]); err != nil {
				return err
			}
		}

		switch {
		case rerr == io.EOF:
			return nil
		case rerr != nil:
			if ctx.Err() != nil && errors.Is(rerr, os.ErrDeadlineExceeded) {
				return ctx.Err()
			}
			return &TransferError{Op: OpRead, Bytes: c.written, Err: rerr}
		case n == 0:
			empty++
			if empty >= maxEmptyReads {
				return &TransferError{Op: OpRead, Bytes: c.written, Err: io.ErrNoProgress}
			}
		}
	}
}

func (c *Copier) write(p []byte) error {
	n, err := c.dst.Write(p)
	if n > 0 {
		c.written += ByteCount(n)
		c.counter.Add(ByteCount(n))
	}
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &TransferError{Op: OpWrite, Bytes: c.written, Err: err}
	}
	return nil
}

// Start runs the copier on a new goroutine and fires done exactly once with
// its outcome.
func (c *Copier) Start(ctx context.Context, done *completion) {
	go func() {
		done.fire(c.Run(ctx))
	}()
}

// deadlineReader is implemented by sources whose blocked reads can be
// interrupted, such as pipes and terminals opened through *os.File.
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// interrupt unblocks a pending read on src if the source supports deadlines.
// It reports whether an interruption was requested.
func interrupt(src io.Reader) bool {
	d, ok := src.(deadlineReader)
	if !ok {
		return false
	}
	return d.SetReadDeadline(time.Now()) == nil
}
