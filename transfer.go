package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Timing
const (
	defaultInterval = time.Second            // How often the counter is drained
	copierExitWait  = 500 * time.Millisecond // Max time to wait for an interrupted copier
)

// State is where a transfer is in its lifecycle.
type State int

const (
	StateRunning   State = iota // Copier active, sampler sampling
	StateDraining               // Copier finished, final sample pending
	StateDone                   // End of stream reached and reported
	StateFailed                 // An I/O error ended the transfer
	StateCancelled              // The caller's context ended the transfer
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a transfer.
type Options struct {
	Interval  time.Duration   // Sample interval (0 = defaultInterval)
	ChunkSize int             // Copier chunk size (0 = defaultChunkSize)
	Size      ByteCount       // Expected size for percent and ETA (0 = unknown)
	Logger    *zerolog.Logger // Debug log, status output never goes here (nil = disabled)
}

// Result summarises a finished transfer.
type Result struct {
	State   State
	Total   ByteCount // Bytes reported by the sampler, equal to bytes written once drained
	Elapsed time.Duration
	Samples int // Intermediate samples rendered, excluding the final one
}

// sampler owns the foreground side of a transfer: the running total and the
// time of the previous drain.
type sampler struct {
	counter *Counter
	size    ByteCount
	start   time.Time
	last    time.Time
	total   ByteCount
}

func (s *sampler) take(now time.Time, final bool) Sample {
	delta := s.counter.Drain()
	s.total += delta
	sample := newSample(now.Sub(s.start), now.Sub(s.last), delta, s.total, s.size)
	sample.Final = final
	s.last = now
	return sample
}

// Transfer copies src to dst on a background goroutine while the calling
// goroutine samples progress every opts.Interval and hands each sample to r.
//
// It returns once the copier reaches end of stream (StateDone), an I/O or
// status write error occurs (StateFailed, *TransferError), or ctx is done
// (StateCancelled). The bytes already in dst are always a correctly ordered
// prefix of src.
func Transfer(ctx context.Context, src io.Reader, dst io.Writer, r Renderer, opts Options) (Result, error) {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	copyCtx, stopCopy := context.WithCancel(ctx)
	defer stopCopy()

	counter := &Counter{}
	done := newCompletion()
	copier := NewCopier(src, dst, counter, opts.ChunkSize)

	now := time.Now()
	smp := &sampler{counter: counter, size: opts.Size, start: now, last: now}
	res := Result{State: StateRunning}
	result := func(state State) Result {
		res.State = state
		res.Total = smp.total
		res.Elapsed = time.Since(smp.start)
		log.Debug().
			Str("state", state.String()).
			Uint64("total", uint64(res.Total)).
			Dur("elapsed", res.Elapsed).
			Int("samples", res.Samples).
			Msg("transfer finished")
		return res
	}

	log.Info().
		Int("chunk_size", copier.chunkSize).
		Dur("interval", opts.Interval).
		Uint64("size", uint64(opts.Size)).
		Msg("transfer started")

	copier.Start(copyCtx, done)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done.C():
			res.State = StateDraining
			final := smp.take(time.Now(), true)
			rerr := r.Finish(final)
			if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return result(StateCancelled), fmt.Errorf("cancelled after %d bytes: %w", smp.total, err)
			}
			if err != nil {
				log.Error().Err(err).Uint64("written", uint64(copier.Written())).Msg("copy failed")
				return result(StateFailed), err
			}
			if rerr != nil {
				return result(StateFailed), &TransferError{Op: OpStatus, Bytes: smp.total, Err: rerr}
			}
			return result(StateDone), nil

		case now := <-ticker.C:
			s := smp.take(now, false)
			log.Debug().
				Uint64("delta", uint64(s.Delta)).
				Uint64("total", uint64(s.Total)).
				Uint64("rate_mb", uint64(s.RateMB())).
				Msg("sample")
			if err := r.Update(s); err != nil {
				stopCopy()
				interrupt(src)
				waitWithTimeout(done, copierExitWait)
				smp.take(time.Now(), true)
				log.Error().Err(err).Msg("status write failed")
				return result(StateFailed), &TransferError{Op: OpStatus, Bytes: smp.total, Err: err}
			}
			res.Samples++

		case <-ctx.Done():
			stopCopy()
			interrupted := interrupt(src)
			exited := waitWithTimeout(done, copierExitWait)
			log.Warn().
				Bool("interrupted", interrupted).
				Bool("copier_exited", exited).
				Msg("transfer cancelled")
			_ = r.Finish(smp.take(time.Now(), true))
			return result(StateCancelled), fmt.Errorf("cancelled after %d bytes: %w", smp.total, ctx.Err())
		}
	}
}

// waitWithTimeout waits for the copier to signal completion.
// Returns true if it did, false on timeout.
func waitWithTimeout(done *completion, timeout time.Duration) bool {
	select {
	case <-done.C():
		return true
	case <-time.After(timeout):
		return false
	}
}
