package main

import (
	"fmt"
	"time"
)

// megabyte is the decimal megabyte used for rates.
const megabyte = 1_000_000

// Sample is one observation of the transfer, produced by the sampler each
// interval and once more when the transfer ends.
type Sample struct {
	Elapsed time.Duration // Since the transfer started
	Window  time.Duration // Length of the sampling window this sample covers
	Delta   ByteCount     // Bytes drained from the counter for this window
	Total   ByteCount     // Running total, never decreases
	Rate    ByteCount     // Bytes per second over the window
	Size    ByteCount     // Expected total size, 0 when unknown
	Final   bool
}

// newSample derives the rate for a window of length window holding delta bytes.
func newSample(elapsed, window time.Duration, delta, total, size ByteCount) Sample {
	s := Sample{
		Elapsed: elapsed,
		Window:  window,
		Delta:   delta,
		Total:   total,
		Size:    size,
	}
	if window > 0 {
		s.Rate = ByteCount(float64(delta) / window.Seconds())
	}
	return s
}

// RateMB returns the rate in whole decimal megabytes per second.
func (s Sample) RateMB() ByteCount {
	return s.Rate / megabyte
}

// Percent returns how much of Size has been transferred, capped at 100.
// ok is false when no size is known.
func (s Sample) Percent() (pct float64, ok bool) {
	if s.Size == 0 {
		return 0, false
	}
	pct = float64(s.Total) / float64(s.Size) * 100
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// ETA estimates the time left from the average rate since the start.
// ok is false when no size is known or nothing has moved yet.
func (s Sample) ETA() (eta time.Duration, ok bool) {
	if s.Size == 0 || s.Total == 0 || s.Elapsed <= 0 {
		return 0, false
	}
	if s.Total >= s.Size {
		return 0, true
	}
	avg := float64(s.Total) / s.Elapsed.Seconds()
	remaining := float64(s.Size - s.Total)
	return time.Duration(remaining / avg * float64(time.Second)), true
}

// formatClock renders d as H:MM:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Round(time.Second) / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	sec := secs % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}
