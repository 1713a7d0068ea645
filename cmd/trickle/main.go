// trickle writes a byte pattern to stdout at a fixed bandwidth, for watching
// rv's sampler against a known rate.
//
// Usage: go run ./cmd/trickle --rate 8mbit --bytes 20MB | rv -rt > /dev/null
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

const (
	defaultChunk = 4096  // Bytes per write
	maxBurstSize = 65536 // Cap burst at 64KB to prevent huge initial bursts
)

func main() {
	fs := flag.NewFlagSet("trickle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.SortFlags = false
	bw := fs.StringP("rate", "r", "1mbit", "Bandwidth (e.g. 56kbit, 1mbit, 100KB)")
	total := fs.StringP("bytes", "b", "", "Stop after this many bytes (e.g. 20MB, default unlimited)")
	chunk := fs.IntP("chunk", "c", defaultChunk, "Bytes per write")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	bps, err := parseBandwidth(*bw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --rate: %v\n", err)
		os.Exit(2)
	}
	limit := int64(-1)
	if *total != "" {
		n, err := humanize.ParseBytes(*total)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid --bytes: %v\n", err)
			os.Exit(2)
		}
		limit = int64(n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGPIPE)
	defer stop()

	g := NewGenerator(bps, limit, *chunk)
	if _, err := g.WriteTo(ctx, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Generator produces the repeating byte sequence 0x00..0xff, rate limited by
// a token bucket.
type Generator struct {
	limiter   *rate.Limiter // nil = unlimited
	remaining int64         // -1 = unlimited
	chunk     int
	next      byte
}

// NewGenerator creates a Generator emitting bytesPerSec (0 = as fast as
// possible) until limit bytes (-1 = forever) have been written.
func NewGenerator(bytesPerSec, limit int64, chunk int) *Generator {
	if chunk <= 0 {
		chunk = defaultChunk
	}
	var limiter *rate.Limiter
	if bytesPerSec > 0 {
		// At least one chunk, or 100ms of data
		burst := int(bytesPerSec / 10)
		if chunk > burst {
			burst = chunk
		}
		if burst > maxBurstSize {
			burst = maxBurstSize
		}
		limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
		if chunk > burst {
			chunk = burst
		}
	}
	return &Generator{limiter: limiter, remaining: limit, chunk: chunk}
}

// WriteTo writes to w until the limit is reached or ctx is cancelled.
func (g *Generator) WriteTo(ctx context.Context, w io.Writer) (int64, error) {
	buf := make([]byte, g.chunk)
	var written int64
	for g.remaining != 0 {
		n := len(buf)
		if g.remaining > 0 && int64(n) > g.remaining {
			n = int(g.remaining)
		}
		for i := 0; i < n; i++ {
			buf[i] = g.next
			g.next++
		}

		// Wait for tokens
		if g.limiter != nil {
			if err := g.limiter.WaitN(ctx, n); err != nil {
				return written, err
			}
		} else if err := ctx.Err(); err != nil {
			return written, err
		}

		m, err := w.Write(buf[:n])
		written += int64(m)
		if err != nil {
			return written, err
		}
		if g.remaining > 0 {
			g.remaining -= int64(n)
		}
	}
	return written, nil
}

// parseBandwidth parses bandwidth strings like "56kbit", "1mbit", "100KB"
// Returns bytes per second. Uses SI units (k=1000).
func parseBandwidth(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}

	re := regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z/]*)$`)
	matches := re.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid bandwidth format: %s", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	var multiplier float64 = 1
	isBytes := false

	switch matches[2] {
	case "", "bps", "bit", "bits":
		multiplier = 1
	case "k", "kbit", "kbps":
		multiplier = 1000
	case "m", "mbit", "mbps":
		multiplier = 1000000
	case "g", "gbit", "gbps":
		multiplier = 1000000000
	case "b", "byte", "bytes":
		isBytes = true
	case "kb", "kb/s":
		multiplier = 1000
		isBytes = true
	case "mb", "mb/s":
		multiplier = 1000000
		isBytes = true
	case "gb", "gb/s":
		multiplier = 1000000000
		isBytes = true
	default:
		return 0, fmt.Errorf("unknown bandwidth unit: %s", matches[2])
	}

	if isBytes {
		return int64(value * multiplier), nil
	}
	return int64(value * multiplier / 8), nil // Convert bits to bytes
}
