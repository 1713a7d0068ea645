package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

const (
	defaultTermCols = 80 // Used when the status stream is not a terminal
	minBarWidth     = 10
	maxBarWidth     = 50
)

// Display selects which fields appear in the status output. The fields only
// change what is printed, never how the transfer is sampled.
type Display struct {
	Progress bool // Progress bar, needs a size
	Timer    bool // Elapsed time
	ETA      bool // Estimated time left, needs a size
	Rate     bool // Current rate
	Numeric  bool // One machine-readable line per sample
	Quiet    bool // No status output at all
	Width    int  // Terminal columns, 0 means defaultTermCols
}

// explicit reports whether any field was picked by the user. With none
// picked, total and rate are shown.
func (d Display) explicit() bool {
	return d.Progress || d.Timer || d.ETA || d.Rate
}

func (d Display) width() int {
	if d.Width <= 0 {
		return defaultTermCols
	}
	return d.Width
}

// Renderer writes status for samples produced by the sampler.
type Renderer interface {
	// Update shows an intermediate sample.
	Update(s Sample) error
	// Finish shows the final sample and leaves it on screen.
	Finish(s Sample) error
}

// NewRenderer picks the renderer for d. Quiet wins over numeric, numeric over
// the progress bar. The bar needs a size and falls back to a text line.
func NewRenderer(w io.Writer, d Display, size ByteCount) Renderer {
	switch {
	case d.Quiet:
		return nopRenderer{}
	case d.Numeric:
		return &numericRenderer{w: w, d: d}
	case d.Progress && size > 0:
		return newBarRenderer(w, d, size)
	default:
		return &lineRenderer{w: w, d: d}
	}
}

// fields builds the human readable status fields for s.
func (d Display) fields(s Sample, withPercent bool) []string {
	var out []string
	if d.Timer {
		out = append(out, formatClock(s.Elapsed))
	}
	out = append(out, humanize.Bytes(uint64(s.Total)))
	if d.Rate || !d.explicit() {
		out = append(out, "["+humanize.Bytes(uint64(s.Rate))+"/s]")
	}
	if withPercent && d.Progress {
		if pct, ok := s.Percent(); ok {
			out = append(out, fmt.Sprintf("%3.0f%%", pct))
		}
	}
	if d.ETA && s.Size > 0 {
		if eta, ok := s.ETA(); ok {
			out = append(out, "ETA "+formatClock(eta))
		} else {
			out = append(out, "ETA -:--:--")
		}
	}
	return out
}

// lineRenderer rewrites a single line in place using carriage returns.
type lineRenderer struct {
	w       io.Writer
	d       Display
	lastLen int
}

func (r *lineRenderer) Update(s Sample) error {
	return r.print(s, "\r")
}

func (r *lineRenderer) Finish(s Sample) error {
	return r.print(s, "\n")
}

func (r *lineRenderer) print(s Sample, end string) error {
	line := strings.Join(r.d.fields(s, true), " ")
	if limit := r.d.width() - 1; limit > 0 && len(line) > limit {
		line = line[:limit]
	}
	// Pad so a shorter line fully covers the previous one.
	pad := 0
	if r.lastLen > len(line) {
		pad = r.lastLen - len(line)
	}
	r.lastLen = len(line)
	_, err := fmt.Fprintf(r.w, "%s%s%s", line, strings.Repeat(" ", pad), end)
	return err
}

// numericRenderer prints one newline terminated line per sample: elapsed
// seconds with -t, then percent (or total bytes without a size), then the
// rate in bytes per second with -r.
type numericRenderer struct {
	w io.Writer
	d Display
}

func (r *numericRenderer) Update(s Sample) error {
	var out []string
	if r.d.Timer {
		out = append(out, fmt.Sprintf("%.4f", s.Elapsed.Seconds()))
	}
	if pct, ok := s.Percent(); ok {
		out = append(out, fmt.Sprintf("%d", int(pct)))
	} else {
		out = append(out, fmt.Sprintf("%d", s.Total))
	}
	if r.d.Rate {
		out = append(out, fmt.Sprintf("%d", s.Rate))
	}
	_, err := fmt.Fprintln(r.w, strings.Join(out, " "))
	return err
}

func (r *numericRenderer) Finish(s Sample) error {
	return r.Update(s)
}

// barRenderer draws a progressbar with the text fields as its description.
type barRenderer struct {
	w    io.Writer
	d    Display
	size ByteCount
	bar  *progressbar.ProgressBar
}

func newBarRenderer(w io.Writer, d Display, size ByteCount) *barRenderer {
	width := d.width() / 4
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > maxBarWidth {
		width = maxBarWidth
	}
	bar := progressbar.NewOptions64(
		int64(size),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(width),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(0),
	)
	return &barRenderer{w: w, d: d, size: size, bar: bar}
}

func (r *barRenderer) Update(s Sample) error {
	r.bar.Describe(strings.Join(r.d.fields(s, false), " "))
	n := s.Total
	if n > r.size {
		n = r.size
	}
	return r.bar.Set64(int64(n))
}

func (r *barRenderer) Finish(s Sample) error {
	if err := r.Update(s); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.w)
	return err
}

type nopRenderer struct{}

func (nopRenderer) Update(Sample) error { return nil }
func (nopRenderer) Finish(Sample) error { return nil }
