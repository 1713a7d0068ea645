package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRendererSelection(t *testing.T) {
	var w bytes.Buffer
	assert.IsType(t, nopRenderer{}, NewRenderer(&w, Display{Quiet: true, Numeric: true, Progress: true}, 100))
	assert.IsType(t, &numericRenderer{}, NewRenderer(&w, Display{Numeric: true, Progress: true}, 100))
	assert.IsType(t, &barRenderer{}, NewRenderer(&w, Display{Progress: true}, 100))
	assert.IsType(t, &lineRenderer{}, NewRenderer(&w, Display{Progress: true}, 0), "bar needs a size")
	assert.IsType(t, &lineRenderer{}, NewRenderer(&w, Display{}, 0))
}

func TestLineRendererDefault(t *testing.T) {
	var w bytes.Buffer
	r := NewRenderer(&w, Display{}, 0)

	require.NoError(t, r.Update(Sample{Total: 12 * megabyte, Rate: 3 * megabyte}))
	assert.Equal(t, "12 MB [3.0 MB/s]\r", w.String())

	w.Reset()
	require.NoError(t, r.Finish(Sample{Total: 15 * megabyte, Rate: 3 * megabyte, Final: true}))
	assert.Equal(t, "15 MB [3.0 MB/s]\n", w.String())
}

func TestLineRendererPadsShorterLine(t *testing.T) {
	var w bytes.Buffer
	r := NewRenderer(&w, Display{}, 0)

	require.NoError(t, r.Update(Sample{Total: 999 * megabyte, Rate: 999 * megabyte}))
	long := w.Len() - 1
	w.Reset()
	require.NoError(t, r.Update(Sample{Total: 1, Rate: 0}))

	line := strings.TrimSuffix(w.String(), "\r")
	assert.Len(t, line, long, "shorter line must cover the previous one")
	assert.True(t, strings.HasPrefix(line, "1 B [0 B/s]"))
}

func TestLineRendererFields(t *testing.T) {
	var w bytes.Buffer
	d := Display{Timer: true, ETA: true, Progress: true}
	r := &lineRenderer{w: &w, d: d}

	s := Sample{Elapsed: 5 * time.Second, Total: 25 * megabyte, Rate: 5 * megabyte, Size: 100 * megabyte}
	require.NoError(t, r.Update(s))

	// Rate is hidden because other fields were picked explicitly.
	assert.Equal(t, "0:00:05 25 MB  25% ETA 0:00:15\r", w.String())
}

func TestLineRendererETAUnknown(t *testing.T) {
	var w bytes.Buffer
	r := &lineRenderer{w: &w, d: Display{ETA: true, Rate: true}}

	require.NoError(t, r.Update(Sample{Size: 100}))
	assert.Equal(t, "0 B [0 B/s] ETA -:--:--\r", w.String())

	w.Reset()
	require.NoError(t, r.Update(Sample{Total: 100}))
	assert.NotContains(t, w.String(), "ETA", "ETA needs a size")
}

func TestLineRendererTruncatesToWidth(t *testing.T) {
	var w bytes.Buffer
	r := &lineRenderer{w: &w, d: Display{Timer: true, Rate: true, Width: 10}}

	require.NoError(t, r.Update(Sample{Elapsed: time.Hour, Total: megabyte, Rate: megabyte}))
	assert.Equal(t, "1:00:00 1\r", w.String())
}

func TestNumericRenderer(t *testing.T) {
	var w bytes.Buffer
	r := NewRenderer(&w, Display{Numeric: true}, 200)
	require.NoError(t, r.Update(Sample{Total: 100, Size: 200}))
	require.NoError(t, r.Finish(Sample{Total: 200, Size: 200}))
	assert.Equal(t, "50\n100\n", w.String())

	w.Reset()
	r = NewRenderer(&w, Display{Numeric: true, Timer: true, Rate: true}, 0)
	require.NoError(t, r.Update(Sample{Elapsed: 1500 * time.Millisecond, Total: 4096, Rate: 2048}))
	assert.Equal(t, "1.5000 4096 2048\n", w.String())
}

func TestBarRenderer(t *testing.T) {
	var w bytes.Buffer
	r := NewRenderer(&w, Display{Progress: true, Timer: true}, 1000)

	require.NoError(t, r.Update(Sample{Elapsed: 2 * time.Second, Total: 500, Size: 1000}))
	assert.Contains(t, w.String(), "0:00:02 500 B")
	assert.Contains(t, w.String(), "50%")

	// Totals past the size hint are clamped instead of failing.
	require.NoError(t, r.Finish(Sample{Elapsed: 3 * time.Second, Total: 1200, Size: 1000}))
	assert.True(t, strings.HasSuffix(w.String(), "\n"))
}

func TestQuietRendererWritesNothing(t *testing.T) {
	var w bytes.Buffer
	r := NewRenderer(&w, Display{Quiet: true}, 0)
	require.NoError(t, r.Update(Sample{Total: 1}))
	require.NoError(t, r.Finish(Sample{Total: 1}))
	assert.Zero(t, w.Len())
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRendererWriteErrors(t *testing.T) {
	boom := errors.New("stderr closed")
	for _, d := range []Display{{}, {Numeric: true}} {
		r := NewRenderer(errWriter{boom}, d, 0)
		assert.ErrorIs(t, r.Update(Sample{}), boom)
		assert.ErrorIs(t, r.Finish(Sample{}), boom)
	}
}
