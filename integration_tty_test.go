//go:build !windows

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusOnTerminal runs the real binary with its status stream on a pty
// and checks that the line is redrawn in place and fits the terminal.
func TestStatusOnTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	binPath := filepath.Join(t.TempDir(), "rv_bin")
	build := exec.Command("go", "build", "-o", binPath, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build rv binary: %v\n%s", err, out)
	}

	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	const cols = 40
	require.NoError(t, pty.Setsize(master, &pty.Winsize{Rows: 24, Cols: cols}))

	stdinR, stdinW, err := os.Pipe()
	require.NoError(t, err)
	defer stdinR.Close()

	cmd := exec.Command(binPath, "--interval", "50ms", "-t", "-r")
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())
	cmd.Stdin = stdinR
	cmd.Stderr = slave
	require.NoError(t, cmd.Start())
	stdinR.Close()

	var (
		mu  sync.Mutex
		out bytes.Buffer
	)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		buf := make([]byte, 4096)
		for {
			n, err := master.Read(buf)
			mu.Lock()
			out.Write(buf[:n])
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}()

	// 64 KiB over roughly half a second, so several samples are taken.
	chunk := bytes.Repeat([]byte("x"), 1024)
	for i := 0; i < 64; i++ {
		_, err := stdinW.Write(chunk)
		require.NoError(t, err)
		time.Sleep(8 * time.Millisecond)
	}
	require.NoError(t, stdinW.Close())

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()
	select {
	case err := <-waitDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("timeout waiting for rv to finish")
	}

	// Let the reader drain what is left, then unblock it.
	time.Sleep(100 * time.Millisecond)
	slave.Close()
	master.Close()
	<-readDone

	mu.Lock()
	status := out.String()
	mu.Unlock()

	assert.Contains(t, status, "\r", "status line is redrawn in place")
	assert.Contains(t, status, "0:00:00")
	assert.Contains(t, status, "66 kB")
	for _, line := range strings.FieldsFunc(status, func(r rune) bool { return r == '\r' || r == '\n' }) {
		assert.Less(t, len(line), cols, "line %q overflows the terminal", line)
	}
}
