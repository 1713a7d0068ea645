//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel f will be read front to back so it can
// read ahead aggressively. SyscallConn keeps f in non-blocking mode, unlike
// Fd, so read deadlines keep working.
func adviseSequential(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var adviseErr error
	err = rc.Control(func(fd uintptr) {
		adviseErr = unix.Fadvise(int(fd), 0, 0, unix.FADV_SEQUENTIAL)
	})
	if err != nil {
		return err
	}
	return adviseErr
}
