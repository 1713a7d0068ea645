package main

import (
	"io"
	"os"
)

// Source is the input side of a transfer: a named file or standard input.
// The copier only sees Reader, so both behave the same.
type Source struct {
	io.Reader
	Name string
	Size ByteCount // Known size of a regular file, 0 otherwise

	closer io.Closer
}

// OpenSource opens path for reading. An empty path or "-" selects stdin,
// which is never closed. Open errors are returned before any transfer
// starts.
func OpenSource(path string, stdin io.Reader) (*Source, error) {
	if path == "" || path == "-" {
		src := &Source{Reader: stdin, Name: "<stdin>"}
		if f, ok := stdin.(*os.File); ok {
			src.Size = regularSize(f)
		}
		return src, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src := &Source{Reader: f, Name: path, Size: regularSize(f), closer: f}
	if src.Size > 0 {
		// Advisory only.
		_ = adviseSequential(f)
	}
	return src, nil
}

// Close closes a named file. It is a no-op for stdin.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// regularSize returns the size of f if it is a regular file.
func regularSize(f *os.File) ByteCount {
	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() || fi.Size() < 0 {
		return 0
	}
	return ByteCount(fi.Size())
}
