package main

import (
	"errors"
	"fmt"
)

// Operations a TransferError can report.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpStatus = "status"
)

var (
	ErrBothSources      = errors.New("file given both as --file and as an argument")
	ErrInvalidInterval  = errors.New("sample interval must be greater than 0")
	ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")
)

// TransferError is the terminal outcome of a transfer that failed mid-stream.
// Bytes is how much had been written to the sink before the failure.
type TransferError struct {
	Op    string
	Bytes ByteCount
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s failed after %d bytes: %v", e.Op, e.Bytes, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
