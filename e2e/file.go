package e2e

import (
	"fmt"
	"os"
)

// File is an open E2E container.
//
// A File is not safe for concurrent use: each Decode owns the handle's
// read positions for its entire duration. Open one File per goroutine
// or serialize the calls.
type File struct {
	path   string
	file   *os.File
	closed bool
}

// Open opens an E2E container for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}
	return &File{path: path, file: f}, nil
}

// Close closes the container.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Decode runs one decode pass over the container. See Decode.
func (f *File) Decode(opts Options) (*Result, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return Decode(f.file, opts)
}

// Patients extracts patient demographics from the container. See Patients.
func (f *File) Patients(opts Options) ([]PatientInfo, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return Patients(f.file, opts)
}
