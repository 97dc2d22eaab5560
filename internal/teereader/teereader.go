// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"sync"
)

// LastLineTeeReader wraps an io.Reader and captures both the complete output
// and the last complete line for progress display purposes.
// It is safe for concurrent use.
type LastLineTeeReader struct {
	reader  io.Reader
	full    *bytes.Buffer
	last    string
	partial []byte // bytes after the most recent newline
	mu      sync.RWMutex
}

// NewLastLineTeeReader creates a new LastLineTeeReader that wraps the given reader.
// The reader captures all data while maintaining the last complete line.
func NewLastLineTeeReader(r io.Reader) *LastLineTeeReader {
	return &LastLineTeeReader{
		reader: r,
		full:   &bytes.Buffer{},
	}
}

// Read implements io.Reader. It reads from the underlying reader and updates
// both the full buffer and the last line tracking.
func (lt *LastLineTeeReader) Read(p []byte) (n int, err error) {
	n, err = lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		lt.full.Write(p[:n])
		lt.consume(p[:n])
		lt.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

// consume updates the last complete line from a new chunk of data.
// Must be called with the write lock held.
func (lt *LastLineTeeReader) consume(chunk []byte) {
	lt.partial = append(lt.partial, chunk...)

	idx := bytes.LastIndexByte(lt.partial, '\n')
	if idx < 0 {
		// No complete line yet.
		return
	}

	complete := lt.partial[:idx]
	if j := bytes.LastIndexByte(complete, '\n'); j >= 0 {
		lt.last = string(complete[j+1:])
	} else {
		lt.last = string(complete)
	}

	rest := lt.partial[idx+1:]
	lt.partial = append(lt.partial[:0], rest...)
}

// GetLastLine returns the last complete line that was read.
// Returns an empty string if no complete lines have been read yet.
// If maxLength > 0, the line is truncated to that length with a trailing "...".
// This method is safe for concurrent use.
func (lt *LastLineTeeReader) GetLastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	result := lt.last
	if maxLength > 0 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// GetFullBufferBytes returns the data that has been read so far.
// This method is safe for concurrent use.
func (lt *LastLineTeeReader) GetFullBufferBytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.full.Bytes()
}

// GetFullBufferReader returns the underlying full buffer.
// This method is NOT safe for concurrent use and should only be used after
// reading has completed.
func (lt *LastLineTeeReader) GetFullBufferReader() *bytes.Buffer {
	return lt.full
}

// GetPartialLine returns the current partial line (data after the last newline).
// This method is safe for concurrent use.
func (lt *LastLineTeeReader) GetPartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return string(lt.partial)
}

// Reset clears all internal buffers. The underlying reader is not affected.
// This method is safe for concurrent use.
func (lt *LastLineTeeReader) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.full.Reset()
	lt.last = ""
	lt.partial = lt.partial[:0]
}
