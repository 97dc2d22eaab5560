// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrGobDecode is returned when decoding fails, and wraps errors that were
	// flattened to their message strings during encoding.
	ErrGobDecode = errors.New("gob decode error")
)

// serializableResult mirrors Result with gob-friendly fields.
// Error values cannot be encoded generically, so they are flattened to their
// messages and rehydrated as opaque errors on decode.
type serializableResult struct {
	ExitCode  int
	HasError  bool
	ErrorMsg  string
	StdOut    []byte
	StdErr    []byte
	Label     string
	Status    ResultStatus
	StartedAt time.Time
	Duration  time.Duration
	NewCwd    string
	Children  []*serializableResult
}

func (r *Result) toSerializable() *serializableResult {
	s := &serializableResult{
		ExitCode:  r.ExitCode,
		StdOut:    r.StdOut,
		StdErr:    r.StdErr,
		Label:     r.Label,
		Status:    r.Status,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		NewCwd:    r.newCwd,
	}

	if r.Error != nil {
		s.HasError = true
		s.ErrorMsg = r.Error.Error()
	}

	if len(r.Children) > 0 {
		s.Children = make([]*serializableResult, len(r.Children))
		for i, child := range r.Children {
			s.Children[i] = child.toSerializable()
		}
	}

	return s
}

func (r *Result) fromSerializable(s *serializableResult) {
	r.ExitCode = s.ExitCode
	r.StdOut = s.StdOut
	r.StdErr = s.StdErr
	r.Label = s.Label
	r.Status = s.Status
	r.StartedAt = s.StartedAt
	r.Duration = s.Duration
	r.newCwd = s.NewCwd

	if s.HasError {
		r.Error = fmt.Errorf("%w: %s", ErrGobDecode, s.ErrorMsg)
	}

	if len(s.Children) > 0 {
		r.Children = make(Results, len(s.Children))
		for i, child := range s.Children {
			r.Children[i] = &Result{}
			r.Children[i].fromSerializable(child)
		}
	}
}

// GobEncode implements gob.GobEncoder for Result.
func (r *Result) GobEncode() ([]byte, error) {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(r.toSerializable()); err != nil {
		return nil, errors.Join(ErrWriteGob, err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for Result.
func (r *Result) GobDecode(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty data", ErrGobDecode)
	}

	s := &serializableResult{}

	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(s); err != nil {
		return errors.Join(ErrGobDecode, err)
	}

	r.fromSerializable(s)

	return nil
}

func writeResultGob(w io.Writer, results Results) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(results); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}
