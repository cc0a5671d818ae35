// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"fmt"
)

// Kind classifies store failures so callers can map them to a response class.
type Kind string

// Error kinds.
const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindParse      Kind = "parse"
	KindIO         Kind = "io"
)

// Sentinel errors usable with errors.Is.
var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrParse      = &Error{Kind: KindParse, Message: "malformed backing file"}
	ErrIO         = &Error{Kind: KindIO, Message: "storage i/o failed"}
)

// Error is the error type returned by every public store operation.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "documents.update"
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so store errors match the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the store kind of err, or "" if err is not a store error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func validationError(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func notFoundError(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf("no record with id %q", id)}
}

func parseError(op, message string, err error) error {
	return &Error{Kind: KindParse, Op: op, Message: message, Err: err}
}

func ioError(op, message string, err error) error {
	return &Error{Kind: KindIO, Op: op, Message: message, Err: err}
}
