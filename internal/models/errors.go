// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies analysis failures so callers can react without
// parsing messages.
type ErrorKind string

const (
	// KindDataQuality covers malformed or contradictory input records.
	KindDataQuality ErrorKind = "data_quality"

	// KindConfiguration covers invalid parameters such as k <= 0 or a
	// missing category vocabulary.
	KindConfiguration ErrorKind = "configuration"

	// KindOutOfRange covers IDs outside the range a model was trained on.
	KindOutOfRange ErrorKind = "out_of_range"

	// KindEmptyInput is informational. Components return empty results for
	// empty input rather than failing.
	KindEmptyInput ErrorKind = "empty_input"
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrDataQuality   = errors.New("data quality")
	ErrConfiguration = errors.New("configuration")
	ErrOutOfRange    = errors.New("out of range")
	ErrEmptyInput    = errors.New("empty input")
)

var kindSentinels = map[ErrorKind]error{
	KindDataQuality:   ErrDataQuality,
	KindConfiguration: ErrConfiguration,
	KindOutOfRange:    ErrOutOfRange,
	KindEmptyInput:    ErrEmptyInput,
}

// Error is a classified analysis error.
//
//	err := models.NewError(models.KindOutOfRange, "recommend.Predict", "customer %d not in [0, %d)", id, n)
//	errors.Is(err, models.ErrOutOfRange) // true
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

// NewError creates a classified error with a formatted message.
func NewError(kind ErrorKind, op, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError classifies an underlying error.
func WrapError(kind ErrorKind, op string, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf returns the kind of a classified error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ""
}
