// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the validation error taxonomy. Validation errors are
// never fatal: they are cached per variable and scope and handed back to
// the caller as advisory text, so each carries the offending variable name
// and a message ready for display.
package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota + 1
	KindSelfReference
	KindUndefinedVariable
	KindTypeMismatch
	KindBadReference
	KindEmptyRequiredValue
	KindInvalidName
	KindCycle
)

// Sentinel errors, one per kind. A *ValidationError matches the sentinel of
// its kind with errors.Is.
var (
	ErrSyntax             = errors.New("syntax error")
	ErrSelfReference      = errors.New("self reference")
	ErrUndefinedVariable  = errors.New("undefined variable")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrBadReference       = errors.New("bad reference")
	ErrEmptyRequiredValue = errors.New("empty required value")
	ErrInvalidName        = errors.New("invalid name")
	ErrCycle              = errors.New("reference cycle")
)

var kindSentinels = map[ErrorKind]error{
	KindSyntax:             ErrSyntax,
	KindSelfReference:      ErrSelfReference,
	KindUndefinedVariable:  ErrUndefinedVariable,
	KindTypeMismatch:       ErrTypeMismatch,
	KindBadReference:       ErrBadReference,
	KindEmptyRequiredValue: ErrEmptyRequiredValue,
	KindInvalidName:        ErrInvalidName,
	KindCycle:              ErrCycle,
}

func (k ErrorKind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ValidationError is a validation failure attached to a variable name.
type ValidationError struct {
	Kind ErrorKind
	// Variable is the name the message is about. It is empty for
	// anonymous expressions.
	Variable string
	Message  string
	// Err is the underlying cause, such as the error of a broken dependency
	// or the parser diagnostics.
	Err error
}

// Errorf builds a ValidationError of the given kind with a formatted message.
func Errorf(kind ErrorKind, variable, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:     kind,
		Variable: variable,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrap returns a copy of e with cause attached.
func (e *ValidationError) Wrap(cause error) *ValidationError {
	c := *e
	c.Err = cause
	return &c
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap exposes the cause for errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind, so callers can write
// errors.Is(err, model.ErrTypeMismatch).
func (e *ValidationError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the kind of the outermost ValidationError in err's chain,
// or zero if there is none.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return 0
}
