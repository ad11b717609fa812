// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package retrieval

import (
	"errors"
	"strings"
)

// Kind classifies a retrieval failure.
type Kind string

const (
	KindInvalidLanguage   Kind = "invalid_language"
	KindInvalidTemplate   Kind = "invalid_template"
	KindDirectoryNotFound Kind = "directory_not_found"
	KindPathTraversal     Kind = "path_traversal"
	KindFileNotFound      Kind = "file_not_found"
	KindNotAFile          Kind = "not_a_file"
	KindTooLarge          Kind = "too_large"
	KindReadFailed        Kind = "read_failed"
)

// Sentinel errors matched by [Error.Is].
var (
	ErrInvalidLanguage   = errors.New("invalid language")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrDirectoryNotFound = errors.New("template directory not found")
	ErrPathTraversal     = errors.New("path traversal detected")
	ErrFileNotFound      = errors.New("file not found")
	ErrNotAFile          = errors.New("not a file")
	ErrTooLarge          = errors.New("file too large")
	ErrReadFailed        = errors.New("read failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidLanguage:
		return ErrInvalidLanguage
	case KindInvalidTemplate:
		return ErrInvalidTemplate
	case KindDirectoryNotFound:
		return ErrDirectoryNotFound
	case KindPathTraversal:
		return ErrPathTraversal
	case KindFileNotFound:
		return ErrFileNotFound
	case KindNotAFile:
		return ErrNotAFile
	case KindTooLarge:
		return ErrTooLarge
	case KindReadFailed:
		return ErrReadFailed
	default:
		return nil
	}
}

// CallerFault reports whether the failure was caused by the request rather
// than by the deployment. Directory drift and read failures are not.
func (k Kind) CallerFault() bool {
	switch k {
	case KindDirectoryNotFound, KindReadFailed:
		return false
	default:
		return true
	}
}

// Error is a structured retrieval failure.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Valid lists the accepted values when the language or template is invalid.
	Valid []string `json:"valid,omitempty"`
	// Suggestions holds the closest matches from Valid, best first.
	Suggestions []string `json:"suggestions,omitempty"`

	cause error
}

// Error implements the error interface. The message is safe to show to callers.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?")
	}
	if len(e.Valid) > 0 {
		b.WriteString("; valid values: ")
		b.WriteString(strings.Join(e.Valid, ", "))
	}
	return b.String()
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Unwrap returns the underlying I/O error, if any. It is never included in
// Error() since it may carry a filesystem path.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
