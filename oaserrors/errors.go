package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrInvalidReference indicates a malformed $ref string or unparsable URI.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrPointerNotFound indicates a JSON Pointer fragment that does not resolve.
	ErrPointerNotFound = errors.New("pointer not found")

	// ErrFetchFailed indicates a network error, timeout, or non-success status
	// while retrieving a remote document.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrExternalDocumentInvalid indicates a fetched document whose parsed
	// root is not an object.
	ErrExternalDocumentInvalid = errors.New("external document invalid")

	// ErrEmptyDocument indicates input with no content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrVersionFieldMissing indicates a document without an openapi version field.
	ErrVersionFieldMissing = errors.New("openapi version field missing")

	// ErrUnsupportedVersion indicates an openapi version outside 3.0/3.1.
	ErrUnsupportedVersion = errors.New("unsupported openapi version")
)

// ReferenceError represents a failure to interpret or resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed
	Ref string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "invalid reference"
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// PointerError represents a JSON Pointer fragment that does not resolve:
// a missing key, an out-of-range or non-numeric sequence index, or traversal
// into a scalar.
type PointerError struct {
	// Pointer is the full JSON Pointer that failed to resolve
	Pointer string
	// Segment is the pointer token where traversal stopped
	Segment string
	// Message describes why traversal stopped
	Message string
}

// Error returns a human-readable error message.
func (e *PointerError) Error() string {
	msg := fmt.Sprintf("pointer %q not found", e.Pointer)
	if e.Segment != "" {
		msg += fmt.Sprintf(" at segment %q", e.Segment)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PointerError) Is(target error) bool {
	return target == ErrPointerNotFound
}

// FetchError represents a failure to retrieve a remote document.
type FetchError struct {
	// URL is the document URL that could not be fetched
	URL string
	// StatusCode is the HTTP status, if a response was received (0 otherwise)
	StatusCode int
	// Cause is the underlying transport error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("failed to fetch %s", e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// DocumentError represents input that cannot be used as a document:
// empty content, unparsable content, or a root that is not an object.
type DocumentError struct {
	// Source identifies the document (URL or a caller-supplied label)
	Source string
	// Message describes the problem
	Message string
	// Empty is true when the input contained no content
	Empty bool
	// Cause is the underlying parse error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentError) Error() string {
	msg := "invalid document"
	if e.Empty {
		msg = "empty document"
	}
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DocumentError) Is(target error) bool {
	if e.Empty {
		return target == ErrEmptyDocument
	}
	return target == ErrExternalDocumentInvalid
}

// ConversionError represents a dialect conversion rejected before any
// rewrite: the openapi field is absent or its value is not a 3.0/3.1 version.
type ConversionError struct {
	// Version is the openapi field value ("" when absent)
	Version string
	// Message describes the rejection
	Message string
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	if e.Version == "" {
		msg := "openapi version field missing"
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	}
	msg := fmt.Sprintf("unsupported openapi version %q", e.Version)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	if e.Version == "" {
		return target == ErrVersionFieldMissing
	}
	return target == ErrUnsupportedVersion
}
