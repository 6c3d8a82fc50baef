// Package terrors implements the closed, structured error-kind taxonomy
// used throughout gotdms. It follows the fluent baseError-plus-details
// pattern used by the storage engines this library was modeled on: a single
// concrete type carries a Kind, a human message, an optional cause, and a
// details bag that callers can inspect without parsing the message string.
package terrors

import "fmt"

// Kind is a closed enumeration of the error categories a decode, scan, or
// write operation can fail with. The set intentionally does not grow at the
// call site — new failure modes get a new Kind here, not a new sentinel
// scattered through the codebase.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindInvalidMagic
	KindUnknownVersion
	KindUnknownDataType
	KindInvalidUTF8
	KindTypeMismatch
	KindMissingPreviousIndex
	KindUnsupportedArrayDim
	KindStringInInterleavedBlock
	KindMissingObject
	KindMissingProperty
	KindInconsistentChannelLengths
	KindWriteSliceLenMismatch
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IoError"
	case KindInvalidMagic:
		return "InvalidMagic"
	case KindUnknownVersion:
		return "UnknownVersion"
	case KindUnknownDataType:
		return "UnknownDataType"
	case KindInvalidUTF8:
		return "InvalidUtf8"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindMissingPreviousIndex:
		return "MissingPreviousIndex"
	case KindUnsupportedArrayDim:
		return "UnsupportedArrayDim"
	case KindStringInInterleavedBlock:
		return "StringInInterleavedBlock"
	case KindMissingObject:
		return "MissingObject"
	case KindMissingProperty:
		return "MissingProperty"
	case KindInconsistentChannelLengths:
		return "InconsistentChannelLengths"
	case KindWriteSliceLenMismatch:
		return "WriteSliceLenMismatch"
	default:
		return "Unknown"
	}
}

// Error is the structured error type raised by every decode/scan/write
// operation in this module. It is always reachable via errors.As, and its
// Unwrap exposes the wrapped sentinel (if any) so errors.Is keeps working
// against the package-level sentinels in errors.go.
type Error struct {
	kind    Kind
	message string
	cause   error
	details map[string]any
}

// New creates an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("tdms: %s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("tdms: %s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the closed error-kind category for this error.
func (e *Error) Kind() Kind { return e.kind }

// Details returns the context bag attached via WithDetail.
func (e *Error) Details() map[string]any { return e.details }

// WithCause sets the underlying error (e.g. an io.Reader error) this error
// wraps.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// WithDetail attaches a single key/value of diagnostic context.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any, 4)
	}
	e.details[key] = value
	return e
}

// WithSegmentStart attaches the absolute byte offset of the segment in which
// this error was raised, per the user-visible diagnostic requirement that
// errors surfaced from add_segment carry segment_start context.
func (e *Error) WithSegmentStart(offset int64) *Error {
	return e.WithDetail("segment_start", offset)
}

// WithByteOffset attaches the absolute byte offset within the file at which
// the error was detected.
func (e *Error) WithByteOffset(offset int64) *Error {
	return e.WithDetail("byte_offset", offset)
}
