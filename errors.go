package tdms

import (
	"errors"

	"github.com/oakmeadow/gotdms/internal/terrors"
)

// Sentinel errors, kept for errors.Is compatibility. Every *terrors.Error
// raised by this package wraps one of these, so callers who only care about
// the broad category don't need to reach into the structured error.
var (
	ErrIO                         = errors.New("i/o error")
	ErrInvalidMagic               = errors.New("invalid segment magic bytes")
	ErrUnsupportedVersion         = errors.New("unsupported version")
	ErrUnknownDataType            = errors.New("unknown data type tag")
	ErrInvalidUTF8                = errors.New("invalid utf-8 in length-prefixed string")
	ErrIncorrectType              = errors.New("storage type does not accept this data type")
	ErrMissingPreviousIndex       = errors.New("match-previous raw data index with no prior layout")
	ErrUnsupportedArrayDim        = errors.New("unsupported raw data array dimension")
	ErrStringInInterleavedBlock   = errors.New("variable-length data type in interleaved block")
	ErrMissingObject              = errors.New("object not found at path")
	ErrMissingProperty            = errors.New("property not found")
	ErrInconsistentChannelLengths = errors.New("channels in write batch have inconsistent lengths")
	ErrWriteSliceLenMismatch      = errors.New("value slice length does not match channel count")
	ErrInvalidPath                = errors.New("invalid object path")
	ErrInvalidFileFormat          = errors.New("invalid file format")
)

func newIOError(cause error) *terrors.Error {
	return terrors.New(terrors.KindIO, "read or write failed").WithCause(errors.Join(ErrIO, cause))
}

func newInvalidMagicError(got []byte) *terrors.Error {
	return terrors.New(terrors.KindInvalidMagic, "expected TDSm/TDSh magic, got %q", got).
		WithCause(ErrInvalidMagic)
}

func newUnknownVersionError(version uint32) *terrors.Error {
	return terrors.New(terrors.KindUnknownVersion, "version %d is not a known TDMS version", version).
		WithCause(ErrUnsupportedVersion).
		WithDetail("version", version)
}

func newInvalidUTF8Error() *terrors.Error {
	return terrors.New(terrors.KindInvalidUTF8, "string bytes are not valid utf-8").
		WithCause(ErrInvalidUTF8)
}

func newUnknownDataTypeError(tag uint32) *terrors.Error {
	return terrors.New(terrors.KindUnknownDataType, "tag 0x%08X does not name a known data type", tag).
		WithCause(ErrUnknownDataType).
		WithDetail("tag", tag)
}

func newTypeMismatchError(expected []DataType, got DataType) *terrors.Error {
	return terrors.New(terrors.KindTypeMismatch, "expected one of %v, got %s", expected, got).
		WithCause(ErrIncorrectType).
		WithDetail("expected", expected).
		WithDetail("got", got)
}

func newMissingPreviousIndexError(path string) *terrors.Error {
	return terrors.New(terrors.KindMissingPreviousIndex, "object %q has no prior layout to match", path).
		WithCause(ErrMissingPreviousIndex).
		WithDetail("path", path)
}

func newUnsupportedArrayDimError(n uint32) *terrors.Error {
	return terrors.New(terrors.KindUnsupportedArrayDim, "array dimension %d is not supported, must be 1", n).
		WithCause(ErrUnsupportedArrayDim).
		WithDetail("dimension", n)
}

func newStringInInterleavedBlockError() *terrors.Error {
	return terrors.New(
		terrors.KindStringInInterleavedBlock,
		"variable-length data types are not allowed in interleaved blocks",
	).WithCause(ErrStringInInterleavedBlock)
}

func newMissingObjectError(path string) *terrors.Error {
	return terrors.New(terrors.KindMissingObject, "no object at path %q", path).
		WithCause(ErrMissingObject).
		WithDetail("path", path)
}

func newMissingPropertyError(path, name string) *terrors.Error {
	return terrors.New(terrors.KindMissingProperty, "object %q has no property %q", path, name).
		WithCause(ErrMissingProperty).
		WithDetail("path", path).
		WithDetail("name", name)
}

func newInconsistentChannelLengthsError() *terrors.Error {
	return terrors.New(
		terrors.KindInconsistentChannelLengths,
		"all channels in a write batch must contribute the same number of samples",
	).WithCause(ErrInconsistentChannelLengths)
}

func newWriteSliceLenMismatchError(got, want int) *terrors.Error {
	return terrors.New(
		terrors.KindWriteSliceLenMismatch,
		"got %d value slices, want %d (one per channel path)",
		got, want,
	).WithCause(ErrWriteSliceLenMismatch)
}
