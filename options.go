package tdms

import (
	"encoding/binary"

	"go.uber.org/zap"
)

// options holds the resolved configuration for Open/Create, built by
// applying a caller's OptionFuncs over the package defaults.
type options struct {
	logger              *zap.SugaredLogger
	strictVersion       bool
	allowUnknownDataType bool
	readBufferSize      int
	writeBufferSize     int
	byteOrder           binary.ByteOrder
}

// OptionFunc configures an Open or Create call.
type OptionFunc func(*options)

func newDefaultOptions() *options {
	return &options{
		logger:               nopLogger(),
		strictVersion:        false,
		allowUnknownDataType: false,
		readBufferSize:       DefaultReadBufferSize,
		writeBufferSize:      DefaultWriteBufferSize,
		byteOrder:            binary.LittleEndian,
	}
}

// WithLogger sets the logger used for warning-class diagnostics (unknown
// version, crashed-write segments). The zero value keeps
// the library silent.
func WithLogger(logger *zap.SugaredLogger) OptionFunc {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictVersion makes an unrecognized segment version fatal instead of
// a logged warning.
func WithStrictVersion() OptionFunc {
	return func(o *options) { o.strictVersion = true }
}

// WithAllowUnknownDataType records that the caller accepts unknown DataType
// tags. The decoder does not consult it: an unknown DataType tag on a
// property value still aborts decoding of the segment, with or without
// this option.
func WithAllowUnknownDataType() OptionFunc {
	return func(o *options) { o.allowUnknownDataType = true }
}

// WithReadBufferSize records a read buffer size. Open does not use it: it
// reads the file unbuffered.
func WithReadBufferSize(n int) OptionFunc {
	return func(o *options) {
		if n > 0 {
			o.readBufferSize = n
		}
	}
}

// WithWriteBufferSize records a write buffer size. Create does not use it:
// it writes to the file unbuffered.
func WithWriteBufferSize(n int) OptionFunc {
	return func(o *options) {
		if n > 0 {
			o.writeBufferSize = n
		}
	}
}

// WithByteOrder sets the payload byte order a Writer emits new segments in.
// It has no effect on reading, which always follows each segment's own ToC.
func WithByteOrder(order binary.ByteOrder) OptionFunc {
	return func(o *options) {
		if order != nil {
			o.byteOrder = order
		}
	}
}
