package tdms

import (
	"encoding/binary"
	"math"
	"slices"
	"time"
)

// These are the block-reader counterpart to codec.go's readXxx functions:
// where readXxx decodes one value from a stream and advances it, the
// interpretXxx functions below decode one value from an already-sliced
// byte window. Both exist because the hot per-sample loop in the block
// readers works off of pre-read buffers, not a live io.Reader.

func interpretInt8(b []byte, _ binary.ByteOrder) int8 { return int8(b[0]) }
func interpretUint8(b []byte, _ binary.ByteOrder) uint8 { return b[0] }

func interpretInt16(b []byte, order binary.ByteOrder) int16   { return int16(order.Uint16(b)) }
func interpretUint16(b []byte, order binary.ByteOrder) uint16 { return order.Uint16(b) }

func interpretInt32(b []byte, order binary.ByteOrder) int32   { return int32(order.Uint32(b)) }
func interpretUint32(b []byte, order binary.ByteOrder) uint32 { return order.Uint32(b) }

func interpretInt64(b []byte, order binary.ByteOrder) int64   { return int64(order.Uint64(b)) }
func interpretUint64(b []byte, order binary.ByteOrder) uint64 { return order.Uint64(b) }

func interpretFloat32(b []byte, order binary.ByteOrder) float32 {
	return math.Float32frombits(order.Uint32(b))
}

func interpretFloat64(b []byte, order binary.ByteOrder) float64 {
	return math.Float64frombits(order.Uint64(b))
}

func interpretFloat128(b []byte, order binary.ByteOrder) Float128 {
	var f Float128
	if order == binary.BigEndian {
		rev := slices.Clone(b)
		slices.Reverse(rev)
		copy(f[:], rev)
	} else {
		copy(f[:], b)
	}
	return f
}

func interpretBool(b []byte, _ binary.ByteOrder) bool { return b[0] != 0 }

func interpretString(b []byte, _ binary.ByteOrder) string { return string(b) }

func interpretTimestamp(b []byte, order binary.ByteOrder) Timestamp {
	fraction := order.Uint64(b[:8])
	seconds := order.Uint64(b[8:16])
	return Timestamp{Seconds: int64(seconds), Fraction: fraction}
}

func interpretTime(b []byte, order binary.ByteOrder) time.Time {
	return interpretTimestamp(b, order).AsTime()
}

func interpretComplex64(b []byte, order binary.ByteOrder) complex64 {
	re := math.Float32frombits(order.Uint32(b[:4]))
	im := math.Float32frombits(order.Uint32(b[4:8]))
	return complex(re, im)
}

func interpretComplex128(b []byte, order binary.ByteOrder) complex128 {
	re := math.Float64frombits(order.Uint64(b[:8]))
	im := math.Float64frombits(order.Uint64(b[8:16]))
	return complex(re, im)
}
