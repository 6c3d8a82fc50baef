package tdms

import (
	"encoding/binary"
	"io"
	"math/big"
	"time"
)

// tdmsEpoch is 1904-01-01 00:00:00 UTC expressed as a Unix timestamp. TDMS
// timestamps are seconds since this epoch plus a 64-bit fraction.
const tdmsEpoch int64 = -2_082_844_800

// Float128 holds a 128-bit IEEE-754 quad-precision value in canonical
// little-endian byte order, independent of the endianness it was read in.
type Float128 [16]byte

// AsBigFloat decodes the quad-precision bit pattern into a [*big.Float],
// handling zero, subnormal, infinite and NaN values explicitly since
// Go's math/big has no native binary128 support.
func (f Float128) AsBigFloat() *big.Float {
	return parseQuadLittleEndian(f[:])
}

// Timestamp is the TDMS on-disk timestamp representation: a signed 64-bit
// count of seconds since the TDMS epoch plus an unsigned 64-bit fraction of
// a second in units of 2^-64.
type Timestamp struct {
	Seconds  int64
	Fraction uint64
}

// AsTime converts the timestamp to a [time.Time] in UTC.
func (t Timestamp) AsTime() time.Time {
	unixSeconds := t.Seconds + tdmsEpoch

	// Fraction is in units of 2^-64 seconds; convert to nanoseconds via
	// big.Int to avoid losing precision in the multiply-then-shift.
	frac := new(big.Int).SetUint64(t.Fraction)
	frac.Mul(frac, big.NewInt(1_000_000_000))
	frac.Rsh(frac, 64)

	return time.Unix(unixSeconds, frac.Int64()).UTC()
}

// StorageValue is a statically-typed value carrier. It declares its natural
// on-disk DataType for writes and the set of DataTypes it may be read from,
// so that acceptTypeCheck can tell whether a DataType may be read into it
// (spec §4.1). It carries no read or write methods; decoding and encoding
// go through codec.go's typed functions and readValue/writeValue.
type StorageValue interface {
	// NaturalType is the DataType this value is written as.
	NaturalType() DataType

	// AcceptedTypes are the DataTypes this value may be read from.
	AcceptedTypes() []DataType

	// Size is the per-value encoded size in bytes; for a string it is the
	// byte length plus the 4-byte length prefix.
	Size() int
}

func acceptTypeCheck(v StorageValue, got DataType) error {
	for _, t := range v.AcceptedTypes() {
		if t == got {
			return nil
		}
	}
	return newTypeMismatchError(v.AcceptedTypes(), got)
}

// Int8Value, Int16Value, ... are the concrete StorageValue implementations.
// Each accepts exactly its own DataType on read — none of the integer types
// have a "with unit" or widened-read variant in the format.

type Int8Value int8

func (Int8Value) NaturalType() DataType      { return DataTypeInt8 }
func (Int8Value) AcceptedTypes() []DataType  { return []DataType{DataTypeInt8} }
func (Int8Value) Size() int                  { return 1 }

type Int16Value int16

func (Int16Value) NaturalType() DataType     { return DataTypeInt16 }
func (Int16Value) AcceptedTypes() []DataType { return []DataType{DataTypeInt16} }
func (Int16Value) Size() int                 { return 2 }

type Int32Value int32

func (Int32Value) NaturalType() DataType     { return DataTypeInt32 }
func (Int32Value) AcceptedTypes() []DataType { return []DataType{DataTypeInt32} }
func (Int32Value) Size() int                 { return 4 }

type Int64Value int64

func (Int64Value) NaturalType() DataType     { return DataTypeInt64 }
func (Int64Value) AcceptedTypes() []DataType { return []DataType{DataTypeInt64} }
func (Int64Value) Size() int                 { return 8 }

type Uint8Value uint8

func (Uint8Value) NaturalType() DataType     { return DataTypeUint8 }
func (Uint8Value) AcceptedTypes() []DataType { return []DataType{DataTypeUint8} }
func (Uint8Value) Size() int                 { return 1 }

type Uint16Value uint16

func (Uint16Value) NaturalType() DataType     { return DataTypeUint16 }
func (Uint16Value) AcceptedTypes() []DataType { return []DataType{DataTypeUint16} }
func (Uint16Value) Size() int                 { return 2 }

type Uint32Value uint32

func (Uint32Value) NaturalType() DataType     { return DataTypeUint32 }
func (Uint32Value) AcceptedTypes() []DataType { return []DataType{DataTypeUint32} }
func (Uint32Value) Size() int                 { return 4 }

type Uint64Value uint64

func (Uint64Value) NaturalType() DataType     { return DataTypeUint64 }
func (Uint64Value) AcceptedTypes() []DataType { return []DataType{DataTypeUint64} }
func (Uint64Value) Size() int                 { return 8 }

// Float32Value's natural type is plain Float32, but it accepts the
// unit-tagged variant too — the spec's example of checked dispatch letting
// a plain-float StorageType read a unit-tagged DataType.
type Float32Value float32

func (Float32Value) NaturalType() DataType { return DataTypeFloat32 }
func (Float32Value) AcceptedTypes() []DataType {
	return []DataType{DataTypeFloat32, DataTypeFloat32WithUnit}
}
func (Float32Value) Size() int { return 4 }

type Float64Value float64

func (Float64Value) NaturalType() DataType { return DataTypeFloat64 }
func (Float64Value) AcceptedTypes() []DataType {
	return []DataType{DataTypeFloat64, DataTypeFloat64WithUnit}
}
func (Float64Value) Size() int { return 8 }

type Float128Value Float128

func (Float128Value) NaturalType() DataType { return DataTypeFloat128 }
func (Float128Value) AcceptedTypes() []DataType {
	return []DataType{DataTypeFloat128, DataTypeFloat128WithUnit}
}
func (Float128Value) Size() int { return 16 }

type StringValue string

func (StringValue) NaturalType() DataType     { return DataTypeString }
func (StringValue) AcceptedTypes() []DataType { return []DataType{DataTypeString} }
func (v StringValue) Size() int               { return stringWriteSize(string(v)) }

type BoolValue bool

func (BoolValue) NaturalType() DataType     { return DataTypeBool }
func (BoolValue) AcceptedTypes() []DataType { return []DataType{DataTypeBool} }
func (BoolValue) Size() int                 { return 1 }

type TimestampValue Timestamp

func (TimestampValue) NaturalType() DataType     { return DataTypeTimestamp }
func (TimestampValue) AcceptedTypes() []DataType { return []DataType{DataTypeTimestamp} }
func (TimestampValue) Size() int                 { return 16 }

type Complex64Value complex64

func (Complex64Value) NaturalType() DataType     { return DataTypeComplex64 }
func (Complex64Value) AcceptedTypes() []DataType { return []DataType{DataTypeComplex64} }
func (Complex64Value) Size() int                 { return 8 }

type Complex128Value complex128

func (Complex128Value) NaturalType() DataType     { return DataTypeComplex128 }
func (Complex128Value) AcceptedTypes() []DataType { return []DataType{DataTypeComplex128} }
func (Complex128Value) Size() int                 { return 16 }

// readValue decodes a single value of the given DataType, used for property
// values where the DataType is known only at runtime. Property reads accept
// exactly their own tag — the unit-tagged widening only applies to channel
// raw data, where the caller's StorageType choice drives acceptance.
func readValue(dt DataType, r io.Reader, order binary.ByteOrder) (any, error) {
	switch dt {
	case DataTypeVoid:
		return nil, nil
	case DataTypeInt8:
		return readInt8(r, order)
	case DataTypeInt16:
		return readInt16(r, order)
	case DataTypeInt32:
		return readInt32(r, order)
	case DataTypeInt64:
		return readInt64(r, order)
	case DataTypeUint8:
		return readUint8(r, order)
	case DataTypeUint16:
		return readUint16(r, order)
	case DataTypeUint32:
		return readUint32(r, order)
	case DataTypeUint64:
		return readUint64(r, order)
	case DataTypeFloat32, DataTypeFloat32WithUnit:
		return readFloat32(r, order)
	case DataTypeFloat64, DataTypeFloat64WithUnit:
		return readFloat64(r, order)
	case DataTypeFloat128, DataTypeFloat128WithUnit:
		return readFloat128(r, order)
	case DataTypeString:
		return readString(r, order)
	case DataTypeBool:
		return readBool(r, order)
	case DataTypeTimestamp:
		return readTimestamp(r, order)
	case DataTypeComplex64:
		return readComplex64(r, order)
	case DataTypeComplex128:
		return readComplex128(r, order)
	default:
		return nil, newUnknownDataTypeError(uint32(dt))
	}
}

// writeValue encodes a single property value using its DataType tag.
func writeValue(dt DataType, w io.Writer, order binary.ByteOrder, value any) error {
	switch dt {
	case DataTypeVoid:
		return nil
	case DataTypeInt8:
		return writeInt8(w, order, value.(int8))
	case DataTypeInt16:
		return writeInt16(w, order, value.(int16))
	case DataTypeInt32:
		return writeInt32(w, order, value.(int32))
	case DataTypeInt64:
		return writeInt64(w, order, value.(int64))
	case DataTypeUint8:
		return writeUint8(w, order, value.(uint8))
	case DataTypeUint16:
		return writeUint16(w, order, value.(uint16))
	case DataTypeUint32:
		return writeUint32(w, order, value.(uint32))
	case DataTypeUint64:
		return writeUint64(w, order, value.(uint64))
	case DataTypeFloat32, DataTypeFloat32WithUnit:
		return writeFloat32(w, order, value.(float32))
	case DataTypeFloat64, DataTypeFloat64WithUnit:
		return writeFloat64(w, order, value.(float64))
	case DataTypeFloat128, DataTypeFloat128WithUnit:
		return writeFloat128(w, order, value.(Float128))
	case DataTypeString:
		return writeString(w, order, value.(string))
	case DataTypeBool:
		return writeBool(w, order, value.(bool))
	case DataTypeTimestamp:
		return writeTimestamp(w, order, value.(Timestamp))
	case DataTypeComplex64:
		return writeComplex64(w, order, value.(complex64))
	case DataTypeComplex128:
		return writeComplex128(w, order, value.(complex128))
	default:
		return newUnknownDataTypeError(uint32(dt))
	}
}
