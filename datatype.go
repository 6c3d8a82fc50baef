package tdms

import "fmt"

// DataType is the closed enumeration of on-disk type tags. Tags are not
// contiguous — they mirror the 32-bit values the format itself assigns them,
// not an ordinal index — so an unrecognized tag must be rejected rather than
// coerced into range.
type DataType uint32

const (
	DataTypeVoid DataType = iota
	DataTypeInt8
	DataTypeInt16
	DataTypeInt32
	DataTypeInt64
	DataTypeUint8
	DataTypeUint16
	DataTypeUint32
	DataTypeUint64
	DataTypeFloat32
	DataTypeFloat64
	DataTypeFloat128
	DataTypeFloat32WithUnit DataType = 0x19
	DataTypeFloat64WithUnit DataType = 0x1A
	DataTypeFloat128WithUnit DataType = 0x1B
	DataTypeString          DataType = 0x20
	DataTypeBool            DataType = 0x21
	DataTypeTimestamp       DataType = 0x44
	DataTypeFixedPoint      DataType = 0x4F
	DataTypeComplex64       DataType = 0x08000c
	DataTypeComplex128      DataType = 0x10000d
	DataTypeDAQmxRawData    DataType = 0xFFFFFFFF
)

// knownDataTypes lists every tag this library recognizes, for validation and
// for building descriptive "expected one of" error messages.
var knownDataTypes = []DataType{
	DataTypeVoid, DataTypeInt8, DataTypeInt16, DataTypeInt32, DataTypeInt64,
	DataTypeUint8, DataTypeUint16, DataTypeUint32, DataTypeUint64,
	DataTypeFloat32, DataTypeFloat64, DataTypeFloat128,
	DataTypeFloat32WithUnit, DataTypeFloat64WithUnit, DataTypeFloat128WithUnit,
	DataTypeString, DataTypeBool, DataTypeTimestamp, DataTypeFixedPoint,
	DataTypeComplex64, DataTypeComplex128, DataTypeDAQmxRawData,
}

// Known reports whether dt is one of the recognized tags.
func (dt DataType) Known() bool {
	for _, k := range knownDataTypes {
		if k == dt {
			return true
		}
	}
	return false
}

// Size returns the fixed per-value encoded size in bytes, or 0 for the
// variable-length String type and for Void, FixedPoint, DAQmxRawData and
// unrecognized tags, which have no fixed size here. Size is per-value, not
// per-array: for a string value, callers must additionally account for the
// 4-byte length prefix, which Size deliberately excludes since the prefix
// is a container concern, not a property of the type itself.
func (dt DataType) Size() int {
	switch dt {
	case DataTypeVoid, DataTypeString:
		return 0
	case DataTypeInt8, DataTypeUint8, DataTypeBool:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32, DataTypeFloat32WithUnit:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeFloat64, DataTypeFloat64WithUnit, DataTypeComplex64:
		return 8
	case DataTypeFloat128, DataTypeFloat128WithUnit, DataTypeComplex128, DataTypeTimestamp:
		return 16
	default:
		return 0
	}
}

func (dt DataType) String() string {
	switch dt {
	case DataTypeVoid:
		return "Void"
	case DataTypeInt8:
		return "Int8"
	case DataTypeInt16:
		return "Int16"
	case DataTypeInt32:
		return "Int32"
	case DataTypeInt64:
		return "Int64"
	case DataTypeUint8:
		return "Uint8"
	case DataTypeUint16:
		return "Uint16"
	case DataTypeUint32:
		return "Uint32"
	case DataTypeUint64:
		return "Uint64"
	case DataTypeFloat32:
		return "Float32"
	case DataTypeFloat64:
		return "Float64"
	case DataTypeFloat128:
		return "Float128"
	case DataTypeFloat32WithUnit:
		return "Float32WithUnit"
	case DataTypeFloat64WithUnit:
		return "Float64WithUnit"
	case DataTypeFloat128WithUnit:
		return "Float128WithUnit"
	case DataTypeString:
		return "String"
	case DataTypeBool:
		return "Boolean"
	case DataTypeTimestamp:
		return "Timestamp"
	case DataTypeFixedPoint:
		return "FixedPoint"
	case DataTypeComplex64:
		return "ComplexFloat64"
	case DataTypeComplex128:
		return "ComplexFloat128"
	case DataTypeDAQmxRawData:
		return "DAQmxRawData"
	default:
		return fmt.Sprintf("Unknown(0x%08X)", uint32(dt))
	}
}
