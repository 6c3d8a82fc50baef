package tdms

import (
	"encoding/binary"
	"io"
)

// Raw-data-index discriminator values. These are read with the segment's
// payload byte order even though they're usually reasoned about as
// little-endian constants in the documentation — the format says the whole
// metadata block, discriminator included, follows the ToC's endianness.
const (
	rawIndexNone            uint32 = 0xFFFFFFFF
	rawIndexMatchPrevious   uint32 = 0x00000000
	rawIndexDAQmxFormatChanging uint32 = 0x00001269
	rawIndexDAQmxDigitalLine    uint32 = 0x00001369
)

// RawDataIndexKind is the closed set of raw-data-index variants a decoded
// object can carry in a given segment.
type RawDataIndexKind int

const (
	RawDataIndexNone RawDataIndexKind = iota
	RawDataIndexMatchPrevious
	RawDataIndexRawData
	RawDataIndexDAQmx
)

// DAQmxScalerKind distinguishes the two DAQmx raw-data-index variants this
// library recognizes and skips without interpreting.
type DAQmxScalerKind int

const (
	DAQmxScalerNone DAQmxScalerKind = iota
	DAQmxScalerFormatChanging
	DAQmxScalerDigitalLine
)

// DAQmxScaler is one entry of a DAQmx raw-data-index's scaler array. The
// format's documentation of these fields is notoriously thin; they are
// recorded verbatim and never interpreted by this library.
type DAQmxScaler struct {
	DataType                  DataType
	RawBufferIndex            uint32
	RawByteOffsetWithinStride uint32
	SampleFormatBitmap        uint32
	ScaleID                   uint32
}

// RawDataMeta describes one channel's raw-data layout for a segment: its
// element type, value count, and (for DAQmx data) the scaler/width arrays
// needed to compute payload stride without interpreting channel meaning.
type RawDataMeta struct {
	DataType       DataType
	NumberOfValues uint64

	// TotalSizeBytes is populated from the file for variable-length types
	// (currently only String); for fixed-width types it is derived.
	TotalSizeBytes uint64

	ScalerKind DAQmxScalerKind
	Scalers    []DAQmxScaler
	Widths     []uint32
}

// TotalSize is the total encoded byte length of this channel's data for one
// chunk: number_of_values * element_size, or the on-disk TotalSizeBytes for
// variable-length types.
func (m RawDataMeta) TotalSize() uint64 {
	if m.DataType == DataTypeString {
		return m.TotalSizeBytes
	}
	return m.NumberOfValues * uint64(m.DataType.Size())
}

// RawDataIndex is the per-object, per-segment raw-data-index variant
// decoded from the metadata block.
type RawDataIndex struct {
	Kind    RawDataIndexKind
	RawData *RawDataMeta // non-nil for RawDataIndexRawData and RawDataIndexDAQmx
}

// PropertyValue is one (name, typed value) pair attached to an object.
// Properties preserve first-seen order within a single object's metadata
// record; merging across segments is last-write-wins (spec invariant 6) and
// does not have to preserve that order.
type PropertyValue struct {
	Name  string
	Type  DataType
	Value any
}

// ObjectMetaData is one object's metadata record within a single segment.
type ObjectMetaData struct {
	Path         string
	Properties   []PropertyValue
	RawDataIndex RawDataIndex
}

// SegmentMetaData is the decoded metadata block of one segment.
type SegmentMetaData struct {
	Objects []ObjectMetaData
}

// decodeSegmentMetadata decodes the metadata block that follows the lead-in
// when ContainsMetaData is set. order is the segment's PayloadOrder.
func decodeSegmentMetadata(r io.Reader, order binary.ByteOrder) (*SegmentMetaData, error) {
	numObjects, err := readUint32(r, order)
	if err != nil {
		return nil, err
	}

	meta := &SegmentMetaData{Objects: make([]ObjectMetaData, 0, numObjects)}
	for i := uint32(0); i < numObjects; i++ {
		obj, err := decodeObjectMetaData(r, order)
		if err != nil {
			return nil, err
		}
		meta.Objects = append(meta.Objects, *obj)
	}

	return meta, nil
}

func decodeObjectMetaData(r io.Reader, order binary.ByteOrder) (*ObjectMetaData, error) {
	path, err := readString(r, order)
	if err != nil {
		return nil, err
	}

	header, err := readUint32(r, order)
	if err != nil {
		return nil, err
	}

	obj := &ObjectMetaData{Path: path}

	switch header {
	case rawIndexNone:
		obj.RawDataIndex = RawDataIndex{Kind: RawDataIndexNone}
	case rawIndexMatchPrevious:
		obj.RawDataIndex = RawDataIndex{Kind: RawDataIndexMatchPrevious}
	case rawIndexDAQmxFormatChanging:
		meta, err := decodeRawDataMetaBase(r, order)
		if err != nil {
			return nil, err
		}
		meta.ScalerKind = DAQmxScalerFormatChanging
		if err := decodeDAQmxScalersAndWidths(r, order, meta); err != nil {
			return nil, err
		}
		obj.RawDataIndex = RawDataIndex{Kind: RawDataIndexDAQmx, RawData: meta}
	case rawIndexDAQmxDigitalLine:
		meta, err := decodeRawDataMetaBase(r, order)
		if err != nil {
			return nil, err
		}
		meta.ScalerKind = DAQmxScalerDigitalLine
		if err := decodeDAQmxScalersAndWidths(r, order, meta); err != nil {
			return nil, err
		}
		obj.RawDataIndex = RawDataIndex{Kind: RawDataIndexDAQmx, RawData: meta}
	default:
		// Any other value is the (historically meaningless, always 20)
		// length of an ordinary raw-data-index record.
		meta, err := decodeRawDataMetaBase(r, order)
		if err != nil {
			return nil, err
		}

		if meta.DataType == DataTypeString {
			total, err := readUint64(r, order)
			if err != nil {
				return nil, err
			}
			meta.TotalSizeBytes = total
		}

		obj.RawDataIndex = RawDataIndex{Kind: RawDataIndexRawData, RawData: meta}
	}

	numProps, err := readUint32(r, order)
	if err != nil {
		return nil, err
	}

	obj.Properties = make([]PropertyValue, 0, numProps)
	for i := uint32(0); i < numProps; i++ {
		name, err := readString(r, order)
		if err != nil {
			return nil, err
		}

		typeTag, err := readUint32(r, order)
		if err != nil {
			return nil, err
		}
		dt := DataType(typeTag)

		value, err := readValue(dt, r, order)
		if err != nil {
			return nil, err
		}

		obj.Properties = append(obj.Properties, PropertyValue{Name: name, Type: dt, Value: value})
	}

	return obj, nil
}

// decodeRawDataMetaBase decodes the common 16-byte raw-data-index body:
// data_type, array_dimension (must be 1), number_of_values.
func decodeRawDataMetaBase(r io.Reader, order binary.ByteOrder) (*RawDataMeta, error) {
	typeTag, err := readUint32(r, order)
	if err != nil {
		return nil, err
	}
	dt := DataType(typeTag)
	if !dt.Known() {
		return nil, newUnknownDataTypeError(typeTag)
	}

	dimension, err := readUint32(r, order)
	if err != nil {
		return nil, err
	}
	if dimension != 1 {
		return nil, newUnsupportedArrayDimError(dimension)
	}

	numValues, err := readUint64(r, order)
	if err != nil {
		return nil, err
	}

	return &RawDataMeta{DataType: dt, NumberOfValues: numValues}, nil
}

func decodeDAQmxScalersAndWidths(r io.Reader, order binary.ByteOrder, meta *RawDataMeta) error {
	numScalers, err := readUint32(r, order)
	if err != nil {
		return err
	}

	meta.Scalers = make([]DAQmxScaler, numScalers)
	for i := range meta.Scalers {
		typeTag, err := readUint32(r, order)
		if err != nil {
			return err
		}
		rawBufferIndex, err := readUint32(r, order)
		if err != nil {
			return err
		}
		rawByteOffset, err := readUint32(r, order)
		if err != nil {
			return err
		}
		sampleFormatBitmap, err := readUint32(r, order)
		if err != nil {
			return err
		}
		scaleID, err := readUint32(r, order)
		if err != nil {
			return err
		}

		meta.Scalers[i] = DAQmxScaler{
			DataType:                  DataType(typeTag),
			RawBufferIndex:            rawBufferIndex,
			RawByteOffsetWithinStride: rawByteOffset,
			SampleFormatBitmap:        sampleFormatBitmap,
			ScaleID:                   scaleID,
		}
	}

	numWidths, err := readUint32(r, order)
	if err != nil {
		return err
	}

	meta.Widths = make([]uint32, numWidths)
	for i := range meta.Widths {
		w, err := readUint32(r, order)
		if err != nil {
			return err
		}
		meta.Widths[i] = w
	}

	return nil
}

// encodeObjectMetaData writes one object's metadata record using the
// RawData variant only — the writer never emits MatchPrevious, None, or
// DAQmx records; those only ever arise from decoding pre-existing files.
func encodeObjectMetaData(w io.Writer, order binary.ByteOrder, path string, meta RawDataMeta, props []PropertyValue) error {
	if err := writeString(w, order, path); err != nil {
		return err
	}

	// The header value is historically meaningless for ordinary raw data;
	// 20 matches what every known writer, including this one, emits.
	if err := writeUint32(w, order, 20); err != nil {
		return err
	}
	if err := writeUint32(w, order, uint32(meta.DataType)); err != nil {
		return err
	}
	if err := writeUint32(w, order, 1); err != nil {
		return err
	}
	if err := writeUint64(w, order, meta.NumberOfValues); err != nil {
		return err
	}
	if meta.DataType == DataTypeString {
		if err := writeUint64(w, order, meta.TotalSizeBytes); err != nil {
			return err
		}
	}

	if err := writeUint32(w, order, uint32(len(props))); err != nil {
		return err
	}
	for _, p := range props {
		if err := writeString(w, order, p.Name); err != nil {
			return err
		}
		if err := writeUint32(w, order, uint32(p.Type)); err != nil {
			return err
		}
		if err := writeValue(p.Type, w, order, p.Value); err != nil {
			return err
		}
	}

	return nil
}
