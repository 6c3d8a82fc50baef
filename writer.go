package tdms

import (
	"encoding/binary"
	"io"

	"github.com/oakmeadow/gotdms/internal/xfile"
)

// Layout selects how a segment's raw-data payload lays out more than one
// channel: contiguous writes each channel's whole array in turn, while
// interleaved writes record0(ch0, ch1, ...), record1(...), ... across all
// channels. A single-channel segment is unaffected by this choice.
type Layout int

const (
	LayoutContiguous Layout = iota
	LayoutInterleaved
)

// ChannelWrite is one channel's contribution to a written segment: its
// layout (for the raw-data-index record) plus the callbacks that stream the
// actual values. Encode streams the whole array and backs contiguous
// segments; EncodeAt writes a single record's value and backs interleaved
// segments. Both exist instead of a typed slice field so WriteSegment stays
// generic over value type; use [NewChannelWrite] to build one from a typed
// slice.
type ChannelWrite struct {
	Path           string
	DataType       DataType
	NumberOfValues uint64
	TotalSizeBytes uint64 // only meaningful for String
	Properties     []PropertyValue
	Encode         func(w io.Writer, order binary.ByteOrder) error
	EncodeAt       func(w io.Writer, order binary.ByteOrder, i int) error
}

// NewChannelWrite builds a ChannelWrite from a typed slice of values and
// the codec function that writes one value, e.g. writeFloat64.
func NewChannelWrite[T any](path string, dataType DataType, values []T, writeOne func(io.Writer, binary.ByteOrder, T) error) ChannelWrite {
	return ChannelWrite{
		Path:           path,
		DataType:       dataType,
		NumberOfValues: uint64(len(values)),
		Encode: func(w io.Writer, order binary.ByteOrder) error {
			for _, v := range values {
				if err := writeOne(w, order, v); err != nil {
					return err
				}
			}
			return nil
		},
		EncodeAt: func(w io.Writer, order binary.ByteOrder, i int) error {
			return writeOne(w, order, values[i])
		},
	}
}

// WriteChannels is the parallel-arrays entry point: one values slice per
// path, in the same order, written as a single segment. It mirrors the
// write_channels(paths, values, layout) shape directly, rejecting a
// mismatched paths/values count before [Writer.WriteSegment] ever gets to
// the layout-specific validation.
func WriteChannels[T any](wr *Writer, paths []string, values [][]T, dataType DataType, writeOne func(io.Writer, binary.ByteOrder, T) error, layout Layout, extraProperties map[string][]PropertyValue) error {
	if len(values) != len(paths) {
		return newWriteSliceLenMismatchError(len(values), len(paths))
	}
	channels := make([]ChannelWrite, len(paths))
	for i, p := range paths {
		channels[i] = NewChannelWrite(p, dataType, values[i], writeOne)
	}
	return wr.WriteSegment(channels, layout, extraProperties)
}

// NewStringChannelWrite builds a ChannelWrite for a String channel, whose
// raw-data-index record carries an extra total-byte-size field the other
// types don't need.
func NewStringChannelWrite(path string, values []string) ChannelWrite {
	total := uint64(0)
	for _, v := range values {
		total += uint64(len(v))
	}
	return ChannelWrite{
		Path:           path,
		DataType:       DataTypeString,
		NumberOfValues: uint64(len(values)),
		TotalSizeBytes: total,
		Encode: func(w io.Writer, order binary.ByteOrder) error {
			for _, v := range values {
				if err := writeString(w, order, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Writer appends TDMS segments to a destination, reusing FileScanner to
// track live layout so it can skip re-emitting metadata and a new object
// list when consecutive segments share the same channel set (spec §4.7).
type Writer struct {
	w       io.WriteSeeker
	scanner *FileScanner
	order   binary.ByteOrder
	offset  int64
	closer  io.Closer
}

// Create opens path for writing, truncating any existing file, and returns
// a Writer ready to accept segments. The caller must call [Writer.Close]
// when done.
func Create(path string, opts ...OptionFunc) (*Writer, error) {
	wsc, err := xfile.CreateForAppend(path)
	if err != nil {
		return nil, newIOError(err)
	}
	w, err := NewWriter(wsc, opts...)
	if err != nil {
		_ = wsc.Close()
		return nil, err
	}
	w.closer = wsc
	return w, nil
}

// NewWriter wraps an existing io.WriteSeeker, positioned at its start, as a
// segment writer. Use this over [Create] when the destination is something
// other than a plain file, e.g. an in-memory buffer in a test.
func NewWriter(w io.WriteSeeker, opts ...OptionFunc) (*Writer, error) {
	o := newDefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return nil, newIOError(err)
	}
	return &Writer{
		w:       w,
		scanner: NewFileScanner(0, o.logger),
		order:   o.byteOrder,
	}, nil
}

// Close closes the underlying destination if this Writer was created via
// [Create]. It is a no-op for Writers created via [NewWriter].
func (wr *Writer) Close() error {
	if wr.closer != nil {
		return wr.closer.Close()
	}
	return nil
}

// countingWriter tracks bytes written so WriteSegment can compute the
// lead-in's offsets without a second Seek(0, io.SeekCurrent) round trip.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteSegment appends one segment containing channels' data, plus any
// root- or group-level properties to attach to objects that carry no data
// of their own in this segment. It follows spec §4.7 step 2: a new object
// list is only emitted when the channel set or any channel's layout differs
// from what's already live; metadata is emitted in that case and also
// whenever any properties are passed, without comparing them to live ones.
//
// layout chooses how more than one channel's values interleave in the raw
// data payload; it has no effect when len(channels) < 2. Interleaved
// segments require every channel to carry the same number of values and
// forbid String channels, matching the block reader's own restriction.
func (wr *Writer) WriteSegment(channels []ChannelWrite, layout Layout, extraProperties map[string][]PropertyValue) error {
	if layout == LayoutInterleaved {
		if err := validateInterleavedWrite(channels); err != nil {
			return err
		}
	}

	candidatePaths := make([]string, len(channels))
	candidateMeta := make([]RawDataMeta, len(channels))
	for i, c := range channels {
		candidatePaths[i] = c.Path
		candidateMeta[i] = RawDataMeta{
			DataType:       c.DataType,
			NumberOfValues: c.NumberOfValues,
			TotalSizeBytes: c.TotalSizeBytes,
		}
	}

	layoutMatches := wr.scanner.MatchesLive(candidatePaths, candidateMeta)
	hasNewProperties := len(extraProperties) > 0
	for _, c := range channels {
		if len(c.Properties) > 0 {
			hasNewProperties = true
			break
		}
	}
	includeMetadata := !layoutMatches || hasNewProperties

	toc := TableOfContents{
		ContainsMetaData: includeMetadata,
		// A property-only call (no channels) never touches the active
		// object list, even though MatchesLive trivially returns false
		// against any non-empty live set — there's no layout to compare.
		ContainsNewObjectList: len(channels) > 0 && !layoutMatches,
		ContainsRawData:       len(channels) > 0,
		ContainsInterleaved:   layout == LayoutInterleaved && len(channels) > 1,
		ContainsBigEndian:     wr.order == binary.BigEndian,
	}

	segmentStart := wr.offset
	if _, err := wr.w.Seek(segmentStart, io.SeekStart); err != nil {
		return newIOError(err)
	}

	cw := &countingWriter{w: wr.w}
	if err := encodeLeadIn(cw, false, LeadIn{ToC: toc, Version: 4713}); err != nil {
		return err
	}

	var meta *SegmentMetaData
	if includeMetadata {
		meta = &SegmentMetaData{Objects: make([]ObjectMetaData, 0, len(channels)+len(extraProperties))}

		numObjects := len(channels)
		for path := range extraProperties {
			if !channelHasPath(channels, path) {
				numObjects++
			}
		}
		if err := writeUint32(cw, wr.order, uint32(numObjects)); err != nil {
			return err
		}

		for path, props := range extraProperties {
			if channelHasPath(channels, path) {
				continue
			}
			meta.Objects = append(meta.Objects, ObjectMetaData{
				Path:         path,
				Properties:   props,
				RawDataIndex: RawDataIndex{Kind: RawDataIndexNone},
			})
			if err := writeString(cw, wr.order, path); err != nil {
				return err
			}
			if err := writeUint32(cw, wr.order, rawIndexNone); err != nil {
				return err
			}
			if err := writePropertyList(cw, wr.order, props); err != nil {
				return err
			}
		}

		for i, c := range channels {
			props := c.Properties
			if extra, ok := extraProperties[c.Path]; ok {
				props = append(append([]PropertyValue{}, props...), extra...)
			}
			meta.Objects = append(meta.Objects, ObjectMetaData{
				Path:         c.Path,
				Properties:   props,
				RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: &candidateMeta[i]},
			})
			if err := encodeObjectMetaData(cw, wr.order, c.Path, candidateMeta[i], props); err != nil {
				return err
			}
		}
	} else {
		meta = &SegmentMetaData{}
	}

	rawDataOffset := uint64(cw.n) - leadInSize
	if toc.ContainsInterleaved {
		if err := encodeInterleaved(cw, wr.order, channels); err != nil {
			return err
		}
	} else {
		for _, c := range channels {
			if c.Encode == nil {
				continue
			}
			if err := c.Encode(cw, wr.order); err != nil {
				return err
			}
		}
	}
	nextSegmentOffset := uint64(cw.n) - leadInSize

	finalLeadIn := LeadIn{ToC: toc, Version: 4713, NextSegmentOffset: nextSegmentOffset, RawDataOffset: rawDataOffset}
	if _, err := wr.w.Seek(segmentStart, io.SeekStart); err != nil {
		return newIOError(err)
	}
	if err := encodeLeadIn(wr.w, false, finalLeadIn); err != nil {
		return err
	}

	endOffset := segmentStart + leadInSize + int64(nextSegmentOffset)
	if _, err := wr.w.Seek(endOffset, io.SeekStart); err != nil {
		return newIOError(err)
	}

	if err := wr.scanner.AddSegment(segmentStart, finalLeadIn, meta); err != nil {
		return err
	}
	wr.offset = endOffset
	return nil
}

// validateInterleavedWrite checks the two preconditions an interleaved
// payload needs before any bytes are written: no String channel (its
// records aren't fixed-width, so they can't be laid out record-at-a-time)
// and every channel contributing the same number of values (there's no
// record index past the shortest channel's last value).
func validateInterleavedWrite(channels []ChannelWrite) error {
	if len(channels) == 0 {
		return nil
	}
	want := channels[0].NumberOfValues
	for _, c := range channels {
		if c.DataType == DataTypeString {
			return newStringInInterleavedBlockError()
		}
		if c.NumberOfValues != want {
			return newInconsistentChannelLengthsError()
		}
	}
	return nil
}

// encodeInterleaved writes record0(ch0, ch1, ...), record1(...), ... across
// all channels, mirroring the order readInterleavedChannel expects to find
// on the way back in (planner.go / blockreader.go).
func encodeInterleaved(w io.Writer, order binary.ByteOrder, channels []ChannelWrite) error {
	if len(channels) == 0 {
		return nil
	}
	n := int(channels[0].NumberOfValues)
	for i := 0; i < n; i++ {
		for _, c := range channels {
			if c.EncodeAt == nil {
				continue
			}
			if err := c.EncodeAt(w, order, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func channelHasPath(channels []ChannelWrite, path string) bool {
	for _, c := range channels {
		if c.Path == path {
			return true
		}
	}
	return false
}

func writePropertyList(w io.Writer, order binary.ByteOrder, props []PropertyValue) error {
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
