package tdms

import "encoding/binary"

// ChannelSink is the write-end of a planned channel read: something that
// can accept up to Cap() decoded values of a known per-element byte size.
// TypedSink is the only implementation most callers need; the interface
// exists so the planner and block readers stay independent of the
// compile-time value type T.
type ChannelSink interface {
	// Size is the number of bytes this sink decodes per element.
	Size() int

	// Cap is the maximum number of elements this sink can accept.
	Cap() int

	// DecodeAt decodes raw (Size()-byte, or variable-length for strings)
	// bytes into element i of the sink's backing storage.
	DecodeAt(i int, raw []byte, order binary.ByteOrder)
}

// interpreter converts one element's raw bytes into a value of type T. It
// is the same shape the teacher's stream reader used, kept because it lets
// the byte-to-value conversion stay a plain, inlinable function rather than
// a virtual call.
type interpreter[T any] func([]byte, binary.ByteOrder) T

// TypedSink is the generic ChannelSink every typed Read call uses: a
// caller-owned output slice plus the interpreter for its element type. This
// is the codec's "polymorphic without dynamic dispatch" design (spec §9)
// applied to the read side — DataType selects, at call sites that know T,
// which concrete interpreter to pass; TypedSink itself never switches on
// DataType.
type TypedSink[T any] struct {
	Out       []T
	ElemSize  int
	Interpret interpreter[T]
}

// NewTypedSink builds a sink over out using interpret to decode each
// element. elemSize is the on-disk size of one element (DataType.Size());
// pass 0 for variable-length types such as String, where the block reader
// computes per-element bounds itself from the embedded offset table.
func NewTypedSink[T any](out []T, elemSize int, interpret interpreter[T]) *TypedSink[T] {
	return &TypedSink[T]{Out: out, ElemSize: elemSize, Interpret: interpret}
}

func (s *TypedSink[T]) Size() int { return s.ElemSize }
func (s *TypedSink[T]) Cap() int  { return len(s.Out) }
func (s *TypedSink[T]) DecodeAt(i int, raw []byte, order binary.ByteOrder) {
	s.Out[i] = s.Interpret(raw, order)
}

// ChannelRequest pairs a block-local channel index with the sink that
// should receive its decoded values. Skip lets a caller resume a block it
// has already partially consumed, without re-decoding the values it
// already has — this is what lets the batch streaming readers keep a
// bounded memory footprint over an arbitrarily large block.
type ChannelRequest struct {
	ChannelIndex int
	Sink         ChannelSink
	Skip         int
}

// plannedChannelRead is one channel's computed read operation within a
// block: where its data starts and how to decode it, resolved ahead of any
// I/O so the block reader is pure execution.
type plannedChannelRead struct {
	channelIndex   int
	dataType       DataType
	numberOfValues uint64
	elementSize    int
	blockOffset    int64 // contiguous: byte offset from block.Start
	recordOffset   int64 // interleaved: byte offset within one record
	skip           int
	sink           ChannelSink
}

// readPlan is the output of planning a DataBlock.Read call.
type readPlan struct {
	block       DataBlock
	interleaved bool
	recordSize  int64
	recordCount uint64
	reads       []plannedChannelRead
}

// planBlockRead computes the read plan for requests against block, per
// spec §4.5. Dispatch is a 2x2 matrix over {contiguous, interleaved} x
// {little, big} — the endianness half of that matrix is resolved later, at
// execution time, from block.ByteOrder; only the layout half changes the
// shape of the plan itself.
func planBlockRead(block DataBlock, requests []ChannelRequest) (*readPlan, error) {
	for _, req := range requests {
		if req.ChannelIndex < 0 || req.ChannelIndex >= len(block.Channels) {
			return nil, newMissingObjectError("<channel index out of range>")
		}
	}

	if block.Interleaved {
		return planInterleaved(block, requests)
	}
	return planContiguous(block, requests)
}

func planContiguous(block DataBlock, requests []ChannelRequest) (*readPlan, error) {
	offsets := make([]int64, len(block.Channels))
	var acc int64
	for i, ch := range block.Channels {
		offsets[i] = acc
		acc += int64(ch.TotalSize())
	}

	reads := make([]plannedChannelRead, 0, len(requests))
	for _, req := range requests {
		ch := block.Channels[req.ChannelIndex]
		reads = append(reads, plannedChannelRead{
			channelIndex:   req.ChannelIndex,
			dataType:       ch.DataType,
			numberOfValues: ch.NumberOfValues,
			elementSize:    ch.DataType.Size(),
			blockOffset:    offsets[req.ChannelIndex],
			skip:           req.Skip,
			sink:           req.Sink,
		})
	}

	return &readPlan{block: block, reads: reads}, nil
}

func planInterleaved(block DataBlock, requests []ChannelRequest) (*readPlan, error) {
	var recordSize int64
	offsets := make([]int64, len(block.Channels))
	for i, ch := range block.Channels {
		if ch.DataType == DataTypeString {
			return nil, newStringInInterleavedBlockError()
		}
		offsets[i] = recordSize
		recordSize += int64(ch.DataType.Size())
	}

	reads := make([]plannedChannelRead, 0, len(requests))
	for _, req := range requests {
		ch := block.Channels[req.ChannelIndex]
		reads = append(reads, plannedChannelRead{
			channelIndex:   req.ChannelIndex,
			dataType:       ch.DataType,
			numberOfValues: ch.NumberOfValues,
			elementSize:    ch.DataType.Size(),
			recordOffset:   offsets[req.ChannelIndex],
			skip:           req.Skip,
			sink:           req.Sink,
		})
	}

	return &readPlan{
		block:       block,
		interleaved: true,
		recordSize:  recordSize,
		recordCount: minRecordCount(block.Channels),
		reads:       reads,
	}, nil
}

func minRecordCount(channels []RawDataMeta) uint64 {
	if len(channels) == 0 {
		return 0
	}
	m := channels[0].NumberOfValues
	for _, c := range channels[1:] {
		if c.NumberOfValues < m {
			m = c.NumberOfValues
		}
	}
	return m
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
