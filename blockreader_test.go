package tdms

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataBlock_ReadContiguous(t *testing.T) {
	var buf bytes.Buffer
	ch0 := []int32{10, 20, 30, 40}
	ch1 := []float64{1.5, 2.5, 3.5, 4.5}
	for _, v := range ch0 {
		require.NoError(t, writeInt32(&buf, binary.LittleEndian, v))
	}
	for _, v := range ch1 {
		require.NoError(t, writeFloat64(&buf, binary.LittleEndian, v))
	}

	block := DataBlock{
		Start:     0,
		Length:    int64(buf.Len()),
		ByteOrder: binary.LittleEndian,
		Channels: []RawDataMeta{
			{DataType: DataTypeInt32, NumberOfValues: 4},
			{DataType: DataTypeFloat64, NumberOfValues: 4},
		},
	}
	source := bytes.NewReader(buf.Bytes())

	out0 := make([]int32, 4)
	out1 := make([]float64, 4)
	n, err := block.Read(source, []ChannelRequest{
		{ChannelIndex: 0, Sink: NewTypedSink(out0, DataTypeInt32.Size(), interpretInt32)},
		{ChannelIndex: 1, Sink: NewTypedSink(out1, DataTypeFloat64.Size(), interpretFloat64)},
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, ch0, out0)
	require.Equal(t, ch1, out1)
}

func TestDataBlock_ReadSingleWithSkip(t *testing.T) {
	var buf bytes.Buffer
	values := []int32{1, 2, 3, 4, 5}
	for _, v := range values {
		require.NoError(t, writeInt32(&buf, binary.LittleEndian, v))
	}

	block := DataBlock{
		Start:     0,
		Length:    int64(buf.Len()),
		ByteOrder: binary.LittleEndian,
		Channels:  []RawDataMeta{{DataType: DataTypeInt32, NumberOfValues: 5}},
	}
	source := bytes.NewReader(buf.Bytes())

	out := make([]int32, 2)
	n, err := block.Read(source, []ChannelRequest{
		{ChannelIndex: 0, Sink: NewTypedSink(out, DataTypeInt32.Size(), interpretInt32), Skip: 3},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []int32{4, 5}, out)
}

func TestDataBlock_ReadInterleaved(t *testing.T) {
	var buf bytes.Buffer
	records := [][2]int32{{1, 100}, {2, 200}, {3, 300}}
	for _, r := range records {
		require.NoError(t, writeInt32(&buf, binary.LittleEndian, r[0]))
		require.NoError(t, writeInt32(&buf, binary.LittleEndian, r[1]))
	}

	block := DataBlock{
		Start:       0,
		Length:      int64(buf.Len()),
		Interleaved: true,
		ByteOrder:   binary.LittleEndian,
		Channels: []RawDataMeta{
			{DataType: DataTypeInt32, NumberOfValues: 3},
			{DataType: DataTypeInt32, NumberOfValues: 3},
		},
	}
	source := bytes.NewReader(buf.Bytes())

	out1 := make([]int32, 3)
	n, err := block.ReadSingle(source, 1, NewTypedSink(out1, DataTypeInt32.Size(), interpretInt32))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []int32{100, 200, 300}, out1)
}

func TestDataBlock_ReadInterleavedRejectsString(t *testing.T) {
	block := DataBlock{
		Interleaved: true,
		Channels: []RawDataMeta{
			{DataType: DataTypeString, NumberOfValues: 1},
		},
	}
	_, err := block.ReadSingle(bytes.NewReader(nil), 0, NewTypedSink(make([]string, 1), 0, interpretString))
	require.Error(t, err)
}

func TestDataBlock_ReadContiguousStringsWithSkip(t *testing.T) {
	var buf bytes.Buffer
	values := []string{"aa", "bbb", "c"}
	order := binary.LittleEndian

	var offset uint32
	for _, v := range values {
		offset += uint32(len(v))
		require.NoError(t, writeUint32(&buf, order, offset))
	}
	for _, v := range values {
		buf.WriteString(v)
	}

	block := DataBlock{
		Start:     0,
		Length:    int64(buf.Len()),
		ByteOrder: order,
		Channels:  []RawDataMeta{{DataType: DataTypeString, NumberOfValues: 3, TotalSizeBytes: uint64(offset)}},
	}
	source := bytes.NewReader(buf.Bytes())

	out := make([]string, 2)
	n, err := block.Read(source, []ChannelRequest{
		{ChannelIndex: 0, Sink: NewTypedSink(out, 0, interpretString), Skip: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"bbb", "c"}, out)
}

// TestDataBlock_PlanCompleteness checks spec §8's plan-completeness
// invariant: read_single on a contiguous block with equal-length channels
// returns min(N, len(buf)).
func TestDataBlock_PlanCompleteness(t *testing.T) {
	var buf bytes.Buffer
	for i := int32(0); i < 10; i++ {
		require.NoError(t, writeInt32(&buf, binary.LittleEndian, i))
	}

	block := DataBlock{
		Start:     0,
		Length:    int64(buf.Len()),
		ByteOrder: binary.LittleEndian,
		Channels:  []RawDataMeta{{DataType: DataTypeInt32, NumberOfValues: 10}},
	}
	source := bytes.NewReader(buf.Bytes())

	out := make([]int32, 4)
	n, err := block.ReadSingle(source, 0, NewTypedSink(out, DataTypeInt32.Size(), interpretInt32))
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
