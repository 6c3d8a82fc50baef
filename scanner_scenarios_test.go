package tdms

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// These scenarios drive FileScanner.AddSegment directly against hand-built
// lead-ins and metadata, mirroring the reference scanner-state walkthrough
// step by step rather than decoding real segment bytes. AddSegment accepts
// segmentStart as a parameter for exactly this purpose.

func i32Prop(name string, v int32) PropertyValue {
	return PropertyValue{Name: name, Type: DataTypeInt32, Value: v}
}

func doubleFloatMeta(n uint64) *RawDataMeta {
	return &RawDataMeta{DataType: DataTypeFloat64, NumberOfValues: n}
}

func TestScanner_SingleSegmentTwoChannels(t *testing.T) {
	s := NewFileScanner(0, nil)

	leadIn := LeadIn{
		ToC: TableOfContents{
			ContainsMetaData:      true,
			ContainsNewObjectList: true,
			ContainsRawData:       true,
		},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}
	meta := &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'", Properties: []PropertyValue{i32Prop("Prop", -51)}, RawDataIndex: RawDataIndex{Kind: RawDataIndexNone}},
		{Path: "/'group'/'ch1'", Properties: []PropertyValue{i32Prop("Prop1", -1)},
			RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
		{Path: "/'group'/'ch2'", Properties: []PropertyValue{i32Prop("Prop2", -2)},
			RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
	}}

	require.NoError(t, s.AddSegment(0, leadIn, meta))

	idx := s.IntoIndex()
	require.Equal(t, 1, idx.NumBlocks())

	block, ok := idx.Block(0)
	require.True(t, ok)
	require.Equal(t, int64(48), block.Start)
	require.Equal(t, int64(480), block.Length)
	require.False(t, block.Interleaved)
	require.Equal(t, binary.LittleEndian, block.ByteOrder)
	require.Len(t, block.Channels, 2)

	ch1Locs, err := idx.Locations("/'group'/'ch1'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 0}}, ch1Locs)

	ch2Locs, err := idx.Locations("/'group'/'ch2'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 1}}, ch2Locs)
}

func TestScanner_MatchPreviousContinuation(t *testing.T) {
	s := NewFileScanner(0, nil)
	require.NoError(t, s.AddSegment(0, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'/'ch1'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
		{Path: "/'group'/'ch2'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
	}}))

	// Second segment: ToC=0xA (meta + raw data, no new object list), both
	// objects MatchPrevious.
	require.NoError(t, s.AddSegment(528, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'/'ch1'", RawDataIndex: RawDataIndex{Kind: RawDataIndexMatchPrevious}},
		{Path: "/'group'/'ch2'", RawDataIndex: RawDataIndex{Kind: RawDataIndexMatchPrevious}},
	}}))

	idx := s.IntoIndex()
	require.Equal(t, 2, idx.NumBlocks())

	block, ok := idx.Block(1)
	require.True(t, ok)
	require.Equal(t, int64(576), block.Start)
	require.Equal(t, int64(480), block.Length)

	block0, _ := idx.Block(0)
	require.Equal(t, block0.Channels, block.Channels)

	ch1Locs, err := idx.Locations("/'group'/'ch1'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 0}, {BlockIndex: 1, ChannelIndex: 0}}, ch1Locs)
}

func TestScanner_MetaOnlyPropertyUpdate(t *testing.T) {
	s := baseTwoChannelScanner(t)

	require.NoError(t, s.AddSegment(528, LeadIn{
		ToC: TableOfContents{ContainsMetaData: true},
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'", Properties: []PropertyValue{i32Prop("Prop", -52)}, RawDataIndex: RawDataIndex{Kind: RawDataIndexNone}},
		{Path: "/'group'/'ch1'", Properties: []PropertyValue{i32Prop("Prop1", -2)}, RawDataIndex: RawDataIndex{Kind: RawDataIndexNone}},
	}}))

	idx := s.IntoIndex()
	require.Equal(t, 1, idx.NumBlocks())

	_, ok := idx.Block(1)
	require.False(t, ok)

	v, ok, err := idx.Property("/'group'", "Prop")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(-52), v.Value)

	v1, ok, err := idx.Property("/'group'/'ch1'", "Prop1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(-2), v1.Value)
}

func TestScanner_NewObjectAddedMidFile(t *testing.T) {
	s := baseTwoChannelScanner(t)

	require.NoError(t, s.AddSegment(528, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'/'ch3'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
	}}))

	idx := s.IntoIndex()
	block, ok := idx.Block(1)
	require.True(t, ok)
	require.Len(t, block.Channels, 3)

	ch3Locs, err := idx.Locations("/'group'/'ch3'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 1, ChannelIndex: 2}}, ch3Locs)

	ch1Locs, err := idx.Locations("/'group'/'ch1'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 0}, {BlockIndex: 1, ChannelIndex: 0}}, ch1Locs)

	ch2Locs, err := idx.Locations("/'group'/'ch2'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 1}, {BlockIndex: 1, ChannelIndex: 1}}, ch2Locs)
}

func TestScanner_NewObjectListReplaces(t *testing.T) {
	s := baseTwoChannelScanner(t)

	require.NoError(t, s.AddSegment(528, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'/'ch3'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
	}}))

	idx := s.IntoIndex()
	block, ok := idx.Block(1)
	require.True(t, ok)
	require.Len(t, block.Channels, 1)

	ch1Locs, err := idx.Locations("/'group'/'ch1'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 0}}, ch1Locs)

	ch2Locs, err := idx.Locations("/'group'/'ch2'")
	require.NoError(t, err)
	require.Equal(t, []DataLocation{{BlockIndex: 0, ChannelIndex: 1}}, ch2Locs)
}

func TestScanner_EmptyObjectListWithRawData(t *testing.T) {
	s := baseTwoChannelScanner(t)

	require.NoError(t, s.AddSegment(528, LeadIn{
		ToC:               TableOfContents{ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{}))

	require.Equal(t, []string{"/'group'/'ch1'", "/'group'/'ch2'"}, s.ActiveObjects())
	idx := s.IntoIndex()

	block, ok := idx.Block(1)
	require.True(t, ok)
	require.Len(t, block.Channels, 2)

	ch1Locs, err := idx.Locations("/'group'/'ch1'")
	require.NoError(t, err)
	require.Len(t, ch1Locs, 2)

	ch2Locs, err := idx.Locations("/'group'/'ch2'")
	require.NoError(t, err)
	require.Len(t, ch2Locs, 2)
}

// baseTwoChannelScanner seeds a scanner with one committed segment holding
// two active Float64 channels, for scenarios that build on that base state.
func baseTwoChannelScanner(t *testing.T) *FileScanner {
	t.Helper()
	s := NewFileScanner(0, nil)
	require.NoError(t, s.AddSegment(0, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 500,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'group'/'ch1'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
		{Path: "/'group'/'ch2'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(1000)}},
	}}))
	return s
}
