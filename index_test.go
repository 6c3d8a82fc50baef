package tdms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestIndex_BlockStartMonotonicity checks spec §8's index-monotonicity
// invariant across a scanner building several data-bearing segments.
func TestIndex_BlockStartMonotonicity(t *testing.T) {
	s := NewFileScanner(0, nil)
	segmentStart := int64(0)
	for i := 0; i < 4; i++ {
		leadIn := LeadIn{
			ToC: TableOfContents{
				ContainsMetaData:      i == 0,
				ContainsNewObjectList: i == 0,
				ContainsRawData:       true,
			},
			NextSegmentOffset: 100,
			RawDataOffset:     20,
		}
		var meta *SegmentMetaData
		if i == 0 {
			meta = &SegmentMetaData{Objects: []ObjectMetaData{
				{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(10)}},
			}}
		} else {
			meta = &SegmentMetaData{Objects: []ObjectMetaData{
				{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexMatchPrevious}},
			}}
		}
		require.NoError(t, s.AddSegment(segmentStart, leadIn, meta))
		segmentStart += int64(leadInSize) + int64(leadIn.NextSegmentOffset)
	}

	idx := s.IntoIndex()
	require.Equal(t, 4, idx.NumBlocks())
	first, _ := idx.Block(0)
	for i := 0; i < idx.NumBlocks()-1; i++ {
		a, _ := idx.Block(i)
		b, _ := idx.Block(i + 1)
		require.Less(t, a.Start, b.Start)
		if diff := cmp.Diff(first.Channels, b.Channels); diff != "" {
			t.Errorf("block %d channels drifted from block 0 via match-previous (-want +got):\n%s", i+1, diff)
		}
	}
}

// TestScanner_ActiveListUniqueness checks spec §8's active-list-uniqueness
// invariant: re-declaring an already-active object with MatchPrevious does
// not duplicate its active-list entry.
func TestScanner_ActiveListUniqueness(t *testing.T) {
	s := NewFileScanner(0, nil)
	require.NoError(t, s.AddSegment(0, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 100,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(10)}},
	}}))

	require.NoError(t, s.AddSegment(128, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsRawData: true},
		NextSegmentOffset: 100,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexMatchPrevious}},
	}}))

	active := s.ActiveObjects()
	require.Len(t, active, 1)
}

// TestIndex_PropertyMergeLastWriteWins checks spec §8's property-determinism
// invariant irrespective of insertion order.
func TestIndex_PropertyMergeLastWriteWins(t *testing.T) {
	s := NewFileScanner(0, nil)
	require.NoError(t, s.AddSegment(0, LeadIn{ToC: TableOfContents{ContainsMetaData: true}}, &SegmentMetaData{
		Objects: []ObjectMetaData{
			{Path: "/'g'", Properties: []PropertyValue{i32Prop("A", 1), i32Prop("B", 2)}, RawDataIndex: RawDataIndex{Kind: RawDataIndexNone}},
		},
	}))
	require.NoError(t, s.AddSegment(28, LeadIn{ToC: TableOfContents{ContainsMetaData: true}}, &SegmentMetaData{
		Objects: []ObjectMetaData{
			{Path: "/'g'", Properties: []PropertyValue{i32Prop("B", 20), i32Prop("A", 10)}, RawDataIndex: RawDataIndex{Kind: RawDataIndexNone}},
		},
	}))

	idx := s.IntoIndex()
	a, ok, err := idx.Property("/'g'", "A")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(10), a.Value)

	b, ok, err := idx.Property("/'g'", "B")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(20), b.Value)
}

func TestIndex_DigestDiffersOnLayoutChange(t *testing.T) {
	s := NewFileScanner(0, nil)
	require.NoError(t, s.AddSegment(0, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 100,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(10)}},
	}}))

	idx1 := s.IntoIndex()
	d1, err := idx1.Digest("/'g'/'ch'")
	require.NoError(t, err)

	s2 := NewFileScanner(0, nil)
	require.NoError(t, s2.AddSegment(0, LeadIn{
		ToC:               TableOfContents{ContainsMetaData: true, ContainsNewObjectList: true, ContainsRawData: true},
		NextSegmentOffset: 100,
		RawDataOffset:     20,
	}, &SegmentMetaData{Objects: []ObjectMetaData{
		{Path: "/'g'/'ch'", RawDataIndex: RawDataIndex{Kind: RawDataIndexRawData, RawData: doubleFloatMeta(20)}},
	}}))
	idx2 := s2.IntoIndex()
	d2, err := idx2.Digest("/'g'/'ch'")
	require.NoError(t, err)

	require.NotEqual(t, d1, d2)
}
