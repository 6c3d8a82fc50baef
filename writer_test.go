package tdms

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_WriteThenReadBackSingleSegment(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	values1 := []float64{1, 2, 3, 4}
	values2 := []float64{10, 20, 30, 40}
	channels := []ChannelWrite{
		NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, values1, writeFloat64),
		NewChannelWrite("/'group'/'ch2'", DataTypeFloat64, values2, writeFloat64),
	}

	require.NoError(t, wr.WriteSegment(channels, LayoutContiguous, nil))

	f, err := New(bytes.NewReader(dest.Bytes()), false, int64(dest.Len()))
	require.NoError(t, err)

	ch1 := f.Groups["group"].Channels["ch1"]
	require.Equal(t, DataTypeFloat64, ch1.DataType)
	require.Equal(t, uint64(4), ch1.NumValues())

	got := make([]float64, 0, 4)
	for v, err := range ch1.ReadDataAsFloat64() {
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, values1, got)

	ch2 := f.Groups["group"].Channels["ch2"]
	got2 := make([]float64, 0, 4)
	for v, err := range ch2.ReadDataAsFloat64() {
		require.NoError(t, err)
		got2 = append(got2, v)
	}
	require.Equal(t, values2, got2)
}

func TestWriter_SkipsMetadataWhenLayoutUnchanged(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	channels := func(v []float64) []ChannelWrite {
		return []ChannelWrite{NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, v, writeFloat64)}
	}

	require.NoError(t, wr.WriteSegment(channels([]float64{1, 2}), LayoutContiguous, nil))
	require.NoError(t, wr.WriteSegment(channels([]float64{3, 4}), LayoutContiguous, nil))

	f, err := New(bytes.NewReader(dest.Bytes()), false, int64(dest.Len()))
	require.NoError(t, err)

	ch1 := f.Groups["group"].Channels["ch1"]
	locs, err := f.idx.Locations(ch1.path)
	require.NoError(t, err)
	require.Len(t, locs, 2)

	got := make([]float64, 0, 4)
	for v, err := range ch1.ReadDataAsFloat64() {
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []float64{1, 2, 3, 4}, got)
}

func TestWriter_InterleavedLayoutRoundTrips(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	values1 := []float64{1, 2, 3, 4}
	values2 := []float64{10, 20, 30, 40}
	channels := []ChannelWrite{
		NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, values1, writeFloat64),
		NewChannelWrite("/'group'/'ch2'", DataTypeFloat64, values2, writeFloat64),
	}

	require.NoError(t, wr.WriteSegment(channels, LayoutInterleaved, nil))

	raw := dest.Bytes()
	require.Equal(t, byte(0x2|0x4|0x8|0x20), raw[4], "ToC must carry ContainsInterleaved alongside metadata, new-object-list, and raw data")

	f, err := New(bytes.NewReader(raw), false, int64(len(raw)))
	require.NoError(t, err)

	ch1 := f.Groups["group"].Channels["ch1"]
	got1 := make([]float64, 0, 4)
	for v, err := range ch1.ReadDataAsFloat64() {
		require.NoError(t, err)
		got1 = append(got1, v)
	}
	require.Equal(t, values1, got1)

	ch2 := f.Groups["group"].Channels["ch2"]
	got2 := make([]float64, 0, 4)
	for v, err := range ch2.ReadDataAsFloat64() {
		require.NoError(t, err)
		got2 = append(got2, v)
	}
	require.Equal(t, values2, got2)
}

func TestWriter_InterleavedRejectsMismatchedLengths(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	channels := []ChannelWrite{
		NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, []float64{1, 2, 3}, writeFloat64),
		NewChannelWrite("/'group'/'ch2'", DataTypeFloat64, []float64{1, 2}, writeFloat64),
	}

	err = wr.WriteSegment(channels, LayoutInterleaved, nil)
	require.ErrorIs(t, err, ErrInconsistentChannelLengths)
}

func TestWriter_InterleavedRejectsStringChannel(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	channels := []ChannelWrite{
		NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, []float64{1, 2}, writeFloat64),
		NewStringChannelWrite("/'group'/'ch2'", []string{"a", "b"}),
	}

	err = wr.WriteSegment(channels, LayoutInterleaved, nil)
	require.ErrorIs(t, err, ErrStringInInterleavedBlock)
}

func TestWriter_PropertyOnlySegmentKeepsActiveListStable(t *testing.T) {
	var dest bytes.Buffer
	wr, err := NewWriter(&nopWriteSeeker{buf: &dest})
	require.NoError(t, err)

	channels := []ChannelWrite{
		NewChannelWrite("/'group'/'ch1'", DataTypeFloat64, []float64{1, 2}, writeFloat64),
		NewChannelWrite("/'group'/'ch2'", DataTypeFloat64, []float64{10, 20}, writeFloat64),
	}
	require.NoError(t, wr.WriteSegment(channels, LayoutContiguous, nil))
	require.ElementsMatch(t, []string{"/'group'/'ch1'", "/'group'/'ch2'"}, wr.scanner.ActiveObjects())

	require.NoError(t, wr.WriteSegment(nil, LayoutContiguous, map[string][]PropertyValue{
		"/'group'": {{Name: "Stage", Type: DataTypeString, Value: "final"}},
	}))
	require.ElementsMatch(t, []string{"/'group'/'ch1'", "/'group'/'ch2'"}, wr.scanner.ActiveObjects())

	require.NoError(t, wr.WriteSegment(channels, LayoutContiguous, nil))

	f, err := New(bytes.NewReader(dest.Bytes()), false, int64(dest.Len()))
	require.NoError(t, err)
	ch1 := f.Groups["group"].Channels["ch1"]
	locs, err := f.idx.Locations(ch1.path)
	require.NoError(t, err)
	require.Len(t, locs, 2, "re-declaring ch1/ch2 after a property-only segment must not force a metadata-only third location")
}

// nopWriteSeeker is a minimal in-memory io.WriteSeeker for tests, since
// bytes.Buffer has no Seek: writes go in place at the current offset,
// growing the backing slice as needed, so Writer's lead-in patch-back
// actually overwrites the placeholder bytes rather than appending past them.
type nopWriteSeeker struct {
	buf *bytes.Buffer
	pos int64
}

func (w *nopWriteSeeker) Write(p []byte) (int, error) {
	data := w.buf.Bytes()
	end := w.pos + int64(len(p))
	if end > int64(len(data)) {
		grown := make([]byte, end)
		copy(grown, data)
		w.buf.Reset()
		w.buf.Write(grown)
		data = w.buf.Bytes()
	}
	copy(data[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

func (w *nopWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		w.pos = offset
	case 1:
		w.pos += offset
	case 2:
		w.pos = int64(w.buf.Len()) + offset
	}
	return w.pos, nil
}
