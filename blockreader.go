package tdms

import "io"

// Read executes requests against the block's raw data, dispatching to the
// contiguous or interleaved reader per the block's own layout flag (spec
// §4.6). It returns the minimum number of values actually placed into any
// requested sink — a short trailing block yields fewer samples than a
// sink's capacity requests, and callers are expected to check the count
// rather than assume their buffers were filled.
func (b DataBlock) Read(source io.ReadSeeker, requests []ChannelRequest) (int, error) {
	if len(requests) == 0 {
		return 0, nil
	}
	plan, err := planBlockRead(b, requests)
	if err != nil {
		return 0, err
	}
	if plan.interleaved {
		return executeInterleaved(source, plan)
	}
	return executeContiguous(source, plan)
}

// ReadSingle reads one channel's values into sink, per spec §4.6's
// read_single. It is Read with a single request, kept as its own entry
// point because single-channel reads are the common case and deserve a
// call site that doesn't need a slice literal.
func (b DataBlock) ReadSingle(source io.ReadSeeker, channelIndex int, sink ChannelSink) (int, error) {
	return b.Read(source, []ChannelRequest{{ChannelIndex: channelIndex, Sink: sink}})
}

func executeContiguous(source io.ReadSeeker, plan *readPlan) (int, error) {
	count := -1
	for _, pr := range plan.reads {
		n, err := readContiguousChannel(source, plan.block, pr)
		if err != nil {
			return 0, err
		}
		if count == -1 || n < count {
			count = n
		}
	}
	if count == -1 {
		count = 0
	}
	return count, nil
}

func readContiguousChannel(source io.ReadSeeker, block DataBlock, pr plannedChannelRead) (int, error) {
	if pr.skip >= int(pr.numberOfValues) {
		return 0, nil
	}

	want := int(min64(uint64(pr.sink.Cap()), pr.numberOfValues-uint64(pr.skip)))
	if want == 0 {
		return 0, nil
	}

	if pr.dataType == DataTypeString {
		return readContiguousStrings(source, block, pr, want)
	}

	absOffset := block.Start + pr.blockOffset + int64(pr.skip)*int64(pr.elementSize)
	if _, err := source.Seek(absOffset, io.SeekStart); err != nil {
		return 0, newIOError(err)
	}

	buf := make([]byte, pr.elementSize*want)
	if _, err := io.ReadFull(source, buf); err != nil {
		return 0, newIOError(err)
	}
	for i := 0; i < want; i++ {
		pr.sink.DecodeAt(i, buf[i*pr.elementSize:(i+1)*pr.elementSize], block.ByteOrder)
	}
	return want, nil
}

// readContiguousStrings decodes a String channel's leading u32 offset
// table, then slices exactly the bytes that cover values [skip, skip+want)
// out of the string payload that follows it, per the wire layout spec §4.3
// describes for variable-length types. The whole offset table must be read
// even when skip > 0, since later entries are offsets from the start of
// the payload, not relative to skip.
func readContiguousStrings(source io.ReadSeeker, block DataBlock, pr plannedChannelRead, want int) (int, error) {
	if _, err := source.Seek(block.Start+pr.blockOffset, io.SeekStart); err != nil {
		return 0, newIOError(err)
	}

	n := pr.numberOfValues
	offsetBytes := make([]byte, n*4)
	if _, err := io.ReadFull(source, offsetBytes); err != nil {
		return 0, newIOError(err)
	}

	order := block.ByteOrder
	offsets := make([]uint32, n+1)
	for i := uint64(0); i < n; i++ {
		offsets[i+1] = order.Uint32(offsetBytes[i*4 : i*4+4])
	}

	from, to := pr.skip, pr.skip+want
	if _, err := source.Seek(int64(offsets[from]), io.SeekCurrent); err != nil {
		return 0, newIOError(err)
	}
	payload := make([]byte, offsets[to]-offsets[from])
	if _, err := io.ReadFull(source, payload); err != nil {
		return 0, newIOError(err)
	}
	for i := 0; i < want; i++ {
		lo, hi := offsets[from+i]-offsets[from], offsets[from+i+1]-offsets[from]
		pr.sink.DecodeAt(i, payload[lo:hi], order)
	}
	return want, nil
}

func executeInterleaved(source io.ReadSeeker, plan *readPlan) (int, error) {
	count := -1
	for _, pr := range plan.reads {
		n, err := readInterleavedChannel(source, plan.block, pr, plan.recordSize, plan.recordCount)
		if err != nil {
			return 0, err
		}
		if count == -1 || n < count {
			count = n
		}
	}
	if count == -1 {
		count = 0
	}
	return count, nil
}

// readInterleavedChannel walks one channel's field across every record by
// seeking forward by the stride between consecutive occurrences, so
// unrequested channels' bytes are skipped without ever being read.
func readInterleavedChannel(source io.ReadSeeker, block DataBlock, pr plannedChannelRead, recordSize int64, recordCount uint64) (int, error) {
	remaining := min64(pr.numberOfValues, recordCount)
	if uint64(pr.skip) >= remaining {
		return 0, nil
	}
	remaining -= uint64(pr.skip)

	start := block.Start + pr.recordOffset + int64(pr.skip)*recordSize
	if _, err := source.Seek(start, io.SeekStart); err != nil {
		return 0, newIOError(err)
	}

	want := int(min64(uint64(pr.sink.Cap()), remaining))
	if want == 0 {
		return 0, nil
	}

	stride := recordSize - int64(pr.elementSize)
	buf := make([]byte, pr.elementSize)
	for i := 0; i < want; i++ {
		if i > 0 {
			if _, err := source.Seek(stride, io.SeekCurrent); err != nil {
				return 0, newIOError(err)
			}
		}
		if _, err := io.ReadFull(source, buf); err != nil {
			return 0, newIOError(err)
		}
		pr.sink.DecodeAt(i, buf, block.ByteOrder)
	}
	return want, nil
}
