// The stream reader allows iterative reading of values from a TDMS file for a
// particular channel.
//
// It uses batching to speed up reads, with functions that return either the
// batches as slices or the individual values. The stream reader that returns
// individual values still uses batching internally, it just helpfully unwraps
// the slice for you.
//
// TODO: Handle scaling.

package tdms

import (
	"iter"
)

// StreamReader still internally uses batching, hence the batch size param,
// however it returns the results as individual values, which may be more
// useful in many scenarios.
func StreamReader[T any](
	ch *Channel,
	options []ReadOption,
	dataType DataType,
	interpret interpreter[T],
) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for batch, err := range BatchStreamReader(ch, options, dataType, interpret) {
			if err != nil {
				yield(*new(T), err)
				return
			}

			for _, datum := range batch {
				if !yield(datum, nil) {
					return
				}
			}
		}
	}
}

// BatchStreamReader reads a channel's values one data block at a time, in
// batches of at most opts.batchSize. Each block is consumed through
// repeated DataBlock.Read calls with an increasing Skip, so memory use
// stays bounded by the batch size rather than the channel's total value
// count.
//
// Be aware that this re-uses the same batch slice during the lifetime of
// the iterator; copy it if you need to keep the values past the next
// iteration.
func BatchStreamReader[T any](
	ch *Channel,
	options []ReadOption,
	dataType DataType,
	interpret interpreter[T],
) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		opts := readOptions{}
		for _, opt := range options {
			opt(&opts)
		}

		if opts.batchSize == 0 {
			opts.batchSize = 2056
			if dataType == DataTypeString {
				// Strings are generally much larger than individual ints or
				// floats, so we use a much smaller default batch size.
				opts.batchSize = 256
			}
		}

		locations, err := ch.f.idx.Locations(ch.path)
		if err != nil {
			yield(nil, err)
			return
		}

		batch := make([]T, opts.batchSize)

		for _, loc := range locations {
			block, ok := ch.f.idx.Block(loc.BlockIndex)
			if !ok {
				continue
			}

			skip := 0
			for {
				sink := NewTypedSink(batch, dataType.Size(), interpret)
				n, err := block.Read(ch.f.source, []ChannelRequest{
					{ChannelIndex: loc.ChannelIndex, Sink: sink, Skip: skip},
				})
				if err != nil {
					yield(nil, err)
					return
				}
				if n == 0 {
					break
				}

				skip += n
				if !yield(batch[:n], nil) {
					return
				}
				if n < opts.batchSize {
					break
				}
			}
		}
	}
}

// readAllData reads all data from a channel and puts it into a single slice.
//
// By re-using BatchStreamReader here, we avoid having to allocate 2*N
// bytes — one for the raw bytes and another for the interpreted values.
// The raw bytes are still batched while we allocate the values slice
// up-front. It's also cleaner in terms of code, as we avoid
// re-implementing the underlying read functionality.
func readAllData[T any](ch *Channel, options []ReadOption, dataType DataType, interpret interpreter[T]) ([]T, error) {
	values := make([]T, 0, ch.NumValues())

	for batch, err := range BatchStreamReader(ch, options, dataType, interpret) {
		if err != nil {
			return nil, err
		}

		values = append(values, batch...)
	}

	return values, nil
}
