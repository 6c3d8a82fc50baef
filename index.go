package tdms

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// DataLocation identifies one slice of a channel's time series: the block
// it lives in and that channel's positional index within the block.
type DataLocation struct {
	BlockIndex   int
	ChannelIndex int
}

// ObjectData is the registry entry for one object path: its merged
// properties (last-write-wins), the ordered data locations across the
// whole file, and its most recently seen raw-data layout.
type ObjectData struct {
	Path             string
	Properties       map[string]PropertyValue
	DataLocations    []DataLocation
	LatestDataFormat *RawDataMeta
}

// DataBlock is a materialized view of one segment's raw-data region.
type DataBlock struct {
	Start       int64
	Length      int64
	Interleaved bool
	ByteOrder   binary.ByteOrder
	Channels    []RawDataMeta
}

// Index is the finalized, read-only result of scanning a file: an object
// registry plus the ordered list of data blocks. It is never mutated after
// construction, so concurrent read-only queries are safe (spec §5).
type Index struct {
	objects       map[string]*ObjectData
	dataBlocks    []DataBlock
	incomplete    bool
	containsDAQmx bool
}

// Properties returns the merged property set for the object at path.
func (ix *Index) Properties(path string) ([]PropertyValue, error) {
	od, ok := ix.objects[path]
	if !ok {
		return nil, newMissingObjectError(path)
	}
	out := make([]PropertyValue, 0, len(od.Properties))
	for _, p := range od.Properties {
		out = append(out, p)
	}
	return out, nil
}

// Property looks up a single named property. ok is false when the object
// exists but has no such property (the spec's "None" case); err is non-nil
// only when the object itself is unknown.
func (ix *Index) Property(path, name string) (value PropertyValue, ok bool, err error) {
	od, exists := ix.objects[path]
	if !exists {
		return PropertyValue{}, false, newMissingObjectError(path)
	}
	v, ok := od.Properties[name]
	return v, ok, nil
}

// Locations returns the ordered data locations for the object at path.
func (ix *Index) Locations(path string) ([]DataLocation, error) {
	od, ok := ix.objects[path]
	if !ok {
		return nil, newMissingObjectError(path)
	}
	return od.DataLocations, nil
}

// Block returns the data block at index i, or ok=false if out of range.
func (ix *Index) Block(i int) (block DataBlock, ok bool) {
	if i < 0 || i >= len(ix.dataBlocks) {
		return DataBlock{}, false
	}
	return ix.dataBlocks[i], true
}

// NumBlocks returns the number of data blocks in the index.
func (ix *Index) NumBlocks() int { return len(ix.dataBlocks) }

// Paths returns every object path known to the index, in no particular
// order.
func (ix *Index) Paths() []string {
	out := make([]string, 0, len(ix.objects))
	for p := range ix.objects {
		out = append(out, p)
	}
	return out
}

// Incomplete reports whether the file ended with an unterminated
// (crashed-write) segment.
func (ix *Index) Incomplete() bool { return ix.incomplete }

// ContainsDAQmxData reports whether any object in the file carries a DAQmx
// raw-data-index. DAQmx payloads are recognized well enough to compute
// their stride but are never decoded into physical values; callers that
// need scaled DAQmx data should refuse such files using this flag.
func (ix *Index) ContainsDAQmxData() bool { return ix.containsDAQmx }

// Digest returns a cheap fingerprint of an object's path and current layout
// (data type, value count, string byte size, DAQmx scalers and widths);
// its active-list position is not included. It is suitable for detecting
// "has this channel's layout changed" without diffing RawDataMeta by hand.
func (ix *Index) Digest(path string) (uint64, error) {
	od, ok := ix.objects[path]
	if !ok {
		return 0, newMissingObjectError(path)
	}
	h := xxhash.New()
	_, _ = h.WriteString(path)
	writeLayoutDigest(h, od.LatestDataFormat)
	return h.Sum64(), nil
}
