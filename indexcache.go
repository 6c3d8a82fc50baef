package tdms

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// cachedIndex is the gob-serializable shadow of an Index. Index itself
// keeps its fields unexported to stay read-only to callers, so the cache
// round-trips through this plain struct instead of gob-encoding Index
// directly.
type cachedIndex struct {
	Objects       map[string]*ObjectData
	DataBlocks    []DataBlock
	Incomplete    bool
	ContainsDAQmx bool
}

func init() {
	gob.Register(DataBlock{})
	gob.Register(binary.LittleEndian)
	gob.Register(binary.BigEndian)
}

// SaveIndexCache writes idx to path as a zstd-compressed gob stream, so a
// later open of the same file can skip rescanning its segments entirely.
// The cache is a pure accelerator: it is never consulted unless the caller
// explicitly calls [LoadIndexCache], and nothing in this package verifies
// it's still fresh against the source file — that's the caller's job.
func SaveIndexCache(path string, idx *Index) error {
	f, err := os.Create(path)
	if err != nil {
		return newIOError(err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return newIOError(err)
	}
	defer enc.Close()

	cached := cachedIndex{
		Objects:       idx.objects,
		DataBlocks:    idx.dataBlocks,
		Incomplete:    idx.incomplete,
		ContainsDAQmx: idx.containsDAQmx,
	}
	if err := gob.NewEncoder(enc).Encode(cached); err != nil {
		return newIOError(err)
	}
	return nil
}

// LoadIndexCache reads an Index previously written by [SaveIndexCache].
func LoadIndexCache(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError(err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, newIOError(err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, newIOError(err)
	}

	var cached cachedIndex
	if err := gob.NewDecoder(&buf).Decode(&cached); err != nil {
		return nil, newIOError(err)
	}

	return &Index{
		objects:       cached.Objects,
		dataBlocks:    cached.DataBlocks,
		incomplete:    cached.Incomplete,
		containsDAQmx: cached.ContainsDAQmx,
	}, nil
}
