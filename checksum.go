package tdms

import (
	"encoding/binary"
	"hash"

	"github.com/cespare/xxhash/v2"
)

func newXxhash64() hash.Hash64 { return xxhash.New() }

// writeLayoutDigest feeds a RawDataMeta's layout-relevant fields into h.
// Only the fields that determine on-disk shape are included — scalers and
// widths for DAQmx data are part of layout too, since they affect stride.
func writeLayoutDigest(h hash.Hash64, m *RawDataMeta) {
	if m == nil {
		_, _ = h.Write([]byte{0})
		return
	}

	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(m.DataType))
	_, _ = h.Write(buf[:4])
	binary.LittleEndian.PutUint64(buf[:8], m.NumberOfValues)
	_, _ = h.Write(buf[:8])

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], m.TotalSizeBytes)
	_, _ = h.Write(sizeBuf[:])

	binary.LittleEndian.PutUint32(buf[:4], uint32(m.ScalerKind))
	_, _ = h.Write(buf[:4])
	for _, sc := range m.Scalers {
		for _, v := range [...]uint32{uint32(sc.DataType), sc.RawBufferIndex, sc.RawByteOffsetWithinStride, sc.SampleFormatBitmap, sc.ScaleID} {
			binary.LittleEndian.PutUint32(buf[:4], v)
			_, _ = h.Write(buf[:4])
		}
	}
	for _, w := range m.Widths {
		binary.LittleEndian.PutUint32(buf[:4], w)
		_, _ = h.Write(buf[:4])
	}
}

// layoutFingerprint hashes an ordered active list plus each active object's
// current layout into a single uint64, used by the writer's matches_live
// fast path before falling back to a full structural comparison.
func layoutFingerprint(activeObjects []string, registry map[string]*ObjectData) uint64 {
	h := newXxhash64()
	for _, path := range activeObjects {
		_, _ = h.Write([]byte(path))
		writeLayoutDigest(h, registry[path].LatestDataFormat)
	}
	return h.Sum64()
}
