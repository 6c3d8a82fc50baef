package tdms

import (
	"bytes"
	"encoding/binary"
	"io"
)

const leadInSize = 28

// segmentIncomplete is the sentinel next_segment_offset value LabVIEW
// writes when it crashes mid-segment: the segment's true length can only be
// recovered from the file's total size.
const segmentIncomplete uint64 = 0xFFFFFFFFFFFFFFFF

var (
	tdmsMagic      = []byte{'T', 'D', 'S', 'm'}
	tdmsIndexMagic = []byte{'T', 'D', 'S', 'h'}
)

// knownVersions is the set of TDMS versions this library recognizes. Any
// other version is a warning-class UnknownVersion (spec §4.2), fatal only
// when the caller opts into WithStrictVersion.
var knownVersions = map[uint32]bool{4712: true, 4713: true}

// LeadIn is the decoded 28-byte segment header. Its own fields (version,
// next_segment_offset, raw_data_offset) are always little-endian on disk —
// only the PayloadOrder, derived from the ToC's big-endian flag, governs the
// metadata block and raw-data payload that follow.
type LeadIn struct {
	ToC               TableOfContents
	Version           uint32
	NextSegmentOffset uint64
	RawDataOffset     uint64
}

// PayloadOrder is the byte order of everything after the lead-in: the
// metadata block (if present) and the raw-data payload.
func (l LeadIn) PayloadOrder() binary.ByteOrder {
	if l.ToC.ContainsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Incomplete reports whether this segment was left unterminated by a
// crashed write.
func (l LeadIn) Incomplete() bool { return l.NextSegmentOffset == segmentIncomplete }

// decodeLeadIn reads and validates the 28-byte lead-in. isIndex selects
// between the "TDSm" (data file) and "TDSh" (.tdms_index file) magic.
// unknownVersionFatal controls whether an unrecognized version aborts
// decoding or is merely surfaced via the returned warning.
func decodeLeadIn(r io.Reader, isIndex bool, unknownVersionFatal bool) (*LeadIn, *terrorsWarning, error) {
	raw, err := readBytes(r, leadInSize)
	if err != nil {
		return nil, nil, err
	}

	wantMagic := tdmsMagic
	if isIndex {
		wantMagic = tdmsIndexMagic
	}
	if !bytes.Equal(raw[:4], wantMagic) {
		return nil, nil, newInvalidMagicError(raw[:4])
	}

	// ToC is always little-endian, regardless of its own big-endian flag.
	tocBits := binary.LittleEndian.Uint32(raw[4:8])
	toc := decodeToC(tocBits)

	// Lead-in integers past the ToC are always little-endian too — only
	// the payload that follows the lead-in obeys the big-endian flag.
	version := binary.LittleEndian.Uint32(raw[8:12])

	var warning *terrorsWarning
	if !knownVersions[version] {
		if unknownVersionFatal {
			return nil, nil, newUnknownVersionError(version)
		}
		warning = &terrorsWarning{err: newUnknownVersionError(version)}
	}

	leadIn := &LeadIn{
		ToC:               toc,
		Version:           version,
		NextSegmentOffset: binary.LittleEndian.Uint64(raw[12:20]),
		RawDataOffset:     binary.LittleEndian.Uint64(raw[20:28]),
	}

	return leadIn, warning, nil
}

// encodeLeadIn writes the 28-byte lead-in.
func encodeLeadIn(w io.Writer, isIndex bool, l LeadIn) error {
	magic := tdmsMagic
	if isIndex {
		magic = tdmsIndexMagic
	}

	buf := make([]byte, leadInSize)
	copy(buf[:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], l.ToC.encode())
	binary.LittleEndian.PutUint32(buf[8:12], l.Version)
	binary.LittleEndian.PutUint64(buf[12:20], l.NextSegmentOffset)
	binary.LittleEndian.PutUint64(buf[20:28], l.RawDataOffset)

	if _, err := w.Write(buf); err != nil {
		return newIOError(err)
	}
	return nil
}

// terrorsWarning carries a non-fatal decode error for the caller to log or
// collect, per spec §4.8's "surfaced to caller, parsing may continue" rule.
type terrorsWarning struct {
	err error
}

func (w *terrorsWarning) Error() string { return w.err.Error() }
func (w *terrorsWarning) Unwrap() error { return w.err }
