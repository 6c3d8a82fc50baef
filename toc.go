package tdms

// ToC bit flags. Values are the actual bit positions the format assigns,
// not an ordinal enumeration — skip the ones the format never uses (bit 0,
// bit 4) rather than repack them.
const (
	tocContainsMetaData      uint32 = 1 << 1
	tocContainsNewObjectList uint32 = 1 << 2
	tocContainsRawData       uint32 = 1 << 3
	tocDataIsInterleaved     uint32 = 1 << 5
	tocContainsBigEndian     uint32 = 1 << 6
	tocContainsDAQmxRawData  uint32 = 1 << 7
)

// TableOfContents is the bitfield at the head of every segment's lead-in.
// It is always read and written little-endian, even when its own
// ContainsBigEndian flag says the rest of the segment is big-endian.
type TableOfContents struct {
	ContainsMetaData      bool
	ContainsNewObjectList bool
	ContainsRawData       bool
	ContainsInterleaved   bool
	ContainsBigEndian     bool
	ContainsDAQmxRawData  bool
}

func decodeToC(bits uint32) TableOfContents {
	return TableOfContents{
		ContainsMetaData:      bits&tocContainsMetaData != 0,
		ContainsNewObjectList: bits&tocContainsNewObjectList != 0,
		ContainsRawData:       bits&tocContainsRawData != 0,
		ContainsInterleaved:   bits&tocDataIsInterleaved != 0,
		ContainsBigEndian:     bits&tocContainsBigEndian != 0,
		ContainsDAQmxRawData:  bits&tocContainsDAQmxRawData != 0,
	}
}

func (t TableOfContents) encode() uint32 {
	var bits uint32
	if t.ContainsMetaData {
		bits |= tocContainsMetaData
	}
	if t.ContainsNewObjectList {
		bits |= tocContainsNewObjectList
	}
	if t.ContainsRawData {
		bits |= tocContainsRawData
	}
	if t.ContainsInterleaved {
		bits |= tocDataIsInterleaved
	}
	if t.ContainsBigEndian {
		bits |= tocContainsBigEndian
	}
	if t.ContainsDAQmxRawData {
		bits |= tocContainsDAQmxRawData
	}
	return bits
}
