package tdms

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// FileScanner is the stateful, two-tier index builder at the heart of both
// the reader and the writer: activeObjects is ephemeral per-segment layout
// state, registry is durable content state that survives layout changes.
// Keeping them disjoint is what lets a segment omit previously active
// channels without losing their accumulated properties (spec §4.4).
type FileScanner struct {
	activeObjects []string
	registry      map[string]*ObjectData
	dataBlocks    []DataBlock

	nextSegmentStart int64
	totalFileSize     int64
	incomplete        bool
	containsDAQmx     bool

	logger *zap.SugaredLogger
}

// NewFileScanner creates an empty scanner. totalFileSize is only consulted
// when a trailing segment is unterminated (crashed write), to derive that
// segment's true raw-data length from the remaining bytes in the file; pass
// 0 for a scanner that will never see an incomplete segment (e.g. a live
// writer's scanner).
func NewFileScanner(totalFileSize int64, logger *zap.SugaredLogger) *FileScanner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &FileScanner{
		registry:      make(map[string]*ObjectData),
		totalFileSize: totalFileSize,
		logger:        logger,
	}
}

// AddSegment applies one decoded segment to the scanner's state, following
// the inheritance rules table in spec §4.4. segmentStart is the absolute
// byte offset of this segment's lead-in, used for error context and offset
// math; it must equal the scanner's own running offset for sequential
// scanning, but is taken as a parameter so tests can drive the scanner
// directly against spec scenarios.
func (s *FileScanner) AddSegment(segmentStart int64, leadIn LeadIn, meta *SegmentMetaData) error {
	newActive := s.activeObjects
	if leadIn.ToC.ContainsNewObjectList {
		newActive = nil
	} else {
		newActive = slices.Clone(s.activeObjects)
	}

	inActive := func(path string) bool {
		return slices.Contains(newActive, path)
	}

	// Shadow copies of every object touched this call, committed only if
	// the whole segment decodes successfully, per §4.8's "must not be left
	// in a partially-updated state".
	shadow := make(map[string]*ObjectData)
	sawDAQmx := false

	getShadow := func(path string) *ObjectData {
		if od, ok := shadow[path]; ok {
			return od
		}
		if od, ok := s.registry[path]; ok {
			cp := &ObjectData{
				Path:             od.Path,
				Properties:       maps.Clone(od.Properties),
				DataLocations:    slices.Clone(od.DataLocations),
				LatestDataFormat: od.LatestDataFormat,
			}
			shadow[path] = cp
			return cp
		}
		cp := &ObjectData{Path: path, Properties: make(map[string]PropertyValue)}
		shadow[path] = cp
		return cp
	}

	for _, obj := range meta.Objects {
		od := getShadow(obj.Path)
		for _, p := range obj.Properties {
			od.Properties[p.Name] = p
		}

		switch obj.RawDataIndex.Kind {
		case RawDataIndexNone:
			// Meta-only: properties already merged above, nothing else to do.
		case RawDataIndexMatchPrevious:
			if od.LatestDataFormat == nil {
				return newMissingPreviousIndexError(obj.Path).WithSegmentStart(segmentStart)
			}
			if !inActive(obj.Path) {
				newActive = append(newActive, obj.Path)
			}
		case RawDataIndexRawData, RawDataIndexDAQmx:
			od.LatestDataFormat = obj.RawDataIndex.RawData
			if obj.RawDataIndex.Kind == RawDataIndexDAQmx {
				sawDAQmx = true
			}
			if !inActive(obj.Path) {
				newActive = append(newActive, obj.Path)
			}
		}
	}

	var newBlock *DataBlock
	if leadIn.ToC.ContainsRawData {
		channels := make([]RawDataMeta, 0, len(newActive))
		for _, path := range newActive {
			od := getShadow(path)
			if od.LatestDataFormat == nil {
				return newMissingPreviousIndexError(path).WithSegmentStart(segmentStart)
			}
			channels = append(channels, *od.LatestDataFormat)
		}

		start := segmentStart + int64(leadInSize) + int64(leadIn.RawDataOffset)

		var length int64
		if leadIn.Incomplete() {
			length = s.totalFileSize - start
		} else {
			length = int64(leadIn.NextSegmentOffset) - int64(leadIn.RawDataOffset)
		}

		newBlock = &DataBlock{
			Start:       start,
			Length:      length,
			Interleaved: leadIn.ToC.ContainsInterleaved,
			ByteOrder:   leadIn.PayloadOrder(),
			Channels:    channels,
		}
	}

	// Commit: everything above only touched shadow copies and a local
	// newActive slice, so a failure anywhere before this point leaves s
	// completely unchanged.
	for path, od := range shadow {
		s.registry[path] = od
	}
	s.activeObjects = newActive
	if sawDAQmx {
		s.containsDAQmx = true
	}

	if newBlock != nil {
		blockIndex := len(s.dataBlocks)
		s.dataBlocks = append(s.dataBlocks, *newBlock)
		for i, path := range s.activeObjects {
			od := s.registry[path]
			od.DataLocations = append(od.DataLocations, DataLocation{BlockIndex: blockIndex, ChannelIndex: i})
		}
	}

	if leadIn.Incomplete() {
		s.incomplete = true
		if s.logger != nil {
			s.logger.Warnw("segment left unterminated by a crashed write", "segment_start", segmentStart)
		}
	} else {
		s.nextSegmentStart = segmentStart + int64(leadIn.NextSegmentOffset) + int64(leadInSize)
	}

	return nil
}

// NextSegmentStart is the absolute byte offset the next segment's lead-in
// should begin at.
func (s *FileScanner) NextSegmentStart() int64 { return s.nextSegmentStart }

// ActiveObjects returns the current ordered active list.
func (s *FileScanner) ActiveObjects() []string { return slices.Clone(s.activeObjects) }

// LayoutFingerprint hashes the current active list and each active
// object's layout, for cheap live-layout comparison.
func (s *FileScanner) LayoutFingerprint() uint64 {
	return layoutFingerprint(s.activeObjects, s.registry)
}

// MatchesLive reports whether candidate — an ordered list of (path,
// RawDataMeta) pairs — is exactly the scanner's current active list, in
// order, with identical layouts. This is the writer's matches_live check
// from spec §4.7 step 2.
func (s *FileScanner) MatchesLive(candidatePaths []string, candidateMeta []RawDataMeta) bool {
	if len(candidatePaths) != len(s.activeObjects) {
		return false
	}
	// Fast path: a fingerprint mismatch rules out a match before the
	// field-by-field comparison below.
	h := newXxhash64()
	for i, path := range candidatePaths {
		_, _ = h.Write([]byte(path))
		writeLayoutDigest(h, &candidateMeta[i])
	}
	if h.Sum64() != s.LayoutFingerprint() {
		return false
	}
	for i, path := range candidatePaths {
		if s.activeObjects[i] != path {
			return false
		}
		od, ok := s.registry[path]
		if !ok || od.LatestDataFormat == nil {
			return false
		}
		if !rawDataMetaEqual(*od.LatestDataFormat, candidateMeta[i]) {
			return false
		}
	}
	return true
}

// rawDataMetaEqual compares two RawDataMeta values field by field; they
// can't use == directly because Scalers/Widths are slices.
func rawDataMetaEqual(a, b RawDataMeta) bool {
	if a.DataType != b.DataType || a.NumberOfValues != b.NumberOfValues ||
		a.TotalSizeBytes != b.TotalSizeBytes || a.ScalerKind != b.ScalerKind {
		return false
	}
	if len(a.Scalers) != len(b.Scalers) || len(a.Widths) != len(b.Widths) {
		return false
	}
	for i := range a.Scalers {
		if a.Scalers[i] != b.Scalers[i] {
			return false
		}
	}
	for i := range a.Widths {
		if a.Widths[i] != b.Widths[i] {
			return false
		}
	}
	return true
}

// IntoIndex finalizes the scanner into a read-only Index, clearing the
// active list. Only ever called by the read path — a writer's scanner
// stays live across the whole file's lifetime and never finalizes.
func (s *FileScanner) IntoIndex() *Index {
	objects := make(map[string]*ObjectData, len(s.registry))
	for path, od := range s.registry {
		objects[path] = od
	}
	idx := &Index{
		objects:       objects,
		dataBlocks:    slices.Clone(s.dataBlocks),
		incomplete:    s.incomplete,
		containsDAQmx: s.containsDAQmx,
	}
	s.activeObjects = nil
	return idx
}
