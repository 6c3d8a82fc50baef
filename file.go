package tdms

import (
	"io"
	"maps"
	"strings"

	"github.com/oakmeadow/gotdms/internal/xfile"
)

// File represents a parsed TDMS file. Use [Open] to open a file by path, or
// [New] to build one directly from an [io.ReadSeeker] (e.g. an in-memory
// buffer in a test).
type File struct {
	Groups       map[string]*Group
	Properties   map[string]Property
	IsIncomplete bool

	idx    *Index
	source io.ReadSeeker
	closer io.Closer
}

// Group represents a group within a TDMS file, containing channels and
// properties.
type Group struct {
	Name       string
	Channels   map[string]*Channel
	Properties map[string]Property

	f *File
}

// New builds a File by scanning reader for segments. Set isIndex to true
// when reader holds a .tdms_index file rather than a .tdms data file; size
// must be the total byte length reachable through reader.
func New(reader io.ReadSeeker, isIndex bool, size int64, opts ...OptionFunc) (*File, error) {
	o := newDefaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	idx, incomplete, err := scanFile(reader, size, isIndex, o)
	if err != nil {
		return nil, err
	}

	f := &File{idx: idx, IsIncomplete: incomplete, source: reader}
	if isIndex {
		f.source = nil
	}
	if err := f.buildObjectTree(); err != nil {
		return nil, err
	}
	return f, nil
}

// Open opens and scans the TDMS file at path. If path ends in
// ".tdms_index", it is scanned as an index file (properties and layout
// only, no data reads). The caller must call [File.Close] when done.
func Open(path string, opts ...OptionFunc) (*File, error) {
	rsc, size, err := xfile.OpenForRead(path)
	if err != nil {
		return nil, newIOError(err)
	}

	f, err := New(rsc, strings.HasSuffix(path, ".tdms_index"), size, opts...)
	if err != nil {
		_ = rsc.Close()
		return nil, err
	}
	f.closer = rsc
	return f, nil
}

// NumBlocks returns the number of raw-data blocks the file's segments
// contain.
func (f *File) NumBlocks() int { return f.idx.NumBlocks() }

// Block returns the raw-data block at index i, for diagnostic tools that
// need to read a specific segment's payload directly rather than going
// through a named channel.
func (f *File) Block(i int) (DataBlock, bool) { return f.idx.Block(i) }

// Source returns the underlying reader data blocks are read from. It is
// nil for a File opened from a .tdms_index file, which has no raw data of
// its own.
func (f *File) Source() io.ReadSeeker { return f.source }

// Close closes the underlying file if this File was created via [Open]. It
// is a no-op for Files created via [New].
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// scanFile drives the lead-in/metadata/scanner loop over the whole file and
// returns the finalized Index plus whether the file ended in a crashed,
// unterminated segment.
func scanFile(r io.ReadSeeker, size int64, isIndex bool, o *options) (*Index, bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, false, newIOError(err)
	}

	scanner := NewFileScanner(size, o.logger)

	offset := int64(0)
	for {
		leadIn, warning, err := decodeLeadIn(r, isIndex, o.strictVersion)
		if err != nil {
			return nil, false, err
		}
		if warning != nil {
			o.logger.Warnw(warning.Error(), "segment_start", offset)
		}

		var meta *SegmentMetaData
		if leadIn.ToC.ContainsMetaData {
			meta, err = decodeSegmentMetadata(r, leadIn.PayloadOrder())
			if err != nil {
				return nil, false, err
			}
		} else {
			meta = &SegmentMetaData{}
		}

		if err := scanner.AddSegment(offset, *leadIn, meta); err != nil {
			return nil, false, err
		}

		if leadIn.Incomplete() {
			return scanner.IntoIndex(), true, nil
		}

		offset += int64(leadInSize) + int64(leadIn.NextSegmentOffset)
		if offset >= size {
			return scanner.IntoIndex(), false, nil
		}

		if !isIndex {
			if _, err := r.Seek(offset, io.SeekStart); err != nil {
				return nil, false, newIOError(err)
			}
		}
	}
}

// buildObjectTree parses every object path the index knows about into the
// file/group/channel tree, merging root-level properties into f.Properties.
func (f *File) buildObjectTree() error {
	f.Groups = make(map[string]*Group)
	f.Properties = make(map[string]Property)

	for _, path := range f.idx.Paths() {
		groupName, channelName, err := parsePath(path)
		if err != nil {
			return err
		}

		props, err := f.idx.Properties(path)
		if err != nil {
			return err
		}
		propMap := make(map[string]Property, len(props))
		for _, p := range props {
			propMap[p.Name] = newProperty(p)
		}

		switch {
		case groupName == "":
			maps.Copy(f.Properties, propMap)
		case channelName == "":
			f.Groups[groupName] = &Group{
				Name:       groupName,
				Properties: propMap,
				Channels:   make(map[string]*Channel),
				f:          f,
			}
		default:
			locs, err := f.idx.Locations(path)
			if err != nil {
				return err
			}
			var dt DataType
			if len(locs) > 0 {
				if block, ok := f.idx.Block(locs[0].BlockIndex); ok {
					dt = block.Channels[locs[0].ChannelIndex].DataType
				}
			}

			group, ok := f.Groups[groupName]
			if !ok {
				group = &Group{Name: groupName, Channels: make(map[string]*Channel), Properties: make(map[string]Property), f: f}
				f.Groups[groupName] = group
			}
			group.Channels[channelName] = &Channel{
				Name:       channelName,
				GroupName:  groupName,
				DataType:   dt,
				Properties: propMap,
				f:          f,
				path:       path,
			}
		}
	}

	return nil
}
