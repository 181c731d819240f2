// Package reader implements the minidump directory walk: it parses the file
// header, validates the stream directory, dispatches each entry to its stream
// decoder, and assembles the decoded aggregate. The public wrapper (the dump
// package) exposes the result without revealing the parsing machinery.
package reader

import (
	"fmt"
	"sort"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/internal/format"
	"github.com/joshuapare/dumpkit/pkg/types"
)

const (
	// defaultMaxStreamCount bounds the directory walk. Real dumps carry a few
	// dozen streams; anything past this is a crafted header.
	defaultMaxStreamCount = 1024

	// defaultMaxRecordCount bounds any single stream's record count before
	// decoding starts. The per-stream size checks already reject counts that
	// exceed the declared payload; this caps the work even for payloads that
	// really are huge.
	defaultMaxRecordCount = 1 << 20
)

// Snapshot is the fully decoded aggregate for one dump buffer. It is built
// once per Parse call and never mutated afterwards. Slices of raw bytes
// (context blobs) alias the source buffer.
type Snapshot struct {
	Header       format.Header
	SystemInfo   *types.SystemInfo
	Exception    *types.Exception
	Modules      []types.Module
	Threads      []types.Thread
	Handles      []types.Handle
	MemoryRanges []types.MemoryRange
	MemoryInfo   []types.MemoryInfo
	Streams      []types.StreamInfo

	streamErrs map[types.StreamKind]error
}

// StreamErr returns the recorded decode failure for kind, or nil when the
// stream decoded cleanly or was not present.
func (s *Snapshot) StreamErr(kind types.StreamKind) error {
	return s.streamErrs[kind]
}

type parser struct {
	buf  []byte
	opts types.OpenOptions
	snap *Snapshot

	// Raw capture lists from the 32- and 64-bit memory list streams; merged
	// into the snapshot once the walk finishes so a duplicate stream entry
	// replaces its own kind without disturbing the other.
	memList []types.MemoryRange
	mem64   []types.MemoryRange
}

// Parse decodes the minidump in b. Header and directory failures abort the
// parse; a failure inside one stream is recorded against that stream kind and
// the walk continues, except for System Info and Exception, which downstream
// consumers rely on being fully valid whenever their directory entry exists.
func Parse(b []byte, opts types.OpenOptions) (*Snapshot, error) {
	if opts.MaxStreamCount <= 0 {
		opts.MaxStreamCount = defaultMaxStreamCount
	}
	if opts.MaxRecordCount <= 0 {
		opts.MaxRecordCount = defaultMaxRecordCount
	}

	head, err := format.ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if int(head.StreamCount) > opts.MaxStreamCount {
		return nil, fmt.Errorf("directory: %d streams: %w", head.StreamCount, types.ErrCountOverflow)
	}
	if _, err := buf.CheckListBounds(len(b), int(head.DirectoryRVA), int(head.StreamCount), format.DirectoryEntrySize); err != nil {
		return nil, fmt.Errorf("directory: %w: %v", types.ErrOutOfBounds, err)
	}

	p := &parser{
		buf:  b,
		opts: opts,
		snap: &Snapshot{
			Header:     head,
			streamErrs: make(map[types.StreamKind]error),
		},
	}

	// Collect the directory, dropping unused slots. dirIdx preserves the
	// on-disk entry order for the Streams listing and for last-write-wins.
	type walkEntry struct {
		dirIdx int
		entry  format.DirectoryEntry
	}
	entries := make([]walkEntry, 0, head.StreamCount)
	for i := 0; i < int(head.StreamCount); i++ {
		off := int(head.DirectoryRVA) + i*format.DirectoryEntrySize
		entry, err := format.DecodeDirectoryEntry(b, off)
		if err != nil {
			return nil, fmt.Errorf("directory entry %d: %w", i, err)
		}
		if entry.Kind == types.UnusedStream {
			continue
		}
		p.snap.Streams = append(p.snap.Streams, types.StreamInfo{
			Kind:     entry.Kind,
			Location: entry.Location,
		})
		entries = append(entries, walkEntry{dirIdx: len(p.snap.Streams) - 1, entry: entry})
	}

	// Decode in descending stream-type order so System Info (7) lands before
	// the Exception (6) and Thread List (3) decoders that need its
	// architecture. The sort is stable, so duplicate kinds keep directory
	// order and the later entry overwrites the earlier one.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].entry.Kind > entries[j].entry.Kind
	})

	for _, we := range entries {
		kind := we.entry.Kind
		if !kind.Known() {
			// Forward compatibility: unknown stream tags stay listed as
			// present-but-unparsed and never abort the rest of the file.
			continue
		}
		err := p.decodeStream(we.entry)
		if err != nil {
			err = &types.StreamDecodeError{Kind: kind, Err: err}
		}
		p.snap.Streams[we.dirIdx].Err = err
		if err == nil {
			delete(p.snap.streamErrs, kind)
			continue
		}
		if kind == types.SystemInfoStream || kind == types.ExceptionStream {
			return nil, err
		}
		p.snap.streamErrs[kind] = err
	}

	if len(p.memList) > 0 || len(p.mem64) > 0 {
		merged := make([]types.MemoryRange, 0, len(p.memList)+len(p.mem64))
		merged = append(merged, p.memList...)
		merged = append(merged, p.mem64...)
		p.snap.MemoryRanges = merged
	}

	return p.snap, nil
}

// decodeStream bounds-checks the entry's location and dispatches to the
// decoder for its kind.
func (p *parser) decodeStream(entry format.DirectoryEntry) error {
	// A zero-length location means the writer reserved the directory slot but
	// captured nothing: the stream is absent, not broken.
	if entry.Location.IsEmpty() {
		return nil
	}
	if err := format.CheckLocation(entry.Location, len(p.buf)); err != nil {
		return err
	}
	switch entry.Kind {
	case types.SystemInfoStream:
		return p.decodeSystemInfo(entry.Location)
	case types.ModuleListStream:
		return p.decodeModuleList(entry.Location)
	case types.ThreadListStream:
		return p.decodeThreadList(entry.Location)
	case types.ExceptionStream:
		return p.decodeException(entry.Location)
	case types.MemoryListStream:
		return p.decodeMemoryList(entry.Location)
	case types.Memory64ListStream:
		return p.decodeMemory64List(entry.Location)
	case types.MemoryInfoListStream:
		return p.decodeMemoryInfoList(entry.Location)
	case types.HandleDataStream:
		return p.decodeHandleData(entry.Location)
	}
	return nil
}

// payload returns the stream bytes for loc. The location was already checked
// against the buffer, so a failure here means a zero-size stream where the
// decoder needed bytes.
func (p *parser) payload(loc types.Location) ([]byte, error) {
	s, ok := buf.Slice(p.buf, int(loc.RVA), int(loc.DataSize))
	if !ok {
		return nil, fmt.Errorf("stream payload rva=%d size=%d: %w", loc.RVA, loc.DataSize, types.ErrOutOfBounds)
	}
	return s, nil
}

// checkCount applies the amplification guard: count records of at least
// recordSize bytes each, starting at headerSize, must fit the declared
// payload length, and count must stay under the configured cap.
func (p *parser) checkCount(what string, payloadLen, headerSize, count, recordSize int) error {
	if count > p.opts.MaxRecordCount {
		return fmt.Errorf("%s: count %d exceeds limit %d: %w", what, count, p.opts.MaxRecordCount, types.ErrCountOverflow)
	}
	if _, err := buf.CheckListBounds(payloadLen, headerSize, count, recordSize); err != nil {
		return fmt.Errorf("%s: count %d: %w", what, count, types.ErrCountOverflow)
	}
	return nil
}
