package dump

import (
	"fmt"
	"time"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/internal/mmfile"
	"github.com/joshuapare/dumpkit/internal/reader"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// Dump is a parsed minidump. It is immutable after Open and safe for
// concurrent reads. Record fields that alias raw bytes (register context
// blobs, ReadMemory results) are valid until Close.
type Dump struct {
	data   []byte
	unmap  func() error
	snap   *reader.Snapshot
	closed bool
}

// Open maps the dump at path and parses it.
func Open(path string, opts types.OpenOptions) (*Dump, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "open dump", Err: err}
	}
	d, err := OpenBytes(data, opts)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	d.unmap = unmap
	return d, nil
}

// OpenBytes parses a dump from the provided buffer. The buffer must stay
// alive and unmodified for the lifetime of the Dump; no bytes are copied.
func OpenBytes(b []byte, opts types.OpenOptions) (*Dump, error) {
	snap, err := reader.Parse(b, opts)
	if err != nil {
		return nil, err
	}
	return &Dump{data: b, snap: snap}, nil
}

// Close releases the file mapping when Open created one. The Dump must not
// be used afterwards.
func (d *Dump) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.unmap != nil {
		return d.unmap()
	}
	return nil
}

// Info returns the decoded file header fields.
func (d *Dump) Info() types.DumpInfo {
	h := d.snap.Header
	return types.DumpInfo{
		Version:       h.Version,
		StreamCount:   h.StreamCount,
		Checksum:      h.Checksum,
		TimeDateStamp: h.TimeDateStamp,
		Flags:         h.Flags,
	}
}

// CaptureTime returns the header timestamp as wall-clock time.
func (d *Dump) CaptureTime() time.Time {
	return time.Unix(int64(d.snap.Header.TimeDateStamp), 0).UTC()
}

// Streams lists every directory entry seen during the parse, in on-disk
// order, including kinds this package does not decode. Entries that failed to
// decode carry their recorded error.
func (d *Dump) Streams() []types.StreamInfo {
	return d.snap.Streams
}

// StreamError returns the recorded failure for kind, or nil.
func (d *Dump) StreamError(kind types.StreamKind) error {
	return d.snap.StreamErr(kind)
}

// SystemInfo returns the System Info stream, or nil when absent.
func (d *Dump) SystemInfo() *types.SystemInfo {
	return d.snap.SystemInfo
}

// Exception returns the Exception stream, or nil when absent.
func (d *Dump) Exception() *types.Exception {
	return d.snap.Exception
}

// Modules returns the loaded modules in on-disk order. A nil slice with nil
// error means the stream was absent.
func (d *Dump) Modules() ([]types.Module, error) {
	if err := d.snap.StreamErr(types.ModuleListStream); err != nil {
		return nil, err
	}
	return d.snap.Modules, nil
}

// Threads returns the captured threads.
func (d *Dump) Threads() ([]types.Thread, error) {
	if err := d.snap.StreamErr(types.ThreadListStream); err != nil {
		return nil, err
	}
	return d.snap.Threads, nil
}

// Handles returns the captured open handles.
func (d *Dump) Handles() ([]types.Handle, error) {
	if err := d.snap.StreamErr(types.HandleDataStream); err != nil {
		return nil, err
	}
	return d.snap.Handles, nil
}

// MemoryRanges returns the captured memory regions from the memory list and
// memory64 list streams, in that order. Raw bytes are resolved lazily through
// ReadMemory so parsing never duplicates a large capture.
func (d *Dump) MemoryRanges() ([]types.MemoryRange, error) {
	if err := d.snap.StreamErr(types.MemoryListStream); err != nil {
		return nil, err
	}
	if err := d.snap.StreamErr(types.Memory64ListStream); err != nil {
		return nil, err
	}
	return d.snap.MemoryRanges, nil
}

// MemoryInfo returns the virtual memory metadata records.
func (d *Dump) MemoryInfo() ([]types.MemoryInfo, error) {
	if err := d.snap.StreamErr(types.MemoryInfoListStream); err != nil {
		return nil, err
	}
	return d.snap.MemoryInfo, nil
}

// ReadMemory returns the captured bytes of r. The slice aliases the dump
// buffer; it must not be modified and is only valid until Close.
func (d *Dump) ReadMemory(r types.MemoryRange) ([]byte, error) {
	if d.closed {
		return nil, types.ErrClosed
	}
	if r.Size == 0 {
		return nil, nil
	}
	if r.Offset > uint64(len(d.data)) || r.Size > uint64(len(d.data)) {
		return nil, fmt.Errorf("memory at 0x%x: %w", r.Base, types.ErrOutOfBounds)
	}
	s, ok := buf.Slice(d.data, int(r.Offset), int(r.Size))
	if !ok {
		return nil, fmt.Errorf("memory at 0x%x: %w", r.Base, types.ErrOutOfBounds)
	}
	return s, nil
}

// ReadLocation returns the raw bytes of a location descriptor, e.g. a
// module's CodeView record. An empty location yields nil.
func (d *Dump) ReadLocation(loc types.Location) ([]byte, error) {
	if d.closed {
		return nil, types.ErrClosed
	}
	if loc.IsEmpty() {
		return nil, nil
	}
	s, ok := buf.Slice(d.data, int(loc.RVA), int(loc.DataSize))
	if !ok {
		return nil, fmt.Errorf("location rva=%d: %w", loc.RVA, types.ErrOutOfBounds)
	}
	return s, nil
}

// ModuleAt returns the module containing addr, if any.
func (d *Dump) ModuleAt(addr uint64) (types.Module, bool) {
	for _, m := range d.snap.Modules {
		if m.Contains(addr) {
			return m, true
		}
	}
	return types.Module{}, false
}

// MemoryAt returns the captured range containing addr, if any.
func (d *Dump) MemoryAt(addr uint64) (types.MemoryRange, bool) {
	for _, r := range d.snap.MemoryRanges {
		if r.Contains(addr) {
			return r, true
		}
	}
	return types.MemoryRange{}, false
}
