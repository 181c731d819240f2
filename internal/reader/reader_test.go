package reader

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
	"unicode/utf16"

	"github.com/joshuapare/dumpkit/internal/format"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// builder assembles a synthetic dump: header first, payloads appended in call
// order, directory written last. Payload RVAs therefore sit before the
// directory, which exercises backward references on every parse.
type builder struct {
	data    []byte
	entries []format.DirectoryEntry
}

func newBuilder() *builder {
	b := &builder{data: make([]byte, format.HeaderSize)}
	copy(b.data, format.Signature)
	binary.LittleEndian.PutUint32(b.data[format.HeaderVersionOffset:], 0x61B1_0000|format.Version)
	return b
}

// add appends raw bytes and returns their RVA.
func (b *builder) add(p []byte) uint32 {
	rva := uint32(len(b.data))
	b.data = append(b.data, p...)
	return rva
}

// addString appends a length-prefixed UTF-16LE string and returns its RVA.
func (b *builder) addString(s string) uint32 {
	units := utf16.Encode([]rune(s))
	p := make([]byte, format.StringHeaderSize+len(units)*2)
	binary.LittleEndian.PutUint32(p, uint32(len(units)*2))
	for i, u := range units {
		binary.LittleEndian.PutUint16(p[format.StringHeaderSize+2*i:], u)
	}
	return b.add(p)
}

// addStream appends payload and records a directory entry covering it.
func (b *builder) addStream(kind types.StreamKind, payload []byte) {
	rva := b.add(payload)
	b.addEntry(kind, types.Location{DataSize: uint32(len(payload)), RVA: rva})
}

// addEntry records a directory entry without touching the payload area, for
// crafted locations.
func (b *builder) addEntry(kind types.StreamKind, loc types.Location) {
	b.entries = append(b.entries, format.DirectoryEntry{Kind: kind, Location: loc})
}

func (b *builder) build() []byte {
	dirRVA := uint32(len(b.data))
	for _, e := range b.entries {
		var ent [format.DirectoryEntrySize]byte
		binary.LittleEndian.PutUint32(ent[0:], uint32(e.Kind))
		binary.LittleEndian.PutUint32(ent[4:], e.Location.DataSize)
		binary.LittleEndian.PutUint32(ent[8:], e.Location.RVA)
		b.data = append(b.data, ent[:]...)
	}
	binary.LittleEndian.PutUint32(b.data[format.HeaderStreamCountOffset:], uint32(len(b.entries)))
	binary.LittleEndian.PutUint32(b.data[format.HeaderDirectoryOffset:], dirRVA)
	return b.data
}

// sysInfoPayload builds a System Info stream for the given architecture.
func sysInfoPayload(arch uint16, csdRVA uint32) []byte {
	p := make([]byte, format.SystemInfoMinSize)
	binary.LittleEndian.PutUint16(p[format.SysArchOffset:], arch)
	p[format.SysCPUCountOffset] = 8
	binary.LittleEndian.PutUint32(p[format.SysMajorOffset:], 10)
	binary.LittleEndian.PutUint32(p[format.SysBuildOffset:], 22631)
	binary.LittleEndian.PutUint32(p[format.SysCSDRVAOffset:], csdRVA)
	return p
}

// modulePayload builds one module list entry.
func modulePayload(base uint64, size uint32, nameRVA uint32) []byte {
	p := make([]byte, format.ModuleSize)
	binary.LittleEndian.PutUint64(p[format.ModBaseOffset:], base)
	binary.LittleEndian.PutUint32(p[format.ModSizeOffset:], size)
	binary.LittleEndian.PutUint32(p[format.ModNameRVAOffset:], nameRVA)
	return p
}

func moduleListPayload(mods ...[]byte) []byte {
	p := make([]byte, format.ModuleListHeaderSize)
	binary.LittleEndian.PutUint32(p, uint32(len(mods)))
	for _, m := range mods {
		p = append(p, m...)
	}
	return p
}

// x64ContextPayload builds a minimal x64 CONTEXT blob with the given Rip.
func x64ContextPayload(rip uint64) []byte {
	p := make([]byte, format.X64ContextMinSize)
	binary.LittleEndian.PutUint64(p[0xF8:], rip)
	return p
}

// exceptionPayload builds an exception stream record.
func exceptionPayload(threadID, code uint32, addr uint64, ctxLoc types.Location) []byte {
	p := make([]byte, format.ExceptionStreamSize)
	binary.LittleEndian.PutUint32(p[format.ExcThreadIDOffset:], threadID)
	rec := p[format.ExcRecordOffset:]
	binary.LittleEndian.PutUint32(rec[format.ExcCodeOffset:], code)
	binary.LittleEndian.PutUint64(rec[format.ExcAddressOffset:], addr)
	binary.LittleEndian.PutUint32(p[format.ExcContextOffset:], ctxLoc.DataSize)
	binary.LittleEndian.PutUint32(p[format.ExcContextOffset+4:], ctxLoc.RVA)
	return p
}

func TestParseBadMagic(t *testing.T) {
	data := newBuilder().build()
	data[0] = 'X'
	if _, err := Parse(data, types.OpenOptions{}); !errors.Is(err, types.ErrInvalidMagic) {
		t.Fatalf("got %v, want ErrInvalidMagic", err)
	}
}

func TestParseEmptyDump(t *testing.T) {
	snap, err := Parse(newBuilder().build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.SystemInfo != nil || snap.Exception != nil || len(snap.Streams) != 0 {
		t.Fatalf("empty dump should decode to an empty snapshot: %+v", snap)
	}
}

func TestParseDirectoryOutOfBounds(t *testing.T) {
	data := newBuilder().build()
	binary.LittleEndian.PutUint32(data[format.HeaderStreamCountOffset:], 4)
	binary.LittleEndian.PutUint32(data[format.HeaderDirectoryOffset:], uint32(len(data)))
	if _, err := Parse(data, types.OpenOptions{}); !errors.Is(err, types.ErrOutOfBounds) {
		t.Fatalf("got %v, want ErrOutOfBounds", err)
	}
}

func TestParseStreamCountOverLimit(t *testing.T) {
	data := newBuilder().build()
	binary.LittleEndian.PutUint32(data[format.HeaderStreamCountOffset:], 50)
	if _, err := Parse(data, types.OpenOptions{MaxStreamCount: 10}); !errors.Is(err, types.ErrCountOverflow) {
		t.Fatalf("got %v, want ErrCountOverflow", err)
	}
}

func TestParseStreamLocationOutOfBoundsRecorded(t *testing.T) {
	b := newBuilder()
	b.addEntry(types.ModuleListStream, types.Location{DataSize: 0x1000, RVA: 0xFFFF_0000})
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("a broken module list must not abort the parse: %v", err)
	}
	serr := snap.StreamErr(types.ModuleListStream)
	if !errors.Is(serr, types.ErrOutOfBounds) {
		t.Fatalf("got %v, want recorded ErrOutOfBounds", serr)
	}
	var sde *types.StreamDecodeError
	if !errors.As(serr, &sde) || sde.Kind != types.ModuleListStream {
		t.Fatalf("recorded error should carry the stream kind: %v", serr)
	}
	if len(snap.Streams) != 1 || snap.Streams[0].Err == nil {
		t.Fatalf("stream listing should carry the failure: %+v", snap.Streams)
	}
}

func TestParseEmptyLocationIsAbsent(t *testing.T) {
	b := newBuilder()
	b.addEntry(types.ModuleListStream, types.Location{DataSize: 0, RVA: 0xFFFF_0000})
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.StreamErr(types.ModuleListStream) != nil {
		t.Fatalf("empty stream should be absent, not an error: %v", snap.StreamErr(types.ModuleListStream))
	}
	if snap.Modules != nil {
		t.Fatalf("modules = %+v", snap.Modules)
	}
	if len(snap.Streams) != 1 {
		t.Fatalf("the directory slot should still be listed: %+v", snap.Streams)
	}
}

func TestParseUnknownStreamSkipped(t *testing.T) {
	b := newBuilder()
	b.addStream(types.StreamKind(0x4242), []byte{1, 2, 3, 4})
	b.addStream(types.SystemInfoStream, sysInfoPayload(types.ProcessorArchitectureAMD64, 0))
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.SystemInfo == nil {
		t.Fatal("streams past an unknown kind must still decode")
	}
	if len(snap.Streams) != 2 {
		t.Fatalf("unknown kinds stay listed: %+v", snap.Streams)
	}
	if snap.Streams[0].Kind != types.StreamKind(0x4242) || snap.Streams[0].Err != nil {
		t.Fatalf("unknown kind is present-but-unparsed, never an error: %+v", snap.Streams[0])
	}
}

func TestParseUnusedEntriesDropped(t *testing.T) {
	b := newBuilder()
	b.addEntry(types.UnusedStream, types.Location{})
	b.addStream(types.SystemInfoStream, sysInfoPayload(types.ProcessorArchitectureAMD64, 0))
	b.addEntry(types.UnusedStream, types.Location{})
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(snap.Streams) != 1 || snap.Streams[0].Kind != types.SystemInfoStream {
		t.Fatalf("unused slots should not be listed: %+v", snap.Streams)
	}
}

func TestParseDuplicateStreamLastWins(t *testing.T) {
	b := newBuilder()
	nameA := b.addString(`C:\a.dll`)
	nameB := b.addString(`C:\b.dll`)
	b.addStream(types.ModuleListStream, moduleListPayload(modulePayload(0x1000, 0x100, nameA)))
	b.addStream(types.ModuleListStream, moduleListPayload(modulePayload(0x2000, 0x200, nameB)))
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(snap.Modules) != 1 || snap.Modules[0].Base != 0x2000 || snap.Modules[0].Path != `C:\b.dll` {
		t.Fatalf("later directory entry must win: %+v", snap.Modules)
	}
	if len(snap.Streams) != 2 {
		t.Fatalf("both directory entries stay listed: %+v", snap.Streams)
	}
}

func TestParseDeterministic(t *testing.T) {
	b := newBuilder()
	csd := b.addString("Service Pack 1")
	name := b.addString(`C:\Windows\System32\ntdll.dll`)
	b.addStream(types.SystemInfoStream, sysInfoPayload(types.ProcessorArchitectureAMD64, csd))
	b.addStream(types.ModuleListStream, moduleListPayload(modulePayload(0x7FF6_0000_0000, 0x1000, name)))
	data := b.build()

	first, err := Parse(data, types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := Parse(data, types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-decode of the same bytes diverged:\n%+v\n%+v", first, second)
	}
}

func TestParseSystemInfoFailureIsFatal(t *testing.T) {
	b := newBuilder()
	b.addStream(types.SystemInfoStream, make([]byte, 8)) // truncated record
	if _, err := Parse(b.build(), types.OpenOptions{}); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("got %v, want fatal ErrTruncatedField", err)
	}
}

func TestParseExceptionFailureIsFatal(t *testing.T) {
	b := newBuilder()
	b.addStream(types.ExceptionStream, make([]byte, 16))
	if _, err := Parse(b.build(), types.OpenOptions{}); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("got %v, want fatal ErrTruncatedField", err)
	}
}

func TestParseSystemInfoDecodedBeforeException(t *testing.T) {
	// Exception entry first in the directory; the walk must still see the
	// architecture when it decodes the exception context.
	b := newBuilder()
	ctxRVA := b.add(x64ContextPayload(0xDEAD_BEEF))
	ctxLoc := types.Location{DataSize: format.X64ContextMinSize, RVA: ctxRVA}
	b.addStream(types.ExceptionStream, exceptionPayload(0x40, 0xC0000005, 0x1234, ctxLoc))
	b.addStream(types.SystemInfoStream, sysInfoPayload(types.ProcessorArchitectureAMD64, 0))
	snap, err := Parse(b.build(), types.OpenOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.Exception == nil || snap.Exception.Context.X64 == nil {
		t.Fatalf("exception context should be decoded as x64: %+v", snap.Exception)
	}
	if snap.Exception.Context.X64.Rip != 0xDEAD_BEEF {
		t.Fatalf("rip = 0x%x", snap.Exception.Context.X64.Rip)
	}
}
