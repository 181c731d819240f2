package types

// -----------------------------------------------------------------------------
// Locations & options
// -----------------------------------------------------------------------------

// Location is a minidump location descriptor: a byte length plus an absolute
// offset (RVA) from the start of the dump buffer. Every indirect reference in
// the format (stream payloads, strings, context blobs, captured memory) is one
// of these. RVAs are absolute file offsets, never relative to the record that
// carries them.
type Location struct {
	DataSize uint32
	RVA      uint32
}

// IsEmpty reports whether the descriptor denotes an absent value. A zero
// length decodes to empty/absent, not an error.
func (l Location) IsEmpty() bool { return l.DataSize == 0 }

// OpenOptions tunes safety limits applied while parsing. Zero values select
// defaults. The limits bound CPU/memory cost on crafted inputs; structural
// bounds checks alone cannot, since a tiny file may declare a huge count.
type OpenOptions struct {
	// MaxStreamCount caps the number of directory entries walked.
	MaxStreamCount int
	// MaxRecordCount caps the per-stream record count before decoding.
	MaxRecordCount int
}

// -----------------------------------------------------------------------------
// System information
// -----------------------------------------------------------------------------

// Arch identifies the processor architecture of the captured process, derived
// from the System Info stream. It selects the register context layout.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86
	ArchX64
)

// String implements the Stringer interface for Arch.
func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX64:
		return "x64"
	default:
		return "unknown"
	}
}

// Processor architecture values as stored in the System Info stream.
const (
	ProcessorArchitectureIntel uint16 = 0
	ProcessorArchitectureAMD64 uint16 = 9
)

// SystemInfo describes the processor and operating system of the captured
// machine. At most one instance is meaningfully consumed per dump.
type SystemInfo struct {
	ProcessorArchitecture uint16
	ProcessorLevel        uint16
	ProcessorRevision     uint16
	NumberOfProcessors    uint8
	ProductType           uint8
	MajorVersion          uint32
	MinorVersion          uint32
	BuildNumber           uint32
	PlatformID            uint32
	CSDVersion            string // service pack string, resolved via RVA
	SuiteMask             uint16
}

// Arch maps the raw architecture value onto the layouts this package decodes.
func (s *SystemInfo) Arch() Arch {
	if s == nil {
		return ArchUnknown
	}
	switch s.ProcessorArchitecture {
	case ProcessorArchitectureIntel:
		return ArchX86
	case ProcessorArchitectureAMD64:
		return ArchX64
	default:
		return ArchUnknown
	}
}

// -----------------------------------------------------------------------------
// Modules
// -----------------------------------------------------------------------------

// VersionInfo mirrors the VS_FIXEDFILEINFO block embedded in each module record.
type VersionInfo struct {
	Signature        uint32
	StrucVersion     uint32
	FileVersionMS    uint32
	FileVersionLS    uint32
	ProductVersionMS uint32
	ProductVersionLS uint32
	FileFlagsMask    uint32
	FileFlags        uint32
	FileOS           uint32
	FileType         uint32
	FileSubtype      uint32
	FileDateMS       uint32
	FileDateLS       uint32
}

// Module is one loaded image in the captured process. List order matches the
// on-disk order of the Module List stream.
type Module struct {
	Base          uint64
	Size          uint32
	Checksum      uint32
	TimeDateStamp uint32
	Path          string // image path, resolved via RVA
	VersionInfo   VersionInfo
	CVRecord      Location // CodeView record bytes, if captured
	MiscRecord    Location
}

// Name returns the final path element of the module path.
func (m Module) Name() string {
	if m.Path == "" {
		return ""
	}
	// Dump paths are Windows paths; split on both separator styles.
	p := m.Path
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '\\' || p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

// End returns the first address past the module image.
func (m Module) End() uint64 { return m.Base + uint64(m.Size) }

// Contains reports whether addr falls inside the module image.
func (m Module) Contains(addr uint64) bool { return addr >= m.Base && addr < m.End() }

// -----------------------------------------------------------------------------
// Threads & register contexts
// -----------------------------------------------------------------------------

// X64Context holds the integer and control registers of an x64 CONTEXT record.
// The full blob (including the floating point and vector state) stays
// available as ThreadContext.Raw.
type X64Context struct {
	ContextFlags uint32
	MxCsr        uint32
	SegCs        uint16
	SegDs        uint16
	SegEs        uint16
	SegFs        uint16
	SegGs        uint16
	SegSs        uint16
	EFlags       uint32
	Dr0, Dr1     uint64
	Dr2, Dr3     uint64
	Dr6, Dr7     uint64
	Rax, Rcx     uint64
	Rdx, Rbx     uint64
	Rsp, Rbp     uint64
	Rsi, Rdi     uint64
	R8, R9       uint64
	R10, R11     uint64
	R12, R13     uint64
	R14, R15     uint64
	Rip          uint64
}

// X86Context holds the integer and control registers of an x86 CONTEXT record.
type X86Context struct {
	ContextFlags uint32
	Dr0, Dr1     uint32
	Dr2, Dr3     uint32
	Dr6, Dr7     uint32
	SegGs        uint32
	SegFs        uint32
	SegEs        uint32
	SegDs        uint32
	Edi, Esi     uint32
	Ebx, Edx     uint32
	Ecx, Eax     uint32
	Ebp          uint32
	Eip          uint32
	SegCs        uint32
	EFlags       uint32
	Esp          uint32
	SegSs        uint32
}

// ThreadContext is a captured register context. When the dump carries a System
// Info stream the architecture-specific layout is decoded; otherwise only the
// raw bytes are exposed, since guessing a layout could misread memory.
type ThreadContext struct {
	Arch Arch
	Loc  Location
	Raw  []byte // aliases the dump buffer; valid until Close
	X64  *X64Context
	X86  *X86Context
}

// Thread is one thread of the captured process.
type Thread struct {
	ID            uint32
	SuspendCount  uint32
	PriorityClass uint32
	Priority      uint32
	TEB           uint64
	Stack         MemoryRange
	Context       ThreadContext
}

// -----------------------------------------------------------------------------
// Exception
// -----------------------------------------------------------------------------

// ExceptionMaximumParameters is the fixed capacity of the exception parameter
// array in the on-disk record.
const ExceptionMaximumParameters = 15

// Exception describes the fault that triggered the dump. Singleton per dump.
type Exception struct {
	ThreadID      uint32
	Code          uint32
	Flags         uint32
	RecordAddress uint64 // address of a chained exception record, if any
	Address       uint64 // faulting address
	Parameters    []uint64
	Context       ThreadContext
}

// -----------------------------------------------------------------------------
// Memory
// -----------------------------------------------------------------------------

// MemoryRange locates the captured bytes of one memory region. The bytes are
// not copied out of the dump; resolve them through the owning Dump so a large
// capture is never duplicated just by parsing.
type MemoryRange struct {
	Base   uint64
	Size   uint64
	Offset uint64 // absolute file offset of the captured bytes
}

// End returns the first address past the region.
func (r MemoryRange) End() uint64 { return r.Base + r.Size }

// Contains reports whether addr falls inside the region.
func (r MemoryRange) Contains(addr uint64) bool { return addr >= r.Base && addr < r.End() }

// Memory state values (MemoryInfo.State).
const (
	MemCommit  uint32 = 0x1000
	MemReserve uint32 = 0x2000
	MemFree    uint32 = 0x10000
)

// Memory type values (MemoryInfo.Type).
const (
	MemPrivate uint32 = 0x20000
	MemMapped  uint32 = 0x40000
	MemImage   uint32 = 0x1000000
)

// MemoryInfo describes one virtual memory region: metadata without raw bytes.
// Independent from MemoryRange; both streams may describe overlapping ranges
// from different angles.
type MemoryInfo struct {
	Base              uint64
	AllocationBase    uint64
	AllocationProtect uint32
	RegionSize        uint64
	State             uint32
	Protect           uint32
	Type              uint32
}

// StateString returns the textual MEM_* name of the region state.
func (m MemoryInfo) StateString() string {
	switch m.State {
	case MemCommit:
		return "MEM_COMMIT"
	case MemReserve:
		return "MEM_RESERVE"
	case MemFree:
		return "MEM_FREE"
	default:
		return "UNKNOWN"
	}
}

// TypeString returns the textual MEM_* name of the region type.
func (m MemoryInfo) TypeString() string {
	switch m.Type {
	case MemPrivate:
		return "MEM_PRIVATE"
	case MemMapped:
		return "MEM_MAPPED"
	case MemImage:
		return "MEM_IMAGE"
	default:
		return "UNKNOWN"
	}
}

// -----------------------------------------------------------------------------
// Handles
// -----------------------------------------------------------------------------

// Handle is the state of one OS handle at capture time. TypeName and
// ObjectName are empty when the record carried no RVA for them.
type Handle struct {
	Value         uint64
	TypeName      string
	ObjectName    string
	Attributes    uint32
	GrantedAccess uint32
	HandleCount   uint32
	PointerCount  uint32
}

// -----------------------------------------------------------------------------
// Directory
// -----------------------------------------------------------------------------

// DumpInfo is the decoded file header: capture-wide metadata rather than the
// content of any stream.
type DumpInfo struct {
	Version       uint32
	StreamCount   uint32
	Checksum      uint32
	TimeDateStamp uint32
	Flags         uint64
}

// StreamInfo records one directory entry as seen during the walk, including
// kinds this implementation does not decode. Err carries the recorded decode
// failure for that stream, nil when it decoded (or was skipped as unknown).
type StreamInfo struct {
	Kind     StreamKind
	Location Location
	Err      error
}
