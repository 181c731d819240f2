// Package format houses low-level decoders for the user-mode minidump file
// format. The goal is to keep the parsing focused, allocation-free where
// possible, and independent from the public API so higher-level packages can
// orchestrate the data in a more ergonomic form.
//
// Every decoder takes a byte slice covering exactly the record it decodes (the
// caller resolves locations against the whole file) and validates its own
// fixed-size bounds. All integers are little-endian.
package format

var (
	// Signature is the four-byte signature at the start of every minidump:
	//   0x00  'M' 'D' 'M' 'P'
	Signature = []byte{'M', 'D', 'M', 'P'}
)

const (
	// Version is the format version stored in the low 16 bits of the header
	// version field. The high 16 bits carry an internal build marker that
	// varies between writers and is ignored.
	Version = 0xA793

	// HeaderSize is the size of the minidump header in bytes.
	HeaderSize = 32

	// Header field offsets.
	HeaderSignatureOffset   = 0x00
	HeaderVersionOffset     = 0x04
	HeaderStreamCountOffset = 0x08
	HeaderDirectoryOffset   = 0x0C
	HeaderChecksumOffset    = 0x10
	HeaderTimestampOffset   = 0x14
	HeaderFlagsOffset       = 0x18

	// LocationSize is the size of a location descriptor: u32 length + u32 RVA.
	LocationSize = 8

	// DirectoryEntrySize is the size of one stream directory entry:
	// u32 stream type followed by a location descriptor.
	DirectoryEntrySize = 12

	// StringHeaderSize is the u32 byte-length prefix of a minidump string.
	// The UTF-16LE payload follows immediately.
	StringHeaderSize = 4

	// SystemInfoMinSize covers the fields this package decodes, through the
	// suite mask. Writers append CPU identification bytes past this point.
	SystemInfoMinSize = 32

	// System Info field offsets.
	SysArchOffset      = 0x00
	SysLevelOffset     = 0x02
	SysRevisionOffset  = 0x04
	SysCPUCountOffset  = 0x06
	SysProductOffset   = 0x07
	SysMajorOffset     = 0x08
	SysMinorOffset     = 0x0C
	SysBuildOffset     = 0x10
	SysPlatformOffset  = 0x14
	SysCSDRVAOffset    = 0x18
	SysSuiteMaskOffset = 0x1C

	// ModuleSize is the fixed size of one module list entry.
	ModuleSize = 108

	// Module field offsets.
	ModBaseOffset      = 0x00
	ModSizeOffset      = 0x08
	ModChecksumOffset  = 0x0C
	ModTimestampOffset = 0x10
	ModNameRVAOffset   = 0x14
	ModVersionOffset   = 0x18
	ModCVOffset        = 0x4C
	ModMiscOffset      = 0x54

	// VersionInfoSize is the size of the embedded VS_FIXEDFILEINFO block.
	VersionInfoSize = 52

	// ModuleListHeaderSize is the u32 module count preceding the entries.
	ModuleListHeaderSize = 4

	// ThreadSize is the fixed size of one thread list entry.
	ThreadSize = 48

	// Thread field offsets.
	ThrIDOffset            = 0x00
	ThrSuspendCountOffset  = 0x04
	ThrPriorityClassOffset = 0x08
	ThrPriorityOffset      = 0x0C
	ThrTEBOffset           = 0x10
	ThrStackOffset         = 0x18
	ThrContextOffset       = 0x28

	// ThreadListHeaderSize is the u32 thread count preceding the entries.
	ThreadListHeaderSize = 4

	// ExceptionStreamSize is the fixed size of the exception stream record:
	// thread id, alignment, the 152-byte exception record, and the context
	// location descriptor.
	ExceptionStreamSize = 168

	// Exception stream field offsets.
	ExcThreadIDOffset = 0x00
	ExcRecordOffset   = 0x08
	ExcContextOffset  = 0xA0

	// Offsets within the embedded exception record.
	ExcCodeOffset      = 0x00
	ExcFlagsOffset     = 0x04
	ExcChainOffset     = 0x08
	ExcAddressOffset   = 0x10
	ExcNumParamsOffset = 0x18
	ExcParamsOffset    = 0x20

	// MemoryDescriptorSize is one memory list entry: u64 base + location.
	MemoryDescriptorSize = 16

	// MemoryListHeaderSize is the u32 range count preceding the entries.
	MemoryListHeaderSize = 4

	// Memory64 list: u64 range count, u64 base RVA, then (u64 base, u64 size)
	// pairs whose bytes are packed back to back starting at the base RVA.
	Memory64ListHeaderSize = 16
	MemoryDescriptor64Size = 16

	// Memory info list: u32 header size, u32 entry size, u64 entry count.
	MemoryInfoListHeaderSize = 16

	// MemoryInfoSize is the known fixed layout of one memory info entry.
	MemoryInfoSize = 48

	// Memory info field offsets.
	MIBaseOffset         = 0x00
	MIAllocBaseOffset    = 0x08
	MIAllocProtectOffset = 0x10
	MIRegionSizeOffset   = 0x18
	MIStateOffset        = 0x20
	MIProtectOffset      = 0x24
	MITypeOffset         = 0x28

	// Handle data stream: u32 header size, u32 descriptor size, u32 count,
	// u32 reserved.
	HandleDataHeaderSize = 16

	// HandleDescriptorSize is the known fixed layout of one handle descriptor.
	// Writers may declare a larger size; the extra bytes are forward-compatible
	// padding and are skipped.
	HandleDescriptorSize = 32

	// Handle descriptor field offsets.
	HdlValueOffset         = 0x00
	HdlTypeNameRVAOffset   = 0x08
	HdlObjectNameRVAOffset = 0x0C
	HdlAttributesOffset    = 0x10
	HdlAccessOffset        = 0x14
	HdlHandleCountOffset   = 0x18
	HdlPointerCountOffset  = 0x1C

	// X64ContextMinSize covers the decoded x64 CONTEXT fields, through Rip.
	// The full record is 1232 bytes; everything past Rip stays raw.
	X64ContextMinSize = 256

	// X86ContextMinSize covers the decoded x86 CONTEXT fields, through SegSs.
	// The full record is 716 bytes including extended registers.
	X86ContextMinSize = 204
)
