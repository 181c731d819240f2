package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// MemoryInfoListHeader precedes the memory info entries. The header and entry
// sizes are declared in the file so later format revisions can grow either
// without breaking old readers.
//
//	Offset  Size  Field
//	0x00    4     Size of this header
//	0x04    4     Size of each entry
//	0x08    8     Number of entries
type MemoryInfoListHeader struct {
	SizeOfHeader    uint32
	SizeOfEntry     uint32
	NumberOfEntries uint64
}

// DecodeMemoryInfoListHeader decodes the memory info list header at the start
// of b.
func DecodeMemoryInfoListHeader(b []byte) (MemoryInfoListHeader, error) {
	if len(b) < MemoryInfoListHeaderSize {
		return MemoryInfoListHeader{}, fmt.Errorf("memory info list: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), MemoryInfoListHeaderSize)
	}
	return MemoryInfoListHeader{
		SizeOfHeader:    buf.U32LE(b),
		SizeOfEntry:     buf.U32LE(b[4:]),
		NumberOfEntries: buf.U64LE(b[8:]),
	}, nil
}

// DecodeMemoryInfo decodes the known fixed layout of one memory info entry:
//
//	Offset  Size  Field
//	0x00    8     Base address
//	0x08    8     Allocation base
//	0x10    4     Allocation protection
//	0x14    4     Alignment
//	0x18    8     Region size
//	0x20    4     State
//	0x24    4     Protection
//	0x28    4     Type
//	0x2C    4     Alignment
//
// b may be longer than MemoryInfoSize when the list declares a larger entry
// size; the extra bytes are skipped by the caller.
func DecodeMemoryInfo(b []byte) (types.MemoryInfo, error) {
	if len(b) < MemoryInfoSize {
		return types.MemoryInfo{}, fmt.Errorf("memory info: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), MemoryInfoSize)
	}
	return types.MemoryInfo{
		Base:              buf.U64LE(b[MIBaseOffset:]),
		AllocationBase:    buf.U64LE(b[MIAllocBaseOffset:]),
		AllocationProtect: buf.U32LE(b[MIAllocProtectOffset:]),
		RegionSize:        buf.U64LE(b[MIRegionSizeOffset:]),
		State:             buf.U32LE(b[MIStateOffset:]),
		Protect:           buf.U32LE(b[MIProtectOffset:]),
		Type:              buf.U32LE(b[MITypeOffset:]),
	}, nil
}
