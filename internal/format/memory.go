package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// MemoryDescriptor is one memory list entry: a base address plus the location
// of the captured bytes.
//
//	Offset  Size  Field
//	0x00    8     Base address of the range
//	0x08    8     Location descriptor of the captured bytes
type MemoryDescriptor struct {
	Base uint64
	Loc  types.Location
}

// DecodeMemoryDescriptor decodes the memory descriptor at the start of b.
func DecodeMemoryDescriptor(b []byte) (MemoryDescriptor, error) {
	if len(b) < MemoryDescriptorSize {
		return MemoryDescriptor{}, fmt.Errorf("memory descriptor: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), MemoryDescriptorSize)
	}
	loc, err := DecodeLocation(b, 8)
	if err != nil {
		return MemoryDescriptor{}, err
	}
	return MemoryDescriptor{
		Base: buf.U64LE(b),
		Loc:  loc,
	}, nil
}

// MemoryDescriptor64 is one memory64 list entry. The captured bytes of all
// entries are packed back to back starting at the list's base RVA, so the
// descriptor carries only base and size.
//
//	Offset  Size  Field
//	0x00    8     Base address of the range
//	0x08    8     Size of the captured bytes
type MemoryDescriptor64 struct {
	Base uint64
	Size uint64
}

// DecodeMemoryDescriptor64 decodes the memory64 descriptor at the start of b.
func DecodeMemoryDescriptor64(b []byte) (MemoryDescriptor64, error) {
	if len(b) < MemoryDescriptor64Size {
		return MemoryDescriptor64{}, fmt.Errorf("memory64 descriptor: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), MemoryDescriptor64Size)
	}
	return MemoryDescriptor64{
		Base: buf.U64LE(b),
		Size: buf.U64LE(b[8:]),
	}, nil
}

// Memory64ListHeader precedes the memory64 descriptors.
//
//	Offset  Size  Field
//	0x00    8     Number of ranges
//	0x08    8     RVA where the first range's bytes begin
type Memory64ListHeader struct {
	NumberOfRanges uint64
	BaseRVA        uint64
}

// DecodeMemory64ListHeader decodes the memory64 list header at the start of b.
func DecodeMemory64ListHeader(b []byte) (Memory64ListHeader, error) {
	if len(b) < Memory64ListHeaderSize {
		return Memory64ListHeader{}, fmt.Errorf("memory64 list: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), Memory64ListHeaderSize)
	}
	return Memory64ListHeader{
		NumberOfRanges: buf.U64LE(b),
		BaseRVA:        buf.U64LE(b[8:]),
	}, nil
}
