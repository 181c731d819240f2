package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// ModuleRecord is one raw module list entry:
//
//	Offset  Size  Field
//	0x00    8     Image base address
//	0x08    4     Image size
//	0x0C    4     Checksum
//	0x10    4     Timestamp (time_t)
//	0x14    4     RVA of the module path string
//	0x18    52    VS_FIXEDFILEINFO
//	0x4C    8     CodeView record location
//	0x54    8     Misc record location
//	0x5C    16    Reserved
type ModuleRecord struct {
	Base          uint64
	Size          uint32
	Checksum      uint32
	TimeDateStamp uint32
	NameRVA       uint32
	VersionInfo   types.VersionInfo
	CVRecord      types.Location
	MiscRecord    types.Location
}

// DecodeModule decodes the module record at the start of b.
func DecodeModule(b []byte) (ModuleRecord, error) {
	if len(b) < ModuleSize {
		return ModuleRecord{}, fmt.Errorf("module: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), ModuleSize)
	}
	cv, err := DecodeLocation(b, ModCVOffset)
	if err != nil {
		return ModuleRecord{}, fmt.Errorf("module cv record: %w", err)
	}
	misc, err := DecodeLocation(b, ModMiscOffset)
	if err != nil {
		return ModuleRecord{}, fmt.Errorf("module misc record: %w", err)
	}
	return ModuleRecord{
		Base:          buf.U64LE(b[ModBaseOffset:]),
		Size:          buf.U32LE(b[ModSizeOffset:]),
		Checksum:      buf.U32LE(b[ModChecksumOffset:]),
		TimeDateStamp: buf.U32LE(b[ModTimestampOffset:]),
		NameRVA:       buf.U32LE(b[ModNameRVAOffset:]),
		VersionInfo:   decodeVersionInfo(b[ModVersionOffset:]),
		CVRecord:      cv,
		MiscRecord:    misc,
	}, nil
}

// decodeVersionInfo decodes a VS_FIXEDFILEINFO block. The caller guarantees
// VersionInfoSize bytes.
func decodeVersionInfo(b []byte) types.VersionInfo {
	return types.VersionInfo{
		Signature:        buf.U32LE(b[0x00:]),
		StrucVersion:     buf.U32LE(b[0x04:]),
		FileVersionMS:    buf.U32LE(b[0x08:]),
		FileVersionLS:    buf.U32LE(b[0x0C:]),
		ProductVersionMS: buf.U32LE(b[0x10:]),
		ProductVersionLS: buf.U32LE(b[0x14:]),
		FileFlagsMask:    buf.U32LE(b[0x18:]),
		FileFlags:        buf.U32LE(b[0x1C:]),
		FileOS:           buf.U32LE(b[0x20:]),
		FileType:         buf.U32LE(b[0x24:]),
		FileSubtype:      buf.U32LE(b[0x28:]),
		FileDateMS:       buf.U32LE(b[0x2C:]),
		FileDateLS:       buf.U32LE(b[0x30:]),
	}
}
