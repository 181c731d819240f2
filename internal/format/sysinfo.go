package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// SystemInfoRecord is the raw System Info stream payload:
//
//	Offset  Size  Field
//	0x00    2     Processor architecture (0 = x86, 9 = x64)
//	0x02    2     Processor level
//	0x04    2     Processor revision
//	0x06    1     Number of processors
//	0x07    1     Product type
//	0x08    4     OS major version
//	0x0C    4     OS minor version
//	0x10    4     OS build number
//	0x14    4     Platform id
//	0x18    4     RVA of the CSD (service pack) version string
//	0x1C    2     Suite mask
//	0x1E    2     Reserved
//	0x20    ..    CPU identification (writer-specific, ignored)
type SystemInfoRecord struct {
	ProcessorArchitecture uint16
	ProcessorLevel        uint16
	ProcessorRevision     uint16
	NumberOfProcessors    uint8
	ProductType           uint8
	MajorVersion          uint32
	MinorVersion          uint32
	BuildNumber           uint32
	PlatformID            uint32
	CSDVersionRVA         uint32
	SuiteMask             uint16
}

// DecodeSystemInfo decodes the System Info record at the start of b.
func DecodeSystemInfo(b []byte) (SystemInfoRecord, error) {
	if len(b) < SystemInfoMinSize {
		return SystemInfoRecord{}, fmt.Errorf("system info: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), SystemInfoMinSize)
	}
	return SystemInfoRecord{
		ProcessorArchitecture: buf.U16LE(b[SysArchOffset:]),
		ProcessorLevel:        buf.U16LE(b[SysLevelOffset:]),
		ProcessorRevision:     buf.U16LE(b[SysRevisionOffset:]),
		NumberOfProcessors:    b[SysCPUCountOffset],
		ProductType:           b[SysProductOffset],
		MajorVersion:          buf.U32LE(b[SysMajorOffset:]),
		MinorVersion:          buf.U32LE(b[SysMinorOffset:]),
		BuildNumber:           buf.U32LE(b[SysBuildOffset:]),
		PlatformID:            buf.U32LE(b[SysPlatformOffset:]),
		CSDVersionRVA:         buf.U32LE(b[SysCSDRVAOffset:]),
		SuiteMask:             buf.U16LE(b[SysSuiteMaskOffset:]),
	}, nil
}
