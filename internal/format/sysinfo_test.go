package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func TestDecodeSystemInfo(t *testing.T) {
	b := make([]byte, 56) // writers emit CPU identification past the fixed part
	binary.LittleEndian.PutUint16(b[SysArchOffset:], types.ProcessorArchitectureAMD64)
	binary.LittleEndian.PutUint16(b[SysLevelOffset:], 6)
	binary.LittleEndian.PutUint16(b[SysRevisionOffset:], 0x9E0D)
	b[SysCPUCountOffset] = 16
	b[SysProductOffset] = 1
	binary.LittleEndian.PutUint32(b[SysMajorOffset:], 10)
	binary.LittleEndian.PutUint32(b[SysMinorOffset:], 0)
	binary.LittleEndian.PutUint32(b[SysBuildOffset:], 19045)
	binary.LittleEndian.PutUint32(b[SysPlatformOffset:], 2)
	binary.LittleEndian.PutUint32(b[SysCSDRVAOffset:], 0x1234)
	binary.LittleEndian.PutUint16(b[SysSuiteMaskOffset:], 0x300)

	rec, err := DecodeSystemInfo(b)
	if err != nil {
		t.Fatalf("DecodeSystemInfo: %v", err)
	}
	if rec.ProcessorArchitecture != types.ProcessorArchitectureAMD64 {
		t.Fatalf("arch = %d", rec.ProcessorArchitecture)
	}
	if rec.NumberOfProcessors != 16 || rec.ProductType != 1 {
		t.Fatalf("cpu/product = %d/%d", rec.NumberOfProcessors, rec.ProductType)
	}
	if rec.MajorVersion != 10 || rec.BuildNumber != 19045 {
		t.Fatalf("os version = %d.%d.%d", rec.MajorVersion, rec.MinorVersion, rec.BuildNumber)
	}
	if rec.CSDVersionRVA != 0x1234 {
		t.Fatalf("csd rva = 0x%x", rec.CSDVersionRVA)
	}
	if rec.SuiteMask != 0x300 {
		t.Fatalf("suite mask = 0x%x", rec.SuiteMask)
	}
}

func TestDecodeSystemInfoTruncated(t *testing.T) {
	if _, err := DecodeSystemInfo(make([]byte, SystemInfoMinSize-1)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("got %v, want ErrTruncatedField", err)
	}
}
