package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func TestDecodeMemoryDescriptor(t *testing.T) {
	b := make([]byte, MemoryDescriptorSize)
	binary.LittleEndian.PutUint64(b, 0x10_0000)
	binary.LittleEndian.PutUint32(b[8:], 0x1000)
	binary.LittleEndian.PutUint32(b[12:], 0x4000)

	d, err := DecodeMemoryDescriptor(b)
	if err != nil {
		t.Fatalf("DecodeMemoryDescriptor: %v", err)
	}
	if d.Base != 0x10_0000 {
		t.Fatalf("base = 0x%x", d.Base)
	}
	if d.Loc.DataSize != 0x1000 || d.Loc.RVA != 0x4000 {
		t.Fatalf("loc = %+v", d.Loc)
	}
}

func TestDecodeMemoryDescriptor64(t *testing.T) {
	b := make([]byte, MemoryDescriptor64Size)
	binary.LittleEndian.PutUint64(b, 0x7FFE_0000)
	binary.LittleEndian.PutUint64(b[8:], 0x1_0000)

	d, err := DecodeMemoryDescriptor64(b)
	if err != nil {
		t.Fatalf("DecodeMemoryDescriptor64: %v", err)
	}
	if d.Base != 0x7FFE_0000 || d.Size != 0x1_0000 {
		t.Fatalf("descriptor = %+v", d)
	}
}

func TestDecodeMemory64ListHeader(t *testing.T) {
	b := make([]byte, Memory64ListHeaderSize)
	binary.LittleEndian.PutUint64(b, 3)
	binary.LittleEndian.PutUint64(b[8:], 0x2_0000)

	h, err := DecodeMemory64ListHeader(b)
	if err != nil {
		t.Fatalf("DecodeMemory64ListHeader: %v", err)
	}
	if h.NumberOfRanges != 3 || h.BaseRVA != 0x2_0000 {
		t.Fatalf("header = %+v", h)
	}
}

func TestDecodeMemoryTruncated(t *testing.T) {
	if _, err := DecodeMemoryDescriptor(make([]byte, 8)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("descriptor: got %v, want ErrTruncatedField", err)
	}
	if _, err := DecodeMemoryDescriptor64(make([]byte, 8)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("descriptor64: got %v, want ErrTruncatedField", err)
	}
	if _, err := DecodeMemory64ListHeader(make([]byte, 8)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("list header: got %v, want ErrTruncatedField", err)
	}
}
