package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func TestDecodeHandleDataHeader(t *testing.T) {
	b := make([]byte, HandleDataHeaderSize)
	binary.LittleEndian.PutUint32(b, HandleDataHeaderSize)
	binary.LittleEndian.PutUint32(b[4:], HandleDescriptorSize)
	binary.LittleEndian.PutUint32(b[8:], 5)

	h, err := DecodeHandleDataHeader(b)
	if err != nil {
		t.Fatalf("DecodeHandleDataHeader: %v", err)
	}
	if h.SizeOfHeader != HandleDataHeaderSize || h.SizeOfDescriptor != HandleDescriptorSize {
		t.Fatalf("header = %+v", h)
	}
	if h.NumberOfDescriptors != 5 {
		t.Fatalf("descriptor count = %d", h.NumberOfDescriptors)
	}
}

func TestDecodeHandle(t *testing.T) {
	b := make([]byte, HandleDescriptorSize)
	binary.LittleEndian.PutUint64(b[HdlValueOffset:], 0x1C8)
	binary.LittleEndian.PutUint32(b[HdlTypeNameRVAOffset:], 0x300)
	binary.LittleEndian.PutUint32(b[HdlObjectNameRVAOffset:], 0x340)
	binary.LittleEndian.PutUint32(b[HdlAttributesOffset:], 0x2)
	binary.LittleEndian.PutUint32(b[HdlAccessOffset:], 0x1F0003)
	binary.LittleEndian.PutUint32(b[HdlHandleCountOffset:], 4)
	binary.LittleEndian.PutUint32(b[HdlPointerCountOffset:], 9)

	rec, err := DecodeHandle(b)
	if err != nil {
		t.Fatalf("DecodeHandle: %v", err)
	}
	if rec.Value != 0x1C8 {
		t.Fatalf("value = 0x%x", rec.Value)
	}
	if rec.TypeNameRVA != 0x300 || rec.ObjectNameRVA != 0x340 {
		t.Fatalf("name rvas = 0x%x/0x%x", rec.TypeNameRVA, rec.ObjectNameRVA)
	}
	if rec.GrantedAccess != 0x1F0003 || rec.HandleCount != 4 || rec.PointerCount != 9 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestDecodeHandleExtraDescriptorBytes(t *testing.T) {
	// A descriptor larger than the known layout is legal; trailing bytes
	// are padding.
	b := make([]byte, HandleDescriptorSize+8)
	binary.LittleEndian.PutUint64(b[HdlValueOffset:], 0x44)
	rec, err := DecodeHandle(b)
	if err != nil {
		t.Fatalf("DecodeHandle: %v", err)
	}
	if rec.Value != 0x44 {
		t.Fatalf("value = 0x%x", rec.Value)
	}
}

func TestDecodeHandleTruncated(t *testing.T) {
	if _, err := DecodeHandle(make([]byte, HandleDescriptorSize-4)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("descriptor: got %v, want ErrTruncatedField", err)
	}
	if _, err := DecodeHandleDataHeader(make([]byte, 8)); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("header: got %v, want ErrTruncatedField", err)
	}
}
