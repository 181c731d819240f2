package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func TestDecodeDirectoryEntry(t *testing.T) {
	b := make([]byte, DirectoryEntrySize)
	binary.LittleEndian.PutUint32(b[0:], uint32(types.ModuleListStream))
	binary.LittleEndian.PutUint32(b[4:], 0x40) // size
	binary.LittleEndian.PutUint32(b[8:], 0x80) // rva

	entry, err := DecodeDirectoryEntry(b, 0)
	if err != nil {
		t.Fatalf("DecodeDirectoryEntry: %v", err)
	}
	if entry.Kind != types.ModuleListStream {
		t.Fatalf("kind = %v", entry.Kind)
	}
	if entry.Location.DataSize != 0x40 || entry.Location.RVA != 0x80 {
		t.Fatalf("location = %+v", entry.Location)
	}

	if _, err := DecodeDirectoryEntry(b, 8); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("partial entry: got %v, want ErrTruncatedField", err)
	}
}

func TestCheckLocation(t *testing.T) {
	if err := CheckLocation(types.Location{DataSize: 10, RVA: 90}, 100); err != nil {
		t.Fatalf("in-bounds location rejected: %v", err)
	}
	if err := CheckLocation(types.Location{DataSize: 11, RVA: 90}, 100); !errors.Is(err, types.ErrOutOfBounds) {
		t.Fatalf("got %v, want ErrOutOfBounds", err)
	}
	// Zero size is absent, valid anywhere, even with a nonsense RVA.
	if err := CheckLocation(types.Location{DataSize: 0, RVA: 0xFFFFFFFF}, 100); err != nil {
		t.Fatalf("empty location rejected: %v", err)
	}
}
