package format

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/joshuapare/dumpkit/pkg/types"
)

func validHeader() []byte {
	b := make([]byte, HeaderSize)
	copy(b, Signature)
	binary.LittleEndian.PutUint32(b[HeaderVersionOffset:], 0x61B1_0000|Version)
	binary.LittleEndian.PutUint32(b[HeaderStreamCountOffset:], 3)
	binary.LittleEndian.PutUint32(b[HeaderDirectoryOffset:], HeaderSize)
	binary.LittleEndian.PutUint32(b[HeaderChecksumOffset:], 0)
	binary.LittleEndian.PutUint32(b[HeaderTimestampOffset:], 1_700_000_000)
	binary.LittleEndian.PutUint64(b[HeaderFlagsOffset:], 0x2)
	return b
}

func TestParseHeaderSuccess(t *testing.T) {
	hdr, err := ParseHeader(validHeader())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.StreamCount != 3 {
		t.Fatalf("stream count mismatch: %+v", hdr)
	}
	if hdr.DirectoryRVA != HeaderSize {
		t.Fatalf("directory rva mismatch: %+v", hdr)
	}
	if hdr.TimeDateStamp != 1_700_000_000 {
		t.Fatalf("timestamp mismatch: %+v", hdr)
	}
	if hdr.Flags != 0x2 {
		t.Fatalf("flags mismatch: %+v", hdr)
	}
	// The build marker in the high word must not affect version acceptance.
	if hdr.Version&0xFFFF != Version {
		t.Fatalf("version mismatch: %+v", hdr)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	// Any corruption of the signature bytes must yield ErrInvalidMagic, and
	// only corruption of the signature bytes.
	for i := 0; i < len(Signature); i++ {
		b := validHeader()
		b[i] ^= 0xFF
		if _, err := ParseHeader(b); !errors.Is(err, types.ErrInvalidMagic) {
			t.Fatalf("byte %d mutated: got %v, want ErrInvalidMagic", i, err)
		}
	}
	if _, err := ParseHeader(validHeader()); err != nil {
		t.Fatalf("unmutated header should parse: %v", err)
	}
}

func TestParseHeaderBadVersion(t *testing.T) {
	b := validHeader()
	binary.LittleEndian.PutUint32(b[HeaderVersionOffset:], 0x0001)
	if _, err := ParseHeader(b); !errors.Is(err, types.ErrUnsupportedVersion) {
		t.Fatalf("got %v, want ErrUnsupportedVersion", err)
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	b := validHeader()
	if _, err := ParseHeader(b[:10]); !errors.Is(err, types.ErrTruncatedField) {
		t.Fatalf("got %v, want ErrTruncatedField", err)
	}
}
