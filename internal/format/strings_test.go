package format

import (
	"encoding/binary"
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/joshuapare/dumpkit/pkg/types"
)

// putString appends a minidump string (u32 byte length + UTF-16LE payload)
// to b and returns the new buffer and the string's RVA.
func putString(b []byte, s string) ([]byte, uint32) {
	rva := uint32(len(b))
	units := utf16.Encode([]rune(s))
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(units)*2))
	b = append(b, hdr[:]...)
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}
	return b, rva
}

func TestReadString(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"ascii path", `C:\Windows\System32\ntdll.dll`},
		{"empty", ""},
		{"non-ascii", "пример.dll"},
		{"astral plane", "a\U0001F4A9b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := make([]byte, 16) // leading padding so the RVA is non-zero
			b, rva := putString(b, tc.s)
			got, err := ReadString(b, rva)
			if err != nil {
				t.Fatalf("ReadString: %v", err)
			}
			if got != tc.s {
				t.Fatalf("got %q, want %q", got, tc.s)
			}
		})
	}
}

func TestReadStringZeroRVAIsAbsent(t *testing.T) {
	got, err := ReadString([]byte{1, 2, 3}, 0)
	if err != nil || got != "" {
		t.Fatalf("zero RVA should decode to empty: %q, %v", got, err)
	}
}

func TestReadStringTrimsTrailingNUL(t *testing.T) {
	b, rva := putString(make([]byte, 16), "kernel32.dll\x00")
	got, err := ReadString(b, rva)
	if err != nil || got != "kernel32.dll" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestReadStringOddLength(t *testing.T) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[8:], 3) // odd: not a UTF-16 span
	b = append(b, 'a', 0, 'b')
	if _, err := ReadString(b, 8); !errors.Is(err, types.ErrBadEncoding) {
		t.Fatalf("got %v, want ErrBadEncoding", err)
	}
}

func TestReadStringOutOfBounds(t *testing.T) {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[8:], 100) // span extends past the buffer
	if _, err := ReadString(b, 8); !errors.Is(err, types.ErrOutOfBounds) {
		t.Fatalf("length past end: got %v, want ErrOutOfBounds", err)
	}
	if _, err := ReadString(b, 1000); !errors.Is(err, types.ErrOutOfBounds) {
		t.Fatalf("rva past end: got %v, want ErrOutOfBounds", err)
	}
}

func TestReadStringLoneSurrogateSubstitutes(t *testing.T) {
	// 0xD800 with no low surrogate: must substitute, not fail the parse.
	b := append(make([]byte, 8), 4, 0, 0, 0, 0x00, 0xD8, 'x', 0x00)
	got, err := ReadString(b, 8)
	if err != nil {
		t.Fatalf("lone surrogate should not error: %v", err)
	}
	if got != "\uFFFDx" {
		t.Fatalf("got %q, want replacement rune then x", got)
	}
}
