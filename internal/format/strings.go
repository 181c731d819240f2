package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// utf16Decoder converts UTF-16LE spans to UTF-8. Lone or reversed surrogates
// decode to the replacement rune instead of failing the parse; module paths
// with a mangled character are still worth returning.
var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ReadString resolves a minidump string at the given RVA:
//
//	Offset  Size  Description
//	0x00    4     Byte length of the UTF-16LE payload (excluding terminator)
//	0x04    n     UTF-16LE code units
//
// An RVA of zero denotes an absent string and decodes to "". The declared
// length must be even; UTF-16 code units are two bytes each, so an odd span
// cannot be a valid string and is reported rather than rounded.
func ReadString(b []byte, rva uint32) (string, error) {
	if rva == 0 {
		return "", nil
	}
	hdr, ok := buf.Slice(b, int(rva), StringHeaderSize)
	if !ok {
		return "", fmt.Errorf("string at %d: %w", rva, types.ErrOutOfBounds)
	}
	n := buf.U32LE(hdr)
	if n == 0 {
		return "", nil
	}
	if n%2 != 0 {
		return "", fmt.Errorf("string at %d: odd length %d: %w", rva, n, types.ErrBadEncoding)
	}
	raw, ok := buf.Slice(b, int(rva)+StringHeaderSize, int(n))
	if !ok {
		return "", fmt.Errorf("string at %d: %d bytes: %w", rva, n, types.ErrOutOfBounds)
	}
	decoded, err := utf16Decoder.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("string at %d: %w: %v", rva, types.ErrBadEncoding, err)
	}
	return strings.TrimRight(string(decoded), "\x00"), nil
}
