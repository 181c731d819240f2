package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// Header captures the minidump file header. The layout is fixed:
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    'M' 'D' 'M' 'P'
//	 0x04    4    Version (low 16 bits: format version, high 16: build marker)
//	 0x08    4    Number of directory entries
//	 0x0C    4    RVA of the stream directory
//	 0x10    4    Checksum (usually zero)
//	 0x14    4    Capture time (time_t)
//	 0x18    8    MINIDUMP_TYPE flag bits describing what was captured
type Header struct {
	Version       uint32
	StreamCount   uint32
	DirectoryRVA  uint32
	Checksum      uint32
	TimeDateStamp uint32
	Flags         uint64
}

// ParseHeader validates and extracts the minidump header at the start of b.
// The signature must match and the low word of the version must be the known
// format version; the flag bits are exposed untouched, since unknown flags
// only describe optional content and never change the container layout.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w (have %d, need %d)", types.ErrTruncatedField, len(b), HeaderSize)
	}
	if !bytes.Equal(b[:len(Signature)], Signature) {
		return Header{}, fmt.Errorf("header: %w", types.ErrInvalidMagic)
	}
	version := buf.U32LE(b[HeaderVersionOffset:])
	if version&0xFFFF != Version {
		return Header{}, fmt.Errorf("header: %w (version 0x%x)", types.ErrUnsupportedVersion, version&0xFFFF)
	}
	return Header{
		Version:       version,
		StreamCount:   buf.U32LE(b[HeaderStreamCountOffset:]),
		DirectoryRVA:  buf.U32LE(b[HeaderDirectoryOffset:]),
		Checksum:      buf.U32LE(b[HeaderChecksumOffset:]),
		TimeDateStamp: buf.U32LE(b[HeaderTimestampOffset:]),
		Flags:         buf.U64LE(b[HeaderFlagsOffset:]),
	}, nil
}
