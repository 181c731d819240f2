package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// DirectoryEntry is one stream directory slot:
//
//	Offset  Size  Description
//	0x00    4     Stream type tag
//	0x04    8     Location descriptor (length + RVA) of the stream payload
type DirectoryEntry struct {
	Kind     types.StreamKind
	Location types.Location
}

// DecodeLocation decodes the location descriptor at off within b.
func DecodeLocation(b []byte, off int) (types.Location, error) {
	s, ok := buf.Slice(b, off, LocationSize)
	if !ok {
		return types.Location{}, fmt.Errorf("location at %d: %w", off, types.ErrTruncatedField)
	}
	return types.Location{
		DataSize: buf.U32LE(s),
		RVA:      buf.U32LE(s[4:]),
	}, nil
}

// DecodeDirectoryEntry decodes the directory entry at off within b. The
// location is not bounds-checked here; the walker validates it against the
// whole file before dispatching.
func DecodeDirectoryEntry(b []byte, off int) (DirectoryEntry, error) {
	s, ok := buf.Slice(b, off, DirectoryEntrySize)
	if !ok {
		return DirectoryEntry{}, fmt.Errorf("directory entry at %d: %w", off, types.ErrTruncatedField)
	}
	loc, err := DecodeLocation(s, 4)
	if err != nil {
		return DirectoryEntry{}, err
	}
	return DirectoryEntry{
		Kind:     types.StreamKind(buf.U32LE(s)),
		Location: loc,
	}, nil
}

// CheckLocation verifies that loc stays inside a buffer of bufLen bytes.
// A zero-size location is always valid: it denotes an absent value.
func CheckLocation(loc types.Location, bufLen int) error {
	if loc.DataSize == 0 {
		return nil
	}
	end, ok := buf.AddOverflowSafe(int(loc.RVA), int(loc.DataSize))
	if !ok || end > bufLen {
		return fmt.Errorf("location rva=%d size=%d len=%d: %w", loc.RVA, loc.DataSize, bufLen, types.ErrOutOfBounds)
	}
	return nil
}
