//go:build windows

package mmfile

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map maps the file at path into memory via a read-only file mapping and
// returns its contents. Dump files on the machines that produce them are
// read through the same CreateFileMapping/MapViewOfFile pair.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // mapping keeps the view alive after the handle closes

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}

	mapping, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: create file mapping: %w", err)
	}
	view, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ, 0, 0, 0)
	if err != nil {
		_ = windows.CloseHandle(mapping)
		return nil, nil, fmt.Errorf("mmfile: map view of file: %w", err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(view)), int(size))
	cleanup := func() error {
		if err := windows.UnmapViewOfFile(view); err != nil {
			_ = windows.CloseHandle(mapping)
			return err
		}
		return windows.CloseHandle(mapping)
	}
	return data, cleanup, nil
}
