package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/joshuapare/dumpkit/internal/format"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// writeTestDump builds a small synthetic dump (system info + one module) and
// writes it to a temp file, returning its path.
func writeTestDump(t *testing.T) string {
	t.Helper()

	data := make([]byte, format.HeaderSize)
	copy(data, format.Signature)
	binary.LittleEndian.PutUint32(data[format.HeaderVersionOffset:], format.Version)
	binary.LittleEndian.PutUint32(data[format.HeaderTimestampOffset:], 1_725_000_000)

	add := func(p []byte) uint32 {
		rva := uint32(len(data))
		data = append(data, p...)
		return rva
	}

	name := `C:\Windows\System32\kernelbase.dll`
	units := utf16.Encode([]rune(name))
	str := make([]byte, format.StringHeaderSize+len(units)*2)
	binary.LittleEndian.PutUint32(str, uint32(len(units)*2))
	for i, u := range units {
		binary.LittleEndian.PutUint16(str[format.StringHeaderSize+2*i:], u)
	}
	nameRVA := add(str)

	sys := make([]byte, format.SystemInfoMinSize)
	binary.LittleEndian.PutUint16(sys[format.SysArchOffset:], types.ProcessorArchitectureAMD64)
	binary.LittleEndian.PutUint32(sys[format.SysMajorOffset:], 10)
	binary.LittleEndian.PutUint32(sys[format.SysBuildOffset:], 22631)
	sysRVA := add(sys)

	mod := make([]byte, format.ModuleSize)
	binary.LittleEndian.PutUint64(mod[format.ModBaseOffset:], 0x7FFC_0000_0000)
	binary.LittleEndian.PutUint32(mod[format.ModSizeOffset:], 0x30_0000)
	binary.LittleEndian.PutUint32(mod[format.ModNameRVAOffset:], nameRVA)
	list := make([]byte, format.ModuleListHeaderSize)
	binary.LittleEndian.PutUint32(list, 1)
	modsRVA := add(append(list, mod...))

	dirRVA := uint32(len(data))
	writeEntry := func(kind types.StreamKind, size, rva uint32) {
		var ent [format.DirectoryEntrySize]byte
		binary.LittleEndian.PutUint32(ent[0:], uint32(kind))
		binary.LittleEndian.PutUint32(ent[4:], size)
		binary.LittleEndian.PutUint32(ent[8:], rva)
		data = append(data, ent[:]...)
	}
	writeEntry(types.SystemInfoStream, format.SystemInfoMinSize, sysRVA)
	writeEntry(types.ModuleListStream, format.ModuleListHeaderSize+format.ModuleSize, modsRVA)
	binary.LittleEndian.PutUint32(data[format.HeaderStreamCountOffset:], 2)
	binary.LittleEndian.PutUint32(data[format.HeaderDirectoryOffset:], dirRVA)

	path := filepath.Join(t.TempDir(), "test.dmp")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test dump: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return buf.String(), runErr
}
