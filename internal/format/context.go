package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// Register context decoding. The CONTEXT layout depends on the processor
// architecture recorded in the System Info stream; a dump without System Info
// keeps its context blobs raw rather than guessing a layout.

// DecodeX64Context decodes the integer and control registers of an x64
// CONTEXT record. Offsets follow the Windows AMD64 CONTEXT structure; the
// floating point and vector state past Rip is left to the raw blob.
func DecodeX64Context(b []byte) (*types.X64Context, error) {
	if len(b) < X64ContextMinSize {
		return nil, fmt.Errorf("x64 context: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), X64ContextMinSize)
	}
	return &types.X64Context{
		ContextFlags: buf.U32LE(b[0x30:]),
		MxCsr:        buf.U32LE(b[0x34:]),
		SegCs:        buf.U16LE(b[0x38:]),
		SegDs:        buf.U16LE(b[0x3A:]),
		SegEs:        buf.U16LE(b[0x3C:]),
		SegFs:        buf.U16LE(b[0x3E:]),
		SegGs:        buf.U16LE(b[0x40:]),
		SegSs:        buf.U16LE(b[0x42:]),
		EFlags:       buf.U32LE(b[0x44:]),
		Dr0:          buf.U64LE(b[0x48:]),
		Dr1:          buf.U64LE(b[0x50:]),
		Dr2:          buf.U64LE(b[0x58:]),
		Dr3:          buf.U64LE(b[0x60:]),
		Dr6:          buf.U64LE(b[0x68:]),
		Dr7:          buf.U64LE(b[0x70:]),
		Rax:          buf.U64LE(b[0x78:]),
		Rcx:          buf.U64LE(b[0x80:]),
		Rdx:          buf.U64LE(b[0x88:]),
		Rbx:          buf.U64LE(b[0x90:]),
		Rsp:          buf.U64LE(b[0x98:]),
		Rbp:          buf.U64LE(b[0xA0:]),
		Rsi:          buf.U64LE(b[0xA8:]),
		Rdi:          buf.U64LE(b[0xB0:]),
		R8:           buf.U64LE(b[0xB8:]),
		R9:           buf.U64LE(b[0xC0:]),
		R10:          buf.U64LE(b[0xC8:]),
		R11:          buf.U64LE(b[0xD0:]),
		R12:          buf.U64LE(b[0xD8:]),
		R13:          buf.U64LE(b[0xE0:]),
		R14:          buf.U64LE(b[0xE8:]),
		R15:          buf.U64LE(b[0xF0:]),
		Rip:          buf.U64LE(b[0xF8:]),
	}, nil
}

// DecodeX86Context decodes the integer and control registers of an x86
// CONTEXT record. The 80-byte FPU register area and the 512 extended register
// bytes are left to the raw blob.
func DecodeX86Context(b []byte) (*types.X86Context, error) {
	if len(b) < X86ContextMinSize {
		return nil, fmt.Errorf("x86 context: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), X86ContextMinSize)
	}
	return &types.X86Context{
		ContextFlags: buf.U32LE(b[0x00:]),
		Dr0:          buf.U32LE(b[0x04:]),
		Dr1:          buf.U32LE(b[0x08:]),
		Dr2:          buf.U32LE(b[0x0C:]),
		Dr3:          buf.U32LE(b[0x10:]),
		Dr6:          buf.U32LE(b[0x14:]),
		Dr7:          buf.U32LE(b[0x18:]),
		SegGs:        buf.U32LE(b[0x8C:]),
		SegFs:        buf.U32LE(b[0x90:]),
		SegEs:        buf.U32LE(b[0x94:]),
		SegDs:        buf.U32LE(b[0x98:]),
		Edi:          buf.U32LE(b[0x9C:]),
		Esi:          buf.U32LE(b[0xA0:]),
		Ebx:          buf.U32LE(b[0xA4:]),
		Edx:          buf.U32LE(b[0xA8:]),
		Ecx:          buf.U32LE(b[0xAC:]),
		Eax:          buf.U32LE(b[0xB0:]),
		Ebp:          buf.U32LE(b[0xB4:]),
		Eip:          buf.U32LE(b[0xB8:]),
		SegCs:        buf.U32LE(b[0xBC:]),
		EFlags:       buf.U32LE(b[0xC0:]),
		Esp:          buf.U32LE(b[0xC4:]),
		SegSs:        buf.U32LE(b[0xC8:]),
	}, nil
}
