package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// HandleDataHeader precedes the handle descriptors. Like the memory info
// list, the descriptor size is declared in the file for forward compatibility.
//
//	Offset  Size  Field
//	0x00    4     Size of this header
//	0x04    4     Size of each descriptor
//	0x08    4     Number of descriptors
//	0x0C    4     Reserved
type HandleDataHeader struct {
	SizeOfHeader        uint32
	SizeOfDescriptor    uint32
	NumberOfDescriptors uint32
}

// DecodeHandleDataHeader decodes the handle data stream header at the start
// of b.
func DecodeHandleDataHeader(b []byte) (HandleDataHeader, error) {
	if len(b) < HandleDataHeaderSize {
		return HandleDataHeader{}, fmt.Errorf("handle data: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), HandleDataHeaderSize)
	}
	return HandleDataHeader{
		SizeOfHeader:        buf.U32LE(b),
		SizeOfDescriptor:    buf.U32LE(b[4:]),
		NumberOfDescriptors: buf.U32LE(b[8:]),
	}, nil
}

// HandleRecord is one raw handle descriptor:
//
//	Offset  Size  Field
//	0x00    8     Handle value
//	0x08    4     RVA of the type name string
//	0x0C    4     RVA of the object name string
//	0x10    4     Attributes
//	0x14    4     Granted access mask
//	0x18    4     Handle count
//	0x1C    4     Pointer count
//	0x20    ..    Padding up to the declared descriptor size
type HandleRecord struct {
	Value         uint64
	TypeNameRVA   uint32
	ObjectNameRVA uint32
	Attributes    uint32
	GrantedAccess uint32
	HandleCount   uint32
	PointerCount  uint32
}

// DecodeHandle decodes the known fixed layout of one handle descriptor. b may
// be longer than HandleDescriptorSize when the stream declares a larger
// descriptor; only the known fields are read.
func DecodeHandle(b []byte) (HandleRecord, error) {
	if len(b) < HandleDescriptorSize {
		return HandleRecord{}, fmt.Errorf("handle descriptor: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), HandleDescriptorSize)
	}
	return HandleRecord{
		Value:         buf.U64LE(b[HdlValueOffset:]),
		TypeNameRVA:   buf.U32LE(b[HdlTypeNameRVAOffset:]),
		ObjectNameRVA: buf.U32LE(b[HdlObjectNameRVAOffset:]),
		Attributes:    buf.U32LE(b[HdlAttributesOffset:]),
		GrantedAccess: buf.U32LE(b[HdlAccessOffset:]),
		HandleCount:   buf.U32LE(b[HdlHandleCountOffset:]),
		PointerCount:  buf.U32LE(b[HdlPointerCountOffset:]),
	}, nil
}
