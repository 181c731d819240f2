package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// ExceptionRecord is the raw exception stream payload:
//
//	Offset  Size  Field
//	0x00    4     Faulting thread id
//	0x04    4     Alignment
//	0x08    152   Exception record:
//	              0x00  4    Exception code
//	              0x04  4    Exception flags
//	              0x08  8    Address of a chained exception record
//	              0x10  8    Faulting address
//	              0x18  4    Parameter count (capped at 15)
//	              0x1C  4    Alignment
//	              0x20  120  Parameters, 15 x u64
//	0xA0    8     Register context location
type ExceptionRecord struct {
	ThreadID      uint32
	Code          uint32
	Flags         uint32
	RecordAddress uint64
	Address       uint64
	Parameters    []uint64
	ContextLoc    types.Location
}

// DecodeException decodes the exception stream record at the start of b. The
// parameter count is clamped to the fixed array capacity; a larger declared
// count cannot reference bytes that exist in the record.
func DecodeException(b []byte) (ExceptionRecord, error) {
	if len(b) < ExceptionStreamSize {
		return ExceptionRecord{}, fmt.Errorf("exception: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), ExceptionStreamSize)
	}
	rec := b[ExcRecordOffset:]
	numParams := buf.U32LE(rec[ExcNumParamsOffset:])
	if numParams > types.ExceptionMaximumParameters {
		numParams = types.ExceptionMaximumParameters
	}
	params := make([]uint64, numParams)
	for i := range params {
		params[i] = buf.U64LE(rec[ExcParamsOffset+8*i:])
	}
	ctxLoc, err := DecodeLocation(b, ExcContextOffset)
	if err != nil {
		return ExceptionRecord{}, fmt.Errorf("exception context: %w", err)
	}
	return ExceptionRecord{
		ThreadID:      buf.U32LE(b[ExcThreadIDOffset:]),
		Code:          buf.U32LE(rec[ExcCodeOffset:]),
		Flags:         buf.U32LE(rec[ExcFlagsOffset:]),
		RecordAddress: buf.U64LE(rec[ExcChainOffset:]),
		Address:       buf.U64LE(rec[ExcAddressOffset:]),
		Parameters:    params,
		ContextLoc:    ctxLoc,
	}, nil
}
