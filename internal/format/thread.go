package format

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/pkg/types"
)

// ThreadRecord is one raw thread list entry:
//
//	Offset  Size  Field
//	0x00    4     Thread id
//	0x04    4     Suspend count
//	0x08    4     Priority class
//	0x0C    4     Priority
//	0x10    8     TEB address
//	0x18    16    Stack memory descriptor (u64 base + location)
//	0x28    8     Register context location
type ThreadRecord struct {
	ID            uint32
	SuspendCount  uint32
	PriorityClass uint32
	Priority      uint32
	TEB           uint64
	StackBase     uint64
	StackLoc      types.Location
	ContextLoc    types.Location
}

// DecodeThread decodes the thread record at the start of b.
func DecodeThread(b []byte) (ThreadRecord, error) {
	if len(b) < ThreadSize {
		return ThreadRecord{}, fmt.Errorf("thread: %w (have %d, need %d)",
			types.ErrTruncatedField, len(b), ThreadSize)
	}
	stackLoc, err := DecodeLocation(b, ThrStackOffset+8)
	if err != nil {
		return ThreadRecord{}, fmt.Errorf("thread stack: %w", err)
	}
	ctxLoc, err := DecodeLocation(b, ThrContextOffset)
	if err != nil {
		return ThreadRecord{}, fmt.Errorf("thread context: %w", err)
	}
	return ThreadRecord{
		ID:            buf.U32LE(b[ThrIDOffset:]),
		SuspendCount:  buf.U32LE(b[ThrSuspendCountOffset:]),
		PriorityClass: buf.U32LE(b[ThrPriorityClassOffset:]),
		Priority:      buf.U32LE(b[ThrPriorityOffset:]),
		TEB:           buf.U64LE(b[ThrTEBOffset:]),
		StackBase:     buf.U64LE(b[ThrStackOffset:]),
		StackLoc:      stackLoc,
		ContextLoc:    ctxLoc,
	}, nil
}
