package types

import "fmt"

// StreamKind enumerates minidump stream types. The numbers align with the
// MINIDUMP_STREAM_TYPE values Windows writes into the directory.
type StreamKind uint32

const (
	UnusedStream             StreamKind = 0
	ThreadListStream         StreamKind = 3
	ModuleListStream         StreamKind = 4
	MemoryListStream         StreamKind = 5
	ExceptionStream          StreamKind = 6
	SystemInfoStream         StreamKind = 7
	ThreadExListStream       StreamKind = 8
	Memory64ListStream       StreamKind = 9
	CommentStreamA           StreamKind = 10
	CommentStreamW           StreamKind = 11
	HandleDataStream         StreamKind = 12
	FunctionTableStream      StreamKind = 13
	UnloadedModuleListStream StreamKind = 14
	MiscInfoStream           StreamKind = 15
	MemoryInfoListStream     StreamKind = 16
	ThreadInfoListStream     StreamKind = 17
	HandleOperationStream    StreamKind = 18
	TokenStream              StreamKind = 19
	ThreadNamesStream        StreamKind = 24
)

// Known reports whether this implementation has a decoder for the stream kind.
// Unknown kinds are recorded as present-but-unparsed, never an error.
func (k StreamKind) Known() bool {
	switch k {
	case ThreadListStream, ModuleListStream, MemoryListStream, ExceptionStream,
		SystemInfoStream, Memory64ListStream, HandleDataStream, MemoryInfoListStream:
		return true
	}
	return false
}

// String implements the Stringer interface for StreamKind.
func (k StreamKind) String() string {
	switch k {
	case UnusedStream:
		return "UnusedStream"
	case ThreadListStream:
		return "ThreadListStream"
	case ModuleListStream:
		return "ModuleListStream"
	case MemoryListStream:
		return "MemoryListStream"
	case ExceptionStream:
		return "ExceptionStream"
	case SystemInfoStream:
		return "SystemInfoStream"
	case ThreadExListStream:
		return "ThreadExListStream"
	case Memory64ListStream:
		return "Memory64ListStream"
	case CommentStreamA:
		return "CommentStreamA"
	case CommentStreamW:
		return "CommentStreamW"
	case HandleDataStream:
		return "HandleDataStream"
	case FunctionTableStream:
		return "FunctionTableStream"
	case UnloadedModuleListStream:
		return "UnloadedModuleListStream"
	case MiscInfoStream:
		return "MiscInfoStream"
	case MemoryInfoListStream:
		return "MemoryInfoListStream"
	case ThreadInfoListStream:
		return "ThreadInfoListStream"
	case HandleOperationStream:
		return "HandleOperationListStream"
	case TokenStream:
		return "TokenStream"
	case ThreadNamesStream:
		return "ThreadNamesStream"
	default:
		return fmt.Sprintf("Stream(%d)", uint32(k))
	}
}
