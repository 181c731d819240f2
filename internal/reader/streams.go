package reader

import (
	"fmt"

	"github.com/joshuapare/dumpkit/internal/buf"
	"github.com/joshuapare/dumpkit/internal/format"
	"github.com/joshuapare/dumpkit/pkg/types"
)

func (p *parser) decodeSystemInfo(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	rec, err := format.DecodeSystemInfo(payload)
	if err != nil {
		return err
	}
	csd, err := format.ReadString(p.buf, rec.CSDVersionRVA)
	if err != nil {
		return fmt.Errorf("csd version: %w", err)
	}
	p.snap.SystemInfo = &types.SystemInfo{
		ProcessorArchitecture: rec.ProcessorArchitecture,
		ProcessorLevel:        rec.ProcessorLevel,
		ProcessorRevision:     rec.ProcessorRevision,
		NumberOfProcessors:    rec.NumberOfProcessors,
		ProductType:           rec.ProductType,
		MajorVersion:          rec.MajorVersion,
		MinorVersion:          rec.MinorVersion,
		BuildNumber:           rec.BuildNumber,
		PlatformID:            rec.PlatformID,
		CSDVersion:            csd,
		SuiteMask:             rec.SuiteMask,
	}
	return nil
}

func (p *parser) decodeModuleList(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	if len(payload) < format.ModuleListHeaderSize {
		return fmt.Errorf("module list: %w", types.ErrTruncatedField)
	}
	count := int(buf.U32LE(payload))
	if err := p.checkCount("module list", len(payload), format.ModuleListHeaderSize, count, format.ModuleSize); err != nil {
		return err
	}

	modules := make([]types.Module, 0, count)
	for i := 0; i < count; i++ {
		rec, err := format.DecodeModule(payload[format.ModuleListHeaderSize+i*format.ModuleSize:])
		if err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
		name, err := format.ReadString(p.buf, rec.NameRVA)
		if err != nil {
			return fmt.Errorf("module %d name: %w", i, err)
		}
		if err := format.CheckLocation(rec.CVRecord, len(p.buf)); err != nil {
			return fmt.Errorf("module %d cv record: %w", i, err)
		}
		if err := format.CheckLocation(rec.MiscRecord, len(p.buf)); err != nil {
			return fmt.Errorf("module %d misc record: %w", i, err)
		}
		modules = append(modules, types.Module{
			Base:          rec.Base,
			Size:          rec.Size,
			Checksum:      rec.Checksum,
			TimeDateStamp: rec.TimeDateStamp,
			Path:          name,
			VersionInfo:   rec.VersionInfo,
			CVRecord:      rec.CVRecord,
			MiscRecord:    rec.MiscRecord,
		})
	}
	p.snap.Modules = modules
	return nil
}

func (p *parser) decodeThreadList(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	if len(payload) < format.ThreadListHeaderSize {
		return fmt.Errorf("thread list: %w", types.ErrTruncatedField)
	}
	count := int(buf.U32LE(payload))
	if err := p.checkCount("thread list", len(payload), format.ThreadListHeaderSize, count, format.ThreadSize); err != nil {
		return err
	}

	threads := make([]types.Thread, 0, count)
	for i := 0; i < count; i++ {
		rec, err := format.DecodeThread(payload[format.ThreadListHeaderSize+i*format.ThreadSize:])
		if err != nil {
			return fmt.Errorf("thread %d: %w", i, err)
		}
		if err := format.CheckLocation(rec.StackLoc, len(p.buf)); err != nil {
			return fmt.Errorf("thread %d stack: %w", i, err)
		}
		ctx, err := p.decodeContext(rec.ContextLoc)
		if err != nil {
			return fmt.Errorf("thread %d context: %w", i, err)
		}
		threads = append(threads, types.Thread{
			ID:            rec.ID,
			SuspendCount:  rec.SuspendCount,
			PriorityClass: rec.PriorityClass,
			Priority:      rec.Priority,
			TEB:           rec.TEB,
			Stack: types.MemoryRange{
				Base:   rec.StackBase,
				Size:   uint64(rec.StackLoc.DataSize),
				Offset: uint64(rec.StackLoc.RVA),
			},
			Context: ctx,
		})
	}
	p.snap.Threads = threads
	return nil
}

func (p *parser) decodeException(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	rec, err := format.DecodeException(payload)
	if err != nil {
		return err
	}
	ctx, err := p.decodeContext(rec.ContextLoc)
	if err != nil {
		return fmt.Errorf("exception context: %w", err)
	}
	p.snap.Exception = &types.Exception{
		ThreadID:      rec.ThreadID,
		Code:          rec.Code,
		Flags:         rec.Flags,
		RecordAddress: rec.RecordAddress,
		Address:       rec.Address,
		Parameters:    rec.Parameters,
		Context:       ctx,
	}
	return nil
}

func (p *parser) decodeMemoryList(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	if len(payload) < format.MemoryListHeaderSize {
		return fmt.Errorf("memory list: %w", types.ErrTruncatedField)
	}
	count := int(buf.U32LE(payload))
	if err := p.checkCount("memory list", len(payload), format.MemoryListHeaderSize, count, format.MemoryDescriptorSize); err != nil {
		return err
	}

	ranges := make([]types.MemoryRange, 0, count)
	for i := 0; i < count; i++ {
		rec, err := format.DecodeMemoryDescriptor(payload[format.MemoryListHeaderSize+i*format.MemoryDescriptorSize:])
		if err != nil {
			return fmt.Errorf("memory range %d: %w", i, err)
		}
		if err := format.CheckLocation(rec.Loc, len(p.buf)); err != nil {
			return fmt.Errorf("memory range %d: %w", i, err)
		}
		ranges = append(ranges, types.MemoryRange{
			Base:   rec.Base,
			Size:   uint64(rec.Loc.DataSize),
			Offset: uint64(rec.Loc.RVA),
		})
	}
	p.memList = ranges
	return nil
}

func (p *parser) decodeMemory64List(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	head, err := format.DecodeMemory64ListHeader(payload)
	if err != nil {
		return err
	}
	count := int(head.NumberOfRanges)
	if count < 0 {
		return fmt.Errorf("memory64 list: count %d: %w", head.NumberOfRanges, types.ErrCountOverflow)
	}
	if err := p.checkCount("memory64 list", len(payload), format.Memory64ListHeaderSize, count, format.MemoryDescriptor64Size); err != nil {
		return err
	}

	// The captured bytes of every range sit back to back starting at the
	// list's base RVA; each descriptor implicitly advances the offset.
	offset := head.BaseRVA
	ranges := make([]types.MemoryRange, 0, count)
	for i := 0; i < count; i++ {
		rec, err := format.DecodeMemoryDescriptor64(payload[format.Memory64ListHeaderSize+i*format.MemoryDescriptor64Size:])
		if err != nil {
			return fmt.Errorf("memory64 range %d: %w", i, err)
		}
		end, ok := addU64(offset, rec.Size)
		if !ok || end > uint64(len(p.buf)) {
			return fmt.Errorf("memory64 range %d: offset %d size %d: %w", i, offset, rec.Size, types.ErrOutOfBounds)
		}
		ranges = append(ranges, types.MemoryRange{
			Base:   rec.Base,
			Size:   rec.Size,
			Offset: offset,
		})
		offset = end
	}
	p.mem64 = ranges
	return nil
}

func (p *parser) decodeMemoryInfoList(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	head, err := format.DecodeMemoryInfoListHeader(payload)
	if err != nil {
		return err
	}
	if head.SizeOfHeader < format.MemoryInfoListHeaderSize {
		return fmt.Errorf("memory info list: header size %d below known layout: %w",
			head.SizeOfHeader, types.ErrTruncatedField)
	}
	// A narrower entry than the known layout cannot hold the fields we
	// decode; treat it as truncation rather than an older variant.
	if head.SizeOfEntry < format.MemoryInfoSize {
		return fmt.Errorf("memory info list: entry size %d below known layout: %w",
			head.SizeOfEntry, types.ErrTruncatedField)
	}
	count := int(head.NumberOfEntries)
	if count < 0 {
		return fmt.Errorf("memory info list: count %d: %w", head.NumberOfEntries, types.ErrCountOverflow)
	}
	if err := p.checkCount("memory info list", len(payload), int(head.SizeOfHeader), count, int(head.SizeOfEntry)); err != nil {
		return err
	}

	infos := make([]types.MemoryInfo, 0, count)
	for i := 0; i < count; i++ {
		off := int(head.SizeOfHeader) + i*int(head.SizeOfEntry)
		// Only the known fixed layout is read; declared padding is skipped.
		info, err := format.DecodeMemoryInfo(payload[off : off+int(head.SizeOfEntry)])
		if err != nil {
			return fmt.Errorf("memory info %d: %w", i, err)
		}
		infos = append(infos, info)
	}
	p.snap.MemoryInfo = infos
	return nil
}

func (p *parser) decodeHandleData(loc types.Location) error {
	payload, err := p.payload(loc)
	if err != nil {
		return err
	}
	head, err := format.DecodeHandleDataHeader(payload)
	if err != nil {
		return err
	}
	if head.SizeOfHeader < format.HandleDataHeaderSize {
		return fmt.Errorf("handle data: header size %d below known layout: %w",
			head.SizeOfHeader, types.ErrTruncatedField)
	}
	if head.SizeOfDescriptor < format.HandleDescriptorSize {
		return fmt.Errorf("handle data: descriptor size %d below known layout: %w",
			head.SizeOfDescriptor, types.ErrTruncatedField)
	}
	count := int(head.NumberOfDescriptors)
	if err := p.checkCount("handle data", len(payload), int(head.SizeOfHeader), count, int(head.SizeOfDescriptor)); err != nil {
		return err
	}

	handles := make([]types.Handle, 0, count)
	for i := 0; i < count; i++ {
		off := int(head.SizeOfHeader) + i*int(head.SizeOfDescriptor)
		rec, err := format.DecodeHandle(payload[off : off+int(head.SizeOfDescriptor)])
		if err != nil {
			return fmt.Errorf("handle %d: %w", i, err)
		}
		typeName, err := format.ReadString(p.buf, rec.TypeNameRVA)
		if err != nil {
			return fmt.Errorf("handle %d type name: %w", i, err)
		}
		objectName, err := format.ReadString(p.buf, rec.ObjectNameRVA)
		if err != nil {
			return fmt.Errorf("handle %d object name: %w", i, err)
		}
		handles = append(handles, types.Handle{
			Value:         rec.Value,
			TypeName:      typeName,
			ObjectName:    objectName,
			Attributes:    rec.Attributes,
			GrantedAccess: rec.GrantedAccess,
			HandleCount:   rec.HandleCount,
			PointerCount:  rec.PointerCount,
		})
	}
	p.snap.Handles = handles
	return nil
}

// decodeContext resolves and, when the architecture is known, decodes a
// register context blob. An empty location yields an absent context. With no
// System Info stream the architecture stays unknown and only the raw bytes
// are exposed; guessing a layout could misread memory.
func (p *parser) decodeContext(loc types.Location) (types.ThreadContext, error) {
	ctx := types.ThreadContext{
		Arch: p.snap.SystemInfo.Arch(),
		Loc:  loc,
	}
	if loc.IsEmpty() {
		return ctx, nil
	}
	raw, ok := buf.Slice(p.buf, int(loc.RVA), int(loc.DataSize))
	if !ok {
		return ctx, fmt.Errorf("context rva=%d size=%d: %w", loc.RVA, loc.DataSize, types.ErrOutOfBounds)
	}
	ctx.Raw = raw

	var err error
	switch ctx.Arch {
	case types.ArchX64:
		ctx.X64, err = format.DecodeX64Context(raw)
	case types.ArchX86:
		ctx.X86, err = format.DecodeX86Context(raw)
	}
	if err != nil {
		return ctx, err
	}
	return ctx, nil
}

// addU64 adds a and b, reporting ok = false on wraparound.
func addU64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
