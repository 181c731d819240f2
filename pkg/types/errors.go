package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMagic     ErrKind = iota // file does not start with the MDMP signature
	ErrKindVersion                  // recognized container but unsupported format version
	ErrKindBounds                   // offset/length arithmetic would exceed the buffer
	ErrKindTruncated                // not enough bytes remain for a fixed-size read
	ErrKindEncoding                 // malformed UTF-16 span
	ErrKindCount                    // declared element count incompatible with declared byte length
	ErrKindStream                   // a single stream failed to decode (non-fatal)
	ErrKindIO                       // file open/mapping failure
	ErrKindState                    // invalid operation for current state (e.g., closed)
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations. Decoders wrap these with
// fmt.Errorf("...: %w", ...) so errors.Is keeps working through the chain.
var (
	// ErrInvalidMagic indicates the buffer does not begin with "MDMP".
	ErrInvalidMagic = &Error{Kind: ErrKindMagic, Msg: "not a minidump (bad MDMP signature)"}
	// ErrUnsupportedVersion indicates an unrecognized minidump format version.
	ErrUnsupportedVersion = &Error{Kind: ErrKindVersion, Msg: "unsupported minidump version"}
	// ErrOutOfBounds indicates an RVA or length pointing past the end of the file.
	ErrOutOfBounds = &Error{Kind: ErrKindBounds, Msg: "location outside dump bounds"}
	// ErrTruncatedField indicates a fixed-size structure did not fit the remaining bytes.
	ErrTruncatedField = &Error{Kind: ErrKindTruncated, Msg: "truncated structure"}
	// ErrBadEncoding indicates a UTF-16 span with an odd byte length.
	ErrBadEncoding = &Error{Kind: ErrKindEncoding, Msg: "malformed UTF-16 string"}
	// ErrCountOverflow indicates a record count whose minimum total size exceeds
	// the stream's declared length. This is the amplification guard: a crafted
	// count cannot force work beyond the bytes the directory actually declared.
	ErrCountOverflow = &Error{Kind: ErrKindCount, Msg: "record count exceeds declared stream size"}
	// ErrClosed indicates the dump was accessed after Close released its mapping.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "dump is closed"}
)

// StreamDecodeError wraps a failure scoped to one stream. The directory walker
// records these against the stream kind instead of aborting the whole parse
// (System Info and Exception excepted, see the reader package).
type StreamDecodeError struct {
	Kind StreamKind
	Err  error
}

func (e *StreamDecodeError) Error() string {
	return "stream " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *StreamDecodeError) Unwrap() error { return e.Err }
