// Package dump is the public entry point for reading user-mode minidump
// (.dmp) files. Open maps a file (or OpenBytes wraps a caller-owned buffer),
// parses the stream directory, and returns an immutable Dump whose accessors
// expose the decoded streams: loaded modules, threads, open handles, system
// information, the triggering exception, and captured memory regions.
//
//	d, err := dump.Open("crash.dmp", types.OpenOptions{})
//	if err != nil {
//		// fatal: bad signature, truncated directory, ...
//	}
//	defer d.Close()
//	mods, err := d.Modules()
//
// A stream that is absent from the dump yields a nil result and nil error; a
// stream that was present but failed to decode yields the recorded error.
// Only structural failures of the header or directory (and of the System Info
// and Exception streams) make Open itself fail.
package dump
