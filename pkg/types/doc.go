// Package types defines the public data model and typed errors shared by the
// dumpkit packages. It has no dependencies on the parsing internals so that
// callers can consume decoded records without importing decoder machinery.
package types
