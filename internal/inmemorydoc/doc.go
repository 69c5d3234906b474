// Package inmemorydoc provides a simple, thread-safe, in-memory
// implementation of the document.Store interface. Documents and parameters
// live in an arena keyed by monotonically increasing handles; handles are
// never reused, so a stale handle reads as absent rather than aliasing a
// newer parameter.
package inmemorydoc
