package object

import "errors"

var (
	// ErrNotFound means no object exists at the hash-derived location.
	ErrNotFound = errors.New("object not found")

	// ErrCorrupt means an object file exists but its compressed payload,
	// envelope header, or declared length is wrong.
	ErrCorrupt = errors.New("corrupt object")

	// ErrMalformed means a payload violated an object kind's structure
	// (truncated tree record, bad KVLM header, duplicate tree name).
	ErrMalformed = errors.New("malformed object")

	// ErrAmbiguousHash means a prefix matched more than one stored object.
	ErrAmbiguousHash = errors.New("ambiguous hash prefix")
)
