package repo

import "errors"

var (
	// ErrRefNotFound means no candidate ref file exists for a name.
	ErrRefNotFound = errors.New("ref not found")

	// ErrRefCycle means a symbolic ref chain exceeded the hop limit.
	ErrRefCycle = errors.New("symbolic ref cycle")

	// ErrWrongObjectType means resolution produced an object of a kind the
	// caller did not ask for, even after peeling.
	ErrWrongObjectType = errors.New("wrong object type")

	// ErrCorruptIndex means the index file's signature, version, or entry
	// ordering is invalid.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrIndexLocked means another process holds index.lock. The lock is
	// reported, never waited on or broken.
	ErrIndexLocked = errors.New("index is locked")

	// ErrPathNotInIndex means rm was asked to drop a path that is not staged.
	ErrPathNotInIndex = errors.New("path not in index")
)
