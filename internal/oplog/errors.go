package oplog

import "errors"

var (
	// ErrUnknownFormat is returned when a document is not an operation log.
	ErrUnknownFormat = errors.New("not an operation log")

	// ErrUnsupportedVersion is returned for logs written by a newer version.
	ErrUnsupportedVersion = errors.New("unsupported operation log version")

	// ErrEmptyLog is returned when a file holds no document at all.
	ErrEmptyLog = errors.New("empty operation log")

	// ErrUnknownOperation is returned by ParseOperation for an unregistered opcode.
	ErrUnknownOperation = errors.New("unknown operation")
)
