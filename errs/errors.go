// Package errs defines the sentinel errors returned by tagsplit packages.
//
// Callers should match them with errors.Is, since most call sites wrap them
// with additional context.
package errs

import "errors"

// Configuration errors.
var (
	ErrMissingStartTag = errors.New("start tag is not configured")
	ErrMissingEndTag   = errors.New("end tag is not configured")
	ErrEmptyTag        = errors.New("tag must not be empty")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Split and scanner errors.
var (
	ErrInvalidSplit    = errors.New("invalid split bounds")
	ErrScannerClosed   = errors.New("scanner is closed")
	ErrDuplicateRecord = errors.New("record emitted by more than one split")
	ErrNegativeSeek    = errors.New("seek to negative offset")
	ErrObjectNotFound  = errors.New("object not found")
)

// Record file errors.
var (
	ErrInvalidMagic       = errors.New("invalid record file magic")
	ErrUnsupportedVersion = errors.New("unsupported record file version")
	ErrChecksumMismatch   = errors.New("record file checksum mismatch")
	ErrCorruptRecordFile  = errors.New("corrupt record file")
	ErrInvalidHeaderSize  = errors.New("record file header too short")
	ErrRecordTooLarge     = errors.New("record exceeds maximum size")
	ErrWriterClosed       = errors.New("record file writer is closed")
)
