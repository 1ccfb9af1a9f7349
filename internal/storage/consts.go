// Package storage implements the fixed-size page file substrate: a durable
// byte sequence with a small header, opened as a FileHandle and read/written
// one page at a time. No caching happens here; every call hits the OS. The
// buffer pool layer is the one that amortizes I/O.
package storage

import "errors"

const (
	// PageSize is the fixed size of every page, in bytes.
	PageSize = 4096

	// headerSize is the size of the page file header: totalPages (int32) +
	// currentPagePos (int32).
	headerSize = 8

	// FileMode0644 matches the teacher's on-disk file permission constants.
	FileMode0644 = 0o644
)

var (
	ErrFileNotFound        = errors.New("storage: file not found")
	ErrHandleNotInit       = errors.New("storage: file handle not initialized")
	ErrWriteFailed         = errors.New("storage: write failed")
	ErrReadNonExistingPage = errors.New("storage: read of non-existing page")
)
