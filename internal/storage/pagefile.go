package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/dhawaletejas/lightweight-database-engine/internal/alias/bx"
	"github.com/dhawaletejas/lightweight-database-engine/internal/alias/util"
)

// FileHandle is an in-memory record bound to an open page file.
//
// Invariant: currentPagePos is in [0, totalPages) after any successful
// read; after a successful write it is pageNum+1, which equals totalPages
// when the last page was written. totalPages here always matches the on-disk
// header.
type FileHandle struct {
	FileName       string
	TotalPages     int32
	CurrentPagePos int32

	file *os.File
}

func pageOffset(pageNum int32) int64 {
	return int64(headerSize) + int64(pageNum)*int64(PageSize)
}

// CreatePageFile creates (or truncates) fileName, writes a header with
// totalPages=1, currentPagePos=0, and one zero-filled page.
func CreatePageFile(fileName string) error {
	f, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FileMode0644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrWriteFailed, fileName, err)
	}
	defer util.CloseFileFunc(f)

	header := make([]byte, headerSize)
	bx.PutI32(header[0:4], 1) // totalPages
	bx.PutI32(header[4:8], 0) // currentPagePos
	if _, err := f.WriteAt(header, 0); err != nil {
		return fmt.Errorf("%w: write header %s: %v", ErrWriteFailed, fileName, err)
	}

	page := make([]byte, PageSize)
	if _, err := f.WriteAt(page, pageOffset(0)); err != nil {
		return fmt.Errorf("%w: write initial page %s: %v", ErrWriteFailed, fileName, err)
	}
	return nil
}

// OpenPageFile opens fileName for read+write and populates handle from its
// header.
func OpenPageFile(fileName string, handle *FileHandle) error {
	if handle == nil {
		return fmt.Errorf("%w: nil handle", ErrHandleNotInit)
	}

	f, err := os.OpenFile(fileName, os.O_RDWR, FileMode0644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileNotFound, fileName, err)
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(f, header); err != nil {
		util.CloseFileFunc(f)
		return fmt.Errorf("%w: header %s: %v", ErrFileNotFound, fileName, err)
	}

	handle.FileName = fileName
	handle.TotalPages = bx.I32(header[0:4])
	handle.CurrentPagePos = 0
	handle.file = f
	return nil
}

// ClosePageFile releases the OS handle and clears handle's fields. Calling
// it on an uninitialized handle returns ErrHandleNotInit, but is otherwise
// safe to call more than once.
func ClosePageFile(handle *FileHandle) error {
	if handle == nil || handle.file == nil {
		return ErrHandleNotInit
	}
	err := handle.file.Close()
	handle.file = nil
	handle.FileName = ""
	handle.TotalPages = 0
	handle.CurrentPagePos = 0
	if err != nil {
		return fmt.Errorf("%w: close: %v", ErrWriteFailed, err)
	}
	return nil
}

// DestroyPageFile removes the underlying file.
func DestroyPageFile(fileName string) error {
	if err := os.Remove(fileName); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileNotFound, fileName, err)
	}
	return nil
}

// ReadBlock reads page pageNum into dest, which must be PageSize bytes.
func ReadBlock(pageNum int32, handle *FileHandle, dest []byte) error {
	if handle == nil || handle.file == nil {
		return ErrHandleNotInit
	}
	if pageNum < 0 || pageNum >= handle.TotalPages {
		return ErrReadNonExistingPage
	}
	if len(dest) != PageSize {
		return fmt.Errorf("%w: dest must be %d bytes", ErrReadNonExistingPage, PageSize)
	}

	if _, err := handle.file.ReadAt(dest, pageOffset(pageNum)); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrReadNonExistingPage, pageNum, err)
	}
	handle.CurrentPagePos = pageNum
	return nil
}

// ReadFirst reads page 0.
func ReadFirst(handle *FileHandle, dest []byte) error {
	if handle == nil {
		return ErrHandleNotInit
	}
	return ReadBlock(0, handle, dest)
}

// ReadPrevious reads the page before the current cursor.
func ReadPrevious(handle *FileHandle, dest []byte) error {
	if handle == nil {
		return ErrHandleNotInit
	}
	return ReadBlock(handle.CurrentPagePos-1, handle, dest)
}

// ReadCurrent re-reads the page at the current cursor.
func ReadCurrent(handle *FileHandle, dest []byte) error {
	if handle == nil {
		return ErrHandleNotInit
	}
	return ReadBlock(handle.CurrentPagePos, handle, dest)
}

// ReadNext reads the page after the current cursor.
func ReadNext(handle *FileHandle, dest []byte) error {
	if handle == nil {
		return ErrHandleNotInit
	}
	return ReadBlock(handle.CurrentPagePos+1, handle, dest)
}

// ReadLast reads the last page in the file.
func ReadLast(handle *FileHandle, dest []byte) error {
	if handle == nil {
		return ErrHandleNotInit
	}
	return ReadBlock(handle.TotalPages-1, handle, dest)
}

// WriteBlock writes src (PageSize bytes) to page pageNum, extending the file
// via EnsureCapacity if pageNum is beyond the current end. Note the
// asymmetry with ReadBlock: on success the cursor advances to pageNum+1,
// not pageNum — this matches the original storage manager's observable
// behavior and is preserved deliberately.
func WriteBlock(pageNum int32, handle *FileHandle, src []byte) error {
	if handle == nil || handle.file == nil {
		return ErrHandleNotInit
	}
	if len(src) != PageSize {
		return fmt.Errorf("%w: src must be %d bytes", ErrWriteFailed, PageSize)
	}
	if pageNum < 0 {
		return fmt.Errorf("%w: negative page %d", ErrWriteFailed, pageNum)
	}

	if pageNum >= handle.TotalPages {
		if err := EnsureCapacity(pageNum+1, handle); err != nil {
			return err
		}
	}

	if _, err := handle.file.WriteAt(src, pageOffset(pageNum)); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrWriteFailed, pageNum, err)
	}
	handle.CurrentPagePos = pageNum + 1
	return nil
}

// AppendEmptyBlock appends a zero-filled page at EOF, growing totalPages by
// exactly one both in memory and in the on-disk header.
func AppendEmptyBlock(handle *FileHandle) error {
	if handle == nil || handle.file == nil {
		return ErrHandleNotInit
	}

	newPageNum := handle.TotalPages
	page := make([]byte, PageSize)
	if _, err := handle.file.WriteAt(page, pageOffset(newPageNum)); err != nil {
		return fmt.Errorf("%w: append page %d: %v", ErrWriteFailed, newPageNum, err)
	}

	handle.TotalPages++
	handle.CurrentPagePos = newPageNum

	var totalPagesBuf [4]byte
	bx.PutI32(totalPagesBuf[:], handle.TotalPages)
	if _, err := handle.file.WriteAt(totalPagesBuf[:], 0); err != nil {
		return fmt.Errorf("%w: update header: %v", ErrWriteFailed, err)
	}
	return nil
}

// EnsureCapacity appends empty blocks until totalPages >= n. A no-op
// (idempotent) if the file already has n pages.
func EnsureCapacity(n int32, handle *FileHandle) error {
	if handle == nil || handle.file == nil {
		return ErrHandleNotInit
	}
	for handle.TotalPages < n {
		if err := AppendEmptyBlock(handle); err != nil {
			return err
		}
	}
	return nil
}
