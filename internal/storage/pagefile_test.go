package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFileName(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "test.db")
}

func TestCreateAndOpenPageFile(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))

	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	require.Equal(t, int32(1), h.TotalPages)
	require.Equal(t, int32(0), h.CurrentPagePos)
	require.NoError(t, ClosePageFile(&h))
}

func TestOpenPageFile_NotFound(t *testing.T) {
	var h FileHandle
	err := OpenPageFile(filepath.Join(t.TempDir(), "missing.db"), &h)
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestWriteThenReadBlockRoundTrips(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	src := bytes.Repeat([]byte{0xAB}, PageSize)
	require.NoError(t, WriteBlock(0, &h, src))
	require.Equal(t, int32(1), h.CurrentPagePos) // write lands past the page

	dst := make([]byte, PageSize)
	require.NoError(t, ReadBlock(0, &h, dst))
	require.Equal(t, int32(0), h.CurrentPagePos) // read lands on the page
	require.True(t, bytes.Equal(src, dst))
}

func TestWriteBlockBeyondEOFGrowsFile(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	src := bytes.Repeat([]byte{0x7F}, PageSize)
	require.NoError(t, WriteBlock(4, &h, src))
	require.Equal(t, int32(5), h.TotalPages)

	dst := make([]byte, PageSize)
	require.NoError(t, ReadBlock(4, &h, dst))
	require.True(t, bytes.Equal(src, dst))

	// Header on disk agrees with in-memory totalPages.
	require.NoError(t, ClosePageFile(&h))
	require.NoError(t, OpenPageFile(name, &h))
	require.Equal(t, int32(5), h.TotalPages)
}

func TestAppendEmptyBlockIncrementsTotalPagesByOne(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	before := h.TotalPages
	require.NoError(t, AppendEmptyBlock(&h))
	require.Equal(t, before+1, h.TotalPages)
	require.Equal(t, before, h.CurrentPagePos)
}

func TestEnsureCapacityIsIdempotent(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	require.NoError(t, EnsureCapacity(5, &h))
	require.Equal(t, int32(5), h.TotalPages)

	require.NoError(t, EnsureCapacity(3, &h))
	require.Equal(t, int32(5), h.TotalPages, "ensureCapacity must not shrink or duplicate pages")

	require.NoError(t, EnsureCapacity(5, &h))
	require.Equal(t, int32(5), h.TotalPages)
}

func TestReadBlockRejectsOutOfRangePage(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	dst := make([]byte, PageSize)
	require.ErrorIs(t, ReadBlock(-1, &h, dst), ErrReadNonExistingPage)
	require.ErrorIs(t, ReadBlock(1, &h, dst), ErrReadNonExistingPage)
}

func TestReadFirstPreviousCurrentNextLast(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	var h FileHandle
	require.NoError(t, OpenPageFile(name, &h))
	defer ClosePageFile(&h)

	require.NoError(t, EnsureCapacity(3, &h))

	dst := make([]byte, PageSize)
	require.NoError(t, ReadFirst(&h, dst))
	require.Equal(t, int32(0), h.CurrentPagePos)

	require.NoError(t, ReadNext(&h, dst))
	require.Equal(t, int32(1), h.CurrentPagePos)

	require.NoError(t, ReadCurrent(&h, dst))
	require.Equal(t, int32(1), h.CurrentPagePos)

	require.NoError(t, ReadPrevious(&h, dst))
	require.Equal(t, int32(0), h.CurrentPagePos)

	require.NoError(t, ReadLast(&h, dst))
	require.Equal(t, int32(2), h.CurrentPagePos)
}

func TestDestroyPageFile(t *testing.T) {
	name := tempFileName(t)
	require.NoError(t, CreatePageFile(name))
	require.NoError(t, DestroyPageFile(name))
	_, err := os.Stat(name)
	require.True(t, os.IsNotExist(err))
}

func TestClosePageFileOnNilHandleIsNotInit(t *testing.T) {
	require.ErrorIs(t, ClosePageFile(nil), ErrHandleNotInit)
	var h FileHandle
	require.ErrorIs(t, ClosePageFile(&h), ErrHandleNotInit)
}
