// Package bufferpool caches a bounded set of pages from one page file in
// memory, choosing a victim frame via a pluggable replacement strategy
// (FIFO, LRU, CLOCK) when the pool is full. Mirrors the teacher's
// internal/bufferpool/pool.go in texture (slog tracing, sentinel errors)
// but replaces the map+slice index scheme with an intrusive arena of frames
// linked by prev/next indices, per the arena+indices design note.
package bufferpool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dhawaletejas/lightweight-database-engine/internal/storage"
)

const logPrefix = "bufferpool: "

// Strategy selects the page-replacement policy used when the pool is full.
type Strategy int

const (
	FIFO Strategy = iota
	LRU
	CLOCK
)

func (s Strategy) String() string {
	switch s {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case CLOCK:
		return "CLOCK"
	default:
		return "unknown"
	}
}

var (
	ErrNullBuffer   = errors.New("bufferpool: null buffer pool")
	ErrNullPage     = errors.New("bufferpool: null page handle")
	ErrNullFrame    = errors.New("bufferpool: null frame")
	ErrNullPageFile = errors.New("bufferpool: null page file name")
	ErrNoFreeFrame  = errors.New("bufferpool: no free frame available (all pinned)")
	ErrWriteFailed  = errors.New("bufferpool: write failed")
)

// noLink marks the absence of a prev/next neighbor in the frame list, and
// also the "empty" sentinel for a frame's resident page number.
const noLink = int32(-1)

// frame is one buffer-pool slot. Frames live in a contiguous arena; prev and
// next are indices into that arena (not pointers), forming the intrusive
// doubly linked list described in the design notes.
type frame struct {
	data    []byte
	pageNum int32 // noLink (-1) when empty
	dirty   bool
	pin     int32
	refBit  bool
	seq     int32 // reporting index fixed at init: 0 is the initial tail, the first frame FIFO/LRU fills; stable across LRU/FIFO reordering

	prev, next int32
}

func (f *frame) empty() bool { return f.pageNum == noLink }

// PageHandle is the caller-visible view of a pinned page: its page number
// and a buffer pointer borrowed from the pool. The caller must not retain
// data past the matching Unpin.
type PageHandle struct {
	PageNum int32
	Data    []byte
}

// Pool is a fixed-size buffer pool bound to one page file.
type Pool struct {
	fileName string
	numPages int
	strategy Strategy

	handle storage.FileHandle

	frames []frame
	byPage map[int32]int32 // pageNum -> frame index

	head, tail int32 // frame-list head/tail indices, noLink when list is empty
	clockHand  int32 // only meaningful for CLOCK

	nextSeq int32

	numReadIO  int
	numWriteIO int
}

// NewPool opens fileName and allocates exactly numPages empty frames, linked
// into a doubly linked list (FIFO/LRU) or closed into a ring (CLOCK) with
// the hand starting at the head.
func NewPool(fileName string, numPages int, strategy Strategy) (*Pool, error) {
	if fileName == "" {
		return nil, ErrNullPageFile
	}
	if numPages <= 0 {
		return nil, fmt.Errorf("bufferpool: numPages must be positive, got %d", numPages)
	}

	var handle storage.FileHandle
	if err := storage.OpenPageFile(fileName, &handle); err != nil {
		return nil, err
	}

	p := &Pool{
		fileName: fileName,
		numPages: numPages,
		strategy: strategy,
		handle:   handle,
		frames:   make([]frame, numPages),
		byPage:   make(map[int32]int32, numPages),
		head:     0,
		tail:     int32(numPages - 1),
	}

	for i := range p.frames {
		f := &p.frames[i]
		f.data = make([]byte, storage.PageSize)
		f.pageNum = noLink
		f.seq = int32(numPages - 1 - i)
		f.prev = int32(i - 1)
		f.next = int32(i + 1)
	}
	p.frames[0].prev = noLink
	p.frames[numPages-1].next = noLink
	p.nextSeq = int32(numPages)

	if strategy == CLOCK {
		p.frames[0].prev = int32(numPages - 1)
		p.frames[numPages-1].next = 0
		p.clockHand = 0
	}

	slog.Debug(logPrefix+"initialized", "file", fileName, "numPages", numPages, "strategy", strategy)
	return p, nil
}

// Shutdown flushes all dirty unpinned frames and releases the pool. Fails
// with ErrWriteFailed if any frame is still pinned.
func (p *Pool) Shutdown() error {
	for i := range p.frames {
		if p.frames[i].pin > 0 {
			return ErrWriteFailed
		}
	}
	if err := p.ForceFlushPool(); err != nil {
		return err
	}
	if err := storage.ClosePageFile(&p.handle); err != nil {
		return err
	}
	p.frames = nil
	p.byPage = nil
	return nil
}

// ForceFlushPool writes every dirty, unpinned frame's payload back to its
// resident page and clears its dirty bit.
func (p *Pool) ForceFlushPool() error {
	for i := range p.frames {
		f := &p.frames[i]
		if f.empty() || !f.dirty || f.pin != 0 {
			continue
		}
		if err := p.ForcePage(&PageHandle{PageNum: f.pageNum, Data: f.data}); err != nil {
			return err
		}
		f.dirty = false
	}
	return nil
}

// AppendPage grows the underlying page file by one empty page and returns
// its page number. Used by callers (the record manager) that need a brand
// new page to exist on disk before they can Pin it.
func (p *Pool) AppendPage() (int32, error) {
	if err := storage.AppendEmptyBlock(&p.handle); err != nil {
		return 0, err
	}
	return p.handle.TotalPages - 1, nil
}

// TotalPages returns the page file's current page count.
func (p *Pool) TotalPages() int32 { return p.handle.TotalPages }

// MarkDirty marks the frame holding pageHandle.PageNum as dirty.
func (p *Pool) MarkDirty(pageHandle *PageHandle) error {
	if pageHandle == nil {
		return ErrNullPage
	}
	idx, ok := p.byPage[pageHandle.PageNum]
	if !ok {
		return nil
	}
	p.frames[idx].dirty = true
	return nil
}

// ForcePage unconditionally writes pageHandle.Data to disk at its page
// number and increments numWriteIO.
func (p *Pool) ForcePage(pageHandle *PageHandle) error {
	if pageHandle == nil {
		return ErrNullPage
	}
	if err := storage.WriteBlock(pageHandle.PageNum, &p.handle, pageHandle.Data); err != nil {
		return err
	}
	p.numWriteIO++
	return nil
}

// Unpin decrements the pin count of the frame holding pageHandle.PageNum. If
// the decrement would go negative, that's a programming error surfaced as
// ErrWriteFailed. If the frame is dirty, it is force-written to disk and its
// dirty bit cleared.
func (p *Pool) Unpin(pageHandle *PageHandle) error {
	if pageHandle == nil {
		return ErrNullPage
	}
	idx, ok := p.byPage[pageHandle.PageNum]
	if !ok {
		slog.Debug(logPrefix+"unpin ignored, page not resident", "pageNum", pageHandle.PageNum)
		return nil
	}
	f := &p.frames[idx]
	f.pin--
	if f.pin < 0 {
		return ErrWriteFailed
	}
	if f.dirty {
		if err := p.ForcePage(pageHandle); err != nil {
			return err
		}
		f.dirty = false
	}
	slog.Debug(logPrefix+"unpin", "pageNum", pageHandle.PageNum, "pin", f.pin)
	return nil
}

// GetNumReadIO returns the number of page reads the pool has issued.
func (p *Pool) GetNumReadIO() int { return p.numReadIO }

// GetNumWriteIO returns the number of page writes the pool has issued.
func (p *Pool) GetNumWriteIO() int { return p.numWriteIO }

// GetFrameContents returns the resident page number of every frame, indexed
// by creation sequence for FIFO/LRU or by current list order for CLOCK.
func (p *Pool) GetFrameContents() []int32 {
	return p.reportInt32(func(f *frame) int32 { return f.pageNum })
}

// GetDirtyFlags returns each frame's dirty bit, indexed as GetFrameContents.
func (p *Pool) GetDirtyFlags() []bool {
	out := make([]bool, p.numPages)
	if p.strategy == CLOCK {
		idx := p.head
		for i := 0; i < p.numPages; i++ {
			out[i] = p.frames[idx].dirty
			idx = p.frames[idx].next
		}
		return out
	}
	for i := range p.frames {
		out[p.frames[i].seq] = p.frames[i].dirty
	}
	return out
}

// GetFixCounts returns each frame's pin count, indexed as GetFrameContents.
func (p *Pool) GetFixCounts() []int32 {
	return p.reportInt32(func(f *frame) int32 { return f.pin })
}

// GetRefBits returns each frame's CLOCK reference bit, indexed as
// GetFrameContents. Every strategy sets it on each pin; only CLOCK's victim
// sweep clears it.
func (p *Pool) GetRefBits() []int32 {
	return p.reportInt32(func(f *frame) int32 {
		if f.refBit {
			return 1
		}
		return 0
	})
}

func (p *Pool) reportInt32(get func(*frame) int32) []int32 {
	out := make([]int32, p.numPages)
	if p.strategy == CLOCK {
		idx := p.head
		for i := 0; i < p.numPages; i++ {
			out[i] = get(&p.frames[idx])
			idx = p.frames[idx].next
		}
		return out
	}
	for i := range p.frames {
		out[p.frames[i].seq] = get(&p.frames[i])
	}
	return out
}
