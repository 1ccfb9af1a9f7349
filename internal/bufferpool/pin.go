package bufferpool

import (
	"log/slog"

	"github.com/dhawaletejas/lightweight-database-engine/internal/storage"
)

// Pin is the heart of the buffer pool: return the frame holding pageNum,
// loading it from disk and evicting a victim if necessary. See the
// FIFO/LRU/CLOCK victim-selection helpers below for the replacement
// policies.
func (p *Pool) Pin(pageNum int32) (*PageHandle, error) {
	if idx, ok := p.byPage[pageNum]; ok {
		f := &p.frames[idx]
		f.pin++
		f.refBit = true
		switch p.strategy {
		case LRU:
			p.moveToHead(idx)
		case CLOCK:
			p.clockHand = f.next
		}
		slog.Debug(logPrefix+"pin hit", "pageNum", pageNum, "pin", f.pin)
		return &PageHandle{PageNum: pageNum, Data: f.data}, nil
	}

	var victim int32
	var err error
	switch p.strategy {
	case CLOCK:
		victim, err = p.pickVictimClock()
	default:
		victim, err = p.pickVictimFIFOorLRU()
	}
	if err != nil {
		return nil, err
	}

	f := &p.frames[victim]
	if f.dirty {
		if err := p.flushFrame(f); err != nil {
			return nil, err
		}
	}
	if !f.empty() {
		delete(p.byPage, f.pageNum)
	}

	if err := p.loadInto(f, pageNum); err != nil {
		return nil, err
	}
	p.numReadIO++
	f.pin = 1
	f.refBit = true
	p.byPage[pageNum] = victim

	switch p.strategy {
	case CLOCK:
		p.clockHand = f.next
	default:
		p.moveToHead(victim)
	}

	slog.Debug(logPrefix+"pin miss, loaded page", "pageNum", pageNum, "frame", victim)
	return &PageHandle{PageNum: pageNum, Data: f.data}, nil
}

func (p *Pool) flushFrame(f *frame) error {
	if err := p.ForcePage(&PageHandle{PageNum: f.pageNum, Data: f.data}); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// loadInto reads pageNum from disk into f's buffer. The page must already
// exist in the underlying file (callers that want to pin a brand-new page
// must grow the file themselves, e.g. via storage.AppendEmptyBlock, exactly
// as the record manager does before handing a fresh page number to Pin).
func (p *Pool) loadInto(f *frame, pageNum int32) error {
	if err := storage.ReadBlock(pageNum, &p.handle, f.data); err != nil {
		return err
	}
	f.pageNum = pageNum
	return nil
}

// pickVictimFIFOorLRU walks the list backward from the tail and returns the
// first frame with pin==0. An empty frame (never loaded) always qualifies
// immediately, since the list is seeded with empty frames at the tail on a
// freshly created pool.
func (p *Pool) pickVictimFIFOorLRU() (int32, error) {
	idx := p.tail
	for idx != noLink {
		if p.frames[idx].pin == 0 {
			return idx, nil
		}
		idx = p.frames[idx].prev
	}
	return 0, ErrNoFreeFrame
}

// pickVictimClock walks forward from the hand up to one full sweep, giving
// ref-bit-set frames a second chance. If every unpinned frame still has its
// ref bit set after the sweep clears them all (e.g. a freshly filled pool,
// where every load sets refBit and nothing has cleared it yet), it walks one
// more lap from the hand's starting frame and evicts the first unpinned frame
// it reaches. ErrNoFreeFrame is returned only when every frame is pinned.
func (p *Pool) pickVictimClock() (int32, error) {
	n := int32(p.numPages)
	start := p.clockHand
	idx := start
	for i := int32(0); i < n; i++ {
		f := &p.frames[idx]
		if f.pin == 0 {
			if !f.refBit {
				return idx, nil
			}
			f.refBit = false
		}
		idx = f.next
	}
	idx = start
	for i := int32(0); i < n; i++ {
		if p.frames[idx].pin == 0 {
			return idx, nil
		}
		idx = p.frames[idx].next
	}
	return 0, ErrNoFreeFrame
}

// moveToHead detaches frame idx from wherever it is in the list and
// reinserts it at the head. No-op if idx is already the head. Used by LRU on
// hit and by FIFO/LRU after loading a fresh victim (both observe the
// "most-recently-touched frame sits at the head" convention).
func (p *Pool) moveToHead(idx int32) {
	if p.head == idx {
		return
	}
	p.unlink(idx)
	f := &p.frames[idx]
	f.prev = noLink
	f.next = p.head
	if p.head != noLink {
		p.frames[p.head].prev = idx
	}
	p.head = idx
	if p.tail == noLink {
		p.tail = idx
	}
}

// unlink removes frame idx from the list, patching its neighbors' links.
// Does not touch idx's own prev/next fields, and does not touch head/tail if
// idx isn't currently one of them... except it must, so it does: callers
// that immediately reinsert (moveToHead) rely on this leaving head/tail
// consistent for the remaining nodes.
func (p *Pool) unlink(idx int32) {
	f := &p.frames[idx]
	if f.prev != noLink {
		p.frames[f.prev].next = f.next
	} else if p.head == idx {
		p.head = f.next
	}
	if f.next != noLink {
		p.frames[f.next].prev = f.prev
	} else if p.tail == idx {
		p.tail = f.prev
	}
}
