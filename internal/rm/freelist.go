package rm

import "github.com/dhawaletejas/lightweight-database-engine/internal/alias/bx"

func readLinks(data []byte) (next, prev int32) {
	return bx.I32(data[nextFreePageOff:]), bx.I32(data[prevFreePageOff:])
}

func writeLinks(data []byte, next, prev int32) {
	bx.PutI32(data[nextFreePageOff:], next)
	bx.PutI32(data[prevFreePageOff:], prev)
}

// addPageToFreeList links page (whose already-pinned, to-be-marked-dirty
// buffer is data) onto the head of the free-page list, or makes it the
// list's sole entry if the list was empty. Shared by insertRecord's
// "still has room" branch and deleteRecord, which both push a page onto
// the head once it is known to have a free slot.
func (t *Table) addPageToFreeList(data []byte, page int32) error {
	if page == t.initFreePg {
		// Already the list head (insertRecord re-checks room after every
		// write, including repeated inserts into the same free page); a
		// no-op here avoids re-linking a page to itself.
		return nil
	}
	if t.initFreePg == 0 {
		writeLinks(data, 0, 0) // singleton: normalized self-loop, see DESIGN.md
		t.initFreePg = page
		return nil
	}

	head, err := t.pool.Pin(t.initFreePg)
	if err != nil {
		return err
	}
	if err := t.pool.MarkDirty(head); err != nil {
		return err
	}
	headNext, _ := readLinks(head.Data)
	writeLinks(head.Data, headNext, page)
	if err := t.pool.Unpin(head); err != nil {
		return err
	}

	writeLinks(data, t.initFreePg, 0)
	t.initFreePg = page
	return nil
}

// removePageFromFreeList unlinks page (already-pinned buffer data) from the
// free-page list. Called when an insert fills a page's last free slot.
// Handles the four structural cases: singleton, head, tail, middle.
func (t *Table) removePageFromFreeList(data []byte, page int32) error {
	next, prev := readLinks(data)

	if page == t.initFreePg {
		if next == 0 {
			writeLinks(data, 0, 0)
			t.initFreePg = 0
			return nil
		}
		nh, err := t.pool.Pin(next)
		if err != nil {
			return err
		}
		if err := t.pool.MarkDirty(nh); err != nil {
			return err
		}
		nNext, _ := readLinks(nh.Data)
		writeLinks(nh.Data, nNext, 0)
		if err := t.pool.Unpin(nh); err != nil {
			return err
		}
		t.initFreePg = next
		writeLinks(data, 0, 0)
		return nil
	}

	if next == 0 {
		ph, err := t.pool.Pin(prev)
		if err != nil {
			return err
		}
		if err := t.pool.MarkDirty(ph); err != nil {
			return err
		}
		_, pPrev := readLinks(ph.Data)
		writeLinks(ph.Data, 0, pPrev)
		if err := t.pool.Unpin(ph); err != nil {
			return err
		}
		writeLinks(data, 0, 0)
		return nil
	}

	prevH, err := t.pool.Pin(prev)
	if err != nil {
		return err
	}
	nextH, err := t.pool.Pin(next)
	if err != nil {
		return err
	}
	if err := t.pool.MarkDirty(prevH); err != nil {
		return err
	}
	if err := t.pool.MarkDirty(nextH); err != nil {
		return err
	}
	_, prevPrev := readLinks(prevH.Data)
	nextNext, _ := readLinks(nextH.Data)
	writeLinks(prevH.Data, next, prevPrev)
	writeLinks(nextH.Data, nextNext, prev)
	if err := t.pool.Unpin(prevH); err != nil {
		return err
	}
	if err := t.pool.Unpin(nextH); err != nil {
		return err
	}
	writeLinks(data, 0, 0)
	return nil
}
