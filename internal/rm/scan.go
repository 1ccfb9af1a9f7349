package rm

import (
	"github.com/dhawaletejas/lightweight-database-engine/internal/bufferpool"
	"github.com/dhawaletejas/lightweight-database-engine/internal/expr"
	"github.com/dhawaletejas/lightweight-database-engine/internal/record"
)

// Scan walks a table's records in physical (page, slot) order starting at
// page 1. It skips tombstoned slots and stops once it has visited as many
// live records (whether or not they matched the predicate) as the table
// reports via GetNumTuples — see DESIGN.md for
// why this replaces the original's count-only iteration.
type Scan struct {
	table *Table
	cond  expr.Evaluator

	rid        record.RID
	recScanCnt int32
	ph         *bufferpool.PageHandle
}

// StartScan begins a scan over t. cond may be nil for a full table scan, or
// expr.True{} for the same effect with an explicit predicate.
func StartScan(t *Table, cond expr.Evaluator) *Scan {
	return &Scan{
		table: t,
		cond:  cond,
		rid:   record.RID{Page: -1, Slot: -1},
	}
}

// Next advances the scan and copies the next qualifying record into
// outRec. Returns ErrNoMoreTuples once every live record has been visited.
func (s *Scan) Next(outRec *record.Record) error {
	t := s.table
	if t.recCnt == 0 {
		return ErrNoMoreTuples
	}

	for {
		if s.recScanCnt == t.recCnt {
			if err := s.unpinCurrent(); err != nil {
				return err
			}
			s.rid = record.RID{Page: -1, Slot: -1}
			s.recScanCnt = 0
			return ErrNoMoreTuples
		}

		if s.ph == nil {
			s.rid = record.RID{Page: 1, Slot: 0}
			ph, err := t.pool.Pin(s.rid.Page)
			if err != nil {
				return err
			}
			s.ph = ph
		} else {
			s.rid.Slot++
			if s.rid.Slot == t.slotsPerPage {
				if err := s.unpinCurrent(); err != nil {
					return err
				}
				s.rid.Page++
				s.rid.Slot = 0
				ph, err := t.pool.Pin(s.rid.Page)
				if err != nil {
					return err
				}
				s.ph = ph
			}
		}

		off := slotOffset(s.rid.Slot, t.recordSize)
		if s.ph.Data[off] <= 0 {
			continue
		}

		copy(outRec.Data, s.ph.Data[off+1:off+1+t.recordSize])
		outRec.ID = s.rid
		s.recScanCnt++

		if s.cond != nil {
			ok, err := s.cond.Eval(outRec, t.Schema)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		return nil
	}
}

// Close releases the scan's pinned page, if any.
func (s *Scan) Close() error {
	return s.unpinCurrent()
}

func (s *Scan) unpinCurrent() error {
	if s.ph == nil {
		return nil
	}
	if err := s.table.pool.Unpin(s.ph); err != nil {
		return err
	}
	s.ph = nil
	return nil
}
