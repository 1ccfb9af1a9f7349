package rm

import (
	"fmt"
	"log/slog"

	"github.com/dhawaletejas/lightweight-database-engine/internal/alias/bx"
	"github.com/dhawaletejas/lightweight-database-engine/internal/bufferpool"
	"github.com/dhawaletejas/lightweight-database-engine/internal/record"
	"github.com/dhawaletejas/lightweight-database-engine/internal/storage"
)

const logPrefix = "rm: "

// bufferPoolCapacity and bufferPoolStrategy are the table-open contract: an
// observable, non-configurable part of this design, not a tuning knob.
const (
	bufferPoolCapacity = 1000
	bufferPoolStrategy = bufferpool.FIFO
)

// Table is an open handle on one record-manager table: its schema, its
// buffer pool, and the in-memory mirror of page 0's bookkeeping fields.
type Table struct {
	Name   string
	Schema record.Schema

	pool *bufferpool.Pool

	recCnt     int32
	initFreePg int32

	recordSize   int32
	slotsPerPage int32
}

func slotOffset(slot, recordSize int32) int32 {
	return dataPageLinkBytes + slot*(recordSize+1)
}

func findFreeSlot(data []byte, recordSize, slotsPerPage int32) int32 {
	stride := recordSize + 1
	for i := int32(0); i < slotsPerPage; i++ {
		off := dataPageLinkBytes + i*stride
		if data[off] > 0 {
			continue
		}
		return i
	}
	return -1
}

// CreateTable builds the single-page table header (schema plus a zeroed
// bookkeeping block) and creates the backing page file.
func CreateTable(name string, schema record.Schema) error {
	if schema.HeaderSize() > storage.PageSize {
		return ErrLargeSchema
	}
	recordSize := schema.RecordSize()
	if recordSize+1 > usableSlotBytes() {
		return ErrLargeRecord
	}

	data := make([]byte, storage.PageSize)
	bx.PutI32(data[hdrRecCntOffset:], 0)
	bx.PutI32(data[hdrInitFreePgOffset:], 0)
	bx.PutI32(data[hdrNumAttrOffset:], int32(schema.NumAttrs()))
	bx.PutI32(data[hdrKeySizeOffset:], int32(len(schema.KeyIndexes)))

	off := hdrAttrsOffset
	for i, attr := range schema.Attributes {
		nameBuf := data[off : off+attrNameBytes]
		copy(nameBuf, attr.Name)
		off += attrNameBytes

		bx.PutI32(data[off:], int32(attr.Type))
		off += 4

		bx.PutI32(data[off:], attr.ByteLength)
		off += 4

		var keyAttr int32
		if i < len(schema.KeyIndexes) {
			keyAttr = schema.KeyIndexes[i]
		}
		bx.PutI32(data[off:], keyAttr)
		off += 4
	}

	if err := storage.CreatePageFile(name); err != nil {
		return err
	}
	var h storage.FileHandle
	if err := storage.OpenPageFile(name, &h); err != nil {
		return err
	}
	if err := storage.WriteBlock(0, &h, data); err != nil {
		_ = storage.ClosePageFile(&h)
		return err
	}
	return storage.ClosePageFile(&h)
}

// OpenTable opens name's page file, starts its buffer pool at the fixed
// capacity/strategy contract, and reconstructs the schema and bookkeeping
// fields from page 0.
func OpenTable(name string) (*Table, error) {
	pool, err := bufferpool.NewPool(name, bufferPoolCapacity, bufferPoolStrategy)
	if err != nil {
		return nil, err
	}

	ph, err := pool.Pin(0)
	if err != nil {
		_ = pool.Shutdown()
		return nil, err
	}

	recCnt := bx.I32(ph.Data[hdrRecCntOffset:])
	initFreePg := bx.I32(ph.Data[hdrInitFreePgOffset:])
	numAttr := bx.I32(ph.Data[hdrNumAttrOffset:])
	keySize := bx.I32(ph.Data[hdrKeySizeOffset:])

	attrs := make([]record.Attribute, numAttr)
	keyIndexes := make([]int32, keySize)
	off := hdrAttrsOffset
	for i := int32(0); i < numAttr; i++ {
		nameBuf := ph.Data[off : off+attrNameBytes]
		zero := 0
		for zero < len(nameBuf) && nameBuf[zero] != 0 {
			zero++
		}
		name := string(nameBuf[:zero])
		off += attrNameBytes

		dtype := record.DataType(bx.I32(ph.Data[off:]))
		off += 4

		byteLength := bx.I32(ph.Data[off:])
		off += 4

		keyAttr := bx.I32(ph.Data[off:])
		off += 4
		if i < keySize {
			keyIndexes[i] = keyAttr
		}

		attrs[i] = record.Attribute{Name: name, Type: dtype, ByteLength: byteLength}
	}

	if err := pool.Unpin(ph); err != nil {
		_ = pool.Shutdown()
		return nil, err
	}

	schema := record.Schema{Attributes: attrs, KeyIndexes: keyIndexes}
	recordSize := schema.RecordSize()

	return &Table{
		Name:         name,
		Schema:       schema,
		pool:         pool,
		recCnt:       recCnt,
		initFreePg:   initFreePg,
		recordSize:   recordSize,
		slotsPerPage: usableSlotBytes() / (recordSize + 1),
	}, nil
}

// Close persists recCnt and initFreePg to page 0 (fixing the original's
// dropped initFreePg write, see DESIGN.md) and shuts down the buffer pool.
func (t *Table) Close() error {
	ph, err := t.pool.Pin(0)
	if err != nil {
		return err
	}
	if err := t.pool.MarkDirty(ph); err != nil {
		return err
	}
	bx.PutI32(ph.Data[hdrRecCntOffset:], t.recCnt)
	bx.PutI32(ph.Data[hdrInitFreePgOffset:], t.initFreePg)
	if err := t.pool.Unpin(ph); err != nil {
		return err
	}
	return t.pool.Shutdown()
}

// DeleteTable removes the table's backing page file.
func DeleteTable(name string) error {
	return storage.DestroyPageFile(name)
}

// GetNumTuples returns the table's live record count.
func (t *Table) GetNumTuples() int32 { return t.recCnt }

// Insert assigns rec a RID and writes it into the first available slot,
// appending a new page if no existing page has room. Mirrors
// insertRecord's free-page-list maintenance.
func (t *Table) Insert(rec *record.Record) error {
	var ph *bufferpool.PageHandle
	var page, slot int32
	var err error

	if t.initFreePg == 0 {
		page, ph, err = t.appendFreshPage()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInsertFailed, err)
		}
		slot = 0
	} else {
		page = t.initFreePg
		ph, err = t.pool.Pin(page)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInsertFailed, err)
		}
		slot = findFreeSlot(ph.Data, t.recordSize, t.slotsPerPage)
		if slot == -1 {
			if err := t.pool.Unpin(ph); err != nil {
				return err
			}
			page, ph, err = t.appendFreshPage()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInsertFailed, err)
			}
			slot = 0
		}
	}

	if err := t.pool.MarkDirty(ph); err != nil {
		return err
	}
	off := slotOffset(slot, t.recordSize)
	ph.Data[off] = 1
	copy(ph.Data[off+1:off+1+t.recordSize], rec.Data)

	if findFreeSlot(ph.Data, t.recordSize, t.slotsPerPage) != -1 {
		if err := t.addPageToFreeList(ph.Data, page); err != nil {
			_ = t.pool.Unpin(ph)
			return err
		}
	} else {
		if err := t.removePageFromFreeList(ph.Data, page); err != nil {
			_ = t.pool.Unpin(ph)
			return err
		}
	}

	if err := t.pool.Unpin(ph); err != nil {
		return err
	}
	t.recCnt++
	rec.ID = record.RID{Page: page, Slot: slot}
	slog.Debug(logPrefix+"inserted", "table", t.Name, "page", page, "slot", slot)
	return nil
}

func (t *Table) appendFreshPage() (int32, *bufferpool.PageHandle, error) {
	page, err := t.pool.AppendPage()
	if err != nil {
		return 0, nil, err
	}
	ph, err := t.pool.Pin(page)
	if err != nil {
		return 0, nil, err
	}
	return page, ph, nil
}

// Delete tombstones the slot at id, always pushing its page onto the head
// of the free-page list (the page now definitely has a free slot).
func (t *Table) Delete(id record.RID) error {
	if id.Page < 0 || id.Slot < 0 {
		return ErrDeleteFailed
	}

	ph, err := t.pool.Pin(id.Page)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if err := t.pool.MarkDirty(ph); err != nil {
		return err
	}
	off := slotOffset(id.Slot, t.recordSize)
	ph.Data[off] = 0 // tombstone cleared; any value <= 0 marks the slot free

	if err := t.addPageToFreeList(ph.Data, id.Page); err != nil {
		_ = t.pool.Unpin(ph)
		return err
	}

	if err := t.pool.Unpin(ph); err != nil {
		return err
	}
	t.recCnt--
	slog.Debug(logPrefix+"deleted", "table", t.Name, "page", id.Page, "slot", id.Slot)
	return nil
}

// Update overwrites the record bytes at rec.ID in place; the tombstone is
// left untouched.
func (t *Table) Update(rec *record.Record) error {
	if rec.ID.Page < 0 || rec.ID.Slot < 0 {
		return ErrUpdateFailed
	}
	ph, err := t.pool.Pin(rec.ID.Page)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if err := t.pool.MarkDirty(ph); err != nil {
		return err
	}
	off := slotOffset(rec.ID.Slot, t.recordSize)
	copy(ph.Data[off+1:off+1+t.recordSize], rec.Data)
	return t.pool.Unpin(ph)
}

// GetRaw copies the bytes at id into outRec without checking the
// tombstone, preserving the original's unchecked getRecord behavior for
// callers that want it (e.g. recovery tooling).
func (t *Table) GetRaw(id record.RID, outRec *record.Record) error {
	ph, err := t.pool.Pin(id.Page)
	if err != nil {
		return err
	}
	off := slotOffset(id.Slot, t.recordSize)
	copy(outRec.Data, ph.Data[off+1:off+1+t.recordSize])
	outRec.ID = id
	return t.pool.Unpin(ph)
}

// Get is GetRaw with a tombstone check: it returns ErrRecordDeleted if the
// slot at id is not live (decision recorded in DESIGN.md).
func (t *Table) Get(id record.RID, outRec *record.Record) error {
	ph, err := t.pool.Pin(id.Page)
	if err != nil {
		return err
	}
	off := slotOffset(id.Slot, t.recordSize)
	if ph.Data[off] <= 0 {
		_ = t.pool.Unpin(ph)
		return ErrRecordDeleted
	}
	copy(outRec.Data, ph.Data[off+1:off+1+t.recordSize])
	outRec.ID = id
	return t.pool.Unpin(ph)
}
