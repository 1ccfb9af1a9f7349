// Package rm is the record manager: schema-driven tables of fixed-width
// tuples laid out in slots on top of internal/bufferpool, with a free-page
// list threaded through the data pages themselves.
package rm

import "github.com/dhawaletejas/lightweight-database-engine/internal/storage"

// Table header (page 0) layout.
const (
	hdrRecCntOffset     = 0
	hdrInitFreePgOffset = 4
	hdrNumAttrOffset    = 8
	hdrKeySizeOffset    = 12
	hdrAttrsOffset      = 16

	attrNameBytes   = 64
	attrRecordBytes = attrNameBytes + 4 + 4 + 4 // name + type + length + keyAttr
)

// Data page layout: an 8-byte free-list link header followed by a slot
// directory, each slot one tombstone byte plus recordSize payload bytes.
const (
	dataPageLinkBytes = 8 // int32 nextFreePage, int32 prevFreePage
	nextFreePageOff   = 0
	prevFreePageOff   = 4
)

// usableSlotBytes mirrors the original REC_SZ macro: PAGE_SIZE minus one
// tombstone byte, two int32 link fields, and one extra byte of slop that
// the original C layout reserved. Kept exactly as-is rather than tightened
// to PageSize-8, since it determines how many slots actually fit per page.
func usableSlotBytes() int32 {
	return storage.PageSize - 1 - 2*4 - 1
}
