package record

import (
	"bytes"
	"fmt"

	"github.com/dhawaletejas/lightweight-database-engine/internal/alias/bx"
)

// CreateRecord allocates a zeroed recordSize-byte buffer for schema — the
// Go equivalent of the original createRecord/malloc pair; there is no
// separate freeRecord since the GC reclaims it.
func CreateRecord(schema Schema) *Record {
	return NewRecord(schema)
}

// GetAttr reads attribute attrNum out of rec at the offset schema says it
// lives at. Strings are right-trimmed of their zero padding.
func GetAttr(rec *Record, schema Schema, attrNum int) (Value, error) {
	if attrNum < 0 || attrNum >= schema.NumAttrs() {
		return Value{}, fmt.Errorf("record: attribute index %d out of range", attrNum)
	}
	attr := schema.Attributes[attrNum]
	off := schema.Offset(attrNum)
	buf := rec.Data[off : off+attr.ByteLength]

	switch attr.Type {
	case TypeInt:
		return IntValue(bx.I32(buf)), nil
	case TypeFloat:
		return FloatValue(bx.F32(buf)), nil
	case TypeBool:
		return BoolValue(buf[0] != 0), nil
	case TypeString:
		trimmed := bytes.TrimRight(buf, "\x00")
		return StringValue(string(trimmed)), nil
	default:
		return Value{}, fmt.Errorf("record: unsupported type %v", attr.Type)
	}
}

// SetAttr writes value into rec at attribute attrNum's offset, the
// symmetric counterpart of GetAttr.
func SetAttr(rec *Record, schema Schema, attrNum int, value Value) error {
	if attrNum < 0 || attrNum >= schema.NumAttrs() {
		return fmt.Errorf("record: attribute index %d out of range", attrNum)
	}
	attr := schema.Attributes[attrNum]
	if value.Type != attr.Type {
		return fmt.Errorf("%w: attribute %q is %v, got %v", ErrTypeMismatch, attr.Name, attr.Type, value.Type)
	}
	off := schema.Offset(attrNum)
	buf := rec.Data[off : off+attr.ByteLength]

	switch attr.Type {
	case TypeInt:
		bx.PutI32(buf, value.IntV)
	case TypeFloat:
		bx.PutF32(buf, value.FloatV)
	case TypeBool:
		if value.BoolV {
			buf[0] = 1
		} else {
			buf[0] = 0
		}
	case TypeString:
		if int32(len(value.StringV)) > attr.ByteLength {
			return fmt.Errorf("record: string value for %q exceeds byte length %d", attr.Name, attr.ByteLength)
		}
		for i := range buf {
			buf[i] = 0
		}
		copy(buf, value.StringV)
	default:
		return fmt.Errorf("record: unsupported type %v", attr.Type)
	}
	return nil
}
