// Package record carries the fixed-width schema/value model and the
// attribute codec the record manager lays directly onto slotted data pages:
// no null bitmap, no length prefixes — every attribute has a byte length
// fixed at schema-creation time, per spec.
package record

import "fmt"

// DataType enumerates the supported attribute types. The numeric values
// (0=int, 1=string, 2=float, 3=bool) are what the table header stores in
// each attribute's type field.
type DataType int32

const (
	TypeInt DataType = iota
	TypeString
	TypeFloat
	TypeBool
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeString:
		return "STRING"
	case TypeFloat:
		return "FLOAT"
	case TypeBool:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// attrNameSize is the fixed width reserved for an attribute's name in the
// table header, per spec §6.
const attrNameSize = 64

// Attribute describes one column: its name, type, and on-page byte width.
// ByteLength is meaningful for every type (4 for int/float, 1 for bool, N
// for a string(N)).
type Attribute struct {
	Name       string
	Type       DataType
	ByteLength int32
}

// Schema is the ordered list of attributes plus the subset (by index,
// prefix-wise: the first KeySize entries) designated as the key.
type Schema struct {
	Attributes []Attribute
	KeyIndexes []int32
}

// NewSchema builds a Schema, computing each attribute's ByteLength for
// fixed-width types (int/float/bool) and validating string lengths were
// supplied as byteLengths already.
func NewSchema(attrs []Attribute, keyIndexes []int32) (Schema, error) {
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		switch a.Type {
		case TypeInt, TypeFloat:
			a.ByteLength = 4
		case TypeBool:
			a.ByteLength = 1
		case TypeString:
			if a.ByteLength <= 0 {
				return Schema{}, fmt.Errorf("record: string attribute %q needs a positive byte length", a.Name)
			}
		default:
			return Schema{}, fmt.Errorf("record: unsupported data type %v for attribute %q", a.Type, a.Name)
		}
		out[i] = a
	}
	return Schema{Attributes: out, KeyIndexes: keyIndexes}, nil
}

// NumAttrs returns the attribute count.
func (s Schema) NumAttrs() int { return len(s.Attributes) }

// RecordSize is the sum of every attribute's byte length: the width of one
// tuple's payload, excluding the tombstone byte.
func (s Schema) RecordSize() int32 {
	var total int32
	for _, a := range s.Attributes {
		total += a.ByteLength
	}
	return total
}

// Offset returns the byte offset of attribute attrNum within a record's
// data, i.e. the sum of the byte lengths of every preceding attribute.
func (s Schema) Offset(attrNum int) int32 {
	var off int32
	for i := 0; i < attrNum; i++ {
		off += s.Attributes[i].ByteLength
	}
	return off
}

// HeaderSize is the serialized size, in bytes, of this schema's table-page-0
// representation: 4 int32 fields plus 76 bytes per attribute (64 name + 4
// type + 4 length + 4 key index), per spec §6.
func (s Schema) HeaderSize() int32 {
	return 4*4 + 76*int32(len(s.Attributes))
}
