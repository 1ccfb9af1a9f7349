package record

import (
	"errors"
	"fmt"
)

// Value is a tagged union holding one attribute's value, read out of or
// about to be written into a record buffer.
type Value struct {
	Type    DataType
	IntV    int32
	FloatV  float32
	BoolV   bool
	StringV string
}

var ErrTypeMismatch = errors.New("record: value type does not match attribute type")

func IntValue(v int32) Value       { return Value{Type: TypeInt, IntV: v} }
func FloatValue(v float32) Value   { return Value{Type: TypeFloat, FloatV: v} }
func BoolValue(v bool) Value       { return Value{Type: TypeBool, BoolV: v} }
func StringValue(v string) Value   { return Value{Type: TypeString, StringV: v} }

func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", v.IntV)
	case TypeFloat:
		return fmt.Sprintf("%g", v.FloatV)
	case TypeBool:
		return fmt.Sprintf("%t", v.BoolV)
	case TypeString:
		return v.StringV
	default:
		return "<invalid>"
	}
}
