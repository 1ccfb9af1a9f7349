package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	s, err := NewSchema([]Attribute{
		{Name: "id", Type: TypeInt},
		{Name: "name", Type: TypeString, ByteLength: 16},
		{Name: "score", Type: TypeFloat},
		{Name: "active", Type: TypeBool},
	}, []int32{0})
	require.NoError(t, err)
	return s
}

func TestSchema_OffsetsAndRecordSize(t *testing.T) {
	s := testSchema(t)
	require.Equal(t, int32(0), s.Offset(0))
	require.Equal(t, int32(4), s.Offset(1))
	require.Equal(t, int32(20), s.Offset(2))
	require.Equal(t, int32(24), s.Offset(3))
	require.Equal(t, int32(25), s.RecordSize())
}

func TestGetSetAttr_RoundTrips(t *testing.T) {
	s := testSchema(t)
	rec := CreateRecord(s)

	require.NoError(t, SetAttr(rec, s, 0, IntValue(42)))
	require.NoError(t, SetAttr(rec, s, 1, StringValue("hello")))
	require.NoError(t, SetAttr(rec, s, 2, FloatValue(3.5)))
	require.NoError(t, SetAttr(rec, s, 3, BoolValue(true)))

	v0, err := GetAttr(rec, s, 0)
	require.NoError(t, err)
	require.Equal(t, IntValue(42), v0)

	v1, err := GetAttr(rec, s, 1)
	require.NoError(t, err)
	require.Equal(t, StringValue("hello"), v1)

	v2, err := GetAttr(rec, s, 2)
	require.NoError(t, err)
	require.Equal(t, FloatValue(3.5), v2)

	v3, err := GetAttr(rec, s, 3)
	require.NoError(t, err)
	require.Equal(t, BoolValue(true), v3)
}

func TestSetAttr_StringShorterThanFieldIsZeroPadded(t *testing.T) {
	s := testSchema(t)
	rec := CreateRecord(s)

	require.NoError(t, SetAttr(rec, s, 1, StringValue("hi")))
	off := s.Offset(1)
	require.Equal(t, byte('h'), rec.Data[off])
	require.Equal(t, byte('i'), rec.Data[off+1])
	require.Equal(t, byte(0), rec.Data[off+2])

	v, err := GetAttr(rec, s, 1)
	require.NoError(t, err)
	require.Equal(t, "hi", v.StringV)
}

func TestSetAttr_TypeMismatchIsRejected(t *testing.T) {
	s := testSchema(t)
	rec := CreateRecord(s)
	require.ErrorIs(t, SetAttr(rec, s, 0, StringValue("nope")), ErrTypeMismatch)
}

func TestSetAttr_StringTooLongIsRejected(t *testing.T) {
	s := testSchema(t)
	rec := CreateRecord(s)
	require.Error(t, SetAttr(rec, s, 1, StringValue("this string is definitely too long")))
}

func TestGetAttr_IndexOutOfRange(t *testing.T) {
	s := testSchema(t)
	rec := CreateRecord(s)
	_, err := GetAttr(rec, s, 99)
	require.Error(t, err)
}
