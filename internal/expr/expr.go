// Package expr defines the opaque predicate interface the record manager's
// scans consume, plus a small comparison/boolean implementation of it. The
// record manager never inspects an Evaluator's internals — it only calls
// Eval, the same way a scan treats its search condition as a black box.
package expr

import (
	"fmt"

	"github.com/dhawaletejas/lightweight-database-engine/internal/record"
)

// Evaluator is the opaque predicate a scan is started with. Implementations
// decide whether a record qualifies; the scan logic has no idea how.
type Evaluator interface {
	Eval(rec *record.Record, schema record.Schema) (bool, error)
}

// CompareOp enumerates the comparison operators AttrCompare supports.
type CompareOp int

const (
	OpEquals CompareOp = iota
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessOrEqual
	OpGreaterOrEqual
)

// AttrCompare compares one attribute, selected by its index in the schema,
// against a literal value.
type AttrCompare struct {
	AttrIndex int
	Op        CompareOp
	Literal   record.Value
}

func (c AttrCompare) Eval(rec *record.Record, schema record.Schema) (bool, error) {
	v, err := record.GetAttr(rec, schema, c.AttrIndex)
	if err != nil {
		return false, err
	}
	cmp, err := compareValues(v, c.Literal)
	if err != nil {
		return false, err
	}
	switch c.Op {
	case OpEquals:
		return cmp == 0, nil
	case OpNotEquals:
		return cmp != 0, nil
	case OpLessThan:
		return cmp < 0, nil
	case OpGreaterThan:
		return cmp > 0, nil
	case OpLessOrEqual:
		return cmp <= 0, nil
	case OpGreaterOrEqual:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("expr: unknown compare op %d", c.Op)
	}
}

func compareValues(a, b record.Value) (int, error) {
	if a.Type != b.Type {
		return 0, fmt.Errorf("%w: cannot compare %v with %v", record.ErrTypeMismatch, a.Type, b.Type)
	}
	switch a.Type {
	case record.TypeInt:
		return signOf(int64(a.IntV) - int64(b.IntV)), nil
	case record.TypeFloat:
		switch {
		case a.FloatV < b.FloatV:
			return -1, nil
		case a.FloatV > b.FloatV:
			return 1, nil
		default:
			return 0, nil
		}
	case record.TypeBool:
		return signOf(int64(boolToInt(a.BoolV) - boolToInt(b.BoolV))), nil
	case record.TypeString:
		switch {
		case a.StringV < b.StringV:
			return -1, nil
		case a.StringV > b.StringV:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("expr: unsupported type %v", a.Type)
	}
}

func signOf(d int64) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// And succeeds when every operand succeeds, short-circuiting on the first
// failure or error.
type And []Evaluator

func (a And) Eval(rec *record.Record, schema record.Schema) (bool, error) {
	for _, e := range a {
		ok, err := e.Eval(rec, schema)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Or succeeds when any operand succeeds, short-circuiting on the first
// success.
type Or []Evaluator

func (o Or) Eval(rec *record.Record, schema record.Schema) (bool, error) {
	for _, e := range o {
		ok, err := e.Eval(rec, schema)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not negates its operand.
type Not struct{ Evaluator Evaluator }

func (n Not) Eval(rec *record.Record, schema record.Schema) (bool, error) {
	ok, err := n.Evaluator.Eval(rec, schema)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// True is the predicate every record satisfies — the opaque-predicate
// default a full-table scan is started with.
type True struct{}

func (True) Eval(*record.Record, record.Schema) (bool, error) { return true, nil }
