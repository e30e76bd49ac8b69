package table

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type kind int

const (
	kindNull kind = iota
	kindString
	kindNumber
	kindTime
)

// Value is a single comparable cell. The zero Value is null.
type Value struct {
	kind kind
	s    string
	n    decimal.Decimal
	t    time.Time
}

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: kindString, s: s} }

func StringPtr(s *string) Value {
	if s == nil {
		return Null()
	}
	return String(*s)
}

func Number(n decimal.Decimal) Value { return Value{kind: kindNumber, n: n} }

func NumberPtr(n *decimal.Decimal) Value {
	if n == nil {
		return Null()
	}
	return Number(*n)
}

func Int(i int) Value { return Number(decimal.NewFromInt(int64(i))) }

func Time(t time.Time) Value { return Value{kind: kindTime, t: t} }

func TimePtr(t *time.Time) Value {
	if t == nil {
		return Null()
	}
	return Time(*t)
}

// IsNull reports whether the cell has no value
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// Compare orders a against b: equal cells compare 0 and a null cell is
// greater than any non-null one. Cells of different kinds order by kind.
func Compare(a, b Value) int {
	switch {
	case a.kind == kindNull && b.kind == kindNull:
		return 0
	case a.kind == kindNull:
		return 1
	case b.kind == kindNull:
		return -1
	case a.kind != b.kind:
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case kindString:
		return strings.Compare(a.s, b.s)
	case kindNumber:
		return a.n.Cmp(b.n)
	case kindTime:
		return a.t.Compare(b.t)
	}
	return 0
}
