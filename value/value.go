// Package value implements the cell coercion and type-safe comparators:
// every raw table cell is classified as an integer, a float, or a string,
// and comparisons between incompatible kinds are false rather than an error.
package value

import (
	"math"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Kind tags the effective type of a coerced cell.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Value is a coerced cell: a cty.Value carrying the kind distinction cty's
// own Number type erases (cty treats ints and floats as the same Number).
type Value struct {
	kind Kind
	cty  cty.Value
	raw  string
}

// Coerce classifies a cell as the first successful interpretation of:
// signed integer, finite float (excluding NaN/Inf), else the raw string.
func Coerce(cell string) Value {
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return Value{kind: KindInt, cty: cty.NumberIntVal(n), raw: cell}
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !isNaNOrInf(f) {
		return Value{kind: KindFloat, cty: cty.NumberFloatVal(f), raw: cell}
	}
	return Value{kind: KindString, cty: cty.StringVal(cell), raw: cell}
}

func isNaNOrInf(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Kind reports which of {Int, Float, Str} this value was coerced to.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the underlying cell was the empty string.
func (v Value) IsEmpty() bool { return v.raw == "" }

// Raw returns the original cell text.
func (v Value) Raw() string { return v.raw }

func numeric(k Kind) bool { return k == KindInt || k == KindFloat }

// compatible reports whether two kinds may be compared at all.
func compatible(a, b Kind) bool {
	if a == b {
		return true
	}
	return numeric(a) && numeric(b)
}

func (v Value) asFloat() float64 {
	f, _ := v.cty.AsBigFloat().Float64()
	return f
}

// Equal implements spec's type-safe '=': numeric kinds compare numerically
// across Int/Float, strings compare as strings, and any other pairing
// (including Str vs numeric) is unequal.
func (v Value) Equal(other Value) bool {
	if !compatible(v.kind, other.kind) {
		return false
	}
	if v.kind == KindString {
		return v.raw == other.raw
	}
	return v.asFloat() == other.asFloat()
}

func (v Value) NotEqual(other Value) bool { return !v.Equal(other) }

// Less, LessOrEqual, GreaterOrEqual, Greater implement the remaining
// type-safe order predicates: false whenever the kinds are incompatible.
func (v Value) Less(other Value) bool {
	if !compatible(v.kind, other.kind) {
		return false
	}
	if v.kind == KindString {
		return v.raw < other.raw
	}
	return v.asFloat() < other.asFloat()
}

func (v Value) LessOrEqual(other Value) bool {
	if !compatible(v.kind, other.kind) {
		return false
	}
	return v.Less(other) || v.Equal(other)
}

func (v Value) GreaterOrEqual(other Value) bool {
	if !compatible(v.kind, other.kind) {
		return false
	}
	return !v.Less(other)
}

func (v Value) Greater(other Value) bool {
	if !compatible(v.kind, other.kind) {
		return false
	}
	return !v.LessOrEqual(other)
}

// Compare applies the order predicate named by op ("<", "<=", "=", "!=",
// ">=", ">") to v and other. It returns false for an unrecognized op.
func (v Value) Compare(op string, other Value) bool {
	switch op {
	case "<":
		return v.Less(other)
	case "<=":
		return v.LessOrEqual(other)
	case "=":
		return v.Equal(other)
	case "!=":
		return v.NotEqual(other)
	case ">=":
		return v.GreaterOrEqual(other)
	case ">":
		return v.Greater(other)
	default:
		return false
	}
}

// Less3 provides the ordering used by ORDER BY: empty cells sort last
// regardless of direction, so emptiness is compared before the coerced
// value itself. ascending selects the direction applied to non-empty
// values; emptiness ordering is independent of it.
func Less3(a, b Value, ascending bool) bool {
	aEmpty, bEmpty := a.IsEmpty(), b.IsEmpty()
	if aEmpty != bEmpty {
		return bEmpty
	}
	if aEmpty {
		return false
	}
	if ascending {
		return a.Less(b)
	}
	return b.Less(a)
}
