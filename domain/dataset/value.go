package dataset

import (
	"fmt"
	"math"
	"strings"

	"gohstat/domain/core"
)

// Kind classifies a cell value for comparison purposes
type Kind int

const (
	KindInvalid Kind = iota
	KindNumber
	KindString
	KindBool
)

// KindOf returns the comparison kind of a cell
func KindOf(v any) Kind {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBool
	default:
		return KindInvalid
	}
}

// Float converts a numeric cell to float64
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ColumnKind returns the shared kind of all values, or ErrIncomparable when
// the values mix kinds or hold something that cannot be ordered.
func ColumnKind(values []any) (Kind, error) {
	kind := KindInvalid
	for i, v := range values {
		k := KindOf(v)
		if k == KindInvalid {
			return KindInvalid, fmt.Errorf("%w: value %d has type %T", core.ErrIncomparable, i, v)
		}
		if kind == KindInvalid {
			kind = k
			continue
		}
		if k != kind {
			return KindInvalid, fmt.Errorf("%w: mixed value types in column", core.ErrIncomparable)
		}
	}
	return kind, nil
}

// Compare orders two values of the same kind. NaN equals NaN and sorts last.
// Integers compare exactly, also against floats and beyond 2^53.
func Compare(kind Kind, a, b any) int {
	switch kind {
	case KindNumber:
		return compareNumbers(toNumber(a), toNumber(b))
	case KindString:
		return strings.Compare(a.(string), b.(string))
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}

const (
	formFloat = iota
	formSigned
	formUnsigned
)

// number holds a numeric cell without losing integer precision
type number struct {
	form int
	f    float64
	i    int64
	u    uint64
}

func toNumber(v any) number {
	switch x := v.(type) {
	case int:
		return number{form: formSigned, i: int64(x)}
	case int8:
		return number{form: formSigned, i: int64(x)}
	case int16:
		return number{form: formSigned, i: int64(x)}
	case int32:
		return number{form: formSigned, i: int64(x)}
	case int64:
		return number{form: formSigned, i: x}
	case uint:
		return number{form: formUnsigned, u: uint64(x)}
	case uint8:
		return number{form: formUnsigned, u: uint64(x)}
	case uint16:
		return number{form: formUnsigned, u: uint64(x)}
	case uint32:
		return number{form: formUnsigned, u: uint64(x)}
	case uint64:
		return number{form: formUnsigned, u: x}
	}
	f, _ := Float(v)
	return number{form: formFloat, f: f}
}

func compareNumbers(x, y number) int {
	switch {
	case x.form == formFloat && y.form == formFloat:
		return compareFloats(x.f, y.f)
	case x.form == formFloat:
		return -compareNumbers(y, x)
	}

	switch y.form {
	case formFloat:
		if math.IsNaN(y.f) {
			return -1
		}
		if x.form == formSigned {
			return compareSignedFloat(x.i, y.f)
		}
		return compareUnsignedFloat(x.u, y.f)
	case formSigned:
		if x.form == formSigned {
			return cmpOrdered(x.i, y.i)
		}
		return -compareSignedUnsigned(y.i, x.u)
	default:
		if x.form == formUnsigned {
			return cmpOrdered(x.u, y.u)
		}
		return compareSignedUnsigned(x.i, y.u)
	}
}

func compareFloats(x, y float64) int {
	xNaN, yNaN := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xNaN && yNaN:
		return 0
	case xNaN:
		return 1
	case yNaN:
		return -1
	}
	return cmpOrdered(x, y)
}

func compareSignedUnsigned(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return cmpOrdered(uint64(i), u)
}

// compareSignedFloat compares i with a non-NaN f exactly
func compareSignedFloat(i int64, f float64) int {
	switch {
	case f >= math.MaxInt64: // 2^63
		return -1
	case f < math.MinInt64:
		return 1
	}
	t := math.Trunc(f)
	if c := cmpOrdered(i, int64(t)); c != 0 {
		return c
	}
	return cmpOrdered(t, f)
}

// compareUnsignedFloat compares u with a non-NaN f exactly
func compareUnsignedFloat(u uint64, f float64) int {
	switch {
	case f < 0:
		return 1
	case f >= math.MaxUint64: // 2^64
		return -1
	}
	t := math.Trunc(f)
	if c := cmpOrdered(u, uint64(t)); c != 0 {
		return c
	}
	return cmpOrdered(t, f)
}

func cmpOrdered[T int64 | uint64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
