package field

import "fmt"

// Elementwise operations promote their operands to a common shape first:
// dimension orders are merged, windows are intersected per axis, and axes
// missing from one operand broadcast. Both operands must carry the same
// element type; there is no implicit numeric conversion.

func opTypeErr(op string, a, b Value) error {
	return fmt.Errorf("%w: %s on %s and %s", ErrType, op, TypeName(a), TypeName(b))
}

func arith(op string, a, b Value, f64 func(float64, float64) float64, i64 func(int64, int64) int64) (Value, error) {
	switch x := a.(type) {
	case *Field[float64]:
		y, ok := b.(*Field[float64])
		if !ok {
			return nil, opTypeErr(op, a, b)
		}
		return zip2(x, y, f64)
	case *Field[int64]:
		if i64 == nil {
			return nil, fmt.Errorf("%w: %s is defined on float64 fields only", ErrType, op)
		}
		y, ok := b.(*Field[int64])
		if !ok {
			return nil, opTypeErr(op, a, b)
		}
		return zip2(x, y, i64)
	default:
		return nil, fmt.Errorf("%w: %s is not defined on %s", ErrType, op, TypeName(a))
	}
}

func compare(op string, a, b Value, f64 func(float64, float64) bool, i64 func(int64, int64) bool) (Value, error) {
	switch x := a.(type) {
	case *Field[float64]:
		y, ok := b.(*Field[float64])
		if !ok {
			return nil, opTypeErr(op, a, b)
		}
		return zip2(x, y, f64)
	case *Field[int64]:
		y, ok := b.(*Field[int64])
		if !ok {
			return nil, opTypeErr(op, a, b)
		}
		return zip2(x, y, i64)
	default:
		return nil, fmt.Errorf("%w: %s is not defined on %s", ErrType, op, TypeName(a))
	}
}

// Add returns the elementwise sum of two numeric fields.
func Add(a, b Value) (Value, error) {
	return arith("add", a, b,
		func(x, y float64) float64 { return x + y },
		func(x, y int64) int64 { return x + y })
}

// Sub returns the elementwise difference of two numeric fields.
func Sub(a, b Value) (Value, error) {
	return arith("sub", a, b,
		func(x, y float64) float64 { return x - y },
		func(x, y int64) int64 { return x - y })
}

// Mul returns the elementwise product of two numeric fields.
func Mul(a, b Value) (Value, error) {
	return arith("mul", a, b,
		func(x, y float64) float64 { return x * y },
		func(x, y int64) int64 { return x * y })
}

// Div returns the elementwise quotient. Division is defined on float64
// fields only and follows IEEE semantics: dividing by zero yields an
// infinity or NaN rather than an error.
func Div(a, b Value) (Value, error) {
	return arith("div", a, b,
		func(x, y float64) float64 { return x / y },
		nil)
}

// Neg returns the elementwise negation of a numeric field.
func Neg(v Value) (Value, error) {
	switch x := v.(type) {
	case *Field[float64]:
		return mapField(x, func(a float64) float64 { return -a }), nil
	case *Field[int64]:
		return mapField(x, func(a int64) int64 { return -a }), nil
	default:
		return nil, fmt.Errorf("%w: neg is not defined on %s", ErrType, TypeName(v))
	}
}

// Lt returns the elementwise a < b mask of two numeric fields.
func Lt(a, b Value) (Value, error) {
	return compare("lt", a, b,
		func(x, y float64) bool { return x < y },
		func(x, y int64) bool { return x < y })
}

// Le returns the elementwise a <= b mask.
func Le(a, b Value) (Value, error) {
	return compare("le", a, b,
		func(x, y float64) bool { return x <= y },
		func(x, y int64) bool { return x <= y })
}

// Gt returns the elementwise a > b mask.
func Gt(a, b Value) (Value, error) {
	return compare("gt", a, b,
		func(x, y float64) bool { return x > y },
		func(x, y int64) bool { return x > y })
}

// Ge returns the elementwise a >= b mask.
func Ge(a, b Value) (Value, error) {
	return compare("ge", a, b,
		func(x, y float64) bool { return x >= y },
		func(x, y int64) bool { return x >= y })
}

// Eq returns the elementwise a == b mask of two numeric fields.
func Eq(a, b Value) (Value, error) {
	return compare("eq", a, b,
		func(x, y float64) bool { return x == y },
		func(x, y int64) bool { return x == y })
}

// Ne returns the elementwise a != b mask of two numeric fields.
func Ne(a, b Value) (Value, error) {
	return compare("ne", a, b,
		func(x, y float64) bool { return x != y },
		func(x, y int64) bool { return x != y })
}
