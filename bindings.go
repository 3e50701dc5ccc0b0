package calc

import (
	"math"
	"math/big"
	"sort"

	"github.com/zephyrtronium/bigfloat"
)

// AngleMode selects how trigonometric functions interpret and produce
// angles.
type AngleMode int8

const (
	// Degrees is the default angle mode.
	Degrees AngleMode = iota
	Radians
)

// Toggle returns the other angle mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radians {
		return Degrees
	}
	return Radians
}

func (m AngleMode) String() string {
	if m == Radians {
		return "rad"
	}
	return "deg"
}

// Table binds the names an expression may use to their semantics. A Table is
// immutable once built, so it is safe to share between goroutines.
type Table struct {
	mode  AngleMode
	funcs map[string]Func
}

// Bindings builds the binding table for an angle mode. Each call builds a new
// table. The forward trigonometric functions sin, cos, and tan take angles in
// the given mode, and the inverse functions asin, acos, and atan produce
// them. The other names, sqrt, exp, log, ln, pi, and e, are the same in both
// modes. log is the natural logarithm, like ln.
func Bindings(mode AngleMode) *Table {
	t := Table{
		mode: mode,
		funcs: map[string]Func{
			"sqrt": Monadic(sqrt),
			"exp":  Monadic(exp),
			"ln":   Monadic(ln),
			"log":  Monadic(ln),

			"pi": Niladic(bigfloat.Pi),
			"e": Niladic(func(out *big.Float) *big.Float {
				var one big.Float
				one.SetFloat64(1)
				return bigfloat.Exp(out, &one)
			}),
		},
	}
	if mode == Radians {
		t.funcs["sin"] = Float64(math.Sin)
		t.funcs["cos"] = Float64(math.Cos)
		t.funcs["tan"] = Float64(math.Tan)
		t.funcs["asin"] = Float64(math.Asin)
		t.funcs["acos"] = Float64(math.Acos)
		t.funcs["atan"] = Float64(math.Atan)
	} else {
		nan := math.NaN()
		t.funcs["sin"] = Float64(degreesIn(math.Sin, [4]float64{0, 1, 0, -1}))
		t.funcs["cos"] = Float64(degreesIn(math.Cos, [4]float64{1, 0, -1, 0}))
		t.funcs["tan"] = Float64(degreesIn(math.Tan, [4]float64{0, nan, 0, nan}))
		t.funcs["asin"] = Float64(degreesOut(math.Asin))
		t.funcs["acos"] = Float64(degreesOut(math.Acos))
		t.funcs["atan"] = Float64(degreesOut(math.Atan))
	}
	return &t
}

// Mode returns the angle mode the table was built for.
func (t *Table) Mode() AngleMode {
	return t.mode
}

// Known returns whether name is bound in the table.
func (t *Table) Known(name string) bool {
	return t.funcs[name] != nil
}

// Lookup returns the semantics bound to name, or nil if there are none.
func (t *Table) Lookup(name string) Func {
	return t.funcs[name]
}

// Arity returns the number of arguments name takes: zero for constants and
// one for functions. The second result is false if name is not bound.
func (t *Table) Arity(name string) (int, bool) {
	fn := t.funcs[name]
	switch {
	case fn == nil:
		return 0, false
	case fn.CanCall(0):
		return 0, true
	default:
		return 1, true
	}
}

// Names returns the bound names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for k := range t.funcs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// degreesIn converts a function of an angle in radians to one of an angle in
// degrees. Arguments which are multiples of 90 degrees produce the
// corresponding element of exact instead of a rounded value.
func degreesIn(f func(float64) float64, exact [4]float64) func(float64) float64 {
	return func(x float64) float64 {
		d := math.Mod(x, 360)
		if q := d / 90; q == math.Trunc(q) {
			return exact[(int(q)+4)%4]
		}
		return f(d * math.Pi / 180)
	}
}

// degreesOut converts a function producing an angle in radians to one
// producing an angle in degrees.
func degreesOut(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		return f(x) * 180 / math.Pi
	}
}

func sqrt(out, in *big.Float) *big.Float {
	if in.Sign() < 0 {
		panic(&DomainError{X: new(big.Float).Copy(in)})
	}
	return out.Sqrt(in)
}

// expmax and expmin bound the arguments to exp whose results are within the
// range of float64, excluding subnormals at the low end.
const (
	expmax = 709.8
	expmin = -745.2
)

func exp(out, in *big.Float) *big.Float {
	x, _ := in.Float64()
	switch {
	case x > expmax:
		panic(&OverflowError{})
	case x < expmin:
		return out.SetInt64(0)
	}
	return bigfloat.Exp(out, in)
}

func ln(out, in *big.Float) *big.Float {
	if in.Sign() <= 0 {
		panic(&DomainError{X: new(big.Float).Copy(in)})
	}
	return bigfloat.Log(out, in)
}
