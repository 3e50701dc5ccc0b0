package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// Func is a function from reals to reals. The function should set r to its
// result and should not use the value of r otherwise.
type Func interface {
	// Call evaluates the function. The function arguments are passed in invoc,
	// which has a length for which CanCall returned true. The function must
	// set r to its result and should not use the value of r otherwise. Call
	// may modify the elements of invoc.
	Call(ctx *Context, invoc []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// A name whose Func can be called with zero arguments parses as a
	// constant; one with one argument parses as a call and must be followed
	// by a parenthesized argument.
	CanCall(n int) bool
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(ctx *Context, invoc []*big.Float, r *big.Float) (err error) {
	in := invoc[0]
	x := new(big.Float).Copy(in)
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err = p.(error) // panic if not error
		if errors.As(err, new(*DomainError)) || errors.As(err, new(*OverflowError)) {
			return
		}
		if errors.As(err, new(big.ErrNaN)) {
			err = &DomainError{X: x}
			return
		}
		panic(err)
	}()
	r.SetPrec(ctx.Prec())
	m.f(r, in)
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with a
// *DomainError or an error of type big.ErrNaN. It may panic with an
// *OverflowError if the result is too large.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	n.f(r)
	return nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

// Float64 wraps a float64 function of one variable into a Func. Arguments are
// rounded to the nearest float64. A NaN result is a domain error, and an
// infinite result or argument is an overflow.
func Float64(f func(float64) float64) Func {
	return Monadic(func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		if math.IsInf(x, 0) {
			panic(&OverflowError{})
		}
		y := f(x)
		switch {
		case math.IsNaN(y):
			panic(&DomainError{X: new(big.Float).Copy(in)})
		case math.IsInf(y, 0):
			panic(&OverflowError{})
		}
		return out.SetFloat64(y)
	})
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.Text('g', 10) + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
