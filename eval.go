package calc

import (
	"errors"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	prec  uint
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. Calls and constants
// use the semantics of the table the expression was parsed against. If an
// error occurs, e.g. division by zero or an argument to a function outside the
// function's domain, then the result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *big.Float {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		// The previous result belongs to the caller now.
		ctx.stack[0] = new(big.Float).SetPrec(ctx.prec)
		ctx.stack = ctx.stack[:0]
	default:
		panic("calc: Eval during Eval")
	}
	err := e.n.eval(ctx)
	if err != nil {
		ctx.stack = ctx.stack[:0]
	}
	ctx.err = err
	if err != nil {
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("calc: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred while evaluating the last expression
// with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		prec:  ctx.prec,
	}
	// Loop backward so we apply the last precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy numbers only if the new precision is no higher than the old, so
	// that we always use the precision we need.
	if n.prec <= ctx.prec {
		for k, v := range ctx.nums {
			n.nums[k] = new(big.Float).SetPrec(n.prec).Set(v)
		}
	}
	for _, opt := range opts {
		switch opt.(type) {
		case nil, precopt: // already done
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text.
func (ctx *Context) num(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		// The lexer only produces valid decimal syntax, so the only way to
		// fail is an exponent too large for big.Float.
		return nil, &OverflowError{Func: s}
	}
	if err := finite(r, s); err != nil {
		return nil, err
	}
	ctx.nums[s] = r
	return r, nil
}

// finite checks that x is within the range of float64. Values are kept in that
// range at every step so that no operation ever sees an infinity.
func finite(x *big.Float, op string) error {
	if x.IsInf() {
		return &OverflowError{Func: op}
	}
	if f, _ := x.Float64(); math.IsInf(f, 0) {
		return &OverflowError{Func: op}
	}
	return nil
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		v, err := ctx.num(n.name)
		if err != nil {
			return err
		}
		ctx.push().Set(v)
	case nodeConst:
		r := ctx.push()
		if err := n.fn.Call(ctx, nil, r); err != nil {
			return named(err, n.name)
		}
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := n.fn.Call(ctx, invoc, r); err != nil {
			return named(err, n.name)
		}
		ctx.stack = ctx.stack[:k]
		if err := finite(r, n.name); err != nil {
			return err
		}
	case nodeGroup:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeAdd:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		l.Add(l, r)
		return finite(l, "+")
	case nodeSub:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		l.Sub(l, r)
		return finite(l, "-")
	case nodeMul:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		l.Mul(l, r)
		return finite(l, "*")
	case nodeDiv:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		if r.Sign() == 0 {
			return &ZeroDivisionError{X: new(big.Float).Copy(l), Func: "/"}
		}
		l.Quo(l, r)
		return finite(l, "/")
	case nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		if err := pow(l, l, r); err != nil {
			return err
		}
		return finite(l, "^")
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

// named fills in the function name of domain and overflow errors.
func named(err error, name string) error {
	var de *DomainError
	if errors.As(err, &de) && de.Func == "" {
		de.Func = name
	}
	var oe *OverflowError
	if errors.As(err, &oe) && oe.Func == "" {
		oe.Func = name
	}
	return err
}

// powint is the largest integer exponent computed by repeated
// multiplication.
const powint = 1 << 16

// pow sets z to x^y. x and y must be finite, and z may alias x but not y.
func pow(z, x, y *big.Float) error {
	switch x.Sign() {
	case 0:
		switch y.Sign() {
		case 1:
			z.SetInt64(0)
		case 0:
			z.SetInt64(1)
		default:
			return &ZeroDivisionError{X: new(big.Float).SetInt64(1), Func: "^"}
		}
		return nil
	case -1:
		// Negative bases are only allowed with integer exponents.
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
		}
	}
	odd := false
	if x.Signbit() {
		k, _ := y.Int(nil)
		odd = k.Bit(0) == 1
	}
	a := new(big.Float).SetPrec(z.Prec()).Abs(x)
	// Check the magnitude of the result before computing it so that huge
	// exponents fail quickly instead of building huge intermediates.
	fa, _ := a.Float64()
	fy, _ := y.Float64()
	m := fy * math.Log(fa)
	switch {
	case m > expmax:
		return &OverflowError{Func: "^"}
	case m < expmin:
		z.SetInt64(0)
		return nil
	}
	if k, acc := y.Int64(); acc == big.Exact && -powint <= k && k <= powint {
		powi(z, a, k)
	} else {
		bigfloat.Pow(z, a, y)
	}
	if odd {
		z.Neg(z)
	}
	return nil
}

// powi sets z to x^k by repeated squaring. x must be nonzero and must not
// alias z.
func powi(z, x *big.Float, k int64) {
	neg := k < 0
	if neg {
		k = -k
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for k > 0 {
		if k&1 == 1 {
			z.Mul(z, b)
		}
		b.Mul(b, b)
		k >>= 1
	}
	if neg {
		z.Quo(new(big.Float).SetPrec(z.Prec()).SetInt64(1), z)
	}
}

// Eval is a shortcut to parse an expression against a table and return its
// result.
func Eval(src io.RuneScanner, tab *Table, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src, tab)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, tab *Table, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), tab, opts...)
}

// ZeroDivisionError is an error returned when an expression divides by zero,
// including raising zero to a negative power.
type ZeroDivisionError struct {
	// X is the dividend.
	X *big.Float
	// Func is the operator that divided.
	Func string
}

func (err *ZeroDivisionError) Error() string {
	if err.X == nil {
		return "division by zero"
	}
	return "division by zero: " + err.X.Text('g', 10) + " " + err.Func + " 0"
}

// OverflowError is an error returned when a value is too large in magnitude to
// represent.
type OverflowError struct {
	// Func is the operator, function, or number that overflowed.
	Func string
}

func (err *OverflowError) Error() string {
	if err.Func == "" {
		return "numeric overflow"
	}
	return "numeric overflow in " + strconv.Quote(err.Func)
}
