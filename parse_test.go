package calc

import (
	"fmt"
	"reflect"
	"regexp"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. Groups are skipped, so "(x)" and "x" are equal. If
// any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	for n != nil && n.kind == nodeGroup {
		n = n.left
	}
	for m != nil && m.kind == nodeGroup {
		m = m.left
	}
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum, nodeConst:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		toks, err := TokenizeString(string(r))
		if err != nil {
			t.Fatalf("%c didn't lex: %v", r, err)
		}
		b := binop(toks[0].Text)
		if b.op == nodeNone {
			t.Errorf("no binary operator for %c", r)
		}
	}
	if u := unop("-"); u.op != nodeNeg {
		t.Errorf("no unary minus")
	}
}

func TestPrecedenceOrder(t *testing.T) {
	add, mul, neg, pow := binop("+"), binop("*"), unop("-"), binop("^")
	if !(add.prec < mul.prec && mul.prec < neg.prec && neg.prec < pow.prec) {
		t.Errorf("precedences out of order: + %d, * %d, unary - %d, ^ %d", add.prec, mul.prec, neg.prec, pow.prec)
	}
	if !pow.right {
		t.Errorf("^ is not right-associative")
	}
	if add.right || mul.right {
		t.Errorf("+ or * is right-associative")
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(2)", "2"},
		{"multi", "((((2))))", "2"},

		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "1+2", "((1)+(2))"},
		{"sub", "1-2", "((1)-(2))"},
		{"mul", "1*2", "((1)*(2))"},
		{"div", "1/2", "((1)/(2))"},
		{"pow", "1^2", "((1)^(2))"},
		{"altmul", "1×2", "1*2"},
		{"altdiv", "1÷2", "1/2"},
		{"space", " 1 + 2 ", "1+2"},

		{"const", "pi", "(pi)"},
		{"call", "sin(x)", "sin((x))"},
		{"call-expr", "sin(1+2)", "sin((1+2))"},
		{"call-nested", "sqrt(cos(pi))", "sqrt((cos((pi))))"},
		{"call-add", "sin(1)+2", "(sin(1))+2"},
		{"call-pow", "sin(1)^2", "(sin(1))^2"},
		{"neg-call", "-sin(1)", "-(sin(1))"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},

		{"negpow", "-1^n", "-(1^n)"},
		{"negmul", "-x*y", "(-x)*y"},
		{"mulneg", "x*-y", "x*(-y)"},
		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c", "w+((x*(y^(z^a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"subneg", "x--x", "x-(-x)"},
		{"powneg", "x^-1", "x^(-1)"},
		{"pownegpow", "x^-y^-z", "x^(-(y^(-z)))"},
		{"pownegneg", "x^--y", "x^(-(-y))"},
	}
	tab := testTable()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a, tab)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b, tab)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	tab := testTable()
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "call",
			src:  "sin(x)",
			n: &node{
				kind: nodeCall,
				name: "sin",
				left: &node{kind: nodeConst, name: "x"},
			},
		},
		{
			name: "group",
			src:  "(1)",
			n: &node{
				kind: nodeGroup,
				left: &node{kind: nodeNum, name: "1"},
			},
		},
		{
			name: "negpow",
			src:  "-2^2",
			n: &node{
				kind: nodeNeg,
				left: &node{
					kind:  nodePow,
					left:  &node{kind: nodeNum, name: "2"},
					right: &node{kind: nodeNum, name: "2"},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, tab)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !sameShape(a.n, c.n) {
				t.Errorf("mismatched AST:\n\twant %v\n\tgot  %v from %q", c.n, a.n, c.src)
			}
		})
	}
}

// sameShape compares trees exactly, including groups, but not bound funcs.
func sameShape(n, m *node) bool {
	if n == nil || m == nil {
		return n == m
	}
	return n.kind == m.kind && n.name == m.name && sameShape(n.left, m.left) && sameShape(n.right, m.right)
}

func TestParseBindsFuncs(t *testing.T) {
	tab := Bindings(Radians)
	a, err := ParseString("sin(pi)", tab)
	if err != nil {
		t.Fatal(err)
	}
	if a.Table() != tab {
		t.Errorf("expression has table %p, not %p", a.Table(), tab)
	}
	if !a.n.haskind(nodeCall) || !a.n.haskind(nodeConst) {
		t.Errorf("%v lacks a call or constant", a.n)
	}
	if a.n.fn == nil || a.n.left.fn == nil {
		t.Errorf("unbound call or constant in %v", a.n)
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"paren", "(x)", "x"},
		{"neg", "-x", "(-x)"},
		{"add", "x+y", "(x + y)"},
		{"altmul", "x×y", "(x * y)"},
		{"call", "sin(x+1)", "sin((x + 1))"},
		{"negpow", "-1^n", "(-(1 ^ n))"},
		{"ascdesc", "w+x*y^z^a*b+c", "((w + ((x * (y ^ (z ^ a))) * b)) + c)"},
		{"pownegpow", "x^-y^-z", "(x ^ (-(y ^ (-z))))"},
	}
	tab := testTable()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, tab)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			if s != c.want {
				t.Errorf("%q printed as %q, want %q", c.src, s, c.want)
			}
			b, err := ParseString(s, tab)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\bno expression\b`}},
		{"blank", "   ", new(EmptyExpressionError), 4, []string{`(?i)\bno expression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\bno expression\b`, `\)`}},
		{"emptyinner", "1+(())", new(EmptyExpressionError), 5, []string{`(?i)\bno expression\b`}},
		{"dangling", "2+", new(EOFError), 3, []string{`(?i)\bend\b`}},
		{"danglingmul", "2*", new(EOFError), 3, []string{`(?i)\bend\b`}},
		{"danglingneg", "2*-", new(EOFError), 4, []string{`(?i)\bend\b`}},
		{"neg", "-", new(EOFError), 2, []string{`(?i)\bend\b`}},
		{"parenop", "(1+", new(EOFError), 4, []string{`(?i)\bend\b`}},
		{"left", "(1+2", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`}},
		{"leftonly", "(", new(BracketError), 2, []string{`(?i)\bbracket\b`, `\(`}},
		{"right", "1+2)", new(BracketError), 4, []string{`(?i)\bbracket\b`, `\)`}},
		{"rightonly", ")", new(BracketError), 1, []string{`(?i)\bbracket\b`, `\)`}},
		{"callopen", "sin(", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`}},
		{"callunclosed", "sin(30", new(BracketError), 7, []string{`(?i)\bbracket\b`, `\(`}},
		{"trailing", "2 3", new(TokenError), 3, []string{`"3"`}},
		{"trailingname", "2 pi", new(TokenError), 3, []string{`"pi"`}},
		{"trailingparen", "(2)(3)", new(TokenError), 4, []string{`"\("`}},
		{"trailingcall", "sin(30)cos(30)", new(TokenError), 8, []string{`"cos"`}},
		{"opclose", "(1+)", new(TokenError), 4, []string{`"\)"`}},
		{"negclose", "(-)", new(TokenError), 3, []string{`"\)"`}},
		{"nonunary", "*2", new(OperatorError), 1, []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}},
		{"plus", "+2", new(OperatorError), 1, []string{`(?i)\bunary\b`, `\+`}},
		{"doubleop", "2*/3", new(OperatorError), 3, []string{`(?i)\bunary\b`, `/`}},
		{"unknown", "foo(2)", new(UnknownNameError), 1, []string{`(?i)\bunknown\b`, `"foo"`}},
		{"unknownconst", "2*x", new(UnknownNameError), 3, []string{`"x"`}},
		{"case", "Sin(30)", new(UnknownNameError), 1, []string{`"Sin"`}},
		{"bare", "sin", new(CallError), 4, []string{`(?i)\bcall\b`, `\bsin\b`, `\b0\b`}},
		{"barearg", "sin 30", new(CallError), 5, []string{`(?i)\bcall\b`, `\bsin\b`, `\b0\b`}},
		{"noarg", "sin()", new(CallError), 5, []string{`(?i)\bcall\b`, `\bsin\b`, `\b0\b`}},
		{"callconst", "pi(2)", new(CallError), 3, []string{`(?i)\bcall\b`, `\bpi\b`, `\b1\b`}},
		{"lexer", "2^exp(-$)", new(LexError), 8, []string{`\$`}},
	}
	tab := Bindings(Degrees)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, tab)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if p := err.(InputError).Pos(); p != c.pos {
				t.Errorf("error from %q at %d, want %d", c.src, p, c.pos)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseTokens(t *testing.T) {
	toks, err := TokenizeString("1+2")
	if err != nil {
		t.Fatal(err)
	}
	a, err := ParseTokens(toks, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Without the EOF token.
	b, err := ParseTokens(toks[:len(toks)-1], nil)
	if err != nil {
		t.Fatal(err)
	}
	if d, e := a.n.diff(b.n); d != nil || e != nil {
		t.Errorf("mismatched AST: %v vs %v", a.n, b.n)
	}
	if _, err := ParseTokens(nil, nil); reflect.TypeOf(err) != reflect.TypeOf(new(EmptyExpressionError)) {
		t.Errorf("no tokens gave %#v, not empty expression", err)
	}
}

func TestParseAllowList(t *testing.T) {
	// Every bound name parses; nothing similar to one does.
	for _, mode := range []AngleMode{Degrees, Radians} {
		tab := Bindings(mode)
		for _, name := range tab.Names() {
			src := name
			if k, _ := tab.Arity(name); k == 1 {
				src += "(1)"
			}
			if _, err := ParseString(src, tab); err != nil {
				t.Errorf("%v: %q failed to parse: %v", mode, src, err)
			}
			for _, bad := range []string{name + "x", "x" + name, "Q" + name} {
				if _, err := ParseString(bad+"(1)", tab); KindOf(err) != KindUnknownName {
					t.Errorf("%v: %q gave %v, not unknown name", mode, bad, err)
				}
			}
		}
	}
}

// testTable returns a degree table with extra constants for writing trees.
func testTable() *Table {
	tab := Bindings(Degrees)
	for _, name := range []string{"a", "b", "c", "n", "w", "x", "y", "z"} {
		tab.funcs[name] = Niladic(nil)
	}
	return tab
}
