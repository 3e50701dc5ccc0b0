package calc

import (
	"io"
	"strings"
)

// Expr    = Term { ('+' | '-') Term }
// Term    = Unary { ('*' | '/') Unary }
// Unary   = '-' Unary | Power
// Power   = Atom [ '^' Unary ]
// Atom    = num | Const | Call | '(' Expr ')'
// Call    = funcname '(' Expr ')'
// Const   = constname

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// tab is the binding table the expression was parsed against. Calls and
	// constants in n hold the table's semantics directly.
	tab *Table
}

// tokens is a cursor over a token slice that ends with an EOF token.
type tokens struct {
	toks []Token
	i    int
}

// next scans the next token. Panics if the parser tries to read past EOF.
func (s *tokens) next() Token {
	if s.i >= len(s.toks) {
		panic("calc: read past EOF")
	}
	tok := s.toks[s.i]
	s.i++
	return tok
}

// peek returns the next token without scanning it.
func (s *tokens) peek() Token {
	return s.toks[s.i]
}

// push unreads a token so that it is the next token returned from next.
// Panics if tok is not the last scanned token.
func (s *tokens) push(tok Token) {
	if s.i == 0 || s.toks[s.i-1] != tok {
		panic("calc: push of unscanned token " + tok.String())
	}
	s.i--
}

// must scans a token that the parser has just pushed.
func (s *tokens) must() Token {
	return s.next()
}

// parsectx holds general data for parsing.
type parsectx struct {
	// tab is the table of known names.
	tab *Table
}

// Parse parses an expression so it can be evaluated with a context. Names in
// the expression are resolved against tab; any name tab does not bind is an
// error. If tab is nil, the degree-mode table is used.
func Parse(src io.RuneScanner, tab *Table) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, tab)
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string, tab *Table) (*Expr, error) {
	return Parse(strings.NewReader(src), tab)
}

// ParseTokens parses an expression from tokens produced by Tokenize. If toks
// does not end with an EOF token, one is added.
func ParseTokens(toks []Token, tab *Table) (*Expr, error) {
	if tab == nil {
		tab = Bindings(Degrees)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		pos := 1
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			pos = last.Pos + len([]rune(last.Text))
		}
		toks = append(toks[:len(toks):len(toks)], Token{Kind: TokenEOF, Pos: pos})
	}
	scan := &tokens{toks: toks}
	p := parsectx{tab: tab}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.Kind {
	case TokenEOF:
	case TokenClose:
		return nil, &BracketError{Col: tok.Pos, Right: tok.Text}
	default:
		panic("calc: expression ended on " + tok.String())
	}
	return &Expr{n: n, tab: tab}, nil
}

// parseterm parses a term whose operators are all more binding than until.
// If there is no error, then parseterm pushes the last token it scans, which
// is an operator, close bracket, or EOF. If the term is empty because a close
// bracket appears where an operand should, the result is nil with no error;
// callers must create an error where that is illegal.
func parseterm(scan *tokens, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok := scan.next()
		switch tok.Kind {
		case TokenOp:
			prec := binop(tok.Text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				// e.g. (x+)
				end := scan.must()
				return nil, &TokenError{Col: end.Pos, Text: end.Text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case TokenNum, TokenIdent, TokenOpen:
			// There is no implicit multiplication, so an operand directly
			// following a complete term is always an error.
			return nil, &TokenError{Col: tok.Pos, Text: tok.Text}
		case TokenClose, TokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *tokens, p *parsectx, until operator) (*node, error) {
	tok := scan.next()
	var n *node
	switch tok.Kind {
	case TokenNum:
		n = &node{kind: nodeNum, name: tok.Text}
	case TokenIdent:
		return parseident(scan, p, tok)
	case TokenOp:
		prec := unop(tok.Text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &TokenError{Col: end.Pos, Text: end.Text}
		}
		n = &node{kind: prec.op, left: rhs}
	case TokenOpen:
		rhs, err := parsegroup(scan, p, tok)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeGroup, left: rhs}
	case TokenClose:
		// Let the caller decide what an empty term means.
		scan.push(tok)
		return nil, nil
	case TokenEOF:
		if scan.i == 1 {
			return nil, &EmptyExpressionError{Col: tok.Pos, End: ""}
		}
		return nil, &EOFError{Col: tok.Pos}
	default:
		panic("calc: unknown token: " + tok.String())
	}
	return n, nil
}

// parsegroup parses a parenthesized subexpression following the open bracket
// tok. The result is the contents of the brackets.
func parsegroup(scan *tokens, p *parsectx, open Token) (*node, error) {
	if t := scan.peek(); t.Kind == TokenEOF {
		return nil, &BracketError{Col: t.Pos, Left: open.Text}
	}
	rhs, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.Kind != TokenClose {
		return nil, itShouldNotHaveEndedThisWay(end, open)
	}
	if rhs == nil {
		return nil, &EmptyExpressionError{Col: end.Pos, End: end.Text}
	}
	return rhs, nil
}

// parseident resolves the identifier tok and parses the call or constant it
// begins.
func parseident(scan *tokens, p *parsectx, tok Token) (*node, error) {
	fn := p.tab.Lookup(tok.Text)
	if fn == nil {
		return nil, &UnknownNameError{Col: tok.Pos, Name: tok.Text}
	}
	next := scan.next()
	if next.Kind != TokenOpen {
		scan.push(next)
		if !fn.CanCall(0) {
			return nil, &CallError{Col: next.Pos, Func: tok.Text, Len: 0}
		}
		return &node{kind: nodeConst, name: tok.Text, fn: fn}, nil
	}
	if !fn.CanCall(1) {
		return nil, &CallError{Col: next.Pos, Func: tok.Text, Len: 1}
	}
	if t := scan.peek(); t.Kind == TokenClose {
		return nil, &CallError{Col: t.Pos, Func: tok.Text, Len: 0}
	}
	arg, err := parsegroup(scan, p, next)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, name: tok.Text, fn: fn, left: arg}, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression opened by the bracket open.
func itShouldNotHaveEndedThisWay(tok Token, open Token) error {
	switch tok.Kind {
	case TokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.Pos, Left: open.Text, Right: ""}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// brackets around each operation.
func (e *Expr) String() string {
	return e.n.String()
}

// Table returns the binding table the expression was parsed against.
func (e *Expr) Table() *Table {
	return e.tab
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
