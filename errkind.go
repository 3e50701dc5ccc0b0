package calc

import (
	"errors"
	"strconv"
)

// ErrorKind classifies the errors the package produces.
type ErrorKind int8

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = iota
	// KindLex is an unrecognized character or malformed number.
	KindLex
	// KindUnknownName is an identifier missing from the binding table.
	KindUnknownName
	// KindBracket is an unmatched parenthesis.
	KindBracket
	// KindUnexpectedToken is a token out of place, including trailing tokens
	// after a complete expression.
	KindUnexpectedToken
	// KindUnexpectedEOF is an input which ends where an operand is needed.
	KindUnexpectedEOF
	// KindEmpty is an empty expression.
	KindEmpty
	// KindCall is a function used without an argument or a constant used
	// with one.
	KindCall
	// KindZeroDivision is division by zero.
	KindZeroDivision
	// KindDomain is a function argument outside the function's domain.
	KindDomain
	// KindOverflow is a value too large to represent.
	KindOverflow
	// KindOther is any error the package does not produce itself.
	KindOther
)

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		lex   *LexError
		name  *UnknownNameError
		brack *BracketError
		tok   *TokenError
		oper  *OperatorError
		eof   *EOFError
		empty *EmptyExpressionError
		call  *CallError
		zero  *ZeroDivisionError
		dom   *DomainError
		over  *OverflowError
	)
	switch {
	case errors.As(err, &lex):
		return KindLex
	case errors.As(err, &name):
		return KindUnknownName
	case errors.As(err, &brack):
		return KindBracket
	case errors.As(err, &tok), errors.As(err, &oper):
		return KindUnexpectedToken
	case errors.As(err, &eof):
		return KindUnexpectedEOF
	case errors.As(err, &empty):
		return KindEmpty
	case errors.As(err, &call):
		return KindCall
	case errors.As(err, &zero):
		return KindZeroDivision
	case errors.As(err, &dom):
		return KindDomain
	case errors.As(err, &over):
		return KindOverflow
	default:
		return KindOther
	}
}

// Stage returns the pipeline stage that produces errors of kind k: "lex",
// "parse", or "eval". It is empty for KindNone and KindOther.
func (k ErrorKind) Stage() string {
	switch k {
	case KindLex:
		return "lex"
	case KindUnknownName, KindBracket, KindUnexpectedToken, KindUnexpectedEOF, KindEmpty, KindCall:
		return "parse"
	case KindZeroDivision, KindDomain, KindOverflow:
		return "eval"
	default:
		return ""
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLex:
		return "lex"
	case KindUnknownName:
		return "unknown name"
	case KindBracket:
		return "unmatched bracket"
	case KindUnexpectedToken:
		return "unexpected token"
	case KindUnexpectedEOF:
		return "unexpected end"
	case KindEmpty:
		return "empty expression"
	case KindCall:
		return "bad call"
	case KindZeroDivision:
		return "division by zero"
	case KindDomain:
		return "domain"
	case KindOverflow:
		return "overflow"
	case KindOther:
		return "other"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}
