package calc

import "math/big"

// Digits is the number of significant decimal digits in formatted results.
// Trailing zeros are trimmed, and results whose decimal exponent is less than
// -4 or at least Digits are written in exponential notation, like 1e+15 or
// 1.5e-07. Formatted results are valid input to the lexer.
const Digits = 15

// ErrorText is the display string for any failed evaluation.
const ErrorText = "Error"

// Outcome is the result of evaluating one expression.
type Outcome struct {
	// Value is the result of a successful evaluation.
	Value *big.Float
	// Err is the error of a failed evaluation.
	Err error
}

// Format renders an outcome for display. Every error renders as ErrorText;
// the error itself is for diagnostics only.
func Format(o Outcome) string {
	if o.Err != nil || o.Value == nil {
		return ErrorText
	}
	return FormatFloat(o.Value)
}

// FormatFloat renders a number to Digits significant digits. Zero is always
// "0", never "-0". Infinities render as ErrorText.
func FormatFloat(x *big.Float) string {
	switch {
	case x.IsInf():
		return ErrorText
	case x.Sign() == 0:
		return "0"
	}
	return x.Text('g', Digits)
}
