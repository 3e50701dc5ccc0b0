//go:build go1.18
// +build go1.18

package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("sin(30)")
	f.Add("10/0")
	f.Add("1×2")
	f.Add("2^2^2^2^2")
	f.Fuzz(func(t *testing.T, s string) {
		ses := calc.NewSession()
		ses.Append(s)
		first := ses.Submit()
		if first == "" {
			t.Fatalf("%q displayed nothing", s)
		}
		if (first == calc.ErrorText) != (ses.Err() != nil) {
			t.Errorf("%q displayed %q with error %v", s, first, ses.Err())
		}
		if second := ses.Submit(); second != first {
			t.Errorf("%q displayed %q, then %q", s, first, second)
		}
	})
}
