package main

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestRunLines(t *testing.T) {
	in := strings.NewReader("2+3\n\n  sin(90)  \nrad\nasin(1)\ndeg\nasin(1)\n10/0\n")
	var out strings.Builder
	if err := runLines(in, &out, calc.NewSession(), false); err != nil {
		t.Fatal(err)
	}
	want := "5\n1\n1.5707963267949\n90\nError\n"
	if out.String() != want {
		t.Errorf("want output %q, got %q", want, out.String())
	}
}

func TestRunLinesIndependent(t *testing.T) {
	// Each line is evaluated on its own rather than continuing the last result.
	in := strings.NewReader("2+3\n*2\n")
	var out strings.Builder
	if err := runLines(in, &out, calc.NewSession(), false); err != nil {
		t.Fatal(err)
	}
	if want := "5\nError\n"; out.String() != want {
		t.Errorf("want output %q, got %q", want, out.String())
	}
}

func TestRunArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		opts []calc.SessionOption
		want string
		ok   bool
	}{
		{"ok", []string{"1+1", "2^10"}, nil, "2\n1024\n", true},
		{"fail", []string{"1+1", "1+"}, nil, "2\nError\n", false},
		{"rad", []string{"acos(-1)"}, []calc.SessionOption{calc.StartIn(calc.Radians)}, "3.14159265358979\n", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out strings.Builder
			ok := runArgs(&out, c.args, c.opts, false)
			if ok != c.ok {
				t.Errorf("want ok %t, got %t", c.ok, ok)
			}
			if out.String() != c.want {
				t.Errorf("want output %q, got %q", c.want, out.String())
			}
		})
	}
}
