package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/calc"
	"golang.org/x/term"
)

func main() {
	log.SetFlags(0)
	var (
		prec         int
		rad, explain bool
		lines        bool
	)
	flag.IntVar(&prec, "p", 64, "precision of calculations in bits")
	flag.BoolVar(&rad, "rad", false, "start in radians instead of degrees")
	flag.BoolVar(&explain, "v", false, "print the reason for each Error")
	flag.BoolVar(&lines, "lines", false, "read one expression per line even from a terminal")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}

	opts := []calc.SessionOption{calc.EvalWith(calc.Prec(uint(prec)))}
	if rad {
		opts = append(opts, calc.StartIn(calc.Radians))
	}

	if flag.NArg() > 0 {
		if !runArgs(os.Stdout, flag.Args(), opts, explain) {
			os.Exit(1)
		}
		return
	}

	s := calc.NewSession(opts...)
	fd := int(os.Stdin.Fd())
	if !lines && term.IsTerminal(fd) {
		err := runKeypad(fd, os.Stdin, s, explain)
		if err == nil {
			return
		}
		log.Printf("keypad unavailable, reading lines: %v", err)
	}
	if err := runLines(os.Stdin, os.Stdout, s, explain); err != nil {
		log.Fatal(err)
	}
}

// runArgs evaluates each argument as a separate expression and prints one
// result per line. It returns false if any expression fails.
func runArgs(w io.Writer, args []string, opts []calc.SessionOption, explain bool) bool {
	ok := true
	for _, arg := range args {
		s := calc.NewSession(opts...)
		s.Append(arg)
		fmt.Fprintln(w, s.Submit())
		if err := s.Err(); err != nil {
			ok = false
			report(arg, err, explain)
		}
	}
	return ok
}

// runLines evaluates each non-blank line of r as an expression and writes
// one result per line to w. A line which is only "deg" or "rad" switches the
// angle mode instead.
func runLines(r io.Reader, w io.Writer, s *calc.Session, explain bool) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case calc.Degrees.String(), calc.Radians.String():
			if s.AngleMode().String() != line {
				s.ToggleAngleMode()
			}
			continue
		}
		s.Clear()
		s.Append(line)
		fmt.Fprintln(w, s.Submit())
		if err := s.Err(); err != nil {
			report(line, err, explain)
		}
	}
	return sc.Err()
}

func report(src string, err error, explain bool) {
	if !explain {
		return
	}
	log.Printf("%q: %v: %v", src, calc.KindOf(err), err)
}
