package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/zephyrtronium/calc"
	"golang.org/x/term"
)

// Keys with special meaning on the keypad. Every other printable key is
// appended to the display.
const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyCtrlH     = 0x08
	keyTab       = '\t'
	keyLF        = '\n'
	keyEnter     = '\r'
	keyEscape    = 0x1b
	keyBackspace = 0x7f
	keyClear     = 'C'
	keyEquals    = '='
)

func printKeys(w io.Writer) {
	fmt.Fprint(w, "calc keypad (Ctrl+D to exit)\r\n")
	fmt.Fprint(w, "  Enter or = evaluates      C or Esc clears\r\n")
	fmt.Fprint(w, "  Backspace deletes         Tab toggles deg/rad\r\n")
	fmt.Fprint(w, "\r\n")
}

// keypad maps keystrokes to session commands and redraws the display after
// each one.
type keypad struct {
	s   *calc.Session
	out io.Writer
	// explain is whether to print the reason for each Error.
	explain bool
	// pend holds the leading bytes of an incomplete UTF-8 sequence.
	pend []byte
	// csi is whether the keypad is skipping a terminal control sequence,
	// e.g. the one an arrow key sends.
	csi bool
	// esc is whether the previous byte was an escape.
	esc bool
}

// key handles one byte of input. It returns false when the user quits.
func (k *keypad) key(b byte) bool {
	if k.csi {
		// Control sequences end with a byte in @ through ~.
		if b >= 0x40 && b <= 0x7e {
			k.csi = false
		}
		return true
	}
	if k.esc {
		k.esc = false
		if b == '[' {
			k.csi = true
			return true
		}
	}
	if len(k.pend) > 0 || b >= utf8.RuneSelf {
		k.pend = append(k.pend, b)
		if utf8.FullRune(k.pend) {
			k.s.Append(string(k.pend))
			k.pend = k.pend[:0]
			k.redraw()
		}
		return true
	}
	switch b {
	case keyCtrlC, keyCtrlD:
		fmt.Fprint(k.out, "\r\n")
		return false
	case keyEnter, keyLF, keyEquals:
		k.s.Submit()
		if err := k.s.Err(); err != nil && k.explain {
			fmt.Fprintf(k.out, "\r\x1b[K%v: %v\r\n", calc.KindOf(err), err)
		}
	case keyEscape:
		k.esc = true
		k.s.Clear()
	case keyClear:
		k.s.Clear()
	case keyBackspace, keyCtrlH:
		k.s.Backspace()
	case keyTab:
		k.s.ToggleAngleMode()
	default:
		if b < ' ' {
			// Ignore other control characters.
			return true
		}
		k.s.Append(string(rune(b)))
	}
	k.redraw()
	return true
}

func (k *keypad) redraw() {
	fmt.Fprintf(k.out, "\r\x1b[K[%v] %s", k.s.AngleMode(), k.s.Display())
}

// runKeypad reads keystrokes from the terminal fd in raw mode until the user
// quits or input ends.
func runKeypad(fd int, in io.Reader, s *calc.Session, explain bool) error {
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)

	printKeys(os.Stdout)
	k := keypad{s: s, out: os.Stdout, explain: explain}
	k.redraw()
	r := bufio.NewReader(in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			fmt.Print("\r\n")
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !k.key(b) {
			return nil
		}
	}
}
