package calc

import "unicode/utf8"

// Session holds the state of one calculator display: the expression being
// typed and the angle mode. Commands edit the expression, and Submit replaces
// it with the formatted result so that further input continues from the
// result.
//
// The zero value is an empty session in degree mode. A Session is not safe to
// use concurrently.
type Session struct {
	buf  string
	mode AngleMode
	// tab is the binding table for mode, or nil if it has not been built.
	tab  *Table
	opts []ContextOption
	err  error
}

// SessionOption is an option used when creating a session.
type SessionOption interface {
	sessionOption(*Session)
}

type (
	modeopt AngleMode
	evalopt []ContextOption
)

func (o modeopt) sessionOption(s *Session) {
	s.mode = AngleMode(o)
}

func (o evalopt) sessionOption(s *Session) {
	s.opts = append(s.opts, o...)
}

// StartIn sets the initial angle mode of a session.
func StartIn(mode AngleMode) SessionOption {
	return modeopt(mode)
}

// EvalWith sets options for the contexts that evaluate submitted expressions.
func EvalWith(opts ...ContextOption) SessionOption {
	return evalopt(opts)
}

// NewSession creates a session with an empty display. The default angle mode
// is Degrees.
func NewSession(opts ...SessionOption) *Session {
	var s Session
	for _, opt := range opts {
		opt.sessionOption(&s)
	}
	s.tab = Bindings(s.mode)
	return &s
}

// Append adds text to the end of the display. The text is not checked until
// the next Submit.
func (s *Session) Append(text string) {
	s.buf += text
	s.err = nil
}

// Clear empties the display.
func (s *Session) Clear() {
	s.buf = ""
	s.err = nil
}

// Backspace removes the last character of the display, if there is one.
func (s *Session) Backspace() {
	_, n := utf8.DecodeLastRuneInString(s.buf)
	s.buf = s.buf[:len(s.buf)-n]
	s.err = nil
}

// ToggleAngleMode switches between degrees and radians. The display is
// unchanged; only later submits see the new mode.
func (s *Session) ToggleAngleMode() {
	s.mode = s.mode.Toggle()
	s.tab = Bindings(s.mode)
}

// Submit evaluates the display in the current angle mode and replaces the
// display with the result. If evaluation fails for any reason, the display
// becomes ErrorText, and Err returns the reason.
func (s *Session) Submit() string {
	tab := s.table()
	var o Outcome
	e, err := ParseString(s.buf, tab)
	if err == nil {
		ctx := NewContext(s.opts...)
		o.Value = ctx.Eval(e)
		err = ctx.Err()
	}
	o.Err = err
	s.buf = Format(o)
	s.err = err
	return s.buf
}

// Display returns the current display.
func (s *Session) Display() string {
	return s.buf
}

// AngleMode returns the current angle mode.
func (s *Session) AngleMode() AngleMode {
	return s.mode
}

// Err returns the reason the last Submit failed. It is nil if the last Submit
// succeeded or if the display has been edited since.
func (s *Session) Err() error {
	return s.err
}

// table returns the binding table for the current mode.
func (s *Session) table() *Table {
	if s.tab == nil || s.tab.Mode() != s.mode {
		s.tab = Bindings(s.mode)
	}
	return s.tab
}
