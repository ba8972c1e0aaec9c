package markup

import (
	"strings"
	"unicode"
)

// Position is a location in the scanned input. Offset counts runes from
// zero; Line and Column start at one.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Scanner walks a fully decoded input one rune at a time. The rune under
// the cursor is Current; Advance moves past it.
type Scanner struct {
	input  []rune
	pos    int
	line   int
	column int
}

func NewScanner(input string) *Scanner {
	return &Scanner{
		input:  []rune(input),
		line:   1,
		column: 1,
	}
}

func (s *Scanner) Position() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.column}
}

// AtEnd reports whether every rune has been consumed.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.input)
}

// Current returns the rune under the cursor, or 0 at the end of input.
func (s *Scanner) Current() rune {
	if s.AtEnd() {
		return 0
	}
	return s.input[s.pos]
}

// Peek returns the rune after Current without consuming anything.
func (s *Scanner) Peek() (rune, bool) {
	if s.pos+1 >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos+1], true
}

// Advance consumes Current and returns the rune that follows it. Calling
// Advance with nothing left to consume fails.
func (s *Scanner) Advance() (rune, error) {
	if s.AtEnd() {
		return 0, s.errorf(ErrUnexpectedEndOfInput, "")
	}
	if s.input[s.pos] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.pos++
	return s.Current(), nil
}

// Expect consumes literal rune by rune. A mismatch, including running out
// of input, fails with ErrUnexpectedCharacter carrying context.
func (s *Scanner) Expect(literal, context string) error {
	for _, want := range literal {
		if s.AtEnd() || s.Current() != want {
			return s.errorf(ErrUnexpectedCharacter, context)
		}
		if _, err := s.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// ReadUntil collects runes up to, not including, the first rune found in
// stops. The cursor is left on the stop rune.
func (s *Scanner) ReadUntil(stops string) (string, error) {
	start := s.pos
	for !s.AtEnd() && !strings.ContainsRune(stops, s.Current()) {
		if _, err := s.Advance(); err != nil {
			return "", err
		}
	}
	if s.AtEnd() {
		return "", s.errorf(ErrUnexpectedEndOfInput, "expected one of "+quoteRunes(stops))
	}
	return string(s.input[start:s.pos]), nil
}

func (s *Scanner) SkipWhitespace() {
	for !s.AtEnd() && unicode.IsSpace(s.Current()) {
		// cannot fail: not at end
		_, _ = s.Advance()
	}
}

func (s *Scanner) errorf(sentinel error, detail string) error {
	return &SyntaxError{Err: sentinel, Detail: detail, Pos: s.Position()}
}

func quoteRunes(set string) string {
	var b strings.Builder
	for i, r := range set {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch r {
		case ' ':
			b.WriteString("space")
		case '\t':
			b.WriteString("tab")
		case '\n':
			b.WriteString("newline")
		case '\r':
			b.WriteString("return")
		default:
			b.WriteRune('\'')
			b.WriteRune(r)
			b.WriteRune('\'')
		}
	}
	return b.String()
}
