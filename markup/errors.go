package markup

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnexpectedCharacter  = errors.New("unexpected character")
	ErrBadCharacter         = errors.New("bad character in comment")
	ErrUndeclaredPrefix     = errors.New("undeclared namespace prefix")
)

// SyntaxError reports where parsing stopped. Err is one of the sentinel
// errors above; Detail carries the context (expected literal, prefix name).
type SyntaxError struct {
	Err    error
	Detail string
	Pos    Position
}

func (e *SyntaxError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
	}
	return fmt.Sprintf("%d:%d: %v: %s", e.Pos.Line, e.Pos.Column, e.Err, e.Detail)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
