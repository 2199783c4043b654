package compiler

import (
	"fmt"

	"github.com/libklein/jackc/internal/token"
	"github.com/pkg/errors"
)

// LexError wraps a failure surfaced by the tokenizer: unterminated string
// or comment, malformed number, or an unrecognized character.
type LexError struct {
	Cause error
}

func (e *LexError) Error() string { return "lex error: " + e.Cause.Error() }
func (e *LexError) Unwrap() error { return e.Cause }

// ParseError reports a token mismatched against the grammar: a missing
// keyword or symbol, or an unexpected statement start.
type ParseError struct {
	Expected string
	Got      token.Token
}

func (e *ParseError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("unexpected token %q at line %d", e.Got.Lexeme, e.Got.Line())
	}
	return fmt.Sprintf("expected %s, got %q at line %d", e.Expected, e.Got.Lexeme, e.Got.Line())
}

// IOError wraps a read/write failure from the input or output stream.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string { return "io error: " + e.Cause.Error() }
func (e *IOError) Unwrap() error { return e.Cause }

func newParseError(expected string, got token.Token) error {
	return errors.WithStack(&ParseError{Expected: expected, Got: got})
}
