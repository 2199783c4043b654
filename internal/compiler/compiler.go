// Package compiler implements the recursive-descent parser and VM code
// generator for Jack. There is no separate AST: each grammar production is
// a method that consumes tokens and emits VM instructions as it goes.
package compiler

import (
	"fmt"

	"github.com/libklein/jackc/internal/symtab"
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
	"github.com/pkg/errors"
)

// TokenSource is the subset of *token.Tokenizer the compiler depends on,
// so tests can substitute a fixed token stream.
type TokenSource interface {
	HasMore() bool
	Peek() token.Token
	PeekSecond() token.Token
	Advance() token.Token
	Err() error
}

// Compiler holds the mutable state of a single compilation unit: the
// token source, the symbol tables, the VM output sink, the label
// generator, and the class name currently being compiled. None of this is
// shared across compilation units; callers construct a fresh Compiler per
// class.
type Compiler struct {
	tokens  TokenSource
	symbols *symtab.Table
	out     *vmcode.Writer
	labels  vmcode.LabelMaker
}

// New builds a Compiler. labels may be a *vmcode.SequentialLabelMaker for
// deterministic tests, or vmcode.NewRandomLabelMaker() for production use.
func New(tokens TokenSource, out *vmcode.Writer, labels vmcode.LabelMaker) *Compiler {
	return &Compiler{
		tokens:  tokens,
		symbols: symtab.New(),
		out:     out,
		labels:  labels,
	}
}

// Compile parses and lowers exactly one class, writing VM code to the
// Compiler's output writer. A parse or lex failure aborts the compile and
// returns a non-nil error; the caller is responsible for discarding any
// partially written output.
func (c *Compiler) Compile() (err error) {
	defer func() {
		if r := recover(); r != nil {
			// A token source that failed mid-class hands the parser Zero
			// tokens; report the token source's error, not the parse error
			// that followed from it.
			if tokErr := c.tokens.Err(); tokErr != nil {
				err = wrapTokenError(tokErr)
				return
			}
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			err = errors.Errorf("%v", r)
		}
	}()

	if tokErr := c.tokens.Err(); tokErr != nil {
		return wrapTokenError(tokErr)
	}
	if !c.tokens.HasMore() {
		return newParseError("a class declaration", token.Zero)
	}

	c.compileClass()

	if tokErr := c.tokens.Err(); tokErr != nil {
		return wrapTokenError(tokErr)
	}
	return nil
}

// wrapTokenError classifies a fatal error reported by the token source:
// a failure to read the underlying source becomes an IOError, anything
// else (malformed input the grammar itself rejects) becomes a LexError.
func wrapTokenError(tokErr error) error {
	var readErr *token.ReadError
	if errors.As(tokErr, &readErr) {
		return &IOError{Cause: tokErr}
	}
	return &LexError{Cause: tokErr}
}

// --- token plumbing -------------------------------------------------------

func (c *Compiler) peek() token.Token {
	return c.tokens.Peek()
}

// advance consumes and returns the next token, panicking with a ParseError
// if the source is exhausted.
func (c *Compiler) advance() token.Token {
	if !c.tokens.HasMore() {
		panic(newParseError("more input", token.Zero))
	}
	return c.tokens.Advance()
}

// consume, with no arguments, advances past whatever is next. With one or
// more terminals, it requires the next token's lexeme to equal one of them
// (advancing past each in sequence) and panics with a ParseError otherwise.
func (c *Compiler) consume(expected ...string) {
	if len(expected) == 0 {
		c.advance()
		return
	}
	for _, want := range expected {
		if !token.IsTerminal(c.peek(), want) {
			panic(newParseError(fmt.Sprintf("%q", want), c.peek()))
		}
		c.advance()
	}
}

// segmentFor maps a symbol Kind to the VM segment that stores it.
func segmentFor(kind symtab.Kind) vmcode.Segment {
	switch kind {
	case symtab.Static:
		return vmcode.Static
	case symtab.Field:
		return vmcode.This
	case symtab.Argument:
		return vmcode.Argument
	case symtab.Local:
		return vmcode.Local
	default:
		panic(errors.Errorf("compiler: unknown symbol kind %q", kind))
	}
}

// variableAccess resolves name to the (segment, index) pair code
// generation needs to read or write it. An unresolvable name is promoted
// to a ParseError rather than silently emitting broken VM code.
func (c *Compiler) variableAccess(name string) (vmcode.Segment, token.MachineWord) {
	entry, err := c.symbols.Lookup(name)
	if err != nil {
		panic(errors.WithMessagef(
			newParseError("a declared variable", token.New(token.Ident, name, 0)),
			"undefined identifier %q", name))
	}
	return segmentFor(entry.Kind), entry.Index
}
