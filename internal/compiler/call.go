package compiler

import (
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
)

// compileSubroutineCall parses and lowers a subroutineCall that starts a
// fresh identifier (the `do` statement's only use). Term-position calls
// reach compileCallWithName directly once compileIdentifierTerm has
// already consumed the leading identifier for its own lookahead.
func (c *Compiler) compileSubroutineCall() {
	name := c.expectIdentifier()
	c.advance()
	c.compileCallWithName(name)
}

// compileCallWithName lowers the two subroutineCall shapes:
//
//	name '(' expressionList ')'             -- implicit method on `this`
//	qualifier '.' name '(' expressionList ')'
//
// For the qualified shape, qualifier is first checked against the symbol
// table: if it resolves, the call is a method on that variable's value
// (its runtime value becomes argument 0); otherwise qualifier is a class
// name denoting a function or constructor call with no implicit receiver.
func (c *Compiler) compileCallWithName(name string) {
	if token.IsTerminal(c.peek(), ".") {
		c.consume(".")
		methodName := c.expectIdentifier()
		c.advance()

		var nargs token.MachineWord
		calleeClass := name
		if entry, err := c.symbols.Lookup(name); err == nil {
			seg, idx := segmentFor(entry.Kind), entry.Index
			c.out.Push(seg, idx)
			nargs++
			calleeClass = entry.Type
		}

		c.consume("(")
		nargs += c.compileExpressionList()
		c.consume(")")

		c.out.Call(calleeClass+"."+methodName, nargs)
		return
	}

	// Bare `name(...)`: an implicit method call on the current object.
	c.out.Push(vmcode.Pointer, 0)
	c.consume("(")
	nargs := 1 + c.compileExpressionList()
	c.consume(")")
	c.out.Call(c.symbols.ClassName+"."+name, nargs)
}
