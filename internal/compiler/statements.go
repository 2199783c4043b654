package compiler

import (
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
)

// compileStatements: statement*, dispatching on the leading keyword and
// stopping at the first token that starts none of them (the closing '}').
func (c *Compiler) compileStatements() {
	for {
		switch {
		case token.IsTerminal(c.peek(), "let"):
			c.compileLet()
		case token.IsTerminal(c.peek(), "if"):
			c.compileIf()
		case token.IsTerminal(c.peek(), "while"):
			c.compileWhile()
		case token.IsTerminal(c.peek(), "do"):
			c.compileDo()
		case token.IsTerminal(c.peek(), "return"):
			c.compileReturn()
		default:
			return
		}
	}
}

// compileLet: 'let' varName ('[' expression ']')? '=' expression ';'
//
// Array form needs the temp/pointer dance because evaluating the RHS may
// itself touch `pointer 1` (a nested array read), which would otherwise
// clobber the destination address computed for the LHS.
func (c *Compiler) compileLet() {
	c.consume("let")
	name := c.expectIdentifier()
	c.advance()

	if token.IsTerminal(c.peek(), "[") {
		c.consume("[")
		c.compileArrayBaseAddress(name)
		c.consume("]")

		c.consume("=")
		c.compileExpression()
		c.consume(";")

		c.out.Pop(vmcode.Temp, 0)
		c.out.Pop(vmcode.Pointer, 1)
		c.out.Push(vmcode.Temp, 0)
		c.out.Pop(vmcode.That, 0)
		return
	}

	c.consume("=")
	c.compileExpression()
	c.consume(";")

	seg, idx := c.variableAccess(name)
	c.out.Pop(seg, idx)
}

// compileArrayBaseAddress pushes base(name) + index onto the stack, where
// index is the expression about to be consumed. Used by both `let`'s
// array-assignment target and term's array-read subterm.
func (c *Compiler) compileArrayBaseAddress(name string) {
	seg, idx := c.variableAccess(name)
	c.out.Push(seg, idx)
	c.compileExpression()
	c.out.Arithmetic(vmcode.Add)
}

// compileIf: 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?
func (c *Compiler) compileIf() {
	c.consume("if", "(")
	c.compileExpression()
	c.consume(")")

	elseLabel := c.labels.Create("IF_FALSE")
	endLabel := c.labels.Create("IF_END")

	c.out.Arithmetic(vmcode.Not)
	c.out.IfGoto(elseLabel)

	c.consume("{")
	c.compileStatements()
	c.consume("}")

	if token.IsTerminal(c.peek(), "else") {
		c.out.Goto(endLabel)
		c.out.Label(elseLabel)

		c.consume("else", "{")
		c.compileStatements()
		c.consume("}")

		c.out.Label(endLabel)
	} else {
		c.out.Label(elseLabel)
	}
}

// compileWhile: 'while' '(' expression ')' '{' statements '}'
func (c *Compiler) compileWhile() {
	c.consume("while", "(")

	topLabel := c.labels.Create("WHILE_TOP")
	endLabel := c.labels.Create("WHILE_END")

	c.out.Label(topLabel)
	c.compileExpression()
	c.consume(")")

	c.out.Arithmetic(vmcode.Not)
	c.out.IfGoto(endLabel)

	c.consume("{")
	c.compileStatements()
	c.consume("}")

	c.out.Goto(topLabel)
	c.out.Label(endLabel)
}

// compileDo: 'do' subroutineCall ';'
//
// A call always leaves a value on the stack, even when Jack's caller
// intends to ignore it; `pop temp 0` discards it per the VM's contract
// that temp's contents are undefined between uses.
func (c *Compiler) compileDo() {
	c.consume("do")
	c.compileSubroutineCall()
	c.out.Pop(vmcode.Temp, 0)
	c.consume(";")
}

// compileReturn: 'return' expression? ';'
//
// A void subroutine must still push a dummy value before returning, since
// every VM call is expected to leave exactly one value on the stack.
func (c *Compiler) compileReturn() {
	c.consume("return")
	if !token.IsTerminal(c.peek(), ";") {
		c.compileExpression()
	} else {
		c.out.Push(vmcode.Constant, 0)
	}
	c.consume(";")
	c.out.Return()
}
