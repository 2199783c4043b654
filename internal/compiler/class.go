package compiler

import (
	"github.com/libklein/jackc/internal/symtab"
	"github.com/libklein/jackc/internal/token"
)

// compileClass: 'class' className '{' classVarDec* subroutineDec* '}'
func (c *Compiler) compileClass() {
	c.consume("class")

	name := c.expectIdentifier()
	c.symbols.StartClass(name)
	c.advance()

	c.consume("{")
	for token.IsTerminal(c.peek(), "static", "field") {
		c.compileClassVarDec()
	}
	for token.IsTerminal(c.peek(), "constructor", "function", "method") {
		c.compileSubroutineDec()
	}
	c.consume("}")

	if c.tokens.HasMore() {
		panic(newParseError("end of file after class body", c.peek()))
	}
}

// compileClassVarDec: ('static'|'field') type varName (',' varName)* ';'
func (c *Compiler) compileClassVarDec() {
	kind := symtab.Static
	if token.IsTerminal(c.peek(), "field") {
		kind = symtab.Field
	}
	c.advance()
	c.compileVarSequence(kind)
}

// compileVarSequence: type varName (',' varName)* ';'
// Shared by classVarDec (static/field) and varDec (var), since both are a
// type followed by one or more comma-separated names of the same kind.
func (c *Compiler) compileVarSequence(kind symtab.Kind) (count token.MachineWord) {
	typeName := c.expectType()
	c.advance()

	for {
		name := c.expectIdentifier()
		c.advance()
		c.symbols.Define(name, typeName, kind)
		count++

		if token.IsTerminal(c.peek(), ",") {
			c.consume(",")
			continue
		}
		break
	}
	c.consume(";")
	return count
}

func (c *Compiler) expectIdentifier() string {
	tok := c.peek()
	if !tok.Is(token.Ident) {
		panic(newParseError("an identifier", tok))
	}
	return tok.Lexeme
}

func (c *Compiler) expectType() string {
	tok := c.peek()
	if token.IsTerminal(tok, "int", "char", "boolean") {
		return tok.Lexeme
	}
	if tok.Is(token.Ident) {
		return tok.Lexeme
	}
	panic(newParseError("a type", tok))
}
