package compiler

import (
	"github.com/libklein/jackc/internal/symtab"
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
)

type subroutineKind string

const (
	constructorKind subroutineKind = "constructor"
	functionKind    subroutineKind = "function"
	methodKind      subroutineKind = "method"
)

// compileSubroutineDec:
//
//	('constructor'|'function'|'method') ('void'|type) subroutineName
//	'(' parameterList ')' subroutineBody
func (c *Compiler) compileSubroutineDec() {
	kind := subroutineKind(c.peek().Lexeme)
	c.symbols.StartSubroutine()

	if kind == methodKind {
		c.symbols.Define("this", c.symbols.ClassName, symtab.Argument)
	}

	c.advance() // constructor|function|method
	c.advance() // void|type return type: not needed for code generation

	name := c.expectIdentifier()
	c.advance()

	c.consume("(")
	if !token.IsTerminal(c.peek(), ")") {
		c.compileParameterList()
	}
	c.consume(")")

	c.compileSubroutineBody(name, kind)
}

// compileParameterList: ((type varName) (',' type varName)*)?
func (c *Compiler) compileParameterList() {
	for {
		typeName := c.expectType()
		c.advance()
		name := c.expectIdentifier()
		c.advance()
		c.symbols.Define(name, typeName, symtab.Argument)

		if token.IsTerminal(c.peek(), ",") {
			c.consume(",")
			continue
		}
		break
	}
}

// compileSubroutineBody: '{' varDec* statements '}'
//
// Emits the function header once the local count is known, followed by the
// subroutine's prologue (constructor: allocate and anchor `this`; method:
// anchor `this` to argument 0; function: nothing), then the statements.
func (c *Compiler) compileSubroutineBody(name string, kind subroutineKind) {
	c.consume("{")

	var nLocals token.MachineWord
	for token.IsTerminal(c.peek(), "var") {
		c.consume("var")
		nLocals += c.compileVarSequence(symtab.Local)
	}

	c.out.Function(c.symbols.ClassName+"."+name, nLocals)

	switch kind {
	case constructorKind:
		nFields := c.symbols.VarCount(symtab.Field)
		c.out.Push(vmcode.Constant, nFields)
		c.out.Call("Memory.alloc", 1)
		c.out.Pop(vmcode.Pointer, 0)
	case methodKind:
		c.out.Push(vmcode.Argument, 0)
		c.out.Pop(vmcode.Pointer, 0)
	case functionKind:
		// No prologue: a plain function establishes no `this`.
	}

	c.compileStatements()
	c.consume("}")
}
