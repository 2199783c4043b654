package compiler

import (
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
)

var binaryOps = map[string]vmcode.Op{
	"+": vmcode.Add,
	"-": vmcode.Sub,
	"=": vmcode.Eq,
	">": vmcode.Gt,
	"<": vmcode.Lt,
	"&": vmcode.And,
	"|": vmcode.Or,
}

// compileExpression: term (op term)*
//
// Lowering is strictly left-to-right with no operator precedence: after
// each right-hand term is compiled, its operator's instruction is emitted
// immediately, so `a+b*c` lowers as push a; push b; push c; call
// Math.multiply 2; add, not the arithmetically "expected" grouping.
func (c *Compiler) compileExpression() {
	c.compileTerm()

	for {
		tok := c.peek()
		switch tok.Lexeme {
		case "*":
			c.advance()
			c.compileTerm()
			c.out.Call("Math.multiply", 2)
		case "/":
			c.advance()
			c.compileTerm()
			c.out.Call("Math.divide", 2)
		default:
			op, ok := binaryOps[tok.Lexeme]
			if !ok {
				return
			}
			c.advance()
			c.compileTerm()
			c.out.Arithmetic(op)
		}
	}
}

// compileExpressionList: (expression (',' expression)*)?
// Returns the number of expressions compiled.
func (c *Compiler) compileExpressionList() token.MachineWord {
	if token.IsTerminal(c.peek(), ")") {
		return 0
	}
	var n token.MachineWord
	c.compileExpression()
	n++
	for token.IsTerminal(c.peek(), ",") {
		c.consume(",")
		c.compileExpression()
		n++
	}
	return n
}

// compileTerm dispatches on the leading token of a term:
//
//	integerConstant | stringConstant | keywordConstant | varName |
//	varName '[' expression ']' | subroutineCall | '(' expression ')' |
//	unaryOp term
func (c *Compiler) compileTerm() {
	tok := c.peek()

	switch {
	case tok.Is(token.IntConst):
		c.out.Push(vmcode.Constant, tok.Int())
		c.advance()

	case tok.Is(token.StrConst):
		c.compileStringConstant(tok.Lexeme)
		c.advance()

	case tok.Is(token.Keyword):
		c.compileKeywordConstant(tok)
		c.advance()

	case token.IsTerminal(tok, "("):
		c.consume("(")
		c.compileExpression()
		c.consume(")")

	case token.IsTerminal(tok, "-"):
		c.advance()
		c.compileTerm()
		c.out.Arithmetic(vmcode.Neg)

	case token.IsTerminal(tok, "~"):
		c.advance()
		c.compileTerm()
		c.out.Arithmetic(vmcode.Not)

	case tok.Is(token.Ident):
		c.compileIdentifierTerm(tok)

	default:
		panic(newParseError("a term", tok))
	}
}

// compileStringConstant lowers a string literal to the canonical
// String.new / String.appendChar call sequence: one `push constant <len>`,
// one `call String.new 1`, then one `push constant <codepoint>` plus
// `call String.appendChar 2` per character, in ascending source order.
// Each appendChar call returns the same string, which becomes the
// receiver for the next character.
func (c *Compiler) compileStringConstant(s string) {
	runes := []rune(s)
	c.out.Push(vmcode.Constant, token.MachineWord(len(runes)))
	c.out.Call("String.new", 1)
	for _, r := range runes {
		c.out.Push(vmcode.Constant, token.MachineWord(r))
		c.out.Call("String.appendChar", 2)
	}
}

func (c *Compiler) compileKeywordConstant(tok token.Token) {
	switch tok.Lexeme {
	case "true":
		c.out.Push(vmcode.Constant, 0)
		c.out.Arithmetic(vmcode.Not)
	case "false", "null":
		c.out.Push(vmcode.Constant, 0)
	case "this":
		c.out.Push(vmcode.Pointer, 0)
	default:
		panic(newParseError("a keyword constant", tok))
	}
}

// compileIdentifierTerm resolves the array/call/variable-read ambiguity
// using the tokenizer's two-token lookahead: the decision (array index,
// subroutine call, or bare variable read) is made from the token after
// name before name itself is even consumed.
func (c *Compiler) compileIdentifierTerm(nameTok token.Token) {
	lookahead := c.tokens.PeekSecond().Lexeme
	name := nameTok.Lexeme
	c.advance() // consume the identifier itself

	switch lookahead {
	case "[":
		c.consume("[")
		c.compileArrayBaseAddress(name)
		c.consume("]")
		c.out.Pop(vmcode.Pointer, 1)
		c.out.Push(vmcode.That, 0)
	case "(", ".":
		c.compileCallWithName(name)
	default:
		seg, idx := c.variableAccess(name)
		c.out.Push(seg, idx)
	}
}
