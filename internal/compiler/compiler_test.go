package compiler

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/libklein/jackc/internal/symtab"
	"github.com/libklein/jackc/internal/token"
	"github.com/libklein/jackc/internal/vmcode"
	"github.com/stretchr/testify/require"
)

// newTestCompiler builds a Compiler over src with a deterministic label
// maker, exposing the internal struct for whitebox production tests.
func newTestCompiler(t *testing.T, src string) (*Compiler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	tz := token.New(strings.NewReader(src))
	out := vmcode.New(&buf)
	c := New(tz, out, vmcode.NewSequentialLabelMaker())
	return c, &buf
}

func flush(t *testing.T, c *Compiler, buf *bytes.Buffer) string {
	t.Helper()
	require.NoError(t, c.out.Flush())
	return buf.String()
}

// compileClassSource compiles a full class and returns the emitted VM text.
func compileClassSource(t *testing.T, src string) string {
	t.Helper()
	c, buf := newTestCompiler(t, src)
	err := c.Compile()
	require.NoError(t, err)
	return flush(t, c, buf)
}

func TestEndToEnd_VoidReturn(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				return;
			}
		}`)
	want := "function Main.f 0\n" +
		"push constant 0\n" +
		"return\n"
	assertSuffix(t, got, want)
}

func TestEndToEnd_ReturnMultipliedArgument(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function int f(int mask) {
				return mask * 2;
			}
		}`)
	want := "function Main.f 0\n" +
		"push argument 0\n" +
		"push constant 2\n" +
		"call Math.multiply 2\n" +
		"return\n"
	assertSuffix(t, got, want)
}

func TestEndToEnd_DoStaticCall(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				do Output.printInt(100);
				return;
			}
		}`)
	want := "push constant 100\n" +
		"call Output.printInt 1\n" +
		"pop temp 0\n"
	assertContains(t, got, want)
}

func TestEndToEnd_ImplicitMethodCall(t *testing.T) {
	got := compileClassSource(t, `
		class Output {
			method void f() {
				do printInt(100);
				return;
			}
		}`)
	want := "push pointer 0\n" +
		"push constant 100\n" +
		"call Output.printInt 2\n" +
		"pop temp 0\n"
	assertContains(t, got, want)
}

func TestEndToEnd_ConstructorAllocatesAndAnchorsThis(t *testing.T) {
	got := compileClassSource(t, `
		class SquareGame {
			field Square square;
			field int direction;

			constructor SquareGame new() {
				let square = Square.new(0, 0, 30);
				let direction = 0;
				return this;
			}
		}`)
	want := "function SquareGame.new 0\n" +
		"push constant 2\n" +
		"call Memory.alloc 1\n" +
		"pop pointer 0\n" +
		"push constant 0\n" +
		"push constant 0\n" +
		"push constant 30\n" +
		"call Square.new 3\n" +
		"pop this 0\n" +
		"push constant 0\n" +
		"pop this 1\n" +
		"push pointer 0\n" +
		"return\n"
	assertSuffix(t, got, want)
}

func TestEndToEnd_ArrayReadOnRHS(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				var int a, i, sum;
				let sum = sum + a[i];
				return;
			}
		}`)
	want := "push local 2\n" +
		"push local 0\n" +
		"push local 1\n" +
		"add\n" +
		"pop pointer 1\n" +
		"push that 0\n" +
		"add\n" +
		"pop local 2\n"
	assertContains(t, got, want)
}

func TestStringConstant_EmitsNewAndAppendCharPerCharacter(t *testing.T) {
	c, buf := newTestCompiler(t, `"HI"`)
	c.symbols.StartClass("Test")
	c.symbols.StartSubroutine()
	c.compileExpression()
	got := flush(t, c, buf)
	want := "push constant 2\n" +
		"call String.new 1\n" +
		"push constant 72\n" +
		"call String.appendChar 2\n" +
		"push constant 73\n" +
		"call String.appendChar 2\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("string constant lowering mismatch (-want +got):\n%s", diff)
	}
}

func TestExpression_NoOperatorPrecedence(t *testing.T) {
	c, buf := newTestCompiler(t, `a+b*c`)
	c.symbols.StartClass("Test")
	c.symbols.StartSubroutine()
	c.symbols.Define("a", "int", symtab.Argument)
	c.symbols.Define("b", "int", symtab.Argument)
	c.symbols.Define("c", "int", symtab.Argument)
	c.compileExpression()
	got := flush(t, c, buf)
	want := "push argument 0\n" +
		"push argument 1\n" +
		"push argument 2\n" +
		"call Math.multiply 2\n" +
		"add\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expression lowering mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordConstants(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"true", "push constant 0\nnot\n"},
		{"false", "push constant 0\n"},
		{"null", "push constant 0\n"},
		{"this", "push pointer 0\n"},
	} {
		c, buf := newTestCompiler(t, tc.src)
		c.symbols.StartClass("Test")
		c.symbols.StartSubroutine()
		c.compileExpression()
		got := flush(t, c, buf)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("keyword constant %q mismatch (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestIf_WithoutElse_SingleLabel(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				if (true) {
					do Output.printInt(1);
				}
				return;
			}
		}`)
	assertContains(t, got, "if-goto IF_FALSE0\n")
	assertContains(t, got, "label IF_FALSE0\n")
	assertNotContains(t, got, "IF_END")
}

func TestIf_WithElse_TwoLabels(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				if (true) {
					do Output.printInt(1);
				} else {
					do Output.printInt(2);
				}
				return;
			}
		}`)
	assertContains(t, got, "goto IF_END0\n")
	assertContains(t, got, "label IF_FALSE0\n")
	assertContains(t, got, "label IF_END0\n")
}

func TestWhile_LabelsAndJumps(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				while (true) {
					do Output.printInt(1);
				}
				return;
			}
		}`)
	assertContains(t, got, "label WHILE_TOP0\n")
	assertContains(t, got, "if-goto WHILE_END0\n")
	assertContains(t, got, "goto WHILE_TOP0\n")
	assertContains(t, got, "label WHILE_END0\n")
}

func TestMethodCallOnVariable_PushesReceiverFirst(t *testing.T) {
	got := compileClassSource(t, `
		class Main {
			function void f() {
				var Square square;
				do square.dispose();
				return;
			}
		}`)
	want := "push local 0\n" +
		"call Square.dispose 1\n" +
		"pop temp 0\n"
	assertContains(t, got, want)
}

func TestUndefinedIdentifier_IsFatalParseError(t *testing.T) {
	c, _ := newTestCompiler(t, `
		class Main {
			function void f() {
				let x = 1;
				return;
			}
		}`)
	err := c.Compile()
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestMalformedClass_MissingClosingBrace(t *testing.T) {
	c, _ := newTestCompiler(t, `class Main { `)
	err := c.Compile()
	require.Error(t, err)
}

// failingTokenSource reports a read failure up front, as a real Tokenizer
// would if its underlying reader returned an error other than EOF.
type failingTokenSource struct {
	cause error
}

func (f *failingTokenSource) HasMore() bool          { return false }
func (f *failingTokenSource) Peek() token.Token       { return token.Zero }
func (f *failingTokenSource) PeekSecond() token.Token { return token.Zero }
func (f *failingTokenSource) Advance() token.Token    { return token.Zero }
func (f *failingTokenSource) Err() error              { return f.cause }

func TestCompile_ReadFailureSurfacesAsIOError(t *testing.T) {
	var buf bytes.Buffer
	src := &failingTokenSource{cause: &token.ReadError{Cause: errors.New("disk on fire")}}
	c := New(src, vmcode.New(&buf), vmcode.NewSequentialLabelMaker())

	err := c.Compile()
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestCompile_GrammarFailureSurfacesAsLexError(t *testing.T) {
	var buf bytes.Buffer
	src := &failingTokenSource{cause: errors.New("unexpected character")}
	c := New(src, vmcode.New(&buf), vmcode.NewSequentialLabelMaker())

	err := c.Compile()
	require.Error(t, err)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

// --- helpers ---------------------------------------------------------------

func assertSuffix(t *testing.T, got, want string) {
	t.Helper()
	if !strings.HasSuffix(got, want) {
		t.Errorf("expected output to end with:\n%s\ngot:\n%s", want, got)
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain:\n%s\ngot:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, want string) {
	t.Helper()
	if strings.Contains(got, want) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", want, got)
	}
}
