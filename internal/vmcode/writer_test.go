package vmcode

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriter_EmitsOneInstructionPerLine(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Push(Constant, 7)
	w.Push(Argument, 1)
	w.Arithmetic(Add)
	w.Call("Math.multiply", 2)
	w.Pop(Local, 0)
	w.Label("WHILE_EXP0")
	w.Goto("WHILE_EXP0")
	w.IfGoto("WHILE_END0")
	w.Function("Main.main", 3)
	w.Return()
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := "push constant 7\n" +
		"push argument 1\n" +
		"add\n" +
		"call Math.multiply 2\n" +
		"pop local 0\n" +
		"label WHILE_EXP0\n" +
		"goto WHILE_EXP0\n" +
		"if-goto WHILE_END0\n" +
		"function Main.main 3\n" +
		"return\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("emitted VM code mismatch (-want +got):\n%s", diff)
	}
}

func TestSequentialLabelMaker_IsDeterministicAndUnique(t *testing.T) {
	m := NewSequentialLabelMaker()
	a := m.Create("IF")
	b := m.Create("IF")
	if a == b {
		t.Fatalf("expected distinct labels, got %q twice", a)
	}
	if a != "IF0" || b != "IF1" {
		t.Fatalf("unexpected labels: %q, %q", a, b)
	}
}

func TestRandomLabelMaker_Unique(t *testing.T) {
	m := NewRandomLabelMaker()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		l := m.Create("L")
		if seen[l] {
			t.Fatalf("duplicate label generated: %q", l)
		}
		seen[l] = true
	}
}
