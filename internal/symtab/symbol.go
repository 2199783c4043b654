// Package symtab implements Jack's two-level symbol table: a class-scope
// table (static/field) and a subroutine-scope table (argument/local), with
// subroutine-first lookup.
package symtab

import "github.com/libklein/jackc/internal/token"

// Kind is the closed set of variable roles a symbol can have.
type Kind string

const (
	Static   Kind = "static"
	Field    Kind = "field"
	Argument Kind = "argument"
	Local    Kind = "local"
)

// Entry is one declared symbol: its Jack type, its Kind, and its per-kind
// index, assigned contiguously from 0 in declaration order.
type Entry struct {
	Type  string
	Kind  Kind
	Index token.MachineWord
}
