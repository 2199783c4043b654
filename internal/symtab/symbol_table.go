package symtab

import (
	"github.com/libklein/jackc/internal/token"
	"github.com/pkg/errors"
)

// ErrNotDefined is wrapped into the error returned by lookups that miss in
// both scopes.
type ErrNotDefined struct {
	Name string
}

func (e *ErrNotDefined) Error() string {
	return "no symbol named " + e.Name + " declared in this scope"
}

// Table holds the class-scope and subroutine-scope symbols for the class
// currently being compiled. Its lifetime spans one compilation unit; it is
// never shared across goroutines, since each concurrently compiled class
// owns its own Table.
type Table struct {
	ClassName string

	class      map[string]Entry
	subroutine map[string]Entry
}

// New returns an empty table, ready for a class header to be parsed.
func New() *Table {
	return &Table{
		class:      make(map[string]Entry),
		subroutine: make(map[string]Entry),
	}
}

// StartSubroutine clears the subroutine-scope table. Called on entry to
// every constructor, function, and method.
func (t *Table) StartSubroutine() {
	t.subroutine = make(map[string]Entry)
}

// StartClass resets the class-scope table and records the class name,
// which is held until the class compiles to completion.
func (t *Table) StartClass(className string) {
	t.class = make(map[string]Entry)
	t.ClassName = className
}

func scopeFor(kind Kind) (Kind, bool) {
	switch kind {
	case Static, Field:
		return kind, true // class scope
	case Argument, Local:
		return kind, false // subroutine scope
	default:
		return kind, false
	}
}

// Define registers name in the scope implied by kind, assigning it the next
// index for that kind in that scope. Redefining an existing name overwrites
// its entry; duplicate declarations are not rejected, here or by the parser.
func (t *Table) Define(name, typeName string, kind Kind) Entry {
	entry := Entry{Type: typeName, Kind: kind, Index: t.count(kind)}
	if _, classScope := scopeFor(kind); classScope {
		t.class[name] = entry
	} else {
		t.subroutine[name] = entry
	}
	return entry
}

func (t *Table) count(kind Kind) token.MachineWord {
	_, classScope := scopeFor(kind)
	table := t.subroutine
	if classScope {
		table = t.class
	}
	var n token.MachineWord
	for _, e := range table {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// VarCount returns the number of symbols of the given kind declared so far
// in the scope that owns that kind (class scope for Static/Field,
// subroutine scope for Argument/Local).
func (t *Table) VarCount(kind Kind) token.MachineWord {
	return t.count(kind)
}

// lookup finds name, trying subroutine scope first, then class scope.
func (t *Table) lookup(name string) (Entry, error) {
	if e, ok := t.subroutine[name]; ok {
		return e, nil
	}
	if e, ok := t.class[name]; ok {
		return e, nil
	}
	return Entry{}, errors.WithStack(&ErrNotDefined{Name: name})
}

// KindOf, TypeOf, and IndexOf all perform the same subroutine-first lookup;
// each is a narrow accessor over it for call sites that only need one
// field of the Entry.

func (t *Table) KindOf(name string) (Kind, error) {
	e, err := t.lookup(name)
	return e.Kind, err
}

func (t *Table) TypeOf(name string) (string, error) {
	e, err := t.lookup(name)
	return e.Type, err
}

func (t *Table) IndexOf(name string) (token.MachineWord, error) {
	e, err := t.lookup(name)
	return e.Index, err
}

// Lookup returns the full Entry for name.
func (t *Table) Lookup(name string) (Entry, error) {
	return t.lookup(name)
}
