package slot

import (
	"strings"
)

// Symbol is a grammar symbol, either a non-terminal (type NT) or a
// terminal (type T).
type Symbol interface {
	IsNonTerminal() bool
	String() string
}

// NT is a non-terminal symbol, identified by its name.
type NT string

// IsNonTerminal is part of interface Symbol.
func (nt NT) IsNonTerminal() bool {
	return true
}

func (nt NT) String() string {
	return string(nt)
}

// T is a terminal symbol. Value is the token value the scanner reports for it.
type T struct {
	Name  string
	Value int
}

// IsNonTerminal is part of interface Symbol.
func (t T) IsNonTerminal() bool {
	return false
}

func (t T) String() string {
	return "'" + t.Name + "'"
}

// Symbols is a sequence of grammar symbols, usually the right hand side of
// an alternate or a prefix of it.
type Symbols []Symbol

// Equal is true if syms and other consist of identical symbols.
func (syms Symbols) Equal(other Symbols) bool {
	if len(syms) != len(other) {
		return false
	}
	for i, s := range syms {
		if s != other[i] {
			return false
		}
	}
	return true
}

func (syms Symbols) String() string {
	var sb strings.Builder
	for i, s := range syms {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// IsNT is true if sym is a non-terminal. sym may be nil.
func IsNT(sym Symbol) bool {
	return sym != nil && sym.IsNonTerminal()
}

// ToNT casts sym to a non-terminal. ok is false if sym is a terminal.
func ToNT(sym Symbol) (nt NT, ok bool) {
	nt, ok = sym.(NT)
	return
}
