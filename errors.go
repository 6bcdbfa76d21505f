package bsr

import (
	"errors"
	"fmt"
)

// Kind classifies errors of BSR queries.
type Kind int

const (
	// Structural errors signal an inconsistency between grammar, parser and
	// BSR set, or a query for a symbol of the wrong type. They are program bugs.
	Structural Kind = iota
	// Ambiguous is reported if a single derivation is requested, but more
	// than one exists.
	Ambiguous
	// NoParse is reported if no derivation of the start symbol spans the input.
	NoParse
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Ambiguous:
		return "ambiguous"
	case NoParse:
		return "no parse"
	}
	return "<unknown>"
}

// Error is the error type of BSR queries. Line and Col are 0 if no input
// position applies.
type Error struct {
	Kind Kind
	Msg  string
	Line int
	Col  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error in BSR: %s at line %d col %d", e.Msg, e.Line, e.Col)
	}
	return "error in BSR: " + e.Msg
}

// IsAmbiguity is true if err is an *Error of kind Ambiguous.
func IsAmbiguity(err error) bool {
	return kindOf(err) == Ambiguous
}

// IsNoParse is true if err is an *Error of kind NoParse.
func IsNoParse(err error) bool {
	return kindOf(err) == NoParse
}

// IsStructural is true if err is an *Error of kind Structural.
func IsStructural(err error) bool {
	return kindOf(err) == Structural
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return -1
}

// failf creates an error without position information.
func (s *Set) failf(kind Kind, format string, args ...interface{}) *Error {
	err := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	tracer().Errorf("%s", err)
	return err
}

// failAt creates an error located at input token tok.
func (s *Set) failAt(kind Kind, tok int, format string, args ...interface{}) *Error {
	err := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	err.Line, err.Col = s.getLineColumn(tok)
	tracer().Errorf("%s", err)
	return err
}
