package slot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/gorgo/lr"
)

// ErrNoSuchSlot is returned if a slot lookup does not match any alternate of the grammar.
var ErrNoSuchSlot = errors.New("no such grammar slot")

// ErrEmptyGrammar is returned if a table is requested for a grammar without rules.
var ErrEmptyGrammar = errors.New("grammar has no rules")

// Rule is a grammar production in the form the slot table needs: a head and a body.
// An ε-alternate has an empty body.
type Rule struct {
	Head NT
	Body Symbols
}

// Table holds all the slots of a grammar. A table is immutable after creation
// and may be shared between parses.
type Table struct {
	start     NT
	alts      map[NT][]*alternate
	slots     []slotEntry
	index     map[Index]Label
	terminals []T
}

type alternate struct {
	rule  int     // ordinal of the rule within the grammar
	head  NT      // left hand side
	alt   int     // ordinal among the alternates of head
	body  Symbols // right hand side
	first int     // slot number of position 0
}

type slotEntry struct {
	alt *alternate
	pos int
}

// Index identifies a slot by non-terminal, alternate and dot position.
type Index struct {
	NT  NT
	Alt int
	Pos int
}

// NewTable creates the slot table for a grammar built with gorgo's
// GrammarBuilder. The builder places its wrapper rule S' → S #eof at rule 0;
// it is not part of the table. The start symbol is the head of rule 1.
func NewTable(g *lr.Grammar) (*Table, error) {
	if g == nil {
		return nil, errors.New("cannot create slot table for nil grammar")
	}
	rules := make([]Rule, 0, g.Size())
	for i := 1; i < g.Size(); i++ {
		r := g.Rule(i)
		if r == nil || r.LHS == nil {
			continue
		}
		body := make(Symbols, 0, len(r.RHS()))
		for _, sym := range r.RHS() {
			if isEpsilon(sym) {
				continue
			}
			if sym.IsTerminal() {
				body = append(body, T{Name: sym.Name, Value: sym.Value})
			} else {
				body = append(body, NT(sym.Name))
			}
		}
		rules = append(rules, Rule{Head: NT(r.LHS.Name), Body: body})
	}
	return FromRules(rules...)
}

// FromRules creates a slot table from a list of rules. The head of the first
// rule is the start symbol.
func FromRules(rules ...Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyGrammar
	}
	tbl := &Table{
		start: rules[0].Head,
		alts:  make(map[NT][]*alternate),
		index: make(map[Index]Label),
	}
	seen := make(map[T]bool)
	for n, r := range rules {
		a := &alternate{
			rule:  n,
			head:  r.Head,
			alt:   len(tbl.alts[r.Head]),
			body:  r.Body,
			first: len(tbl.slots),
		}
		tbl.alts[r.Head] = append(tbl.alts[r.Head], a)
		for pos := 0; pos <= len(r.Body); pos++ {
			l := Label{table: tbl, id: len(tbl.slots)}
			tbl.slots = append(tbl.slots, slotEntry{alt: a, pos: pos})
			tbl.index[Index{NT: r.Head, Alt: a.alt, Pos: pos}] = l
		}
		for _, sym := range r.Body {
			if t, ok := sym.(T); ok && !seen[t] {
				seen[t] = true
				tbl.terminals = append(tbl.terminals, t)
			}
		}
	}
	tracer().Debugf("slot table with %d rules and %d slots", len(rules), len(tbl.slots))
	return tbl, nil
}

func isEpsilon(sym *lr.Symbol) bool {
	switch sym.Name {
	case "_eps", "ε", "ϵ":
		return true
	}
	return false
}

// Start returns the start symbol of the grammar.
func (tbl *Table) Start() NT {
	return tbl.start
}

// Size returns the number of slots in the table.
func (tbl *Table) Size() int {
	return len(tbl.slots)
}

// Alternates returns the number of alternates of nt.
func (tbl *Table) Alternates(nt NT) int {
	return len(tbl.alts[nt])
}

// Terminals returns the terminals of the grammar in order of their first appearance.
func (tbl *Table) Terminals() []T {
	return tbl.terminals
}

// Label returns the slot for position pos of alternate alt of nt.
func (tbl *Table) Label(nt NT, alt, pos int) (Label, error) {
	l, ok := tbl.index[Index{NT: nt, Alt: alt, Pos: pos}]
	if !ok {
		return Label{}, fmt.Errorf("%w: %s alternate %d position %d", ErrNoSuchSlot, nt, alt, pos)
	}
	return l, nil
}

// MustLabel is like Label, but panics if the slot does not exist.
func (tbl *Table) MustLabel(nt NT, alt, pos int) Label {
	l, err := tbl.Label(nt, alt, pos)
	if err != nil {
		panic(err)
	}
	return l
}

// EoR returns the end-of-rule slot of alternate alt of nt.
func (tbl *Table) EoR(nt NT, alt int) (Label, error) {
	alts := tbl.alts[nt]
	if alt < 0 || alt >= len(alts) {
		return Label{}, fmt.Errorf("%w: %s has no alternate %d", ErrNoSuchSlot, nt, alt)
	}
	return tbl.Label(nt, alt, len(alts[alt].body))
}

// --- Labels ----------------------------------------------------------------

// Label designates a grammar slot. Labels are small comparable values and may
// be used as map keys. The zero Label is invalid.
type Label struct {
	table *Table
	id    int
}

func (l Label) entry() slotEntry {
	return l.table.slots[l.id]
}

// IsValid is false for the zero Label.
func (l Label) IsValid() bool {
	return l.table != nil
}

// Head returns the left hand side non-terminal of the slot's alternate.
func (l Label) Head() NT {
	return l.entry().alt.head
}

// EoR is true if the dot is behind the last symbol of the alternate.
func (l Label) EoR() bool {
	e := l.entry()
	return e.pos == len(e.alt.body)
}

// Pos returns the position of the dot.
func (l Label) Pos() int {
	return l.entry().pos
}

// Alternate returns the ordinal of the slot's alternate among the alternates of its head.
func (l Label) Alternate() int {
	return l.entry().alt.alt
}

// Rule returns the ordinal of the slot's rule within the grammar.
func (l Label) Rule() int {
	return l.entry().alt.rule
}

// Symbols returns the complete right hand side of the slot's alternate.
// Clients must not modify the result.
func (l Label) Symbols() Symbols {
	return l.entry().alt.body
}

// Prefix returns the symbols in front of the dot.
func (l Label) Prefix() Symbols {
	e := l.entry()
	return e.alt.body[:e.pos]
}

// Index returns the (non-terminal, alternate, position) triple of l.
func (l Label) Index() Index {
	e := l.entry()
	return Index{NT: e.alt.head, Alt: e.alt.alt, Pos: e.pos}
}

// WithPos returns the slot at position pos within the same alternate.
func (l Label) WithPos(pos int) (Label, error) {
	e := l.entry()
	return l.table.Label(e.alt.head, e.alt.alt, pos)
}

func (l Label) String() string {
	if !l.IsValid() {
		return "<invalid slot>"
	}
	e := l.entry()
	var sb strings.Builder
	sb.WriteString(string(e.alt.head))
	sb.WriteString(" :")
	for i, sym := range e.alt.body {
		if i == e.pos {
			sb.WriteString(" •")
		}
		sb.WriteByte(' ')
		sb.WriteString(sym.String())
	}
	if e.pos == len(e.alt.body) {
		sb.WriteString(" •")
	}
	return sb.String()
}
