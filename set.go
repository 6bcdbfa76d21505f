package bsr

import (
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/bsr/lexer"
	"github.com/npillmayer/bsr/slot"
)

// Lexer is the token stream a Set refers to. *lexer.Lexer implements it.
type Lexer interface {
	Token(i int) *lexer.Token
	GetLineColumnOfToken(i int) (line, col int)
	GetString(lext, rext int) string
}

var _ Lexer = &lexer.Lexer{}

// Set contains the set of Binary Subtree Representations (BSR).
type Set struct {
	slotEntries   map[BSR]struct{}
	ntSlotEntries map[ntSlot][]BSR
	stringEntries map[StringBSR]struct{}
	stringIndex   map[stringKey][]StringBSR
	rightExtent   int
	lex           Lexer
	startSym      slot.NT
	appendDups    bool
	memoize       bool
}

// ntSlot groups all NT-BSRs for a non-terminal over an extent.
type ntSlot struct {
	nt          slot.NT
	leftExtent  int
	rightExtent int
}

// stringKey locates string BSRs for a slot over an extent.
type stringKey struct {
	label       slot.Label
	leftExtent  int
	rightExtent int
}

// Option configures a Set.
type Option func(*Set)

// AppendDuplicates controls whether inserting an NT-BSR already present in
// the set appends it to its NT slot again. Default is false. With true,
// a repeated insertion makes the non-terminal look ambiguous over its extent.
func AppendDuplicates(b bool) Option {
	return func(s *Set) {
		s.appendDups = b
	}
}

// Memoize controls whether IsAmbiguous memoizes results per BSR. Default is
// true. Without memoization, ambiguity checks re-visit shared sub-derivations
// and may take exponential time.
func Memoize(b bool) Option {
	return func(s *Set) {
		s.memoize = b
	}
}

// New returns a new initialized BSR Set. lex may be nil, in which case
// positions are not reported in errors and terminals cannot be retrieved.
func New(startSymbol slot.NT, lex Lexer, opts ...Option) *Set {
	s := &Set{
		slotEntries:   make(map[BSR]struct{}),
		ntSlotEntries: make(map[ntSlot][]BSR),
		stringEntries: make(map[StringBSR]struct{}),
		stringIndex:   make(map[stringKey][]StringBSR),
		lex:           lex,
		startSym:      startSymbol,
		memoize:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add adds a BSR to the set. (i,j) is the extent, k is the pivot.
// Slots at the end of an alternate are recorded as NT-BSRs, slots with at
// least two symbols in front of the dot as string BSRs. Other slots are ignored.
func (s *Set) Add(l slot.Label, i, k, j int) {
	tracer().Debugf("bsr.Add(%s,%d,%d,%d)", l, i, k, j)
	if l.EoR() {
		s.insertNT(BSR{Label: l, leftExtent: i, pivot: k, rightExtent: j})
	} else if l.Pos() > 1 {
		s.insertString(StringBSR{Label: l, leftExtent: i, pivot: k, rightExtent: j})
	}
}

// AddEmpty adds an ε-derivation for slot X : ϵ• at position i.
func (s *Set) AddEmpty(l slot.Label, i int) {
	tracer().Debugf("bsr.AddEmpty(%s,%d)", l, i)
	s.insertNT(BSR{Label: l, leftExtent: i, pivot: i, rightExtent: i})
}

func (s *Set) updateRightExtent(rext int) {
	if rext > s.rightExtent {
		s.rightExtent = rext
	}
}

func (s *Set) insertNT(b BSR) {
	s.updateRightExtent(b.rightExtent)
	if _, exists := s.slotEntries[b]; exists && !s.appendDups {
		return
	}
	s.slotEntries[b] = struct{}{}
	nt := ntSlot{nt: b.Label.Head(), leftExtent: b.leftExtent, rightExtent: b.rightExtent}
	s.ntSlotEntries[nt] = append(s.ntSlotEntries[nt], b)
}

func (s *Set) insertString(str StringBSR) {
	s.updateRightExtent(str.rightExtent)
	if _, exists := s.stringEntries[str]; exists {
		return
	}
	s.stringEntries[str] = struct{}{}
	key := stringKey{label: str.Label, leftExtent: str.leftExtent, rightExtent: str.rightExtent}
	s.stringIndex[key] = append(s.stringIndex[key], str)
}

// GetRightExtent returns the right extent of the BSR set, i.e. the largest
// right extent of all BSRs added.
func (s *Set) GetRightExtent() int {
	return s.rightExtent
}

// StartSymbol returns the start symbol of the grammar.
func (s *Set) StartSymbol() slot.NT {
	return s.startSym
}

// Size returns the number of NT-BSRs in the set.
func (s *Set) Size() int {
	return len(s.slotEntries)
}

// StringSize returns the number of string BSRs in the set.
func (s *Set) StringSize() int {
	return len(s.stringEntries)
}

// Alternate returns the index of the grammar rule alternate of b.
func (s *Set) Alternate(b BSR) int {
	return b.Alternate()
}

// Contain returns true iff the BSR Set contains the NT symbol with left and
// right extent.
func (s *Set) Contain(nt slot.NT, left, right int) bool {
	for e := range s.slotEntries {
		if e.Label.Head() == nt && e.leftExtent == left && e.rightExtent == right {
			return true
		}
	}
	return false
}

// GetAll returns all NT-BSRs, ordered by left extent, then by decreasing
// right extent, then by pivot.
func (s *Set) GetAll() []BSR {
	values := make([]interface{}, 0, len(s.slotEntries))
	for b := range s.slotEntries {
		values = append(values, b)
	}
	return sortedBSRs(values)
}

// GetAllStrings returns all string BSRs deriving symbols over [lext,rext).
func (s *Set) GetAllStrings(symbols slot.Symbols, lext, rext int) []StringBSR {
	var strs []StringBSR
	for str := range s.stringEntries {
		if str.leftExtent == lext && str.rightExtent == rext && str.Symbols().Equal(symbols) {
			strs = append(strs, str)
		}
	}
	return strs
}

// getStrings returns the string BSRs for slot l over [lext,rext), in order of insertion.
func (s *Set) getStrings(l slot.Label, lext, rext int) []StringBSR {
	return s.stringIndex[stringKey{label: l, leftExtent: lext, rightExtent: rext}]
}

func sortedBSRs(values []interface{}) []BSR {
	utils.Sort(values, bsrComparator)
	bsrs := make([]BSR, len(values))
	for i, v := range values {
		bsrs[i] = v.(BSR)
	}
	return bsrs
}

// describe renders b together with the input it spans.
func (s *Set) describe(b BSR) string {
	src := "ℇ"
	if b.leftExtent < b.rightExtent && s.lex != nil {
		src = s.lex.GetString(b.leftExtent, b.rightExtent)
	}
	return b.String() + " - " + src
}

func (s *Set) getLineColumn(tok int) (line, col int) {
	if s.lex == nil {
		return 0, 0
	}
	return s.lex.GetLineColumnOfToken(tok)
}
