package bsr

import (
	"strings"

	"github.com/npillmayer/bsr/lexer"
	"github.com/npillmayer/bsr/slot"
)

// Extent is a span [Lext,Rext) of input tokens.
type Extent struct {
	Lext, Rext int
}

// childSpan locates the extent of symbol i of b's alternate.
//
// For alternates of one or two symbols the extent is read off b directly.
// For longer alternates, string BSRs are peeled off from the right until
// symbol i is one of the two halves of a binary split.
// ambiguous is true if any of the string BSRs visited is not unique; the first
// string BSR inserted is used in that case.
func (s *Set) childSpan(b BSR, i int) (sp Extent, ambiguous bool, err error) {
	symbols := b.Label.Symbols()
	m := len(symbols)
	if i < 0 || i >= m {
		return sp, false, s.failAt(Structural, b.leftExtent, "cannot get child %d of %s", i, b)
	}
	switch {
	case m == 1:
		return Extent{b.leftExtent, b.rightExtent}, false, nil
	case m == 2 && i == 0:
		return Extent{b.leftExtent, b.pivot}, false, nil
	case i == m-1:
		return Extent{b.pivot, b.rightExtent}, false, nil
	}
	pos := m - 1
	cur, amb, err := s.peel(b.Label, pos, b.leftExtent, b.pivot)
	if err != nil {
		return sp, false, err
	}
	ambiguous = amb
	for pos > i+1 && pos > 2 {
		pos--
		cur, amb, err = s.peel(b.Label, pos, cur.leftExtent, cur.pivot)
		if err != nil {
			return sp, false, err
		}
		ambiguous = ambiguous || amb
	}
	if i == 0 {
		return Extent{cur.leftExtent, cur.pivot}, ambiguous, nil
	}
	return Extent{cur.pivot, cur.rightExtent}, ambiguous, nil
}

// peel fetches the string BSR for the prefix of length pos of l's alternate
// over [lext,rext).
func (s *Set) peel(l slot.Label, pos, lext, rext int) (StringBSR, bool, error) {
	sl, err := l.WithPos(pos)
	if err != nil {
		return StringBSR{}, false, s.failf(Structural, "%v", err)
	}
	strs := s.getStrings(sl, lext, rext)
	if len(strs) == 0 {
		return StringBSR{}, false, s.failAt(Structural, lext,
			"no string BSR %s left extent=%d right extent=%d pos=%d", sl.Prefix(), lext, rext, pos)
	}
	return strs[0], len(strs) > 1, nil
}

// getNTSlot returns all derivations of sym over [lext,rext).
func (s *Set) getNTSlot(sym slot.Symbol, lext, rext int) ([]BSR, error) {
	nt, ok := slot.ToNT(sym)
	if !ok {
		return nil, s.failAt(Structural, lext, "%s is not an NT", sym)
	}
	return s.GetNTSlot(nt, lext, rext)
}

// GetNTSlot returns all derivations of nt over [lext,rext), in order of insertion.
// Clients must not modify the result.
func (s *Set) GetNTSlot(nt slot.NT, lext, rext int) ([]BSR, error) {
	bsrs, ok := s.ntSlotEntries[ntSlot{nt: nt, leftExtent: lext, rightExtent: rext}]
	if !ok {
		return nil, s.failAt(Structural, lext, "%s (%d,%d) has no slot entry", nt, lext, rext)
	}
	return bsrs, nil
}

// GetSplits returns every way the extent of b is divided among the symbols of
// its alternate, one split per combination of string BSRs. split[i] is the
// extent of symbol i. An ε-alternate has a single empty split.
func (s *Set) GetSplits(b BSR) ([][]Extent, error) {
	m := len(b.Label.Symbols())
	switch m {
	case 0:
		return [][]Extent{{}}, nil
	case 1:
		return [][]Extent{{{b.leftExtent, b.rightExtent}}}, nil
	}
	return s.prefixSplits(b.Label, m, b.leftExtent, b.rightExtent, b.pivot)
}

// GetSplit returns the extents of the symbols of b's alternate.
// GetSplit fails if a prefix of the alternate is split in more than one way.
func (s *Set) GetSplit(b BSR) ([]Extent, error) {
	splits, err := s.GetSplits(b)
	if err != nil {
		return nil, err
	}
	if len(splits) != 1 {
		return nil, s.failAt(Ambiguous, b.leftExtent, "%d splits of %s", len(splits), s.describe(b))
	}
	return splits[0], nil
}

// prefixSplits returns the splits of the first n symbols of l's alternate
// over [lext,rext), where symbol n-1 starts at pivot.
func (s *Set) prefixSplits(l slot.Label, n, lext, rext, pivot int) ([][]Extent, error) {
	last := Extent{pivot, rext}
	if n == 2 {
		return [][]Extent{{{lext, pivot}, last}}, nil
	}
	sl, err := l.WithPos(n - 1)
	if err != nil {
		return nil, s.failf(Structural, "%v", err)
	}
	strs := s.getStrings(sl, lext, pivot)
	if len(strs) == 0 {
		return nil, s.failAt(Structural, lext,
			"no string BSR %s left extent=%d right extent=%d pos=%d", sl.Prefix(), lext, pivot, n-1)
	}
	var splits [][]Extent
	for _, str := range strs {
		subs, err := s.prefixSplits(l, n-1, lext, pivot, str.pivot)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			split := make([]Extent, len(sub), n)
			copy(split, sub)
			splits = append(splits, append(split, last))
		}
	}
	return splits, nil
}

// GetNTChildrenI returns all the BSRs of NT symbol[i] in b.
// Clients must not modify the result.
func (s *Set) GetNTChildrenI(b BSR, i int) ([]BSR, error) {
	sp, _, err := s.childSpan(b, i)
	if err != nil {
		return nil, err
	}
	return s.getNTSlot(b.Label.Symbols()[i], sp.Lext, sp.Rext)
}

// GetNTChildI returns the BSR of NT symbol[i] in b.
// GetNTChildI fails if the BSR set has ambiguous subtrees of NT i.
func (s *Set) GetNTChildI(b BSR, i int) (BSR, error) {
	bsrs, err := s.GetNTChildrenI(b, i)
	if err != nil {
		return BSR{}, err
	}
	if len(bsrs) != 1 {
		return BSR{}, s.failAt(Ambiguous, b.leftExtent, "NT %d is ambiguous in %s", i, b)
	}
	return bsrs[0], nil
}

// GetNTChildren returns all the BSRs of occurrence n of nt in b's alternate.
// Occurrences are counted from 0.
func (s *Set) GetNTChildren(b BSR, nt slot.NT, n int) ([]BSR, error) {
	occ := -1
	for j, sym := range b.Label.Symbols() {
		if sym == slot.Symbol(nt) {
			occ++
			if occ == n {
				return s.GetNTChildrenI(b, j)
			}
		}
	}
	return nil, s.failAt(Structural, b.leftExtent, "%s has no occurrence %d of NT %s", b, n, nt)
}

// GetNTChild returns the BSR of occurrence n of nt in b's alternate.
// GetNTChild fails if b has ambiguous subtrees of occurrence n of nt.
func (s *Set) GetNTChild(b BSR, nt slot.NT, n int) (BSR, error) {
	bsrs, err := s.GetNTChildren(b, nt, n)
	if err != nil {
		return BSR{}, err
	}
	if len(bsrs) != 1 {
		alts := make([]string, len(bsrs))
		for j, c := range bsrs {
			alts[j] = s.describe(c)
		}
		return BSR{}, s.failAt(Ambiguous, b.leftExtent, "%s is ambiguous in %s\n  %s",
			nt, b, strings.Join(alts, "\n  "))
	}
	return bsrs[0], nil
}

// GetAllNTChildren returns all the NT children of b, one entry per NT symbol
// of b's alternate. If an NT child of b has ambiguous parses then all parses of
// that child are returned.
func (s *Set) GetAllNTChildren(b BSR) ([][]BSR, error) {
	children := [][]BSR{}
	for i, sym := range b.Label.Symbols() {
		if !sym.IsNonTerminal() {
			continue
		}
		c, err := s.GetNTChildrenI(b, i)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, nil
}

// GetTChildI returns the terminal symbol at position i in b.
// The token is found by adding up the widths of the symbols in front of it,
// where terminals have width 1.
func (s *Set) GetTChildI(b BSR, i int) (*lexer.Token, error) {
	symbols := b.Label.Symbols()
	if i < 0 || i >= len(symbols) {
		return nil, s.failAt(Structural, b.leftExtent, "%s has no T child %d", b, i)
	}
	if symbols[i].IsNonTerminal() {
		return nil, s.failAt(Structural, b.leftExtent, "symbol %d in %s is an NT", i, b)
	}
	lext := b.leftExtent
	for j := 0; j < i; j++ {
		if !symbols[j].IsNonTerminal() {
			lext++
			continue
		}
		// all derivations in an NT slot share the same extent
		nts, err := s.GetNTChildrenI(b, j)
		if err != nil {
			return nil, err
		}
		lext += nts[0].rightExtent - nts[0].leftExtent
	}
	return s.GetToken(lext)
}

// GetToken returns input token i.
func (s *Set) GetToken(i int) (*lexer.Token, error) {
	if s.lex == nil {
		return nil, s.failf(Structural, "no token stream to retrieve token %d", i)
	}
	tok := s.lex.Token(i)
	if tok == nil {
		return nil, s.failAt(Structural, i, "no token %d", i)
	}
	return tok, nil
}
