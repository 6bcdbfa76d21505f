package bsr

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/treemap"
)

// GetRoots returns all the roots of parse trees of the start symbol of the
// grammar, i.e. all NT-BSRs of the start symbol spanning the complete input.
func (s *Set) GetRoots() []BSR {
	var roots []interface{}
	for b := range s.slotEntries {
		if b.Label.Head() == s.startSym && b.leftExtent == 0 && b.rightExtent == s.rightExtent {
			roots = append(roots, b)
		}
	}
	tracer().Infof("%d root(s) for start symbol %s", len(roots), s.startSym)
	return sortedBSRs(roots)
}

// GetRoot returns the root of the parse tree of an unambiguous parse.
// GetRoot fails if the parse was ambiguous or if no parse exists.
// Use GetRoots() for ambiguous parses.
func (s *Set) GetRoot() (BSR, error) {
	rts := s.GetRoots()
	if len(rts) != 1 {
		kind := Ambiguous
		if len(rts) == 0 {
			kind = NoParse
		}
		return BSR{}, s.failf(kind, "%d parse trees exist for start symbol %s", len(rts), s.startSym)
	}
	return rts[0], nil
}

// IsAmbiguous returns true if the BSR set does not have exactly one root, or
// if any BSR reachable from the root has an NT symbol which does not have
// exactly one sub-tree.
//
// IsAmbiguous panics with an *Error if the set is inconsistent with its grammar.
func (s *Set) IsAmbiguous() bool {
	roots := s.GetRoots()
	if len(roots) != 1 {
		return true
	}
	var memo map[BSR]bool
	if s.memoize {
		memo = make(map[BSR]bool)
	}
	ambiguous, err := s.isAmbiguous(roots[0], memo)
	if err != nil {
		panic(err)
	}
	return ambiguous
}

// isAmbiguous returns true if b or any of its NT children is ambiguous.
// With a memo, a BSR under inspection is marked as ambiguous first, so that
// cyclic derivations (infinitely many parses) are reported as ambiguous.
func (s *Set) isAmbiguous(b BSR, memo map[BSR]bool) (bool, error) {
	if memo != nil {
		if amb, ok := memo[b]; ok {
			return amb, nil
		}
		memo[b] = true
	}
	ambiguous, err := s.checkChildren(b, memo)
	if err != nil {
		return false, err
	}
	if memo != nil {
		memo[b] = ambiguous
	}
	return ambiguous, nil
}

func (s *Set) checkChildren(b BSR, memo map[BSR]bool) (bool, error) {
	for i, sym := range b.Label.Symbols() {
		if !sym.IsNonTerminal() {
			continue
		}
		sp, ambString, err := s.childSpan(b, i)
		if err != nil {
			return false, err
		}
		if ambString {
			return true, nil
		}
		children, err := s.getNTSlot(sym, sp.Lext, sp.Rext)
		if err != nil {
			return false, err
		}
		if len(children) != 1 {
			return true, nil
		}
		for _, c := range children {
			amb, err := s.isAmbiguous(c, memo)
			if err != nil || amb {
				return amb, err
			}
		}
	}
	return false, nil
}

// ReportAmbiguous lists the ambiguous subtrees of the parse forest to w.
// It returns the number of ambiguities found, counting a number of roots
// different from 1 as one ambiguity.
func (s *Set) ReportAmbiguous(w io.Writer) (int, error) {
	count := 0
	fmt.Fprintln(w, "Ambiguous BSR Subtrees:")
	rts := s.GetRoots()
	if len(rts) != 1 {
		fmt.Fprintf(w, "BSR has %d ambiguous roots\n", len(rts))
		count++
	}
	visited := make(map[BSR]bool)
	for i, b := range rts {
		fmt.Fprintln(w, "In root", i)
		n, err := s.report(w, b, visited)
		if err != nil {
			return count, err
		}
		if n == 0 {
			fmt.Fprintln(w, "No ambiguous BSRs")
		}
		count += n
	}
	return count, nil
}

// report returns the number of ambiguous child positions and prefix splits
// in the subtree of b.
func (s *Set) report(w io.Writer, b BSR, visited map[BSR]bool) (int, error) {
	if visited[b] {
		return 0, nil
	}
	visited[b] = true
	count := 0
	stringsReported := false
	for i, sym := range b.Label.Symbols() {
		if !sym.IsNonTerminal() {
			continue
		}
		_, ambString, err := s.childSpan(b, i)
		if err != nil {
			return count, err
		}
		if ambString && !stringsReported {
			stringsReported = true
			n, err := s.reportStrings(w, b)
			if err != nil {
				return count, err
			}
			count += n
		}
		children, err := s.GetNTChildrenI(b, i)
		if err != nil {
			return count, err
		}
		if len(children) != 1 {
			count++
			line, col := s.getLineColumn(b.leftExtent)
			fmt.Fprintf(w, "  Ambiguous: in %s: NT %s (%d) at line %d col %d\n",
				s.describe(b), sym, i, line, col)
			fmt.Fprintln(w, "   Children:")
			for _, c := range children {
				fmt.Fprintf(w, "     %s\n", s.describe(c))
			}
		}
		for _, c := range children {
			n, err := s.report(w, c, visited)
			if err != nil {
				return count, err
			}
			count += n
		}
	}
	return count, nil
}

// reportStrings lists the string BSRs of b's alternate which split a prefix
// in more than one way. It follows the same string BSRs as child queries do.
func (s *Set) reportStrings(w io.Writer, b BSR) (int, error) {
	count := 0
	lext, rext := b.leftExtent, b.pivot
	for pos := len(b.Label.Symbols()) - 1; pos >= 2; pos-- {
		sl, err := b.Label.WithPos(pos)
		if err != nil {
			return count, s.failf(Structural, "%v", err)
		}
		strs := s.getStrings(sl, lext, rext)
		if len(strs) == 0 {
			return count, s.failAt(Structural, lext,
				"no string BSR %s left extent=%d right extent=%d pos=%d", sl.Prefix(), lext, rext, pos)
		}
		if len(strs) > 1 {
			count++
			line, col := s.getLineColumn(lext)
			fmt.Fprintf(w, "  Ambiguous: in %s: %s has %d splits at line %d col %d\n",
				s.describe(b), sl.Prefix(), len(strs), line, col)
			fmt.Fprintln(w, "   Splits:")
			for _, str := range strs {
				fmt.Fprintf(w, "     %s - %s\n", str, s.lexString(str.leftExtent, str.rightExtent))
			}
		}
		lext, rext = strs[0].leftExtent, strs[0].pivot
	}
	return count, nil
}

// Dump prints all the NT and string elements of the BSR set to w.
func (s *Set) Dump(w io.Writer) {
	fmt.Fprintln(w, "Roots:")
	for _, rt := range s.GetRoots() {
		fmt.Fprintln(w, s.describe(rt))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "NT BSRs:")
	for _, b := range s.GetAll() {
		fmt.Fprintln(w, s.describe(b))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "string BSRs:")
	strs := treemap.NewWith(stringBSRComparator)
	for str := range s.stringEntries {
		strs.Put(str, s.lexString(str.leftExtent, str.rightExtent))
	}
	it := strs.Iterator()
	for it.Next() {
		fmt.Fprintf(w, "%s - %s\n", it.Key(), it.Value())
	}
	fmt.Fprintln(w)
}

func (s *Set) lexString(lext, rext int) string {
	if lext >= rext || s.lex == nil {
		return "ℇ"
	}
	return s.lex.GetString(lext, rext)
}
