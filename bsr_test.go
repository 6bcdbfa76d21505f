package bsr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/bsr/lexer"
	"github.com/npillmayer/bsr/slot"
	"github.com/npillmayer/gorgo/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var (
	ta = slot.T{Name: "a", Value: 1}
	tb = slot.T{Name: "b", Value: 2}
	tc = slot.T{Name: "c", Value: 3}
	tx = slot.T{Name: "x", Value: 4}
)

func mustTable(t *testing.T, rules ...slot.Rule) *slot.Table {
	tbl, err := slot.FromRules(rules...)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func mustLex(t *testing.T, input string, tbl *slot.Table) *lexer.Lexer {
	lx, err := lexer.New(strings.NewReader(input), tbl.Terminals())
	if err != nil {
		t.Fatal(err)
	}
	return lx
}

func eor(t *testing.T, tbl *slot.Table, nt slot.NT, alt int) slot.Label {
	l, err := tbl.EoR(nt, alt)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// S → A A ; A → 'a' ; A → ε
func abTable(t *testing.T) *slot.Table {
	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").N("A").End()
	b.LHS("A").T("a", 1).End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := slot.NewTable(g)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestEndToEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := abTable(t)
	set := New(tbl.Start(), mustLex(t, "a", tbl))
	set.Add(eor(t, tbl, "A", 0), 0, 1, 1)
	set.Add(eor(t, tbl, "A", 1), 1, 1, 1)
	set.Add(eor(t, tbl, "S", 0), 0, 1, 1)
	//
	roots := set.GetRoots()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, have %d", len(roots))
	}
	root, err := set.GetRoot()
	if err != nil {
		t.Fatal(err)
	}
	if root != roots[0] || root.Label.Head() != "S" || root.LeftExtent() != 0 || root.RightExtent() != 1 {
		t.Errorf("unexpected root %s", root)
	}
	if set.IsAmbiguous() {
		t.Errorf("parse should not be ambiguous")
	}
	c0, err := set.GetNTChildI(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c0.Label != eor(t, tbl, "A", 0) || c0.LeftExtent() != 0 || c0.RightExtent() != 1 {
		t.Errorf("unexpected child 0 %s", c0)
	}
	tok, err := set.GetTChildI(c0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if tok.Text() != "a" {
		t.Errorf("expected terminal 'a', have %s", tok)
	}
	c1, err := set.GetNTChild(root, "A", 1)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Label != eor(t, tbl, "A", 1) || !c1.Empty() || c1.LeftExtent() != 1 {
		t.Errorf("unexpected child 1 %s", c1)
	}
}

func TestInsertionIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := mustTable(t,
		slot.Rule{Head: "S", Body: slot.Symbols{slot.NT("A"), slot.NT("B"), slot.NT("C")}},
		slot.Rule{Head: "A", Body: slot.Symbols{ta}},
	)
	set := New("S", nil)
	if set.GetRightExtent() != 0 {
		t.Errorf("right extent of empty set should be 0, is %d", set.GetRightExtent())
	}
	for i := 0; i < 3; i++ {
		set.Add(eor(t, tbl, "A", 0), 0, 0, 1)
		set.Add(tbl.MustLabel("S", 0, 2), 0, 1, 2)
		set.Add(tbl.MustLabel("S", 0, 1), 0, 1, 7) // neither NT nor string BSR
	}
	if set.Size() != 1 || set.StringSize() != 1 {
		t.Errorf("expected 1 NT and 1 string BSR, have %d and %d", set.Size(), set.StringSize())
	}
	if n := len(set.ntSlotEntries[ntSlot{"A", 0, 1}]); n != 1 {
		t.Errorf("expected NT slot of length 1, have %d", n)
	}
	if set.GetRightExtent() != 2 {
		t.Errorf("expected right extent 2, have %d", set.GetRightExtent())
	}
}

func TestAddEmpty(t *testing.T) {
	tbl := abTable(t)
	set := New(tbl.Start(), nil)
	set.AddEmpty(eor(t, tbl, "A", 1), 3)
	if !set.Contain("A", 3, 3) {
		t.Fatalf("expected ε-derivation of A at 3")
	}
	b := set.GetAll()[0]
	if b.LeftExtent() != 3 || b.Pivot() != 3 || b.RightExtent() != 3 || !b.Empty() {
		t.Errorf("unexpected empty BSR %s", b)
	}
	if set.Contain("A", 2, 3) || set.Contain("S", 3, 3) {
		t.Errorf("Contain reports derivations which do not exist")
	}
}

// S → A ; A → B ; A → C ; B → 'b' ; C → 'b'
func ambiguousSet(t *testing.T, opts ...Option) (*Set, *slot.Table) {
	tbl := mustTable(t,
		slot.Rule{Head: "S", Body: slot.Symbols{slot.NT("A")}},
		slot.Rule{Head: "A", Body: slot.Symbols{slot.NT("B")}},
		slot.Rule{Head: "A", Body: slot.Symbols{slot.NT("C")}},
		slot.Rule{Head: "B", Body: slot.Symbols{tb}},
		slot.Rule{Head: "C", Body: slot.Symbols{tb}},
	)
	set := New(tbl.Start(), mustLex(t, "b", tbl), opts...)
	set.Add(eor(t, tbl, "B", 0), 0, 0, 1)
	set.Add(eor(t, tbl, "C", 0), 0, 0, 1)
	set.Add(eor(t, tbl, "A", 0), 0, 0, 1)
	set.Add(eor(t, tbl, "A", 1), 0, 0, 1)
	set.Add(eor(t, tbl, "S", 0), 0, 0, 1)
	return set, tbl
}

func TestAmbiguousNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, _ := ambiguousSet(t)
	if n := len(set.ntSlotEntries[ntSlot{"A", 0, 1}]); n != 2 {
		t.Errorf("expected NT slot of A to have 2 entries, has %d", n)
	}
	if !set.IsAmbiguous() {
		t.Errorf("expected parse to be ambiguous")
	}
	root, err := set.GetRoot()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.GetNTChildI(root, 0); !IsAmbiguity(err) {
		t.Errorf("expected ambiguity error, have %v", err)
	}
	if _, err := set.GetNTChild(root, "A", 0); !IsAmbiguity(err) {
		t.Errorf("expected ambiguity error, have %v", err)
	}
	children, err := set.GetNTChildrenI(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 2 || children[0].Alternate() != 0 || children[1].Alternate() != 1 {
		t.Errorf("expected both alternates of A in order of insertion, have %v", children)
	}
	all, err := set.GetAllNTChildren(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || len(all[0]) != 2 {
		t.Errorf("expected one NT child with 2 derivations, have %v", all)
	}
}

func TestAppendDuplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := abTable(t)
	for _, dups := range []bool{false, true} {
		set := New(tbl.Start(), nil, AppendDuplicates(dups))
		set.Add(eor(t, tbl, "A", 0), 0, 1, 1)
		set.Add(eor(t, tbl, "A", 0), 0, 1, 1)
		set.Add(eor(t, tbl, "A", 1), 1, 1, 1)
		set.Add(eor(t, tbl, "S", 0), 0, 1, 1)
		if set.Size() != 3 {
			t.Errorf("expected 3 NT BSRs, have %d", set.Size())
		}
		if set.IsAmbiguous() != dups {
			t.Errorf("with AppendDuplicates(%v), IsAmbiguous should be %v", dups, dups)
		}
	}
}

func TestMemoizationOff(t *testing.T) {
	set, _ := ambiguousSet(t, Memoize(false))
	if !set.IsAmbiguous() {
		t.Errorf("expected parse to be ambiguous without memoization")
	}
}

// S → A B C ; A → 'a' ; B → 'b' ; C → 'c'
func threeSymbolSet(t *testing.T) (*Set, *slot.Table) {
	tbl := mustTable(t,
		slot.Rule{Head: "S", Body: slot.Symbols{slot.NT("A"), slot.NT("B"), slot.NT("C")}},
		slot.Rule{Head: "A", Body: slot.Symbols{ta}},
		slot.Rule{Head: "B", Body: slot.Symbols{tb}},
		slot.Rule{Head: "C", Body: slot.Symbols{tc}},
	)
	set := New(tbl.Start(), mustLex(t, "a b c", tbl))
	set.Add(eor(t, tbl, "A", 0), 0, 0, 1)
	set.Add(eor(t, tbl, "B", 0), 1, 1, 2)
	set.Add(eor(t, tbl, "C", 0), 2, 2, 3)
	set.Add(tbl.MustLabel("S", 0, 2), 0, 1, 2)
	set.Add(eor(t, tbl, "S", 0), 0, 2, 3)
	return set, tbl
}

func TestThreeSymbolChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, _ := threeSymbolSet(t)
	root, err := set.GetRoot()
	if err != nil {
		t.Fatal(err)
	}
	for i, nt := range []slot.NT{"A", "B", "C"} {
		c, err := set.GetNTChildI(root, i)
		if err != nil {
			t.Fatal(err)
		}
		if c.Label.Head() != nt || c.LeftExtent() != i || c.RightExtent() != i+1 {
			t.Errorf("child %d: expected %s over (%d,%d), have %s", i, nt, i, i+1, c)
		}
	}
	if set.IsAmbiguous() {
		t.Errorf("parse should not be ambiguous")
	}
	strs := set.GetAllStrings(slot.Symbols{slot.NT("A"), slot.NT("B")}, 0, 2)
	if len(strs) != 1 || strs[0].Pivot() != 1 {
		t.Errorf("expected string BSR for A B over (0,2), have %v", strs)
	}
}

func TestAmbiguousString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, tbl := threeSymbolSet(t)
	set.Add(tbl.MustLabel("S", 0, 2), 0, 0, 2)
	if set.StringSize() != 2 {
		t.Errorf("expected 2 string BSRs, have %d", set.StringSize())
	}
	if !set.IsAmbiguous() {
		t.Errorf("expected two splits of A B to be ambiguous")
	}
	root, _ := set.GetRoot()
	c, err := set.GetNTChildI(root, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.LeftExtent() != 1 {
		t.Errorf("expected first string BSR inserted to be used, have child %s", c)
	}
}

// S → A 'x' B C ; A → 'a' ; B → 'b' ; C → 'c'
func TestFourSymbolChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := mustTable(t,
		slot.Rule{Head: "S", Body: slot.Symbols{slot.NT("A"), tx, slot.NT("B"), slot.NT("C")}},
		slot.Rule{Head: "A", Body: slot.Symbols{ta}},
		slot.Rule{Head: "B", Body: slot.Symbols{tb}},
		slot.Rule{Head: "C", Body: slot.Symbols{tc}},
	)
	set := New(tbl.Start(), mustLex(t, "axbc", tbl))
	set.Add(eor(t, tbl, "A", 0), 0, 0, 1)
	set.Add(tbl.MustLabel("S", 0, 2), 0, 1, 2)
	set.Add(tbl.MustLabel("S", 0, 3), 0, 2, 3)
	set.Add(eor(t, tbl, "B", 0), 2, 2, 3)
	set.Add(eor(t, tbl, "C", 0), 3, 3, 4)
	set.Add(eor(t, tbl, "S", 0), 0, 3, 4)
	//
	root, err := set.GetRoot()
	if err != nil {
		t.Fatal(err)
	}
	expect := map[int]slot.NT{0: "A", 2: "B", 3: "C"}
	for i, nt := range expect {
		c, err := set.GetNTChildI(root, i)
		if err != nil {
			t.Fatal(err)
		}
		if c.Label.Head() != nt || c.LeftExtent() != i || c.RightExtent() != i+1 {
			t.Errorf("child %d: expected %s over (%d,%d), have %s", i, nt, i, i+1, c)
		}
	}
	tok, err := set.GetTChildI(root, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tok.Text() != "x" || tok.Type != tx.Value {
		t.Errorf("expected token 'x', have %s", tok)
	}
	if _, err := set.GetNTChildI(root, 1); !IsStructural(err) {
		t.Errorf("expected structural error for terminal child, have %v", err)
	}
	if _, err := set.GetTChildI(root, 2); !IsStructural(err) {
		t.Errorf("expected structural error for NT child, have %v", err)
	}
	b, err := set.GetNTChild(root, "B", 0)
	if err != nil || b.LeftExtent() != 2 {
		t.Errorf("expected B over (2,3), have %s, %v", b, err)
	}
	all, err := set.GetAllNTChildren(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 NT children, have %d", len(all))
	}
	if set.IsAmbiguous() {
		t.Errorf("parse should not be ambiguous")
	}
}

func TestRootErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := abTable(t)
	set := New(tbl.Start(), nil)
	if _, err := set.GetRoot(); !IsNoParse(err) {
		t.Errorf("expected no-parse error for empty set, have %v", err)
	}
	if !set.IsAmbiguous() {
		t.Errorf("a set without roots should count as ambiguous")
	}
	set.Add(eor(t, tbl, "A", 0), 0, 1, 1)
	set.Add(eor(t, tbl, "A", 1), 0, 0, 0)
	set.Add(eor(t, tbl, "A", 1), 1, 1, 1)
	set.Add(eor(t, tbl, "S", 0), 0, 1, 1)
	set.Add(eor(t, tbl, "S", 0), 0, 0, 1)
	if n := len(set.GetRoots()); n != 2 {
		t.Errorf("expected 2 roots, have %d", n)
	}
	_, err := set.GetRoot()
	if !IsAmbiguity(err) {
		t.Errorf("expected ambiguity error, have %v", err)
	}
	if !strings.Contains(err.Error(), "2 parse trees") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestStructuralErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, tbl := threeSymbolSet(t)
	set.Add(eor(t, tbl, "S", 0), 0, 1, 3) // no string BSR for A B over (0,1)
	var bad BSR
	for _, b := range set.GetRoots() {
		if b.Pivot() == 1 {
			bad = b
		}
	}
	if _, err := set.GetNTChildI(bad, 0); !IsStructural(err) {
		t.Errorf("expected structural error for missing string BSR, have %v", err)
	}
	if _, err := set.GetNTChildrenI(bad, 5); !IsStructural(err) {
		t.Errorf("expected structural error for index out of range, have %v", err)
	}
	if _, err := set.GetNTChildren(bad, "D", 0); !IsStructural(err) {
		t.Errorf("expected structural error for unknown NT, have %v", err)
	}
	single := New("S", nil)
	single.Add(eor(t, tbl, "S", 0), 0, 2, 3)
	single.Add(tbl.MustLabel("S", 0, 2), 0, 1, 2)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected IsAmbiguous to panic for missing NT slot")
		} else if err, ok := r.(*Error); !ok || err.Kind != Structural {
			t.Errorf("expected structural *Error, have %v", r)
		}
	}()
	single.IsAmbiguous()
}

func TestErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := abTable(t)
	set := New(tbl.Start(), mustLex(t, "a\n a", tbl))
	set.Add(eor(t, tbl, "S", 0), 1, 1, 2)
	b := set.GetAll()[0]
	_, err := set.GetNTChildI(b, 0)
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, have %v", err)
	}
	if e.Kind != Structural || e.Line != 2 || e.Col != 2 {
		t.Errorf("expected structural error at line 2 col 2, have %v", e)
	}
}

func TestGetAllOrder(t *testing.T) {
	tbl := abTable(t)
	set := New(tbl.Start(), nil)
	set.Add(eor(t, tbl, "A", 1), 1, 1, 1)
	set.Add(eor(t, tbl, "S", 0), 0, 1, 1)
	set.Add(eor(t, tbl, "A", 0), 0, 1, 1)
	set.Add(eor(t, tbl, "A", 1), 0, 0, 0)
	all := set.GetAll()
	if len(all) != 4 {
		t.Fatalf("expected 4 BSRs, have %d", len(all))
	}
	order := []string{"S : A A •,0,1,1", "A : 'a' •,0,1,1", "A : •,0,0,0", "A : •,1,1,1"}
	for i, b := range all {
		if b.String() != order[i] {
			t.Errorf("position %d: expected %s, have %s", i, order[i], b)
		}
	}
}

func TestReportAndDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, _ := ambiguousSet(t)
	var buf bytes.Buffer
	n, err := set.ReportAmbiguous(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 ambiguity, have %d", n)
	}
	if !strings.Contains(buf.String(), "NT A (0) at line 1 col 1") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
	buf.Reset()
	tset, tbl := threeSymbolSet(t)
	if n, _ := tset.ReportAmbiguous(&buf); n != 0 || !strings.Contains(buf.String(), "No ambiguous BSRs") {
		t.Errorf("expected no ambiguities, have %d:\n%s", n, buf.String())
	}
	buf.Reset()
	tset.Dump(&buf)
	out := buf.String()
	for _, s := range []string{"Roots:", "S : A B C •,0,2,3 - a b c", "'b' •,1,1,2 - b", "A B,0,1,2 - a b"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected dump to contain %q:\n%s", s, out)
		}
	}
	// a second split of A B makes the parse ambiguous
	tset.Add(tbl.MustLabel("S", 0, 2), 0, 0, 2)
	buf.Reset()
	n, err = tset.ReportAmbiguous(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !tset.IsAmbiguous() || n != 1 {
		t.Errorf("expected 1 ambiguity, have %d", n)
	}
	out = buf.String()
	for _, s := range []string{"A B has 2 splits at line 1 col 1", "A B,0,1,2 - a b", "A B,0,0,2 - a b"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected report to contain %q:\n%s", s, out)
		}
	}
}

func TestSplits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	set, tbl := threeSymbolSet(t)
	set.Add(tbl.MustLabel("S", 0, 2), 0, 0, 2)
	root, err := set.GetRoot()
	if err != nil {
		t.Fatal(err)
	}
	splits, err := set.GetSplits(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := set.GetSplit(root); !IsAmbiguity(err) {
		t.Errorf("expected ambiguity error for two splits, have %v", err)
	}
	expected := [][]Extent{
		{{0, 1}, {1, 2}, {2, 3}},
		{{0, 0}, {0, 2}, {2, 3}},
	}
	if len(splits) != len(expected) {
		t.Fatalf("expected %d splits, have %v", len(expected), splits)
	}
	for i, split := range splits {
		for j, ext := range split {
			if ext != expected[i][j] {
				t.Errorf("split %d, symbol %d: expected %v, have %v", i, j, expected[i][j], ext)
			}
		}
	}
	a, err := set.GetNTSlot("A", 0, 1)
	if err != nil || len(a) != 1 {
		t.Errorf("expected one derivation of A over (0,1), have %v, %v", a, err)
	}
	if _, err := set.GetNTSlot("A", 0, 0); !IsStructural(err) {
		t.Errorf("expected structural error for missing NT slot, have %v", err)
	}
	if tok, err := set.GetToken(2); err != nil || tok.Text() != "c" {
		t.Errorf("expected token 'c', have %v, %v", tok, err)
	}
}

// S → A ; A → 'a' 'b'
func TestSingleSymbolPivot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bsr")
	defer teardown()
	//
	tbl := mustTable(t,
		slot.Rule{Head: "S", Body: slot.Symbols{slot.NT("A")}},
		slot.Rule{Head: "A", Body: slot.Symbols{ta, tb}},
	)
	for _, pivot := range []int{1, 2} {
		set := New(tbl.Start(), mustLex(t, "ab", tbl))
		set.Add(eor(t, tbl, "A", 0), 0, 1, 2)
		set.Add(eor(t, tbl, "S", 0), 0, pivot, 2)
		root, err := set.GetRoot()
		if err != nil {
			t.Fatal(err)
		}
		c, err := set.GetNTChildI(root, 0)
		if err != nil {
			t.Fatalf("pivot %d: %v", pivot, err)
		}
		if c.LeftExtent() != 0 || c.RightExtent() != 2 {
			t.Errorf("pivot %d: expected child over (0,2), have %s", pivot, c)
		}
		if set.IsAmbiguous() {
			t.Errorf("pivot %d: parse should not be ambiguous", pivot)
		}
		tok, err := set.GetTChildI(c, 1)
		if err != nil || tok.Text() != "b" {
			t.Errorf("pivot %d: expected token 'b', have %v, %v", pivot, tok, err)
		}
	}
}
