package bsr

import (
	"fmt"

	"github.com/npillmayer/bsr/slot"
)

// BSR is the binary subtree representation of a parsed non-terminal:
// the derivation of the alternate of Label over [LeftExtent, RightExtent),
// split at Pivot. BSRs are immutable values and may be compared with ==.
type BSR struct {
	Label       slot.Label
	leftExtent  int
	pivot       int
	rightExtent int
}

// LeftExtent returns the left extent of the BSR.
func (b BSR) LeftExtent() int {
	return b.leftExtent
}

// RightExtent returns the right extent of the BSR.
func (b BSR) RightExtent() int {
	return b.rightExtent
}

// Pivot returns the pivot of the BSR.
func (b BSR) Pivot() int {
	return b.pivot
}

// Alternate returns the index of the grammar rule alternate.
func (b BSR) Alternate() int {
	return b.Label.Alternate()
}

// Empty is true for a BSR of an ε-derivation.
func (b BSR) Empty() bool {
	return b.leftExtent == b.rightExtent
}

func (b BSR) String() string {
	return fmt.Sprintf("%s,%d,%d,%d", b.Label, b.leftExtent, b.pivot, b.rightExtent)
}

// StringBSR is the derivation of a prefix of an alternate, namely the symbols
// in front of the dot of Label.
type StringBSR struct {
	Label       slot.Label
	leftExtent  int
	pivot       int
	rightExtent int
}

// Symbols returns the prefix of the alternate which s derives.
func (s StringBSR) Symbols() slot.Symbols {
	return s.Label.Prefix()
}

// LeftExtent returns the left extent of s.
func (s StringBSR) LeftExtent() int {
	return s.leftExtent
}

// RightExtent returns the right extent of s.
func (s StringBSR) RightExtent() int {
	return s.rightExtent
}

// Pivot returns the pivot of s.
func (s StringBSR) Pivot() int {
	return s.pivot
}

// Empty is true if s spans no input.
func (s StringBSR) Empty() bool {
	return s.leftExtent == s.pivot && s.pivot == s.rightExtent
}

func (s StringBSR) String() string {
	return fmt.Sprintf("%s,%d,%d,%d", s.Symbols(), s.leftExtent, s.pivot, s.rightExtent)
}

// --- Ordering --------------------------------------------------------------

// compareExtents orders by left extent ascending, then right extent
// descending, then pivot ascending.
func compareExtents(l1, p1, r1, l2, p2, r2 int) int {
	switch {
	case l1 != l2:
		return sign(l1 - l2)
	case r1 != r2:
		return sign(r2 - r1)
	case p1 != p2:
		return sign(p1 - p2)
	}
	return 0
}

func compareLabels(a, b slot.Label) int {
	if a.Rule() != b.Rule() {
		return sign(a.Rule() - b.Rule())
	}
	return sign(a.Pos() - b.Pos())
}

// bsrComparator is a gods comparator for values of type BSR. Labels break ties
// between BSRs with identical extents, making the order total.
func bsrComparator(a, b interface{}) int {
	x, y := a.(BSR), b.(BSR)
	if c := compareExtents(x.leftExtent, x.pivot, x.rightExtent,
		y.leftExtent, y.pivot, y.rightExtent); c != 0 {
		return c
	}
	return compareLabels(x.Label, y.Label)
}

// stringBSRComparator is a gods comparator for values of type StringBSR.
func stringBSRComparator(a, b interface{}) int {
	x, y := a.(StringBSR), b.(StringBSR)
	if c := compareLabels(x.Label, y.Label); c != 0 {
		return c
	}
	return compareExtents(x.leftExtent, x.pivot, x.rightExtent,
		y.leftExtent, y.pivot, y.rightExtent)
}

func sign(n int) int {
	if n < 0 {
		return -1
	} else if n > 0 {
		return 1
	}
	return 0
}
