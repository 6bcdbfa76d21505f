/*
Package slot implements grammar slots for GLL parsing.

A grammar slot is a position within an alternate of a grammar rule, written
with a dot:

    Expr : Expr • '+' Term

Slots are what a GLL parser records in its BSR set. A slot at the end of an
alternate ("end of rule") stands for a complete derivation of the alternate's
head, every other slot stands for a partially matched prefix.

Slots are derived from a grammar built with gorgo's grammar builder:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").N("A").End()
    b.LHS("A").T("a", 1).End()
    b.LHS("A").Epsilon()
    g, _ := b.Grammar()
    table, err := slot.NewTable(g)

The alternates of a non-terminal are numbered in the order of their rules
within the grammar, starting with 0.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bsr.slot'.
func tracer() tracing.Trace {
	return tracing.Select("bsr.slot")
}
