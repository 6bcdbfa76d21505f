/*
Package bsr implements a Binary Subtree Representation set as defined in

    Scott et al
    Derivation representation using binary subtree sets,
    Science of Computer Programming 175 (2019)

Description

A GLL parser does not build parse trees while it recognizes its input.
Instead, it records every reduction it encounters as a BSR: a grammar slot
together with the extent of input it covers and a pivot, which splits the
extent into two sub-derivations.

    (X : α x •, i, k, j)

means that α derives input tokens [i,k) and x derives tokens [k,j).
The set of all BSRs of a parse represents every derivation of the input,
even for ambiguous grammars, without the overhead of building a shared
packed parse forest.

Two kinds of BSRs are recorded. BSRs with a slot at the end of an
alternate stand for a complete derivation of a non-terminal ("NT-BSRs").
BSRs with a slot in the middle of an alternate, after at least two symbols,
stand for a derivation of a prefix of an alternate ("string BSRs"). String
BSRs are needed to find the children of alternates with three or more symbols:
starting from the complete alternate, symbols are peeled off from the right
until the child in question is one of the two halves of a binary split.

Usage

A parser creates a Set for a start symbol and a token stream, then calls Add
and AddEmpty while parsing:

    set := bsr.New(table.Start(), lx)
    …
    set.Add(l, i, k, j)

After parsing, clients walk the derivations from the root down:

    root, err := set.GetRoot()
    …
    child, err := set.GetNTChildI(root, 0)

GetRoot and GetNTChildI fail for ambiguous parses. Clients prepared for
ambiguity use GetRoots, GetNTChildrenI and IsAmbiguous instead. Package tree
builds complete parse trees from a Set.

A Set is filled by exactly one parser and is read-only afterwards. Read-only
queries may run concurrently once parsing has finished.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bsr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bsr'.
func tracer() tracing.Trace {
	return tracing.Select("bsr")
}
