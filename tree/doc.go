/*
Package tree extracts parse trees from a BSR set.

Build returns the parse tree of an unambiguous parse. BuildAll enumerates
the trees of an ambiguous parse, one tree per combination of alternative
derivations, up to a configurable limit:

    trees, err := tree.BuildAll(set, tree.MaxTrees(10))
    if errors.Is(err, tree.ErrTooManyTrees) {
        … // trees holds the first 10 trees
    }

Sub-trees which are identical across parse trees are shared, i.e. trees
returned from BuildAll must be treated as read-only.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bsr.tree'.
func tracer() tracing.Trace {
	return tracing.Select("bsr.tree")
}
