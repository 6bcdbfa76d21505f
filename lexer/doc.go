/*
Package lexer splits input text into the tokens a BSR set refers to.

Tokens are recognized by matching the literals of a grammar's terminals.
White space between tokens is skipped by default, and input is normalized
to NFC before scanning. A Lexer keeps the input and all of its tokens, and
maps token numbers back to line and column positions for error messages.

Typical usage:

    lx, err := lexer.New(strings.NewReader("a + a"), table.Terminals())
    …
    line, col := lx.GetLineColumnOfToken(2)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bsr.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("bsr.lexer")
}
