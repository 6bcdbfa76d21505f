package lexer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"

	"github.com/npillmayer/bsr/slot"
	"golang.org/x/text/unicode/norm"
)

// EOF is the token value of the end-of-input token.
const EOF = -1

// ErrNoMatch is returned if a part of the input is not matched by any terminal.
var ErrNoMatch = errors.New("no terminal matches input")

// Token is a terminal recognized in the input. Extents are rune positions
// within the (normalized) input, [Lext, Rext).
type Token struct {
	Type    int    // token value of the terminal, EOF for end of input
	Name    string // name of the terminal
	Lext    int
	Rext    int
	Literal []rune
}

// Text returns the token's literal as a string.
func (tok *Token) Text() string {
	return string(tok.Literal)
}

func (tok *Token) String() string {
	if tok.Type == EOF {
		return fmt.Sprintf("<EOF>@%d", tok.Lext)
	}
	return fmt.Sprintf("'%s'@%d", string(tok.Literal), tok.Lext)
}

// Lexer holds the tokens of an input. Tokens are numbered from 0; token
// numbers are the positions BSR extents refer to.
type Lexer struct {
	Tokens []*Token
	input  []rune
	lines  []int // rune positions of line starts
	form   norm.Form
	skipWS bool
	eof    bool
}

// Option configures a Lexer.
type Option func(*Lexer)

// Normalize sets the Unicode normalization form applied to the input.
// Default is NFC.
func Normalize(form norm.Form) Option {
	return func(lx *Lexer) {
		lx.form = form
	}
}

// KeepWhitespace switches off skipping of white space between tokens. White
// space then has to be matched by terminals of the grammar.
func KeepWhitespace() Option {
	return func(lx *Lexer) {
		lx.skipWS = false
	}
}

// WithoutEOF suppresses the end-of-input token.
func WithoutEOF() Option {
	return func(lx *Lexer) {
		lx.eof = false
	}
}

// New reads input and splits it into tokens. Terminals are recognized by
// their names, i.e. the name of a terminal is its literal. The longest match
// wins; for matches of equal length the terminal listed first wins.
//
// Terminals for a grammar may be taken from slot.Table.Terminals().
func New(input io.Reader, terminals []slot.T, opts ...Option) (*Lexer, error) {
	lx := &Lexer{
		form:   norm.NFC,
		skipWS: true,
		eof:    true,
	}
	for _, opt := range opts {
		opt(lx)
	}
	b, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	lx.input = []rune(string(lx.form.Bytes(b)))
	lx.lines = lineStarts(lx.input)
	literals := make([][]rune, len(terminals))
	for i, t := range terminals {
		literals[i] = []rune(lx.form.String(t.Name))
	}
	if err = lx.scan(terminals, literals); err != nil {
		return nil, err
	}
	if lx.eof {
		n := len(lx.input)
		lx.Tokens = append(lx.Tokens, &Token{Type: EOF, Name: "EOF", Lext: n, Rext: n})
	}
	tracer().Debugf("scanned %d tokens", len(lx.Tokens))
	return lx, nil
}

func (lx *Lexer) scan(terminals []slot.T, literals [][]rune) error {
	pub := &publisher{}
	pos := 0
	for pos < len(lx.input) {
		r := lx.input[pos]
		if lx.skipWS && unicode.IsSpace(r) {
			pos++
			continue
		}
		for i, lit := range literals {
			if len(lit) > 0 && lit[0] == r {
				pub.subscribe(newPooledRecognizer(terminals[i], lit))
			}
		}
		for p := pos; p < len(lx.input) && len(pub.active) > 0; p++ {
			pub.publish(lx.input[p])
		}
		t, length, ok := pub.result()
		if !ok {
			line, col := lx.lineColumn(pos)
			tracer().Errorf("no terminal matches %q at line %d col %d", r, line, col)
			return fmt.Errorf("%w: %q at line %d col %d", ErrNoMatch, r, line, col)
		}
		tok := &Token{
			Type:    t.Value,
			Name:    t.Name,
			Lext:    pos,
			Rext:    pos + length,
			Literal: lx.input[pos : pos+length],
		}
		tracer().Debugf("token %d = %s", len(lx.Tokens), tok)
		lx.Tokens = append(lx.Tokens, tok)
		pos += length
	}
	return nil
}

func lineStarts(input []rune) []int {
	lines := []int{0}
	for i, r := range input {
		if r == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// lineColumn maps a rune position to 1-based line and column.
func (lx *Lexer) lineColumn(pos int) (line, col int) {
	l := sort.Search(len(lx.lines), func(i int) bool {
		return lx.lines[i] > pos
	}) - 1
	return l + 1, pos - lx.lines[l] + 1
}

// Len returns the number of tokens, including the end-of-input token.
func (lx *Lexer) Len() int {
	return len(lx.Tokens)
}

// Token returns token i. It returns nil if i is out of range.
func (lx *Lexer) Token(i int) *Token {
	if i < 0 || i >= len(lx.Tokens) {
		return nil
	}
	return lx.Tokens[i]
}

// GetLineColumnOfToken returns the 1-based line and column of the first rune
// of token i. For i behind the last token the end of input is reported.
func (lx *Lexer) GetLineColumnOfToken(i int) (line, col int) {
	pos := len(lx.input)
	if i >= 0 && i < len(lx.Tokens) {
		pos = lx.Tokens[i].Lext
	}
	return lx.lineColumn(pos)
}

// GetString returns the input text covered by tokens [lext, rext),
// including any white space between them.
func (lx *Lexer) GetString(lext, rext int) string {
	if lext < 0 {
		lext = 0
	}
	if rext > len(lx.Tokens) {
		rext = len(lx.Tokens)
	}
	if lext >= rext {
		return ""
	}
	return string(lx.input[lx.Tokens[lext].Lext:lx.Tokens[rext-1].Rext])
}
