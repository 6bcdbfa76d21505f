package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/bsr"
	"github.com/npillmayer/bsr/lexer"
	"github.com/npillmayer/bsr/slot"
)

// ErrTooManyTrees is returned by BuildAll if the parse has more trees than
// requested.
var ErrTooManyTrees = errors.New("too many parse trees")

// DefaultMaxTrees is the number of trees BuildAll returns at most, if not
// configured otherwise.
const DefaultMaxTrees = 64

// Node is a node of a parse tree. Inner nodes are derivations of
// non-terminals, leaves are either terminals or ε-derivations.
// Lext and Rext denote the extent of input tokens the node spans.
type Node struct {
	Symbol   slot.Symbol
	BSR      *bsr.BSR     // nil for terminals
	Token    *lexer.Token // nil for non-terminals
	Lext     int
	Rext     int
	Children []*Node
}

// Build returns the parse tree of an unambiguous parse. It fails with an
// ambiguity error if any non-terminal has more than one derivation, or if
// a prefix of an alternate is split in more than one way.
func Build(set *bsr.Set) (*Node, error) {
	root, err := set.GetRoot()
	if err != nil {
		return nil, err
	}
	return build(set, root)
}

func build(set *bsr.Set, b bsr.BSR) (*Node, error) {
	split, err := set.GetSplit(b)
	if err != nil {
		return nil, err
	}
	node := ntNode(b)
	for i, sym := range b.Label.Symbols() {
		var child *Node
		if sym.IsNonTerminal() {
			c, err := set.GetNTChildI(b, i)
			if err != nil {
				return nil, err
			}
			if child, err = build(set, c); err != nil {
				return nil, err
			}
		} else {
			tok, err := set.GetToken(split[i].Lext)
			if err != nil {
				return nil, err
			}
			child = &Node{Symbol: sym, Token: tok, Lext: split[i].Lext, Rext: split[i].Rext}
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func ntNode(b bsr.BSR) *Node {
	return &Node{
		Symbol: b.Label.Head(),
		BSR:    &b,
		Lext:   b.LeftExtent(),
		Rext:   b.RightExtent(),
	}
}

// Option configures BuildAll.
type Option func(*enumerator)

// MaxTrees limits the number of trees BuildAll returns. n < 1 is ignored.
func MaxTrees(n int) Option {
	return func(e *enumerator) {
		if n > 0 {
			e.max = n
		}
	}
}

// BuildAll returns the parse trees for all the roots of set, enumerating every
// combination of alternative derivations of non-terminals. If there are more
// than MaxTrees trees, BuildAll returns the first ones together with
// ErrTooManyTrees.
//
// Every split of an alternate recorded by string BSRs yields trees of its own.
// Cyclic derivations are not expanded.
func BuildAll(set *bsr.Set, opts ...Option) ([]*Node, error) {
	e := &enumerator{
		set:    set,
		max:    DefaultMaxTrees,
		active: make(map[bsr.BSR]bool),
		memo:   make(map[bsr.BSR][]*Node),
	}
	for _, opt := range opts {
		opt(e)
	}
	roots := set.GetRoots()
	if len(roots) == 0 {
		_, err := set.GetRoot()
		return nil, err
	}
	var trees []*Node
	for _, r := range roots {
		ts, err := e.expand(r)
		if err != nil {
			return nil, err
		}
		trees = append(trees, ts...)
	}
	tracer().Infof("%d parse tree(s) for %d root(s)", len(trees), len(roots))
	if len(trees) > e.max || e.truncated {
		if len(trees) > e.max {
			trees = trees[:e.max]
		}
		return trees, ErrTooManyTrees
	}
	return trees, nil
}

type enumerator struct {
	set       *bsr.Set
	max       int
	truncated bool
	active    map[bsr.BSR]bool    // BSRs on the current path
	memo      map[bsr.BSR][]*Node // trees per BSR
}

// expand returns up to e.max trees for b, one per combination of prefix
// splits and alternative derivations of its non-terminals.
func (e *enumerator) expand(b bsr.BSR) ([]*Node, error) {
	if trees, ok := e.memo[b]; ok {
		return trees, nil
	}
	if e.active[b] {
		tracer().Debugf("cyclic derivation of %s", b)
		return nil, nil
	}
	e.active[b] = true
	defer delete(e.active, b)
	//
	splits, err := e.set.GetSplits(b)
	if err != nil {
		return nil, err
	}
	var trees []*Node
	for _, split := range splits {
		// partials holds the children lists of all combinations so far
		partials := arraylist.New([]*Node{})
		for i, sym := range b.Label.Symbols() {
			choices, err := e.choices(sym, split[i])
			if err != nil {
				return nil, err
			}
			partials = e.combine(partials, choices)
		}
		it := partials.Iterator()
		for it.Next() {
			if len(trees) == e.max {
				e.truncated = true
				break
			}
			node := ntNode(b)
			node.Children = it.Value().([]*Node)
			trees = append(trees, node)
		}
	}
	e.memo[b] = trees
	return trees, nil
}

// choices returns the alternative sub-trees for sym over ext.
func (e *enumerator) choices(sym slot.Symbol, ext bsr.Extent) ([]*Node, error) {
	nt, ok := slot.ToNT(sym)
	if !ok {
		tok, err := e.set.GetToken(ext.Lext)
		if err != nil {
			return nil, err
		}
		return []*Node{{Symbol: sym, Token: tok, Lext: ext.Lext, Rext: ext.Rext}}, nil
	}
	children, err := e.set.GetNTSlot(nt, ext.Lext, ext.Rext)
	if err != nil {
		return nil, err
	}
	var choices []*Node
	for _, c := range children {
		ts, err := e.expand(c)
		if err != nil {
			return nil, err
		}
		choices = append(choices, ts...)
	}
	return choices, nil
}

// combine extends every children list in partials by every node in choices.
// The result is cut off at e.max entries.
func (e *enumerator) combine(partials *arraylist.List, choices []*Node) *arraylist.List {
	result := arraylist.New()
	it := partials.Iterator()
	for it.Next() {
		prefix := it.Value().([]*Node)
		for _, c := range choices {
			if result.Size() == e.max {
				e.truncated = true
				return result
			}
			children := make([]*Node, len(prefix), len(prefix)+1)
			copy(children, prefix)
			result.Add(append(children, c))
		}
	}
	return result
}

// String renders the tree below n, one node per line, indented by depth.
func (n *Node) String() string {
	type item struct {
		node  *Node
		depth int
	}
	var sb strings.Builder
	stack := arraystack.New()
	stack.Push(item{n, 0})
	for !stack.Empty() {
		v, _ := stack.Pop()
		it := v.(item)
		sb.WriteString(strings.Repeat("  ", it.depth))
		sb.WriteString(it.node.label())
		sb.WriteByte('\n')
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack.Push(item{it.node.Children[i], it.depth + 1})
		}
	}
	return sb.String()
}

func (n *Node) label() string {
	if n.Token != nil {
		return fmt.Sprintf("%s %q", n.Symbol, n.Token.Text())
	}
	if n.Lext == n.Rext {
		return fmt.Sprintf("%s ε", n.Symbol)
	}
	return fmt.Sprintf("%s [%d,%d)", n.Symbol, n.Lext, n.Rext)
}

// Leaves returns the tokens of the terminal leaves below n, left to right.
func (n *Node) Leaves() []*lexer.Token {
	var tokens []*lexer.Token
	stack := arraystack.New()
	stack.Push(n)
	for !stack.Empty() {
		v, _ := stack.Pop()
		node := v.(*Node)
		if node.Token != nil {
			tokens = append(tokens, node.Token)
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack.Push(node.Children[i])
		}
	}
	return tokens
}
