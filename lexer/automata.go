package lexer

import (
	"context"
	"fmt"

	pool "github.com/jolestar/go-commons-pool"
	"github.com/npillmayer/bsr/slot"
)

// NfaStateFn represents a state in a non-deterministic finite automata
// matching a terminal's literal.
//
// The first argument is the Recognizer carrying the state function.
// After matching a rune, a NfaStateFn returns the next NfaStateFn to be
// called for the next rune. Matching stops as soon as a NfaStateFn returns nil.
type NfaStateFn func(*Recognizer, rune) NfaStateFn

// A Recognizer is an automata to recognize the literal of a terminal.
// Its main functionality is performed by an embedded NfaStateFn.
//
// State functions must increment MatchLen with each matched rune.
type Recognizer struct {
	Terminal slot.T     // terminal to recognize
	MatchLen int        // length of active match
	literal  []rune     // runes to match
	accepted bool       // set by DoAccept
	nextStep NfaStateFn // next step of the automata
}

// Recognizers live for the duration of one match attempt. To avoid multiple
// allocation of small objects we will pool them.
type recognizerPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalRecognizerPool *recognizerPool

func init() {
	globalRecognizerPool = &recognizerPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			rec := &Recognizer{}
			return rec, nil
		})
	globalRecognizerPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalRecognizerPool.opool = pool.NewObjectPool(globalRecognizerPool.ctx, factory, config)
}

// newPooledRecognizer returns a Recognizer for a terminal literal, taken from a pool.
func newPooledRecognizer(t slot.T, literal []rune) *Recognizer {
	o, err := globalRecognizerPool.opool.BorrowObject(globalRecognizerPool.ctx)
	if err != nil {
		tracer().Errorf("cannot borrow recognizer: %v", err)
		o = &Recognizer{}
	}
	rec := o.(*Recognizer)
	rec.Terminal = t
	rec.literal = literal
	rec.nextStep = matchLiteral
	return rec
}

// Clears the Recognizer and puts it back into the pool.
func (rec *Recognizer) releaseIntoPool() {
	rec.Terminal = slot.T{}
	rec.literal = nil
	rec.MatchLen = 0
	rec.accepted = false
	rec.nextStep = nil
	_ = globalRecognizerPool.opool.ReturnObject(globalRecognizerPool.ctx, rec)
}

func (rec *Recognizer) String() string {
	if rec == nil {
		return "[nil recognizer]"
	}
	return fmt.Sprintf("[%s -> done=%v]", rec.Terminal, rec.Done())
}

// Done is true if the Recognizer is done matching runes.
// If Accepted() is true it has matched the complete literal,
// otherwise it has aborted.
func (rec *Recognizer) Done() bool {
	return rec.nextStep == nil
}

// Accepted is true if the complete literal has been matched.
func (rec *Recognizer) Accepted() bool {
	return rec.Done() && rec.accepted
}

// RuneEvent lets the Recognizer process the next rune.
func (rec *Recognizer) RuneEvent(r rune) {
	if rec.nextStep != nil {
		rec.nextStep = rec.nextStep(rec, r)
	}
}

// matchLiteral is the single state of a literal recognizer: the rune at
// position MatchLen of the literal is expected.
func matchLiteral(rec *Recognizer, r rune) NfaStateFn {
	if rec.MatchLen >= len(rec.literal) || rec.literal[rec.MatchLen] != r {
		return DoAbort(rec)
	}
	if rec.MatchLen+1 == len(rec.literal) {
		return DoAccept(rec)
	}
	rec.MatchLen++
	return matchLiteral
}

// DoAbort returns a state function which signals abort.
func DoAbort(rec *Recognizer) NfaStateFn {
	rec.MatchLen = 0
	return nil
}

// DoAccept returns a state function which signals accept.
func DoAccept(rec *Recognizer) NfaStateFn {
	rec.MatchLen++
	rec.accepted = true
	return nil
}

// --- Publishing runes to recognizers ---------------------------------------

// publisher distributes runes to a set of active recognizers and keeps track
// of the longest accepted match.
type publisher struct {
	active []*Recognizer
	best   *Recognizer
}

func (pub *publisher) subscribe(rec *Recognizer) {
	pub.active = append(pub.active, rec)
}

// publish sends r to all active recognizers and returns the number of
// recognizers which are still active. Recognizers which are done are released
// into the pool, except for the longest accepting one.
func (pub *publisher) publish(r rune) int {
	stillActive := pub.active[:0]
	for _, rec := range pub.active {
		rec.RuneEvent(r)
		if !rec.Done() {
			stillActive = append(stillActive, rec)
			continue
		}
		if rec.Accepted() && (pub.best == nil || rec.MatchLen > pub.best.MatchLen) {
			if pub.best != nil {
				pub.best.releaseIntoPool()
			}
			pub.best = rec
			continue
		}
		rec.releaseIntoPool()
	}
	pub.active = stillActive
	return len(pub.active)
}

// result returns the terminal and length of the longest match and releases
// all recognizers. ok is false if no recognizer accepted.
func (pub *publisher) result() (t slot.T, length int, ok bool) {
	for _, rec := range pub.active {
		rec.releaseIntoPool()
	}
	pub.active = pub.active[:0]
	if pub.best == nil {
		return slot.T{}, 0, false
	}
	t, length = pub.best.Terminal, pub.best.MatchLen
	pub.best.releaseIntoPool()
	pub.best = nil
	return t, length, true
}
