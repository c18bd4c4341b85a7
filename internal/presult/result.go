// Package presult implements the parser's result algebra: a three-valued
// ParseResult type (Success / Fail / Error) and the combinators used to
// compose grammar rules out of smaller ones.
//
// A grammar rule has the shape func(pos int) Result[T]. Success carries a
// value and the cursor position to resume from; Fail means the rule did not
// match at pos but an alternative may still be tried; Error is a hard
// failure that short-circuits every enclosing alternative up to the root,
// except for ReachedEOF, which the alternation and default combinators
// (Or, OrVal, OrNone, Alt, the ThenOr* family, ZeroOrMore) treat exactly
// like Fail; Map, Then, ThenCombine, ThenZip and Validate pass it through.
//
// Nothing here mutates a Result once built: combinators always return a new
// value, matching the source algebra's zero-mutation discipline.
package presult

import (
	"fmt"

	"github.com/briarscript/briar/pkg/token"
)

// ErrorKind is the closed set of hard-error variants.
type ErrorKind int

const (
	// BadToken signals the lexer could not classify a byte range.
	BadToken ErrorKind = iota
	// FailedOnValidation signals a Validate predicate rejected a value.
	FailedOnValidation
	// FinishedOnFail is produced by the root when every top-level
	// alternative ends in Fail.
	FinishedOnFail
	// ReachedEOF signals the cursor ran past the end of the token vector.
	// It is the one "soft" error: alternation and default combinators
	// recover from it exactly as they would from Fail.
	ReachedEOF
	// UnreachedEOF signals ValidateEOF found leftover tokens after a
	// Success.
	UnreachedEOF
)

// Error is a hard parse failure. Pos is the token index at which the error
// was raised; Lexeme/Span are populated only for BadToken.
type Error struct {
	Kind    ErrorKind
	Message string
	Lexeme  string
	Span    token.Span
	Pos     int
}

func (e Error) Error() string {
	switch e.Kind {
	case BadToken:
		return fmt.Sprintf("bad token %q at %d:%d", e.Lexeme, e.Span.Start, e.Span.End)
	case FailedOnValidation:
		return fmt.Sprintf("validation failed at token %d: %s", e.Pos, e.Message)
	case FinishedOnFail:
		return "parse did not match any alternative"
	case ReachedEOF:
		return fmt.Sprintf("reached end of input at token %d", e.Pos)
	case UnreachedEOF:
		return fmt.Sprintf("unconsumed tokens starting at %d", e.Pos)
	default:
		return "unknown parse error"
	}
}

// kind tags which of the three Result variants is populated.
type kind int

const (
	isSuccess kind = iota
	isFail
	isError
)

// Result is the sum type ParseResult<T>. Zero value is not meaningful;
// always construct via Succeed, Fail, Err, or EOF.
type Result[T any] struct {
	tag   kind
	value T
	pos   int
	err   Error
}

// Succeed builds a Success(value, nextPos).
func Succeed[T any](value T, nextPos int) Result[T] {
	return Result[T]{tag: isSuccess, value: value, pos: nextPos}
}

// Fail builds a Fail(farthestPos).
func Fail[T any](farthestPos int) Result[T] {
	return Result[T]{tag: isFail, pos: farthestPos}
}

// Err builds an Error(kind) result.
func Err[T any](e Error) Result[T] {
	return Result[T]{tag: isError, err: e}
}

// EOF builds the soft Error(ReachedEOF(pos)) result.
func EOF[T any](pos int) Result[T] {
	return Err[T](Error{Kind: ReachedEOF, Pos: pos})
}

// IsSuccess, IsFail and IsError report the active variant.
func (r Result[T]) IsSuccess() bool { return r.tag == isSuccess }
func (r Result[T]) IsFail() bool    { return r.tag == isFail }
func (r Result[T]) IsError() bool   { return r.tag == isError }

// isSoftFail reports whether r is a Fail or a ReachedEOF error — the two
// variants that alternation and default combinators recover from.
func (r Result[T]) isSoftFail() bool {
	return r.tag == isFail || (r.tag == isError && r.err.Kind == ReachedEOF)
}

// softPos returns the position carried by a soft failure.
func (r Result[T]) softPos() int {
	if r.tag == isFail {
		return r.pos
	}
	return r.err.Pos
}

// Value returns the value carried by a Success; for Fail and Error it is
// the zero value of T. Used by callers that have already checked IsSuccess.
func (r Result[T]) Value() T { return r.value }

// Pos returns the cursor carried by a Success.
func (r Result[T]) Pos() int { return r.pos }

// Error returns the Error payload; meaningful only when IsError.
func (r Result[T]) Error() Error { return r.err }

// Unwrap converts a Result into a plain (T, error), turning a terminal Fail
// into an Error of kind FinishedOnFail the way the root grammar call does.
func Unwrap[T any](r Result[T]) (T, error) {
	switch r.tag {
	case isSuccess:
		return r.value, nil
	case isFail:
		var zero T
		return zero, Error{Kind: FinishedOnFail}
	default:
		var zero T
		return zero, r.err
	}
}

// Map transforms a Success value; Fail/Error pass through unchanged.
func Map[T, R any](r Result[T], f func(T) R) Result[R] {
	switch r.tag {
	case isSuccess:
		return Succeed(f(r.value), r.pos)
	case isFail:
		return Fail[R](r.pos)
	default:
		return Err[R](r.err)
	}
}

// Opt pairs a value with a Present flag; used by Ok/OrNone to model
// Option<T> without a dedicated generic type per call site.
type Opt[T any] struct {
	Present bool
	Value   T
}

// Ok maps Success(v) to Success(Opt{true, v}).
func Ok[T any](r Result[T]) Result[Opt[T]] {
	return Map(r, func(v T) Opt[T] { return Opt[T]{Present: true, Value: v} })
}

// OrVal recovers a soft failure into Success(def, pos); other results pass
// through unchanged.
func OrVal[T any](r Result[T], def T) Result[T] {
	if r.isSoftFail() {
		return Succeed(def, r.softPos())
	}
	return r
}

// OrNone is Ok followed by OrVal(None): a missing optional part becomes
// Success(Opt{false}, pos) instead of propagating the failure.
func OrNone[T any](r Result[T]) Result[Opt[T]] {
	return OrVal(Ok(r), Opt[T]{})
}

// Or invokes g at the farthest soft-fail position when r soft-fails;
// any other Error short-circuits straight to the caller.
func Or[T any](r Result[T], g func(pos int) Result[T]) Result[T] {
	if r.isSoftFail() {
		return g(r.softPos())
	}
	return r
}

// Alt is anchored alternation: every .Or clause restarts from the same
// anchor position the chain was started at, never from an intermediate
// soft-fail position, rather than resuming from whichever alternative got
// furthest before failing.
type Alt[T any] struct {
	anchor int
	res    Result[T]
}

// StartAlt begins an anchored alternation at pos by trying f first.
func StartAlt[T any](pos int, f func(int) Result[T]) Alt[T] {
	return Alt[T]{anchor: pos, res: f(pos)}
}

// Or tries g, anchored at the alternation's original position, if the chain
// so far is a soft failure.
func (a Alt[T]) Or(g func(int) Result[T]) Alt[T] {
	if a.res.isSoftFail() {
		return Alt[T]{anchor: a.anchor, res: g(a.anchor)}
	}
	return a
}

// Result returns the alternation's outcome. When every alternative failed,
// the Fail carries the anchor position.
func (a Alt[T]) Result() Result[T] {
	if a.res.isSoftFail() {
		return Fail[T](a.anchor)
	}
	return a.res
}

// Pair is the product of two Results kept together by ThenZip and friends.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// TakeLeft projects a Pair result down to its left element.
func TakeLeft[L, R any](r Result[Pair[L, R]]) Result[L] {
	return Map(r, func(p Pair[L, R]) L { return p.Left })
}

// TakeRight projects a Pair result down to its right element.
func TakeRight[L, R any](r Result[Pair[L, R]]) Result[R] {
	return Map(r, func(p Pair[L, R]) R { return p.Right })
}

// ThenCombine sequences r then g(pos), combining both values on success.
func ThenCombine[T, Rhs, Res any](r Result[T], g func(int) Result[Rhs], combine func(T, Rhs) Res) Result[Res] {
	switch r.tag {
	case isSuccess:
		switch n := g(r.pos); n.tag {
		case isSuccess:
			return Succeed(combine(r.value, n.value), n.pos)
		case isFail:
			return Fail[Res](n.pos)
		default:
			return Err[Res](n.err)
		}
	case isFail:
		return Fail[Res](r.pos)
	default:
		return Err[Res](r.err)
	}
}

// Then sequences r then g(pos), discarding r's value.
func Then[T, Rhs any](r Result[T], g func(int) Result[Rhs]) Result[Rhs] {
	return ThenCombine(r, g, func(_ T, k Rhs) Rhs { return k })
}

// ThenZip sequences r then g(pos), keeping both values as a Pair.
func ThenZip[T, Rhs any](r Result[T], g func(int) Result[Rhs]) Result[Pair[T, Rhs]] {
	return ThenCombine(r, g, func(a T, b Rhs) Pair[T, Rhs] { return Pair[T, Rhs]{a, b} })
}

// ThenOrDefaultCombine is ThenCombine, but a soft failure from g is
// recovered into Success(combine(t, def), pos) instead of propagating.
func ThenOrDefaultCombine[T, Rhs, Res any](r Result[T], g func(int) Result[Rhs], def Rhs, combine func(T, Rhs) Res) Result[Res] {
	switch r.tag {
	case isSuccess:
		n := g(r.pos)
		switch {
		case n.tag == isSuccess:
			return Succeed(combine(r.value, n.value), n.pos)
		case n.isSoftFail():
			return Succeed(combine(r.value, def), n.softPos())
		default:
			return Err[Res](n.err)
		}
	case isFail:
		return Fail[Res](r.pos)
	default:
		return Err[Res](r.err)
	}
}

// ThenOrValZip sequences r then g, filling in def when g soft-fails.
func ThenOrValZip[T, Rhs any](r Result[T], g func(int) Result[Rhs], def Rhs) Result[Pair[T, Rhs]] {
	return ThenOrDefaultCombine(r, g, def, func(a T, b Rhs) Pair[T, Rhs] { return Pair[T, Rhs]{a, b} })
}

// ThenOrNoneZip sequences r then g, filling in Opt{} when g soft-fails.
func ThenOrNoneZip[T, Rhs any](r Result[T], g func(int) Result[Opt[Rhs]]) Result[Pair[T, Opt[Rhs]]] {
	return ThenOrValZip(r, g, Opt[Rhs]{})
}

// ThenOrDefaultZip sequences r then g, filling in the zero value of Rhs
// when g soft-fails.
func ThenOrDefaultZip[T, Rhs any](r Result[T], g func(int) Result[Rhs]) Result[Pair[T, Rhs]] {
	var zero Rhs
	return ThenOrValZip(r, g, zero)
}

// ThenMultiCombine runs g greedily after r, collecting every consecutive
// Success into a slice and stopping at the first non-Success.
func ThenMultiCombine[T, K, R any](r Result[T], g func(int) Result[K], combine func(T, []K) R) Result[R] {
	switch r.tag {
	case isSuccess:
		var vals []K
		pos := r.pos
		for {
			n := g(pos)
			if !n.IsSuccess() {
				break
			}
			vals = append(vals, n.value)
			pos = n.pos
		}
		return Succeed(combine(r.value, vals), pos)
	case isFail:
		return Fail[R](r.pos)
	default:
		return Err[R](r.err)
	}
}

// ThenMultiZip runs g greedily after r, zipping the head with the
// collected tail.
func ThenMultiZip[T, R any](r Result[T], g func(int) Result[R]) Result[Pair[T, []R]] {
	return ThenMultiCombine(r, g, func(h T, tail []R) Pair[T, []R] { return Pair[T, []R]{h, tail} })
}

// Merge flattens a (head, tail) pair produced by ThenMultiZip into a single
// slice with head prepended.
func Merge[T any](r Result[Pair[T, []T]]) Result[[]T] {
	return Map(r, func(p Pair[T, []T]) []T {
		out := make([]T, 0, len(p.Right)+1)
		out = append(out, p.Left)
		out = append(out, p.Right...)
		return out
	})
}

// Validate runs pred after a Success; a non-nil error becomes
// Error(FailedOnValidation).
func Validate[T any](r Result[T], pred func(T) error) Result[T] {
	if r.tag != isSuccess {
		return r
	}
	if err := pred(r.value); err != nil {
		return Err[T](Error{Kind: FailedOnValidation, Message: err.Error(), Pos: r.pos})
	}
	return r
}

// OneOrMore requires at least one Success from f, then greedily collects
// more starting from the position after the first.
func OneOrMore[T any](pos int, f func(int) Result[T]) Result[[]T] {
	return Merge(ThenMultiZip(f(pos), f))
}

// ZeroOrMore is like OneOrMore but returns Success([], pos) instead of
// propagating an initial soft failure; it never itself fails.
func ZeroOrMore[T any](pos int, f func(int) Result[T]) Result[[]T] {
	r := OneOrMore(pos, f)
	if r.isSoftFail() {
		return Succeed([]T{}, pos)
	}
	return r
}

// ValidateEOF replaces a Success that did not consume every token with
// Error(UnreachedEOF(pos)); anything else passes through unchanged.
func ValidateEOF[T any](r Result[T], tokenCount int) Result[T] {
	if r.tag == isSuccess && r.pos != tokenCount {
		return Err[T](Error{Kind: UnreachedEOF, Pos: r.pos})
	}
	return r
}
