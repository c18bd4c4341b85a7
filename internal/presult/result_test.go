package presult_test

import (
	"errors"
	"testing"

	"github.com/briarscript/briar/internal/presult"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	v, err := presult.Unwrap(presult.Succeed(42, 3))
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = presult.Unwrap(presult.Fail[int](1))
	require.Error(t, err)
	var pe presult.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, presult.FinishedOnFail, pe.Kind)

	_, err = presult.Unwrap(presult.Err[int](presult.Error{Kind: presult.FailedOnValidation, Pos: 2}))
	require.Error(t, err)
}

func TestOrValRecoversSoftFailuresOnly(t *testing.T) {
	got := presult.OrVal(presult.Fail[int](5), 0)
	assert.Equal(t, 0, got.Value())
	assert.Equal(t, 5, got.Pos())

	got = presult.OrVal(presult.EOF[int](7), -1)
	assert.Equal(t, -1, got.Value())
	assert.Equal(t, 7, got.Pos())

	hard := presult.Err[int](presult.Error{Kind: presult.FailedOnValidation, Pos: 1})
	got = presult.OrVal(hard, 9)
	assert.True(t, got.IsError())
}

func TestOrTriesAlternativeFromSoftFailPosition(t *testing.T) {
	calledAt := -1
	g := func(pos int) presult.Result[string] {
		calledAt = pos
		return presult.Succeed("ok", pos+1)
	}

	r := presult.Or(presult.Fail[string](3), g)
	require.True(t, r.IsSuccess())
	assert.Equal(t, 3, calledAt)
	assert.Equal(t, 4, r.Pos())

	calledAt = -1
	r = presult.Or(presult.EOF[string](3), g)
	require.True(t, r.IsSuccess())
	assert.Equal(t, 3, calledAt)

	hardErr := presult.Error{Kind: presult.FailedOnValidation, Pos: 9}
	calledAt = -1
	r = presult.Or(presult.Err[string](hardErr), g)
	assert.Equal(t, -1, calledAt)
	assert.True(t, r.IsError())
}

func TestAltIsAnchoredNotFarthestPosition(t *testing.T) {
	var seenPositions []int
	branch := func(ok bool, consume int) func(int) presult.Result[string] {
		return func(pos int) presult.Result[string] {
			seenPositions = append(seenPositions, pos)
			if ok {
				return presult.Succeed("hit", pos+consume)
			}
			return presult.Fail[string](pos + consume)
		}
	}

	a := presult.StartAlt(0, branch(false, 4))
	a = a.Or(branch(false, 2))
	a = a.Or(branch(true, 1))

	assert.Equal(t, []int{0, 0, 0}, seenPositions, "every branch must restart from the anchor, not an intermediate fail position")

	r := a.Result()
	require.True(t, r.IsSuccess())
	assert.Equal(t, "hit", r.Value())
	assert.Equal(t, 1, r.Pos())
}

func TestAltAllFailCarriesAnchor(t *testing.T) {
	a := presult.StartAlt(5, func(pos int) presult.Result[int] { return presult.Fail[int](pos + 100) })
	a = a.Or(func(pos int) presult.Result[int] { return presult.EOF[int](pos + 1) })

	r := a.Result()
	assert.True(t, r.IsFail())
	assert.Equal(t, 5, r.Pos())
}

func TestZeroOrMoreNeverFails(t *testing.T) {
	r := presult.ZeroOrMore(3, func(pos int) presult.Result[int] { return presult.Fail[int](pos) })
	require.True(t, r.IsSuccess())
	assert.Empty(t, r.Value())
	assert.Equal(t, 3, r.Pos())
}

func TestOneOrMoreCollectsConsecutiveSuccesses(t *testing.T) {
	calls := 0
	f := func(pos int) presult.Result[int] {
		calls++
		if pos < 3 {
			return presult.Succeed(pos, pos+1)
		}
		return presult.Fail[int](pos)
	}

	r := presult.OneOrMore(0, f)
	require.True(t, r.IsSuccess())
	assert.Equal(t, []int{0, 1, 2}, r.Value())
	assert.Equal(t, 3, r.Pos())
}

func TestValidateEOFRejectsLeftoverTokens(t *testing.T) {
	r := presult.ValidateEOF(presult.Succeed("done", 3), 5)
	require.True(t, r.IsError())
	assert.Equal(t, presult.UnreachedEOF, r.Error().Kind)

	r = presult.ValidateEOF(presult.Succeed("done", 5), 5)
	assert.True(t, r.IsSuccess())
}

func TestMapPassesThroughNonSuccess(t *testing.T) {
	r := presult.Map(presult.Fail[int](2), func(v int) string { return "x" })
	assert.True(t, r.IsFail())

	r = presult.Map(presult.Succeed(2, 3), func(v int) string { return "doubled" })
	assert.True(t, r.IsSuccess())
	assert.Equal(t, "doubled", r.Value())
}

func TestThenCombineShortCircuitsOnFail(t *testing.T) {
	called := false
	g := func(pos int) presult.Result[int] {
		called = true
		return presult.Succeed(pos, pos+1)
	}
	r := presult.ThenCombine(presult.Fail[string](4), g, func(a string, b int) string { return a })
	assert.False(t, called)
	assert.True(t, r.IsFail())
}

func TestThenOrDefaultCombineFillsSoftFailure(t *testing.T) {
	r := presult.ThenOrDefaultCombine(
		presult.Succeed("head", 2),
		func(pos int) presult.Result[int] { return presult.Fail[int](pos) },
		-1,
		func(a string, b int) presult.Pair[string, int] { return presult.Pair[string, int]{Left: a, Right: b} },
	)
	require.True(t, r.IsSuccess())
	assert.Equal(t, -1, r.Value().Right)
	assert.Equal(t, 2, r.Pos())
}
