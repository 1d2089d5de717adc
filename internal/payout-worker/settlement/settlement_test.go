package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intp(i int) *int { return &i }

func catalogueTip(id, user string, answer int, currency string) *Tip {
	return &Tip{ID: id, BetID: "bet-1", GameID: "game-1", UserID: user, AnswerID: intp(answer), Currency: d(currency)}
}

func scaleTip(id, user, answer, currency string) *Tip {
	return &Tip{ID: id, BetID: "bet-1", GameID: "game-1", UserID: user, AnswerDecimal: decimal.NewNullDecimal(d(answer)), Currency: d(currency)}
}

func catalogueBet(correct ...int) *Bet {
	return &Bet{
		ID:               "bet-1",
		GameID:           "game-1",
		BetType:          Catalogue,
		CorrectAnswerIDs: correct,
		CatalogueAnswers: map[int]CatalogueAnswer{
			0: {Odds: d("1.5")},
			1: {Odds: d("2.0")},
			2: {Odds: d("3.0")},
		},
	}
}

func scaleBet(correct, winRate, odds string) *Bet {
	return &Bet{
		ID:                   "bet-1",
		GameID:               "game-1",
		BetType:              Scale,
		CorrectAnswerDecimal: d(correct),
		ScaleOptions:         ScaleOptions{WinRate: d(winRate), Odds: d(odds)},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, d(want).String(), got.String(), msgAndArgs...)
}

func TestComputeCatalogueRedistributesLoserPot(t *testing.T) {
	a := catalogueTip("A", "u1", 0, "100")
	b := catalogueTip("B", "u2", 1, "50")

	s, err := Compute(catalogueBet(1), []*Tip{a, b})
	require.NoError(t, err)

	assertDecimal(t, "50", s.Winners.PossibleGain)
	assertDecimal(t, "100", s.Losers.PossibleLoss)
	assertDecimal(t, "50", s.Winners.ActualGain)
	assertDecimal(t, "50", s.Losers.ActualLoss)

	assertDecimal(t, "50", b.Diff)
	assertDecimal(t, "100", b.Inc)
	assertDecimal(t, "-50", a.Diff)
	assertDecimal(t, "50", a.Inc)
	assert.True(t, s.TotalDiff().IsZero())
}

func TestComputeCapsGainAtLoserPot(t *testing.T) {
	// vencedor poderia ganhar 200 (odds 3), mas só há 30 no pote perdedor
	winner := catalogueTip("W", "u1", 2, "100")
	loser := catalogueTip("L", "u2", 0, "30")

	s, err := Compute(catalogueBet(2), []*Tip{winner, loser})
	require.NoError(t, err)

	assertDecimal(t, "200", s.Winners.PossibleGain)
	assertDecimal(t, "30", s.Winners.ActualGain)
	assertDecimal(t, "30", winner.Diff)
	assertDecimal(t, "-30", loser.Diff)
	assertDecimal(t, "0", loser.Inc)
}

func TestComputeSplitsByStakeInsideStack(t *testing.T) {
	w1 := catalogueTip("W1", "u1", 1, "10")
	w2 := catalogueTip("W2", "u2", 1, "30")
	l1 := catalogueTip("L1", "u3", 0, "25")
	l2 := catalogueTip("L2", "u4", 2, "75")

	s, err := Compute(catalogueBet(1), []*Tip{w1, l1, w2, l2})
	require.NoError(t, err)

	// possibleGain = (2-1)*40 = 40 < possibleLoss 100
	assertDecimal(t, "40", s.Winners.ActualGain)
	assertDecimal(t, "10", w1.Diff)
	assertDecimal(t, "30", w2.Diff)
	assertDecimal(t, "-10", l1.Diff)
	assertDecimal(t, "-30", l2.Diff)
	assertDecimal(t, "15", l1.Inc)
	assert.True(t, s.TotalDiff().IsZero())
}

func TestComputeZeroSumWithUnevenShares(t *testing.T) {
	tips := []*Tip{
		catalogueTip("W1", "u1", 1, "1"),
		catalogueTip("W2", "u2", 1, "1"),
		catalogueTip("W3", "u3", 1, "1"),
		catalogueTip("L1", "u4", 0, "0.7"),
		catalogueTip("L2", "u5", 2, "0.3"),
	}

	s, err := Compute(catalogueBet(1), tips)
	require.NoError(t, err)

	assertDecimal(t, "1", s.Winners.ActualGain)
	assert.True(t, s.TotalDiff().IsZero(), "total diff %s", s.TotalDiff())

	gain := decimal.Zero
	for _, tip := range tips[:3] {
		gain = gain.Add(tip.Diff)
	}
	assertDecimal(t, "1", gain)
}

func TestComputeNoWinnersMovesNothing(t *testing.T) {
	a := catalogueTip("A", "u1", 0, "100")
	b := catalogueTip("B", "u2", 2, "40")

	s, err := Compute(catalogueBet(1), []*Tip{a, b})
	require.NoError(t, err)

	assert.Empty(t, s.Winners.Stacks)
	assertDecimal(t, "0", s.Winners.ActualGain)
	assertDecimal(t, "0", s.Losers.ActualLoss)
	for _, tip := range []*Tip{a, b} {
		assertDecimal(t, "0", tip.Diff)
		assert.True(t, tip.Inc.Equal(tip.Currency))
	}
}

func TestComputeNoLosersMovesNothing(t *testing.T) {
	a := catalogueTip("A", "u1", 1, "100")

	s, err := Compute(catalogueBet(1), []*Tip{a})
	require.NoError(t, err)

	assertDecimal(t, "100", s.Winners.PossibleGain)
	assertDecimal(t, "0", s.Winners.ActualGain)
	assertDecimal(t, "0", a.Diff)
	assertDecimal(t, "100", a.Inc)
}

func TestComputeAbortedBetEveryoneLoses(t *testing.T) {
	bet := catalogueBet(1)
	bet.IsAborted = true
	a := catalogueTip("A", "u1", 0, "100")
	b := catalogueTip("B", "u2", 1, "50")

	s, err := Compute(bet, []*Tip{a, b})
	require.NoError(t, err)

	assert.Empty(t, s.Winners.Stacks)
	assert.Len(t, s.Losers.Stacks, 2)
	assertDecimal(t, "0", s.Losers.ActualLoss)
	assertDecimal(t, "0", a.Diff)
	assertDecimal(t, "50", b.Inc)
}

func TestComputeUnknownWinningOutcome(t *testing.T) {
	bet := catalogueBet(7)
	tips := []*Tip{catalogueTip("A", "u1", 7, "10"), catalogueTip("B", "u2", 0, "10")}

	_, err := Compute(bet, tips)
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestComputeMalformedTip(t *testing.T) {
	tip := &Tip{ID: "A", Currency: d("10")}

	_, err := Compute(catalogueBet(1), []*Tip{tip})
	assert.ErrorIs(t, err, ErrMalformedTip)

	_, err = Compute(scaleBet("10", "50", "1.8"), []*Tip{tip})
	assert.ErrorIs(t, err, ErrMalformedTip)
}

func TestComputeEmpty(t *testing.T) {
	s, err := Compute(catalogueBet(1), nil)
	require.NoError(t, err)
	assert.Empty(t, s.Tips())
	assert.True(t, s.TotalDiff().IsZero())
}

func TestComputeScale(t *testing.T) {
	near := scaleTip("N", "u1", "10.2", "20")
	mid := scaleTip("M", "u2", "9.5", "30")
	far := scaleTip("F", "u3", "15.0", "50")

	s, err := Compute(scaleBet("10.0", "50", "1.8"), []*Tip{mid, near, far})
	require.NoError(t, err)

	// possibleGain = 0.8 * 50 = 40 < possibleLoss 50
	assertDecimal(t, "40", s.Winners.ActualGain)
	assertDecimal(t, "16", near.Diff)
	assertDecimal(t, "24", mid.Diff)
	assertDecimal(t, "-40", far.Diff)
	assertDecimal(t, "10", far.Inc)
	assert.True(t, s.TotalDiff().IsZero())
}

func TestComputeRejectsStakeFinerThanPlaces(t *testing.T) {
	tips := []*Tip{
		catalogueTip("W", "u1", 2, "100"),
		catalogueTip("L1", "u2", 0, "0.00015"),
		catalogueTip("L2", "u3", 1, "0.00015"),
	}

	_, err := Compute(catalogueBet(2), tips)
	assert.ErrorIs(t, err, ErrStakePrecision)
}

func TestComputeTinyLosersNeverLoseMoreThanStake(t *testing.T) {
	tips := []*Tip{
		catalogueTip("W", "u1", 2, "100"),
		catalogueTip("L1", "u2", 0, "0.0001"),
		catalogueTip("L2", "u3", 1, "0.0003"),
	}

	s, err := Compute(catalogueBet(2), tips)
	require.NoError(t, err)
	assertDecimal(t, "-0.0001", tips[1].Diff)
	assertDecimal(t, "-0.0003", tips[2].Diff)
	assertDecimal(t, "0.0004", tips[0].Diff)
	assert.True(t, s.TotalDiff().IsZero())
}

func TestValidStake(t *testing.T) {
	assert.True(t, ValidStake(d("10")))
	assert.True(t, ValidStake(d("0.0001")))
	assert.True(t, ValidStake(d("1.50000"))) // zeros à direita não contam
	assert.False(t, ValidStake(d("0.00015")))
	assert.False(t, ValidStake(d("0")))
	assert.False(t, ValidStake(d("-1")))
}
