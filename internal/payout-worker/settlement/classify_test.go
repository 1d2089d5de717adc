package settlement

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(stacks []*Stack) []string {
	out := make([]string, 0, len(stacks))
	for _, st := range stacks {
		switch a := st.Answer.(type) {
		case ScaleOutcome:
			out = append(out, a.Value.String())
		case CatalogueOutcome:
			out = append(out, strconv.Itoa(a.AnswerID))
		}
	}
	return out
}

func TestClassifyCatalogue(t *testing.T) {
	tips := []*Tip{
		catalogueTip("1", "u1", 0, "10"),
		catalogueTip("2", "u2", 1, "10"),
		catalogueTip("3", "u3", 2, "10"),
	}
	bet := catalogueBet(1, 2)

	s := Classify(bet, Partition(bet, tips))

	assert.Equal(t, []string{"1", "2"}, answers(s.Winners.Stacks))
	assert.Equal(t, []string{"0"}, answers(s.Losers.Stacks))
}

func TestClassifyScaleThreshold(t *testing.T) {
	tips := []*Tip{
		scaleTip("1", "u1", "9.5", "30"),
		scaleTip("2", "u2", "10.2", "20"),
		scaleTip("3", "u3", "15.0", "50"),
	}
	bet := scaleBet("10.0", "50", "1.8")

	s := Classify(bet, Partition(bet, tips))

	assert.Equal(t, []string{"10.2", "9.5"}, answers(s.Winners.Stacks))
	assert.Equal(t, []string{"15"}, answers(s.Losers.Stacks))
}

func TestClassifyScaleTieAtCutoffIsNotSplit(t *testing.T) {
	// threshold = floor(40 * 25 / 100) = 10
	tips := []*Tip{
		scaleTip("1", "u1", "11", "10"),
		scaleTip("2", "u2", "9", "10"),
		scaleTip("3", "u3", "13", "10"),
		scaleTip("4", "u4", "20", "10"),
	}
	bet := scaleBet("10", "25", "2")

	s := Classify(bet, Partition(bet, tips))

	// 11 vence (0 < 10); 9 empata em proximidade com 11 e é promovido
	assert.Equal(t, []string{"11", "9"}, answers(s.Winners.Stacks))
	assert.Equal(t, []string{"13", "20"}, answers(s.Losers.Stacks))
}

func TestClassifyScaleTieOnlyWithWinningPredecessor(t *testing.T) {
	// threshold = floor(30 * 10 / 100) = 3; o primeiro stack (sum 10) já passa
	tips := []*Tip{
		scaleTip("1", "u1", "10", "10"),
		scaleTip("2", "u2", "12", "10"),
		scaleTip("3", "u3", "8", "10"),
	}
	bet := scaleBet("10", "10", "2")

	s := Classify(bet, Partition(bet, tips))

	assert.Equal(t, []string{"10"}, answers(s.Winners.Stacks))
	assert.Equal(t, []string{"12", "8"}, answers(s.Losers.Stacks))
}

func TestClassifyScaleFloorsThreshold(t *testing.T) {
	// threshold = floor(3 * 50 / 100) = 1
	tips := []*Tip{
		scaleTip("1", "u1", "1", "1"),
		scaleTip("2", "u2", "2", "1"),
		scaleTip("3", "u3", "3", "1"),
	}
	bet := scaleBet("1", "50", "2")

	s := Classify(bet, Partition(bet, tips))
	require.Len(t, s.Winners.Stacks, 1)
	assert.Len(t, s.Losers.Stacks, 2)
}

func TestClassifyAbortedScale(t *testing.T) {
	bet := scaleBet("10", "100", "2")
	bet.IsAborted = true

	s := Classify(bet, Partition(bet, []*Tip{scaleTip("1", "u1", "10", "5")}))

	assert.Empty(t, s.Winners.Stacks)
	assert.Len(t, s.Losers.Stacks, 1)
}
