package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnbalanced     = errors.New("total gains and losses not equal")
	ErrUnknownOutcome = errors.New("winning answer has no odds")
	ErrMalformedTip   = errors.New("tip has no answer for bet type")
	ErrStakePrecision = errors.New("stake must be positive with at most 4 decimal places")
)

// Distribute calcula ganhos/perdas possíveis e reais e o diff de cada palpite.
// Os vencedores só recebem o que os perdedores efetivamente cedem.
// ActualGain = ActualLoss = min(PossibleGain, PossibleLoss) truncado em Places casas,
// então pode ficar até 0.0001 abaixo do mínimo exato.
func Distribute(bet *Bet, s *Settlement) error {
	if err := setPossibleGainAndLoss(bet, s); err != nil {
		return err
	}

	setActualGainAndLoss(s)

	if total := s.TotalDiff(); !total.IsZero() {
		return fmt.Errorf("%w: %s", ErrUnbalanced, total)
	}
	return nil
}

func setPossibleGainAndLoss(bet *Bet, s *Settlement) error {
	w, l := &s.Winners, &s.Losers

	w.Sum, w.PossibleGain = decimal.Zero, decimal.Zero
	for _, st := range w.Stacks {
		odds, err := oddsFor(bet, st)
		if err != nil {
			return err
		}
		st.Odds = odds
		st.PossibleGain = odds.Sub(decimal.NewFromInt(1)).Mul(st.Sum)

		w.Sum = w.Sum.Add(st.Sum)
		w.PossibleGain = w.PossibleGain.Add(st.PossibleGain)
	}

	l.PossibleLoss = decimal.Zero
	for _, st := range l.Stacks {
		st.PossibleLoss = st.Sum
		l.PossibleLoss = l.PossibleLoss.Add(st.PossibleLoss)
	}
	l.Sum = l.PossibleLoss

	return nil
}

func oddsFor(bet *Bet, st *Stack) (decimal.Decimal, error) {
	switch answer := st.Answer.(type) {
	case CatalogueOutcome:
		a, ok := bet.CatalogueAnswers[answer.AnswerID]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: answer %d", ErrUnknownOutcome, answer.AnswerID)
		}
		return a.Odds, nil
	case ScaleOutcome:
		return bet.ScaleOptions.Odds, nil
	default:
		return decimal.Zero, ErrUnknownOutcome
	}
}

func setActualGainAndLoss(s *Settlement) {
	w, l := &s.Winners, &s.Losers

	if !w.PossibleGain.IsPositive() || !l.PossibleLoss.IsPositive() {
		w.ActualGain, l.ActualLoss = decimal.Zero, decimal.Zero
	} else {
		amount := decimal.Min(w.PossibleGain, l.PossibleLoss).Truncate(Places)
		w.ActualGain, l.ActualLoss = amount, amount
	}

	gains := Allocate(w.ActualGain, stackWeights(w.Stacks, func(st *Stack) decimal.Decimal { return st.PossibleGain }))
	for i, st := range w.Stacks {
		st.ActualGain = gains[i]
		shares := Allocate(st.ActualGain, tipWeights(st.Tips))
		for j, tip := range st.Tips {
			tip.Diff = shares[j]
			tip.Inc = tip.Currency.Add(tip.Diff)
		}
	}

	losses := Allocate(l.ActualLoss, stackWeights(l.Stacks, func(st *Stack) decimal.Decimal { return st.PossibleLoss }))
	for i, st := range l.Stacks {
		st.ActualLoss = losses[i]
		shares := Allocate(st.ActualLoss, tipWeights(st.Tips))
		for j, tip := range st.Tips {
			tip.Diff = shares[j].Neg()
			tip.Inc = tip.Currency.Add(tip.Diff)
		}
	}
}

func stackWeights(stacks []*Stack, weight func(*Stack) decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(stacks))
	for i, st := range stacks {
		out[i] = weight(st)
	}
	return out
}

func tipWeights(tips []*Tip) []decimal.Decimal {
	out := make([]decimal.Decimal, len(tips))
	for i, tip := range tips {
		out[i] = tip.Currency
	}
	return out
}
