package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Compute monta a liquidação completa de uma aposta a partir dos seus palpites:
// agrupa, classifica e distribui. Não faz nenhuma escrita.
func Compute(bet *Bet, tips []*Tip) (*Settlement, error) {
	for _, tip := range tips {
		if err := checkTip(bet.BetType, tip); err != nil {
			return nil, err
		}
	}

	stacks := Partition(bet, tips)
	s := Classify(bet, stacks)
	if err := Distribute(bet, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidStake diz se o valor é positivo e cabe em Places casas decimais.
// Stakes mais finos que a precisão da liquidação poderiam perder mais que o próprio stake.
func ValidStake(currency decimal.Decimal) bool {
	return currency.IsPositive() && currency.Equal(currency.Truncate(Places))
}

func checkTip(betType BetType, tip *Tip) error {
	if !ValidStake(tip.Currency) {
		return fmt.Errorf("%w: tip %s currency %s", ErrStakePrecision, tip.ID, tip.Currency)
	}

	switch betType {
	case Catalogue:
		if tip.AnswerID == nil {
			return fmt.Errorf("%w: tip %s", ErrMalformedTip, tip.ID)
		}
	case Scale:
		if !tip.AnswerDecimal.Valid {
			return fmt.Errorf("%w: tip %s", ErrMalformedTip, tip.ID)
		}
	default:
		return fmt.Errorf("%w: unknown bet type %q", ErrMalformedTip, betType)
	}
	return nil
}
