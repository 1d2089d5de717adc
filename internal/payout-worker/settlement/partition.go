package settlement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Partition agrupa os palpites por resposta, na ordem em que aparecem.
// Em apostas scale os stacks saem ordenados por proximidade da resposta correta.
func Partition(bet *Bet, tips []*Tip) []*Stack {
	stacks := make([]*Stack, 0)
	byKey := make(map[string]*Stack)

	for _, tip := range tips {
		answer := tip.Outcome(bet.BetType)
		k := answer.key()

		st, ok := byKey[k]
		if !ok {
			st = &Stack{Answer: answer, Sum: decimal.Zero}
			byKey[k] = st
			stacks = append(stacks, st)
		}
		st.Sum = st.Sum.Add(tip.Currency)
		st.Tips = append(st.Tips, tip)
	}

	if bet.BetType == Scale {
		sortByProximity(stacks, bet.CorrectAnswerDecimal)
	}

	return stacks
}

func sortByProximity(stacks []*Stack, correct decimal.Decimal) {
	for _, st := range stacks {
		if answer, ok := st.Answer.(ScaleOutcome); ok {
			st.Proximity = answer.Value.Sub(correct).Abs()
		}
	}

	// estável: empates mantêm a ordem de chegada
	sort.SliceStable(stacks, func(i, j int) bool {
		return stacks[i].Proximity.LessThan(stacks[j].Proximity)
	})

	for i, st := range stacks {
		st.ProximityRank = i
	}
}

func sumOf(stacks []*Stack) decimal.Decimal {
	total := decimal.Zero
	for _, st := range stacks {
		total = total.Add(st.Sum)
	}
	return total
}
