package settlement

import (
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Classify separa os stacks em vencedores e perdedores.
//
// catalogue: vence o stack cuja resposta está entre as corretas.
// scale: percorre os stacks por proximidade e vence enquanto o pote acumulado
// (antes de somar o stack atual) estiver abaixo de floor(pote * winRate / 100).
// Um stack empatado em proximidade com o vencedor imediatamente anterior também vence.
// Aposta abortada: todos perdem.
func Classify(bet *Bet, stacks []*Stack) *Settlement {
	s := &Settlement{}

	threshold := decimal.Zero
	if bet.BetType == Scale {
		threshold = sumOf(stacks).Mul(bet.ScaleOptions.WinRate).Div(hundred).Floor()
	}

	accumulated := decimal.Zero
	var last *Stack
	lastWon := false

	for _, st := range stacks {
		won := false

		switch answer := st.Answer.(type) {
		case CatalogueOutcome:
			won = slices.Contains(bet.CorrectAnswerIDs, answer.AnswerID)
		case ScaleOutcome:
			won = accumulated.LessThan(threshold)
			if !won && lastWon && st.Proximity.Equal(last.Proximity) {
				won = true
			}
			accumulated = accumulated.Add(st.Sum)
		}

		if bet.IsAborted {
			won = false
		}

		if won {
			s.Winners.Stacks = append(s.Winners.Stacks, st)
		} else {
			s.Losers.Stacks = append(s.Losers.Stacks, st)
		}

		last, lastWon = st, won
	}

	return s
}
