package settlement

import "github.com/shopspring/decimal"

// Interval é a faixa de uma aposta scale em que um valor cai
type Interval struct {
	Index int
	From  decimal.Decimal
	To    decimal.NullDecimal // inválido no último intervalo (aberto)
}

// ScaleInterval acha o intervalo de value entre as respostas (From crescente).
// ok=false quando value está abaixo do primeiro From.
func ScaleInterval(value decimal.Decimal, answers []ScaleAnswer) (Interval, bool) {
	found := -1
	for i, a := range answers {
		if value.GreaterThanOrEqual(a.From) {
			found = i
		}
	}
	if found < 0 {
		return Interval{}, false
	}

	iv := Interval{Index: found, From: answers[found].From}
	if found+1 < len(answers) {
		iv.To = decimal.NewNullDecimal(answers[found+1].From)
	}
	return iv, true
}
