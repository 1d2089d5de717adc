package settlement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Places é a precisão (casas decimais) dos valores liquidados
const Places int32 = 4

var unit = decimal.New(1, -Places)

// Allocate reparte total proporcionalmente aos pesos, em múltiplos de 10^-Places,
// pelo método do maior resto. A soma do resultado é exatamente total truncado em Places.
// Pesos <= 0 recebem zero.
func Allocate(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(weights))
	for i := range out {
		out[i] = decimal.Zero
	}

	total = total.Truncate(Places)
	weightSum := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			weightSum = weightSum.Add(w)
		}
	}
	if !weightSum.IsPositive() || total.IsZero() {
		return out
	}

	type remainder struct {
		idx  int
		frac decimal.Decimal
	}
	rems := make([]remainder, 0, len(weights))
	allocated := decimal.Zero

	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		exact := total.Mul(w).Div(weightSum)
		share := exact.Truncate(Places)
		out[i] = share
		allocated = allocated.Add(share)
		rems = append(rems, remainder{idx: i, frac: exact.Sub(share)})
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac.GreaterThan(rems[b].frac)
	})

	left := int(total.Sub(allocated).Div(unit).IntPart())
	for k := 0; k < left && k < len(rems); k++ {
		out[rems[k].idx] = out[rems[k].idx].Add(unit)
	}

	return out
}
