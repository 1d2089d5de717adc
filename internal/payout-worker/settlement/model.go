package settlement

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// BetType define como as respostas de uma aposta são expressas
type BetType string

const (
	Catalogue BetType = "catalogue" // escolha entre respostas enumeradas
	Scale     BetType = "scale"     // palpite numérico, vence quem chega mais perto
)

type CatalogueAnswer struct {
	Odds        decimal.Decimal
	MemberCount int
	InPot       decimal.Decimal
}

// ScaleAnswer é um intervalo que começa em From e vai até o From seguinte
type ScaleAnswer struct {
	From        decimal.Decimal
	MemberCount int
	InPot       decimal.Decimal
}

type ScaleOptions struct {
	WinRate decimal.Decimal // 0-100, fatia do pote (por proximidade) que vence
	Odds    decimal.Decimal
}

// Bet é o evento de aposta de um jogo
type Bet struct {
	ID        string
	GameID    string
	Title     string
	BetType   BetType
	TimeLimit time.Time

	IsSolved  bool
	IsAborted bool
	IsPaid    bool

	// catalogue
	CorrectAnswerIDs []int
	CatalogueAnswers map[int]CatalogueAnswer

	// scale
	ScaleAnswers         []ScaleAnswer
	CorrectAnswerDecimal decimal.Decimal
	ScaleOptions         ScaleOptions

	MemberCount int
	InPot       decimal.Decimal
}

// Tip é um palpite (stake) de um usuário numa aposta.
// Diff e Inc só são preenchidos pela liquidação.
type Tip struct {
	ID            string
	BetID         string
	UserID        string
	GameID        string
	Currency      decimal.Decimal
	AnswerID      *int
	AnswerDecimal decimal.NullDecimal
	CreatedAt     time.Time

	Diff decimal.Decimal // ganho (+) ou perda (-) líquida
	Inc  decimal.Decimal // incremento de saldo: Currency + Diff
}

// Outcome é a chave de agrupamento de um palpite: CatalogueOutcome ou ScaleOutcome
type Outcome interface {
	key() string
}

type CatalogueOutcome struct {
	AnswerID int
}

type ScaleOutcome struct {
	Value decimal.Decimal
}

func (o CatalogueOutcome) key() string { return "c:" + strconv.Itoa(o.AnswerID) }

// String() do decimal descarta zeros à direita, então 9.5 e 9.50 caem no mesmo stack
func (o ScaleOutcome) key() string { return "s:" + o.Value.String() }

// Outcome retorna a resposta do palpite conforme o tipo da aposta
func (t *Tip) Outcome(betType BetType) Outcome {
	switch betType {
	case Scale:
		return ScaleOutcome{Value: t.AnswerDecimal.Decimal}
	default:
		if t.AnswerID == nil {
			return CatalogueOutcome{}
		}
		return CatalogueOutcome{AnswerID: *t.AnswerID}
	}
}

// Stack é o conjunto de palpites numa mesma resposta
type Stack struct {
	Answer        Outcome
	Sum           decimal.Decimal
	Tips          []*Tip
	Proximity     decimal.Decimal // só scale
	ProximityRank int             // só scale, 0 = mais próximo

	Odds         decimal.Decimal
	PossibleGain decimal.Decimal
	PossibleLoss decimal.Decimal
	ActualGain   decimal.Decimal
	ActualLoss   decimal.Decimal
}

type Winners struct {
	Sum          decimal.Decimal
	PossibleGain decimal.Decimal
	ActualGain   decimal.Decimal
	Stacks       []*Stack
}

type Losers struct {
	Sum          decimal.Decimal
	PossibleLoss decimal.Decimal
	ActualLoss   decimal.Decimal
	Stacks       []*Stack
}

// Settlement é o resultado transitório de uma liquidação
type Settlement struct {
	Winners Winners
	Losers  Losers
}

// Tips devolve todos os palpites, vencedores primeiro
func (s *Settlement) Tips() []*Tip {
	var tips []*Tip
	for _, st := range s.Winners.Stacks {
		tips = append(tips, st.Tips...)
	}
	for _, st := range s.Losers.Stacks {
		tips = append(tips, st.Tips...)
	}
	return tips
}

// TotalDiff soma os diffs de todos os palpites; deve ser exatamente zero
func (s *Settlement) TotalDiff() decimal.Decimal {
	total := decimal.Zero
	for _, tip := range s.Tips() {
		total = total.Add(tip.Diff)
	}
	return total
}
