package dto

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

type EnqueueResponse struct {
	BetID  string `json:"betId"`
	Status string `json:"status"`
}

type QueueResponse struct {
	Size   int      `json:"size"`
	BetIDs []string `json:"betIds"`
}

type TipResponse struct {
	ID            string           `json:"id"`
	BetID         string           `json:"betId"`
	UserID        string           `json:"userId"`
	Currency      decimal.Decimal  `json:"currency"`
	AnswerID      *int             `json:"answerId,omitempty"`
	AnswerDecimal *decimal.Decimal `json:"answerDecimal,omitempty"`
	Diff          decimal.Decimal  `json:"diff"`
	Inc           decimal.Decimal  `json:"inc"`
}

type StackResponse struct {
	Answer        string          `json:"answer"`
	Sum           decimal.Decimal `json:"sum"`
	Odds          decimal.Decimal `json:"odds"`
	ProximityRank *int            `json:"proximityRank,omitempty"`
	Possible      decimal.Decimal `json:"possible"`
	Actual        decimal.Decimal `json:"actual"`
	Tips          []TipResponse   `json:"tips"`
}

type SideResponse struct {
	Sum      decimal.Decimal `json:"sum"`
	Possible decimal.Decimal `json:"possible"`
	Actual   decimal.Decimal `json:"actual"`
	Stacks   []StackResponse `json:"stacks"`
}

// SettlementResponse é a prévia de liquidação de uma aposta
type SettlementResponse struct {
	BetID   string       `json:"betId"`
	BetType string       `json:"betType"`
	IsPaid  bool         `json:"isPaid"`
	Winners SideResponse `json:"winners"`
	Losers  SideResponse `json:"losers"`
}

func NewTipResponse(t *settlement.Tip) TipResponse {
	r := TipResponse{
		ID:       t.ID,
		BetID:    t.BetID,
		UserID:   t.UserID,
		Currency: t.Currency,
		AnswerID: t.AnswerID,
		Diff:     t.Diff,
		Inc:      t.Inc,
	}
	if t.AnswerDecimal.Valid {
		v := t.AnswerDecimal.Decimal
		r.AnswerDecimal = &v
	}
	return r
}

func NewSettlementResponse(bet *settlement.Bet, s *settlement.Settlement) SettlementResponse {
	out := SettlementResponse{
		BetID:   bet.ID,
		BetType: string(bet.BetType),
		IsPaid:  bet.IsPaid,
		Winners: SideResponse{Sum: s.Winners.Sum, Possible: s.Winners.PossibleGain, Actual: s.Winners.ActualGain},
		Losers:  SideResponse{Sum: s.Losers.Sum, Possible: s.Losers.PossibleLoss, Actual: s.Losers.ActualLoss},
	}
	for _, st := range s.Winners.Stacks {
		out.Winners.Stacks = append(out.Winners.Stacks, newStack(bet, st, st.PossibleGain, st.ActualGain))
	}
	for _, st := range s.Losers.Stacks {
		out.Losers.Stacks = append(out.Losers.Stacks, newStack(bet, st, st.PossibleLoss, st.ActualLoss))
	}
	return out
}

func newStack(bet *settlement.Bet, st *settlement.Stack, possible, actual decimal.Decimal) StackResponse {
	r := StackResponse{
		Answer:   answerLabel(st.Answer),
		Sum:      st.Sum,
		Odds:     st.Odds,
		Possible: possible,
		Actual:   actual,
	}
	if bet.BetType == settlement.Scale {
		rank := st.ProximityRank
		r.ProximityRank = &rank
	}
	for _, t := range st.Tips {
		r.Tips = append(r.Tips, NewTipResponse(t))
	}
	return r
}

func answerLabel(o settlement.Outcome) string {
	switch a := o.(type) {
	case settlement.CatalogueOutcome:
		return "answer " + strconv.Itoa(a.AnswerID)
	case settlement.ScaleOutcome:
		return a.Value.String()
	default:
		return ""
	}
}
