package dto

import "github.com/shopspring/decimal"

// PlaceTipRequest registra (ou complementa) um palpite; answerId para catalogue, answerDecimal para scale
type PlaceTipRequest struct {
	UserID        string              `json:"userId"`
	Currency      decimal.Decimal     `json:"currency"`
	AnswerID      *int                `json:"answerId,omitempty"`
	AnswerDecimal *decimal.Decimal    `json:"answerDecimal,omitempty"`
	StartCurrency decimal.NullDecimal `json:"startCurrency"` // saldo inicial se o membro ainda não existe
}
