package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evento emitido pelo payout-worker após o commit da liquidação.
type BetPaid struct {
	BetID  string    `json:"bet_id"`
	GameID string    `json:"game_id"`
	Tips   []TipPaid `json:"tips"`
	Ts     time.Time `json:"ts"`
}

type TipPaid struct {
	TipID    string          `json:"tip_id"`
	UserID   string          `json:"user_id"`
	Currency decimal.Decimal `json:"currency"`
	Diff     decimal.Decimal `json:"diff"`
}

// PayoutFailed vai para a DLQ quando uma liquidação é descartada.
type PayoutFailed struct {
	BetID  string    `json:"bet_id"`
	Stage  string    `json:"stage"` // "fetch" | "compute" | "apply"
	Reason string    `json:"reason"`
	Ts     time.Time `json:"ts"`
}
