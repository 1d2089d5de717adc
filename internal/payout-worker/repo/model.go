package repo

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyPaid = errors.New("bet already paid")
	ErrNoInterval  = errors.New("value below first scale interval")
)

const LogTypeBetPaidOut = "betPaidOut"

// LogEntry é uma linha do log de eventos de um jogo (game_logs)
type LogEntry struct {
	ID        string
	GameID    string
	LogType   string
	Title     string
	Desc      string
	CreatedAt time.Time
}

// Member é o saldo de um usuário dentro de um jogo
type Member struct {
	GameID   string          `json:"gameId"`
	UserID   string          `json:"userId"`
	Currency decimal.Decimal `json:"currency"`
}

// NewTip é um palpite a registrar; AnswerID para catalogue, AnswerDecimal para scale
type NewTip struct {
	UserID        string
	Currency      decimal.Decimal
	AnswerID      *int
	AnswerDecimal decimal.NullDecimal
}
