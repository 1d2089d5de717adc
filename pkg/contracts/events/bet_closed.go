package events

import "time"

// Evento publicado pelo controlador de ciclo de vida quando uma aposta é resolvida
// ou abortada e pode ser liquidada.
type BetClosed struct {
	BetID    string    `json:"bet_id"`
	GameID   string    `json:"game_id"`
	ClosedAt time.Time `json:"closed_at"`
}
