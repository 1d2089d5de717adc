package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

const MessageBetPaid = "betPaid"

// Publisher é satisfeito por *redis.Client
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisNotifier publica no canal do jogo (<prefix><gameId>) para o gateway de sockets
type RedisNotifier struct {
	r      Publisher
	prefix string
}

func NewRedisNotifier(r Publisher, prefix string) *RedisNotifier {
	return &RedisNotifier{r: r, prefix: prefix}
}

// GameMessage é o envelope entregue aos participantes do jogo
type GameMessage struct {
	Type    string      `json:"type"`
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload"`
}

type BetView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	BetType     string          `json:"betType"`
	IsSolved    bool            `json:"isSolved"`
	IsAborted   bool            `json:"isAborted"`
	IsPaid      bool            `json:"isPaid"`
	MemberCount int             `json:"memberCount"`
	InPot       decimal.Decimal `json:"inPot"`
}

type TipView struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Currency      decimal.Decimal  `json:"currency"`
	AnswerID      *int             `json:"answerId,omitempty"`
	AnswerDecimal *decimal.Decimal `json:"answerDecimal,omitempty"`
	Diff          decimal.Decimal  `json:"diff"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type BetPaidPayload struct {
	Bet  BetView   `json:"bet"`
	Tips []TipView `json:"tips"`
}

func (n *RedisNotifier) NotifyBetPaid(ctx context.Context, bet *settlement.Bet, tips []*settlement.Tip) error {
	msg := GameMessage{
		Type:    MessageBetPaid,
		GameID:  bet.GameID,
		Payload: BetPaidPayload{Bet: viewBet(bet), Tips: viewTips(tips)},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.r.Publish(ctx, n.prefix+bet.GameID, b).Err()
}

func viewBet(b *settlement.Bet) BetView {
	return BetView{
		ID:          b.ID,
		Title:       b.Title,
		BetType:     string(b.BetType),
		IsSolved:    b.IsSolved,
		IsAborted:   b.IsAborted,
		IsPaid:      b.IsPaid,
		MemberCount: b.MemberCount,
		InPot:       b.InPot,
	}
}

func viewTips(tips []*settlement.Tip) []TipView {
	out := make([]TipView, 0, len(tips))
	for _, t := range tips {
		v := TipView{
			ID:        t.ID,
			UserID:    t.UserID,
			Currency:  t.Currency,
			AnswerID:  t.AnswerID,
			Diff:      t.Diff,
			CreatedAt: t.CreatedAt,
		}
		if t.AnswerDecimal.Valid {
			ad := t.AnswerDecimal.Decimal
			v.AnswerDecimal = &ad
		}
		out = append(out, v)
	}
	return out
}
