package notify

import (
	"context"
	"time"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
	"github.com/Linck01/honorbet-rest/internal/shared/kafka"
	"github.com/Linck01/honorbet-rest/pkg/contracts/events"
)

// KafkaPublisher emite bet_paid após o commit e PayoutFailed na DLQ
type KafkaPublisher struct {
	Paid kafka.MessageWriter
	DLQ  kafka.MessageWriter
}

func (p *KafkaPublisher) NotifyBetPaid(ctx context.Context, bet *settlement.Bet, tips []*settlement.Tip) error {
	ev := events.BetPaid{BetID: bet.ID, GameID: bet.GameID, Ts: time.Now().UTC()}
	for _, t := range tips {
		ev.Tips = append(ev.Tips, events.TipPaid{TipID: t.ID, UserID: t.UserID, Currency: t.Currency, Diff: t.Diff})
	}
	return kafka.WriteJSON(ctx, p.Paid, bet.ID, ev)
}

func (p *KafkaPublisher) PublishPayoutFailed(ctx context.Context, ev events.PayoutFailed) error {
	return kafka.WriteJSON(ctx, p.DLQ, ev.BetID, ev)
}
