package notify

import (
	"context"
	"errors"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

type Notifier interface {
	NotifyBetPaid(ctx context.Context, bet *settlement.Bet, tips []*settlement.Tip) error
}

// Multi entrega para todos os notifiers, mesmo que algum falhe
type Multi []Notifier

func (m Multi) NotifyBetPaid(ctx context.Context, bet *settlement.Bet, tips []*settlement.Tip) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBetPaid(ctx, bet, tips); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
