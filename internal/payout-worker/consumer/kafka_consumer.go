package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Linck01/honorbet-rest/pkg/contracts/events"
)

// Reader é satisfeito por *kafka.Reader
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Enqueuer interface {
	Enqueue(betID string)
}

// Processor consome bet_closed e coloca as apostas na fila de liquidação
type Processor struct {
	Log    *zap.Logger
	Reader Reader
	Queue  Enqueuer

	RetryDelay time.Duration

	OnConsumed func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop de consumo até o contexto ser cancelado
func (p *Processor) Run(ctx context.Context) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.BetClosed
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			p.fail("decode")
			continue
		}
		if ev.BetID == "" {
			p.Log.Warn("bet_closed without bet_id", zap.ByteString("key", m.Key))
			p.fail("decode")
			continue
		}

		p.Queue.Enqueue(ev.BetID)
		p.Log.Info("bet queued for payout", zap.String("betId", ev.BetID), zap.String("gameId", ev.GameID))
	}
}

func (p *Processor) fail(phase string) {
	if p.OnError != nil {
		p.OnError(phase)
	}
}
