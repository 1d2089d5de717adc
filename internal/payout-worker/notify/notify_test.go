package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
	"github.com/Linck01/honorbet-rest/pkg/contracts/events"
)

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(f.err)
	return cmd
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

type notifierFunc func() error

func (f notifierFunc) NotifyBetPaid(context.Context, *settlement.Bet, []*settlement.Tip) error {
	return f()
}

func paidBet() (*settlement.Bet, []*settlement.Tip) {
	answer := 1
	bet := &settlement.Bet{ID: "b1", GameID: "g1", Title: "who wins", BetType: settlement.Catalogue, IsPaid: true}
	tips := []*settlement.Tip{
		{ID: "t1", UserID: "u1", Currency: decimal.NewFromInt(10), AnswerID: &answer, Diff: decimal.NewFromInt(5)},
		{ID: "t2", UserID: "u2", Currency: decimal.NewFromInt(5), AnswerID: &answer, Diff: decimal.NewFromInt(-5)},
	}
	return bet, tips
}

func TestRedisNotifierPublishesOnGameChannel(t *testing.T) {
	pub := &fakePublisher{}
	bet, tips := paidBet()

	require.NoError(t, NewRedisNotifier(pub, "game:").NotifyBetPaid(context.Background(), bet, tips))
	assert.Equal(t, "game:g1", pub.channel)

	var got struct {
		Type    string         `json:"type"`
		GameID  string         `json:"gameId"`
		Payload BetPaidPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.message, &got))
	assert.Equal(t, MessageBetPaid, got.Type)
	assert.True(t, got.Payload.Bet.IsPaid)
	require.Len(t, got.Payload.Tips, 2)
	assert.Equal(t, "-5", got.Payload.Tips[1].Diff.String())
	assert.Nil(t, got.Payload.Tips[0].AnswerDecimal)
}

func TestRedisNotifierReturnsPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	bet, tips := paidBet()

	assert.EqualError(t, NewRedisNotifier(pub, "game:").NotifyBetPaid(context.Background(), bet, tips), "redis down")
}

func TestKafkaPublisherBetPaid(t *testing.T) {
	paid := &fakeWriter{}
	p := &KafkaPublisher{Paid: paid, DLQ: &fakeWriter{}}
	bet, tips := paidBet()

	require.NoError(t, p.NotifyBetPaid(context.Background(), bet, tips))
	require.Len(t, paid.msgs, 1)
	assert.Equal(t, "b1", string(paid.msgs[0].Key))

	var ev events.BetPaid
	require.NoError(t, json.Unmarshal(paid.msgs[0].Value, &ev))
	assert.Equal(t, "g1", ev.GameID)
	require.Len(t, ev.Tips, 2)
	assert.Equal(t, "5", ev.Tips[0].Diff.String())
}

func TestKafkaPublisherDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	p := &KafkaPublisher{Paid: &fakeWriter{}, DLQ: dlq}

	require.NoError(t, p.PublishPayoutFailed(context.Background(), events.PayoutFailed{BetID: "b1", Stage: "compute", Reason: "unbalanced"}))
	require.Len(t, dlq.msgs, 1)
	assert.Contains(t, string(dlq.msgs[0].Value), `"stage":"compute"`)
}

func TestMultiCallsEveryNotifier(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	m := Multi{
		notifierFunc(func() error { calls++; return boom }),
		notifierFunc(func() error { calls++; return nil }),
	}
	bet, tips := paidBet()

	err := m.NotifyBetPaid(context.Background(), bet, tips)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
