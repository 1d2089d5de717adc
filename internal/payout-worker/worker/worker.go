package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/queue"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/repo"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
	"github.com/Linck01/honorbet-rest/pkg/contracts/events"
)

// Estágios reportados em métricas e na DLQ
const (
	StageFetch   = "fetch"
	StageCompute = "compute"
	StageApply   = "apply"
)

type BetStore interface {
	GetBet(ctx context.Context, betID string) (*settlement.Bet, error)
}

type TipStore interface {
	ListTipsByBet(ctx context.Context, betID string) ([]*settlement.Tip, error)
}

// Applier grava saldos, diffs e isPaid numa única transação
type Applier interface {
	ApplySettlement(ctx context.Context, bet *settlement.Bet, s *settlement.Settlement) error
}

type AuditLog interface {
	AppendLog(ctx context.Context, entry repo.LogEntry) error
}

// Notifier avisa os participantes do jogo; falhas não desfazem o commit
type Notifier interface {
	NotifyBetPaid(ctx context.Context, bet *settlement.Bet, tips []*settlement.Tip) error
}

type FailureSink interface {
	PublishPayoutFailed(ctx context.Context, ev events.PayoutFailed) error
}

// Worker drena a fila de liquidação, uma aposta por vez.
// ProcessNext segura mu durante toda a execução: nunca há duas liquidações em andamento.
type Worker struct {
	Log     *zap.Logger
	Queue   *queue.Queue
	Bets    BetStore
	Tips    TipStore
	Applier Applier

	Audit    AuditLog    // opcional
	Notifier Notifier    // opcional
	Failures FailureSink // opcional (DLQ)

	Interval         time.Duration // cadência do loop
	ApplyTimeout     time.Duration
	RequeueOnFailure bool // recoloca no fim da fila se o commit falhar

	OnSettled   func(time.Duration) // métricas
	OnFailed    func(stage string)  // métricas por estágio
	OnQueueSize func(int)           // métricas

	mu   sync.Mutex
	wake chan struct{}
}

func New(log *zap.Logger, q *queue.Queue, bets BetStore, tips TipStore, applier Applier) *Worker {
	return &Worker{
		Log:          log,
		Queue:        q,
		Bets:         bets,
		Tips:         tips,
		Applier:      applier,
		Interval:     2 * time.Second,
		ApplyTimeout: 30 * time.Second,
		wake:         make(chan struct{}, 1),
	}
}

// Enqueue admite uma aposta fechada para liquidação e acorda o loop
func (w *Worker) Enqueue(betID string) {
	w.Queue.Enqueue(betID)
	w.reportQueue()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run processa a fila a cada Interval e a cada Enqueue, até o contexto ser cancelado
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-w.wake:
		}
		w.drain(ctx)
	}
}

// drain processa no máximo o que estava na fila ao começar, para um
// requeue não virar loop quente
func (w *Worker) drain(ctx context.Context) {
	for n := w.Queue.Len(); n > 0 && ctx.Err() == nil; n-- {
		_ = w.ProcessNext(ctx) // já logado
	}
}

// ProcessNext liquida a aposta na cabeça da fila. Fila vazia: não faz nada.
// A aposta só sai da fila depois do cálculo e antes do commit.
func (w *Worker) ProcessNext(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	betID, ok := w.Queue.Peek()
	if !ok {
		return nil
	}
	defer w.reportQueue()

	start := time.Now()
	log := w.Log.With(zap.String("betId", betID))

	bet, err := w.Bets.GetBet(ctx, betID)
	if err != nil {
		return w.drop(ctx, betID, StageFetch, fmt.Errorf("get bet: %w", err))
	}
	if bet.IsPaid {
		w.Queue.Dequeue(betID)
		log.Warn("bet already paid, skipping")
		return nil
	}

	log.Info("started payout")

	tips, err := w.Tips.ListTipsByBet(ctx, betID)
	if err != nil {
		return w.drop(ctx, betID, StageFetch, fmt.Errorf("list tips: %w", err))
	}

	s, err := settlement.Compute(bet, tips)
	if err != nil {
		return w.drop(ctx, betID, StageCompute, err)
	}

	log.Debug("settlement computed",
		zap.Int("winnerStacks", len(s.Winners.Stacks)),
		zap.Int("loserStacks", len(s.Losers.Stacks)),
		zap.String("possibleGain", s.Winners.PossibleGain.String()),
		zap.String("possibleLoss", s.Losers.PossibleLoss.String()),
		zap.String("actualGain", s.Winners.ActualGain.String()),
	)

	w.Queue.Dequeue(betID)

	// uma vez calculada, a liquidação vai até o fim mesmo que ctx seja cancelado
	applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.ApplyTimeout)
	defer cancel()

	if err := w.Applier.ApplySettlement(applyCtx, bet, s); err != nil {
		if errors.Is(err, repo.ErrAlreadyPaid) {
			log.Warn("bet paid concurrently, nothing written")
			return nil
		}
		if w.RequeueOnFailure {
			w.Queue.Enqueue(betID)
		}
		return w.fail(applyCtx, betID, StageApply, fmt.Errorf("apply settlement: %w", err))
	}

	w.afterCommit(applyCtx, log, bet)

	if w.OnSettled != nil {
		w.OnSettled(time.Since(start))
	}
	log.Info("successfully paid out bet", zap.Int("tips", len(tips)))
	return nil
}

// Preview calcula a liquidação da aposta sem gravar nada
func (w *Worker) Preview(ctx context.Context, betID string) (*settlement.Bet, *settlement.Settlement, error) {
	bet, err := w.Bets.GetBet(ctx, betID)
	if err != nil {
		return nil, nil, err
	}
	tips, err := w.Tips.ListTipsByBet(ctx, betID)
	if err != nil {
		return nil, nil, err
	}
	s, err := settlement.Compute(bet, tips)
	if err != nil {
		return nil, nil, err
	}
	return bet, s, nil
}

// drop tira a aposta da fila sem escrever nada
func (w *Worker) drop(ctx context.Context, betID, stage string, err error) error {
	w.Queue.Dequeue(betID)
	return w.fail(ctx, betID, stage, err)
}

func (w *Worker) fail(ctx context.Context, betID, stage string, err error) error {
	w.Log.Error("payout failed",
		zap.String("betId", betID),
		zap.String("stage", stage),
		zap.Error(err),
	)
	if w.OnFailed != nil {
		w.OnFailed(stage)
	}

	if w.Failures != nil {
		ev := events.PayoutFailed{BetID: betID, Stage: stage, Reason: err.Error(), Ts: time.Now()}
		if perr := w.Failures.PublishPayoutFailed(ctx, ev); perr != nil {
			w.Log.Warn("dlq publish failed", zap.String("betId", betID), zap.Error(perr))
		}
	}
	return fmt.Errorf("payout %s (%s): %w", betID, stage, err)
}

// afterCommit registra o log do jogo e notifica os participantes com o estado relido
func (w *Worker) afterCommit(ctx context.Context, log *zap.Logger, bet *settlement.Bet) {
	if w.Audit != nil {
		entry := repo.LogEntry{
			GameID:  bet.GameID,
			LogType: repo.LogTypeBetPaidOut,
			Title:   "Bet paid out",
			Desc:    fmt.Sprintf("Bet %q was solved & redistributed.", shortTitle(bet.Title)),
		}
		if err := w.Audit.AppendLog(ctx, entry); err != nil {
			log.Warn("audit log failed", zap.Error(err))
		}
	}

	if w.Notifier == nil {
		return
	}

	fresh, err := w.Bets.GetBet(ctx, bet.ID)
	if err != nil {
		log.Warn("reload bet for notify", zap.Error(err))
		return
	}
	tips, err := w.Tips.ListTipsByBet(ctx, bet.ID)
	if err != nil {
		log.Warn("reload tips for notify", zap.Error(err))
		return
	}
	if err := w.Notifier.NotifyBetPaid(ctx, fresh, tips); err != nil {
		log.Warn("notify failed", zap.Error(err))
	}
}

func (w *Worker) reportQueue() {
	if w.OnQueueSize != nil {
		w.OnQueueSize(w.Queue.Len())
	}
}

func shortTitle(title string) string {
	r := []rune(title)
	if len(r) > 50 {
		return string(r[:48]) + ".."
	}
	return title
}
