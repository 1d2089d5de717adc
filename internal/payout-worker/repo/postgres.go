package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

// Postgres implementa leitura de apostas/palpites e a escrita da liquidação
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// execer é satisfeito por *sql.DB e *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// GetBet carrega a aposta com suas respostas (catalogue ou intervalos scale)
func (p *Postgres) GetBet(ctx context.Context, betID string) (*settlement.Bet, error) {
	const q = `
		SELECT id, game_id, title, bet_type, time_limit, is_solved, is_aborted, is_paid,
		       correct_answer_ids, correct_answer_decimal, scale_win_rate, scale_odds,
		       member_count, in_pot
		FROM bets
		WHERE id = $1
	`
	var (
		b         settlement.Bet
		betType   string
		timeLimit sql.NullTime
		correct   []int64
	)
	err := p.db.QueryRowContext(ctx, q, betID).Scan(
		&b.ID, &b.GameID, &b.Title, &betType, &timeLimit, &b.IsSolved, &b.IsAborted, &b.IsPaid,
		pq.Array(&correct), &b.CorrectAnswerDecimal, &b.ScaleOptions.WinRate, &b.ScaleOptions.Odds,
		&b.MemberCount, &b.InPot,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.BetType = settlement.BetType(betType)
	if timeLimit.Valid {
		b.TimeLimit = timeLimit.Time
	}
	for _, id := range correct {
		b.CorrectAnswerIDs = append(b.CorrectAnswerIDs, int(id))
	}

	if err := p.loadAnswers(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *Postgres) loadAnswers(ctx context.Context, b *settlement.Bet) error {
	const q = `
		SELECT idx, odds, from_value, member_count, in_pot
		FROM bet_answers
		WHERE bet_id = $1
		ORDER BY idx
	`
	rows, err := p.db.QueryContext(ctx, q, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	if b.BetType == settlement.Catalogue {
		b.CatalogueAnswers = map[int]settlement.CatalogueAnswer{}
	}
	for rows.Next() {
		var (
			idx         int
			odds, from  decimal.Decimal
			memberCount int
			inPot       decimal.Decimal
		)
		if err := rows.Scan(&idx, &odds, &from, &memberCount, &inPot); err != nil {
			return err
		}
		switch b.BetType {
		case settlement.Catalogue:
			b.CatalogueAnswers[idx] = settlement.CatalogueAnswer{Odds: odds, MemberCount: memberCount, InPot: inPot}
		case settlement.Scale:
			b.ScaleAnswers = append(b.ScaleAnswers, settlement.ScaleAnswer{From: from, MemberCount: memberCount, InPot: inPot})
		}
	}
	return rows.Err()
}

// ListTipsByBet lê os palpites da aposta em ordem de chegada
func (p *Postgres) ListTipsByBet(ctx context.Context, betID string) ([]*settlement.Tip, error) {
	const q = `
		SELECT id, bet_id, user_id, game_id, currency, answer_id, answer_decimal, diff, created_at
		FROM tips
		WHERE bet_id = $1
		ORDER BY created_at, id
	`
	rows, err := p.db.QueryContext(ctx, q, betID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*settlement.Tip
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApplySettlement grava, numa única transação, o saldo de cada membro (+= Inc),
// o diff de cada palpite e marca a aposta como paga.
// Aposta já paga: ErrAlreadyPaid e nada é escrito.
func (p *Postgres) ApplySettlement(ctx context.Context, bet *settlement.Bet, s *settlement.Settlement) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// trava a linha da aposta antes de mexer em saldos
	res, err := tx.ExecContext(ctx, `UPDATE bets SET is_paid = true WHERE id = $1 AND is_paid = false`, bet.ID)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyPaid
	}

	for _, tip := range s.Tips() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO members (game_id, user_id, currency) VALUES ($1, $2, $3)
			ON CONFLICT (game_id, user_id) DO UPDATE SET currency = members.currency + EXCLUDED.currency`,
			bet.GameID, tip.UserID, tip.Inc); err != nil {
			return fmt.Errorf("member %s: %w", tip.UserID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tips SET diff = $1 WHERE id = $2`, tip.Diff, tip.ID); err != nil {
			return fmt.Errorf("tip %s: %w", tip.ID, err)
		}
	}

	return tx.Commit()
}

// AppendLog registra um evento no log do jogo
func (p *Postgres) AppendLog(ctx context.Context, e LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO game_logs (id, game_id, log_type, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.GameID, e.LogType, e.Title, e.Desc, e.CreatedAt)
	return err
}

// IncrementBet soma aos contadores agregados da aposta
func (p *Postgres) IncrementBet(ctx context.Context, betID string, members int, inPot decimal.Decimal) error {
	return incrementBet(ctx, p.db, betID, members, inPot)
}

func incrementBet(ctx context.Context, ex execer, betID string, members int, inPot decimal.Decimal) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE bets SET member_count = member_count + $2, in_pot = in_pot + $3 WHERE id = $1`,
		betID, members, inPot)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
