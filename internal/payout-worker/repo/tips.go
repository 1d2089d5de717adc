package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

// FindOrCreateMember retorna o membro do jogo, criando-o com startCurrency se não existir
func (p *Postgres) FindOrCreateMember(ctx context.Context, gameID, userID string, startCurrency decimal.Decimal) (Member, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Member{}, err
	}
	defer tx.Rollback()

	// se outra transação criar o membro antes, o insert vira no-op e o select lê o saldo gravado
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO members (game_id, user_id, currency) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		gameID, userID, startCurrency); err != nil {
		return Member{}, err
	}

	m := Member{GameID: gameID, UserID: userID}
	if err = tx.QueryRowContext(ctx,
		`SELECT currency FROM members WHERE game_id = $1 AND user_id = $2`, gameID, userID).Scan(&m.Currency); err != nil {
		return Member{}, err
	}

	if err = tx.Commit(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// AddTip registra um palpite e debita o stake do membro.
// Mesmo usuário na mesma resposta: soma ao palpite existente.
// Atualiza memberCount/inPot da resposta (ou intervalo scale) e da aposta.
// Não valida saldo, prazo nem limites.
func (p *Postgres) AddTip(ctx context.Context, bet *settlement.Bet, in NewTip) (*settlement.Tip, error) {
	if !settlement.ValidStake(in.Currency) {
		return nil, fmt.Errorf("%w: %s", settlement.ErrStakePrecision, in.Currency)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// trava a aposta: top-ups concorrentes do mesmo usuário não duplicam palpites
	if _, err := tx.ExecContext(ctx, `SELECT 1 FROM bets WHERE id = $1 FOR UPDATE`, bet.ID); err != nil {
		return nil, err
	}

	var firstOnBet bool
	if err := tx.QueryRowContext(ctx,
		`SELECT NOT EXISTS (SELECT 1 FROM tips WHERE bet_id = $1 AND user_id = $2)`,
		bet.ID, in.UserID).Scan(&firstOnBet); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE members SET currency = currency - $3 WHERE game_id = $1 AND user_id = $2`,
		bet.GameID, in.UserID, in.Currency)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("member %s: %w", in.UserID, ErrNotFound)
	}

	var tipID string
	switch bet.BetType {
	case settlement.Catalogue:
		tipID, err = addCatalogueTip(ctx, tx, bet, in)
	case settlement.Scale:
		tipID, err = addScaleTip(ctx, tx, bet, in)
	default:
		err = fmt.Errorf("unknown bet type %q", bet.BetType)
	}
	if err != nil {
		return nil, err
	}

	members := 0
	if firstOnBet {
		members = 1
	}
	if err := incrementBet(ctx, tx, bet.ID, members, in.Currency); err != nil {
		return nil, err
	}

	tip, err := scanTip(tx.QueryRowContext(ctx, `
		SELECT id, bet_id, user_id, game_id, currency, answer_id, answer_decimal, diff, created_at
		FROM tips WHERE id = $1`, tipID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return tip, nil
}

func addCatalogueTip(ctx context.Context, tx *sql.Tx, bet *settlement.Bet, in NewTip) (string, error) {
	if in.AnswerID == nil {
		return "", settlement.ErrMalformedTip
	}
	if _, ok := bet.CatalogueAnswers[*in.AnswerID]; !ok {
		return "", settlement.ErrUnknownOutcome
	}

	tipID, existed, err := upsertTip(ctx, tx, bet, in,
		`SELECT id FROM tips WHERE bet_id = $1 AND user_id = $2 AND answer_id = $3`, *in.AnswerID)
	if err != nil {
		return "", err
	}

	members := 1
	if existed {
		members = 0
	}
	if err := incrementAnswer(ctx, tx, bet.ID, *in.AnswerID, members, in.Currency); err != nil {
		return "", err
	}
	return tipID, nil
}

func addScaleTip(ctx context.Context, tx *sql.Tx, bet *settlement.Bet, in NewTip) (string, error) {
	if !in.AnswerDecimal.Valid {
		return "", settlement.ErrMalformedTip
	}
	value := in.AnswerDecimal.Decimal
	iv, ok := settlement.ScaleInterval(value, bet.ScaleAnswers)
	if !ok {
		return "", ErrNoInterval
	}

	// consultado antes do insert: o usuário já tinha palpite neste intervalo?
	var inInterval bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tips
			WHERE bet_id = $1 AND user_id = $2 AND answer_decimal >= $3
			  AND ($4::numeric IS NULL OR answer_decimal < $4)
		)`, bet.ID, in.UserID, iv.From, iv.To).Scan(&inInterval); err != nil {
		return "", err
	}

	tipID, _, err := upsertTip(ctx, tx, bet, in,
		`SELECT id FROM tips WHERE bet_id = $1 AND user_id = $2 AND answer_decimal = $3`, value)
	if err != nil {
		return "", err
	}

	members := 1
	if inInterval {
		members = 0
	}
	if err := incrementAnswer(ctx, tx, bet.ID, iv.Index, members, in.Currency); err != nil {
		return "", err
	}
	return tipID, nil
}

// upsertTip soma ao palpite encontrado por findQ ou cria um novo
func upsertTip(ctx context.Context, tx *sql.Tx, bet *settlement.Bet, in NewTip, findQ string, answer any) (string, bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, findQ, bet.ID, in.UserID, answer).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, `UPDATE tips SET currency = currency + $1 WHERE id = $2`, in.Currency, id)
		return id, true, err
	case errors.Is(err, sql.ErrNoRows):
	default:
		return "", false, err
	}

	id = uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tips (id, bet_id, game_id, user_id, currency, answer_id, answer_decimal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, bet.ID, bet.GameID, in.UserID, in.Currency, nullInt(in.AnswerID), in.AnswerDecimal, time.Now().UTC())
	return id, false, err
}

func incrementAnswer(ctx context.Context, tx *sql.Tx, betID string, idx, members int, inPot decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE bet_answers SET member_count = member_count + $3, in_pot = in_pot + $4
		WHERE bet_id = $1 AND idx = $2`, betID, idx, members, inPot)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("answer %d: %w", idx, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTip(row scanner) (*settlement.Tip, error) {
	var (
		t        settlement.Tip
		answerID sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.BetID, &t.UserID, &t.GameID, &t.Currency,
		&answerID, &t.AnswerDecimal, &t.Diff, &t.CreatedAt); err != nil {
		return nil, err
	}
	if answerID.Valid {
		id := int(answerID.Int64)
		t.AnswerID = &id
	}
	return &t, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
