package repo

import "context"

// schema cria as tabelas usadas pelo payout-worker (idempotente)
const schema = `
CREATE TABLE IF NOT EXISTS bets (
	id                     TEXT PRIMARY KEY,
	game_id                TEXT NOT NULL,
	title                  TEXT NOT NULL DEFAULT '',
	bet_type               TEXT NOT NULL CHECK (bet_type IN ('catalogue', 'scale')),
	time_limit             TIMESTAMPTZ,
	is_solved              BOOLEAN NOT NULL DEFAULT false,
	is_aborted             BOOLEAN NOT NULL DEFAULT false,
	is_paid                BOOLEAN NOT NULL DEFAULT false,
	correct_answer_ids     INTEGER[] NOT NULL DEFAULT '{}',
	correct_answer_decimal NUMERIC NOT NULL DEFAULT 0,
	scale_win_rate         NUMERIC NOT NULL DEFAULT 0,
	scale_odds             NUMERIC NOT NULL DEFAULT 0,
	member_count           INTEGER NOT NULL DEFAULT 0,
	in_pot                 NUMERIC NOT NULL DEFAULT 0
);

-- catalogue: idx = id da resposta; scale: idx = posição do intervalo
CREATE TABLE IF NOT EXISTS bet_answers (
	bet_id       TEXT NOT NULL REFERENCES bets(id) ON DELETE CASCADE,
	idx          INTEGER NOT NULL,
	odds         NUMERIC NOT NULL DEFAULT 0,
	from_value   NUMERIC NOT NULL DEFAULT 0,
	member_count INTEGER NOT NULL DEFAULT 0,
	in_pot       NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (bet_id, idx)
);

CREATE TABLE IF NOT EXISTS tips (
	id             TEXT PRIMARY KEY,
	bet_id         TEXT NOT NULL REFERENCES bets(id) ON DELETE CASCADE,
	game_id        TEXT NOT NULL,
	user_id        TEXT NOT NULL,
	currency       NUMERIC NOT NULL CHECK (currency > 0 AND currency = trunc(currency, 4)),
	answer_id      INTEGER,
	answer_decimal NUMERIC,
	diff           NUMERIC NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS tips_bet_idx ON tips (bet_id, created_at);

CREATE TABLE IF NOT EXISTS members (
	game_id  TEXT NOT NULL,
	user_id  TEXT NOT NULL,
	currency NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (game_id, user_id)
);

CREATE TABLE IF NOT EXISTS game_logs (
	id          TEXT PRIMARY KEY,
	game_id     TEXT NOT NULL,
	log_type    TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate aplica o schema (DB_AUTO_MIGRATE=true)
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}
