package repo

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

//go:embed schema.sql
var schema string

// Postgres é o journal de auditoria das operações do wager-client.
// Guarda metadados e o status do jogo, nunca um snapshot restaurável da aposta.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// EnsureSchema cria a tabela se ainda não existir.
func (r *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertOperation grava uma operação. Reentregas do mesmo op_id são ignoradas;
// inserted indica se a linha é nova.
func (r *Postgres) InsertOperation(ctx context.Context, e events.WagerOperation) (inserted bool, err error) {
	const q = `
		INSERT INTO wager_operations
		  (op_id, op, outcome, error_kind, detail, caller, tx_hash, duration_ms, game_status, ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (op_id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q,
		e.OpID, e.Op, e.Outcome,
		nullString(e.ErrorKind), nullString(e.Detail),
		e.Caller, nullString(e.TxHash),
		e.DurationMs, e.GameStatus, e.Ts,
	)
	if err != nil {
		return false, fmt.Errorf("insert wager operation %s: %w", e.OpID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
