package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/match"
)

// ErrResultExists is returned when a battle id has already been recorded.
var ErrResultExists = errors.New("battle result already recorded")

// ErrResultNotFound is returned when a battle id has no stored result.
var ErrResultNotFound = errors.New("battle result not found")

// ResultSummary is a stored battle result without its event log.
type ResultSummary struct {
	ID       uuid.UUID
	Rosters  [2][]string
	Winner   *combat.Side
	Draw     bool
	Forfeit  bool
	Rounds   int
	Started  time.Time
	Finished time.Time
}

// ResultRepository stores finished battles. It satisfies match.Recorder.
type ResultRepository struct {
	db *pgxpool.Pool
}

var _ match.Recorder = (*ResultRepository)(nil)

// NewResultRepository creates a ResultRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Record stores res and its events in one transaction.
//
// Postcondition: either the result and every event are stored, or nothing is
// and a non-nil error is returned; a repeated id yields ErrResultExists.
func (r *ResultRepository) Record(ctx context.Context, res match.Result) error {
	var winner *string
	if res.Winner != nil {
		w := res.Winner.String()
		winner = &w
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO battle_results
				(id, roster_a, roster_b, winner, draw, forfeit, rounds, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.ID, res.Rosters[combat.SideA], res.Rosters[combat.SideB], winner,
			res.Draw, res.Forfeit, res.Rounds, res.Started, res.Finished,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrResultExists
			}
			return fmt.Errorf("inserting battle result: %w", err)
		}
		if len(res.Events) == 0 {
			return nil
		}
		rows := make([][]any, len(res.Events))
		for i, e := range res.Events {
			rows[i] = []any{res.ID, i, e.Round, string(e.Kind), e.Side.String(), e.Narrative}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"battle_events"},
			[]string{"battle_id", "seq", "round", "kind", "side", "narrative"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copying battle events: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit results, most recently finished first.
//
// Precondition: limit must be > 0.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]ResultSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, roster_a, roster_b, winner, draw, forfeit, rounds, started_at, finished_at
		FROM battle_results ORDER BY finished_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle results: %w", err)
	}
	defer rows.Close()

	var out []ResultSummary
	for rows.Next() {
		var (
			s      ResultSummary
			winner *string
		)
		if err := rows.Scan(&s.ID, &s.Rosters[combat.SideA], &s.Rosters[combat.SideB], &winner,
			&s.Draw, &s.Forfeit, &s.Rounds, &s.Started, &s.Finished); err != nil {
			return nil, fmt.Errorf("scanning battle result: %w", err)
		}
		if winner != nil {
			side := combat.SideA
			if *winner == combat.SideB.String() {
				side = combat.SideB
			}
			s.Winner = &side
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Events returns the stored event log of battle id in emission order.
//
// Postcondition: Returns ErrResultNotFound when no such battle was recorded.
func (r *ResultRepository) Events(ctx context.Context, id uuid.UUID) ([]combat.Event, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM battle_results WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("querying battle result: %w", err)
	}
	if !exists {
		return nil, ErrResultNotFound
	}
	rows, err := r.db.Query(ctx, `
		SELECT round, kind, side, narrative
		FROM battle_events WHERE battle_id = $1 ORDER BY seq ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle events: %w", err)
	}
	defer rows.Close()

	var out []combat.Event
	for rows.Next() {
		var (
			e    combat.Event
			kind string
			side string
		)
		if err := rows.Scan(&e.Round, &kind, &side, &e.Narrative); err != nil {
			return nil, fmt.Errorf("scanning battle event: %w", err)
		}
		e.Kind = combat.EventKind(kind)
		if side == combat.SideB.String() {
			e.Side = combat.SideB
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
