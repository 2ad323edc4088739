package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/witchery/internal/game/combat"
)

// ErrRosterNotFound is returned when a roster lookup yields no results.
var ErrRosterNotFound = errors.New("roster not found")

// ErrInvalidRoster is returned when a roster fails validation before it is stored.
var ErrInvalidRoster = errors.New("invalid roster")

// Roster is a saved team selection: up to combat.MaxRoster combatant names
// in one of an owner's numbered slots.
type Roster struct {
	ID         int64
	Owner      string
	Slot       int
	Combatants []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the roster's shape without consulting the catalog.
func (r Roster) Validate() error {
	switch {
	case r.Owner == "":
		return fmt.Errorf("%w: owner must not be empty", ErrInvalidRoster)
	case r.Slot < 0:
		return fmt.Errorf("%w: slot must be >= 0, got %d", ErrInvalidRoster, r.Slot)
	case len(r.Combatants) == 0 || len(r.Combatants) > combat.MaxRoster:
		return fmt.Errorf("%w: want 1-%d combatants, got %d", ErrInvalidRoster, combat.MaxRoster, len(r.Combatants))
	}
	for i, name := range r.Combatants {
		if name == "" {
			return fmt.Errorf("%w: combatant %d has no name", ErrInvalidRoster, i)
		}
	}
	return nil
}

// RosterRepository provides roster persistence operations.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// Save stores r in its owner's slot, replacing whatever the slot held.
//
// Precondition: r must pass Validate.
// Postcondition: Returns the stored roster with ID and timestamps set.
func (r *RosterRepository) Save(ctx context.Context, roster Roster) (Roster, error) {
	if err := roster.Validate(); err != nil {
		return Roster{}, err
	}
	var out Roster
	err := r.db.QueryRow(ctx, `
		INSERT INTO rosters (owner, slot, combatants)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, slot) DO UPDATE
			SET combatants = EXCLUDED.combatants, updated_at = NOW()
		RETURNING id, owner, slot, combatants, created_at, updated_at`,
		roster.Owner, roster.Slot, roster.Combatants,
	).Scan(&out.ID, &out.Owner, &out.Slot, &out.Combatants, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Roster{}, fmt.Errorf("saving roster: %w", err)
	}
	return out, nil
}

// Get returns the roster in owner's slot.
//
// Postcondition: Returns the Roster or ErrRosterNotFound.
func (r *RosterRepository) Get(ctx context.Context, owner string, slot int) (Roster, error) {
	var out Roster
	err := r.db.QueryRow(ctx, `
		SELECT id, owner, slot, combatants, created_at, updated_at
		FROM rosters WHERE owner = $1 AND slot = $2`,
		owner, slot,
	).Scan(&out.ID, &out.Owner, &out.Slot, &out.Combatants, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Roster{}, ErrRosterNotFound
		}
		return Roster{}, fmt.Errorf("querying roster: %w", err)
	}
	return out, nil
}

// ListByOwner returns every roster owner has saved, ordered by slot.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RosterRepository) ListByOwner(ctx context.Context, owner string) ([]Roster, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner, slot, combatants, created_at, updated_at
		FROM rosters WHERE owner = $1 ORDER BY slot ASC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rosters: %w", err)
	}
	defer rows.Close()

	var out []Roster
	for rows.Next() {
		var ro Roster
		if err := rows.Scan(&ro.ID, &ro.Owner, &ro.Slot, &ro.Combatants, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning roster: %w", err)
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

// Delete removes the roster in owner's slot.
//
// Postcondition: Returns ErrRosterNotFound when the slot was empty.
func (r *RosterRepository) Delete(ctx context.Context, owner string, slot int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rosters WHERE owner = $1 AND slot = $2`, owner, slot)
	if err != nil {
		return fmt.Errorf("deleting roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRosterNotFound
	}
	return nil
}
