package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ProgressionRepository persists experience awards. Each grant updates the
// character's running total and appends an audit row in one transaction, so
// the total and the log can never disagree.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository creates a ProgressionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// GrantExperience adds amount experience to the character identified by
// playerID and records the grant in the experience log.
//
// Precondition: amount must be > 0; reason must be non-empty.
// Postcondition: Returns ErrCharacterNotFound if no such character exists;
// on success both the total and the log row are committed.
func (r *ProgressionRepository) GrantExperience(ctx context.Context, playerID string, amount int, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("experience amount must be > 0, got %d", amount)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning grant transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE characters SET experience = experience + $2, updated_at = now()
		WHERE id = $1`,
		playerID, amount,
	)
	if err != nil {
		return fmt.Errorf("updating experience total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO experience_log (character_id, amount, reason)
		VALUES ($1, $2, $3)`,
		playerID, amount, reason,
	); err != nil {
		return fmt.Errorf("inserting experience log row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing grant transaction: %w", err)
	}
	return nil
}

// Experience returns the current experience total for the character.
//
// Postcondition: Returns ErrCharacterNotFound if no such character exists.
func (r *ProgressionRepository) Experience(ctx context.Context, playerID string) (int64, error) {
	var xp int64
	err := r.db.QueryRow(ctx,
		`SELECT experience FROM characters WHERE id = $1`, playerID,
	).Scan(&xp)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrCharacterNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying experience: %w", err)
	}
	return xp, nil
}

// SaveVitals persists a character's current vitality after combat.
//
// Postcondition: Returns ErrCharacterNotFound if no such character exists.
func (r *ProgressionRepository) SaveVitals(ctx context.Context, playerID string, currentVitality int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET current_vitality = $2, updated_at = now()
		WHERE id = $1`,
		playerID, currentVitality,
	)
	if err != nil {
		return fmt.Errorf("saving vitals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
