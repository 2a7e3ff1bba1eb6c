package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttrend/internal/domain"
)

// GetGoal returns the user's goal, or nil if none is set.
func (d *DB) GetGoal(ctx context.Context, userID int64) (*domain.Goal, error) {
	g := domain.Goal{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		"SELECT target_value, unit, updated_at FROM goals WHERE user_id=$1;", userID,
	).Scan(&g.TargetValue, &g.Unit, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// SetGoal upserts the user's goal.
func (d *DB) SetGoal(ctx context.Context, userID int64, targetValue float64, unit string, updatedAt time.Time) (*domain.Goal, error) {
	g := domain.Goal{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO goals(user_id, target_value, unit, updated_at) VALUES($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET target_value=EXCLUDED.target_value, unit=EXCLUDED.unit, updated_at=EXCLUDED.updated_at
		RETURNING target_value, unit, updated_at;`,
		userID, targetValue, unit, updatedAt.UTC(),
	).Scan(&g.TargetValue, &g.Unit, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
