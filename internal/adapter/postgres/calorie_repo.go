package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttrend/internal/domain"
)

var _ domain.CalorieRepository = (*DB)(nil)

// AddCalorieEntry inserts a meal or exercise entry.
func (d *DB) AddCalorieEntry(ctx context.Context, e domain.CalorieEntry) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO calorie_entries(user_id, day, kind, name, calories, protein, carbs, fat, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id;`,
		e.UserID, e.Day, string(e.Kind), e.Name, e.Calories, e.Protein, e.Carbs, e.Fat, e.CreatedAt.UTC(),
	).Scan(&id)
	return id, err
}

// ListCalorieEntries returns the user's entries for a day, newest first.
func (d *DB) ListCalorieEntries(ctx context.Context, userID int64, day string) ([]domain.CalorieEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, kind, name, calories, protein, carbs, fat, created_at FROM calorie_entries
		WHERE user_id=$1 AND day=$2 ORDER BY created_at DESC, id DESC;`,
		userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.CalorieEntry{}
	for rows.Next() {
		e := domain.CalorieEntry{UserID: userID, Day: day}
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Name, &e.Calories, &e.Protein, &e.Carbs, &e.Fat, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.CalorieKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteCalorieEntry removes one of the user's entries.
func (d *DB) DeleteCalorieEntry(ctx context.Context, userID, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM calorie_entries WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetDailyCalorieGoal returns the user's daily goal, 0 if unset.
func (d *DB) GetDailyCalorieGoal(ctx context.Context, userID int64) (int, error) {
	var kcal int
	err := d.sql.QueryRowContext(ctx, "SELECT daily_kcal FROM calorie_goals WHERE user_id=$1;", userID).Scan(&kcal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return kcal, err
}

// SetDailyCalorieGoal upserts the user's daily goal.
func (d *DB) SetDailyCalorieGoal(ctx context.Context, userID int64, kcal int) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO calorie_goals(user_id, daily_kcal, updated_at) VALUES($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET daily_kcal=EXCLUDED.daily_kcal, updated_at=EXCLUDED.updated_at;`,
		userID, kcal, time.Now().UTC())
	return err
}
