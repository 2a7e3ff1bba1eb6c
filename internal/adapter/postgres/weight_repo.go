package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttrend/internal/domain"
)

var (
	_ domain.WeightRepository  = (*DB)(nil)
	_ domain.GoalRepository    = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// AddWeightEvent inserts a new weight event for a user.
func (d *DB) AddWeightEvent(ctx context.Context, userID int64, value float64, unit string, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO weight_events(user_id, value, unit, created_at) VALUES($1, $2, $3, $4) RETURNING id;",
		userID, value, unit, createdAt.UTC(),
	).Scan(&id)
	return id, err
}

// DeleteLatestWeightEvent removes the user's most recent weight event.
func (d *DB) DeleteLatestWeightEvent(ctx context.Context, userID int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		`DELETE FROM weight_events WHERE id = (
			SELECT id FROM weight_events WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1
		);`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LatestWeightForLocalDay returns the user's most recent weight entry for a
// local calendar day.
func (d *DB) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string) (*domain.WeightEntry, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	row := d.sql.QueryRowContext(ctx,
		"SELECT id, value, unit, created_at FROM weight_events WHERE user_id=$1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC LIMIT 1;",
		userID, dayStart.UTC(), dayEnd.UTC(),
	)

	e := domain.WeightEntry{UserID: userID, Day: localDay}
	if err := row.Scan(&e.ID, &e.Value, &e.Unit, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListRecentWeightEvents returns the user's most recent weight events up to limit.
func (d *DB) ListRecentWeightEvents(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	return d.queryWeights(ctx, userID,
		"SELECT id, value, unit, created_at FROM weight_events WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;",
		userID, limit)
}

// ListWeightEventsSince returns the user's weight events at or after since,
// oldest first.
func (d *DB) ListWeightEventsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightEntry, error) {
	return d.queryWeights(ctx, userID,
		"SELECT id, value, unit, created_at FROM weight_events WHERE user_id=$1 AND created_at >= $2 ORDER BY created_at ASC, id ASC;",
		userID, since.UTC())
}

func (d *DB) queryWeights(ctx context.Context, userID int64, query string, args ...any) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.WeightEntry{}
	for rows.Next() {
		e := domain.WeightEntry{UserID: userID}
		if err := rows.Scan(&e.ID, &e.Value, &e.Unit, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Day = e.CreatedAt.In(time.Local).Format("2006-01-02")
		out = append(out, e)
	}
	return out, rows.Err()
}
