package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"weighttrend/internal/domain"
)

var (
	// ErrInvalidValue indicates a weight that is not a finite positive number.
	ErrInvalidValue = errors.New("value must be > 0")
	// ErrInvalidUnit indicates a unit other than "kg" or "lb".
	ErrInvalidUnit = errors.New("unit must be \"kg\" or \"lb\"")
)

// MaxHistoryDays bounds every look-back window served by the services.
const MaxHistoryDays = 730

// MaxRecentLimit caps the number of entries ListRecent returns.
const MaxRecentLimit = MaxHistoryDays

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	repo domain.WeightRepository
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo}
}

// GetTodayWeight returns the latest weight entry for the given local day.
func (s *WeightService) GetTodayWeight(ctx context.Context, userID int64, today string) (*domain.WeightEntry, error) {
	return s.repo.LatestWeightForLocalDay(ctx, userID, today)
}

// RecordWeight validates and stores a new weight measurement, returning the
// latest entry for today after the insert.
func (s *WeightService) RecordWeight(ctx context.Context, userID int64, value float64, unit string) (*domain.WeightEntry, string, error) {
	if err := validateWeight(value, unit); err != nil {
		return nil, "", err
	}
	now := time.Now()
	today := localDay(now)
	if _, err := s.repo.AddWeightEvent(ctx, userID, value, unit, now); err != nil {
		return nil, today, fmt.Errorf("add weight event: %w", err)
	}
	entry, err := s.repo.LatestWeightForLocalDay(ctx, userID, today)
	return entry, today, err
}

// ListRecent returns the most recent weight events up to limit, which is
// clamped to [1, MaxRecentLimit].
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	limit = max(1, min(limit, MaxRecentLimit))
	return s.repo.ListRecentWeightEvents(ctx, userID, limit)
}

// History returns every weight event of the last days days, oldest first.
func (s *WeightService) History(ctx context.Context, userID int64, days int) ([]domain.WeightEntry, error) {
	return s.repo.ListWeightEventsSince(ctx, userID, windowStart(time.Now(), days))
}

// UndoLast deletes the most recent weight event and returns the new latest
// entry for today.
func (s *WeightService) UndoLast(ctx context.Context, userID int64) (bool, *domain.WeightEntry, string, error) {
	today := localDay(time.Now())
	deleted, err := s.repo.DeleteLatestWeightEvent(ctx, userID)
	if err != nil {
		return false, nil, today, err
	}
	entry, _ := s.repo.LatestWeightForLocalDay(ctx, userID, today)
	return deleted, entry, today, nil
}

func validateWeight(value float64, unit string) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return ErrInvalidValue
	}
	if !domain.ValidUnit(unit) {
		return ErrInvalidUnit
	}
	return nil
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

// windowStart returns local midnight days-1 days before now, so a window of
// one day covers today only. days is clamped to [1, MaxHistoryDays].
func windowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	local := now.In(time.Local)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	return midnight.AddDate(0, 0, -(days - 1))
}
