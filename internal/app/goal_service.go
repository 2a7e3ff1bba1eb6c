package app

import (
	"context"
	"time"

	"weighttrend/internal/domain"
)

// GoalService manages a user's target weight.
type GoalService struct {
	repo domain.GoalRepository
}

// NewGoalService creates a GoalService backed by the given repository.
func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// Get returns the user's goal, or nil if none is set.
func (s *GoalService) Get(ctx context.Context, userID int64) (*domain.Goal, error) {
	return s.repo.GetGoal(ctx, userID)
}

// Set validates and stores a new target weight.
func (s *GoalService) Set(ctx context.Context, userID int64, targetValue float64, unit string) (*domain.Goal, error) {
	if err := validateWeight(targetValue, unit); err != nil {
		return nil, err
	}
	return s.repo.SetGoal(ctx, userID, targetValue, unit, time.Now())
}
