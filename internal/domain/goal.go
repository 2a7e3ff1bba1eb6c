package domain

import (
	"context"
	"time"
)

// Goal is a user's target body weight.
type Goal struct {
	UserID      int64     `json:"userId"`
	TargetValue float64   `json:"targetValue"`
	Unit        string    `json:"unit"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GoalRepository is the port for goal persistence. GetGoal returns nil
// without error when the user has not set a goal.
type GoalRepository interface {
	GetGoal(ctx context.Context, userID int64) (*Goal, error)
	SetGoal(ctx context.Context, userID int64, targetValue float64, unit string, updatedAt time.Time) (*Goal, error)
}
