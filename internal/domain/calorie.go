package domain

import (
	"context"
	"time"
)

// CalorieKind distinguishes food eaten from energy burned.
type CalorieKind string

const (
	CalorieMeal     CalorieKind = "meal"
	CalorieExercise CalorieKind = "exercise"
)

// ValidCalorieKind reports whether k is a known kind.
func ValidCalorieKind(k CalorieKind) bool {
	return k == CalorieMeal || k == CalorieExercise
}

// CalorieEntry is one logged meal or exercise. Macros are grams and are
// always zero for exercises.
type CalorieEntry struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	Day       string      `json:"day"`
	Kind      CalorieKind `json:"kind"`
	Name      string      `json:"name"`
	Calories  int         `json:"calories"`
	Protein   int         `json:"protein"`
	Carbs     int         `json:"carbs"`
	Fat       int         `json:"fat"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CalorieRepository is the port for the per-day calorie log and the
// user's daily calorie goal.
type CalorieRepository interface {
	AddCalorieEntry(ctx context.Context, e CalorieEntry) (int64, error)
	// ListCalorieEntries returns the user's entries for a local day, newest
	// first.
	ListCalorieEntries(ctx context.Context, userID int64, day string) ([]CalorieEntry, error)
	DeleteCalorieEntry(ctx context.Context, userID, id int64) (bool, error)
	// GetDailyCalorieGoal returns 0 when no goal is set.
	GetDailyCalorieGoal(ctx context.Context, userID int64) (int, error)
	SetDailyCalorieGoal(ctx context.Context, userID int64, kcal int) error
}
