package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"weighttrend/internal/domain"
)

var (
	// ErrInvalidCalorieEntry indicates a log entry without a name, with an
	// unknown kind or with negative amounts.
	ErrInvalidCalorieEntry = errors.New("entry needs a name, a kind of meal or exercise and non-negative amounts")
	// ErrInvalidCalorieGoal indicates a daily goal outside [1, MaxDailyCalories].
	ErrInvalidCalorieGoal = fmt.Errorf("daily calorie goal must be between 1 and %d", MaxDailyCalories)
	// ErrInvalidProfile indicates a height or age that cannot be used to
	// derive a calorie goal.
	ErrInvalidProfile = errors.New("height (cm) and age (years) must be positive")
	// ErrInvalidDay indicates a day that is not formatted as YYYY-MM-DD.
	ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")
	// ErrNoWeight indicates that a calculation needs a recorded weight.
	ErrNoWeight = errors.New("no weight recorded yet")
)

const (
	// MaxDailyCalories bounds the daily calorie goal.
	MaxDailyCalories = 20000

	maxEntryNameLen = 200
	activityFactor  = 1.55
	goalAdjustment  = 500
)

// CalorieDay is the aggregated calorie log of one local day.
type CalorieDay struct {
	Day       string                `json:"day"`
	DailyGoal int                   `json:"dailyGoal"`
	Consumed  int                   `json:"consumed"`
	Burned    int                   `json:"burned"`
	Remaining int                   `json:"remaining"`
	Progress  float64               `json:"progress"`
	Protein   int                   `json:"protein"`
	Carbs     int                   `json:"carbs"`
	Fat       int                   `json:"fat"`
	Meals     []domain.CalorieEntry `json:"meals"`
	Exercises []domain.CalorieEntry `json:"exercises"`
}

// SummarizeCalories totals a day's entries against goal. Remaining never
// drops below zero and Progress is consumed/goal, zero without a goal.
func SummarizeCalories(day string, goal int, entries []domain.CalorieEntry) CalorieDay {
	d := CalorieDay{
		Day:       day,
		DailyGoal: goal,
		Meals:     []domain.CalorieEntry{},
		Exercises: []domain.CalorieEntry{},
	}
	for _, e := range entries {
		switch e.Kind {
		case domain.CalorieMeal:
			d.Consumed += e.Calories
			d.Protein += e.Protein
			d.Carbs += e.Carbs
			d.Fat += e.Fat
			d.Meals = append(d.Meals, e)
		case domain.CalorieExercise:
			d.Burned += e.Calories
			d.Exercises = append(d.Exercises, e)
		}
	}
	d.Remaining = max(goal-d.Consumed+d.Burned, 0)
	if goal > 0 {
		d.Progress = float64(d.Consumed) / float64(goal)
	}
	return d
}

// DailyCalorieGoal estimates a daily intake from the Mifflin-St Jeor BMR at
// a moderate activity level, plus 500 kcal to gain towards targetKg or
// minus 500 kcal otherwise.
func DailyCalorieGoal(weightKg, heightCm, age, targetKg float64) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*age + 5
	tdee := bmr * activityFactor
	if targetKg > weightKg {
		tdee += goalAdjustment
	} else {
		tdee -= goalAdjustment
	}
	return int(math.Round(tdee))
}

// CalorieService manages the per-day calorie log.
type CalorieService struct {
	repo    domain.CalorieRepository
	weights domain.WeightRepository
	goals   domain.GoalRepository
}

// NewCalorieService creates a CalorieService. The weight and goal
// repositories feed DeriveDailyGoal.
func NewCalorieService(repo domain.CalorieRepository, wr domain.WeightRepository, gr domain.GoalRepository) *CalorieService {
	return &CalorieService{repo: repo, weights: wr, goals: gr}
}

// Today returns the aggregated log of the current local day.
func (s *CalorieService) Today(ctx context.Context, userID int64) (*CalorieDay, error) {
	return s.Day(ctx, userID, localDay(time.Now()))
}

// Day returns the aggregated log of a local day formatted as YYYY-MM-DD.
func (s *CalorieService) Day(ctx context.Context, userID int64, day string) (*CalorieDay, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, ErrInvalidDay
	}
	goal, err := s.repo.GetDailyCalorieGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get calorie goal: %w", err)
	}
	entries, err := s.repo.ListCalorieEntries(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list calorie entries: %w", err)
	}
	d := SummarizeCalories(day, goal, entries)
	return &d, nil
}

// AddEntry logs a meal or exercise for today and returns the updated day.
func (s *CalorieService) AddEntry(ctx context.Context, userID int64, e domain.CalorieEntry) (*CalorieDay, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := validateCalorieEntry(e); err != nil {
		return nil, err
	}
	if e.Kind == domain.CalorieExercise {
		e.Protein, e.Carbs, e.Fat = 0, 0, 0
	}
	now := time.Now()
	e.UserID = userID
	e.Day = localDay(now)
	e.CreatedAt = now
	if _, err := s.repo.AddCalorieEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("add calorie entry: %w", err)
	}
	return s.Day(ctx, userID, e.Day)
}

// DeleteEntry removes one of the user's entries and returns today's log.
func (s *CalorieService) DeleteEntry(ctx context.Context, userID, id int64) (bool, *CalorieDay, error) {
	deleted, err := s.repo.DeleteCalorieEntry(ctx, userID, id)
	if err != nil {
		return false, nil, fmt.Errorf("delete calorie entry: %w", err)
	}
	d, err := s.Today(ctx, userID)
	return deleted, d, err
}

// GetDailyGoal returns the user's daily calorie goal, 0 if unset.
func (s *CalorieService) GetDailyGoal(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetDailyCalorieGoal(ctx, userID)
}

// SetDailyGoal stores an explicit daily calorie goal.
func (s *CalorieService) SetDailyGoal(ctx context.Context, userID int64, kcal int) error {
	if kcal < 1 || kcal > MaxDailyCalories {
		return ErrInvalidCalorieGoal
	}
	return s.repo.SetDailyCalorieGoal(ctx, userID, kcal)
}

// DeriveDailyGoal computes the daily goal from the latest recorded weight,
// the stored target weight and the given height and age, then stores it.
// Without a target weight the goal is set for losing.
func (s *CalorieService) DeriveDailyGoal(ctx context.Context, userID int64, heightCm, age float64) (int, error) {
	if !(heightCm > 0) || !(age > 0) || math.IsInf(heightCm, 0) || math.IsInf(age, 0) {
		return 0, ErrInvalidProfile
	}
	latest, err := s.weights.ListRecentWeightEvents(ctx, userID, 1)
	if err != nil {
		return 0, fmt.Errorf("latest weight: %w", err)
	}
	if len(latest) == 0 {
		return 0, ErrNoWeight
	}
	weightKg := domain.ConvertWeight(latest[0].Value, latest[0].Unit, domain.UnitKg)

	targetKg := weightKg
	goal, err := s.goals.GetGoal(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get goal: %w", err)
	}
	if goal != nil {
		targetKg = domain.ConvertWeight(goal.TargetValue, goal.Unit, domain.UnitKg)
	}

	kcal := DailyCalorieGoal(weightKg, heightCm, age, targetKg)
	if err := s.SetDailyGoal(ctx, userID, kcal); err != nil {
		return 0, err
	}
	return kcal, nil
}

func validateCalorieEntry(e domain.CalorieEntry) error {
	switch {
	case !domain.ValidCalorieKind(e.Kind),
		e.Name == "", len(e.Name) > maxEntryNameLen,
		e.Calories < 0, e.Protein < 0, e.Carbs < 0, e.Fat < 0:
		return ErrInvalidCalorieEntry
	}
	return nil
}
