package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"weighttrend/internal/app"
	"weighttrend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCalorieRepo struct {
	entries []domain.CalorieEntry
	goal    int
	listErr error
}

func (m *mockCalorieRepo) AddCalorieEntry(_ context.Context, e domain.CalorieEntry) (int64, error) {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append([]domain.CalorieEntry{e}, m.entries...)
	return e.ID, nil
}

func (m *mockCalorieRepo) ListCalorieEntries(_ context.Context, userID int64, day string) ([]domain.CalorieEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.CalorieEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.Day == day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockCalorieRepo) DeleteCalorieEntry(_ context.Context, userID, id int64) (bool, error) {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCalorieRepo) GetDailyCalorieGoal(context.Context, int64) (int, error) {
	return m.goal, nil
}

func (m *mockCalorieRepo) SetDailyCalorieGoal(_ context.Context, _ int64, kcal int) error {
	m.goal = kcal
	return nil
}

func TestSummarizeCalories(t *testing.T) {
	entries := []domain.CalorieEntry{
		{Kind: domain.CalorieMeal, Name: "oats", Calories: 400, Protein: 15, Carbs: 60, Fat: 8},
		{Kind: domain.CalorieExercise, Name: "run", Calories: 300},
		{Kind: domain.CalorieMeal, Name: "chicken", Calories: 600, Protein: 50, Carbs: 10, Fat: 20},
	}

	d := app.SummarizeCalories("2026-03-01", 2000, entries)
	assert.Equal(t, 1000, d.Consumed)
	assert.Equal(t, 300, d.Burned)
	assert.Equal(t, 1300, d.Remaining)
	assert.InDelta(t, 0.5, d.Progress, 1e-9)
	assert.Equal(t, 65, d.Protein)
	assert.Equal(t, 70, d.Carbs)
	assert.Equal(t, 28, d.Fat)
	assert.Len(t, d.Meals, 2)
	assert.Len(t, d.Exercises, 1)
}

func TestSummarizeCalories_Edges(t *testing.T) {
	over := []domain.CalorieEntry{{Kind: domain.CalorieMeal, Calories: 2500}}
	d := app.SummarizeCalories("2026-03-01", 2000, over)
	assert.Equal(t, 0, d.Remaining, "remaining never goes negative")
	assert.InDelta(t, 1.25, d.Progress, 1e-9)

	d = app.SummarizeCalories("2026-03-01", 0, over)
	assert.Zero(t, d.Progress, "no goal means no progress")

	d = app.SummarizeCalories("2026-03-01", 1800, nil)
	assert.Equal(t, 1800, d.Remaining)
	assert.NotNil(t, d.Meals)
	assert.NotNil(t, d.Exercises)
}

func TestDailyCalorieGoal(t *testing.T) {
	// BMR = 800 + 1125 - 150 + 5 = 1780; * 1.55 = 2759.
	assert.Equal(t, 2259, app.DailyCalorieGoal(80, 180, 30, 75))
	assert.Equal(t, 3259, app.DailyCalorieGoal(80, 180, 30, 85))
	assert.Equal(t, 2259, app.DailyCalorieGoal(80, 180, 30, 80), "maintaining counts as losing")
}

func TestCalorieService_AddAndDelete(t *testing.T) {
	repo := &mockCalorieRepo{goal: 2000}
	svc := app.NewCalorieService(repo, &mockWeightRepo{}, &mockGoalRepo{})
	ctx := context.Background()

	d, err := svc.AddEntry(ctx, 1, domain.CalorieEntry{Kind: domain.CalorieMeal, Name: "  toast ", Calories: 250, Protein: 8})
	require.NoError(t, err)
	assert.Equal(t, 250, d.Consumed)
	require.Len(t, d.Meals, 1)
	assert.Equal(t, "toast", d.Meals[0].Name)
	assert.Equal(t, int64(1), d.Meals[0].UserID)

	d, err = svc.AddEntry(ctx, 1, domain.CalorieEntry{Kind: domain.CalorieExercise, Name: "swim", Calories: 200, Protein: 99})
	require.NoError(t, err)
	assert.Equal(t, 200, d.Burned)
	assert.Equal(t, 8, d.Protein, "exercise macros are dropped")
	assert.Equal(t, 1950, d.Remaining)

	deleted, d, err := svc.DeleteEntry(ctx, 1, d.Meals[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, d.Consumed)

	deleted, _, err = svc.DeleteEntry(ctx, 2, 2)
	require.NoError(t, err)
	assert.False(t, deleted, "other users' entries are not touched")
}

func TestCalorieService_InvalidEntries(t *testing.T) {
	svc := app.NewCalorieService(&mockCalorieRepo{}, &mockWeightRepo{}, &mockGoalRepo{})
	for _, e := range []domain.CalorieEntry{
		{Kind: domain.CalorieMeal, Name: "", Calories: 100},
		{Kind: domain.CalorieMeal, Name: "   ", Calories: 100},
		{Kind: "snack", Name: "chips", Calories: 100},
		{Kind: domain.CalorieMeal, Name: "chips", Calories: -1},
		{Kind: domain.CalorieMeal, Name: "chips", Calories: 100, Fat: -2},
	} {
		_, err := svc.AddEntry(context.Background(), 1, e)
		assert.ErrorIs(t, err, app.ErrInvalidCalorieEntry, "%+v", e)
	}
}

func TestCalorieService_Day(t *testing.T) {
	repo := &mockCalorieRepo{goal: 1800}
	svc := app.NewCalorieService(repo, &mockWeightRepo{}, &mockGoalRepo{})

	_, err := svc.Day(context.Background(), 1, "yesterday")
	assert.ErrorIs(t, err, app.ErrInvalidDay)

	d, err := svc.Day(context.Background(), 1, "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 1800, d.DailyGoal)

	repo.listErr = errors.New("db down")
	_, err = svc.Today(context.Background(), 1)
	assert.Error(t, err)
}

func TestCalorieService_SetDailyGoal(t *testing.T) {
	repo := &mockCalorieRepo{}
	svc := app.NewCalorieService(repo, &mockWeightRepo{}, &mockGoalRepo{})

	require.NoError(t, svc.SetDailyGoal(context.Background(), 1, 2100))
	assert.Equal(t, 2100, repo.goal)

	for _, kcal := range []int{0, -5, app.MaxDailyCalories + 1} {
		assert.ErrorIs(t, svc.SetDailyGoal(context.Background(), 1, kcal), app.ErrInvalidCalorieGoal)
	}
}

func TestCalorieService_DeriveDailyGoal(t *testing.T) {
	weights := &mockWeightRepo{
		listFn: func(_ context.Context, _ int64, limit int) ([]domain.WeightEntry, error) {
			require.Equal(t, 1, limit)
			return []domain.WeightEntry{{Value: domain.ConvertWeight(80, "kg", "lb"), Unit: "lb", CreatedAt: time.Now()}}, nil
		},
	}
	goals := &mockGoalRepo{
		getFn: func(context.Context, int64) (*domain.Goal, error) {
			return &domain.Goal{TargetValue: 75, Unit: "kg"}, nil
		},
	}
	repo := &mockCalorieRepo{}
	svc := app.NewCalorieService(repo, weights, goals)

	kcal, err := svc.DeriveDailyGoal(context.Background(), 1, 180, 30)
	require.NoError(t, err)
	assert.Equal(t, 2259, kcal)
	assert.Equal(t, 2259, repo.goal)

	_, err = svc.DeriveDailyGoal(context.Background(), 1, 0, 30)
	assert.ErrorIs(t, err, app.ErrInvalidProfile)

	svc = app.NewCalorieService(repo, &mockWeightRepo{}, goals)
	_, err = svc.DeriveDailyGoal(context.Background(), 1, 180, 30)
	assert.ErrorIs(t, err, app.ErrNoWeight)
}
