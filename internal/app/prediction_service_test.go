package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"weighttrend/internal/app"
	"weighttrend/internal/domain"
	"weighttrend/internal/trend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	seen []trend.Prediction
}

func (o *recordingObserver) ObservePrediction(p trend.Prediction) {
	o.seen = append(o.seen, p)
}

// losingHistory returns one kg entry per week ending now, dropping 2 kg per
// week: 100, 98, 96, 94.
func losingHistory(now time.Time) []domain.WeightEntry {
	out := make([]domain.WeightEntry, 4)
	for i := range out {
		out[i] = domain.WeightEntry{
			ID:        int64(i + 1),
			Value:     100 - 2*float64(i),
			Unit:      "kg",
			CreatedAt: now.Add(time.Duration(i-3) * trend.Week),
		}
	}
	return out
}

func historyRepo(entries []domain.WeightEntry) *mockWeightRepo {
	return &mockWeightRepo{
		sinceFn: func(context.Context, int64, time.Time) ([]domain.WeightEntry, error) {
			return entries, nil
		},
	}
}

func ptr(v float64) *float64 { return &v }

func TestPredictionService_FromStoredGoal(t *testing.T) {
	goals := &mockGoalRepo{
		getFn: func(context.Context, int64) (*domain.Goal, error) {
			return &domain.Goal{UserID: 1, TargetValue: 90, Unit: "kg"}, nil
		},
	}
	obs := &recordingObserver{}
	svc := app.NewPredictionService(historyRepo(losingHistory(time.Now())), goals, obs)

	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{})
	require.NoError(t, err)
	require.True(t, res.Available)
	require.NotNil(t, res.WeeksRemaining)
	assert.Equal(t, 2, *res.WeeksRemaining)
	assert.Equal(t, "kg", res.Unit)
	assert.Equal(t, 90.0, res.Target)
	assert.Equal(t, 4, res.Samples)
	require.NotNil(t, res.WeeklyRate)
	assert.InDelta(t, -2.0, *res.WeeklyRate, 1e-9)
	require.NotNil(t, res.EstimatedDay)
	assert.Equal(t, time.Now().AddDate(0, 0, 14).In(time.Local).Format("2006-01-02"), *res.EstimatedDay)
	assert.Equal(t, "about 2 weeks remaining", res.Message)
	assert.Len(t, obs.seen, 1)
}

func TestPredictionService_ConvertsToTargetUnit(t *testing.T) {
	svc := app.NewPredictionService(historyRepo(losingHistory(time.Now())), &mockGoalRepo{}, nil)

	// 90 kg expressed in pounds; history is in kg.
	target := domain.ConvertWeight(90, "kg", "lb")
	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: &target, Unit: "lb"})
	require.NoError(t, err)
	require.True(t, res.Available)
	assert.Equal(t, 2, *res.WeeksRemaining)
	assert.Equal(t, "lb", res.Unit)
	assert.InDelta(t, -2*2.2046226218, *res.WeeklyRate, 1e-6)
}

func TestPredictionService_GoalInOtherUnit(t *testing.T) {
	goals := &mockGoalRepo{
		getFn: func(context.Context, int64) (*domain.Goal, error) {
			return &domain.Goal{TargetValue: domain.ConvertWeight(90, "kg", "lb"), Unit: "lb"}, nil
		},
	}
	svc := app.NewPredictionService(historyRepo(losingHistory(time.Now())), goals, nil)

	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Unit: "kg"})
	require.NoError(t, err)
	assert.InDelta(t, 90.0, res.Target, 1e-9)
	assert.Equal(t, 2, *res.WeeksRemaining)
}

func TestPredictionService_NotEnoughData(t *testing.T) {
	now := time.Now()
	svc := app.NewPredictionService(historyRepo(losingHistory(now)[:1]), &mockGoalRepo{}, nil)

	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(80)})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Nil(t, res.WeeksRemaining)
	assert.Nil(t, res.EstimatedDay)
	assert.Equal(t, trend.ReasonInsufficientData, res.Reason)
	assert.Equal(t, "not enough data yet", res.Message)
	assert.Equal(t, 1, res.Samples)
}

func TestPredictionService_TargetReached(t *testing.T) {
	svc := app.NewPredictionService(historyRepo(losingHistory(time.Now())), &mockGoalRepo{}, nil)

	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(97)})
	require.NoError(t, err)
	require.True(t, res.Available)
	assert.Equal(t, 0, *res.WeeksRemaining)
	assert.Equal(t, "target weight reached", res.Message)
}

func TestPredictionService_NoTarget(t *testing.T) {
	svc := app.NewPredictionService(historyRepo(nil), &mockGoalRepo{}, nil)
	_, err := svc.Predict(context.Background(), 1, app.PredictionOptions{})
	assert.ErrorIs(t, err, app.ErrNoTarget)
}

func TestPredictionService_InvalidOptions(t *testing.T) {
	svc := app.NewPredictionService(historyRepo(nil), &mockGoalRepo{}, nil)

	_, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(80), Unit: "st"})
	assert.ErrorIs(t, err, app.ErrInvalidUnit)

	_, err = svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(-1)})
	assert.ErrorIs(t, err, app.ErrInvalidValue)
}

func TestPredictionService_RepoErrors(t *testing.T) {
	goals := &mockGoalRepo{
		getFn: func(context.Context, int64) (*domain.Goal, error) { return nil, errors.New("db down") },
	}
	svc := app.NewPredictionService(historyRepo(nil), goals, nil)
	_, err := svc.Predict(context.Background(), 1, app.PredictionOptions{})
	assert.Error(t, err)

	weights := &mockWeightRepo{
		sinceFn: func(context.Context, int64, time.Time) ([]domain.WeightEntry, error) {
			return nil, errors.New("db down")
		},
	}
	svc = app.NewPredictionService(weights, &mockGoalRepo{}, nil)
	_, err = svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(80)})
	assert.Error(t, err)
}

func TestPredictionService_Window(t *testing.T) {
	var gotSince time.Time
	weights := &mockWeightRepo{
		sinceFn: func(_ context.Context, _ int64, since time.Time) ([]domain.WeightEntry, error) {
			gotSince = since
			return nil, nil
		},
	}
	svc := app.NewPredictionService(weights, &mockGoalRepo{}, nil).WithWindowDays(30)

	_, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(80)})
	require.NoError(t, err)
	assert.InDelta(t, 30*24, time.Since(gotSince).Hours(), 26)

	_, err = svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(80), WindowDays: 7})
	require.NoError(t, err)
	assert.InDelta(t, 7*24, time.Since(gotSince).Hours(), 26)
}

func TestPredictionService_SlowTrendEstimatedDay(t *testing.T) {
	now := time.Now()
	// 1 g per week, just above trend.MinWeeklyRate.
	history := []domain.WeightEntry{
		{ID: 1, Value: 80.000, Unit: "kg", CreatedAt: now.Add(-2 * trend.Week)},
		{ID: 2, Value: 79.999, Unit: "kg", CreatedAt: now.Add(-trend.Week)},
		{ID: 3, Value: 79.998, Unit: "kg", CreatedAt: now},
	}
	svc := app.NewPredictionService(historyRepo(history), &mockGoalRepo{}, nil)

	res, err := svc.Predict(context.Background(), 1, app.PredictionOptions{Target: ptr(50)})
	require.NoError(t, err)
	require.True(t, res.Available)
	require.NotNil(t, res.WeeksRemaining)
	assert.InDelta(t, 29998, *res.WeeksRemaining, 1)

	require.NotNil(t, res.EstimatedDay)
	today := now.In(time.Local).Format("2006-01-02")
	assert.Greater(t, *res.EstimatedDay, today, "estimate must lie in the future")
	want := now.AddDate(0, 0, 7*(*res.WeeksRemaining)).In(time.Local).Format("2006-01-02")
	assert.Equal(t, want, *res.EstimatedDay)
}
