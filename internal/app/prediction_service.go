package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weighttrend/internal/domain"
	"weighttrend/internal/trend"

	log "github.com/sirupsen/logrus"
)

// ErrNoTarget is returned when no target weight was supplied and the user
// has no stored goal.
var ErrNoTarget = errors.New("no target weight set")

// DefaultPredictionWindowDays is the look-back window used when a request
// does not specify one.
const DefaultPredictionWindowDays = 90

// PredictionObserver is notified of every computed prediction.
type PredictionObserver interface {
	ObservePrediction(p trend.Prediction)
}

// PredictionOptions tunes a single prediction request. Zero values fall
// back to the stored goal and the service's default window.
type PredictionOptions struct {
	Target     *float64
	Unit       string
	WindowDays int
}

// PredictionResult is the prediction as presented to clients.
type PredictionResult struct {
	Available      bool         `json:"available"`
	WeeksRemaining *int         `json:"weeksRemaining"`
	EstimatedDay   *string      `json:"estimatedDay"`
	Reason         trend.Reason `json:"reason,omitempty"`
	Message        string       `json:"message"`
	Target         float64      `json:"target"`
	Unit           string       `json:"unit"`
	Samples        int          `json:"samples"`
	WeeklyRate     *float64     `json:"weeklyRate"`
}

// PredictionService turns a user's weight history and goal into an estimate
// of the weeks left until the goal is reached.
type PredictionService struct {
	weights    domain.WeightRepository
	goals      domain.GoalRepository
	observer   PredictionObserver
	windowDays int
}

// NewPredictionService creates a PredictionService. observer may be nil.
func NewPredictionService(wr domain.WeightRepository, gr domain.GoalRepository, observer PredictionObserver) *PredictionService {
	return &PredictionService{
		weights:    wr,
		goals:      gr,
		observer:   observer,
		windowDays: DefaultPredictionWindowDays,
	}
}

// WithWindowDays overrides the default look-back window.
func (s *PredictionService) WithWindowDays(days int) *PredictionService {
	if days > 0 {
		s.windowDays = days
	}
	return s
}

// Predict loads a fresh snapshot of the user's samples and projects it
// against the requested or stored target.
func (s *PredictionService) Predict(ctx context.Context, userID int64, opts PredictionOptions) (*PredictionResult, error) {
	target, unit, err := s.resolveTarget(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	days := opts.WindowDays
	if days <= 0 {
		days = s.windowDays
	}
	now := time.Now()
	samples, err := s.samples(ctx, userID, windowStart(now, days), unit)
	if err != nil {
		return nil, err
	}

	p := trend.Predict(samples, target)
	if s.observer != nil {
		s.observer.ObservePrediction(p)
	}
	log.WithFields(log.Fields{
		"user":      userID,
		"samples":   len(samples),
		"available": p.Available,
		"weeks":     p.Weeks,
		"reason":    p.Reason,
	}).Debug("prediction computed")

	res := &PredictionResult{
		Available: p.Available,
		Reason:    p.Reason,
		Target:    target,
		Unit:      unit,
		Samples:   len(samples),
		Message:   predictionMessage(p),
	}
	if !p.Available {
		return res, nil
	}

	weeks := p.Weeks
	res.WeeksRemaining = &weeks
	last := samples[len(samples)-1].Time
	day := localDay(last.AddDate(0, 0, 7*weeks))
	res.EstimatedDay = &day
	if line, reason := trend.Fit(samples); reason == trend.ReasonNone {
		rate := line.WeeklyRate()
		res.WeeklyRate = &rate
	}
	return res, nil
}

func (s *PredictionService) resolveTarget(ctx context.Context, userID int64, opts PredictionOptions) (float64, string, error) {
	if opts.Unit != "" && !domain.ValidUnit(opts.Unit) {
		return 0, "", ErrInvalidUnit
	}
	if opts.Target != nil {
		unit := opts.Unit
		if unit == "" {
			unit = domain.UnitKg
		}
		if err := validateWeight(*opts.Target, unit); err != nil {
			return 0, "", err
		}
		return *opts.Target, unit, nil
	}

	goal, err := s.goals.GetGoal(ctx, userID)
	if err != nil {
		return 0, "", fmt.Errorf("get goal: %w", err)
	}
	if goal == nil {
		return 0, "", ErrNoTarget
	}
	unit := opts.Unit
	if unit == "" {
		unit = goal.Unit
	}
	return domain.ConvertWeight(goal.TargetValue, goal.Unit, unit), unit, nil
}

// samples materializes the history since the given time as trend samples
// in unit.
func (s *PredictionService) samples(ctx context.Context, userID int64, since time.Time, unit string) ([]trend.Sample, error) {
	entries, err := s.weights.ListWeightEventsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list weight events: %w", err)
	}
	return toSamples(entries, unit), nil
}

func toSamples(entries []domain.WeightEntry, unit string) []trend.Sample {
	out := make([]trend.Sample, 0, len(entries))
	for _, e := range entries {
		out = append(out, trend.Sample{
			Time:  e.CreatedAt,
			Value: domain.ConvertWeight(e.Value, e.Unit, unit),
		})
	}
	return out
}

func predictionMessage(p trend.Prediction) string {
	switch {
	case p.Reason == trend.ReasonInvalidInput:
		return "weight history contains invalid values"
	case !p.Available:
		return "not enough data yet"
	case p.Weeks == 0:
		return "target weight reached"
	case p.Weeks == 1:
		return "about 1 week remaining"
	default:
		return fmt.Sprintf("about %d weeks remaining", p.Weeks)
	}
}
