package app

import (
	"context"
	"time"

	"weighttrend/internal/domain"
	"weighttrend/internal/trend"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weightRepo domain.WeightRepository
}

// NewChartsService creates a ChartsService backed by the given repository.
func NewChartsService(wr domain.WeightRepository) *ChartsService {
	return &ChartsService{weightRepo: wr}
}

// DayPoint is a single data point returned by GetDaily. Trend is the value
// of the fitted line at local noon of Day, nil when no trend exists.
type DayPoint struct {
	Day    string       `json:"day"`
	Weight *WeightPoint `json:"weight"`
	Trend  *float64     `json:"trend"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days, with weights
// converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidUnit(unit) {
		return nil, ErrInvalidUnit
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	if days < 1 {
		days = 1
	}

	now := time.Now()
	entries, err := s.weightRepo.ListWeightEventsSince(ctx, userID, windowStart(now, days))
	if err != nil {
		return nil, err
	}
	line, reason := trend.Fit(toSamples(entries, unit))

	today := now.In(time.Local)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		dayStr := d.Format("2006-01-02")

		entry, err := s.weightRepo.LatestWeightForLocalDay(ctx, userID, dayStr)
		if err != nil {
			return nil, err
		}

		p := DayPoint{Day: dayStr}
		if entry != nil {
			p.Weight = &WeightPoint{Value: domain.ConvertWeight(entry.Value, entry.Unit, unit), Unit: unit}
		}
		if reason == trend.ReasonNone {
			noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
			v := line.At(noon)
			p.Trend = &v
		}
		points = append(points, p)
	}
	return points, nil
}
