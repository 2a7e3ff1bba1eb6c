// Package trend fits a least-squares line through weight samples and
// projects how many weeks remain until a target weight is reached.
package trend

import (
	"math"
	"time"
)

// Week is the unit of the regression's independent variable.
const Week = 7 * 24 * time.Hour

// MinWeeklyRate is the smallest absolute slope, in weight units per week,
// that is still projected forward.
const MinWeeklyRate = 1e-4

// Sample is a single timestamped weight observation.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Reason explains why a prediction is unavailable.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonNoTimeSpread     Reason = "no_time_spread"
	ReasonFlatTrend        Reason = "flat_trend"
	// ReasonInvalidInput covers a NaN or infinite target or sample.
	ReasonInvalidInput     Reason = "invalid_input"
)

// Prediction is the outcome of Predict. When Available is false, Weeks is
// zero and Reason is set.
type Prediction struct {
	Available bool   `json:"available"`
	Weeks     int    `json:"weeks"`
	Reason    Reason `json:"reason,omitempty"`
}

// Line is a fitted trend. x is measured in weeks since Baseline.
type Line struct {
	Slope     float64
	Intercept float64
	Baseline  time.Time
}

// WeekOffset returns t expressed in weeks since the line's baseline.
func (l Line) WeekOffset(t time.Time) float64 {
	return float64(t.Sub(l.Baseline)) / float64(Week)
}

// At returns the trend value at t.
func (l Line) At(t time.Time) float64 {
	return l.Intercept + l.Slope*l.WeekOffset(t)
}

// WeeklyRate returns the change in weight per week implied by the trend.
func (l Line) WeeklyRate() float64 {
	return l.Slope
}

// Fit computes the ordinary least-squares line of value over elapsed weeks.
// It returns a non-empty Reason when no usable trend exists.
func Fit(samples []Sample) (Line, Reason) {
	if len(samples) < 2 {
		return Line{}, ReasonInsufficientData
	}

	line := Line{Baseline: samples[0].Time}
	n := float64(len(samples))

	var sumX, sumY float64
	for _, s := range samples {
		sumX += line.WeekOffset(s.Time)
		sumY += s.Value
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for _, s := range samples {
		dx := line.WeekOffset(s.Time) - meanX
		num += dx * (s.Value - meanY)
		den += dx * dx
	}
	if den == 0 {
		return Line{}, ReasonNoTimeSpread
	}

	line.Slope = num / den
	line.Intercept = meanY - line.Slope*meanX
	if math.IsNaN(line.Slope) || math.IsInf(line.Slope, 0) {
		return Line{}, ReasonInvalidInput
	}
	if math.Abs(line.Slope) < MinWeeklyRate {
		return Line{}, ReasonFlatTrend
	}
	return line, ReasonNone
}

// Predict estimates the whole number of weeks, counted from the last
// sample, until the trend through samples reaches target. samples must be
// ordered oldest first. A target the trend has already reached or passed
// yields zero weeks.
func Predict(samples []Sample, target float64) Prediction {
	line, reason := Fit(samples)
	if reason != ReasonNone {
		return Prediction{Reason: reason}
	}

	targetOffset := (target - line.Intercept) / line.Slope
	currentOffset := line.WeekOffset(samples[len(samples)-1].Time)
	remaining := targetOffset - currentOffset

	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		return Prediction{Reason: ReasonInvalidInput}
	}
	if remaining > 0 {
		return Prediction{Available: true, Weeks: int(math.Round(math.Min(remaining, math.MaxInt32)))}
	}
	return Prediction{Available: true}
}
