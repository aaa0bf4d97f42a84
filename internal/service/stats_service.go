package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"
)

// DefaultComparisonMonths is the lookback window used when the caller does
// not ask for a specific one.
const DefaultComparisonMonths = 3

// latestMeasurementCount is how many recent measurements ride along with the
// performance summary.
const latestMeasurementCount = 5

// Comparison directions.
const (
	DirectionGained = "gained"
	DirectionLost   = "lost"
)

// ProgressOverview bundles aggregate session performance with the user's
// most recent measurements.
type ProgressOverview struct {
	Stats              domain.PerformanceStats `json:"stats"`
	LatestMeasurements []domain.Measurement    `json:"latestMeasurements"`
}

// ComparisonResult reports how the user's weight moved across the lookback
// window. When no weight measurement exists at all, only Message is set.
type ComparisonResult struct {
	Current   *domain.Measurement `json:"current,omitempty"`
	Previous  *domain.Measurement `json:"previous,omitempty"`
	Delta     *float64            `json:"delta,omitempty"`
	Direction string              `json:"direction,omitempty"`
	Message   string              `json:"message"`
}

// --- Service Interface ---

// StatsService computes read-only views over a user's recorded history.
type StatsService interface {
	Overview(ctx context.Context, caller Caller) (*ProgressOverview, error)
	Compare(ctx context.Context, caller Caller, monthsBack int) (*ComparisonResult, error)
}

// --- Service Implementation ---

type statsService struct {
	progressRepo    repository.ProgressRepository
	measurementRepo repository.MeasurementRepository
	now             func() time.Time
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(progressRepo repository.ProgressRepository, measurementRepo repository.MeasurementRepository) StatsService {
	return &statsService{
		progressRepo:    progressRepo,
		measurementRepo: measurementRepo,
		now:             time.Now,
	}
}

// Overview aggregates the caller's concluded sessions and appends their five
// most recent measurements. A user with no history gets zero counters and an
// empty list, never an error.
func (s *statsService) Overview(ctx context.Context, caller Caller) (*ProgressOverview, error) {
	stats, err := s.progressRepo.PerformanceStats(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	latest, err := s.measurementRepo.Latest(ctx, caller.ID, latestMeasurementCount)
	if err != nil {
		return nil, err
	}
	return &ProgressOverview{
		Stats:              *stats,
		LatestMeasurements: latest,
	}, nil
}

// Compare takes the caller's newest weight measurement as current and the
// newest one recorded at or before now minus monthsBack as previous. With no
// earlier measurement the delta is zero; with no weight history at all the
// result only carries a message.
func (s *statsService) Compare(ctx context.Context, caller Caller, monthsBack int) (*ComparisonResult, error) {
	if monthsBack <= 0 {
		monthsBack = DefaultComparisonMonths
	}

	measurements, err := s.measurementRepo.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	current := newestWeight(measurements, nil)
	if current == nil {
		return &ComparisonResult{
			Message: "insufficient data: no weight measurements recorded yet",
		}, nil
	}

	cutoff := s.now().AddDate(0, -monthsBack, 0)
	previous := newestWeight(measurements, &cutoff)

	baseline := current.Value
	if previous != nil {
		baseline = previous.Value
	}
	delta := current.Value - baseline

	direction := DirectionLost
	if delta > 0 {
		direction = DirectionGained
	}

	result := &ComparisonResult{
		Current:   current,
		Previous:  previous,
		Delta:     &delta,
		Direction: direction,
	}
	switch {
	case previous == nil:
		result.Message = fmt.Sprintf("no weight measurement from %d months ago or earlier to compare against", monthsBack)
	case delta == 0:
		result.Message = fmt.Sprintf("weight unchanged over the last %d months", monthsBack)
	default:
		result.Message = fmt.Sprintf("you %s %.1f %s over the last %d months", direction, math.Abs(delta), domain.WeightUnit, monthsBack)
	}
	return result, nil
}

// newestWeight walks the owner's measurement history, newest first, and
// returns the first WEIGHT entry, optionally restricted to records at or
// before the cutoff.
func newestWeight(measurements []domain.Measurement, cutoff *time.Time) *domain.Measurement {
	for i := range measurements {
		m := measurements[i]
		if m.Type != domain.MeasurementWeight {
			continue
		}
		if cutoff != nil && m.RecordedAt.After(*cutoff) {
			continue
		}
		return &m
	}
	return nil
}
