// Package snapshot computes the point-in-time aggregate view dashboards
// consume, both over the push channel and the pull fallback.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/safelanka/alert-engine/internal/models"
	"github.com/safelanka/alert-engine/internal/repository"
)

// DefaultRecentLimit bounds the recent-alerts list on hub pushes.
const DefaultRecentLimit = 20

type Snapshot struct {
	Total         int                  `json:"total"`
	Critical      int                  `json:"criticalCount"`
	Informational int                  `json:"informationalCount"`
	Last24h       int                  `json:"last24hCount"`
	Recent        []models.RecentAlert `json:"recentAlerts"`
}

type Aggregator struct {
	repo repository.AlertRepository
}

func NewAggregator(repo repository.AlertRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Compute derives a fresh snapshot from four independent reads of the
// store. The reads are not taken at a single atomic instant: under
// concurrent writes the counts may disagree by at most the duration of the
// computation. Callers accept this; nothing here caches across calls.
func (a *Aggregator) Compute(ctx context.Context, limit int) (Snapshot, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	total, err := a.repo.CountAlerts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error computing total: %w", err)
	}

	last24h, err := a.repo.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return Snapshot{}, fmt.Errorf("error computing 24h count: %w", err)
	}

	bySeverity, err := a.repo.CountBySeverity(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error computing severity counts: %w", err)
	}

	recent, err := a.repo.ListRecent(ctx, limit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error listing recent alerts: %w", err)
	}
	if recent == nil {
		recent = []models.RecentAlert{}
	}

	return Snapshot{
		Total:         total,
		Critical:      bySeverity[models.SeverityCritical],
		Informational: bySeverity[models.SeverityInformational],
		Last24h:       last24h,
		Recent:        recent,
	}, nil
}
