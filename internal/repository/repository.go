package repository

import (
	"context"
	"errors"
	"time"

	"github.com/safelanka/alert-engine/internal/models"
)

// ErrNotFound is returned by id-addressed operations when no alert exists.
var ErrNotFound = errors.New("alert not found")

// Filter drives the dashboard listing endpoint.
type Filter struct {
	Districts []string // case-insensitive; empty = all
	Search    string   // free-text over topic/message/location
	Page      int      // 1-based
	Limit     int
}

// ReportFilter drives the report endpoints. Date bounds are inclusive and
// pre-expanded by the report package; nil means unbounded. Severity and
// District are canonical values, empty = no filtering.
type ReportFilter struct {
	From     *time.Time
	To       *time.Time
	Severity models.Severity
	District string
}

type AlertRepository interface {
	Create(ctx context.Context, a *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	Update(ctx context.Context, a *models.Alert) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts Filter) ([]models.Alert, int, error)

	// Aggregate reads. Each runs as its own query; callers accept the
	// momentary skew between them under concurrent writes.
	CountAlerts(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountBySeverity(ctx context.Context) (map[models.Severity]int, error)
	ListRecent(ctx context.Context, limit int) ([]models.RecentAlert, error)

	QueryReport(ctx context.Context, f ReportFilter) ([]models.Alert, error)
}

type RecipientDirectory interface {
	// ListNotifiable returns opted-in recipients with a non-empty email,
	// restricted to a district when one is given (case-insensitive).
	ListNotifiable(ctx context.Context, district string) ([]models.Recipient, error)
	CountNotifiable(ctx context.Context) (int, error)
	UpsertRecipient(ctx context.Context, r *models.Recipient) error
}
