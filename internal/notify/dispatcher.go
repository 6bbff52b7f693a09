// Package notify fans a rendered alert notification out to its resolved
// recipients over email, isolating per-recipient failures.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/safelanka/alert-engine/internal/models"
)

// Failure records one recipient whose delivery attempt did not succeed.
type Failure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Result aggregates a fan-out once every attempt has settled.
type Result struct {
	Attempted int
	Delivered int
	Failures  []Failure
}

type Dispatcher struct {
	mailer  Mailer
	workers int
}

// NewDispatcher caps simultaneous outbound deliveries at workers.
func NewDispatcher(mailer Mailer, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{mailer: mailer, workers: workers}
}

// Dispatch renders the alert once and attempts delivery to each recipient
// independently on a bounded pool. It blocks until all attempts settle and
// never returns an error: failures are collected into the result. There is
// no ordering guarantee between deliveries and no cancellation of in-flight
// sends.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert, recipients []models.Recipient) Result {
	result := Result{Attempted: len(recipients)}
	if len(recipients) == 0 {
		return result
	}

	payload := RenderPayload(alert)

	jobs := make(chan models.Recipient, len(recipients))
	for _, r := range recipients {
		jobs <- r
	}
	close(jobs)

	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := d.workers
	if workers > len(recipients) {
		workers = len(recipients)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				err := d.mailer.Send(ctx, r.Email, payload)

				mu.Lock()
				if err != nil {
					result.Failures = append(result.Failures, Failure{Email: r.Email, Reason: err.Error()})
				} else {
					result.Delivered++
				}
				mu.Unlock()

				if err != nil {
					slog.Warn("notification delivery failed",
						"alert_id", alert.ID, "email", r.Email, "error", err)
				}
			}
		}()
	}

	wg.Wait()

	slog.Info("notification dispatch settled",
		"alert_id", alert.ID,
		"attempted", result.Attempted,
		"delivered", result.Delivered,
		"failed", len(result.Failures))
	return result
}
