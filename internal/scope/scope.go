// Package scope decides which registered recipients an alert must reach.
package scope

import (
	"context"
	"fmt"

	"github.com/safelanka/alert-engine/internal/models"
	"github.com/safelanka/alert-engine/internal/repository"
)

// LabelAll marks a critical alert's island-wide scope.
const LabelAll = "all"

// Scope is the resolved recipient set for one alert.
type Scope struct {
	Recipients []models.Recipient
	Label      string
}

type Resolver struct {
	directory repository.RecipientDirectory
}

func NewResolver(directory repository.RecipientDirectory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve returns every opted-in recipient with an email for a critical
// alert, or only those in the alert's district otherwise. The district
// check is defensive; validation rejects district-less alerts before any
// alert reaches this point.
func (r *Resolver) Resolve(ctx context.Context, alert *models.Alert) (Scope, error) {
	if alert.Severity == models.SeverityCritical {
		recipients, err := r.directory.ListNotifiable(ctx, "")
		if err != nil {
			return Scope{}, fmt.Errorf("error resolving island-wide scope: %w", err)
		}
		return Scope{Recipients: recipients, Label: LabelAll}, nil
	}

	if alert.District == "" {
		return Scope{}, fmt.Errorf("cannot resolve district scope: alert %s has no district", alert.ID)
	}

	recipients, err := r.directory.ListNotifiable(ctx, alert.District)
	if err != nil {
		return Scope{}, fmt.Errorf("error resolving district scope: %w", err)
	}
	return Scope{Recipients: recipients, Label: "district:" + alert.District}, nil
}
