// Package report builds the filtered alert reports behind both the JSON
// endpoint and the printable document. Both forms share one filter and one
// query, so they always agree on which alerts are included.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/safelanka/alert-engine/internal/models"
	"github.com/safelanka/alert-engine/internal/repository"
)

// All is the sentinel meaning "no filtering" for severity and district.
const All = "all"

const dateLayout = "2006-01-02"

// Filter is the validated, canonical form of the report query parameters.
type Filter struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Severity string `json:"severity"`
	District string `json:"district"`

	repo repository.ReportFilter
}

// BuildFilter parses and validates report parameters. from/to use the
// 2006-01-02 layout; from is inclusive at 00:00:00 and to is extended to
// the end of its calendar day so any alert created during that day is
// included. severity/district accept "all" (or empty) as no-filter.
func BuildFilter(from, to, severity, district string) (Filter, error) {
	f := Filter{Severity: All, District: All}

	if from = strings.TrimSpace(from); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", from)
		}
		f.From = from
		f.repo.From = &t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", to)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = to
		f.repo.To = &end
	}
	if f.repo.From != nil && f.repo.To != nil && f.repo.To.Before(*f.repo.From) {
		return Filter{}, fmt.Errorf("to date precedes from date")
	}

	if s := strings.ToLower(strings.TrimSpace(severity)); s != "" && s != All {
		sev := models.Severity(s)
		if !sev.Valid() {
			return Filter{}, fmt.Errorf("invalid severity %q", severity)
		}
		f.Severity = s
		f.repo.Severity = sev
	}
	if d := strings.TrimSpace(district); d != "" && !strings.EqualFold(d, All) {
		canonical, ok := models.CanonicalDistrict(d)
		if !ok {
			return Filter{}, fmt.Errorf("unknown district %q", district)
		}
		f.District = canonical
		f.repo.District = canonical
	}

	return f, nil
}

// Report is the filtered result set with its totals, items newest-first.
type Report struct {
	Items         []models.Alert `json:"items"`
	Total         int            `json:"total"`
	Critical      int            `json:"criticalCount"`
	Informational int            `json:"informationalCount"`
	Filters       Filter         `json:"filters"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

type Engine struct {
	repo repository.AlertRepository
}

func NewEngine(repo repository.AlertRepository) *Engine {
	return &Engine{repo: repo}
}

func (e *Engine) Run(ctx context.Context, f Filter) (Report, error) {
	items, err := e.repo.QueryReport(ctx, f.repo)
	if err != nil {
		return Report{}, fmt.Errorf("error running report: %w", err)
	}
	if items == nil {
		items = []models.Alert{}
	}

	r := Report{
		Items:       items,
		Total:       len(items),
		Filters:     f,
		GeneratedAt: time.Now(),
	}
	for _, a := range items {
		switch a.Severity {
		case models.SeverityCritical:
			r.Critical++
		case models.SeverityInformational:
			r.Informational++
		}
	}
	return r, nil
}
