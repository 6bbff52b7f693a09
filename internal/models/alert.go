package models

import (
	"fmt"
	"strings"
	"time"
)

type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityInformational Severity = "informational"
)

// NormalizeSeverity lowercases a free-form severity token. The canonical
// form is what gets stored and compared everywhere downstream.
func NormalizeSeverity(s string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(s)))
}

func (s Severity) Valid() bool {
	return s == SeverityCritical || s == SeverityInformational
}

type AuthorRole string

const (
	RoleAdmin        AuthorRole = "admin"
	RoleOperator     AuthorRole = "operator"
	RoleFieldOfficer AuthorRole = "field-officer"
)

func (r AuthorRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleFieldOfficer:
		return true
	}
	return false
}

type Alert struct {
	ID        string     `json:"id"`
	Severity  Severity   `json:"severityLevel"`
	Topic     string     `json:"topic"`
	Message   string     `json:"message"`
	District  string     `json:"district"`
	Location  string     `json:"disasterLocation"`
	Author    AuthorRole `json:"authorRole"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AlertInput is the mutable field set accepted from clients on create and
// update. Pointer-free: empty strings mean "not provided" on update.
type AlertInput struct {
	Severity string `json:"severityLevel"`
	Topic    string `json:"topic"`
	Message  string `json:"message"`
	District string `json:"district"`
	Location string `json:"disasterLocation"`
	Author   string `json:"authorRole"`
}

// ValidationError carries the human-readable reason returned to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NewAlert validates a full input and returns the canonical Alert, without
// ID or timestamps (the repository assigns those).
func NewAlert(in AlertInput) (*Alert, error) {
	severity := NormalizeSeverity(in.Severity)
	if !severity.Valid() {
		return nil, invalid("severityLevel must be %q or %q", SeverityCritical, SeverityInformational)
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, invalid("topic is required")
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, invalid("message is required")
	}

	district, ok := CanonicalDistrict(in.District)
	if !ok {
		return nil, invalid("district must be one of the %d administrative districts", len(Districts))
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, invalid("disasterLocation is required")
	}

	author := AuthorRole(strings.ToLower(strings.TrimSpace(in.Author)))
	if author == "" {
		author = RoleOperator
	}
	if !author.Valid() {
		return nil, invalid("authorRole must be one of admin, operator, field-officer")
	}

	return &Alert{
		Severity: severity,
		Topic:    topic,
		Message:  message,
		District: district,
		Location: location,
		Author:   author,
	}, nil
}

// ApplyPatch merges the provided fields of a partial update into an existing
// alert and re-validates the merged result.
func ApplyPatch(existing *Alert, in AlertInput) (*Alert, error) {
	merged := AlertInput{
		Severity: string(existing.Severity),
		Topic:    existing.Topic,
		Message:  existing.Message,
		District: existing.District,
		Location: existing.Location,
		Author:   string(existing.Author),
	}
	if in.Severity != "" {
		merged.Severity = in.Severity
	}
	if in.Topic != "" {
		merged.Topic = in.Topic
	}
	if in.Message != "" {
		merged.Message = in.Message
	}
	if in.District != "" {
		merged.District = in.District
	}
	if in.Location != "" {
		merged.Location = in.Location
	}
	if in.Author != "" {
		merged.Author = in.Author
	}

	updated, err := NewAlert(merged)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = existing.UpdatedAt
	return updated, nil
}

// RecentAlert is the trimmed projection pushed to dashboards.
type RecentAlert struct {
	ID        string     `json:"id"`
	Topic     string     `json:"topic"`
	Severity  Severity   `json:"severityLevel"`
	District  string     `json:"district"`
	Author    AuthorRole `json:"authorRole"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (a *Alert) Recent() RecentAlert {
	return RecentAlert{
		ID:        a.ID,
		Topic:     a.Topic,
		Severity:  a.Severity,
		District:  a.District,
		Author:    a.Author,
		CreatedAt: a.CreatedAt,
	}
}
