package models

import "testing"

func validInput() AlertInput {
	return AlertInput{
		Severity: "critical",
		Topic:    "Flood Warning",
		Message:  "Water levels rising in low-lying areas",
		District: "Colombo",
		Location: "Kelani river basin",
		Author:   "operator",
	}
}

func TestNewAlert_Valid(t *testing.T) {
	a, err := NewAlert(validInput())
	if err != nil {
		t.Fatalf("NewAlert failed: %v", err)
	}
	if a.Severity != SeverityCritical {
		t.Errorf("expected severity %q, got %q", SeverityCritical, a.Severity)
	}
	if a.District != "Colombo" {
		t.Errorf("expected district Colombo, got %q", a.District)
	}
}

func TestNewAlert_NormalizesSeverityCase(t *testing.T) {
	in := validInput()
	in.Severity = "CRITICAL"
	a, err := NewAlert(in)
	if err != nil {
		t.Fatalf("NewAlert failed: %v", err)
	}
	if a.Severity != SeverityCritical {
		t.Errorf("expected normalized %q, got %q", SeverityCritical, a.Severity)
	}
}

func TestNewAlert_RejectsUnknownSeverity(t *testing.T) {
	in := validInput()
	in.Severity = "urgent"
	if _, err := NewAlert(in); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestNewAlert_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AlertInput)
	}{
		{"empty topic", func(in *AlertInput) { in.Topic = "  " }},
		{"empty message", func(in *AlertInput) { in.Message = "" }},
		{"empty district", func(in *AlertInput) { in.District = "" }},
		{"unknown district", func(in *AlertInput) { in.District = "Atlantis" }},
		{"empty location", func(in *AlertInput) { in.Location = "\t" }},
		{"unknown role", func(in *AlertInput) { in.Author = "intern" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := NewAlert(in); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestNewAlert_DefaultsAuthorRole(t *testing.T) {
	in := validInput()
	in.Author = ""
	a, err := NewAlert(in)
	if err != nil {
		t.Fatalf("NewAlert failed: %v", err)
	}
	if a.Author != RoleOperator {
		t.Errorf("expected default role %q, got %q", RoleOperator, a.Author)
	}
}

func TestCanonicalDistrict(t *testing.T) {
	d, ok := CanonicalDistrict("  kandy ")
	if !ok || d != "Kandy" {
		t.Errorf(`expected ("Kandy", true), got (%q, %v)`, d, ok)
	}
	if _, ok := CanonicalDistrict("nowhere"); ok {
		t.Error("expected false for unknown district")
	}
}

func TestApplyPatch_PartialUpdate(t *testing.T) {
	existing, err := NewAlert(validInput())
	if err != nil {
		t.Fatalf("NewAlert failed: %v", err)
	}
	existing.ID = "a1"

	updated, err := ApplyPatch(existing, AlertInput{Severity: "Informational", District: "galle"})
	if err != nil {
		t.Fatalf("ApplyPatch failed: %v", err)
	}
	if updated.Severity != SeverityInformational {
		t.Errorf("expected severity informational, got %q", updated.Severity)
	}
	if updated.District != "Galle" {
		t.Errorf("expected district Galle, got %q", updated.District)
	}
	if updated.Topic != existing.Topic {
		t.Errorf("untouched field changed: %q", updated.Topic)
	}
	if updated.ID != "a1" {
		t.Errorf("id must survive patch, got %q", updated.ID)
	}
}

func TestApplyPatch_InvalidFieldRejected(t *testing.T) {
	existing, _ := NewAlert(validInput())
	if _, err := ApplyPatch(existing, AlertInput{Severity: "loud"}); err == nil {
		t.Error("expected validation error")
	}
}
