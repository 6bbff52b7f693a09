package models

import "strings"

// Districts is the fixed list of administrative districts an alert can
// target. Matching is case-insensitive; the canonical casing below is what
// gets stored.
var Districts = []string{
	"Ampara", "Anuradhapura", "Badulla", "Batticaloa", "Colombo",
	"Galle", "Gampaha", "Hambantota", "Jaffna", "Kalutara",
	"Kandy", "Kegalle", "Kilinochchi", "Kurunegala", "Mannar",
	"Matale", "Matara", "Monaragala", "Mullaitivu", "Nuwara Eliya",
	"Polonnaruwa", "Puttalam", "Ratnapura", "Trincomalee", "Vavuniya",
}

var districtIndex = func() map[string]string {
	m := make(map[string]string, len(Districts))
	for _, d := range Districts {
		m[strings.ToLower(d)] = d
	}
	return m
}()

// CanonicalDistrict resolves a case-insensitive district name to its
// canonical casing. ok is false when the name is not a known district.
func CanonicalDistrict(name string) (string, bool) {
	d, ok := districtIndex[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// SameDistrict reports whether two district names match case-insensitively.
func SameDistrict(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
