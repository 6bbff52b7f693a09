package report

import (
	"fmt"
	"html/template"
	"io"
)

// The printable document renders each alert as a self-contained card.
// Page breaks are a print-CSS concern only; the card set is exactly the
// report's item set.
var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Disaster Alert Report</title>
<style>
  body { font-family: Georgia, serif; margin: 2rem; color: #1a1a1a; }
  header { border-bottom: 2px solid #1a1a1a; margin-bottom: 1.5rem; padding-bottom: 0.5rem; }
  header h1 { margin: 0; font-size: 1.4rem; }
  header p { margin: 0.25rem 0 0; font-size: 0.85rem; color: #555; }
  .card { border: 1px solid #999; border-radius: 4px; padding: 1rem; margin-bottom: 1rem;
          break-inside: avoid; page-break-inside: avoid; }
  .card h2 { margin: 0 0 0.5rem; font-size: 1.1rem; }
  .card .severity-critical { color: #a40000; font-weight: bold; text-transform: uppercase; }
  .card .severity-informational { color: #00527a; text-transform: uppercase; }
  .card dl { margin: 0; font-size: 0.9rem; }
  .card dt { font-weight: bold; float: left; clear: left; width: 7rem; }
  .card dd { margin-left: 7.5rem; }
  .empty { color: #555; font-style: italic; }
  @media print { body { margin: 0.5in; } }
</style>
</head>
<body>
<header>
  <h1>Disaster Alert Report</h1>
  <p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}} &mdash;
     severity: {{.Filters.Severity}}, district: {{.Filters.District}}{{if .Filters.From}}, from {{.Filters.From}}{{end}}{{if .Filters.To}}, to {{.Filters.To}}{{end}}
     &mdash; {{.Total}} alert(s), {{.Critical}} critical, {{.Informational}} informational</p>
</header>
{{if not .Items}}<p class="empty">No alerts match the selected filters.</p>{{end}}
{{range .Items}}<div class="card">
  <h2>{{.Topic}}</h2>
  <dl>
    <dt>Severity</dt><dd><span class="severity-{{.Severity}}">{{.Severity}}</span></dd>
    <dt>Issued</dt><dd>{{.CreatedAt.Format "2006-01-02 15:04 MST"}}</dd>
    <dt>District</dt><dd>{{.District}}</dd>
    <dt>Location</dt><dd>{{.Location}}</dd>
    <dt>Issued by</dt><dd>{{.Author}}</dd>
  </dl>
</div>
{{end}}</body>
</html>
`))

// WriteDocument renders the printable HTML form of a report.
func WriteDocument(w io.Writer, r Report) error {
	if err := documentTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("error rendering report document: %w", err)
	}
	return nil
}
