package notify

import (
	"fmt"
	"strings"

	"github.com/safelanka/alert-engine/internal/models"
)

// Payload is the rendered notification for one alert. It is built once and
// shared by every delivery attempt in the fan-out.
type Payload struct {
	Subject string
	Body    string
}

func RenderPayload(a *models.Alert) Payload {
	prefix := "ADVISORY"
	if a.Severity == models.SeverityCritical {
		prefix = "CRITICAL ALERT"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", a.Topic)
	fmt.Fprintf(&b, "%s\n\n", a.Message)
	fmt.Fprintf(&b, "District: %s\n", a.District)
	fmt.Fprintf(&b, "Location: %s\n", a.Location)
	fmt.Fprintf(&b, "Issued by: %s\n", a.Author)
	fmt.Fprintf(&b, "Issued at: %s\n", a.CreatedAt.Format("2006-01-02 15:04 MST"))

	return Payload{
		Subject: fmt.Sprintf("[%s] %s - %s", prefix, a.Topic, a.District),
		Body:    b.String(),
	}
}
