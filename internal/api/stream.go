package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// streamSnapshots is the push channel: a long-lived SSE stream that sends
// one snapshot on connect and a fresh one every time the hub publishes.
// Client disconnects prune the subscriber immediately; clients that lose
// the stream reconnect or fall back to polling /api/alerts/feed.
func (h *Handler) streamSnapshots(c *gin.Context) {
	id, ch, err := h.hub.Subscribe(c.Request.Context())
	if err != nil {
		slog.Error("failed to open dashboard stream", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open stream"})
		return
	}
	defer h.hub.Unsubscribe(id)

	slog.Info("dashboard stream opened", "subscriber_id", id)
	defer slog.Info("dashboard stream closed", "subscriber_id", id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeaderNow()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case s, ok := <-ch:
			if !ok {
				// Hub closed during shutdown.
				return
			}
			if err := sse.Encode(c.Writer, sse.Event{Event: "snapshot", Data: s}); err != nil {
				slog.Error("failed to write snapshot event", "subscriber_id", id, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
