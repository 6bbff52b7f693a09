package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safelanka/alert-engine/internal/hub"
	"github.com/safelanka/alert-engine/internal/models"
	"github.com/safelanka/alert-engine/internal/notify"
	"github.com/safelanka/alert-engine/internal/report"
	"github.com/safelanka/alert-engine/internal/repository"
	"github.com/safelanka/alert-engine/internal/scope"
	"github.com/safelanka/alert-engine/internal/snapshot"
)

type Handler struct {
	repo       repository.AlertRepository
	directory  repository.RecipientDirectory
	resolver   *scope.Resolver
	dispatcher *notify.Dispatcher
	hub        *hub.Hub
	agg        *snapshot.Aggregator
	reports    *report.Engine
	authToken  string
}

func NewHandler(
	repo repository.AlertRepository,
	directory repository.RecipientDirectory,
	resolver *scope.Resolver,
	dispatcher *notify.Dispatcher,
	h *hub.Hub,
	agg *snapshot.Aggregator,
	reports *report.Engine,
	authToken string,
) *Handler {
	return &Handler{
		repo:       repo,
		directory:  directory,
		resolver:   resolver,
		dispatcher: dispatcher,
		hub:        h,
		agg:        agg,
		reports:    reports,
		authToken:  authToken,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	r.GET("/api/alerts", h.listAlerts)
	r.GET("/api/alerts/metrics", h.metrics)
	r.GET("/api/alerts/recent", h.recentAlerts)
	r.GET("/api/alerts/feed", h.feed)
	r.GET("/api/alerts/stream", h.streamSnapshots)

	r.GET("/api/reports/alerts", h.reportJSON)
	r.GET("/api/reports/alerts/document", h.reportDocument)

	auth := r.Group("/", AuthMiddleware(h.authToken))
	auth.POST("/api/alerts", h.createAlert)
	auth.PATCH("/api/alerts/:id", h.updateAlert)
	auth.DELETE("/api/alerts/:id", h.deleteAlert)
	auth.PUT("/api/recipients", h.upsertRecipient)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createAlert(c *gin.Context) {
	var in models.AlertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alert, err := models.NewAlert(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.Create(ctx, alert); err != nil {
		slog.Error("failed to create alert", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}

	// Notification outcome never fails the create: the alert is persisted
	// and the response carries whatever the fan-out managed.
	var result notify.Result
	scopeLabel := ""
	resolved, err := h.resolver.Resolve(ctx, alert)
	if err != nil {
		slog.Error("scope resolution failed, skipping dispatch", "alert_id", alert.ID, "error", err)
	} else {
		scopeLabel = resolved.Label
		result = h.dispatcher.Dispatch(ctx, alert, resolved.Recipients)
	}

	h.publish(c)

	c.JSON(http.StatusCreated, gin.H{
		"alert":     alert,
		"attempted": result.Attempted,
		"delivered": result.Delivered,
		"failures":  result.Failures,
		"scope":     scopeLabel,
	})
}

func (h *Handler) updateAlert(c *gin.Context) {
	id := c.Param("id")

	var in models.AlertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		slog.Error("failed to load alert for update", "alert_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
		return
	}

	updated, err := models.ApplyPatch(existing, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Last-write-wins: no version check on concurrent updates.
	if err := h.repo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		slog.Error("failed to update alert", "alert_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
		return
	}

	scopeLabel := ""
	if resolved, err := h.resolver.Resolve(ctx, updated); err != nil {
		slog.Error("scope resolution failed on update", "alert_id", id, "error", err)
	} else {
		scopeLabel = resolved.Label
	}

	h.publish(c)

	c.JSON(http.StatusOK, gin.H{"alert": updated, "scope": scopeLabel})
}

func (h *Handler) deleteAlert(c *gin.Context) {
	id := c.Param("id")

	err := h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		slog.Error("failed to delete alert", "alert_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete alert"})
		return
	}

	h.publish(c)

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// publish pushes a fresh snapshot to every open dashboard stream after a
// successful mutation.
func (h *Handler) publish(c *gin.Context) {
	if err := h.hub.Publish(c.Request.Context()); err != nil {
		slog.Error("failed to publish dashboard update", "error", err)
	}
}

func (h *Handler) listAlerts(c *gin.Context) {
	filter := repository.Filter{
		Page:  1,
		Limit: 20,
	}

	if d := c.Query("district"); d != "" {
		for _, part := range strings.Split(d, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Districts = append(filter.Districts, part)
			}
		}
	}
	filter.Search = c.Query("q")
	if p := c.Query("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if l := c.Query("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}

	alerts, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

func (h *Handler) metrics(c *gin.Context) {
	ctx := c.Request.Context()

	s, err := h.agg.Compute(ctx, 1)
	if err != nil {
		slog.Error("failed to compute metrics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
		return
	}

	recipients, err := h.directory.CountNotifiable(ctx)
	if err != nil {
		slog.Error("failed to count recipients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":                s.Total,
		"criticalCount":        s.Critical,
		"informationalCount":   s.Informational,
		"last24hCount":         s.Last24h,
		"activeRecipientCount": recipients,
	})
}

func (h *Handler) recentAlerts(c *gin.Context) {
	limit := snapshot.DefaultRecentLimit
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	recent, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		slog.Error("failed to list recent alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent alerts"})
		return
	}
	if recent == nil {
		recent = []models.RecentAlert{}
	}

	c.JSON(http.StatusOK, gin.H{"recentAlerts": recent})
}

// feed is the stateless pull fallback: the same snapshot shape the push
// channel sends, computed on demand for clients polling on an interval.
func (h *Handler) feed(c *gin.Context) {
	s, err := h.agg.Compute(c.Request.Context(), snapshot.DefaultRecentLimit)
	if err != nil {
		slog.Error("failed to compute feed snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": gin.H{
			"total":              s.Total,
			"criticalCount":      s.Critical,
			"informationalCount": s.Informational,
			"last24hCount":       s.Last24h,
		},
		"alerts": s.Recent,
	})
}

func (h *Handler) reportJSON(c *gin.Context) {
	r, ok := h.runReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) reportDocument(c *gin.Context) {
	r, ok := h.runReport(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteDocument(c.Writer, r); err != nil {
		slog.Error("failed to render report document", "error", err)
	}
}

func (h *Handler) runReport(c *gin.Context) (report.Report, bool) {
	f, err := report.BuildFilter(
		c.Query("from"),
		c.Query("to"),
		c.Query("severity"),
		c.Query("district"),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return report.Report{}, false
	}

	r, err := h.reports.Run(c.Request.Context(), f)
	if err != nil {
		slog.Error("failed to run report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run report"})
		return report.Report{}, false
	}
	return r, true
}

type recipientInput struct {
	Email                string `json:"email"`
	District             string `json:"district"`
	NotificationsEnabled *bool  `json:"notificationsEnabled"`
}

func (h *Handler) upsertRecipient(c *gin.Context) {
	var in recipientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid email is required"})
		return
	}
	district, ok := models.CanonicalDistrict(in.District)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown district"})
		return
	}

	// Opt-in by default unless explicitly disabled.
	enabled := true
	if in.NotificationsEnabled != nil {
		enabled = *in.NotificationsEnabled
	}

	r := &models.Recipient{Email: email, District: district, NotificationsEnabled: enabled}
	if err := h.directory.UpsertRecipient(c.Request.Context(), r); err != nil {
		slog.Error("failed to upsert recipient", "email", email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipient": r})
}
