package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Tasneem-netcode/TechSprint-App/internal/industry"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/repository"
	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RiskService produces the dashboard payloads. *orchestrator.Orchestrator
// satisfies it.
type RiskService interface {
	Current(ctx context.Context, city, industryName string) (models.EnvironmentReport, error)
	Forecast(ctx context.Context, city, industryName string) (models.ForecastReport, error)
	ExplainAlert(ctx context.Context, in models.AlertInput) string
}

type Handler struct {
	svc         RiskService
	reports     repository.IncidentRepository
	broadcaster *stream.Broadcaster
	metrics     *metrics.Metrics
}

func NewHandler(svc RiskService, reports repository.IncidentRepository, broadcaster *stream.Broadcaster, m *metrics.Metrics) *Handler {
	registerValidators()
	return &Handler{
		svc:         svc,
		reports:     reports,
		broadcaster: broadcaster,
		metrics:     m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/environmental-data", h.environmentalData)
	r.GET("/forecast", h.forecast)
	r.POST("/alert-explain", h.alertExplain)
	r.GET("/industries", h.industries)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.broadcaster != nil {
		r.GET("/alerts/stream", h.alertStream)
	}

	if h.reports != nil {
		r.POST("/api/reports", h.createReport)
		admin := r.Group("/api/admin")
		admin.GET("/reports", h.listReports)
		admin.PATCH("/reports/:id", h.updateReportStatus)
	}
}

func (h *Handler) environmentalData(c *gin.Context) {
	report, err := h.svc.Current(c.Request.Context(), c.Query("city"), c.Query("industry"))
	if err != nil {
		slog.Error("environmental data failed", "city", c.Query("city"), "industry", c.Query("industry"), "error", err)
		fail(c, http.StatusInternalServerError, "failed to fetch environmental data")
		return
	}
	ok(c, http.StatusOK, report)
}

func (h *Handler) forecast(c *gin.Context) {
	report, err := h.svc.Forecast(c.Request.Context(), c.Query("city"), c.Query("industry"))
	if err != nil {
		slog.Error("forecast failed", "city", c.Query("city"), "industry", c.Query("industry"), "error", err)
		fail(c, http.StatusInternalServerError, "failed to build forecast")
		return
	}
	ok(c, http.StatusOK, report)
}

func (h *Handler) alertExplain(c *gin.Context) {
	var in models.AlertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"explanation": h.svc.ExplainAlert(c.Request.Context(), in),
	})
}

func (h *Handler) industries(c *gin.Context) {
	names := industry.Names()
	profiles := make([]models.IndustryProfile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, industry.Lookup(name))
	}
	ok(c, http.StatusOK, profiles)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
