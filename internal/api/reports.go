package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type createReportRequest struct {
	City            string  `json:"city" binding:"required,max=100"`
	Industry        string  `json:"industry" binding:"omitempty,max=100"`
	Category        string  `json:"category" binding:"required,report_category"`
	Description     string  `json:"description" binding:"required,min=10,max=2000"`
	ReporterName    string  `json:"reporterName" binding:"omitempty,max=100"`
	ReporterContact string  `json:"reporterContact" binding:"omitempty,max=200"`
	Latitude        float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude       float64 `json:"longitude" binding:"omitempty,longitude"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,report_status"`
}

type reportListResponse struct {
	Items    []models.IncidentReport `json:"items"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

var validatorsOnce sync.Once

// registerValidators adds the report enum tags to gin's validator engine.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("report_category", func(fl validator.FieldLevel) bool {
			return validCategory(models.ReportCategory(fl.Field().String()))
		})
		_ = v.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
			return models.ReportStatus(fl.Field().String()).Valid()
		})
	})
}

func validCategory(c models.ReportCategory) bool {
	switch c {
	case models.ReportCategoryAir, models.ReportCategoryWater, models.ReportCategorySoil,
		models.ReportCategoryNoise, models.ReportCategoryWaste, models.ReportCategoryOther:
		return true
	}
	return false
}

func (h *Handler) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	report := &models.IncidentReport{
		City:            strings.TrimSpace(req.City),
		Industry:        strings.TrimSpace(req.Industry),
		Category:        models.ReportCategory(req.Category),
		Description:     strings.TrimSpace(req.Description),
		ReporterName:    req.ReporterName,
		ReporterContact: req.ReporterContact,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}
	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		slog.Error("failed to store incident report", "city", report.City, "error", err)
		fail(c, http.StatusInternalServerError, "failed to store report")
		return
	}

	slog.Info("incident report received", "id", report.ID, "city", report.City, "category", report.Category)
	ok(c, http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	filter := repository.Filter{
		City:  strings.TrimSpace(c.Query("city")),
		Limit: repository.DefaultPageSize,
	}

	if s := c.Query("status"); s != "" {
		status := models.ReportStatus(strings.ToLower(s))
		if !status.Valid() {
			fail(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", s))
			return
		}
		filter.Status = &status
	}
	if ps := c.Query("page_size"); ps != "" {
		if size, err := strconv.Atoi(ps); err == nil && size > 0 {
			filter.Limit = min(size, repository.MaxPageSize)
		}
	}
	page := 1
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	filter.Offset = (page - 1) * filter.Limit

	result, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list incident reports", "error", err)
		fail(c, http.StatusInternalServerError, "failed to list reports")
		return
	}

	ok(c, http.StatusOK, reportListResponse{
		Items:    result.Items,
		Total:    result.Total,
		Page:     page,
		PageSize: filter.Limit,
	})
}

func (h *Handler) updateReportStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), c.Param("id"), models.ReportStatus(req.Status))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, "report not found")
		return
	case errors.Is(err, repository.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("failed to update report status", "id", c.Param("id"), "error", err)
		fail(c, http.StatusInternalServerError, "failed to update report")
		return
	}

	ok(c, http.StatusOK, report)
}

// validationMessage flattens binding errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
