package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/industry"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/repository"
	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubService implements RiskService for testing
type stubService struct {
	err       error
	lastCity  string
	lastInd   string
	lastAlert models.AlertInput
}

func (s *stubService) Current(_ context.Context, city, industryName string) (models.EnvironmentReport, error) {
	s.lastCity, s.lastInd = city, industryName
	if s.err != nil {
		return models.EnvironmentReport{}, s.err
	}
	return models.EnvironmentReport{
		City:       city,
		Industry:   industryName,
		AIInsights: "Conditions are poor.",
		IsDemo:     true,
		Assessment: models.RiskAssessment{
			OverallRisk: models.OverallRisk{Score: 72, Level: models.RiskHigh, AQI: 180},
		},
	}, nil
}

func (s *stubService) Forecast(_ context.Context, city, industryName string) (models.ForecastReport, error) {
	s.lastCity, s.lastInd = city, industryName
	if s.err != nil {
		return models.ForecastReport{}, s.err
	}
	return models.ForecastReport{
		City:     city,
		Industry: industryName,
		Forecast: models.ForecastAssessment{
			OverallRisk: models.ForecastRisk{Level: models.RiskModerate, TimeHorizon: "24-48 hours"},
		},
		AIForecast: models.ForecastNarrative{BehaviorAnalysis: "stable"},
	}, nil
}

func (s *stubService) ExplainAlert(_ context.Context, in models.AlertInput) string {
	s.lastAlert = in
	return "Air quality is unhealthy. Limit outdoor activity."
}

type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
	Explanation string          `json:"explanation"`
}

func setupTestRouter(t *testing.T, svc RiskService) (*gin.Engine, *repository.SQLiteDB, *stream.Broadcaster, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := metrics.NewForTesting()
	b := stream.NewBroadcaster(m)

	router := gin.New()
	router.Use(MetricsMiddleware(m))
	NewHandler(svc, db, b, m).RegisterRoutes(router)
	return router, db, b, m
}

func do(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestEnvironmentalData_Envelope(t *testing.T) {
	svc := &stubService{}
	router, _, _, m := setupTestRouter(t, svc)

	w, env := do(t, router, http.MethodGet, "/environmental-data?city=Mumbai&industry=Mining", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var report models.EnvironmentReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "Mumbai", report.City)
	assert.Equal(t, "Mining", report.Industry)
	assert.Equal(t, models.RiskHigh, report.Assessment.OverallRisk.Level)
	assert.Equal(t, "Conditions are poor.", report.AIInsights)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestEnvironmentalData_PassesRawQueryToService(t *testing.T) {
	svc := &stubService{}
	router, _, _, _ := setupTestRouter(t, svc)

	w, _ := do(t, router, http.MethodGet, "/environmental-data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.lastCity, "defaults are applied by the service")
	assert.Empty(t, svc.lastInd)
}

func TestEnvironmentalData_Failure(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{err: errors.New("cache unavailable")})

	w, env := do(t, router, http.MethodGet, "/environmental-data?city=Delhi", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	assert.NotContains(t, env.Error, "cache unavailable")
}

func TestForecast_Envelope(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodGet, "/forecast?city=Delhi&industry=Mining", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var report models.ForecastReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "24-48 hours", report.Forecast.OverallRisk.TimeHorizon)
	assert.Equal(t, "stable", report.AIForecast.BehaviorAnalysis)
}

func TestForecast_Failure(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{err: errors.New("boom")})

	w, env := do(t, router, http.MethodGet, "/forecast", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

func TestAlertExplain(t *testing.T) {
	svc := &stubService{}
	router, _, _, _ := setupTestRouter(t, svc)

	w, env := do(t, router, http.MethodPost, "/alert-explain", map[string]any{
		"industry":  "Thermal Power Plant",
		"aqi":       180,
		"pm25":      95.5,
		"windSpeed": 3.2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Air quality is unhealthy. Limit outdoor activity.", env.Explanation)
	assert.Equal(t, 180, svc.lastAlert.AQI)
	assert.Equal(t, 3.2, svc.lastAlert.WindSpeed)
}

func TestAlertExplain_InvalidBody(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	tests := []struct {
		name string
		body any
	}{
		{"missing industry", map[string]any{"aqi": 100}},
		{"negative aqi", map[string]any{"industry": "Mining", "aqi": -3}},
		{"not json", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, router, http.MethodPost, "/alert-explain", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestIndustries(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodGet, "/industries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profiles []models.IndustryProfile
	require.NoError(t, json.Unmarshal(env.Data, &profiles))
	assert.Len(t, profiles, len(industry.Names()))
}

func TestHealthAndMetrics(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, _ := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w, _ = do(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func validReport() map[string]any {
	return map[string]any{
		"city":        "Delhi",
		"industry":    "Textile & Dyeing",
		"category":    "water",
		"description": "Coloured discharge in the canal behind the dyeing units",
		"latitude":    28.61,
		"longitude":   77.21,
	}
}

func TestCreateReport(t *testing.T) {
	router, db, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodPost, "/api/reports", validReport())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var report models.IncidentReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.ReportStatusPending, report.Status)

	stored, err := db.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportCategoryWater, stored.Category)
}

func TestCreateReport_Validation(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing city", func(b map[string]any) { delete(b, "city") }},
		{"unknown category", func(b map[string]any) { b["category"] = "smell" }},
		{"short description", func(b map[string]any) { b["description"] = "bad" }},
		{"latitude out of range", func(b map[string]any) { b["latitude"] = 123.0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validReport()
			tt.mutate(body)
			w, env := do(t, router, http.MethodPost, "/api/reports", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestListReports_Pagination(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	for i := range 5 {
		body := validReport()
		body["description"] = fmt.Sprintf("Smoke plume number %d over the river", i)
		w, _ := do(t, router, http.MethodPost, "/api/reports", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(t, router, http.MethodGet, "/api/admin/reports?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page reportListResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Len(t, page.Items, 2)
}

func TestListReports_PageSizeCapped(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodGet, "/api/admin/reports?page_size=1000", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page reportListResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, repository.MaxPageSize, page.PageSize)
	assert.Equal(t, 1, page.Page)
}

func TestListReports_InvalidStatus(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodGet, "/api/admin/reports?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestUpdateReportStatus(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodPost, "/api/reports", validReport())
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.IncidentReport
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = do(t, router, http.MethodPatch, "/api/admin/reports/"+created.ID, map[string]any{"status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.IncidentReport
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.ReportStatusResolved, updated.Status)

	w, _ = do(t, router, http.MethodGet, "/api/admin/reports?status=resolved", nil)
	assert.Contains(t, w.Body.String(), created.ID)
}

func TestUpdateReportStatus_Errors(t *testing.T) {
	router, _, _, _ := setupTestRouter(t, &stubService{})

	w, env := do(t, router, http.MethodPatch, "/api/admin/reports/does-not-exist", map[string]any{"status": "reviewed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, router, http.MethodPatch, "/api/admin/reports/does-not-exist", map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertStream_FiltersEvents(t *testing.T) {
	router, _, b, _ := setupTestRouter(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/alerts/stream?city=delhi&min_score=70", nil)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Broadcast(&models.AlertEvent{City: "Mumbai", Industry: "Mining", Score: 90})
	b.Broadcast(&models.AlertEvent{City: "Delhi", Industry: "Mining", Score: 50})
	b.Broadcast(&models.AlertEvent{City: "Delhi", Industry: "Thermal Power Plant", Score: 88, AQI: 203})
	b.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after broadcaster closed")
	}

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, strings.Count(body, "event:alert"))
	assert.Contains(t, body, `"industry":"Thermal Power Plant"`)
	assert.NotContains(t, body, "Mumbai")
}

func TestAlertStream_EndsWithRequest(t *testing.T) {
	router, _, b, _ := setupTestRouter(t, &stubService{})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/alerts/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestAlertStream_BadMinScore(t *testing.T) {
	router, _, b, _ := setupTestRouter(t, &stubService{})

	w, _ := do(t, router, http.MethodGet, "/alerts/stream?min_score=high", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for range 4 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}
