// Package narrative adds natural-language explanations to risk results.
// Every operation has a deterministic fallback, so callers never see an AI
// failure.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/scoring"
)

const maxAlertSentences = 3

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Enricher struct {
	gen     Generator
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewEnricher returns an Enricher. A nil gen makes every call return its fallback.
func NewEnricher(gen Generator, timeout time.Duration, m *metrics.Metrics) *Enricher {
	return &Enricher{gen: gen, timeout: timeout, metrics: m}
}

func (e *Enricher) Enabled() bool {
	return e != nil && e.gen != nil
}

func (e *Enricher) generate(ctx context.Context, kind, prompt string) (string, bool) {
	if !e.Enabled() {
		e.metrics.NarrativeCall(kind, "fallback")
		return "", false
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		slog.Warn("narrative generation failed", "kind", kind, "error", err)
		e.metrics.NarrativeCall(kind, "fallback")
		return "", false
	}
	return strings.TrimSpace(text), true
}

// InterpretConditions explains a current-conditions assessment. The bool is
// false when the text is the deterministic fallback.
func (e *Enricher) InterpretConditions(ctx context.Context, a models.RiskAssessment, w models.WeatherSnapshot, industry string) (string, bool) {
	if text, ok := e.generate(ctx, "conditions", conditionsPrompt(a, w, industry)); ok {
		e.metrics.NarrativeCall("conditions", "ai")
		return text, true
	}
	return FallbackConditions(a, industry), false
}

// InterpretForecast asks for a structured forecast narrative. Unparseable
// output is logged and replaced by DefaultForecastNarrative, with a false bool.
func (e *Enricher) InterpretForecast(ctx context.Context, f models.ForecastAssessment, city, industry string) (models.ForecastNarrative, bool) {
	text, ok := e.generate(ctx, "forecast", forecastPrompt(f, city, industry))
	if !ok {
		return DefaultForecastNarrative(), false
	}
	n, err := ParseForecastNarrative(text)
	if err != nil {
		slog.Warn("unparseable forecast narrative", "city", city, "industry", industry, "error", err)
		e.metrics.NarrativeCall("forecast", "fallback")
		return DefaultForecastNarrative(), false
	}
	e.metrics.NarrativeCall("forecast", "ai")
	return n, true
}

// ExplainAlert returns at most three sentences explaining an alert.
func (e *Enricher) ExplainAlert(ctx context.Context, in models.AlertInput) string {
	if text, ok := e.generate(ctx, "alert", alertPrompt(in)); ok {
		e.metrics.NarrativeCall("alert", "ai")
		return LimitSentences(text, maxAlertSentences)
	}
	return FallbackAlert(in)
}

func FallbackConditions(a models.RiskAssessment, industry string) string {
	level := strings.ToLower(string(a.OverallRisk.Level))
	if level == "" {
		level = "unknown"
	}
	msg := fmt.Sprintf("Current environmental risk for the %s is %s.", industry, level)
	if len(a.PrimaryConcerns) > 0 {
		msg += " " + strings.TrimSuffix(a.PrimaryConcerns[0], ".") + "."
	}
	return msg + " Continue monitoring air quality and follow local health advisories."
}

func FallbackAlert(in models.AlertInput) string {
	dispersion := "which should help disperse emissions"
	if in.WindSpeed < 5 {
		dispersion = "so emissions are likely to linger near the site"
	}
	return fmt.Sprintf("Air quality near the %s has reached AQI %d (%s). "+
		"PM2.5 is %.1f µg/m³ with wind at %.1f km/h, %s. "+
		"Limit outdoor activity and keep windows closed while levels remain elevated.",
		in.Industry, in.AQI, scoring.AQICategory(in.AQI), in.PM25, in.WindSpeed, dispersion)
}

func DefaultForecastNarrative() models.ForecastNarrative {
	return models.ForecastNarrative{
		StressWindows:     []models.StressWindow{},
		ExposureBreakdown: []models.ExposureShare{},
		BehaviorAnalysis:  "Conditions are expected to remain stable over the forecast window.",
		EarlyWarnings:     []string{},
	}
}

// ParseForecastNarrative decodes a model response, tolerating markdown code
// fences and prose around the JSON object.
func ParseForecastNarrative(raw string) (models.ForecastNarrative, error) {
	body := stripCodeFences(raw)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var n models.ForecastNarrative
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return models.ForecastNarrative{}, fmt.Errorf("decode forecast narrative: %w", err)
	}

	def := DefaultForecastNarrative()
	if n.StressWindows == nil {
		n.StressWindows = def.StressWindows
	}
	if n.ExposureBreakdown == nil {
		n.ExposureBreakdown = def.ExposureBreakdown
	}
	if n.EarlyWarnings == nil {
		n.EarlyWarnings = def.EarlyWarnings
	}
	if strings.TrimSpace(n.BehaviorAnalysis) == "" {
		n.BehaviorAnalysis = def.BehaviorAnalysis
	}
	return n, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// LimitSentences keeps the first n sentences of text. A sentence ends at
// '.', '!' or '?' followed by whitespace or end of text.
func LimitSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + 1
		if next < len(text) && text[next] != ' ' && text[next] != '\n' && text[next] != '\t' {
			continue
		}
		count++
		if count == n {
			return text[:next]
		}
	}
	return text
}
