package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/app"
	"github.com/Tasneem-netcode/TechSprint-App/internal/config"
	"github.com/Tasneem-netcode/TechSprint-App/internal/industry"
	"github.com/Tasneem-netcode/TechSprint-App/internal/logging"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/orchestrator"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	output   string
	timeout  time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "riskctl",
		Short: "Query environmental risk assessments from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("invalid output format %q (must be text or json)", opts.output)
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.output, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")

	cmd.AddCommand(
		newCurrentCmd(opts),
		newForecastCmd(opts),
		newExplainCmd(opts),
		newIndustriesCmd(opts),
	)
	return cmd
}

// withService runs fn against an in-process pipeline built from the
// environment, with the in-memory cache.
func withService(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, svc *orchestrator.Orchestrator) error) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Cache.RedisURL = ""

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	store, closeStore, err := app.NewStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, app.NewOrchestrator(cfg, store, metrics.NewForTesting()))
}

func newCurrentCmd(opts *rootOptions) *cobra.Command {
	var city, industryName string

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Assess current conditions for a city and industry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc *orchestrator.Orchestrator) error {
				report, err := svc.Current(ctx, city, industryName)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printCurrent(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&city, "city", orchestrator.DefaultCity, "city name")
	cmd.Flags().StringVar(&industryName, "industry", industry.GenericName, "industry profile name")
	return cmd
}

func newForecastCmd(opts *rootOptions) *cobra.Command {
	var city, industryName string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show the qualitative 24-48 hour risk outlook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc *orchestrator.Orchestrator) error {
				report, err := svc.Forecast(ctx, city, industryName)
				if err != nil {
					return err
				}
				if opts.output == "json" {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printForecast(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&city, "city", orchestrator.DefaultCity, "city name")
	cmd.Flags().StringVar(&industryName, "industry", industry.GenericName, "industry profile name")
	return cmd
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	var in models.AlertInput

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain a pollution alert in plain language",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.AQI < 0 || in.PM25 < 0 || in.WindSpeed < 0 {
				return fmt.Errorf("aqi, pm25 and wind speed cannot be negative")
			}
			return withService(cmd, opts, func(ctx context.Context, svc *orchestrator.Orchestrator) error {
				explanation := svc.ExplainAlert(ctx, in)
				if opts.output == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"explanation": explanation})
				}
				fmt.Fprintln(cmd.OutOrStdout(), explanation)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Industry, "industry", industry.GenericName, "industry profile name")
	f.IntVar(&in.AQI, "aqi", 0, "US EPA air quality index")
	f.Float64Var(&in.PM25, "pm25", 0, "PM2.5 concentration in µg/m³")
	f.Float64Var(&in.WindSpeed, "wind", 0, "wind speed in km/h")
	f.StringVar(&in.Persistence, "persistence", "", "pollutant persistence (defaults to the industry profile)")
	return cmd
}

func newIndustriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "List the known industry profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := industry.Names()
			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				p := industry.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s persistence=%-15s vulnerability=x%.2f\n", name, p.Persistence, p.VulnerabilityMultiplier)
			}
			return nil
		},
	}
}

func printCurrent(w io.Writer, r models.EnvironmentReport) {
	overall := r.Assessment.OverallRisk
	fmt.Fprintf(w, "%s / %s%s\n", r.City, r.Industry, demoSuffix(r.IsDemo))
	fmt.Fprintf(w, "Overall risk: %s (%d/100), AQI %d %s\n", overall.Level, overall.Score, overall.AQI, overall.Category)

	impacts := r.Assessment.Impacts
	for _, row := range []struct {
		name  string
		score models.ImpactScore
	}{
		{"Human health", impacts.HumanHealth},
		{"Ecosystems", impacts.Ecosystems},
		{"Environment", impacts.Environment},
		{"Socio-economic", impacts.SocioEconomic},
	} {
		fmt.Fprintf(w, "  %-15s %-9s %3d\n", row.name, row.score.Level, row.score.Score)
	}
	if len(r.Assessment.PrimaryConcerns) > 0 {
		fmt.Fprintf(w, "Concerns: %s\n", strings.Join(r.Assessment.PrimaryConcerns, "; "))
	}
	if r.AIInsights != "" {
		fmt.Fprintf(w, "\n%s\n", r.AIInsights)
	}
}

func printForecast(w io.Writer, r models.ForecastReport) {
	overall := r.Forecast.OverallRisk
	fmt.Fprintf(w, "%s / %s%s\n", r.City, r.Industry, demoSuffix(r.IsDemo))
	fmt.Fprintf(w, "Forecast risk (%s): %s (%d/100)\n", overall.TimeHorizon, overall.Level, overall.Score)
	for _, d := range r.Forecast.RiskDrivers {
		fmt.Fprintf(w, "  %-20s %s\n", d.Factor, d.Severity)
	}
	for _, a := range r.Forecast.PreventiveActions {
		fmt.Fprintf(w, "  %d. %s (%s)\n", a.Priority, a.Action, a.Timeframe)
	}
	if r.AIForecast.BehaviorAnalysis != "" {
		fmt.Fprintf(w, "\n%s\n", r.AIForecast.BehaviorAnalysis)
	}
}

func demoSuffix(demo bool) string {
	if demo {
		return " [demo data]"
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
