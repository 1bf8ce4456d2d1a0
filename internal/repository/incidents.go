package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const reportColumns = `id, city, industry, category, description, reporter_name, reporter_contact,
	latitude, longitude, status, created_at, updated_at`

// Create assigns an ID, pending status and timestamps, then stores r.
func (s *SQLiteDB) Create(ctx context.Context, r *models.IncidentReport) error {
	now := s.clock.Now().UTC()
	r.ID = uuid.NewString()
	r.Status = models.ReportStatusPending
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incident_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.City, r.Industry, string(r.Category), r.Description, r.ReporterName, r.ReporterContact,
		r.Latitude, r.Longitude, string(r.Status), formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.IncidentReport, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM incident_reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting report %s: %w", id, err)
	}
	return r, nil
}

// List returns matching reports newest first.
func (s *SQLiteDB) List(ctx context.Context, opts Filter) (Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset := max(opts.Offset, 0)

	var (
		where []string
		args  []any
	)
	if opts.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*opts.Status))
	}
	if city := strings.TrimSpace(opts.City); city != "" {
		where = append(where, "city = ? COLLATE NOCASE")
		args = append(args, city)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	page := Page{Items: []models.IncidentReport{}, Limit: limit, Offset: offset}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incident_reports`+clause, args...).Scan(&page.Total); err != nil {
		return Page{}, fmt.Errorf("error counting reports: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM incident_reports`+clause+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return Page{}, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return Page{}, fmt.Errorf("error scanning report: %w", err)
		}
		page.Items = append(page.Items, *r)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("error iterating reports: %w", err)
	}
	return page, nil
}

func (s *SQLiteDB) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.IncidentReport, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE incident_reports SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(s.clock.Now().UTC()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating report %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error updating report %s: %w", id, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(sc scanner) (*models.IncidentReport, error) {
	var (
		r                    models.IncidentReport
		category, status     string
		createdAt, updatedAt string
	)
	err := sc.Scan(&r.ID, &r.City, &r.Industry, &category, &r.Description, &r.ReporterName, &r.ReporterContact,
		&r.Latitude, &r.Longitude, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Category = models.ReportCategory(category)
	r.Status = models.ReportStatus(status)
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &r, nil
}

// formatTime uses a fixed-width layout so created_at sorts chronologically as text.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
