package repository

import (
	"context"
	"errors"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidStatus = errors.New("invalid report status")
)

type Filter struct {
	Status *models.ReportStatus
	City   string // case-insensitive exact match
	Limit  int
	Offset int
}

// Page is one slice of a filtered listing. Total counts every match.
type Page struct {
	Items  []models.IncidentReport `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

type IncidentRepository interface {
	Create(ctx context.Context, r *models.IncidentReport) error
	GetByID(ctx context.Context, id string) (*models.IncidentReport, error)
	List(ctx context.Context, opts Filter) (Page, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.IncidentReport, error)
}
