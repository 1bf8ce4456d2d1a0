package models

import "time"

type ReportCategory string

const (
	ReportCategoryAir   ReportCategory = "air"
	ReportCategoryWater ReportCategory = "water"
	ReportCategorySoil  ReportCategory = "soil"
	ReportCategoryNoise ReportCategory = "noise"
	ReportCategoryWaste ReportCategory = "waste"
	ReportCategoryOther ReportCategory = "other"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusRejected ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// IncidentReport is a citizen-submitted pollution incident awaiting admin review.
type IncidentReport struct {
	ID              string         `json:"id"`
	City            string         `json:"city"`
	Industry        string         `json:"industry,omitempty"`
	Category        ReportCategory `json:"category"`
	Description     string         `json:"description"`
	ReporterName    string         `json:"reporterName,omitempty"`
	ReporterContact string         `json:"reporterContact,omitempty"`
	Latitude        float64        `json:"latitude,omitempty"`
	Longitude       float64        `json:"longitude,omitempty"`
	Status          ReportStatus   `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"` // when it was submitted
	UpdatedAt       time.Time      `json:"updatedAt"` // last status change
}
