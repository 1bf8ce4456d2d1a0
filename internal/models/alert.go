package models

import "time"

// AlertEvent is emitted when a refreshed assessment reaches RiskHigh.
type AlertEvent struct {
	City           string    `json:"city"`
	Industry       string    `json:"industry"`
	Level          RiskLevel `json:"level"`
	Score          int       `json:"score"`
	AQI            int       `json:"aqi"`
	PrimaryConcern string    `json:"primaryConcern"`
	Explanation    string    `json:"explanation"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// Key identifies the city/industry pair an alert belongs to.
func (a *AlertEvent) Key() string {
	return a.City + ":" + a.Industry
}
