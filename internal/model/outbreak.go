package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OutbreakSeverity string

const (
	OutbreakSeverityLow      OutbreakSeverity = "low"
	OutbreakSeverityModerate OutbreakSeverity = "moderate"
	OutbreakSeverityHigh     OutbreakSeverity = "high"
	OutbreakSeverityCritical OutbreakSeverity = "critical"
)

type DiseaseOutbreak struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	DiseaseName string           `db:"disease_name" json:"disease_name"`
	Location    string           `db:"location" json:"location"`
	Severity    OutbreakSeverity `db:"severity" json:"severity"`
	Description string           `db:"description" json:"description"`
	Precautions pq.StringArray   `db:"precautions" json:"precautions"`
	Source      string           `db:"source" json:"source"`
	Latitude    float64          `db:"latitude" json:"latitude"`
	Longitude   float64          `db:"longitude" json:"longitude"`
	IsActive    bool             `db:"is_active" json:"is_active"`
	Published   bool             `db:"published" json:"-"`
	ReportedAt  time.Time        `db:"reported_at" json:"reported_at"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

type ReportOutbreakRequest struct {
	DiseaseName string           `json:"disease_name" binding:"required"`
	Location    string           `json:"location" binding:"required"`
	Severity    OutbreakSeverity `json:"severity" binding:"required,oneof=low moderate high critical"`
	Description string           `json:"description"`
	Precautions []string         `json:"precautions"`
	Source      string           `json:"source"`
	Latitude    float64          `json:"latitude" binding:"required"`
	Longitude   float64          `json:"longitude" binding:"required"`
}

// OutbreakAlert is the payload published to the realtime channel when a new
// outbreak row becomes active.
type OutbreakAlert struct {
	ID          uuid.UUID        `json:"id"`
	DiseaseName string           `json:"disease_name"`
	Location    string           `json:"location"`
	Severity    OutbreakSeverity `json:"severity"`
	Description string           `json:"description"`
	Precautions []string         `json:"precautions"`
	ReportedAt  time.Time        `json:"reported_at"`
}
