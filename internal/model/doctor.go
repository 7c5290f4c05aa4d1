package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the full directory row. Contact fields live here but are never
// returned to clients directly; see DoctorInfo.
type Doctor struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Specialty         string    `db:"specialty" json:"specialty"`
	Address           string    `db:"address" json:"address"`
	Latitude          float64   `db:"latitude" json:"latitude"`
	Longitude         float64   `db:"longitude" json:"longitude"`
	Rating            float64   `db:"rating" json:"rating"`
	ExperienceYears   int       `db:"experience_years" json:"experience_years"`
	ConsultationFee   float64   `db:"consultation_fee" json:"consultation_fee"`
	AvailabilityHours string    `db:"availability_hours" json:"availability_hours"`
	Phone             string    `db:"phone" json:"phone"`
	Email             string    `db:"email" json:"email"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// DoctorInfo is the access-controlled projection served to clients.
// Phone and Email are populated only when CanViewContact is true, which the
// repository computes from the caller's appointment relationship. The
// masking happens at the storage boundary so a stale or buggy client can
// never render contact details it was not entitled to.
type DoctorInfo struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Specialty         string    `db:"specialty" json:"specialty"`
	Address           string    `db:"address" json:"address"`
	Latitude          float64   `db:"latitude" json:"latitude"`
	Longitude         float64   `db:"longitude" json:"longitude"`
	Rating            float64   `db:"rating" json:"rating"`
	ExperienceYears   int       `db:"experience_years" json:"experience_years"`
	ConsultationFee   float64   `db:"consultation_fee" json:"consultation_fee"`
	AvailabilityHours string    `db:"availability_hours" json:"availability_hours"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	Email             *string   `db:"email" json:"email,omitempty"`
	CanViewContact    bool      `db:"can_view_contact" json:"can_view_contact"`
}

func (d *DoctorInfo) Coordinate() Coordinate {
	return Coordinate{Latitude: d.Latitude, Longitude: d.Longitude}
}

// RankedDoctor annotates a doctor projection with the distance to the
// search's reference coordinate. DistanceKm is nil when no reference was
// given.
type RankedDoctor struct {
	DoctorInfo
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// DoctorFilter narrows a directory listing. An empty SearchTerm matches
// everything; a nil Reference skips distance ranking.
type DoctorFilter struct {
	SearchTerm string
	Reference  *Coordinate
}
