package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// DoctorRepository exposes the directory through a privacy boundary: ids
// are listed in bulk, but full records are fetched one at a time with the
// caller's identity so contact masking can be computed per record.
type DoctorRepository interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	GetInfo(ctx context.Context, doctorID, userID uuid.UUID) (*model.DoctorInfo, error)
	LogContactAccess(ctx context.Context, doctorID, userID uuid.UUID, accessType string) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
}

type EmergencyContactRepository interface {
	Create(ctx context.Context, contact *model.EmergencyContact) error
	Get(ctx context.Context, id uuid.UUID) (*model.EmergencyContact, error)
	Update(ctx context.Context, contact *model.EmergencyContact) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error)
}

type ChatRepository interface {
	Append(ctx context.Context, message *model.ChatMessage) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error)
}

type OutbreakRepository interface {
	Create(ctx context.Context, outbreak *model.DiseaseOutbreak) error
	ListActive(ctx context.Context) ([]*model.DiseaseOutbreak, error)
	ListUnpublished(ctx context.Context, limit int) ([]*model.DiseaseOutbreak, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	HasReportsSince(ctx context.Context, since time.Time) (bool, error)
}
