package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM doctors
		ORDER BY created_at ASC
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor ids: %w", err)
	}
	return ids, nil
}

// GetInfo returns the contact-masked projection of a single doctor. The
// can_view_contact flag is computed here, from the caller's confirmed
// appointment relationship, and the phone/email columns are nulled out in
// SQL when it is false. Clients never see an unfiltered doctor row.
func (r *doctorRepository) GetInfo(ctx context.Context, doctorID, userID uuid.UUID) (*model.DoctorInfo, error) {
	query := `
		SELECT d.id, d.name, d.specialty, d.address,
			   d.latitude, d.longitude, d.rating,
			   d.experience_years, d.consultation_fee, d.availability_hours,
			   CASE WHEN rel.ok THEN d.phone END AS phone,
			   CASE WHEN rel.ok THEN d.email END AS email,
			   rel.ok AS can_view_contact
		FROM doctors d
		CROSS JOIN LATERAL (
			SELECT EXISTS (
				SELECT 1 FROM appointments a
				WHERE a.doctor_id = d.id
				AND a.user_id = $2
				AND a.status = 'confirmed'
			) AS ok
		) rel
		WHERE d.id = $1
	`
	var info model.DoctorInfo
	err := r.db.GetContext(ctx, &info, query, doctorID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor info: %w", err)
	}
	return &info, nil
}

func (r *doctorRepository) LogContactAccess(ctx context.Context, doctorID, userID uuid.UUID, accessType string) error {
	query := `
		INSERT INTO doctor_contact_access_log (id, doctor_id, user_id, access_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), doctorID, userID, accessType, time.Now())
	if err != nil {
		return fmt.Errorf("failed to log contact access: %w", err)
	}
	return nil
}
