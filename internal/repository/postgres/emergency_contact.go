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

type emergencyContactRepository struct {
	db *sqlx.DB
}

func NewEmergencyContactRepository(db *sqlx.DB) repository.EmergencyContactRepository {
	return &emergencyContactRepository{db: db}
}

func (r *emergencyContactRepository) Create(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (
			id, user_id, type, name, phone, relationship,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Type,
		contact.Name,
		contact.Phone,
		contact.Relationship,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emergency contact: %w", err)
	}
	return nil
}

func (r *emergencyContactRepository) Get(ctx context.Context, id uuid.UUID) (*model.EmergencyContact, error) {
	query := `
		SELECT id, user_id, type, name, phone, relationship,
			   created_at, updated_at
		FROM emergency_contacts
		WHERE id = $1
	`
	var contact model.EmergencyContact
	err := r.db.GetContext(ctx, &contact, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency contact: %w", err)
	}
	return &contact, nil
}

func (r *emergencyContactRepository) Update(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		UPDATE emergency_contacts
		SET type = $1, name = $2, phone = $3, relationship = $4, updated_at = $5
		WHERE id = $6
	`
	contact.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		contact.Type,
		contact.Name,
		contact.Phone,
		contact.Relationship,
		contact.UpdatedAt,
		contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update emergency contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("emergency contact not found")
	}

	return nil
}

func (r *emergencyContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM emergency_contacts
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete emergency contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("emergency contact not found")
	}

	return nil
}

func (r *emergencyContactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	query := `
		SELECT id, user_id, type, name, phone, relationship,
			   created_at, updated_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	var contacts []*model.EmergencyContact
	err := r.db.SelectContext(ctx, &contacts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergency contacts: %w", err)
	}
	return contacts, nil
}
