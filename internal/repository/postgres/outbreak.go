package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type outbreakRepository struct {
	db *sqlx.DB
}

func NewOutbreakRepository(db *sqlx.DB) repository.OutbreakRepository {
	return &outbreakRepository{db: db}
}

func (r *outbreakRepository) Create(ctx context.Context, outbreak *model.DiseaseOutbreak) error {
	query := `
		INSERT INTO disease_outbreaks (
			id, disease_name, location, severity, description,
			precautions, source, latitude, longitude,
			is_active, published, reported_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	outbreak.ID = uuid.New()
	outbreak.CreatedAt = time.Now()
	if outbreak.ReportedAt.IsZero() {
		outbreak.ReportedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		outbreak.ID,
		outbreak.DiseaseName,
		outbreak.Location,
		outbreak.Severity,
		outbreak.Description,
		pq.Array([]string(outbreak.Precautions)),
		outbreak.Source,
		outbreak.Latitude,
		outbreak.Longitude,
		outbreak.IsActive,
		outbreak.Published,
		outbreak.ReportedAt,
		outbreak.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbreak: %w", err)
	}
	return nil
}

func (r *outbreakRepository) ListActive(ctx context.Context) ([]*model.DiseaseOutbreak, error) {
	query := `
		SELECT id, disease_name, location, severity, description,
			   precautions, source, latitude, longitude,
			   is_active, published, reported_at, created_at
		FROM disease_outbreaks
		WHERE is_active = true
		ORDER BY reported_at DESC
	`
	var outbreaks []*model.DiseaseOutbreak
	err := r.db.SelectContext(ctx, &outbreaks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active outbreaks: %w", err)
	}
	return outbreaks, nil
}

func (r *outbreakRepository) ListUnpublished(ctx context.Context, limit int) ([]*model.DiseaseOutbreak, error) {
	query := `
		SELECT id, disease_name, location, severity, description,
			   precautions, source, latitude, longitude,
			   is_active, published, reported_at, created_at
		FROM disease_outbreaks
		WHERE is_active = true AND published = false
		ORDER BY reported_at ASC
		LIMIT $1
	`
	var outbreaks []*model.DiseaseOutbreak
	err := r.db.SelectContext(ctx, &outbreaks, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpublished outbreaks: %w", err)
	}
	return outbreaks, nil
}

func (r *outbreakRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE disease_outbreaks
		SET published = true
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbreak published: %w", err)
	}
	return nil
}

func (r *outbreakRepository) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE disease_outbreaks
		SET is_active = false
		WHERE reported_at < $1 AND is_active = true
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate outbreaks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *outbreakRepository) HasReportsSince(ctx context.Context, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM disease_outbreaks
			WHERE reported_at >= $1
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, since)
	if err != nil {
		return false, fmt.Errorf("failed to check recent reports: %w", err)
	}
	return exists, nil
}
