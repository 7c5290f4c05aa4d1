package emergency

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type Service struct {
	repo repository.EmergencyContactRepository
}

func NewService(repo repository.EmergencyContactRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateContact(ctx context.Context, userID uuid.UUID, req *model.CreateEmergencyContactRequest) (*model.EmergencyContact, error) {
	contact := &model.EmergencyContact{
		UserID:       userID,
		Type:         req.Type,
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create emergency contact: %w", err)
	}
	return contact, nil
}

func (s *Service) GetContact(ctx context.Context, userID, id uuid.UUID) (*model.EmergencyContact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("emergency contact", err)
	}
	if contact.UserID != userID {
		return nil, apperrors.PermissionDenied("emergency contact belongs to another user", nil)
	}
	return contact, nil
}

func (s *Service) UpdateContact(ctx context.Context, userID, id uuid.UUID, req *model.UpdateEmergencyContactRequest) (*model.EmergencyContact, error) {
	contact, err := s.GetContact(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		contact.Type = *req.Type
	}
	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Relationship != nil {
		contact.Relationship = *req.Relationship
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update emergency contact: %w", err)
	}
	return contact, nil
}

func (s *Service) DeleteContact(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetContact(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete emergency contact: %w", err)
	}
	return nil
}

func (s *Service) ListContacts(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergency contacts: %w", err)
	}
	return contacts, nil
}
