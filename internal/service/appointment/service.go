package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/email"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
	emailSvc email.Service
}

func NewService(repo repository.AppointmentRepository, userRepo repository.UserRepository, emailSvc email.Service) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.Date.Before(truncateToDay(time.Now())) {
		return nil, apperrors.Validation("appointment cannot be scheduled in the past", nil)
	}

	apt := &model.Appointment{
		UserID:   userID,
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Status:   model.AppointmentStatusScheduled,
		Notes:    req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.notify(ctx, userID, apt, false)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if apt.UserID != userID {
		return nil, apperrors.PermissionDenied("appointment belongs to another user", nil)
	}
	return apt, nil
}

// UpdateAppointment applies partial changes. Status changes are validated
// against the scheduled/confirmed/cancelled/completed transitions;
// cancelled and completed are terminal.
func (s *Service) UpdateAppointment(ctx context.Context, userID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.GetAppointment(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	cancelled := false
	if req.Status != nil && *req.Status != apt.Status {
		if !apt.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.Validation(
				fmt.Sprintf("cannot change appointment status from %s to %s", apt.Status, *req.Status), nil)
		}
		apt.Status = *req.Status
		cancelled = *req.Status == model.AppointmentStatusCancelled
	}
	if req.Date != nil {
		apt.Date = *req.Date
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if cancelled {
		s.notify(ctx, userID, apt, true)
	}
	return apt, nil
}

func (s *Service) CancelAppointment(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	status := model.AppointmentStatusCancelled
	return s.UpdateAppointment(ctx, userID, id, &model.UpdateAppointmentRequest{Status: &status})
}

func (s *Service) DeleteAppointment(ctx context.Context, userID, id uuid.UUID) error {
	apt, err := s.GetAppointment(ctx, userID, id)
	if err != nil {
		return err
	}

	// Only allow deletion of cancelled appointments
	if apt.Status != model.AppointmentStatusCancelled {
		return apperrors.Validation("can only delete cancelled appointments", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// notify emails the user about the booking or cancellation. Best effort;
// a mail failure never fails the appointment operation.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, apt *model.Appointment, cancelled bool) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to load user for notification")
		return
	}

	if cancelled {
		err = s.emailSvc.SendAppointmentCancellation(ctx, user.Email, apt)
	} else {
		err = s.emailSvc.SendAppointmentConfirmation(ctx, user.Email, apt)
	}
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to send appointment notification")
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
