package email

import (
	"context"

	"github.com/healthmate/healthmate-api/internal/model"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendAppointmentConfirmation(ctx context.Context, to string, appointment *model.Appointment) error
	SendAppointmentCancellation(ctx context.Context, to string, appointment *model.Appointment) error
}
