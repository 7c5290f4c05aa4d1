package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/healthmate/healthmate-api/internal/model"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to string, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nWelcome to HealthMate. You can ask health questions, find doctors near you, and manage appointments from your dashboard.\n\nStay healthy,\nThe HealthMate team", name)
	return s.send(to, "Welcome to HealthMate", body)
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to string, appointment *model.Appointment) error {
	body := fmt.Sprintf("Your appointment on %s at %s has been booked.\n\nNotes: %s\n\nYou will be notified when the doctor confirms it.",
		appointment.Date.Format("2006-01-02"), appointment.Time, appointment.Notes)
	return s.send(to, "Appointment booked", body)
}

func (s *smtpService) SendAppointmentCancellation(ctx context.Context, to string, appointment *model.Appointment) error {
	body := fmt.Sprintf("Your appointment on %s at %s has been cancelled.",
		appointment.Date.Format("2006-01-02"), appointment.Time)
	return s.send(to, "Appointment cancelled", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
