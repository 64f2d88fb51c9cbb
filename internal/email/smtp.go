package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/carebooker/carebooker-api/internal/config"
	"github.com/carebooker/carebooker-api/internal/model"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService returns a gomail-backed sender. When SMTP is disabled in
// config a no-op sender is returned so the worker runs without a mail host.
func NewSMTPService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingReceived(ctx context.Context, event *model.AppointmentEvent) error {
	subject := "We received your appointment request"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment request with %s on %s at %s has been received and is pending confirmation.\n",
		event.PatientName, event.DoctorName, event.Date, event.Time,
	)
	return s.send(ctx, event.PatientEmail, subject, body)
}

func (s *smtpService) SendBookingConfirmed(ctx context.Context, event *model.AppointmentEvent) error {
	subject := "Your appointment is confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s at %s has been confirmed.\n",
		event.PatientName, event.DoctorName, event.Date, event.Time,
	)
	return s.send(ctx, event.PatientEmail, subject, body)
}

func (s *smtpService) SendBookingCancelled(ctx context.Context, event *model.AppointmentEvent) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s on %s at %s has been cancelled.\n",
		event.PatientName, event.DoctorName, event.Date, event.Time,
	)
	return s.send(ctx, event.PatientEmail, subject, body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendBookingReceived(context.Context, *model.AppointmentEvent) error {
	return nil
}

func (n *noopService) SendBookingConfirmed(context.Context, *model.AppointmentEvent) error {
	return nil
}

func (n *noopService) SendBookingCancelled(context.Context, *model.AppointmentEvent) error {
	return nil
}
