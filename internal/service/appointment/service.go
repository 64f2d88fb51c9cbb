package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

// ListScope selects which side of today a listing covers. Both scopes
// include today itself.
type ListScope string

const (
	ScopeAll      ListScope = "all"
	ScopePast     ListScope = "past"
	ScopeUpcoming ListScope = "upcoming"
)

type Service struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	auditor         *audit.Service
}

func NewService(appointmentRepo repository.AppointmentRepository, patientRepo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		auditor:         auditor,
	}
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err := s.authorize(claims, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Accept moves an appointment to confirmed. Any non-confirmed state may be
// confirmed, including a previously cancelled one.
func (s *Service) Accept(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Appointment, error) {
	if claims.Role != model.RoleDoctor && claims.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("only doctors can accept appointments")
	}
	return s.transition(ctx, claims, id, model.AppointmentStatusConfirmed, model.EventAppointmentConfirmed)
}

// Cancel soft-cancels an appointment. The row stays in place so history
// screens keep showing it; the slot frees up because the uniqueness index
// ignores cancelled rows.
func (s *Service) Cancel(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, claims, id, model.AppointmentStatusCancelled, model.EventAppointmentCancelled)
}

func (s *Service) transition(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, target model.AppointmentStatus, eventType string) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err := s.authorize(claims, appointment); err != nil {
		return nil, err
	}
	if appointment.Status == target {
		return nil, apperrors.Validation(fmt.Sprintf("appointment is already %s", target))
	}

	patient, err := s.patientRepo.Get(ctx, appointment.PatientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	previous := appointment.Status
	appointment.Status = target

	event, err := buildEvent(eventType, appointment, patient.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, target, event); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update appointment: %w", err))
	}

	s.auditor.Log(ctx, claims.UserID, "status_change", "appointment", id, map[string]interface{}{
		"from": previous,
		"to":   target,
	})

	return appointment, nil
}

// ListForPatient returns the patient's appointments, optionally split into
// past and upcoming halves by calendar date.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, scope ListScope) ([]*model.Appointment, error) {
	return s.list(ctx, &model.AppointmentFilters{PatientID: patientID}, scope)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, scope ListScope) ([]*model.Appointment, error) {
	return s.list(ctx, &model.AppointmentFilters{DoctorID: doctorID}, scope)
}

func (s *Service) ListAll(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// Delete removes an appointment outright. Admin roster maintenance only;
// patients and doctors cancel instead.
func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	if claims.Role != model.RoleAdmin {
		return apperrors.Forbidden("only admins can delete appointments")
	}
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return apperrors.NotFound("appointment", err)
	}
	s.auditor.Log(ctx, claims.UserID, "delete", "appointment", id, nil)
	return nil
}

func (s *Service) list(ctx context.Context, filters *model.AppointmentFilters, scope ListScope) ([]*model.Appointment, error) {
	today := time.Now().Format("2006-01-02")
	switch scope {
	case ScopePast:
		filters.ToDate = today
	case ScopeUpcoming:
		filters.FromDate = today
	}

	appointments, err := s.appointmentRepo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

func (s *Service) authorize(claims *model.TokenClaims, appointment *model.Appointment) error {
	switch claims.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		if appointment.DoctorID == claims.ProfileID {
			return nil
		}
	case model.RolePatient:
		if appointment.PatientID == claims.ProfileID {
			return nil
		}
	}
	return apperrors.Forbidden("appointment belongs to another user")
}

func buildEvent(eventType string, appointment *model.Appointment, patientEmail string) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(&model.AppointmentEvent{
		AppointmentID: appointment.ID,
		PatientName:   appointment.PatientName,
		PatientEmail:  patientEmail,
		DoctorName:    appointment.DoctorName,
		Date:          appointment.Date,
		Time:          appointment.Time,
		Status:        appointment.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}, nil
}
