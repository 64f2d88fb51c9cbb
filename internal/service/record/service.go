package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

type Service struct {
	recordRepo      repository.MedicalRecordRepository
	appointmentRepo repository.AppointmentRepository
	auditor         *audit.Service
}

func NewService(recordRepo repository.MedicalRecordRepository, appointmentRepo repository.AppointmentRepository, auditor *audit.Service) *Service {
	return &Service{
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
		auditor:         auditor,
	}
}

// Create writes a medical record against one of the doctor's own
// appointments. Patient and doctor names are denormalized off the
// appointment so record lists render without joins.
func (s *Service) Create(ctx context.Context, claims *model.TokenClaims, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if claims.Role == model.RolePatient {
		return nil, apperrors.Forbidden("patients cannot create medical records")
	}

	appointment, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if claims.Role == model.RoleDoctor && appointment.DoctorID != claims.ProfileID {
		return nil, apperrors.Forbidden("appointment belongs to another doctor")
	}

	record := &model.MedicalRecord{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		PatientName:   appointment.PatientName,
		DoctorID:      appointment.DoctorID,
		DoctorName:    appointment.DoctorName,
		Date:          time.Now().Format("2006-01-02"),
		Title:         req.Title,
		Prescription:  req.Prescription,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create medical record: %w", err))
	}

	s.auditor.Log(ctx, claims.UserID, "create", "medical_record", record.ID, nil)

	return record, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("medical record", err)
	}
	if err := s.authorize(claims, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.recordRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.recordRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

// Delete removes a record. Doctors and patients may delete their own
// records, admins any.
func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("medical record", err)
	}
	if claims.Role == model.RoleDoctor && record.DoctorID != claims.ProfileID {
		return apperrors.Forbidden("record belongs to another doctor")
	}
	if claims.Role == model.RolePatient && record.PatientID != claims.ProfileID {
		return apperrors.Forbidden("record belongs to another patient")
	}

	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	s.auditor.Log(ctx, claims.UserID, "delete", "medical_record", id, nil)
	return nil
}

func (s *Service) authorize(claims *model.TokenClaims, record *model.MedicalRecord) error {
	switch claims.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		if record.DoctorID == claims.ProfileID {
			return nil
		}
	case model.RolePatient:
		if record.PatientID == claims.ProfileID {
			return nil
		}
	}
	return apperrors.Forbidden("medical record belongs to another user")
}
