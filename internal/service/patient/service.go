package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
	"github.com/carebooker/carebooker-api/pkg/security"
)

type Service struct {
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
	hasher      security.PasswordHasher
	auditor     *audit.Service
}

func NewService(patientRepo repository.PatientRepository, userRepo repository.UserRepository, hasher security.PasswordHasher, auditor *audit.Service) *Service {
	return &Service{
		patientRepo: patientRepo,
		userRepo:    userRepo,
		hasher:      hasher,
		auditor:     auditor,
	}
}

// Register signs up a patient: one profile row plus one login account
// carrying the patient role. This is the public registration path; admins
// use it too when adding patients to the roster.
func (s *Service) Register(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("an account with this email already exists", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	patient := &model.Patient{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		ContactNo:   req.ContactNo,
		Email:       req.Email,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create patient: %w", err))
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RolePatient,
		ProfileID:    patient.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		_ = s.patientRepo.Delete(ctx, patient.ID)
		return nil, apperrors.Internal(fmt.Errorf("failed to create patient account: %w", err))
	}

	s.auditor.Log(ctx, user.ID, "register", "patient", patient.ID, nil)

	return patient, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Patient, error) {
	if claims.Role == model.RolePatient && claims.ProfileID != id {
		return nil, apperrors.Forbidden("profile belongs to another patient")
	}

	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if claims.Role == model.RolePatient && claims.ProfileID != id {
		return nil, apperrors.Forbidden("profile belongs to another patient")
	}

	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.ContactNo != nil {
		patient.ContactNo = *req.ContactNo
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update patient: %w", err))
	}

	s.auditor.Log(ctx, claims.UserID, "update", "patient", patient.ID, req)

	return patient, nil
}

// Delete removes the patient and their login account. Admin only.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := s.patientRepo.Delete(ctx, id); err != nil {
		return apperrors.NotFound("patient", err)
	}
	if err := s.userRepo.DeleteByProfile(ctx, id); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete patient account: %w", err))
	}

	s.auditor.Log(ctx, actorID, "delete", "patient", id, nil)
	return nil
}
