package doctor

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
	doctorRepo repository.DoctorRepository
	userRepo   repository.UserRepository
	hasher     security.PasswordHasher
	auditor    *audit.Service
}

func NewService(doctorRepo repository.DoctorRepository, userRepo repository.UserRepository, hasher security.PasswordHasher, auditor *audit.Service) *Service {
	return &Service{
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
		hasher:     hasher,
		auditor:    auditor,
	}
}

// Create adds a doctor to the roster along with their login account.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("an account with this email already exists", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	doctor := &model.Doctor{
		Name:             req.Name,
		Email:            req.Email,
		ContactNo:        req.ContactNo,
		Specialization:   req.Specialization,
		Shift:            req.Shift,
		UnavailableDates: req.UnavailableDates,
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create doctor: %w", err))
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleDoctor,
		ProfileID:    doctor.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Roll the profile back so a retry with the same email succeeds.
		_ = s.doctorRepo.Delete(ctx, doctor.ID)
		return nil, apperrors.Internal(fmt.Errorf("failed to create doctor account: %w", err))
	}

	s.auditor.Log(ctx, actorID, "create", "doctor", doctor.ID, nil)

	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.ContactNo != nil {
		doctor.ContactNo = *req.ContactNo
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Shift != nil {
		doctor.Shift = *req.Shift
	}
	if req.UnavailableDates != nil {
		doctor.UnavailableDates = *req.UnavailableDates
	}

	if err := s.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update doctor: %w", err))
	}

	s.auditor.Log(ctx, actorID, "update", "doctor", doctor.ID, req)

	return doctor, nil
}

// Delete removes the doctor and their login account.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := s.doctorRepo.Delete(ctx, id); err != nil {
		return apperrors.NotFound("doctor", err)
	}
	if err := s.userRepo.DeleteByProfile(ctx, id); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete doctor account: %w", err))
	}

	s.auditor.Log(ctx, actorID, "delete", "doctor", id, nil)
	return nil
}
