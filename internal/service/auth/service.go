package auth

import (
	"context"
	"fmt"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	"github.com/carebooker/carebooker-api/pkg/auth"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
	"github.com/carebooker/carebooker-api/pkg/security"
)

type Service struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	jwtSvc      auth.JWTService
	hasher      security.PasswordHasher
	auditor     *audit.Service
}

func NewService(
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	auditor *audit.Service,
) *Service {
	return &Service{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		jwtSvc:      jwtSvc,
		hasher:      hasher,
		auditor:     auditor,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.auditor.Log(ctx, user.ID, "login", "auth", user.ID, nil)

	return &model.LoginResponse{
		TokenResponse: *tokens,
		Role:          user.Role,
		ProfileID:     user.ProfileID,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid refresh token: %w", err))
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("user not found"))
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return tokens, nil
}

// Me resolves the profile behind the token claims. Admins have no profile
// row, so they get the identity record instead.
func (s *Service) Me(ctx context.Context, claims *model.TokenClaims) (interface{}, error) {
	switch claims.Role {
	case model.RolePatient:
		patient, err := s.patientRepo.Get(ctx, claims.ProfileID)
		if err != nil {
			return nil, apperrors.NotFound("patient", err)
		}
		return patient, nil
	case model.RoleDoctor:
		doctor, err := s.doctorRepo.Get(ctx, claims.ProfileID)
		if err != nil {
			return nil, apperrors.NotFound("doctor", err)
		}
		return doctor, nil
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

// Logout only records the event. Issued tokens stay valid until expiry.
func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	return s.auditor.Log(ctx, claims.UserID, "logout", "auth", claims.UserID, nil)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
