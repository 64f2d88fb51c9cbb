package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	"github.com/carebooker/carebooker-api/pkg/auth"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
	"github.com/carebooker/carebooker-api/pkg/security"
)

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, assert.AnError
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, assert.AnError
	}
	return f.user, nil
}

func (f *fakeUserRepo) DeleteByProfile(ctx context.Context, profileID uuid.UUID) error { return nil }

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.patient == nil || f.patient.ID != id {
		return nil, assert.AnError
	}
	return f.patient, nil
}

func (f *fakePatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return nil, assert.AnError
}

func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

func (f *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) { return nil, nil }

type fakeDoctorRepo struct {
	doctor *model.Doctor
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if f.doctor == nil || f.doctor.ID != id {
		return nil, assert.AnError
	}
	return f.doctor, nil
}

func (f *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error    { return nil }

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func (f *fakeDoctorRepo) ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}

func newTestService(t *testing.T, password string) (*Service, *model.User, *fakeAuditRepo) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	doctor := &model.Doctor{
		Base: model.Base{ID: uuid.New()},
		Name: "Dr. House",
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        "doc@example.com",
		PasswordHash: hash,
		Role:         model.RoleDoctor,
		ProfileID:    doctor.ID,
	}

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})

	auditRepo := &fakeAuditRepo{}
	svc := NewService(
		&fakeUserRepo{user: user},
		&fakePatientRepo{},
		&fakeDoctorRepo{doctor: doctor},
		jwtSvc,
		hasher,
		audit.NewService(auditRepo),
	)
	return svc, user, auditRepo
}

func TestLogin(t *testing.T) {
	svc, user, _ := newTestService(t, "correct-horse")

	resp, err := svc.Login(context.Background(), "doc@example.com", "correct-horse")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RoleDoctor, resp.Role)
	assert.Equal(t, user.ProfileID, resp.ProfileID)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t, "correct-horse")

	_, err := svc.Login(context.Background(), "doc@example.com", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newTestService(t, "correct-horse")

	resp, err := svc.Login(context.Background(), "doc@example.com", "correct-horse")
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.Error(t, err)
}

func TestMeResolvesProfile(t *testing.T) {
	svc, user, _ := newTestService(t, "correct-horse")

	claims := &model.TokenClaims{UserID: user.ID, ProfileID: user.ProfileID, Role: model.RoleDoctor}
	profile, err := svc.Me(context.Background(), claims)
	require.NoError(t, err)

	doctor, ok := profile.(*model.Doctor)
	require.True(t, ok)
	assert.Equal(t, user.ProfileID, doctor.ID)

	// Admins have no profile row and get the identity record back.
	adminClaims := &model.TokenClaims{UserID: user.ID, Role: model.RoleAdmin}
	identity, err := svc.Me(context.Background(), adminClaims)
	require.NoError(t, err)
	got, ok := identity.(*model.User)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogoutAudited(t *testing.T) {
	svc, user, auditRepo := newTestService(t, "correct-horse")

	claims := &model.TokenClaims{UserID: user.ID, ProfileID: user.ProfileID, Role: model.RoleDoctor}
	err := svc.Logout(context.Background(), claims)
	require.NoError(t, err)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "logout", auditRepo.entries[0].Action)
	assert.Equal(t, user.ID, auditRepo.entries[0].ActorID)
}
