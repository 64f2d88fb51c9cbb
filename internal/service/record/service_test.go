package record

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

type fakeRecordRepo struct {
	records map[uuid.UUID]*model.MedicalRecord
}

func (f *fakeRecordRepo) Create(ctx context.Context, r *model.MedicalRecord) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.records[r.ID] = r
	return nil
}

func (f *fakeRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, assert.AnError
	}
	return r, nil
}

func (f *fakeRecordRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.MedicalRecord, error) {
	var out []*model.MedicalRecord
	for _, r := range f.records {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	var out []*model.MedicalRecord
	for _, r := range f.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.records, id)
	return nil
}

type fakeAppointmentRepo struct {
	appointment *model.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if f.appointment == nil {
		return nil, assert.AnError
	}
	return f.appointment, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error { return nil }

func (f *fakeAuditRepo) List(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}

func newTestService(appt *model.Appointment) (*Service, *fakeRecordRepo) {
	repo := &fakeRecordRepo{records: map[uuid.UUID]*model.MedicalRecord{}}
	svc := NewService(repo, &fakeAppointmentRepo{appointment: appt}, audit.NewService(&fakeAuditRepo{}))
	return svc, repo
}

func TestCreateDenormalizesFromAppointment(t *testing.T) {
	appt := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		PatientID:   uuid.New(),
		PatientName: "John Doe",
		DoctorID:    uuid.New(),
		DoctorName:  "Dr. House",
	}
	svc, _ := newTestService(appt)

	claims := &model.TokenClaims{UserID: uuid.New(), ProfileID: appt.DoctorID, Role: model.RoleDoctor}
	rec, err := svc.Create(context.Background(), claims, &model.CreateMedicalRecordRequest{
		AppointmentID: appt.ID,
		Title:         "Follow-up",
		Prescription:  "Rest and fluids",
	})
	require.NoError(t, err)

	assert.Equal(t, appt.PatientID, rec.PatientID)
	assert.Equal(t, "John Doe", rec.PatientName)
	assert.Equal(t, "Dr. House", rec.DoctorName)
	assert.NotEmpty(t, rec.Date)
}

func TestCreateRejectsForeignAppointment(t *testing.T) {
	appt := &model.Appointment{
		Base:     model.Base{ID: uuid.New()},
		DoctorID: uuid.New(),
	}
	svc, _ := newTestService(appt)

	claims := &model.TokenClaims{UserID: uuid.New(), ProfileID: uuid.New(), Role: model.RoleDoctor}
	_, err := svc.Create(context.Background(), claims, &model.CreateMedicalRecordRequest{
		AppointmentID: appt.ID,
		Title:         "Follow-up",
		Prescription:  "Rest",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCreateRejectsPatients(t *testing.T) {
	svc, _ := newTestService(nil)

	claims := &model.TokenClaims{UserID: uuid.New(), Role: model.RolePatient}
	_, err := svc.Create(context.Background(), claims, &model.CreateMedicalRecordRequest{
		AppointmentID: uuid.New(),
		Title:         "Self-diagnosis",
		Prescription:  "None",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestGetVisibility(t *testing.T) {
	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	}
	svc, repo := newTestService(appt)

	doctorClaims := &model.TokenClaims{UserID: uuid.New(), ProfileID: appt.DoctorID, Role: model.RoleDoctor}
	rec, err := svc.Create(context.Background(), doctorClaims, &model.CreateMedicalRecordRequest{
		AppointmentID: appt.ID,
		Title:         "Checkup",
		Prescription:  "Vitamins",
	})
	require.NoError(t, err)
	require.Len(t, repo.records, 1)

	// The patient on the record can read it.
	_, err = svc.Get(context.Background(), &model.TokenClaims{ProfileID: appt.PatientID, Role: model.RolePatient}, rec.ID)
	assert.NoError(t, err)

	// Another patient cannot.
	_, err = svc.Get(context.Background(), &model.TokenClaims{ProfileID: uuid.New(), Role: model.RolePatient}, rec.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestDeleteOwnership(t *testing.T) {
	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	}
	svc, _ := newTestService(appt)

	doctorClaims := &model.TokenClaims{UserID: uuid.New(), ProfileID: appt.DoctorID, Role: model.RoleDoctor}
	rec, err := svc.Create(context.Background(), doctorClaims, &model.CreateMedicalRecordRequest{
		AppointmentID: appt.ID,
		Title:         "Checkup",
		Prescription:  "Vitamins",
	})
	require.NoError(t, err)

	// A patient who is not on the record cannot delete it.
	err = svc.Delete(context.Background(), &model.TokenClaims{ProfileID: uuid.New(), Role: model.RolePatient}, rec.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = svc.Delete(context.Background(), doctorClaims, rec.ID)
	assert.NoError(t, err)
}

func TestPatientDeletesOwnRecord(t *testing.T) {
	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	}
	svc, repo := newTestService(appt)

	doctorClaims := &model.TokenClaims{UserID: uuid.New(), ProfileID: appt.DoctorID, Role: model.RoleDoctor}
	rec, err := svc.Create(context.Background(), doctorClaims, &model.CreateMedicalRecordRequest{
		AppointmentID: appt.ID,
		Title:         "Checkup",
		Prescription:  "Vitamins",
	})
	require.NoError(t, err)

	patientClaims := &model.TokenClaims{UserID: uuid.New(), ProfileID: appt.PatientID, Role: model.RolePatient}
	err = svc.Delete(context.Background(), patientClaims, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.records)
}
