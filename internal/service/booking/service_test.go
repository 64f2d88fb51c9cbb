package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository/postgres"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	created   []*model.Appointment
	events    []*model.OutboxEvent
	createErr error
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment, e *model.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, a)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, assert.AnError
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, assert.AnError
	}
	return d, nil
}

func (f *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error    { return nil }

func (f *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func (f *fakeDoctorRepo) ListBySpecialization(ctx context.Context, spec string) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.Specialization == spec {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, assert.AnError
	}
	return p, nil
}

func (f *fakePatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return nil, assert.AnError
}

func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) { return nil, nil }

type fakeRatings struct {
	summaries map[uuid.UUID]model.RatingSummary
}

func (f *fakeRatings) Averages(ctx context.Context) (map[uuid.UUID]model.RatingSummary, error) {
	if f.summaries == nil {
		return map[uuid.UUID]model.RatingSummary{}, nil
	}
	return f.summaries, nil
}

func newTestService(appts *fakeAppointmentRepo, doctors *fakeDoctorRepo, patients *fakePatientRepo, ratings *fakeRatings) *Service {
	return NewService(appts, doctors, patients, ratings, nil)
}

func TestSlots(t *testing.T) {
	slots := Slots()

	assert.Len(t, slots, 27)
	assert.Equal(t, "9:00 AM", slots[0])
	assert.Equal(t, "10:00 PM", slots[len(slots)-1])
	assert.Contains(t, slots, "9:30 AM")
	assert.Contains(t, slots, "12:00 PM")
	assert.Contains(t, slots, "12:30 PM")
	assert.Contains(t, slots, "1:00 PM")

	// Minutes are zero padded, hours are not.
	assert.NotContains(t, slots, "09:00 AM")
	assert.NotContains(t, slots, "9:3 AM")
}

func TestSearchDoctorsFiltersUnavailable(t *testing.T) {
	available := &model.Doctor{
		Base:           model.Base{ID: uuid.New()},
		Name:           "Dr. Available",
		Specialization: "cardiology",
	}
	booked := &model.Doctor{
		Base:             model.Base{ID: uuid.New()},
		Name:             "Dr. Away",
		Specialization:   "cardiology",
		UnavailableDates: []string{"2024-05-01"},
	}
	otherSpec := &model.Doctor{
		Base:           model.Base{ID: uuid.New()},
		Name:           "Dr. Skin",
		Specialization: "dermatology",
	}

	svc := newTestService(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
			available.ID: available,
			booked.ID:    booked,
			otherSpec.ID: otherSpec,
		}},
		&fakePatientRepo{},
		&fakeRatings{},
	)

	results, err := svc.SearchDoctors(context.Background(), &model.SearchDoctorsRequest{
		Specialization: "cardiology",
		Date:           "2024-05-01",
		Time:           "9:00 AM",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dr. Available", results[0].Name)

	// The same doctor shows up again on a different date.
	results, err = svc.SearchDoctors(context.Background(), &model.SearchDoctorsRequest{
		Specialization: "cardiology",
		Date:           "2024-05-02",
		Time:           "9:00 AM",
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchDoctorsRatingAnnotation(t *testing.T) {
	rated := &model.Doctor{Base: model.Base{ID: uuid.New()}, Specialization: "cardiology"}
	unrated := &model.Doctor{Base: model.Base{ID: uuid.New()}, Specialization: "cardiology"}

	svc := newTestService(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{rated.ID: rated, unrated.ID: unrated}},
		&fakePatientRepo{},
		&fakeRatings{summaries: map[uuid.UUID]model.RatingSummary{
			rated.ID: {DoctorID: rated.ID, Average: 4.0, Count: 3},
		}},
	)

	results, err := svc.SearchDoctors(context.Background(), &model.SearchDoctorsRequest{
		Specialization: "cardiology",
		Date:           "2024-05-01",
		Time:           "9:00 AM",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		if r.ID == rated.ID {
			assert.True(t, r.HasRatings)
			assert.Equal(t, 4.0, r.AverageRating)
		} else {
			assert.False(t, r.HasRatings)
			assert.Zero(t, r.AverageRating)
		}
	}
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	doctor := &model.Doctor{
		Base:           model.Base{ID: uuid.New()},
		Name:           "Dr. House",
		Specialization: "diagnostics",
	}
	patient := &model.Patient{
		Base:  model.Base{ID: uuid.New()},
		Name:  "John Doe",
		Email: "john@example.com",
	}

	appts := &fakeAppointmentRepo{}
	svc := newTestService(
		appts,
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctor.ID: doctor}},
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		&fakeRatings{},
	)

	booked, err := svc.Book(context.Background(), patient.ID, &model.BookAppointmentRequest{
		DoctorID:       doctor.ID,
		Specialization: "diagnostics",
		Date:           "2024-05-01",
		Time:           "9:30 AM",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, booked.Status)
	assert.Equal(t, "John Doe", booked.PatientName)
	assert.Equal(t, "Dr. House", booked.DoctorName)
	assert.Equal(t, "diagnostics", booked.Specialization)
	assert.NotEqual(t, uuid.Nil, booked.ID)

	require.Len(t, appts.events, 1)
	assert.Equal(t, model.EventAppointmentBooked, appts.events[0].EventType)
}

func TestBookSlotConflict(t *testing.T) {
	doctor := &model.Doctor{Base: model.Base{ID: uuid.New()}, Specialization: "diagnostics"}
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}

	svc := newTestService(
		&fakeAppointmentRepo{createErr: postgres.ErrDuplicateSlot},
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctor.ID: doctor}},
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		&fakeRatings{},
	)

	_, err := svc.Book(context.Background(), patient.ID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2024-05-01",
		Time:     "9:00 AM",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestBookRejectsOffGridSlot(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeDoctorRepo{}, &fakePatientRepo{}, &fakeRatings{})

	_, err := svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     "2024-05-01",
		Time:     "9:15 AM",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Book(context.Background(), uuid.New(), &model.BookAppointmentRequest{
		DoctorID: uuid.New(),
		Date:     "not-a-date",
		Time:     "9:00 AM",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestBookDoctorUnavailable(t *testing.T) {
	doctor := &model.Doctor{
		Base:             model.Base{ID: uuid.New()},
		Specialization:   "diagnostics",
		UnavailableDates: []string{"2024-05-01"},
	}
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}

	svc := newTestService(
		&fakeAppointmentRepo{},
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctor.ID: doctor}},
		&fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}},
		&fakeRatings{},
	)

	_, err := svc.Book(context.Background(), patient.ID, &model.BookAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2024-05-01",
		Time:     "9:00 AM",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}
