package rating

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

type fakeRatingRepo struct {
	ratings []*model.DoctorRating
}

func (f *fakeRatingRepo) Create(ctx context.Context, r *model.DoctorRating) error {
	f.ratings = append(f.ratings, r)
	return nil
}

func (f *fakeRatingRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	var out []*model.DoctorRating
	for _, r := range f.ratings {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) ListAll(ctx context.Context) ([]*model.DoctorRating, error) {
	return f.ratings, nil
}

type fakeAppointmentRepo struct {
	hasHistory bool
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment, e *model.OutboxEvent) error {
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
	if !f.hasHistory {
		return nil, nil
	}
	return []*model.Appointment{{}}, nil
}

func TestAverages(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeRatingRepo{ratings: []*model.DoctorRating{
		{DoctorID: doctorID, Stars: 5},
		{DoctorID: doctorID, Stars: 3},
		{DoctorID: doctorID, Stars: 4},
	}}
	svc := NewService(repo, &fakeAppointmentRepo{hasHistory: true})

	summaries, err := svc.Averages(context.Background())
	require.NoError(t, err)

	require.Contains(t, summaries, doctorID)
	assert.Equal(t, 4.0, summaries[doctorID].Average)
	assert.Equal(t, 3, summaries[doctorID].Count)
}

func TestAveragesNoRatings(t *testing.T) {
	svc := NewService(&fakeRatingRepo{}, &fakeAppointmentRepo{})

	summaries, err := svc.Averages(context.Background())
	require.NoError(t, err)

	// Absent from the map entirely, not zero-valued.
	assert.Empty(t, summaries)
}

func TestSubmitInvalidatesCache(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeRatingRepo{ratings: []*model.DoctorRating{{DoctorID: doctorID, Stars: 2}}}
	svc := NewService(repo, &fakeAppointmentRepo{hasHistory: true})

	summaries, err := svc.Averages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, summaries[doctorID].Average)

	_, err = svc.Submit(context.Background(), uuid.New(), &model.SubmitRatingRequest{
		DoctorID: doctorID,
		Stars:    4,
	})
	require.NoError(t, err)

	summaries, err = svc.Averages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, summaries[doctorID].Average)
	assert.Equal(t, 2, summaries[doctorID].Count)
}

func TestSubmitRequiresAppointmentHistory(t *testing.T) {
	svc := NewService(&fakeRatingRepo{}, &fakeAppointmentRepo{hasHistory: false})

	_, err := svc.Submit(context.Background(), uuid.New(), &model.SubmitRatingRequest{
		DoctorID: uuid.New(),
		Stars:    5,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestSubmitStarBounds(t *testing.T) {
	svc := NewService(&fakeRatingRepo{}, &fakeAppointmentRepo{hasHistory: true})

	for _, stars := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), uuid.New(), &model.SubmitRatingRequest{
			DoctorID: uuid.New(),
			Stars:    stars,
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	}
}
