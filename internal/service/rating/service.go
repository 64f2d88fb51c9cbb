package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

const (
	averagesCacheKey = "rating:averages"
	cacheTTL         = time.Minute
)

type Service struct {
	ratingRepo      repository.RatingRepository
	appointmentRepo repository.AppointmentRepository
	cache           *gocache.Cache
}

func NewService(ratingRepo repository.RatingRepository, appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		ratingRepo:      ratingRepo,
		appointmentRepo: appointmentRepo,
		cache:           gocache.New(cacheTTL, 5*time.Minute),
	}
}

// Submit records a star rating from a patient for a doctor they have an
// appointment history with.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, req *model.SubmitRatingRequest) (*model.DoctorRating, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return nil, apperrors.Validation("stars must be between 1 and 5")
	}

	appointments, err := s.appointmentRepo.List(ctx, &model.AppointmentFilters{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(appointments) == 0 {
		return nil, apperrors.Forbidden("no appointment history with this doctor")
	}

	rating := &model.DoctorRating{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Stars:     req.Stars,
		Review:    req.Review,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to submit rating: %w", err))
	}

	s.cache.Delete(averagesCacheKey)

	return rating, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	ratings, err := s.ratingRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ratings, nil
}

// Averages returns the mean star rating per doctor. Doctors with no ratings
// have no entry in the map, which is how callers distinguish "no ratings yet"
// from a genuine zero.
func (s *Service) Averages(ctx context.Context) (map[uuid.UUID]model.RatingSummary, error) {
	if cached, ok := s.cache.Get(averagesCacheKey); ok {
		return cached.(map[uuid.UUID]model.RatingSummary), nil
	}

	ratings, err := s.ratingRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	sums := make(map[uuid.UUID]int)
	counts := make(map[uuid.UUID]int)
	for _, r := range ratings {
		sums[r.DoctorID] += r.Stars
		counts[r.DoctorID]++
	}

	summaries := make(map[uuid.UUID]model.RatingSummary, len(counts))
	for doctorID, count := range counts {
		summaries[doctorID] = model.RatingSummary{
			DoctorID: doctorID,
			Average:  float64(sums[doctorID]) / float64(count),
			Count:    count,
		}
	}

	s.cache.Set(averagesCacheKey, summaries, cacheTTL)

	return summaries, nil
}
