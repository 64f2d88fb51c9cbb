package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/repository/postgres"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
	"github.com/carebooker/carebooker-api/pkg/metrics"
)

// The booking grid runs in half-hour steps from 9:00 AM through 10:00 PM.
const (
	gridOpenMinutes  = 9 * 60
	gridCloseMinutes = 22 * 60
	gridStepMinutes  = 30
)

// Slots returns the fixed half-hour booking grid, "9:00 AM" through
// "10:00 PM" inclusive. Minutes are zero-padded, hours are not.
func Slots() []string {
	slots := make([]string, 0, (gridCloseMinutes-gridOpenMinutes)/gridStepMinutes+1)
	for m := gridOpenMinutes; m <= gridCloseMinutes; m += gridStepMinutes {
		hour, minute := m/60, m%60
		meridiem := "AM"
		if hour >= 12 {
			meridiem = "PM"
		}
		displayHour := hour % 12
		if displayHour == 0 {
			displayHour = 12
		}
		slots = append(slots, fmt.Sprintf("%d:%02d %s", displayHour, minute, meridiem))
	}
	return slots
}

// ValidSlot reports whether t is one of the grid slots.
func ValidSlot(t string) bool {
	for _, s := range Slots() {
		if s == t {
			return true
		}
	}
	return false
}

// RatingProvider supplies per-doctor rating summaries for search results.
type RatingProvider interface {
	Averages(ctx context.Context) (map[uuid.UUID]model.RatingSummary, error)
}

type Service struct {
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	ratings         RatingProvider
	metrics         *metrics.Metrics
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	ratings RatingProvider,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		ratings:         ratings,
		metrics:         m,
	}
}

// SearchDoctors lists doctors of the requested specialization who are not
// marked unavailable on the chosen date, each annotated with their mean
// star rating.
func (s *Service) SearchDoctors(ctx context.Context, req *model.SearchDoctorsRequest) ([]*model.DoctorWithRating, error) {
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}
	if !ValidSlot(req.Time) {
		return nil, apperrors.Validation(fmt.Sprintf("time %q is not a bookable slot", req.Time))
	}

	doctors, err := s.doctorRepo.ListBySpecialization(ctx, req.Specialization)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summaries, err := s.ratings.Averages(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*model.DoctorWithRating, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor.Unavailable(req.Date) {
			continue
		}
		entry := &model.DoctorWithRating{Doctor: *doctor}
		if summary, ok := summaries[doctor.ID]; ok {
			entry.AverageRating = summary.Average
			entry.HasRatings = true
		}
		results = append(results, entry)
	}

	return results, nil
}

// Book creates a pending appointment for the patient. The slot conflict
// check is enforced by the store, not read-then-write, so two concurrent
// bookings of the same doctor/date/time cannot both succeed.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if err := validateDate(req.Date); err != nil {
		s.countFailure("validation")
		return nil, err
	}
	if !ValidSlot(req.Time) {
		s.countFailure("validation")
		return nil, apperrors.Validation(fmt.Sprintf("time %q is not a bookable slot", req.Time))
	}

	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		s.countFailure("doctor_not_found")
		return nil, apperrors.NotFound("doctor", err)
	}
	if doctor.Unavailable(req.Date) {
		s.countFailure("doctor_unavailable")
		return nil, apperrors.Conflict("doctor is not available on this date", nil)
	}

	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		s.countFailure("patient_not_found")
		return nil, apperrors.NotFound("patient", err)
	}

	appointment := &model.Appointment{
		Base:           model.Base{ID: uuid.New()},
		PatientID:      patient.ID,
		PatientName:    patient.Name,
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialization,
		Date:           req.Date,
		Time:           req.Time,
		Status:         model.AppointmentStatusPending,
	}

	event, err := buildEvent(model.EventAppointmentBooked, appointment, patient.Email)
	if err != nil {
		s.countFailure("internal")
		return nil, apperrors.Internal(err)
	}

	if err := s.appointmentRepo.Create(ctx, appointment, event); err != nil {
		if errors.Is(err, postgres.ErrDuplicateSlot) {
			s.countFailure("slot_taken")
			return nil, apperrors.Conflict("this slot is already booked for the doctor", err)
		}
		s.countFailure("internal")
		return nil, apperrors.Internal(fmt.Errorf("failed to book appointment: %w", err))
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.Inc()
	}

	return appointment, nil
}

func (s *Service) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsFailed.WithLabelValues(reason).Inc()
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.Validation(fmt.Sprintf("date %q is not a valid YYYY-MM-DD date", date))
	}
	return nil
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
