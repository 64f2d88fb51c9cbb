package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		DeleteByProfile(ctx context.Context, profileID uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		// Create inserts the appointment and queues the outbox event in one
		// transaction. A slot collision surfaces as ErrDuplicateSlot.
		Create(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, event *model.OutboxEvent) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	BillRepository interface {
		Create(ctx context.Context, bill *model.Bill) error
		Get(ctx context.Context, id uuid.UUID) (*model.Bill, error)
		List(ctx context.Context, patientID uuid.UUID) ([]*model.Bill, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.MedicalRecord, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	RatingRepository interface {
		Create(ctx context.Context, rating *model.DoctorRating) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error)
		ListAll(ctx context.Context) ([]*model.DoctorRating, error)
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, days int) (int64, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditLog) error
		List(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error)
	}
)
