package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	if err := marshalUnavailable(doctor); err != nil {
		return err
	}

	query := `
		INSERT INTO doctor (
			id, name, email, contact_no, specialization, shift,
			unavailable_dates, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.ContactNo,
		doctor.Specialization,
		doctor.Shift,
		doctor.UnavailableJSON,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, email, contact_no, specialization, shift,
			   unavailable_dates, created_at, updated_at
		FROM doctor
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if err := unmarshalUnavailable(&doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	doctor.UpdatedAt = time.Now()

	if err := marshalUnavailable(doctor); err != nil {
		return err
	}

	query := `
		UPDATE doctor
		SET name = $1, email = $2, contact_no = $3, specialization = $4,
			shift = $5, unavailable_dates = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Email,
		doctor.ContactNo,
		doctor.Specialization,
		doctor.Shift,
		doctor.UnavailableJSON,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor not found")
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor not found")
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, email, contact_no, specialization, shift,
			   unavailable_dates, created_at, updated_at
		FROM doctor
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	for _, d := range doctors {
		if err := unmarshalUnavailable(d); err != nil {
			return nil, err
		}
	}
	return doctors, nil
}

func (r *doctorRepository) ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, email, contact_no, specialization, shift,
			   unavailable_dates, created_at, updated_at
		FROM doctor
		WHERE specialization = $1
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, specialization); err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialization: %w", err)
	}
	for _, d := range doctors {
		if err := unmarshalUnavailable(d); err != nil {
			return nil, err
		}
	}
	return doctors, nil
}

func marshalUnavailable(doctor *model.Doctor) error {
	if doctor.UnavailableDates == nil {
		doctor.UnavailableDates = []string{}
	}
	data, err := json.Marshal(doctor.UnavailableDates)
	if err != nil {
		return fmt.Errorf("failed to marshal unavailable dates: %w", err)
	}
	doctor.UnavailableJSON = string(data)
	return nil
}

func unmarshalUnavailable(doctor *model.Doctor) error {
	if doctor.UnavailableJSON == "" {
		doctor.UnavailableDates = []string{}
		return nil
	}
	if err := json.Unmarshal([]byte(doctor.UnavailableJSON), &doctor.UnavailableDates); err != nil {
		return fmt.Errorf("failed to unmarshal unavailable dates: %w", err)
	}
	return nil
}
