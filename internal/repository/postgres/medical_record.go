package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
)

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	query := `
		INSERT INTO medical_records (
			id, appointment_id, patient_id, patient_name, doctor_id,
			doctor_name, record_date, title, prescription, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.AppointmentID,
		record.PatientID,
		record.PatientName,
		record.DoctorID,
		record.DoctorName,
		record.Date,
		record.Title,
		record.Prescription,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	query := `
		SELECT id, appointment_id, patient_id, patient_name, doctor_id,
			   doctor_name, record_date, title, prescription, created_at, updated_at
		FROM medical_records
		WHERE id = $1
	`
	var record model.MedicalRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

func (r *medicalRecordRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.MedicalRecord, error) {
	return r.list(ctx, "doctor_id", doctorID)
}

func (r *medicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	return r.list(ctx, "patient_id", patientID)
}

func (r *medicalRecordRepository) list(ctx context.Context, column string, id uuid.UUID) ([]*model.MedicalRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, appointment_id, patient_id, patient_name, doctor_id,
			   doctor_name, record_date, title, prescription, created_at, updated_at
		FROM medical_records
		WHERE %s = $1
		ORDER BY record_date ASC
	`, column)

	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, id); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("medical record not found")
	}
	return nil
}
