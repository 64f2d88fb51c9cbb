package model

import (
	"github.com/google/uuid"
)

type MedicalRecord struct {
	Base
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DoctorName    string    `db:"doctor_name" json:"doctor_name"`
	Date          string    `db:"record_date" json:"record_date"`
	Title         string    `db:"title" json:"title"`
	Prescription  string    `db:"prescription" json:"prescription"`
}

type CreateMedicalRecordRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	Prescription  string    `json:"prescription" binding:"required"`
}
