package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment carries denormalized patient/doctor names and the doctor's
// specialization so list screens render without joins, matching the shape
// the dashboards bind to. Date is "YYYY-MM-DD", Time is a half-hour grid
// slot like "9:30 AM".
type Appointment struct {
	Base
	PatientID      uuid.UUID         `db:"patient_id" json:"patient_id"`
	PatientName    string            `db:"patient_name" json:"patient_name"`
	DoctorID       uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	DoctorName     string            `db:"doctor_name" json:"doctor_name"`
	Specialization string            `db:"specialization" json:"specialization"`
	Date           string            `db:"appointment_date" json:"appointment_date"`
	Time           string            `db:"appointment_time" json:"appointment_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
}

type BookAppointmentRequest struct {
	DoctorID       uuid.UUID `json:"doctor_id" binding:"required"`
	Specialization string    `json:"specialization" binding:"required"`
	Date           string    `json:"date" binding:"required,caldate"`
	Time           string    `json:"time" binding:"required,slottime"`
}

// SearchDoctorsRequest is step one of the booking wizard: all three
// criteria are required before doctors are listed.
type SearchDoctorsRequest struct {
	Specialization string `form:"specialization" binding:"required"`
	Date           string `form:"date" binding:"required,caldate"`
	Time           string `form:"time" binding:"required,slottime"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	// FromDate/ToDate bound the calendar date (inclusive, string compare).
	FromDate string
	ToDate   string
}
