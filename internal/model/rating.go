package model

import (
	"github.com/google/uuid"
)

type DoctorRating struct {
	Base
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Stars     int       `db:"stars" json:"stars"`
	Review    string    `db:"review" json:"review"`
}

type SubmitRatingRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Stars    int       `json:"stars" binding:"required,min=1,max=5"`
	Review   string    `json:"review"`
}

// RatingSummary is the per-doctor aggregate computed from all rating rows.
type RatingSummary struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Average  float64   `json:"average"`
	Count    int       `json:"count"`
}
