package model

import (
	"github.com/google/uuid"
)

type BillItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Bill struct {
	Base
	AppointmentID uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoice_number"`
	DueDate       string     `db:"due_date" json:"due_date"`
	ItemsJSON     string     `db:"items" json:"-"`
	Items         []BillItem `json:"items"`
	TaxRate       float64    `db:"tax_rate" json:"tax_rate"`
	Amount        float64    `db:"amount" json:"amount"`
}

type GenerateBillRequest struct {
	AppointmentID uuid.UUID  `json:"appointment_id" binding:"required"`
	DueDate       string     `json:"due_date" binding:"required"`
	Items         []BillItem `json:"items" binding:"required,min=1"`
}
