package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
)

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	bill.ID = uuid.New()
	bill.CreatedAt = time.Now()
	bill.UpdatedAt = time.Now()

	items, err := json.Marshal(bill.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal bill items: %w", err)
	}
	bill.ItemsJSON = string(items)

	query := `
		INSERT INTO bills (
			id, appointment_id, patient_id, doctor_id, invoice_number,
			due_date, items, tax_rate, amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		bill.ID,
		bill.AppointmentID,
		bill.PatientID,
		bill.DoctorID,
		bill.InvoiceNumber,
		bill.DueDate,
		bill.ItemsJSON,
		bill.TaxRate,
		bill.Amount,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

func (r *billRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	query := `
		SELECT id, appointment_id, patient_id, doctor_id, invoice_number,
			   due_date, items, tax_rate, amount, created_at, updated_at
		FROM bills
		WHERE id = $1
	`
	var bill model.Bill
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if err := unmarshalItems(&bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// List returns bills for one patient, or all bills when patientID is nil.
func (r *billRepository) List(ctx context.Context, patientID uuid.UUID) ([]*model.Bill, error) {
	query := `
		SELECT id, appointment_id, patient_id, doctor_id, invoice_number,
			   due_date, items, tax_rate, amount, created_at, updated_at
		FROM bills
	`
	args := []interface{}{}
	if patientID != uuid.Nil {
		query += " WHERE patient_id = $1"
		args = append(args, patientID)
	}
	query += " ORDER BY created_at ASC"

	var bills []*model.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	for _, b := range bills {
		if err := unmarshalItems(b); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill not found")
	}
	return nil
}

func unmarshalItems(bill *model.Bill) error {
	if bill.ItemsJSON == "" {
		bill.Items = []model.BillItem{}
		return nil
	}
	if err := json.Unmarshal([]byte(bill.ItemsJSON), &bill.Items); err != nil {
		return fmt.Errorf("failed to unmarshal bill items: %w", err)
	}
	return nil
}
