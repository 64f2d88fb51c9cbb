package bill

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

// TaxRate applies to the line item subtotal. The final amount is the raw
// sum plus tax with no rounding.
const TaxRate = 0.18

type Service struct {
	billRepo        repository.BillRepository
	appointmentRepo repository.AppointmentRepository
	auditor         *audit.Service
}

func NewService(billRepo repository.BillRepository, appointmentRepo repository.AppointmentRepository, auditor *audit.Service) *Service {
	return &Service{
		billRepo:        billRepo,
		appointmentRepo: appointmentRepo,
		auditor:         auditor,
	}
}

// ComputeTotal returns the billable amount for the given line items:
// subtotal plus tax.
func ComputeTotal(items []model.BillItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}
	return subtotal + subtotal*TaxRate
}

// NewInvoiceNumber generates the timestamped invoice identifier.
func NewInvoiceNumber() string {
	return "INV" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Generate creates a bill against a confirmed appointment.
func (s *Service) Generate(ctx context.Context, claims *model.TokenClaims, req *model.GenerateBillRequest) (*model.Bill, error) {
	if claims.Role == model.RolePatient {
		return nil, apperrors.Forbidden("patients cannot generate bills")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("at least one line item is required")
	}
	for _, item := range req.Items {
		if item.Amount < 0 {
			return nil, apperrors.Validation(fmt.Sprintf("item %q has a negative amount", item.Name))
		}
	}

	appointment, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if claims.Role == model.RoleDoctor && appointment.DoctorID != claims.ProfileID {
		return nil, apperrors.Forbidden("appointment belongs to another doctor")
	}
	if appointment.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.Validation("bills can only be generated for confirmed appointments")
	}

	bill := &model.Bill{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		InvoiceNumber: NewInvoiceNumber(),
		DueDate:       req.DueDate,
		Items:         req.Items,
		TaxRate:       TaxRate,
		Amount:        ComputeTotal(req.Items),
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create bill: %w", err))
	}

	s.auditor.Log(ctx, claims.UserID, "create", "bill", bill.ID, map[string]interface{}{
		"invoice_number": bill.InvoiceNumber,
		"amount":         bill.Amount,
	})

	return bill, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.billRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("bill", err)
	}
	if claims.Role == model.RolePatient && bill.PatientID != claims.ProfileID {
		return nil, apperrors.Forbidden("bill belongs to another patient")
	}
	return bill, nil
}

// List returns all bills for admins, or the caller's own bills for patients.
func (s *Service) List(ctx context.Context, claims *model.TokenClaims) ([]*model.Bill, error) {
	patientID := uuid.Nil
	if claims.Role == model.RolePatient {
		patientID = claims.ProfileID
	}

	bills, err := s.billRepo.List(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bills, nil
}

func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	if claims.Role != model.RoleAdmin {
		return apperrors.Forbidden("only admins can delete bills")
	}
	if err := s.billRepo.Delete(ctx, id); err != nil {
		return apperrors.NotFound("bill", err)
	}
	s.auditor.Log(ctx, claims.UserID, "delete", "bill", id, nil)
	return nil
}
