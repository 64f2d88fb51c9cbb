package bill

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/audit"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
}

func (f *fakeBillRepo) Create(ctx context.Context, b *model.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.bills[b.ID] = b
	return nil
}

func (f *fakeBillRepo) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, assert.AnError
	}
	return b, nil
}

func (f *fakeBillRepo) List(ctx context.Context, patientID uuid.UUID) ([]*model.Bill, error) {
	var out []*model.Bill
	for _, b := range f.bills {
		if patientID == uuid.Nil || b.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.bills[id]; !ok {
		return assert.AnError
	}
	delete(f.bills, id)
	return nil
}

type fakeAppointmentRepo struct {
	appointment *model.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if f.appointment == nil {
		return nil, assert.AnError
	}
	return f.appointment, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, e *model.OutboxEvent) error {
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error { return nil }

func (f *fakeAuditRepo) List(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}

func TestComputeTotal(t *testing.T) {
	total := ComputeTotal([]model.BillItem{
		{Name: "Consultation", Amount: 100},
		{Name: "Lab test", Amount: 50},
	})
	assert.Equal(t, 177.0, total)

	assert.Zero(t, ComputeTotal(nil))
}

func TestNewInvoiceNumber(t *testing.T) {
	inv := NewInvoiceNumber()
	assert.True(t, strings.HasPrefix(inv, "INV"))
	assert.Greater(t, len(inv), len("INV"))
}

func newTestService(appt *model.Appointment) (*Service, *fakeBillRepo) {
	billRepo := &fakeBillRepo{bills: map[uuid.UUID]*model.Bill{}}
	svc := NewService(billRepo, &fakeAppointmentRepo{appointment: appt}, audit.NewService(&fakeAuditRepo{}))
	return svc, billRepo
}

func TestGenerateBill(t *testing.T) {
	doctorID := uuid.New()
	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Status:    model.AppointmentStatusConfirmed,
	}
	svc, _ := newTestService(appt)

	claims := &model.TokenClaims{UserID: uuid.New(), ProfileID: doctorID, Role: model.RoleDoctor}
	bill, err := svc.Generate(context.Background(), claims, &model.GenerateBillRequest{
		AppointmentID: appt.ID,
		DueDate:       "2024-06-01",
		Items: []model.BillItem{
			{Name: "Consultation", Amount: 100},
			{Name: "Lab test", Amount: 50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 177.0, bill.Amount)
	assert.Equal(t, TaxRate, bill.TaxRate)
	assert.True(t, strings.HasPrefix(bill.InvoiceNumber, "INV"))
	assert.Equal(t, appt.PatientID, bill.PatientID)
	assert.Equal(t, doctorID, bill.DoctorID)
}

func TestGenerateBillRequiresConfirmed(t *testing.T) {
	appt := &model.Appointment{
		Base:   model.Base{ID: uuid.New()},
		Status: model.AppointmentStatusPending,
	}
	svc, _ := newTestService(appt)

	claims := &model.TokenClaims{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err := svc.Generate(context.Background(), claims, &model.GenerateBillRequest{
		AppointmentID: appt.ID,
		DueDate:       "2024-06-01",
		Items:         []model.BillItem{{Name: "Consultation", Amount: 100}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGenerateBillPatientForbidden(t *testing.T) {
	appt := &model.Appointment{
		Base:   model.Base{ID: uuid.New()},
		Status: model.AppointmentStatusConfirmed,
	}
	svc, _ := newTestService(appt)

	claims := &model.TokenClaims{UserID: uuid.New(), Role: model.RolePatient}
	_, err := svc.Generate(context.Background(), claims, &model.GenerateBillRequest{
		AppointmentID: appt.ID,
		DueDate:       "2024-06-01",
		Items:         []model.BillItem{{Name: "Consultation", Amount: 100}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestListScopedToPatient(t *testing.T) {
	appt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Status:    model.AppointmentStatusConfirmed,
	}
	svc, billRepo := newTestService(appt)

	admin := &model.TokenClaims{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err := svc.Generate(context.Background(), admin, &model.GenerateBillRequest{
		AppointmentID: appt.ID,
		DueDate:       "2024-06-01",
		Items:         []model.BillItem{{Name: "Consultation", Amount: 100}},
	})
	require.NoError(t, err)
	require.Len(t, billRepo.bills, 1)

	own, err := svc.List(context.Background(), &model.TokenClaims{ProfileID: appt.PatientID, Role: model.RolePatient})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	other, err := svc.List(context.Background(), &model.TokenClaims{ProfileID: uuid.New(), Role: model.RolePatient})
	require.NoError(t, err)
	assert.Empty(t, other)
}
