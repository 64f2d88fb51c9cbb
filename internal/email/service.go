package email

import (
	"context"

	"github.com/carebooker/carebooker-api/internal/model"
)

type Service interface {
	SendBookingReceived(ctx context.Context, event *model.AppointmentEvent) error
	SendBookingConfirmed(ctx context.Context, event *model.AppointmentEvent) error
	SendBookingCancelled(ctx context.Context, event *model.AppointmentEvent) error
}
