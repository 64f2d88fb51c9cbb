package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carebooker/carebooker-api/internal/email"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/pkg/logger"
	"github.com/carebooker/carebooker-api/pkg/messaging"
)

// Notifier consumes appointment events off the broker and emails the
// patient about each lifecycle change.
type Notifier struct {
	broker messaging.Broker
	email  email.Service
	logger *logger.Logger
}

func NewNotifier(broker messaging.Broker, emailSvc email.Service, logger *logger.Logger) *Notifier {
	return &Notifier{
		broker: broker,
		email:  emailSvc,
		logger: logger,
	}
}

// Start subscribes to all appointment channels and blocks until the
// context is cancelled.
func (n *Notifier) Start(ctx context.Context) error {
	channels := []string{
		model.EventAppointmentBooked,
		model.EventAppointmentConfirmed,
		model.EventAppointmentCancelled,
	}

	for _, channel := range channels {
		msgs, err := n.broker.Subscribe(ctx, channel)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		go n.consume(ctx, channel, msgs)
	}

	n.logger.Info("Starting appointment notifier")
	<-ctx.Done()
	n.logger.Info("Shutting down appointment notifier")
	return nil
}

func (n *Notifier) consume(ctx context.Context, channel string, msgs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				return
			}
			if err := n.handle(ctx, channel, payload); err != nil {
				n.logger.Error(err, "Failed to handle event", "channel", channel)
			}
		}
	}
}

func (n *Notifier) handle(ctx context.Context, channel string, payload []byte) error {
	var event model.AppointmentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal appointment event: %w", err)
	}
	if event.PatientEmail == "" {
		return nil
	}

	switch channel {
	case model.EventAppointmentBooked:
		return n.email.SendBookingReceived(ctx, &event)
	case model.EventAppointmentConfirmed:
		return n.email.SendBookingConfirmed(ctx, &event)
	case model.EventAppointmentCancelled:
		return n.email.SendBookingCancelled(ctx, &event)
	}
	return nil
}
