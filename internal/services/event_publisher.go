package services

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/config"
)

// Event queue names
const (
	QueueCheckoutInitiated = "checkout.initiated"
	QueueBookingStatus     = "booking.status_changed"
)

// CheckoutInitiatedEvent is published when a checkout reaches the redirect
// step
type CheckoutInitiatedEvent struct {
	BookingID        string    `json:"bookingId"`
	RenterID         string    `json:"renterId"`
	VehicleID        string    `json:"vehicleId"`
	TotalAmount      float64   `json:"totalAmount"`
	Currency         string    `json:"currency"`
	PaymentSessionID string    `json:"paymentSessionId"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// BookingStatusEvent is published after a successful status transition
type BookingStatusEvent struct {
	BookingID  string    `json:"bookingId"`
	OwnerID    string    `json:"ownerId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher publishes domain events to RabbitMQ. Publishing is
// best-effort: errors are logged and returned, and every caller ignores
// them rather than failing the request.
type EventPublisher struct {
	cfg    config.EventsConfig
	logger *logrus.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(cfg config.EventsConfig, logger *logrus.Logger) *EventPublisher {
	return &EventPublisher{cfg: cfg, logger: logger}
}

// PublishCheckoutInitiated publishes a checkout handoff event
func (p *EventPublisher) PublishCheckoutInitiated(ctx context.Context, event CheckoutInitiatedEvent) error {
	return p.publish(ctx, QueueCheckoutInitiated, event)
}

// PublishBookingStatus publishes a booking status transition event
func (p *EventPublisher) PublishBookingStatus(ctx context.Context, event BookingStatusEvent) error {
	return p.publish(ctx, QueueBookingStatus, event)
}

// publish dials, declares the durable queue and publishes one persistent
// message. A connection per publish keeps the publisher stateless; event
// volume here is a handful per checkout, not a firehose.
func (p *EventPublisher) publish(ctx context.Context, queue string, event interface{}) error {
	if !p.cfg.Enabled || p.cfg.URL == "" {
		return nil
	}

	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		p.logger.WithError(err).WithField("queue", queue).Warn("Event publish failed: dial")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithError(err).WithField("queue", queue).Warn("Event publish failed: channel")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.logger.WithError(err).WithField("queue", queue).Warn("Event publish failed: queue declare")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("queue", queue).Warn("Event publish failed: marshal")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.logger.WithError(err).WithField("queue", queue).Warn("Event publish failed: publish")
		return err
	}

	return nil
}
