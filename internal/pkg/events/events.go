package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics shared with the other services.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types carried in the CloudEvent envelope.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"

	PaymentCaptured = "payment.captured"
)

// BookingEvent is the payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID   int64     `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	GroundID    int64     `json:"ground_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentCapturedEvent is published by the payment service once funds for a
// pending booking are captured.
type PaymentCapturedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   int64     `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
