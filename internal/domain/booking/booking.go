package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// Booking is the aggregate root for the booking domain. It represents one
// reserved slot on a ground: a calendar date plus a half-open [start, end)
// time-of-day interval. The ID is assigned by the store on first insert
// and immutable afterwards.
type Booking struct {
	id          int64
	userID      uuid.UUID
	groundID    int64
	bookingDate time.Time
	startTime   TimeOfDay
	endTime     TimeOfDay
	status      Status
	amountCents int64

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking for the given slot. The amount is
// computed by the caller from the ground's hourly rate.
func NewBooking(userID uuid.UUID, groundID int64, date time.Time, start, end TimeOfDay, amountCents int64) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, apperror.NewInvalidArgument("user ID is required")
	}
	if groundID <= 0 {
		return nil, apperror.NewInvalidArgument("ground ID is required")
	}
	if !start.Valid() || !end.Valid() {
		return nil, apperror.NewInvalidInterval("start and end must fall within a single day")
	}
	if !start.Before(end) {
		return nil, apperror.NewInvalidInterval("start time must be before end time")
	}
	if amountCents < 0 {
		return nil, apperror.NewInvalidArgument("amount cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		userID:      userID,
		groundID:    groundID,
		bookingDate: NormalizeDate(date),
		startTime:   start,
		endTime:     end,
		status:      StatusPending,
		amountCents: amountCents,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id int64,
	userID uuid.UUID,
	groundID int64,
	bookingDate time.Time,
	startTime, endTime TimeOfDay,
	status Status,
	amountCents int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		userID:      userID,
		groundID:    groundID,
		bookingDate: NormalizeDate(bookingDate),
		startTime:   startTime,
		endTime:     endTime,
		status:      status,
		amountCents: amountCents,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the store-assigned booking identifier, zero until persisted.
func (b *Booking) ID() int64 { return b.id }

// UserID returns the booking owner's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// GroundID returns the booked ground's identifier.
func (b *Booking) GroundID() int64 { return b.groundID }

// Date returns the booked calendar date at UTC midnight.
func (b *Booking) Date() time.Time { return b.bookingDate }

// Start returns the slot's start time of day.
func (b *Booking) Start() TimeOfDay { return b.startTime }

// End returns the slot's end time of day.
func (b *Booking) End() TimeOfDay { return b.endTime }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// AmountCents returns the booking total in currency minor units.
func (b *Booking) AmountCents() int64 { return b.amountCents }

// Version returns the entity version, bumped on every persisted change.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// OverlapsSlot reports whether this booking's interval intersects the
// half-open candidate interval on the same ground and date.
func (b *Booking) OverlapsSlot(start, end TimeOfDay) bool {
	return Overlaps(b.startTime, b.endTime, start, end)
}

// EndsBy reports whether the booked slot has fully elapsed at the given instant.
func (b *Booking) EndsBy(now time.Time) bool {
	return !b.endTime.On(b.bookingDate).After(now)
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return apperror.NewInvalidTransition(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled, releasing its slot. Only the
// booking's owning user may cancel; the identity comparison is injected here
// rather than resolved against an auth service.
func (b *Booking) Cancel(requesterID uuid.UUID) error {
	if requesterID != b.userID {
		return apperror.NewUnauthorized("only the booking owner may cancel")
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return apperror.NewInvalidTransition(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from confirmed to completed once the
// booked slot has fully elapsed.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return apperror.NewInvalidTransition(string(b.status), string(StatusCompleted))
	}
	if !b.EndsBy(now) {
		return apperror.New(apperror.CodeInvalidTransition, "booking slot has not elapsed yet")
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version ahead of a persisted update.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
