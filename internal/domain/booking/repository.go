package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates. The
// store is the sole owner of booking records; every decision reads current
// persisted state rather than a caller-held copy.
type Repository interface {
	// Insert persists a new pending booking. The check for overlapping
	// active bookings and the insert execute as one serialized unit per
	// (ground, date); a lost race surfaces as a Conflict error.
	Insert(ctx context.Context, b *Booking) error

	// FindByID retrieves a booking by its store-assigned identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindOverlapping returns bookings on (groundID, date) in any of the
	// given statuses whose [start, end) interval intersects the candidate.
	FindOverlapping(ctx context.Context, groundID int64, date time.Time, start, end TimeOfDay, statuses []Status) ([]*Booking, error)

	// Update applies mutate against the currently persisted state of the
	// booking and saves the result, all within one transaction.
	Update(ctx context.Context, id int64, mutate func(*Booking) error) (*Booking, error)

	// ListByUser retrieves a user's bookings ordered by booking date
	// descending, ties broken by ID descending. Offset pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*Booking, int64, error)

	// ListByGround retrieves a ground's bookings with the same ordering
	// and pagination semantics as ListByUser.
	ListByGround(ctx context.Context, groundID int64, page, pageSize int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, pageSize int) ([]*Booking, int64, error)

	// FindDueForCompletion returns confirmed bookings whose slot has fully
	// elapsed at the given instant, oldest first, capped at limit.
	FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
