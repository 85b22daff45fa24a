package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	groundDomain "github.com/groundhub/service-booking/internal/domain/ground"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
	"github.com/groundhub/service-booking/internal/pkg/events"
	"github.com/groundhub/service-booking/internal/pkg/kafka"
	"github.com/groundhub/service-booking/internal/pkg/pagination"
)

const bookingDateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to reserve a slot.
type CreateBookingRequest struct {
	GroundID int64                   `json:"ground_id" binding:"required"`
	Date     string                  `json:"date" binding:"required"`
	Start    bookingDomain.TimeOfDay `json:"start_time"`
	End      bookingDomain.TimeOfDay `json:"end_time"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	GroundID    int64     `json:"ground_id"`
	Date        string    `json:"date"`
	Start       string    `json:"start_time"`
	End         string    `json:"end_time"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService orchestrates the slot-allocation engine: overlap-checked
// creation, the status lifecycle, and paginated queries.
type BookingService struct {
	bookings bookingDomain.Repository
	grounds  groundDomain.Repository
	pricing  bookingDomain.PricingStrategy
	producer EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	grounds groundDomain.Repository,
	pricing bookingDomain.PricingStrategy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		grounds:  grounds,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking reserves [start, end) on a ground for the given date. The
// availability check and the insert run as one serialized unit at the store
// boundary, so two concurrent requests for overlapping slots cannot both
// succeed. A store-level conflict is reported as slot-unavailable since the
// outcome for the caller is the same.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	date, err := time.Parse(bookingDateLayout, req.Date)
	if err != nil {
		return nil, apperror.NewInvalidArgument(fmt.Sprintf("invalid booking date %q, want YYYY-MM-DD", req.Date))
	}
	if !req.Start.Valid() || !req.End.Valid() || !req.Start.Before(req.End) {
		return nil, apperror.NewInvalidInterval("start time must be before end time")
	}

	g, err := s.grounds.FindByID(ctx, req.GroundID)
	if err != nil {
		return nil, err
	}
	if !g.AllowsInterval(req.Start, req.End) {
		return nil, apperror.NewInvalidInterval(fmt.Sprintf(
			"slot %s-%s is outside opening hours %s-%s",
			req.Start, req.End, g.OpenTime, g.CloseTime))
	}

	amount, err := s.pricing.Calculate(g.PriceCentsPerHour, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(userID, req.GroundID, date, req.Start, req.End, amount)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Insert(ctx, bk); err != nil {
		if apperror.Is(err, apperror.CodeConflict) {
			return nil, apperror.NewSlotUnavailable("the selected time slot is already booked")
		}
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability reports whether [start, end) is free on the ground for
// the given date. Only pending and confirmed bookings block a slot.
func (s *BookingService) CheckAvailability(ctx context.Context, groundID int64, date time.Time, start, end bookingDomain.TimeOfDay) (bool, error) {
	if !start.Valid() || !end.Valid() || !start.Before(end) {
		return false, apperror.NewInvalidInterval("start time must be before end time")
	}

	overlapping, err := s.bookings.FindOverlapping(ctx, groundID, date, start, end, bookingDomain.ActiveStatuses)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// ChangeStatus is the single entry point for all status transitions. The
// transition table in the domain decides legality; ownership and elapsed-time
// guards run inside the store's read-modify-write transaction so they always
// see current persisted state.
func (s *BookingService) ChangeStatus(ctx context.Context, bookingID int64, requesterID uuid.UUID, target bookingDomain.Status) (*BookingDTO, error) {
	if !target.IsValid() || target == bookingDomain.StatusPending {
		return nil, apperror.NewInvalidTransition("any", string(target))
	}

	bk, err := s.bookings.Update(ctx, bookingID, func(b *bookingDomain.Booking) error {
		switch target {
		case bookingDomain.StatusConfirmed:
			return b.Confirm()
		case bookingDomain.StatusCancelled:
			return b.Cancel(requesterID)
		case bookingDomain.StatusCompleted:
			return b.Complete(s.now())
		default:
			return apperror.NewInvalidTransition(string(b.Status()), string(target))
		}
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, eventTypeFor(target), bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookingsForUser retrieves a user's bookings, newest booking date first.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*pagination.Result[BookingDTO], error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	bookings, total, err := s.bookings.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(toBookingDTOs(bookings), total, page, pageSize)
	return &result, nil
}

// ListBookingsForGround retrieves a ground's bookings, newest booking date first.
func (s *BookingService) ListBookingsForGround(ctx context.Context, groundID int64, page, pageSize int) (*pagination.Result[BookingDTO], error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	bookings, total, err := s.bookings.ListByGround(ctx, groundID, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(toBookingDTOs(bookings), total, page, pageSize)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, pageSize int) ([]BookingDTO, int64, error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, 0, err
	}

	bookings, total, err := s.bookings.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func validatePagination(page, pageSize int) error {
	if page < 1 || pageSize < 1 {
		return apperror.NewInvalidArgument("page and pageSize must be greater than 0")
	}
	return nil
}

func eventTypeFor(target bookingDomain.Status) string {
	switch target {
	case bookingDomain.StatusConfirmed:
		return events.BookingConfirmed
	case bookingDomain.StatusCancelled:
		return events.BookingCancelled
	default:
		return events.BookingCompleted
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		UserID:      bk.UserID(),
		GroundID:    bk.GroundID(),
		Date:        bk.Date().Format(bookingDateLayout),
		Start:       bk.Start().String(),
		End:         bk.End().String(),
		Status:      string(bk.Status()),
		AmountCents: bk.AmountCents(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.BookingEvent{
		BookingID:   bk.ID(),
		UserID:      bk.UserID(),
		GroundID:    bk.GroundID(),
		BookingDate: bk.Date().Format(bookingDateLayout),
		StartTime:   bk.Start().String(),
		EndTime:     bk.End().String(),
		Status:      string(bk.Status()),
		AmountCents: bk.AmountCents(),
		OccurredAt:  time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
