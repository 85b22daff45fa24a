package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	groundDomain "github.com/groundhub/service-booking/internal/domain/ground"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
	"github.com/groundhub/service-booking/internal/pkg/kafka"
)

// fakeBookingRepository keeps bookings in memory behind a mutex so the
// check-then-insert in Insert is serialized the same way the store's
// transaction serializes it.
type fakeBookingRepository struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*bookingDomain.Booking
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{
		nextID:   1,
		bookings: make(map[int64]*bookingDomain.Booking),
	}
}

func (r *fakeBookingRepository) Insert(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.GroundID() != b.GroundID() || !existing.Date().Equal(b.Date()) {
			continue
		}
		if existing.Status().Blocks() && existing.OverlapsSlot(b.Start(), b.End()) {
			return apperror.NewConflict("overlapping booking exists")
		}
	}

	stored := bookingDomain.Reconstruct(
		r.nextID, b.UserID(), b.GroundID(), b.Date(), b.Start(), b.End(),
		b.Status(), b.AmountCents(), b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	r.bookings[r.nextID] = stored
	*b = *stored
	r.nextID++
	return nil
}

func (r *fakeBookingRepository) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, apperror.NewNotFound("booking", fmt.Sprintf("%d", id))
	}
	return b, nil
}

func (r *fakeBookingRepository) FindOverlapping(_ context.Context, groundID int64, date time.Time, start, end bookingDomain.TimeOfDay, statuses []bookingDomain.Status) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := bookingDomain.NormalizeDate(date)
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.GroundID() != groundID || !b.Date().Equal(day) {
			continue
		}
		if !statusIn(b.Status(), statuses) || !b.OverlapsSlot(start, end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepository) Update(_ context.Context, id int64, mutate func(*bookingDomain.Booking) error) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, apperror.NewNotFound("booking", fmt.Sprintf("%d", id))
	}
	if err := mutate(b); err != nil {
		return nil, err
	}
	b.IncrementVersion()
	return b, nil
}

func (r *fakeBookingRepository) ListByUser(_ context.Context, userID uuid.UUID, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(func(b *bookingDomain.Booking) bool { return b.UserID() == userID }, page, pageSize)
}

func (r *fakeBookingRepository) ListByGround(_ context.Context, groundID int64, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(func(b *bookingDomain.Booking) bool { return b.GroundID() == groundID }, page, pageSize)
}

func (r *fakeBookingRepository) ListAll(_ context.Context, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(func(*bookingDomain.Booking) bool { return true }, page, pageSize)
}

func (r *fakeBookingRepository) list(match func(*bookingDomain.Booking) bool, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*bookingDomain.Booking
	for _, b := range r.bookings {
		if match(b) {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date().Equal(all[j].Date()) {
			return all[i].Date().After(all[j].Date())
		}
		return all[i].ID() > all[j].ID()
	})

	total := int64(len(all))
	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeBookingRepository) FindDueForCompletion(_ context.Context, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.Status() == bookingDomain.StatusConfirmed && b.EndsBy(now) {
			due = append(due, b)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID() < due[j].ID() })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeBookingRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int64)
	for _, b := range r.bookings {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func statusIn(s bookingDomain.Status, statuses []bookingDomain.Status) bool {
	for _, candidate := range statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// fakeGroundRepository keeps grounds in memory.
type fakeGroundRepository struct {
	mu      sync.Mutex
	nextID  int64
	grounds map[int64]*groundDomain.Ground
}

func newFakeGroundRepository() *fakeGroundRepository {
	return &fakeGroundRepository{
		nextID:  1,
		grounds: make(map[int64]*groundDomain.Ground),
	}
}

func (r *fakeGroundRepository) Insert(_ context.Context, g *groundDomain.Ground) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g.ID = r.nextID
	r.grounds[g.ID] = g
	r.nextID++
	return nil
}

func (r *fakeGroundRepository) FindByID(_ context.Context, id int64) (*groundDomain.Ground, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grounds[id]
	if !ok {
		return nil, apperror.NewNotFound("ground", fmt.Sprintf("%d", id))
	}
	return g, nil
}

func (r *fakeGroundRepository) List(_ context.Context, page, pageSize int) ([]*groundDomain.Ground, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*groundDomain.Ground
	for _, g := range r.grounds {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// fakePublisher records published events for assertions.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	topic string
	event kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
