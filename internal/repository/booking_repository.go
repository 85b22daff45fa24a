package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// pgExclusionViolation is raised by the bookings_no_overlap constraint when
// two inserts race past the row lock.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	GroundID     int64     `gorm:"index:idx_bookings_ground_date;not null"`
	BookingDate  time.Time `gorm:"type:date;index:idx_bookings_ground_date;not null"`
	StartMinutes int       `gorm:"not null"`
	EndMinutes   int       `gorm:"not null"`
	Status       string    `gorm:"not null;size:20;index"`
	AmountCents  int64     `gorm:"not null"`
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository. The create path serializes per (ground, date) so the overlap
// check and the insert act as one unit under concurrency.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Insert persists a new booking unless an active booking overlaps its slot.
// Candidate overlapping rows are locked FOR UPDATE inside the transaction,
// forcing concurrent inserts for the same (ground, date) to queue behind
// each other; the loser observes the winner's row and gets a conflict.
func (r *GormBookingRepository) Insert(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing BookingModel
		err := tx.Model(&BookingModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ground_id = ? AND booking_date = ? AND status IN ?",
				model.GroundID, model.BookingDate, statusStrings(bookingDomain.ActiveStatuses)).
			Where("start_minutes < ? AND end_minutes > ?", model.EndMinutes, model.StartMinutes).
			Take(&existing).Error

		if err == nil {
			return apperror.NewConflict("an active booking overlaps the requested slot")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for overlapping bookings: %w", err)
		}

		return tx.Create(&model).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return apperror.NewConflict("an active booking overlaps the requested slot").WithCause(err)
		}
		return err
	}

	*bk = *toDomainBooking(&model)
	return nil
}

// FindByID retrieves a booking by its store-assigned identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("booking", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindOverlapping returns bookings on (groundID, date) in any of the given
// statuses intersecting the half-open candidate interval.
func (r *GormBookingRepository) FindOverlapping(
	ctx context.Context,
	groundID int64,
	date time.Time,
	start, end bookingDomain.TimeOfDay,
	statuses []bookingDomain.Status,
) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("ground_id = ? AND booking_date = ? AND status IN ?",
			groundID, bookingDomain.NormalizeDate(date), statusStrings(statuses)).
		Where("start_minutes < ? AND end_minutes > ?", int(end), int(start)).
		Order("start_minutes ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return toDomainBookings(models), nil
}

// Update locks the booking row, applies mutate against its persisted state,
// and saves the result. The mutator's typed errors pass through unchanged.
func (r *GormBookingRepository) Update(ctx context.Context, id int64, mutate func(*bookingDomain.Booking) error) (*bookingDomain.Booking, error) {
	var updated *bookingDomain.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("booking", fmt.Sprintf("%d", id))
			}
			return fmt.Errorf("failed to load booking for update: %w", err)
		}

		bk := toDomainBooking(&model)
		if err := mutate(bk); err != nil {
			return err
		}
		bk.IncrementVersion()

		model = toBookingModel(bk)
		if err := tx.Model(&BookingModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     model.Status,
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		updated = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListByUser retrieves a user's bookings ordered by booking date descending,
// ties broken by ID descending.
func (r *GormBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(ctx, page, pageSize, "user_id = ?", userID)
}

// ListByGround retrieves a ground's bookings with the same ordering.
func (r *GormBookingRepository) ListByGround(ctx context.Context, groundID int64, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(ctx, page, pageSize, "ground_id = ?", groundID)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, pageSize int) ([]*bookingDomain.Booking, int64, error) {
	return r.list(ctx, page, pageSize, "")
}

func (r *GormBookingRepository) list(ctx context.Context, page, pageSize int, cond string, args ...interface{}) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if cond != "" {
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * pageSize
	if err := query.
		Order("booking_date DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models), total, nil
}

// FindDueForCompletion returns confirmed bookings whose slot elapsed at or
// before now, oldest first.
func (r *GormBookingRepository) FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Where("booking_date + make_interval(mins => end_minutes) <= ?", now.UTC()).
		Order("booking_date ASC, id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due bookings: %w", err)
	}
	return toDomainBookings(models), nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion helpers ---

func statusStrings(statuses []bookingDomain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func toBookingModel(bk *bookingDomain.Booking) BookingModel {
	return BookingModel{
		ID:           bk.ID(),
		UserID:       bk.UserID(),
		GroundID:     bk.GroundID(),
		BookingDate:  bk.Date(),
		StartMinutes: int(bk.Start()),
		EndMinutes:   int(bk.End()),
		Status:       string(bk.Status()),
		AmountCents:  bk.AmountCents(),
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID,
		m.UserID,
		m.GroundID,
		m.BookingDate,
		bookingDomain.TimeOfDay(m.StartMinutes),
		bookingDomain.TimeOfDay(m.EndMinutes),
		bookingDomain.Status(m.Status),
		m.AmountCents,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings
}
