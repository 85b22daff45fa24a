package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
)

const sweepBatchSize = 100

// CompletionSweeper periodically completes confirmed bookings whose slot has
// fully elapsed. The transition itself goes through the same lifecycle path
// as user-driven changes, so the state machine stays enforced in one place.
type CompletionSweeper struct {
	bookings bookingDomain.Repository
	service  *BookingService
	interval time.Duration
	logger   *zap.Logger
}

// NewCompletionSweeper creates a sweeper ticking at the given interval.
func NewCompletionSweeper(
	bookings bookingDomain.Repository,
	service *BookingService,
	interval time.Duration,
	logger *zap.Logger,
) *CompletionSweeper {
	return &CompletionSweeper{
		bookings: bookings,
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps until the context is cancelled.
func (s *CompletionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep completes one batch of elapsed confirmed bookings. A failure on one
// booking is logged and does not stop the rest of the batch.
func (s *CompletionSweeper) sweep(ctx context.Context) {
	due, err := s.bookings.FindDueForCompletion(ctx, time.Now().UTC(), sweepBatchSize)
	if err != nil {
		s.logger.Error("completion sweep query failed", zap.Error(err))
		return
	}

	for _, bk := range due {
		if _, err := s.service.ChangeStatus(ctx, bk.ID(), uuid.Nil, bookingDomain.StatusCompleted); err != nil {
			s.logger.Error("failed to complete elapsed booking",
				zap.Int64("booking_id", bk.ID()),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("booking completed by sweep", zap.Int64("booking_id", bk.ID()))
	}
}
