package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/groundhub/service-booking/internal/application"
	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
	"github.com/groundhub/service-booking/internal/pkg/events"
	"github.com/groundhub/service-booking/internal/pkg/kafka"
)

// PaymentEventConsumer listens to payment events and confirms the matching
// pending booking once funds are captured.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentCaptured:
		return c.handlePaymentCaptured(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCaptured(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentCapturedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCapturedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment captured event",
		zap.Int64("booking_id", evt.BookingID),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	_, err := c.service.ChangeStatus(ctx, evt.BookingID, uuid.Nil, bookingDomain.StatusConfirmed)
	if err != nil {
		// A replayed event meets an already-confirmed booking; skip it.
		if apperror.Is(err, apperror.CodeInvalidTransition) {
			c.logger.Warn("booking not confirmable, skipping payment event",
				zap.Int64("booking_id", evt.BookingID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to confirm booking after payment capture",
			zap.Int64("booking_id", evt.BookingID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking confirmed after payment capture",
		zap.Int64("booking_id", evt.BookingID),
	)
	return nil
}
