package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	groundDomain "github.com/groundhub/service-booking/internal/domain/ground"
	"github.com/groundhub/service-booking/internal/pkg/pagination"
)

// CreateGroundRequest holds the data needed to list a new ground.
type CreateGroundRequest struct {
	Name              string                  `json:"name" binding:"required"`
	Location          string                  `json:"location"`
	PriceCentsPerHour int64                   `json:"price_cents_per_hour" binding:"required"`
	OpenTime          bookingDomain.TimeOfDay `json:"open_time"`
	CloseTime         bookingDomain.TimeOfDay `json:"close_time"`
}

// GroundService manages the ground collaborator records the booking engine
// reads for validation and pricing.
type GroundService struct {
	grounds groundDomain.Repository
	logger  *zap.Logger
}

// NewGroundService creates a new GroundService.
func NewGroundService(grounds groundDomain.Repository, logger *zap.Logger) *GroundService {
	return &GroundService{grounds: grounds, logger: logger}
}

// CreateGround lists a new ground owned by the given user.
func (s *GroundService) CreateGround(ctx context.Context, ownerID uuid.UUID, req CreateGroundRequest) (*groundDomain.Ground, error) {
	g, err := groundDomain.New(ownerID, req.Name, req.Location, req.PriceCentsPerHour, req.OpenTime, req.CloseTime)
	if err != nil {
		return nil, err
	}

	if err := s.grounds.Insert(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info("ground created",
		zap.Int64("ground_id", g.ID),
		zap.String("name", g.Name),
	)
	return g, nil
}

// GetGround retrieves a ground by ID.
func (s *GroundService) GetGround(ctx context.Context, id int64) (*groundDomain.Ground, error) {
	return s.grounds.FindByID(ctx, id)
}

// ListGrounds retrieves grounds, newest first.
func (s *GroundService) ListGrounds(ctx context.Context, page, pageSize int) (*pagination.Result[*groundDomain.Ground], error) {
	if err := validatePagination(page, pageSize); err != nil {
		return nil, err
	}

	grounds, total, err := s.grounds.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(grounds, total, page, pageSize)
	return &result, nil
}
