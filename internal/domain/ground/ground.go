package ground

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// Ground is a bookable venue. The booking engine reads it for interval
// validation and pricing; ownership and richer venue management live in
// the venues service.
type Ground struct {
	ID                int64                   `json:"id"`
	OwnerID           uuid.UUID               `json:"owner_id"`
	Name              string                  `json:"name"`
	Location          string                  `json:"location"`
	PriceCentsPerHour int64                   `json:"price_cents_per_hour"`
	OpenTime          bookingDomain.TimeOfDay `json:"open_time"`
	CloseTime         bookingDomain.TimeOfDay `json:"close_time"`
	CreatedAt         time.Time               `json:"created_at"`
}

// New validates and builds a Ground.
func New(ownerID uuid.UUID, name, location string, priceCentsPerHour int64, open, close bookingDomain.TimeOfDay) (*Ground, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.NewInvalidArgument("owner ID is required")
	}
	if name == "" {
		return nil, apperror.NewInvalidArgument("ground name is required")
	}
	if priceCentsPerHour < 0 {
		return nil, apperror.NewInvalidArgument("price per hour cannot be negative")
	}
	if !open.Valid() || !close.Valid() || !open.Before(close) {
		return nil, apperror.NewInvalidInterval("open time must be before close time")
	}

	return &Ground{
		OwnerID:           ownerID,
		Name:              name,
		Location:          location,
		PriceCentsPerHour: priceCentsPerHour,
		OpenTime:          open,
		CloseTime:         close,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// AllowsInterval reports whether [start, end) falls inside opening hours.
func (g *Ground) AllowsInterval(start, end bookingDomain.TimeOfDay) bool {
	return start >= g.OpenTime && end <= g.CloseTime
}
