package booking

import (
	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// PricingStrategy computes a booking total from a ground's hourly rate and
// the requested slot.
type PricingStrategy interface {
	// Calculate returns the total in currency minor units.
	Calculate(priceCentsPerHour int64, start, end TimeOfDay) (int64, error)
}

// HourlyPricingStrategy prices a slot as rate × duration with half-up
// rounding to the minor unit.
type HourlyPricingStrategy struct{}

// NewHourlyPricingStrategy creates the standard hourly pricing strategy.
func NewHourlyPricingStrategy() *HourlyPricingStrategy {
	return &HourlyPricingStrategy{}
}

// Calculate computes priceCentsPerHour × (end − start) in hours. Partial
// hours are billed pro rata; the result rounds half-up to whole cents.
func (s *HourlyPricingStrategy) Calculate(priceCentsPerHour int64, start, end TimeOfDay) (int64, error) {
	if priceCentsPerHour < 0 {
		return 0, apperror.NewInvalidArgument("price per hour cannot be negative")
	}
	if !start.Before(end) {
		return 0, apperror.NewInvalidInterval("start time must be before end time")
	}

	minutes := int64(end.Sub(start))
	// round-half-up of priceCentsPerHour * minutes / 60
	return (priceCentsPerHour*minutes + 30) / 60, nil
}
