package services

import (
	"time"
)

// Tax and service charge rates applied on top of the nightly subtotal
const (
	TaxRate     = 0.10
	ServiceRate = 0.11
)

// PriceBreakdown holds the priced totals computed once at booking time.
// Values keep full precision; rounding happens only at display boundaries.
type PriceBreakdown struct {
	Nights        int     `json:"nights"`
	Subtotal      float64 `json:"subtotal"`
	TaxAmount     float64 `json:"tax_amount"`
	ServiceCharge float64 `json:"service_charge"`
	TotalPrice    float64 `json:"total_price"`
}

// CalculatePrice computes the priced breakdown for a stay. Pure: its only
// failure mode is input validation.
func CalculatePrice(nightlyRate float64, checkIn, checkOut time.Time) (*PriceBreakdown, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}

	subtotal := nightlyRate * float64(nights)
	tax := subtotal * TaxRate
	service := subtotal * ServiceRate

	return &PriceBreakdown{
		Nights:        nights,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		ServiceCharge: service,
		TotalPrice:    subtotal + tax + service,
	}, nil
}
