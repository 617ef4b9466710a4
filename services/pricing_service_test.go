package services

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestCalculatePrice(t *testing.T) {
	breakdown, err := CalculatePrice(500000, date(2024, 3, 15), date(2024, 3, 18))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if breakdown.Nights != 3 {
		t.Errorf("nights = %d, want 3", breakdown.Nights)
	}
	if !almostEqual(breakdown.Subtotal, 1500000) {
		t.Errorf("subtotal = %f, want 1500000", breakdown.Subtotal)
	}
	if !almostEqual(breakdown.TaxAmount, 150000) {
		t.Errorf("tax = %f, want 150000", breakdown.TaxAmount)
	}
	if !almostEqual(breakdown.ServiceCharge, 165000) {
		t.Errorf("service charge = %f, want 165000", breakdown.ServiceCharge)
	}
	if !almostEqual(breakdown.TotalPrice, 1815000) {
		t.Errorf("total = %f, want 1815000", breakdown.TotalPrice)
	}
}

func TestCalculatePriceSingleNight(t *testing.T) {
	breakdown, err := CalculatePrice(350000, date(2024, 6, 1), date(2024, 6, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.Nights != 1 {
		t.Errorf("nights = %d, want 1", breakdown.Nights)
	}
	if !almostEqual(breakdown.TotalPrice, 350000*1.21) {
		t.Errorf("total = %f, want %f", breakdown.TotalPrice, 350000*1.21)
	}
}

func TestCalculatePriceInvalidRange(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"same day", date(2024, 3, 15), date(2024, 3, 15)},
		{"checkout before checkin", date(2024, 3, 18), date(2024, 3, 15)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculatePrice(500000, tc.checkIn, tc.checkOut)
			if !errors.Is(err, ErrInvalidDateRange) {
				t.Errorf("err = %v, want ErrInvalidDateRange", err)
			}
		})
	}
}
