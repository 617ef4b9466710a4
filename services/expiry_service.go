package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"hotel-booking-server/models"
)

// ExpirySweeper lapses bookings that outlived their hold window. It runs
// opportunistically whenever a waiting_payment booking is read, and the same
// guarded logic backs the periodic job, so sweeping twice is harmless: the
// status guard inside BookingService.Transition makes the release exactly-once.
type ExpirySweeper struct {
	bookings   *BookingService
	payments   *PaymentService
	holdWindow time.Duration
	onExpired  func(*models.Booking)
}

func NewExpirySweeper(bookings *BookingService, payments *PaymentService, holdWindow time.Duration) *ExpirySweeper {
	return &ExpirySweeper{bookings: bookings, payments: payments, holdWindow: holdWindow}
}

// OnExpired registers a hook fired once per booking this sweeper expires,
// after the expiry transaction commits. Used to push booking_expired events.
func (s *ExpirySweeper) OnExpired(fn func(*models.Booking)) {
	s.onExpired = fn
}

// HoldWindow returns the configured unpaid-booking hold window
func (s *ExpirySweeper) HoldWindow() time.Duration {
	return s.holdWindow
}

// Due reports whether the booking's hold window has elapsed
func (s *ExpirySweeper) Due(booking *models.Booking, now time.Time) bool {
	return booking.Status == models.BookingStatusWaitingPayment &&
		!now.Before(booking.HoldExpiresAt(s.holdWindow))
}

// SweepBooking expires one overdue booking: booking → expired, its payment →
// expired when still pending/processing, and the room unit released. Returns
// true when this call performed the expiry. A booking whose payment was
// already completed is left alone.
func (s *ExpirySweeper) SweepBooking(db *gorm.DB, bookingID uint) (bool, error) {
	swept := false
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		now := time.Now()
		if !s.Due(&booking, now) {
			return nil
		}

		var payment models.Payment
		err := tx.Where("booking_id = ?", booking.ID).First(&payment).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasPayment := err == nil
		if hasPayment && payment.Status == models.PaymentStatusCompleted {
			return nil
		}

		if err := s.bookings.Transition(tx, &booking, models.BookingStatusExpired, TransitionOptions{
			PaymentStatus: models.BookingPaymentExpired,
			Now:           now,
		}); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				// A concurrent read already expired it
				return nil
			}
			return err
		}

		if hasPayment {
			if err := s.payments.Expire(tx, payment.ID); err != nil {
				return err
			}
		}

		swept = true
		return nil
	})
	if swept {
		log.Printf("⏰ Booking %d expired, unit released", bookingID)
		if s.onExpired != nil {
			s.onExpired(&booking)
		}
	}
	return swept, err
}

// SweepDue finds every booking past its hold window and expires each one.
// Used by the background job; failures on one booking do not stop the rest.
func (s *ExpirySweeper) SweepDue(db *gorm.DB) (int, error) {
	cutoff := time.Now().Add(-s.holdWindow)

	var due []models.Booking
	if err := db.Where("status = ? AND created_at <= ?",
		models.BookingStatusWaitingPayment, cutoff).Find(&due).Error; err != nil {
		return 0, err
	}

	swept := 0
	for _, booking := range due {
		ok, err := s.SweepBooking(db, booking.ID)
		if err != nil {
			log.Printf("❌ Failed to expire booking %d: %v", booking.ID, err)
			continue
		}
		if ok {
			swept++
		}
	}
	return swept, nil
}
