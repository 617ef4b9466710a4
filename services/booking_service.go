package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"hotel-booking-server/models"
)

// LedgerEffect is the inventory side effect tied to a booking transition
type LedgerEffect int

const (
	EffectNone LedgerEffect = iota
	EffectRelease
	EffectRefreshListed
)

// transitions is the legal transition table. Bookings are created directly in
// waiting_payment, so there is no entry for creation. Cancelled, completed and
// expired are terminal.
var transitions = map[models.BookingStatus]map[models.BookingStatus]LedgerEffect{
	models.BookingStatusPending: {
		models.BookingStatusWaitingPayment: EffectNone,
		models.BookingStatusCancelled:      EffectRelease,
	},
	models.BookingStatusWaitingPayment: {
		models.BookingStatusConfirmed: EffectRefreshListed, // unit stays held through the stay
		models.BookingStatusCancelled: EffectRelease,
		models.BookingStatusExpired:   EffectRelease,
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCancelled: EffectRelease,
		models.BookingStatusCompleted: EffectRelease, // unit returns to the pool after stay ends
	},
}

// CanTransition reports whether from -> to is a legal booking transition
func CanTransition(from, to models.BookingStatus) bool {
	targets, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// LedgerEffectFor returns the inventory effect of a legal transition
func LedgerEffectFor(from, to models.BookingStatus) LedgerEffect {
	if targets, ok := transitions[from]; ok {
		if effect, ok := targets[to]; ok {
			return effect
		}
	}
	return EffectNone
}

// BookingService owns booking status and its inventory side effects
type BookingService struct {
	inventory *InventoryService
}

func NewBookingService(inventory *InventoryService) *BookingService {
	return &BookingService{inventory: inventory}
}

// TransitionOptions carries the optional fields written alongside a transition
type TransitionOptions struct {
	PaymentStatus      models.BookingPaymentStatus // empty leaves payment_status untouched
	AdminNotes         string
	CancellationReason string
	Now                time.Time
}

// Transition moves a booking to a new status and applies the inventory effect,
// all within the caller's transaction. The status column is updated with the
// previous status as a guard, so a concurrent transition (two requests racing
// on the same expired booking, say) affects zero rows and fails with
// ErrInvalidTransition instead of releasing inventory twice.
func (s *BookingService) Transition(tx *gorm.DB, booking *models.Booking, to models.BookingStatus, opts TransitionOptions) error {
	from := booking.Status
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if opts.PaymentStatus != "" {
		updates["payment_status"] = opts.PaymentStatus
	}
	if opts.AdminNotes != "" {
		updates["admin_notes"] = opts.AdminNotes
	}
	if to == models.BookingStatusCancelled {
		updates["cancelled_at"] = now
		if opts.CancellationReason != "" {
			updates["cancellation_reason"] = opts.CancellationReason
		}
	}

	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else moved the booking first
		return ErrInvalidTransition
	}

	switch LedgerEffectFor(from, to) {
	case EffectRelease:
		if _, err := s.inventory.Release(tx, booking.RoomID); err != nil {
			return err
		}
	case EffectRefreshListed:
		if err := s.inventory.RefreshListed(tx, booking.RoomID); err != nil {
			return err
		}
	}

	booking.Status = to
	booking.UpdatedAt = now
	if opts.PaymentStatus != "" {
		booking.PaymentStatus = opts.PaymentStatus
	}
	if to == models.BookingStatusCancelled {
		booking.CancelledAt = &now
		if opts.CancellationReason != "" {
			booking.CancellationReason = &opts.CancellationReason
		}
	}

	log.Printf("🔄 Booking %d (%s): %s → %s", booking.ID, booking.BookingCode, from, to)
	return nil
}
