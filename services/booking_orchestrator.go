package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-server/models"
	"hotel-booking-server/storage"
	"hotel-booking-server/utils"
)

const bookingCodeRetries = 5

// uniqueViolation is the Postgres error code raised on a booking-code collision
const uniqueViolation = "23505"

// BookingOrchestrator composes pricing, inventory, booking and payment into
// the externally visible workflows. Every multi-row flow runs in a single
// transaction: either all rows update or none do.
type BookingOrchestrator struct {
	db         *gorm.DB
	inventory  *InventoryService
	bookings   *BookingService
	payments   *PaymentService
	store      storage.Store
	codePrefix string
	holdWindow time.Duration
}

func NewBookingOrchestrator(db *gorm.DB, inventory *InventoryService, bookings *BookingService,
	payments *PaymentService, store storage.Store, codePrefix string, holdWindow time.Duration) *BookingOrchestrator {
	return &BookingOrchestrator{
		db:         db,
		inventory:  inventory,
		bookings:   bookings,
		payments:   payments,
		store:      store,
		codePrefix: codePrefix,
		holdWindow: holdWindow,
	}
}

// CreateBookingInput is the request payload for a new booking
type CreateBookingInput struct {
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	GuestCountry    string
}

// CreateBooking reserves a unit, prices the stay, and creates the booking with
// its pending payment shell — all or nothing. The unit is never left
// decremented when any later step fails.
func (o *BookingOrchestrator) CreateBooking(userID uint, in CreateBookingInput) (*models.Booking, error) {
	if in.Guests < 1 {
		in.Guests = 1
	}
	if in.GuestCountry == "" {
		in.GuestCountry = "Indonesia"
	}

	var booking *models.Booking
	err := o.db.Transaction(func(tx *gorm.DB) error {
		room, err := o.inventory.Reserve(tx, in.RoomID)
		if err != nil {
			return err
		}

		if in.Guests > room.Capacity {
			return ErrCapacityExceeded
		}

		breakdown, err := CalculatePrice(room.Price, in.CheckIn, in.CheckOut)
		if err != nil {
			return err
		}

		booking = &models.Booking{
			UserID:          userID,
			RoomID:          room.ID,
			CheckIn:         in.CheckIn,
			CheckOut:        in.CheckOut,
			Guests:          in.Guests,
			Subtotal:        breakdown.Subtotal,
			TaxAmount:       breakdown.TaxAmount,
			ServiceCharge:   breakdown.ServiceCharge,
			TotalPrice:      breakdown.TotalPrice,
			Status:          models.BookingStatusWaitingPayment,
			PaymentStatus:   models.BookingPaymentPending,
			SpecialRequests: in.SpecialRequests,
			GuestName:       in.GuestName,
			GuestEmail:      in.GuestEmail,
			GuestPhone:      in.GuestPhone,
			GuestCountry:    in.GuestCountry,
		}

		if err := o.createWithUniqueCode(tx, booking); err != nil {
			return err
		}

		if _, err := o.payments.CreateShell(tx, booking, o.holdWindow); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏨 Booking %s created for room %d, total %.2f", booking.BookingCode, booking.RoomID, booking.TotalPrice)
	return booking, nil
}

// createWithUniqueCode inserts the booking, regenerating the code on a unique
// violation instead of failing the whole workflow. Each attempt runs inside a
// savepoint: Postgres aborts the surrounding transaction on any error, so the
// failed insert must be rolled back before the retry can execute.
func (o *BookingOrchestrator) createWithUniqueCode(tx *gorm.DB, booking *models.Booking) error {
	var lastErr error
	for attempt := 0; attempt < bookingCodeRetries; attempt++ {
		booking.BookingCode = utils.GenerateBookingCode(o.codePrefix)

		sp := fmt.Sprintf("sp_booking_code_%d", attempt)
		if err := tx.SavePoint(sp).Error; err != nil {
			return err
		}

		err := tx.Create(booking).Error
		if err == nil {
			return nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			if err := tx.RollbackTo(sp).Error; err != nil {
				return err
			}
			log.Printf("⚠️ Booking code %s collided, regenerating", booking.BookingCode)
			booking.ID = 0
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}

// SubmitPayment validates and stores a proof file, then attaches it to the
// booking's payment in one transaction. The booking stays in waiting_payment;
// only the payment moves to processing. If the database step fails after the
// file was persisted, the file is deleted as compensation so no orphan is
// left behind.
func (o *BookingOrchestrator) SubmitPayment(ctx context.Context, userID, bookingID uint, method models.PaymentMethod, filename string, size int64, file io.Reader) (*models.Payment, error) {
	if !models.IsValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}
	if err := ValidateProofFile(filename, size); err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := o.db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	var payment models.Payment
	if err := o.db.Where("booking_id = ?", booking.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// Gate before touching storage so a rejected submission writes nothing
	if _, err := proofUploadAllowed(&payment, &booking); err != nil {
		return nil, err
	}

	fileRef, err := o.store.Save(ctx, file, filename)
	if err != nil {
		return nil, StorageFailure(err)
	}

	var oldRef *string
	err = o.db.Transaction(func(tx *gorm.DB) error {
		// Re-read both rows under lock: an admin decision may have landed since
		// the gate above ran, and a finalized payment must stay finalized.
		var fresh models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fresh, payment.ID).Error; err != nil {
			return err
		}
		var freshBooking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&freshBooking, booking.ID).Error; err != nil {
			return err
		}
		oldRef = fresh.ProofRef

		if _, err := o.payments.AttachProof(tx, &fresh, &freshBooking, fileRef, method, o.holdWindow); err != nil {
			return err
		}
		payment = fresh
		return nil
	})
	if err != nil {
		// The file made it to storage but the rows did not update
		if delErr := o.store.Delete(ctx, fileRef); delErr != nil {
			log.Printf("❌ Failed to clean up orphaned proof %s: %v", fileRef, delErr)
		}
		return nil, err
	}

	// Replaced proofs are unreferenced now; best-effort removal
	if oldRef != nil && *oldRef != fileRef {
		if delErr := o.store.Delete(ctx, *oldRef); delErr != nil {
			log.Printf("⚠️ Failed to remove replaced proof %s: %v", *oldRef, delErr)
		}
	}

	return &payment, nil
}

// DecidePayment finalizes a payment and drives the matching booking transition
// with its inventory effect, committed together or rolled back together.
// Verify: payment completed, booking confirmed, unit stays held. Reject:
// payment failed, booking cancelled, unit released.
func (o *BookingOrchestrator) DecidePayment(paymentID uint, action DecideAction, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := o.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if err := tx.First(&booking, payment.BookingID).Error; err != nil {
			return err
		}

		newStatus, err := o.payments.Decide(tx, &payment, action, reason)
		if err != nil {
			return err
		}

		switch newStatus {
		case models.PaymentStatusCompleted:
			return o.bookings.Transition(tx, &booking, models.BookingStatusConfirmed, TransitionOptions{
				PaymentStatus: models.BookingPaymentPaid,
				AdminNotes:    reason,
			})
		case models.PaymentStatusFailed:
			return o.bookings.Transition(tx, &booking, models.BookingStatusCancelled, TransitionOptions{
				PaymentStatus:      models.BookingPaymentFailed,
				CancellationReason: reason,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking cancels a booking and releases its unit. Users may cancel
// their own pending or waiting_payment bookings; admins may also cancel
// confirmed ones.
func (o *BookingOrchestrator) CancelBooking(bookingID uint, userID uint, byAdmin bool, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := o.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", bookingID)
		if !byAdmin {
			q = q.Where("user_id = ?", userID)
		}
		if err := q.First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !byAdmin && booking.Status == models.BookingStatusConfirmed {
			return ErrInvalidTransition
		}

		if err := o.bookings.Transition(tx, &booking, models.BookingStatusCancelled, TransitionOptions{
			PaymentStatus:      models.BookingPaymentCancelled,
			CancellationReason: reason,
		}); err != nil {
			return err
		}

		// A not-yet-decided payment fails along with the booking
		return tx.Model(&models.Payment{}).
			Where("booking_id = ? AND status IN ?", booking.ID,
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusProcessing}).
			Update("status", models.PaymentStatusFailed).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CompleteBooking marks a confirmed stay as finished, returning the unit to
// the pool.
func (o *BookingOrchestrator) CompleteBooking(bookingID uint, notes string) (*models.Booking, error) {
	var booking models.Booking
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		return o.bookings.Transition(tx, &booking, models.BookingStatusCompleted, TransitionOptions{
			AdminNotes: notes,
		})
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
