package services

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"hotel-booking-server/models"
)

// MaxProofFileSize caps uploaded payment proofs at 5 MiB
const MaxProofFileSize = 5 * 1024 * 1024

var allowedProofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// ValidateProofFile checks a proof upload before anything is written anywhere
func ValidateProofFile(filename string, size int64) error {
	if size <= 0 || size > MaxProofFileSize {
		return ErrInvalidProofFile
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedProofExtensions[ext] {
		return ErrInvalidProofFile
	}
	return nil
}

// PaymentService owns the one-per-booking payment record
type PaymentService struct{}

func NewPaymentService() *PaymentService {
	return &PaymentService{}
}

// CreateShell inserts the pending payment created alongside a booking. The
// amount must equal the booking total; the expiration starts the hold window.
func (s *PaymentService) CreateShell(tx *gorm.DB, booking *models.Booking, holdWindow time.Duration) (*models.Payment, error) {
	var existing models.Payment
	err := tx.Where("booking_id = ?", booking.ID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicatePayment
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:      booking.ID,
		Amount:         booking.TotalPrice,
		Status:         models.PaymentStatusPending,
		ExpirationDate: time.Now().Add(holdWindow),
	}
	if err := tx.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// proofUploadAllowed gates a proof submission against the current payment and
// booking state. Returns whether this replaces a proof already under review.
func proofUploadAllowed(payment *models.Payment, booking *models.Booking) (replacing bool, err error) {
	if payment.Status == models.PaymentStatusCompleted {
		return false, ErrPaymentAlreadyFinal
	}
	if booking.Status == models.BookingStatusConfirmed || booking.Status == models.BookingStatusCompleted {
		return false, ErrPaymentAlreadyFinal
	}

	switch payment.Status {
	case models.PaymentStatusPending, models.PaymentStatusFailed, models.PaymentStatusExpired:
		return false, nil // re-submission allowed
	case models.PaymentStatusProcessing:
		return true, nil // new proof replaces the one under review
	default:
		return false, ErrPaymentAlreadyFinal
	}
}

// AttachProof stores the proof reference and method on the payment, moves it
// to processing and refreshes the expiration. The file itself must already be
// validated and persisted; compensation for a failed write here is the
// caller's job.
func (s *PaymentService) AttachProof(tx *gorm.DB, payment *models.Payment, booking *models.Booking, fileRef string, method models.PaymentMethod, holdWindow time.Duration) (replaced bool, err error) {
	if !models.IsValidPaymentMethod(method) {
		return false, ErrInvalidPaymentMethod
	}

	replacing, err := proofUploadAllowed(payment, booking)
	if err != nil {
		return false, err
	}
	if replacing {
		log.Printf("⚠️ Payment %d already has a proof under review, replacing it", payment.ID)
	}

	now := time.Now()
	expiration := now.Add(holdWindow)

	// The status predicate guards against a verify/reject committed between the
	// caller's read and this write; zero rows means the payment went final and
	// must not be demoted back to processing.
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", payment.ID, []models.PaymentStatus{
			models.PaymentStatusPending,
			models.PaymentStatusProcessing,
			models.PaymentStatusFailed,
			models.PaymentStatusExpired,
		}).
		Updates(map[string]interface{}{
			"status":          models.PaymentStatusProcessing,
			"method":          method,
			"proof_ref":       fileRef,
			"expiration_date": expiration,
			"updated_at":      now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, ErrPaymentAlreadyFinal
	}

	payment.Status = models.PaymentStatusProcessing
	payment.Method = method
	payment.ProofRef = &fileRef
	payment.ExpirationDate = expiration
	payment.UpdatedAt = now

	return replacing, nil
}

// DecideAction is an admin verdict on a submitted payment
type DecideAction string

const (
	ActionVerify DecideAction = "verify"
	ActionReject DecideAction = "reject"
)

// Decide finalizes a payment. Verify completes it, reject fails it. The caller
// drives the booking transition in the same transaction using the returned
// status.
func (s *PaymentService) Decide(tx *gorm.DB, payment *models.Payment, action DecideAction, reason string) (models.PaymentStatus, error) {
	if payment.IsDecided() {
		return payment.Status, ErrAlreadyDecided
	}

	var newStatus models.PaymentStatus
	switch action {
	case ActionVerify:
		newStatus = models.PaymentStatusCompleted
	case ActionReject:
		newStatus = models.PaymentStatusFailed
	default:
		return payment.Status, &DomainError{Kind: KindValidation, Code: "invalid_action", Message: "action must be verify or reject"}
	}

	now := time.Now()
	if err := tx.Model(payment).
		Updates(map[string]interface{}{
			"status":       newStatus,
			"admin_notes":  reason,
			"processed_at": now,
			"updated_at":   now,
		}).Error; err != nil {
		return payment.Status, err
	}

	payment.Status = newStatus
	payment.AdminNotes = reason
	payment.ProcessedAt = &now
	payment.UpdatedAt = now

	log.Printf("✅ Payment %d decided: %s (%s)", payment.ID, action, newStatus)
	return newStatus, nil
}

// Expire moves a pending or processing payment to expired. Guarded on the
// current status so concurrent sweeps cannot both act.
func (s *PaymentService) Expire(tx *gorm.DB, paymentID uint) error {
	res := tx.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", paymentID,
			[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusProcessing}).
		Updates(map[string]interface{}{
			"status":     models.PaymentStatusExpired,
			"updated_at": time.Now(),
		})
	return res.Error
}
