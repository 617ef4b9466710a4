package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusExpired    PaymentStatus = "expired"
)

type PaymentMethod string

const (
	MethodQRIS         PaymentMethod = "qris"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodOVO          PaymentMethod = "ovo"
	MethodGoPay        PaymentMethod = "gopay"
	MethodDana         PaymentMethod = "dana"
)

// IsValidPaymentMethod reports whether m is one of the accepted methods.
// The set is closed; anything else is rejected.
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodQRIS, MethodBankTransfer, MethodCreditCard, MethodOVO, MethodGoPay, MethodDana:
		return true
	default:
		return false
	}
}

type Payment struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	BookingID      uint          `json:"booking_id" gorm:"uniqueIndex;not null"`
	Amount         float64       `json:"amount" gorm:"type:decimal(14,2);not null"` // equals booking total at creation
	Method         PaymentMethod `json:"method" gorm:"type:varchar(20);default:'qris'"`
	Status         PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','processing','completed','failed','expired')"`
	ProofRef       *string       `json:"proof_ref" gorm:"size:512"` // opaque file-storage reference
	ExpirationDate time.Time     `json:"expiration_date" gorm:"not null"`
	AdminNotes     string        `json:"admin_notes" gorm:"size:1000"`
	ProcessedAt    *time.Time    `json:"processed_at"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// IsDecided reports whether an admin has already verified or rejected this payment
func (p *Payment) IsDecided() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
