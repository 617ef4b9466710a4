package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusWaitingPayment BookingStatus = "waiting_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusExpired        BookingStatus = "expired"
)

// IsTerminal reports whether no further transitions may leave this status
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusExpired:
		return true
	default:
		return false
	}
}

// BookingPaymentStatus is the booking's own view of the payment, loosely
// mirroring the Payment record
type BookingPaymentStatus string

const (
	BookingPaymentPending        BookingPaymentStatus = "pending"
	BookingPaymentWaitingPayment BookingPaymentStatus = "waiting_payment"
	BookingPaymentPaid           BookingPaymentStatus = "paid"
	BookingPaymentFailed         BookingPaymentStatus = "failed"
	BookingPaymentCancelled      BookingPaymentStatus = "cancelled"
	BookingPaymentExpired        BookingPaymentStatus = "expired"
)

type Booking struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	BookingCode   string        `json:"booking_code" gorm:"size:20;uniqueIndex;not null"`
	UserID        uint          `json:"user_id" gorm:"not null;index"`
	RoomID        uint          `json:"room_id" gorm:"not null;index"`
	CheckIn       time.Time     `json:"check_in" gorm:"not null"`
	CheckOut      time.Time     `json:"check_out" gorm:"not null"` // exclusive
	Guests        int           `json:"guests" gorm:"not null;default:1"`
	Subtotal      float64       `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	TaxAmount     float64       `json:"tax_amount" gorm:"type:decimal(14,2);not null"`
	ServiceCharge float64       `json:"service_charge" gorm:"type:decimal(14,2);not null"`
	TotalPrice    float64       `json:"total_price" gorm:"type:decimal(14,2);not null"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(20);default:'waiting_payment';check:status IN ('pending','waiting_payment','confirmed','cancelled','completed','expired')"`
	PaymentStatus BookingPaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`

	SpecialRequests    string     `json:"special_requests" gorm:"size:1000"`
	AdminNotes         string     `json:"admin_notes" gorm:"size:1000"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason *string    `json:"cancellation_reason" gorm:"size:500"`

	// Guest contact snapshot taken at booking time
	GuestName    string `json:"guest_name" gorm:"size:255"`
	GuestEmail   string `json:"guest_email" gorm:"size:255"`
	GuestPhone   string `json:"guest_phone" gorm:"size:20"`
	GuestCountry string `json:"guest_country" gorm:"size:100;default:'Indonesia'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User    User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room    Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// HoldExpiresAt returns the end of the unpaid-booking hold window
func (b *Booking) HoldExpiresAt(holdWindow time.Duration) time.Time {
	return b.CreatedAt.Add(holdWindow)
}
