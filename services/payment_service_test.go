package services

import (
	"errors"
	"testing"

	"hotel-booking-server/models"
)

func TestValidateProofFile(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"jpg ok", "receipt.jpg", 1024, false},
		{"jpeg ok", "receipt.jpeg", 1024, false},
		{"png ok", "screenshot.PNG", 2 * 1024 * 1024, false},
		{"webp ok", "receipt.webp", 1024, false},
		{"pdf ok", "transfer.pdf", MaxProofFileSize, false},
		{"gif rejected", "animation.gif", 1024, true},
		{"exe rejected", "payload.exe", 1024, true},
		{"no extension", "receipt", 1024, true},
		{"too large", "receipt.jpg", MaxProofFileSize + 1, true},
		{"empty file", "receipt.jpg", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProofFile(tc.filename, tc.size)
			if tc.wantErr && !errors.Is(err, ErrInvalidProofFile) {
				t.Errorf("err = %v, want ErrInvalidProofFile", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProofUploadAllowed(t *testing.T) {
	waiting := &models.Booking{Status: models.BookingStatusWaitingPayment}

	cases := []struct {
		name          string
		payment       models.PaymentStatus
		booking       *models.Booking
		wantReplacing bool
		wantErr       error
	}{
		{"first upload", models.PaymentStatusPending, waiting, false, nil},
		{"resubmit after rejection", models.PaymentStatusFailed, waiting, false, nil},
		{"resubmit after expiry", models.PaymentStatusExpired, waiting, false, nil},
		{"replace proof under review", models.PaymentStatusProcessing, waiting, true, nil},
		{"already verified", models.PaymentStatusCompleted, waiting, false, ErrPaymentAlreadyFinal},
		{
			"booking already confirmed",
			models.PaymentStatusPending,
			&models.Booking{Status: models.BookingStatusConfirmed},
			false, ErrPaymentAlreadyFinal,
		},
		{
			"booking already completed",
			models.PaymentStatusPending,
			&models.Booking{Status: models.BookingStatusCompleted},
			false, ErrPaymentAlreadyFinal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			replacing, err := proofUploadAllowed(&models.Payment{Status: tc.payment}, tc.booking)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if replacing != tc.wantReplacing {
				t.Errorf("replacing = %v, want %v", replacing, tc.wantReplacing)
			}
		})
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	valid := []models.PaymentMethod{
		models.MethodQRIS, models.MethodBankTransfer, models.MethodCreditCard,
		models.MethodOVO, models.MethodGoPay, models.MethodDana,
	}
	for _, m := range valid {
		if !models.IsValidPaymentMethod(m) {
			t.Errorf("%s should be valid", m)
		}
	}

	for _, m := range []models.PaymentMethod{"", "cash", "bitcoin", "QRIS"} {
		if models.IsValidPaymentMethod(m) {
			t.Errorf("%q should be rejected", m)
		}
	}
}

func TestIsDecided(t *testing.T) {
	decided := []models.PaymentStatus{models.PaymentStatusCompleted, models.PaymentStatusFailed}
	for _, s := range decided {
		p := models.Payment{Status: s}
		if !p.IsDecided() {
			t.Errorf("%s should count as decided", s)
		}
	}

	undecided := []models.PaymentStatus{
		models.PaymentStatusPending, models.PaymentStatusProcessing, models.PaymentStatusExpired,
	}
	for _, s := range undecided {
		p := models.Payment{Status: s}
		if p.IsDecided() {
			t.Errorf("%s should not count as decided", s)
		}
	}
}
