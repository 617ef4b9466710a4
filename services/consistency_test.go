package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-server/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestReleaseClampsAtUnitTotal(t *testing.T) {
	db, mock := newMockDB(t)
	inv := NewInventoryService()

	// Room already at full availability: a second release must not go past it
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "rooms" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit_total", "unit_available", "enabled", "is_listed"}).
			AddRow(7, 5, 5, true, true))
	mock.ExpectExec(`UPDATE "rooms" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var room *models.Room
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		room, txErr = inv.Release(tx, 7)
		return txErr
	})
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if room.UnitAvailable != 5 {
		t.Errorf("unit_available = %d, want clamped at 5", room.UnitAvailable)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestTransitionGuardLosesRace(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(NewInventoryService())

	// The guarded UPDATE matches zero rows when another request already moved
	// the booking; no inventory release may follow
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	booking := &models.Booking{ID: 42, RoomID: 7, Status: models.BookingStatusWaitingPayment}
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Transition(tx, booking, models.BookingStatusExpired, TransitionOptions{
			PaymentStatus: models.BookingPaymentExpired,
		})
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if booking.Status != models.BookingStatusWaitingPayment {
		t.Errorf("in-memory status mutated to %s on a lost race", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAttachProofRejectsFinalizedPayment(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPaymentService()

	// The in-memory payment still looks processing, but an admin decision has
	// committed in between: the guarded UPDATE matches zero rows and the
	// payment must not be demoted back to processing
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	payment := &models.Payment{ID: 9, BookingID: 42, Status: models.PaymentStatusProcessing}
	booking := &models.Booking{ID: 42, Status: models.BookingStatusWaitingPayment}
	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.AttachProof(tx, payment, booking, "payment_x.jpg", models.MethodQRIS, 24*time.Hour)
		return txErr
	})
	if !errors.Is(err, ErrPaymentAlreadyFinal) {
		t.Fatalf("err = %v, want ErrPaymentAlreadyFinal", err)
	}
	if payment.ProofRef != nil {
		t.Error("proof ref set on a rejected attach")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSweepBookingConcurrentExpiry(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewExpirySweeper(NewBookingService(NewInventoryService()), NewPaymentService(), 24*time.Hour)

	notified := false
	sweeper.OnExpired(func(*models.Booking) { notified = true })

	created := time.Now().Add(-48 * time.Hour)

	// Another sweep wins the guarded transition; this one must end quietly
	// with no payment expiry, no release and no event
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "status", "created_at"}).
			AddRow(42, 7, "waiting_payment", created))
	mock.ExpectQuery(`SELECT .* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "status"}).
			AddRow(9, 42, "processing"))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	swept, err := sweeper.SweepBooking(db, 42)
	if err != nil {
		t.Fatalf("SweepBooking: %v", err)
	}
	if swept {
		t.Error("swept = true after losing the race")
	}
	if notified {
		t.Error("expiry hook fired for a sweep that did nothing")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSweepBookingFiresExpiryHook(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewExpirySweeper(NewBookingService(NewInventoryService()), NewPaymentService(), 24*time.Hour)

	var expired *models.Booking
	sweeper.OnExpired(func(b *models.Booking) { expired = b })

	created := time.Now().Add(-48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_code", "room_id", "status", "created_at"}).
			AddRow(42, "FH-ABC-123456", 7, "waiting_payment", created))
	mock.ExpectQuery(`SELECT .* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "status"})) // no payment row
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "rooms" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit_total", "unit_available", "enabled", "is_listed"}).
			AddRow(7, 5, 4, true, true))
	mock.ExpectExec(`UPDATE "rooms" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	swept, err := sweeper.SweepBooking(db, 42)
	if err != nil {
		t.Fatalf("SweepBooking: %v", err)
	}
	if !swept {
		t.Fatal("swept = false for an overdue booking")
	}
	if expired == nil {
		t.Fatal("expiry hook not fired")
	}
	if expired.BookingCode != "FH-ABC-123456" || expired.Status != models.BookingStatusExpired {
		t.Errorf("hook received %s/%s", expired.BookingCode, expired.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateWithUniqueCodeRetriesUnderSavepoint(t *testing.T) {
	db, mock := newMockDB(t)
	o := NewBookingOrchestrator(db, NewInventoryService(), NewBookingService(NewInventoryService()),
		NewPaymentService(), nil, "FH", 24*time.Hour)

	// First insert collides; the savepoint rollback clears the aborted state
	// so the regenerated code can be inserted in the same transaction
	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT sp_booking_code_0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT sp_booking_code_0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SAVEPOINT sp_booking_code_1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	booking := &models.Booking{UserID: 1, RoomID: 7, Status: models.BookingStatusWaitingPayment}
	err := db.Transaction(func(tx *gorm.DB) error {
		return o.createWithUniqueCode(tx, booking)
	})
	if err != nil {
		t.Fatalf("createWithUniqueCode: %v", err)
	}
	if booking.ID != 1 {
		t.Errorf("booking.ID = %d, want 1", booking.ID)
	}
	if !strings.HasPrefix(booking.BookingCode, "FH-") {
		t.Errorf("booking code %q lost its prefix", booking.BookingCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
