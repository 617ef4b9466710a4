package services

import (
	"testing"

	"hotel-booking-server/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    models.BookingStatus
		to      models.BookingStatus
		allowed bool
	}{
		{models.BookingStatusPending, models.BookingStatusWaitingPayment, true},
		{models.BookingStatusPending, models.BookingStatusCancelled, true},
		{models.BookingStatusPending, models.BookingStatusConfirmed, false},

		{models.BookingStatusWaitingPayment, models.BookingStatusConfirmed, true},
		{models.BookingStatusWaitingPayment, models.BookingStatusCancelled, true},
		{models.BookingStatusWaitingPayment, models.BookingStatusExpired, true},
		{models.BookingStatusWaitingPayment, models.BookingStatusCompleted, false},

		{models.BookingStatusConfirmed, models.BookingStatusCancelled, true},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, true},
		{models.BookingStatusConfirmed, models.BookingStatusExpired, false},
		{models.BookingStatusConfirmed, models.BookingStatusWaitingPayment, false},

		// Terminal statuses allow nothing out
		{models.BookingStatusCancelled, models.BookingStatusConfirmed, false},
		{models.BookingStatusCompleted, models.BookingStatusCancelled, false},
		{models.BookingStatusExpired, models.BookingStatusWaitingPayment, false},
		{models.BookingStatusExpired, models.BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestLedgerEffectFor(t *testing.T) {
	cases := []struct {
		from   models.BookingStatus
		to     models.BookingStatus
		effect LedgerEffect
	}{
		// Releases: every exit that gives the unit back
		{models.BookingStatusWaitingPayment, models.BookingStatusCancelled, EffectRelease},
		{models.BookingStatusWaitingPayment, models.BookingStatusExpired, EffectRelease},
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, EffectRelease},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, EffectRelease},

		// Confirmation keeps the unit held
		{models.BookingStatusWaitingPayment, models.BookingStatusConfirmed, EffectRefreshListed},

		{models.BookingStatusPending, models.BookingStatusWaitingPayment, EffectNone},
	}

	for _, tc := range cases {
		if got := LedgerEffectFor(tc.from, tc.to); got != tc.effect {
			t.Errorf("LedgerEffectFor(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.effect)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []models.BookingStatus{
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
		models.BookingStatusExpired,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		if targets := transitions[s]; len(targets) != 0 {
			t.Errorf("terminal status %s has outgoing transitions", s)
		}
	}

	active := []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusWaitingPayment,
		models.BookingStatusConfirmed,
	}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
