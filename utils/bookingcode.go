package utils

import (
	"fmt"
	"math/rand"
)

const (
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeDigits  = "0123456789"
)

// GenerateBookingCode builds a human-readable booking code in the form
// PREFIX-AAA-NNNNNN. Uniqueness is enforced by the bookings table; callers
// regenerate on collision.
func GenerateBookingCode(prefix string) string {
	letters := make([]byte, 3)
	for i := range letters {
		letters[i] = codeLetters[rand.Intn(len(codeLetters))]
	}
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = codeDigits[rand.Intn(len(codeDigits))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, letters, digits)
}
