package utils

import (
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^FH-[A-Z]{3}-[0-9]{6}$`)

func TestGenerateBookingCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateBookingCode("FH")
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match PREFIX-AAA-NNNNNN", code)
		}
	}
}

func TestGenerateBookingCodeCustomPrefix(t *testing.T) {
	code := GenerateBookingCode("VIP")
	if matched := regexp.MustCompile(`^VIP-[A-Z]{3}-[0-9]{6}$`).MatchString(code); !matched {
		t.Errorf("code %q does not carry the custom prefix", code)
	}
}
