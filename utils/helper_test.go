package utils

import (
	"strings"
	"testing"
)

func TestGenerateEventCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateEventCode(6)
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q length = %d, want 6", code, len(code))
		}
		for _, ch := range code {
			if !strings.ContainsRune(eventCodeChars, ch) {
				t.Fatalf("code %q contains %q outside charset", code, ch)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space colliding down to a handful would
	// mean the generator is broken.
	if len(seen) < 90 {
		t.Fatalf("only %d distinct codes out of 100", len(seen))
	}
}

func TestGenerateOTPCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("generate otp: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("otp %q length = %d, want 6", code, len(code))
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("otp %q contains non-digit %q", code, ch)
			}
		}
	}
}
