package middleware

import "testing"

func TestValidateLimit(t *testing.T) {
	for in, want := range map[int]int{-1: 20, 0: 20, 1: 1, 50: 50, 100: 100, 101: 100} {
		if got := ValidateLimit(in); got != want {
			t.Errorf("ValidateLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestValidateDays(t *testing.T) {
	for in, want := range map[int]int{0: 7, 30: 30, 365: 365, 400: 365} {
		if got := ValidateDays(in); got != want {
			t.Errorf("ValidateDays(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	if v, err := ParseIntParam("limit", ""); err != nil || v != 0 {
		t.Errorf("empty: %d, %v", v, err)
	}
	if v, err := ParseIntParam("limit", "15"); err != nil || v != 15 {
		t.Errorf("15: %d, %v", v, err)
	}
	if _, err := ParseIntParam("limit", "1x"); err == nil {
		t.Error("want error for 1x")
	}
}
