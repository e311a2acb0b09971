package validate

import (
	"testing"
	"time"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@x.com", true},
		{"first.last@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"two@@x.com", false},
		{"spaces in@x.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.valid {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		date  string
		valid bool
	}{
		{"2025-12-31", true},
		{"2025-02-29", false}, // not a leap year
		{"2024-02-29", true},
		{"2025-1-2", false}, // non-canonical
		{"31-12-2025", false},
		{"2025/12/31", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDate(tt.date); got != tt.valid {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.date, got, tt.valid)
		}
	}
}

func TestIsAfterToday(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	if IsAfterToday(today) {
		t.Error("Today is not after today")
	}
	if !IsAfterToday(tomorrow) {
		t.Error("Tomorrow should be after today")
	}
	if IsAfterToday(yesterday) {
		t.Error("Yesterday is not after today")
	}
	if IsAfterToday("garbage") {
		t.Error("Invalid dates are never after today")
	}
}

func TestIsUniqueList(t *testing.T) {
	if !IsUniqueList(nil) {
		t.Error("Empty list is unique")
	}
	if !IsUniqueList([]string{"a@x.com", "b@x.com"}) {
		t.Error("Distinct list should be unique")
	}
	if IsUniqueList([]string{"a@x.com", "a@x.com"}) {
		t.Error("Duplicate list should not be unique")
	}
}

func TestIsPositive(t *testing.T) {
	if !IsPositive(1) || IsPositive(0) || IsPositive(-1) {
		t.Error("IsPositive must accept only n > 0")
	}
}
