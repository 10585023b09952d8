package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+91 9876543210", "9876543210"},
		{"09876543210", "9876543210"},
		{"987-654-3210", "9876543210"},
		{"91 98765 43210", "9876543210"},
		{"+91-98765-43210", "9876543210"},
		{"123", "123"},
		{"", ""},
		{"9876543210", "9876543210"},
		// "91..." with exactly 10 digits is a local number starting 91, not a prefixed one.
		{"9198765432", "9198765432"},
		// Country prefix then trunk zero.
		{"9109876543210", "9876543210"},
		{"abc9876def543210", "9876543210"},
	}

	for _, tc := range tests {
		got := Normalize(tc.raw)
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"+91 9876543210",
		"09876543210",
		"987-654-3210",
		"123",
		"",
		"9876543210",
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestIsPlausible(t *testing.T) {
	tests := []struct {
		digits string
		want   bool
	}{
		{"9876543210", true},
		{"123", false},
		{"", false},
		{"98765432101", false},
	}

	for _, tc := range tests {
		got := IsPlausible(tc.digits)
		if got != tc.want {
			t.Errorf("IsPlausible(%q) = %v, want %v", tc.digits, got, tc.want)
		}
	}
}
