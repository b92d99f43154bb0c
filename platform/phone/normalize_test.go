package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national number gets country code", "098765 43210", "+919876543210"},
		{"already E164", "+919876543210", "+919876543210"},
		{"blank input stays blank", "   ", ""},
		{"garbage passes through trimmed", " not-a-number ", "not-a-number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeE164(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
