package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare ten digits", "9876543210", "+919876543210", false},
		{"already normalized", "+919876543210", "+919876543210", false},
		{"country code without plus", "919876543210", "+919876543210", false},
		{"trunk zero prefix", "09876543210", "+919876543210", false},
		{"spaces and dashes", "+91 98765-43210", "+919876543210", false},
		{"parentheses", "(987) 654-3210", "+919876543210", false},
		{"too short", "98765", "", true},
		{"too long", "98765432101234", "", true},
		{"letters", "98765abcde", "", true},
		{"plus in the middle", "98765+43210", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePhone(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
