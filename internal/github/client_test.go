package github

import (
	"testing"

	"github.com/rlamana/create-agent/internal/apierr"
)

func TestParseAPIURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", DefaultAPIURL},
		{"https://ghe.example/api/v3", "https://ghe.example/api/v3/"},
		{"http://127.0.0.1:8080/", "http://127.0.0.1:8080/"},
	}
	for _, tt := range tests {
		u, err := ParseAPIURL(tt.raw)
		if err != nil {
			t.Fatalf("ParseAPIURL(%q) error: %v", tt.raw, err)
		}
		if u.String() != tt.want {
			t.Errorf("ParseAPIURL(%q) = %s, want %s", tt.raw, u, tt.want)
		}
	}

	for _, bad := range []string{"api.github.com", "/api/v3", "not a url"} {
		if _, err := ParseAPIURL(bad); !apierr.IsValidation(err) {
			t.Errorf("ParseAPIURL(%q) expected validation error, got %v", bad, err)
		}
	}
}
