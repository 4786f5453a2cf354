package slug_test

import (
	"strings"
	"testing"

	"github.com/mandatpro/kommunalcrm/internal/app/system/slug"
)

func TestFromDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"City Council", "city-council"},
		{"SPD Fraktion Musterstadt", "spd-fraktion-musterstadt"},
		{"Grüne Jugend Köln", "gruene-jugend-koeln"},
		{"Bündnis Straßenbau", "buendnis-strassenbau"},
		{"Übergangsrat", "uebergangsrat"},
		{"already-sluggy", "already-sluggy"},
	}
	for _, tt := range tests {
		if got := slug.FromDisplayName(tt.in); got != tt.want {
			t.Errorf("FromDisplayName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromDisplayNameEmpty(t *testing.T) {
	got := slug.FromDisplayName("  ")
	if !strings.HasPrefix(got, "org-") {
		t.Errorf("empty name should yield a fallback slug, got %q", got)
	}
}

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@cityhall.example", "cityhall.example"},
		{"Bob@CityHall.Example", "cityhall.example"},
		{"noat", ""},
		{"trailing@", ""},
	}
	for _, tt := range tests {
		if got := slug.EmailDomain(tt.in); got != tt.want {
			t.Errorf("EmailDomain(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
