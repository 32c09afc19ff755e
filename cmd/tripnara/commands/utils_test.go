// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, time formatting, argument parsing and item time helpers

package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tripnara/tripnara-go/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"very short maxLen", "hello", 2, "he"},
		{"maxLen equals 3", "hello", 3, "hel"},
		{"empty string", "", 10, ""},
		{"unicode counted in runes", "Þingvellir þjóðgarður", 10, "Þingvel..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatAge(t *testing.T) {
	ts := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff time.Duration
		want string
	}{
		{"future", -time.Hour, "2026-05-10 18:30"},
		{"seconds", 30 * time.Second, "just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"days", 50 * time.Hour, "2d ago"},
		{"weeks", 10 * 24 * time.Hour, "2026-05-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAge(tt.diff, ts); got != tt.want {
				t.Errorf("formatAge(%v) = %q, want %q", tt.diff, got, tt.want)
			}
		})
	}
}

func TestFormatTime_Unparsable(t *testing.T) {
	if got := formatTime("yesterday"); got != "yesterday" {
		t.Errorf("formatTime(yesterday) = %q, want raw value", got)
	}
	if got := formatTime(""); got != "" {
		t.Errorf("formatTime(\"\") = %q, want empty", got)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{0, true},
		{-5, true},
	}

	for _, tt := range tests {
		err := validatePositiveInt(tt.n, "limit")
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePositiveInt(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseID(tt.raw, "place ID")
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestReadJSONArg(t *testing.T) {
	type plan struct {
		Days int `json:"days"`
	}

	t.Run("inline object", func(t *testing.T) {
		var p plan
		if err := readJSONArg(`{"days": 3}`, &p); err != nil {
			t.Fatalf("readJSONArg() error = %v", err)
		}
		if p.Days != 3 {
			t.Errorf("Days = %d, want 3", p.Days)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.json")
		if err := os.WriteFile(path, []byte(`{"days": 5}`), 0o600); err != nil {
			t.Fatal(err)
		}
		var p plan
		if err := readJSONArg(path, &p); err != nil {
			t.Fatalf("readJSONArg() error = %v", err)
		}
		if p.Days != 5 {
			t.Errorf("Days = %d, want 5", p.Days)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var p plan
		if err := readJSONArg(filepath.Join(t.TempDir(), "nope.json"), &p); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var p plan
		if err := readJSONArg(`{"days": }`, &p); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestOrDash(t *testing.T) {
	if got := orDash("  "); got != "-" {
		t.Errorf("orDash(blank) = %q, want -", got)
	}
	if got := orDash("x"); got != "x" {
		t.Errorf("orDash(x) = %q, want x", got)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2026-07-01T09:30:00Z", "09:30"},
		{"14:05:00", "14:05"},
		{"14:05", "14:05"},
		{"9h", "9h"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := clock(tt.raw); got != tt.want {
			t.Errorf("clock(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestItemTime(t *testing.T) {
	tests := []struct {
		name string
		item models.ItineraryItem
		want string
	}{
		{"no times", models.ItineraryItem{}, "-"},
		{"start only", models.ItineraryItem{StartTime: "2026-07-01T09:00:00Z"}, "09:00"},
		{"range", models.ItineraryItem{StartTime: "2026-07-01T09:00:00Z", EndTime: "2026-07-01T11:30:00Z"}, "09:00-11:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := itemTime(tt.item); got != tt.want {
				t.Errorf("itemTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
