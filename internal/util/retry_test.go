// ABOUTME: Tests for the exponential backoff schedule
// ABOUTME: Validates doubling, the cap, jitter bounds and degenerate inputs
package util

import (
	"testing"
	"time"
)

func TestBackoff_NoRetryNoWait(t *testing.T) {
	b := Backoff{Base: time.Second}
	for _, attempt := range []int{0, -1, -100} {
		if got := b.Delay(attempt); got != 0 {
			t.Errorf("Delay(%d) = %v, want 0", attempt, got)
		}
	}
	if got := (Backoff{}).Delay(3); got != 0 {
		t.Errorf("zero Base Delay = %v, want 0", got)
	}
}

func TestBackoff_Doubles(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond}
	want := []time.Duration{100, 200, 400, 800, 1600}
	for i, w := range want {
		if got := b.Delay(i + 1); got != w*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w*time.Millisecond)
		}
	}
}

func TestBackoff_Cap(t *testing.T) {
	tests := []struct {
		name string
		b    Backoff
		want time.Duration
	}{
		{"default cap", Backoff{Base: time.Second}, DefaultMaxBackoff},
		{"explicit cap", Backoff{Base: time.Second, Max: 5 * time.Second}, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// large attempts must not overflow
			for _, attempt := range []int{10, 64, 1000} {
				if got := tt.b.Delay(attempt); got != tt.want {
					t.Errorf("Delay(%d) = %v, want %v", attempt, got, tt.want)
				}
			}
		})
	}
}

func TestBackoff_JitterBounds(t *testing.T) {
	b := Backoff{Base: time.Second, Jitter: 0.25}

	seen := make(map[time.Duration]bool)
	for i := 0; i < 200; i++ {
		got := b.Delay(3) // 4s nominal
		if got < 3*time.Second || got > 5*time.Second {
			t.Fatalf("Delay(3) = %v, want within 3s..5s", got)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("jitter should produce varying delays")
	}
}

func TestBackoff_JitterClampedToDelay(t *testing.T) {
	b := Backoff{Base: time.Second, Jitter: 3}
	for i := 0; i < 100; i++ {
		if got := b.Delay(1); got < 0 || got > 2*time.Second {
			t.Fatalf("Delay(1) = %v, want within 0..2s", got)
		}
	}
}
