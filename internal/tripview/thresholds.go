// ABOUTME: Pacing thresholds used to flag strenuous days in the Dr.Dre view
// ABOUTME: They are configuration, pending confirmation against the backend's gating rules
package tripview

import "fmt"

const (
	DefaultEffortThreshold  = 70
	DefaultMinBufferMinutes = 30
)

// Thresholds flag a day whose fatigue exceeds EffortThreshold or whose buffer is below MinBufferMinutes.
// These mirror values the backend may already gate on; keep them in config so they can be aligned.
type Thresholds struct {
	EffortThreshold  float64
	MinBufferMinutes float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{EffortThreshold: DefaultEffortThreshold, MinBufferMinutes: DefaultMinBufferMinutes}
}

func (t Thresholds) Validate() error {
	if t.EffortThreshold < 0 || t.EffortThreshold > 100 {
		return fmt.Errorf("effort threshold must be within 0-100, got %v", t.EffortThreshold)
	}
	if t.MinBufferMinutes < 0 {
		return fmt.Errorf("minimum buffer must not be negative, got %v", t.MinBufferMinutes)
	}
	return nil
}
