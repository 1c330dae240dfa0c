package domain

import "time"

// Defaults applied when no operator configuration row exists. The
// pipeline uses these in memory and never persists them implicitly.
const (
	DefaultAutoCloseEnabled    = false
	DefaultConfidenceThreshold = 0.78
	DefaultSLAHours            = 24
)

// TriageConfig is the operator-tunable singleton controlling the
// auto-close decision.
type TriageConfig struct {
	AutoCloseEnabled    bool
	ConfidenceThreshold float64
	SLAHours            int
	UpdatedAt           time.Time
}

// DefaultTriageConfig returns the documented in-memory defaults.
func DefaultTriageConfig() TriageConfig {
	return TriageConfig{
		AutoCloseEnabled:    DefaultAutoCloseEnabled,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		SLAHours:            DefaultSLAHours,
	}
}

// Validate checks operator-supplied values.
func (c TriageConfig) Validate() bool {
	return c.ConfidenceThreshold >= 0 && c.ConfidenceThreshold <= 1 && c.SLAHours >= 1
}
