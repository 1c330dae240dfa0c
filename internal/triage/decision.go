package triage

import "github.com/spec-kit/ticket-triage/internal/domain"

// Decision reasons preserved in the audit trail for operability.
const (
	ReasonLowConfidence     = "low_confidence"
	ReasonAutoCloseDisabled = "auto_close_disabled"
)

// Decision is the outcome of the confidence gate.
type Decision struct {
	AutoClose bool
	Reason    string
}

// Decide applies the confidence gate: auto-close when the operator has
// enabled it and confidence meets the threshold. Pure function.
func Decide(confidence float64, cfg domain.TriageConfig) Decision {
	if !cfg.AutoCloseEnabled {
		return Decision{AutoClose: false, Reason: ReasonAutoCloseDisabled}
	}
	if confidence < cfg.ConfidenceThreshold {
		return Decision{AutoClose: false, Reason: ReasonLowConfidence}
	}
	return Decision{AutoClose: true}
}
