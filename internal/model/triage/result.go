package triage

import "strings"

// Risk is the three-level triage classification. It is not a diagnosis.
type Risk string

const (
	RiskLow      Risk = "LOW"
	RiskModerate Risk = "MODERATE"
	RiskHigh     Risk = "HIGH"
)

// CoerceRisk normalizes a raw model value into one of the three levels.
// Anything unrecognized becomes MODERATE so an upstream contract drift can
// never silently downgrade or invent a severity.
func CoerceRisk(raw string) Risk {
	switch Risk(strings.ToUpper(strings.TrimSpace(raw))) {
	case RiskLow:
		return RiskLow
	case RiskModerate:
		return RiskModerate
	case RiskHigh:
		return RiskHigh
	default:
		return RiskModerate
	}
}

// Assessment is the strictly-typed result produced at the model boundary
// from English-normalized input.
type Assessment struct {
	Risk    Risk   `json:"risk"`
	Summary string `json:"summary"`
	Advice  string `json:"advice"`
}

// Status values of the externally visible response. Errors are reported
// in-band with HTTP 200.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the external contract of one triage run. RequestID ties
// together every log line the run produced.
type Response struct {
	Risk       Risk           `json:"risk"`
	Summary    string         `json:"summary"`
	Advice     string         `json:"advice"`
	Status     string         `json:"status"`
	RequestID  string         `json:"requestId"`
	Disclaimer string         `json:"disclaimer,omitempty"`
	DebugInfo  map[string]any `json:"debugInfo,omitempty"`
}
