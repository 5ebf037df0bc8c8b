package audit

import "time"

// Entry is one append-only audit record. Entries are written once and never
// updated; retention and deletion are an external policy.
type Entry struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Outcome   string    `json:"outcome"`
	UserHash  string    `json:"user_hash,omitempty"`
}

// Categories written by the service.
const (
	CategoryAnalyze   = "analyze_request"
	CategoryEmergency = "emergency_detected"
	CategoryModelErr  = "llm_error"
	CategoryWhatsApp  = "whatsapp_sent"
	CategoryConsent   = "consent"
)
