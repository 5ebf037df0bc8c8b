// Package audit records that requests occurred, independent of their
// outcome. Writes are fire-and-forget appends; entries are never updated
// or deleted here (retention is an external policy).
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	auditmodel "github.com/nidaan-ai/triage-backend/internal/model/audit"
)

// Service keeps the append-only journal. Appends are safe for concurrent
// use; no other coordination exists or is needed.
type Service struct {
	mu      sync.Mutex
	entries []auditmodel.Entry
}

// NewService bootstraps an empty journal.
func NewService() *Service {
	return &Service{entries: make([]auditmodel.Entry, 0, 64)}
}

// Record appends one entry and emits it as a structured log line so the
// trail survives process restarts in the log stream.
func (s *Service) Record(entry auditmodel.Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf("AUDIT: request_id=%s category=%s outcome=%s", entry.RequestID, entry.Category, entry.Outcome)
		return
	}
	log.Printf("AUDIT: %s", line)
}

// Entries returns a copy of the journal, oldest first.
func (s *Service) Entries() []auditmodel.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]auditmodel.Entry, len(s.entries))
	copy(copied, s.entries)
	return copied
}

// HashSubject anonymizes an identifying string for audit entries. Only the
// first 16 hex characters are kept.
func HashSubject(subject string) string {
	if subject == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])[:16]
}
