// Package triage orchestrates one request/response cycle: emergency
// short-circuit, best-effort inbound translation, risk assessment,
// best-effort outbound translation, response assembly and one audit entry.
package triage

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/nidaan-ai/triage-backend/internal/analysis/emergency"
	auditmodel "github.com/nidaan-ai/triage-backend/internal/model/audit"
	"github.com/nidaan-ai/triage-backend/internal/model/triage"
	"github.com/nidaan-ai/triage-backend/internal/service/assess"
	"github.com/nidaan-ai/triage-backend/internal/service/audit"
	"github.com/nidaan-ai/triage-backend/internal/service/translate"
)

// Translator is the slice of the translation adapter the pipeline uses.
// A failed Result still carries the original text as the fallback value.
type Translator interface {
	Translate(ctx context.Context, text string, source, target triage.Language) translate.Result
}

// Assessor is the slice of the risk-assessment adapter the pipeline uses.
type Assessor interface {
	Assess(ctx context.Context, englishText string, image *triage.Image) (triage.Assessment, error)
}

// Recorder receives the one audit entry each run produces.
type Recorder interface {
	Record(entry auditmodel.Entry)
}

// Static payloads. The emergency response is fixed English text: once the
// filter matches, no third-party call may sit between the user and the
// escalation.
const (
	emergencySummary = "EMERGENCY: Severe symptoms detected requiring IMMEDIATE medical attention."
	emergencyAdvice  = "CALL 108 NOW or visit the nearest emergency room immediately. Do not delay."

	errorSummary = "System temporarily unavailable."
	errorAdvice  = "Please try again in a few minutes, or consult a doctor directly."
)

// Service runs the pipeline. Each invocation is independent and safe to
// retry; there is no cross-request shared state beyond the audit journal.
type Service struct {
	translator Translator
	assessor   Assessor
	recorder   Recorder
}

// NewService wires the pipeline. translator may be nil when translation is
// not configured; assessor and recorder are required.
func NewService(translator Translator, assessor Assessor, recorder Recorder) *Service {
	return &Service{
		translator: translator,
		assessor:   assessor,
		recorder:   recorder,
	}
}

// Run executes one triage cycle. It always returns a response: assessment
// failure is the only path that surfaces status "error", and even that
// carries a generic, non-alarming message plus the request id.
func (s *Service) Run(ctx context.Context, req triage.Request) triage.Response {
	requestID := uuid.NewString()
	log.Printf("[triage] %s new request lang=%s image=%t", requestID, req.Language, req.Image != nil)

	// Emergency phrases bypass translation and inference entirely.
	if matched := emergency.Scan(req.SymptomText); len(matched) > 0 {
		log.Printf("[triage] %s emergency keywords detected: %v", requestID, matched)
		s.record(requestID, auditmodel.CategoryEmergency, "alert", req)
		return triage.Response{
			Risk:       triage.RiskHigh,
			Summary:    emergencySummary,
			Advice:     emergencyAdvice,
			Status:     triage.StatusSuccess,
			RequestID:  requestID,
			Disclaimer: assess.Disclaimer,
			DebugInfo: map[string]any{
				"matchedKeywords":   matched,
				"emergencyContacts": emergency.Contacts,
			},
		}
	}

	// Inbound translation is best-effort: on failure the pipeline continues
	// with the original text rather than erroring.
	englishText := req.SymptomText
	translationUsed := false
	if !req.Language.IsEnglish() && s.translator != nil {
		result := s.translator.Translate(ctx, req.SymptomText, req.Language, triage.English)
		if result.Success {
			englishText = result.TranslatedText
			translationUsed = true
		} else {
			log.Printf("[triage] %s inbound translation failed, using original text: %s", requestID, result.FailureReason)
		}
	}

	assessment, err := s.assessor.Assess(ctx, englishText, req.Image)
	if err != nil {
		log.Printf("[triage] %s assessment failed: %v", requestID, err)
		s.record(requestID, auditmodel.CategoryModelErr, "failed", req)
		return triage.Response{
			Risk:       triage.RiskModerate,
			Summary:    errorSummary,
			Advice:     errorAdvice,
			Status:     triage.StatusError,
			RequestID:  requestID,
			Disclaimer: assess.Disclaimer,
		}
	}

	// Outbound translation follows the same fallback policy: deliver the
	// English text when the return leg fails.
	summary := assessment.Summary
	advice := assessment.Advice
	if !req.Language.IsEnglish() && s.translator != nil {
		if result := s.translator.Translate(ctx, summary, triage.English, req.Language); result.Success {
			summary = result.TranslatedText
		} else {
			log.Printf("[triage] %s summary translation failed, delivering English: %s", requestID, result.FailureReason)
		}
		if result := s.translator.Translate(ctx, advice, triage.English, req.Language); result.Success {
			advice = result.TranslatedText
		} else {
			log.Printf("[triage] %s advice translation failed, delivering English: %s", requestID, result.FailureReason)
		}
	}

	log.Printf("[triage] %s complete risk=%s", requestID, assessment.Risk)
	s.record(requestID, auditmodel.CategoryAnalyze, "success", req)

	return triage.Response{
		Risk:       assessment.Risk,
		Summary:    summary,
		Advice:     advice,
		Status:     triage.StatusSuccess,
		RequestID:  requestID,
		Disclaimer: assess.Disclaimer,
		DebugInfo: map[string]any{
			"language":        string(req.Language),
			"translationUsed": translationUsed,
		},
	}
}

func (s *Service) record(requestID, category, outcome string, req triage.Request) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(auditmodel.Entry{
		RequestID: requestID,
		Category:  category,
		Outcome:   outcome,
		UserHash:  audit.HashSubject(req.PhoneNumber),
	})
}
