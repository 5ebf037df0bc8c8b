package triage

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auditmodel "github.com/nidaan-ai/triage-backend/internal/model/audit"
	"github.com/nidaan-ai/triage-backend/internal/model/triage"
	auditservice "github.com/nidaan-ai/triage-backend/internal/service/audit"
	"github.com/nidaan-ai/triage-backend/pkg/utils"
)

// maxUploadBytes caps the multipart form, dominated by the optional image.
const maxUploadBytes = 10 << 20

// minSymptomChars rejects inputs too short to assess.
const minSymptomChars = 5

// Pipeline runs one triage cycle.
type Pipeline interface {
	Run(ctx context.Context, req triage.Request) triage.Response
}

// Features reports which optional adapters are configured, for /health.
type Features struct {
	Translation bool
	WhatsApp    bool
}

// Handler exposes the triage pipeline over HTTP.
type Handler struct {
	pipeline Pipeline
	audit    *auditservice.Service
	features Features
}

// New creates the triage handler.
func New(pipeline Pipeline, audit *auditservice.Service, features Features) *Handler {
	return &Handler{pipeline: pipeline, audit: audit, features: features}
}

// RegisterRoutes mounts the triage endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.handleAnalyze)
	r.Get("/health", h.handleHealth)
	r.Post("/consent", h.handleConsent)
}

// handleAnalyze accepts the multipart triage form. Errors from downstream
// adapters are reported in-band with HTTP 200; only malformed requests get
// a 4xx.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	symptomText := strings.TrimSpace(r.FormValue("symptom_text"))
	if symptomText == "" {
		utils.RespondError(w, http.StatusBadRequest, "symptom_text is required")
		return
	}
	if len([]rune(symptomText)) < minSymptomChars {
		utils.RespondError(w, http.StatusBadRequest, "symptom_text is too short, please add more detail")
		return
	}

	language, ok := triage.ParseLanguage(r.FormValue("language"))
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unsupported language")
		return
	}

	consentGiven, _ := strconv.ParseBool(r.FormValue("consent_given"))

	req := triage.Request{
		SymptomText:  symptomText,
		Language:     language,
		PhoneNumber:  strings.TrimSpace(r.FormValue("phone_number")),
		ConsentGiven: consentGiven,
	}

	if image := h.readImage(r); image != nil {
		req.Image = image
	}

	response := h.pipeline.Run(r.Context(), req)
	utils.RespondJSON(w, http.StatusOK, response)
}

// readImage pulls the optional image out of the form. A corrupt or
// unreadable upload degrades to text-only analysis rather than failing the
// request.
func (h *Handler) readImage(r *http.Request) *triage.Image {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil || len(data) == 0 {
		log.Printf("[analyze] image read failed, continuing text-only: %v", err)
		return nil
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &triage.Image{Data: data, MIMEType: mimeType}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	languages := make([]string, 0, len(triage.SupportedLanguages()))
	for _, lang := range triage.SupportedLanguages() {
		languages = append(languages, lang.Name())
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "NIDAAN-AI Triage API",
		"features": map[string]any{
			"translation": h.features.Translation,
			"whatsapp":    h.features.WhatsApp,
			"languages":   languages,
		},
		"disclaimer": "AI-assisted triage. Not a substitute for professional medical advice.",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConsent records a consent decision in the audit trail.
func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.FormValue("user_id"))
	consentType := strings.TrimSpace(r.FormValue("consent_type"))
	if userID == "" || consentType == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id and consent_type are required")
		return
	}

	consentGiven, err := strconv.ParseBool(r.FormValue("consent_given"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "consent_given must be a boolean")
		return
	}

	consentID := uuid.NewString()
	outcome := "revoked"
	if consentGiven {
		outcome = "granted"
	}

	h.audit.Record(auditmodel.Entry{
		RequestID: consentID,
		Category:  auditmodel.CategoryConsent,
		Outcome:   consentType + ":" + outcome,
		UserHash:  auditservice.HashSubject(userID),
	})

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Consent recorded",
		"consentId": consentID,
	})
}
