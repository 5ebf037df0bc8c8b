package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auditmodel "github.com/nidaan-ai/triage-backend/internal/model/audit"
	auditservice "github.com/nidaan-ai/triage-backend/internal/service/audit"
	notifyservice "github.com/nidaan-ai/triage-backend/internal/service/notify"
	"github.com/nidaan-ai/triage-backend/pkg/utils"
)

// Deliverer is the slice of the messaging adapter the handler uses.
type Deliverer interface {
	Deliver(ctx context.Context, phoneNumber, message string) (notifyservice.DeliveryResult, error)
}

// Handler exposes WhatsApp delivery. Delivery is independent of the triage
// response; failures here are reported only in this endpoint's own reply.
type Handler struct {
	deliverer Deliverer
	audit     *auditservice.Service
}

// New creates the messaging handler. deliverer may be nil when the relay is
// not configured.
func New(deliverer Deliverer, audit *auditservice.Service) *Handler {
	return &Handler{deliverer: deliverer, audit: audit}
}

// RegisterRoutes mounts the messaging endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send-whatsapp", h.handleSend)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	if h.deliverer == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "WhatsApp feature not configured")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid form")
		return
	}

	phoneNumber := strings.TrimSpace(r.FormValue("phone_number"))
	if phoneNumber == "" {
		utils.RespondError(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	if report := strings.TrimSpace(r.FormValue("report")); report != "" {
		message = notifyservice.FormatReport(report)
	}
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message or report is required")
		return
	}

	requestID := uuid.NewString()
	result, err := h.deliverer.Deliver(r.Context(), phoneNumber, message)
	if err != nil {
		if errors.Is(err, notifyservice.ErrInvalidPhoneNumber) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusBadRequest, "delivery rejected")
		return
	}

	outcome := "failed"
	if result.Success {
		outcome = "success"
	}
	h.audit.Record(auditmodel.Entry{
		RequestID: requestID,
		Category:  auditmodel.CategoryWhatsApp,
		Outcome:   outcome,
		UserHash:  auditservice.HashSubject(phoneNumber),
	})

	utils.RespondJSON(w, http.StatusOK, result)
}
