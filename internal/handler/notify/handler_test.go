package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	auditservice "github.com/nidaan-ai/triage-backend/internal/service/audit"
	notifyservice "github.com/nidaan-ai/triage-backend/internal/service/notify"
)

type fakeDeliverer struct {
	calls   int
	gotTo   string
	gotBody string
	result  notifyservice.DeliveryResult
	err     error
}

func (f *fakeDeliverer) Deliver(_ context.Context, phoneNumber, message string) (notifyservice.DeliveryResult, error) {
	f.calls++
	f.gotTo = phoneNumber
	f.gotBody = message
	return f.result, f.err
}

func setup(deliverer Deliverer) (*chi.Mux, *auditservice.Service) {
	auditSvc := auditservice.NewService()
	handler := New(deliverer, auditSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, auditSvc
}

func postForm(r http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/send-whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSendSuccess(t *testing.T) {
	deliverer := &fakeDeliverer{result: notifyservice.DeliveryResult{Success: true, ProviderMessageID: "SM1"}}
	r, auditSvc := setup(deliverer)

	form := url.Values{}
	form.Set("phone_number", "+919876543210")
	form.Set("message", "your triage report")

	resp := postForm(r, form)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result notifyservice.DeliveryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success || result.ProviderMessageID != "SM1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if deliverer.gotTo != "+919876543210" {
		t.Fatalf("unexpected recipient: %q", deliverer.gotTo)
	}
	if len(auditSvc.Entries()) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(auditSvc.Entries()))
	}
}

func TestSendFormatsReport(t *testing.T) {
	deliverer := &fakeDeliverer{result: notifyservice.DeliveryResult{Success: true}}
	r, _ := setup(deliverer)

	form := url.Values{}
	form.Set("phone_number", "+919876543210")
	form.Set("report", "Risk Level: LOW")

	if resp := postForm(r, form); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(deliverer.gotBody, "Risk Level: LOW") {
		t.Fatalf("report content missing from message: %q", deliverer.gotBody)
	}
	if !strings.Contains(deliverer.gotBody, "NIDAAN-AI Medical Report") {
		t.Fatalf("report header missing: %q", deliverer.gotBody)
	}
}

func TestSendInvalidPhoneNumber(t *testing.T) {
	deliverer := &fakeDeliverer{err: notifyservice.ErrInvalidPhoneNumber}
	r, auditSvc := setup(deliverer)

	form := url.Values{}
	form.Set("phone_number", "9876543210")
	form.Set("message", "hi")

	resp := postForm(r, form)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(auditSvc.Entries()) != 0 {
		t.Fatal("rejected deliveries must not be audited as attempts")
	}
}

func TestSendProviderFailureInBand(t *testing.T) {
	deliverer := &fakeDeliverer{result: notifyservice.DeliveryResult{Success: false, FailureReason: "failed to send WhatsApp message"}}
	r, _ := setup(deliverer)

	form := url.Values{}
	form.Set("phone_number", "+919876543210")
	form.Set("message", "hi")

	resp := postForm(r, form)

	if resp.Code != http.StatusOK {
		t.Fatalf("provider failures are reported in-band, got %d", resp.Code)
	}
	var result notifyservice.DeliveryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success || result.FailureReason == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSendMissingFields(t *testing.T) {
	deliverer := &fakeDeliverer{}
	r, _ := setup(deliverer)

	form := url.Values{}
	form.Set("phone_number", "+919876543210")
	if resp := postForm(r, form); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", resp.Code)
	}

	form = url.Values{}
	form.Set("message", "hi")
	if resp := postForm(r, form); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing phone_number, got %d", resp.Code)
	}
	if deliverer.calls != 0 {
		t.Fatalf("deliverer must not be called, got %d", deliverer.calls)
	}
}

func TestSendDisabled(t *testing.T) {
	r, _ := setup(nil)

	form := url.Values{}
	form.Set("phone_number", "+919876543210")
	form.Set("message", "hi")

	if resp := postForm(r, form); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when messaging is disabled, got %d", resp.Code)
	}
}
