// Package notify relays triage reports to WhatsApp through Twilio. Delivery
// is an explicitly user-triggered side effect and never blocks or alters
// the triage response itself.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/nidaan-ai/triage-backend/internal/config"
)

// ErrInvalidPhoneNumber is returned before any network call when the number
// is not valid E.164.
var ErrInvalidPhoneNumber = errors.New("phone number must be E.164 (+<country code><number>)")

// DeliveryResult reports one delivery attempt. Provider-side failures are
// carried here rather than as Go errors so the handler can relay them
// in-band.
type DeliveryResult struct {
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	FailureReason     string `json:"failureReason,omitempty"`
}

// messageCreator is the slice of the Twilio SDK the adapter needs; tests
// substitute a fake.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Service wraps the Twilio WhatsApp API. A nil *Service acts as a disabled
// relay.
type Service struct {
	creator messageCreator
	from    string
}

// NewService builds the adapter from configuration. Returns nil when the
// Twilio credentials are incomplete.
func NewService(cfg config.MessagingConfig) *Service {
	if !cfg.Enabled() {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	// The Twilio SDK has no per-call context, so the delivery timeout is
	// enforced on its HTTP client.
	client.Client.SetTimeout(cfg.Timeout)
	return &Service{
		creator: client.Api,
		from:    cfg.WhatsAppFrom,
	}
}

// Enabled reports whether the relay is configured.
func (s *Service) Enabled() bool {
	return s != nil
}

// NormalizePhoneNumber strips separators and validates E.164: a leading
// "+", then 8 to 15 digits with a non-zero first digit. Numbers without a
// country code are rejected rather than guessed at.
func NormalizePhoneNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, drop
		default:
			return "", ErrInvalidPhoneNumber
		}
	}

	number := b.String()
	if !strings.HasPrefix(number, "+") {
		return "", ErrInvalidPhoneNumber
	}
	digits := number[1:]
	if len(digits) < 8 || len(digits) > 15 || digits[0] == '0' {
		return "", ErrInvalidPhoneNumber
	}
	return number, nil
}

// Deliver sends one WhatsApp message. The phone number is validated before
// any network call; provider failures come back inside the DeliveryResult.
func (s *Service) Deliver(ctx context.Context, phoneNumber, message string) (DeliveryResult, error) {
	normalized, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return DeliveryResult{Success: false, FailureReason: err.Error()}, err
	}
	if strings.TrimSpace(message) == "" {
		return DeliveryResult{Success: false, FailureReason: "message is empty"}, errors.New("message is empty")
	}
	if err := ctx.Err(); err != nil {
		return DeliveryResult{Success: false, FailureReason: "request cancelled"}, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(whatsAppAddress(s.from))
	params.SetTo(whatsAppAddress(normalized))
	params.SetBody(message)

	resp, err := s.creator.CreateMessage(params)
	if err != nil {
		log.Printf("[notify] whatsapp delivery to %s failed: %v", maskNumber(normalized), err)
		return DeliveryResult{Success: false, FailureReason: "failed to send WhatsApp message"}, nil
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Printf("[notify] whatsapp sent to %s sid=%s", maskNumber(normalized), sid)
	return DeliveryResult{Success: true, ProviderMessageID: sid}, nil
}

// FormatReport wraps a triage report in the WhatsApp message template.
func FormatReport(report string) string {
	return fmt.Sprintf(`🏥 *NIDAAN-AI Medical Report*

%s

━━━━━━━━━━━━━━━━━━━━━━━
⚕️ AI-generated report. Consult a healthcare professional.
📱 Emergency: Call 108`, strings.TrimSpace(report))
}

// whatsAppAddress prefixes a number with the Twilio WhatsApp scheme unless
// the configured sender already carries it.
func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// maskNumber keeps only the country code and the last two digits in logs.
func maskNumber(number string) string {
	if len(number) < 6 {
		return "***"
	}
	return number[:3] + strings.Repeat("*", len(number)-5) + number[len(number)-2:]
}
