// Package assess wraps the generative model behind a typed contract. All
// model interaction happens in English; translation stays at the pipeline
// boundary so the prompt and response contract are language-invariant.
package assess

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nidaan-ai/triage-backend/internal/model/triage"
)

var (
	// ErrModel covers transport, auth and empty-reply failures.
	ErrModel = errors.New("model request failed")
	// ErrParse covers replies that cannot be decoded into an assessment.
	ErrParse = errors.New("model output could not be parsed")
)

// Service is the stateless risk-assessment adapter.
type Service struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// NewService wraps an already-constructed chat model.
func NewService(chatModel model.BaseChatModel, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{chatModel: chatModel, timeout: timeout}
}

// modelPayload mirrors the JSON shape the prompt demands from the model.
type modelPayload struct {
	Risk          string `json:"risk"`
	DoctorSummary string `json:"doctor_summary"`
	Advice        string `json:"advice"`
}

// Assess sends English symptom text plus an optional image to the model and
// decodes the reply into a strictly-typed Assessment. Risk values outside
// the three known levels are coerced to MODERATE.
func (s *Service) Assess(ctx context.Context, englishText string, image *triage.Image) (triage.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []*schema.Message{
		schema.SystemMessage(triagePrompt),
		buildUserMessage(englishText, image),
	}

	reply, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return triage.Assessment{}, fmt.Errorf("%w: %v", ErrModel, err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return triage.Assessment{}, fmt.Errorf("%w: empty reply", ErrModel)
	}

	payload, err := parseModelOutput(reply.Content)
	if err != nil {
		log.Printf("[assess] unparseable model output (%d chars): %v", len(reply.Content), err)
		return triage.Assessment{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	assessment := triage.Assessment{
		Risk:    triage.CoerceRisk(payload.Risk),
		Summary: strings.TrimSpace(payload.DoctorSummary),
		Advice:  strings.TrimSpace(payload.Advice),
	}
	if assessment.Summary == "" {
		assessment.Summary = "No detailed summary available."
	}
	if assessment.Advice == "" {
		assessment.Advice = "Please consult a medical professional."
	}

	return assessment, nil
}

func buildUserMessage(englishText string, image *triage.Image) *schema.Message {
	text := "Patient Symptoms:\n" + englishText

	if image == nil || len(image.Data) == 0 {
		return schema.UserMessage(text)
	}

	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image.Data))

	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: text,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      dataURL,
					MIMEType: mimeType,
				},
			},
		},
	}
}

// parseModelOutput extracts the first JSON object from the reply. Models
// occasionally wrap the payload in code fences or prose despite the
// strict-JSON instruction.
func parseModelOutput(content string) (*modelPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &modelPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}
