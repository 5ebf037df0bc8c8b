// Package translate wraps the Sarvam AI translation API. Translation is
// best-effort: every failure path returns a Result carrying the original
// text so callers can continue with the untranslated input instead of
// aborting.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nidaan-ai/triage-backend/internal/config"
	"github.com/nidaan-ai/triage-backend/internal/model/triage"
)

// Result reports one translation attempt. On failure TranslatedText holds
// the original input, which is the value callers should fall back to.
type Result struct {
	Success        bool
	TranslatedText string
	SourceLanguage triage.Language
	TargetLanguage triage.Language
	FailureReason  string
}

// Service is the stateless Sarvam adapter. A nil *Service is valid and acts
// as a disabled translator.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewService builds the adapter from configuration. Returns nil when no API
// key is configured so callers can treat translation as a feature flag.
func NewService(cfg config.TranslateConfig) *Service {
	if !cfg.Enabled() {
		return nil
	}
	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{},
		timeout: cfg.Timeout,
	}
}

// Enabled reports whether the adapter can reach the translation API.
func (s *Service) Enabled() bool {
	return s != nil
}

type sarvamRequest struct {
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	Mode                string `json:"mode"`
	Model               string `json:"model"`
	EnablePreprocessing bool   `json:"enable_preprocessing"`
}

type sarvamResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate performs a single translation call with no retries. Source and
// target must be members of the supported language set.
func (s *Service) Translate(ctx context.Context, text string, source, target triage.Language) Result {
	fallback := Result{
		Success:        false,
		TranslatedText: text,
		SourceLanguage: source,
		TargetLanguage: target,
	}

	if !s.Enabled() {
		fallback.FailureReason = "translation service not configured"
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		fallback.FailureReason = "empty input"
		return fallback
	}
	if source == target {
		fallback.Success = true
		return fallback
	}
	if _, ok := triage.ParseLanguage(string(source)); !ok {
		fallback.FailureReason = fmt.Sprintf("unsupported source language %q", source)
		return fallback
	}
	if _, ok := triage.ParseLanguage(string(target)); !ok {
		fallback.FailureReason = fmt.Sprintf("unsupported target language %q", target)
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(sarvamRequest{
		Input:               text,
		SourceLanguageCode:  string(source),
		TargetLanguageCode:  string(target),
		Mode:                "formal",
		Model:               "mayura:v1",
		EnablePreprocessing: true,
	})
	if err != nil {
		fallback.FailureReason = fmt.Sprintf("encode request: %v", err)
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		fallback.FailureReason = fmt.Sprintf("build request: %v", err)
		return fallback
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[translate] %s->%s request failed: %v", source, target, err)
		fallback.FailureReason = fmt.Sprintf("request failed: %v", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[translate] %s->%s status %d: %s", source, target, resp.StatusCode, body)
		fallback.FailureReason = fmt.Sprintf("api returned status %d", resp.StatusCode)
		return fallback
	}

	var decoded sarvamResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		fallback.FailureReason = fmt.Sprintf("decode response: %v", err)
		return fallback
	}
	if strings.TrimSpace(decoded.TranslatedText) == "" {
		fallback.FailureReason = "empty translation"
		return fallback
	}

	return Result{
		Success:        true,
		TranslatedText: decoded.TranslatedText,
		SourceLanguage: source,
		TargetLanguage: target,
	}
}

// ToEnglish translates user input into the model's pivot language.
func (s *Service) ToEnglish(ctx context.Context, text string, source triage.Language) Result {
	return s.Translate(ctx, text, source, triage.English)
}

// FromEnglish translates a model response back into the user's language.
func (s *Service) FromEnglish(ctx context.Context, text string, target triage.Language) Result {
	return s.Translate(ctx, text, triage.English, target)
}
