package config

import (
	"testing"
	"time"
)

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected startup failure without GEMINI_API_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("SARVAM_API_KEY", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %q", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 10*time.Second {
		t.Fatalf("unexpected AI timeout: %s", cfg.AI.Timeout)
	}
	if cfg.Translate.Enabled() {
		t.Fatal("translation must be disabled without SARVAM_API_KEY")
	}
	if cfg.Messaging.Enabled() {
		t.Fatal("messaging must be disabled without Twilio credentials")
	}
	if cfg.Messaging.Timeout != 5*time.Second {
		t.Fatalf("unexpected messaging timeout: %s", cfg.Messaging.Timeout)
	}
}

func TestLoadFeatureFlags(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SARVAM_API_KEY", "sarvam-key")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.Translate.Enabled() {
		t.Fatal("translation should be enabled")
	}
	if !cfg.Messaging.Enabled() {
		t.Fatal("messaging should be enabled")
	}
}

func TestLoadPortPassthrough(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("AI_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}
