package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Config aggregates every setting the service reads at startup. It is built
// once and passed explicitly into each adapter constructor; nothing reads
// the environment after Load returns.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Translate TranslateConfig
	Messaging MessagingConfig
}

// Load reads configuration from environment variables. A missing Gemini API
// key is a startup failure; missing translation or messaging credentials
// only disable those features.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	translate, err := loadTranslateConfig()
	if err != nil {
		return nil, err
	}

	messaging, err := loadMessagingConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Translate: translate, Messaging: messaging}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Gemini model used for risk assessment.
type AIConfig struct {
	APIKey      string
	Model       string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Timeout     time.Duration
}

// NewChatModel builds the eino chat model backed by the Gemini API.
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
}

func loadAIConfig() (AIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return AIConfig{}, fmt.Errorf("GEMINI_API_KEY is required")
	}

	temperature, err := parseOptionalFloatEnv("GEMINI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("GEMINI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("GEMINI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseTimeoutEnv("AI_TIMEOUT_SECONDS", 10)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      apiKey,
		Model:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
		Timeout:     timeout,
	}, nil
}

// TranslateConfig describes the Sarvam AI translation service.
type TranslateConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Enabled reports whether translation credentials were provided.
func (c TranslateConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadTranslateConfig() (TranslateConfig, error) {
	timeout, err := parseTimeoutEnv("TRANSLATE_TIMEOUT_SECONDS", 10)
	if err != nil {
		return TranslateConfig{}, err
	}

	return TranslateConfig{
		APIKey:  strings.TrimSpace(os.Getenv("SARVAM_API_KEY")),
		BaseURL: getEnvOrDefault("SARVAM_BASE_URL", "https://api.sarvam.ai/translate"),
		Timeout: timeout,
	}, nil
}

// MessagingConfig describes the Twilio WhatsApp relay.
type MessagingConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
	Timeout      time.Duration
}

// Enabled reports whether all Twilio credentials were provided.
func (c MessagingConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.WhatsAppFrom != ""
}

func loadMessagingConfig() (MessagingConfig, error) {
	timeout, err := parseTimeoutEnv("NOTIFY_TIMEOUT_SECONDS", 5)
	if err != nil {
		return MessagingConfig{}, err
	}

	return MessagingConfig{
		AccountSID:   strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		AuthToken:    strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		WhatsAppFrom: strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_NUMBER")),
		Timeout:      timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseTimeoutEnv(key string, defaultSeconds int) (time.Duration, error) {
	seconds, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if seconds == nil {
		return time.Duration(defaultSeconds) * time.Second, nil
	}
	if *seconds < 1 {
		return 0, fmt.Errorf("invalid %s value %d: must be at least 1", key, *seconds)
	}
	return time.Duration(*seconds) * time.Second, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
