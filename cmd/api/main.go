package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nidaan-ai/triage-backend/internal/config"
	"github.com/nidaan-ai/triage-backend/internal/handler"
	notifyHandler "github.com/nidaan-ai/triage-backend/internal/handler/notify"
	triageHandler "github.com/nidaan-ai/triage-backend/internal/handler/triage"
	"github.com/nidaan-ai/triage-backend/internal/service/assess"
	"github.com/nidaan-ai/triage-backend/internal/service/audit"
	notifyService "github.com/nidaan-ai/triage-backend/internal/service/notify"
	translateService "github.com/nidaan-ai/triage-backend/internal/service/translate"
	triageService "github.com/nidaan-ai/triage-backend/internal/service/triage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The Gemini-backed assessor is the one mandatory adapter.
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize Gemini chat model: %v", err)
	}
	assessor := assess.NewService(chatModel, cfg.AI.Timeout)
	log.Printf("assessment model initialized: %s", cfg.AI.Model)

	// Translation and messaging degrade to feature flags when unconfigured.
	translator := translateService.NewService(cfg.Translate)
	if translator.Enabled() {
		log.Println("Sarvam translation service initialized")
	} else {
		log.Println("SARVAM_API_KEY not set, translation disabled")
	}

	var deliverer notifyHandler.Deliverer
	notifier := notifyService.NewService(cfg.Messaging)
	if notifier.Enabled() {
		deliverer = notifier
		log.Println("Twilio WhatsApp relay initialized")
	} else {
		log.Println("Twilio credentials not set, WhatsApp relay disabled")
	}

	auditSvc := audit.NewService()

	var pipelineTranslator triageService.Translator
	if translator.Enabled() {
		pipelineTranslator = translator
	}
	pipeline := triageService.NewService(pipelineTranslator, assessor, auditSvc)

	router := handler.NewRouter(pipeline, deliverer, auditSvc, triageHandler.Features{
		Translation: translator.Enabled(),
		WhatsApp:    notifier.Enabled(),
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("NIDAAN triage backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
