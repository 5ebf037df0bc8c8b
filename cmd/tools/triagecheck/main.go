// triagecheck exercises the translation and assessment adapters against the
// real vendor APIs, outside the HTTP server. Useful when rotating keys or
// debugging model output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nidaan-ai/triage-backend/internal/config"
	"github.com/nidaan-ai/triage-backend/internal/model/triage"
	"github.com/nidaan-ai/triage-backend/internal/service/assess"
	"github.com/nidaan-ai/triage-backend/internal/service/translate"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] could not load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	text := flag.String("text", "", "symptom text to triage")
	langFlag := flag.String("lang", "en", "input language code (en, hi, ta, ...)")
	imagePath := flag.String("image", "", "optional image file to attach")
	timeout := flag.Duration("timeout", 45*time.Second, "overall deadline")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		log.Fatal("provide symptom text with -text")
	}

	language, ok := triage.ParseLanguage(*langFlag)
	if !ok {
		log.Fatalf("unsupported language %q", *langFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	englishText := *text
	if !language.IsEnglish() {
		translator := translate.NewService(cfg.Translate)
		if !translator.Enabled() {
			log.Fatal("non-English input but SARVAM_API_KEY is not set")
		}
		result := translator.ToEnglish(ctx, *text, language)
		if !result.Success {
			log.Printf("[WARN] translation failed (%s), assessing original text", result.FailureReason)
		}
		englishText = result.TranslatedText
		log.Printf("translated input: %s", englishText)
	}

	var image *triage.Image
	if *imagePath != "" {
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			log.Fatalf("failed to read image: %v", err)
		}
		image = &triage.Image{Data: data, MIMEType: http.DetectContentType(data)}
		log.Printf("attached image: %d bytes (%s)", len(data), image.MIMEType)
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize Gemini chat model: %v", err)
	}

	assessment, err := assess.NewService(chatModel, cfg.AI.Timeout).Assess(ctx, englishText, image)
	if err != nil {
		log.Fatalf("assessment failed: %v", err)
	}

	out, _ := json.MarshalIndent(assessment, "", "  ")
	fmt.Println(string(out))
}
