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

	"github.com/estudiante-elite/backend/internal/config"
	"github.com/estudiante-elite/backend/internal/events"
	"github.com/estudiante-elite/backend/internal/handler"
	"github.com/estudiante-elite/backend/internal/service/ai"
	"github.com/estudiante-elite/backend/internal/service/session"
	"github.com/estudiante-elite/backend/internal/service/transcribe"
	"github.com/estudiante-elite/backend/internal/service/tutor"
	"github.com/estudiante-elite/backend/internal/store"
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

	conversationStore, err := newStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize conversation store: %v", err)
	}

	responder, err := newResponder(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize tutor responder: %v", err)
	}

	hub := events.NewHub()
	sessions := session.NewService(conversationStore, responder, hub)

	deps := handler.Deps{
		Store:    conversationStore,
		Sessions: sessions,
		Hub:      hub,
	}

	if cfg.Webhook.SummaryURL != "" {
		deps.Summary = tutor.NewSummaryClient(cfg.Webhook.SummaryURL, cfg.Webhook.Timeout)
		log.Println("summary generation enabled")
	} else {
		log.Println("SUMMARY_WEBHOOK_URL not set, summary generation disabled")
	}

	if cfg.Webhook.TranscribeURL != "" {
		deps.Transcriber = transcribe.NewClient(cfg.Webhook.TranscribeURL, cfg.Webhook.Timeout)
		log.Println("voice transcription enabled")
	} else {
		log.Println("TRANSCRIBE_WEBHOOK_URL not set, voice transcription disabled")
	}

	router := handler.NewRouter(deps)
	startServer(ctx, cfg.Server, router)
}

// newStore picks the durable store implementation: hosted when configured,
// local sqlite as fallback, in-memory for credential-less development.
func newStore(cfg config.StoreConfig) (store.Store, error) {
	switch {
	case cfg.SupabaseURL != "":
		log.Printf("using hosted conversation store at %s", cfg.SupabaseURL)
		return store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey), nil
	case cfg.SQLitePath != "":
		log.Printf("using sqlite conversation store at %s", cfg.SQLitePath)
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		log.Println("no store configured, conversations will not survive restarts")
		return store.NewMemoryStore(), nil
	}
}

// newResponder prefers the workflow webhook; the direct chat model is the
// fallback when only model credentials are present.
func newResponder(ctx context.Context, cfg *config.Config) (tutor.Responder, error) {
	if cfg.Webhook.TutorURL != "" {
		log.Println("tutor responses served by workflow webhook")
		return tutor.NewWebhookClient(cfg.Webhook.TutorURL, cfg.Webhook.Timeout), nil
	}
	if cfg.AI.Enabled() {
		log.Println("tutor responses served by direct chat model")
		return ai.NewService(ctx, cfg.AI)
	}
	return nil, errors.New("no tutor backend configured: set TUTOR_WEBHOOK_URL or Ark model credentials")
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Estudiante Elite backend listening on %s", serverCfg.Addr)
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
