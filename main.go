package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/events"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/llm"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/resource"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/auth"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/classifier"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/config"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/drafts"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/logging"
	store "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/repository"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/service"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
	handler "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/ws"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/policy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "router: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting router",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("resource_api_url", cfg.ResourceAPIURL),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("draft_backend", cfg.DraftBackend),
		zap.String("events_backend", cfg.EventsBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	draftStore, closeDrafts, err := newDraftStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeDrafts()

	// Initialize policy engine
	data, err := tools.PolicyData()
	if err != nil {
		return fmt.Errorf("failed to render policy data: %w", err)
	}
	policyEngine, err := policy.NewEngine(ctx, policy.GuardPolicy, data)
	if err != nil {
		return fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	// Initialize classifier
	llmClient, err := llm.NewLLMClient(ctx, llm.Options{
		Provider:     cfg.LLMProvider,
		BaseURL:      cfg.LLMBaseURL,
		APIKey:       cfg.LLMAPIKey,
		Model:        cfg.LLMModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		Timeout:      cfg.LLMTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	publisher, err := events.New(events.Options{
		Backend:      cfg.EventsBackend,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	// Initialize service
	svc := service.New(service.Deps{
		Store:      db,
		Classifier: classifier.New(llmClient),
		Policy:     policyEngine,
		Drafts:     drafts.NewManager(draftStore, cfg.DraftTTL, logger),
		API:        resource.NewClient(cfg.ResourceAPIURL, cfg.ResourceTimeout),
		Publisher:  publisher,
		Config:     cfg,
		Logger:     logger,
	})

	server := handler.NewServer(svc, auth.NewVerifier(cfg.JWTSecret), ws.DefaultOptions(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		logger.Info("HTTP API started", zap.String("addr", addr))
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		svc.RunDraftSweeper(gctx, cfg.DraftSweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down router")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown HTTP server gracefully", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("router stopped")
	return nil
}

// newDraftStore selects the draft backend. The returned func releases it.
func newDraftStore(ctx context.Context, cfg *config.Config, db *store.SQLiteStore) (drafts.Store, func(), error) {
	switch cfg.DraftBackend {
	case "", "memory":
		return drafts.NewMemoryStore(), func() {}, nil
	case "sqlite":
		return db, func() {}, nil
	case "postgres":
		pg, err := drafts.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres drafts: %w", err)
		}
		return pg, pg.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown draft backend %q", cfg.DraftBackend)
}
