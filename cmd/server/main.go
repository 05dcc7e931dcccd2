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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"codesync/internal/api"
	"codesync/internal/config"
	"codesync/internal/jobs"
	"codesync/internal/llm"
	_ "codesync/internal/llm/gemini"
	_ "codesync/internal/llm/groq"
	"codesync/internal/metrics"
	"codesync/internal/prompts"
	"codesync/internal/routers"
	"codesync/internal/session"
	"codesync/internal/store"
	"codesync/internal/store/mongostore"
	"codesync/internal/store/redisstore"
	"codesync/internal/store/sqlstore"
	"codesync/internal/textservice"
	"codesync/internal/utils"
)

// openStore builds the document store named by the configuration. A nil
// store with a nil error means persistence is switched off.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	switch cfg.DocstoreBackend {
	case config.BackendNone, "":
		return nil, nil
	case config.BackendMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.BackendRedis:
		return redisstore.New(cfg.RedisAddr), nil
	case config.BackendSQLite:
		return sqlstore.OpenSQLite(cfg.SQLitePath)
	case config.BackendPostgres:
		return sqlstore.OpenPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported document store backend: %s", cfg.DocstoreBackend)
	}
}

type app struct {
	handler     http.Handler
	hub         *session.Hub
	sweeper     *jobs.RoomSweeper
	persistence *store.Persistence
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}

	// a missing key keeps the relay up; the text endpoints then answer with errors
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Warn("AI provider unavailable, text transforms disabled",
			zap.String("provider", cfg.Provider), zap.Error(err))
		aiProvider = &llm.Disabled{Name: cfg.Provider, Cause: err}
	}

	docStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open document store, persistence disabled",
			zap.String("backend", cfg.DocstoreBackend), zap.Error(err))
		docStore = nil
	}
	persistence := store.NewPersistence(docStore, logger)

	registry := session.NewRegistry()
	hub := session.NewHub(registry, session.NewRouter(registry, logger), logger)

	svc := textservice.New(aiProvider, promptManager, logger)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	// no Timeout middleware: websocket connections are long-lived
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, metrics.Middleware)

	routers.Register(router, routers.Handlers{
		Health:  api.NewHealthHandler(aiProvider, promptManager, persistence),
		Collab:  api.NewCollabHandler(hub, logger, cfg.SendBuffer, cfg.WriteTimeout),
		AI:      api.NewAIHandler(svc, logger),
		Project: api.NewProjectHandler(hub, persistence),
	})

	sweeper := jobs.NewRoomSweeper(hub, persistence, jobs.SweeperConfig{
		Schedule: cfg.RoomSweepSchedule,
		IdleTTL:  cfg.RoomIdleTTL,
	}, logger)

	return &app{handler: router, hub: hub, sweeper: sweeper, persistence: persistence}, nil
}

// shutdown stops background work, closes every session and drains the server.
func (a *app) shutdown(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	a.sweeper.Stop()
	a.hub.CloseAll()

	err := server.Shutdown(ctx)
	if cerr := a.persistence.Close(ctx); cerr != nil {
		logger.Warn("Failed to close document store", zap.Error(cerr))
	}
	return err
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := a.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start room sweeper: %w", err)
	}

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     a.handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("CodeSync server starting",
			zap.String("addr", serverAddr),
			zap.String("provider", cfg.Provider),
			zap.String("docstore", cfg.DocstoreBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.sweeper.Stop()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("CodeSync server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.shutdown(shutdownCtx, server, logger); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("CodeSync server exited")
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := utils.MustLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
