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

	"golang.org/x/sync/errgroup"

	"github.com/lesmnif/echoes/internal/clients/openai"
	"github.com/lesmnif/echoes/internal/config"
	"github.com/lesmnif/echoes/internal/data/db"
	"github.com/lesmnif/echoes/internal/data/repos"
	"github.com/lesmnif/echoes/internal/handlers"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/server"
	"github.com/lesmnif/echoes/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading configuration from main...")
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	identityRepo := repos.NewIdentityRepo(thePG, log)
	journalRepo := repos.NewJournalRepo(thePG, log)
	generationRepo := repos.NewGenerationRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	openaiClient, err := openai.NewClient(cfg, log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	rasterizer, err := services.NewRasterizer(cfg, log)
	if err != nil {
		log.Error("Could not init Rasterizer", "error", err)
		os.Exit(1)
	}
	journalService := services.NewJournalService(cfg, log, identityRepo, journalRepo)
	generationService := services.NewGenerationService(cfg, log, openaiClient, generationRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	generationHandler := handlers.NewGenerationHandler(generationService, log)
	journalHandler := handlers.NewJournalHandler(journalService)
	postsHandler := handlers.NewPostsHandler(generationService, rasterizer, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		GenerationHandler: generationHandler,
		JournalHandler:    journalHandler,
		PostsHandler:      postsHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Server listening on :%s\n", cfg.Port)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
	}
}
