package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/features/search"
	"talentmatch/apps/backend/features/stats"
	syncfeature "talentmatch/apps/backend/features/sync"
	"talentmatch/apps/backend/internal/adapter/gemini"
	"talentmatch/apps/backend/internal/adapter/geocode"
	"talentmatch/apps/backend/internal/adapter/rates"
	"talentmatch/apps/backend/internal/adapter/rediscache"
	"talentmatch/apps/backend/internal/config"
	"talentmatch/apps/backend/internal/feed"
	"talentmatch/apps/backend/internal/filter"
	"talentmatch/apps/backend/internal/geo"
	"talentmatch/apps/backend/internal/middleware"
	"talentmatch/apps/backend/internal/vocab"

	"github.com/redis/go-redis/v9"
)

// Database is the subset of *sql.DB the wiring needs; repositories still
// take the concrete type.
type Database interface {
	PingContext(ctx context.Context) error
}

// VectorStore is the composite index surface: schema management plus the
// ingestion and search operations.
type VectorStore interface {
	EnsureSchema(ctx context.Context) error
	FetchExisting(ctx context.Context, id string) (*syncfeature.ExistingRecord, error)
	Upsert(ctx context.Context, p *job.Posting, vector []float32) error
	Search(ctx context.Context, vector []float32, where *filter.Clause, limit int) ([]search.Match, error)
	CountPostings(ctx context.Context) (int, error)
}

type TaskPublisher interface {
	Publish(topic string, body []byte) error
}

type App struct {
	Handler  http.Handler
	Consumer *syncfeature.Consumer
	Poller   *feed.Poller

	port int
}

func New(
	cfg *config.Config,
	db Database,
	vecStore VectorStore,
	taskPub TaskPublisher,
	rdb *redis.Client,
) (*App, error) {
	ctx := context.Background()

	// Cast db to *sql.DB for repositories that require it. The interface in
	// the signature keeps the wiring mockable with sqlmock.
	sqlDB := db.(*sql.DB)

	// Feature: Vocabulary
	vocabRepo := vocab.NewPostgresRepo(sqlDB)
	vocabService := vocab.NewService(vocabRepo)
	if err := vocabService.Seed(ctx); err != nil {
		slog.Warn("failed to seed vocabulary defaults", "error", err)
	}
	vocabHandler := vocab.NewHandler(vocabService)

	// Checkpoints
	checkpoints := syncfeature.NewPostgresCheckpoints(sqlDB)

	// Adapters
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("gemini embedder: %w", err)
	}

	var geoCache geo.Cache
	if rdb != nil {
		geoCache = rediscache.New(rdb, "talentmatch:", time.Duration(cfg.GeoCacheTTLHours)*time.Hour)
	}
	geoResolver := geo.NewResolver(geocode.NewClient(cfg.GeocodeURL), geoCache, cfg.GeoConcurrency)

	rateSource := rates.NewCached(rates.NewClient(cfg.RatesURL),
		time.Duration(cfg.RateFreshnessHours)*time.Hour)

	// Feature: Sync
	syncService := syncfeature.NewService(embedder, vecStore, geoResolver, rateSource, vocabService)
	syncConsumer := syncfeature.NewConsumer(syncService, checkpoints)
	syncHandler := syncfeature.NewHandler(syncService)

	// Feature: Search
	queryLogger, err := search.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = search.NewQueryLogger(os.Stdout)
	}
	searchService := search.NewService(embedder, vecStore, geoResolver, queryLogger,
		cfg.MinScore, cfg.SearchLimit, cfg.DefaultPageSize)
	searchHandler := search.NewHandler(searchService)

	// Feature: Stats
	statsHandler := stats.NewHandler(vecStore, checkpoints)

	// Feed poller
	var poller *feed.Poller
	if cfg.EnablePoller {
		poller = feed.NewPoller(feed.NewClient(cfg.FeedURL), taskPub, checkpoints, cfg.PollIntervalMinutes)
	}

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /jobs/search", middleware.CorrelationID(enableCORS(searchHandler.Search)))
	mux.Handle("POST /sync", middleware.CorrelationID(enableCORS(syncHandler.Sync)))

	mux.Handle("GET /vocabulary", middleware.CorrelationID(enableCORS(vocabHandler.GetVocabulary)))
	mux.Handle("PUT /vocabulary", middleware.CorrelationID(enableCORS(vocabHandler.UpdateVocabulary)))

	mux.Handle("GET /stats", middleware.CorrelationID(enableCORS(statsHandler.Stats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler:  mux,
		Consumer: syncConsumer,
		Poller:   poller,
		port:     cfg.ServerPort,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
