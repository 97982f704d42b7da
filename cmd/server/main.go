package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-backend/internal/cache"
	"catalog-backend/internal/config"
	"catalog-backend/internal/database"
	"catalog-backend/internal/handlers"
	"catalog-backend/internal/logging"
	"catalog-backend/internal/middleware"
	"catalog-backend/internal/repository"
	"catalog-backend/internal/router"
	"catalog-backend/internal/services"
	"catalog-backend/internal/websocket"
	"catalog-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log := logging.NewLogger("catalog-backend", cfg.LogLevel)
	log.WithField("env", cfg.Env).Info("starting catalog backend")

	// ──── Step 2: Run Database Migrations ────
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}
	log.Info("database migrations applied")

	// ──── Step 3: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("postgres connection failed")
	}
	defer pool.Close()
	log.Info("postgres connected")

	// ──── Step 4: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}
	defer redisClients.Close()
	log.Info("redis connected")

	// ──── Initialize Repositories ────
	stores := services.CatalogStores{
		Pointers:  repository.NewContentRepo(pool),
		Movies:    repository.NewMovieRepo(pool),
		Shows:     repository.NewShowRepo(pool),
		WebSeries: repository.NewWebSeriesRepo(pool),
		Seasons:   repository.NewSeasonRepo(pool),
		Episodes:  repository.NewEpisodeRepo(pool),
	}
	upcomingRepo := repository.NewUpcomingRepo(pool)
	demandRepo := repository.NewDemandRepo(pool)
	auditRepo := repository.NewAuditRepo(pool)
	jobRepo := repository.NewJobRepo(redisClients.Queue)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	publisher := websocket.NewPublisher(redisClients.Queue)
	railCache := cache.NewRailCache(redisClients.Queue, cfg.RailCacheTTL)

	aggregator := services.NewAggregator(stores, log)
	railService := services.NewRailService(stores, railCache, log)
	mutationService := services.NewMutationService(stores, railService, publisher, jobRepo, log)
	identity := services.NewIdentityResolver(cfg.DemandIdentityMode, cfg.IPLookupURL, log)
	demandService := services.NewDemandService(demandRepo, identity, publisher, cfg.DemandCooldown, log)
	upcomingService := services.NewUpcomingService(upcomingRepo)
	adminCatalog := services.NewAdminCatalogService(aggregator, auditRepo)
	authService := services.NewAuthService(jwtAuth, cfg.AdminUsername, cfg.AdminPasswordHash)

	// ──── Step 5: Start Cleanup Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, stores, cfg.CleanupWorkers, log.WithField("component", "cleanup"))
	workerPool.Start()

	orphanAudit := worker.NewOrphanAudit(auditRepo, log.WithField("component", "orphan_audit"))
	if err := orphanAudit.Start(cfg.OrphanAuditSchedule); err != nil {
		log.WithError(err).Fatal("invalid orphan audit schedule")
	}

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, log.WithField("component", "websocket"))

	// ──── Step 7: Start HTTP Server ────
	r := router.New(jwtAuth, router.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Catalog:   handlers.NewCatalogHandler(aggregator, railService, mutationService),
		Content:   handlers.NewContentHandler(mutationService, adminCatalog),
		Dashboard: handlers.NewDashboardHandler(adminCatalog),
		Upcoming:  handlers.NewUpcomingHandler(upcomingService),
		Demand:    handlers.NewDemandHandler(demandService),
		WebSocket: wsHub.HandleWebSocket,
	}, router.Settings{
		FrontendURL: cfg.FrontendURL,
		TrustProxy:  cfg.TrustProxyHeaders,
		Log:         log.WithField("component", "http"),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		workerPool.Stop()
		orphanAudit.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.WithField("port", cfg.Port).Info("catalog backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}
}
