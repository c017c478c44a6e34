package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	authHttp "reporting-service/internal/auth/adapters/http/fiber"
	jwtadapter "reporting-service/internal/auth/adapters/jwt"
	authPg "reporting-service/internal/auth/adapters/postgres"
	authUsecase "reporting-service/internal/auth/core/usecase"

	errorsHttp "reporting-service/internal/errorlog/adapters/http/fiber"
	errorsPg "reporting-service/internal/errorlog/adapters/postgres"
	errorsUsecase "reporting-service/internal/errorlog/core/usecase"

	reportsHttp "reporting-service/internal/reports/adapters/http/fiber"
	reportsPg "reporting-service/internal/reports/adapters/postgres"
	reportsUsecase "reporting-service/internal/reports/core/usecase"

	"reporting-service/internal/cache"
	"reporting-service/internal/config"
	"reporting-service/internal/httpcache"
	"reporting-service/internal/logger"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "reporting-service/docs"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("info")
		fallbackLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	// DB connection
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping postgres")
	}

	// Shared TTL cache: domain-level report caches and the response
	// cache middleware use the same store under distinct keys.
	store := cache.NewWithJanitor(cfg.Cache.SweepInterval)
	defer store.Stop()

	// Auth wiring
	authDB := authPg.NewSQLDB(db)
	credentialRepository := authPg.NewCredentialRepository(authDB)
	tokenIssuer := jwtadapter.NewIssuer(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)

	registerUC := authUsecase.NewRegisterUseCase(credentialRepository)
	loginUC := authUsecase.NewLoginUseCase(credentialRepository, tokenIssuer)
	refreshUC := authUsecase.NewRefreshUseCase(credentialRepository, tokenIssuer)

	// Reports wiring
	reportsDB := reportsPg.NewSQLDB(db)
	adsSource := reportsPg.NewAdsMirrorRepository(reportsDB)
	trafficSource := reportsPg.NewTrafficMirrorRepository(reportsDB)
	salesSource := reportsPg.NewSalesLedgerRepository(reportsDB)
	searchSource := reportsPg.NewSearchMirrorRepository(reportsDB)

	adsPerformanceUC := reportsUsecase.NewAdsPerformanceUseCase(adsSource, store, cfg.Cache.ReportTTL)
	adsCostsUC := reportsUsecase.NewAdsCostsUseCase(adsSource, store, cfg.Cache.ReportTTL)
	analyticsUC := reportsUsecase.NewAnalyticsUseCase(trafficSource, store, cfg.Cache.ReportTTL)
	salesUC := reportsUsecase.NewSalesUseCase(salesSource, store, cfg.Cache.ReportTTL)
	searchUC := reportsUsecase.NewSearchUseCase(searchSource, store, cfg.Cache.ReportTTL)

	// Error log wiring
	errorsDB := errorsPg.NewSQLDB(db)
	errorRepository := errorsPg.NewErrorRepository(errorsDB)
	logErrorUC := errorsUsecase.NewLogErrorUseCase(errorRepository)
	queryErrorsUC := errorsUsecase.NewQueryErrorsUseCase(errorRepository, store, cfg.Cache.VolatileTTL)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	api := app.Group("/api")

	// auth endpoints (public)
	authHandler := authHttp.NewAuthHandler(registerUC, loginUC, refreshUC, log)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)

	// everything below requires a bearer token
	api.Use(authHttp.RequireAuth(tokenIssuer))

	reportCache := httpcache.New(store, cfg.Cache.ReportTTL)
	volatileCache := httpcache.New(store, cfg.Cache.VolatileTTL)

	// report endpoints
	reportsHandler := reportsHttp.NewReportsHandler(adsPerformanceUC, adsCostsUC, analyticsUC, salesUC, searchUC, log)
	api.Get("/ads/performance", reportCache, reportsHandler.AdsPerformance)
	api.Get("/ads/costs", reportCache, reportsHandler.AdsCosts)
	api.Get("/analytics/overview", reportCache, reportsHandler.AnalyticsOverview)
	api.Get("/analytics/traffic", reportCache, reportsHandler.TrafficSources)
	api.Get("/sales/summary", reportCache, reportsHandler.SalesSummary)
	api.Get("/sales/transactions", reportCache, reportsHandler.SalesTransactions)
	api.Get("/search/keywords", reportCache, reportsHandler.SearchKeywords)

	// error log endpoints
	errorHandler := errorsHttp.NewErrorLogHandler(logErrorUC, queryErrorsUC, log)
	api.Post("/errors", errorHandler.LogError)
	api.Get("/errors/recent", volatileCache, errorHandler.RecentErrors)
	api.Get("/errors/stats", volatileCache, errorHandler.ErrorStats)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Error().Err(err).Msg("fiber stopped")
		}
	}()

	log.Info().Str("addr", cfg.Server.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown error")
	}

	log.Info().Msg("server exiting")
}
