package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/soilminds/soilminds-backend/api/routes"
	"github.com/soilminds/soilminds-backend/internal/auth"
	"github.com/soilminds/soilminds-backend/internal/contact"
	"github.com/soilminds/soilminds-backend/internal/farms"
	"github.com/soilminds/soilminds-backend/internal/fields"
	"github.com/soilminds/soilminds-backend/internal/readings"
	"github.com/soilminds/soilminds-backend/internal/reports"
	"github.com/soilminds/soilminds-backend/pkg/config"
	"github.com/soilminds/soilminds-backend/pkg/db"
	"github.com/soilminds/soilminds-backend/pkg/env"
	"github.com/soilminds/soilminds-backend/pkg/lock"
	"github.com/soilminds/soilminds-backend/pkg/logger"
	"github.com/soilminds/soilminds-backend/pkg/metrics"
	"github.com/soilminds/soilminds-backend/pkg/migrate"
	"github.com/soilminds/soilminds-backend/pkg/mlservice"
	"github.com/soilminds/soilminds-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	keyedLock, err := lock.NewKeyed(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create keyed lock", err)
		os.Exit(1)
	}

	mlClient, err := mlservice.NewClient(context.Background(), cfg.ML, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ml client", err)
		os.Exit(1)
	}

	fieldRepo := fields.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(dbClient.DB()),
		FieldRepo:      fieldRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	fieldService, err := fields.NewService(fields.ServiceParams{Repo: fieldRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create fields service", err)
		os.Exit(1)
	}

	farmService, err := farms.NewService(farms.ServiceParams{
		Repo:        farms.NewRepository(dbClient.DB()),
		DefaultUser: authService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create farms service", err)
		os.Exit(1)
	}

	readingService, err := readings.NewService(readings.ServiceParams{
		Repo:        readings.NewRepository(dbClient.DB()),
		Tx:          dbClient,
		Lock:        keyedLock,
		DefaultUser: authService,
		Generator:   readings.NewGenerator(nil),
		ML:          mlClient,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create readings service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.ServiceParams{
		Repo: reports.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(contact.ServiceParams{
		Repo:   contact.NewRepository(dbClient.DB()),
		Sender: contact.NewLogSender(logg),
		Config: cfg.Contact,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// PaaS platforms inject a bare PORT that takes precedence.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.New(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Metrics:  httpMetrics,
			Registry: registry,
			DB:       dbClient,
			Cache:    redisClient,
			Auth:     authService,
			Farms:    farmService,
			Fields:   fieldService,
			Readings: readingService,
			Reports:  reportService,
			Contact:  contactService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
