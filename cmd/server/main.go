package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amlgate/internal/history"
	jwttoken "amlgate/internal/jwt_token"
	"amlgate/internal/platform/config"
	"amlgate/internal/platform/httpserver"
	"amlgate/internal/platform/logger"
	"amlgate/internal/platform/metrics"
	"amlgate/internal/platform/postgres"
	platformredis "amlgate/internal/platform/redis"
	"amlgate/internal/profile"
	"amlgate/internal/screening/payload"
	"amlgate/internal/screening/pipeline"
	"amlgate/internal/screening/provider"
	httptransport "amlgate/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var profileStore profile.Store
	var historyStore history.Store
	if db != nil {
		defer db.Close()
		profileStore = profile.NewPostgres(db)
		historyStore = history.NewPostgres(db)
		log.Info("using postgres-backed stores")
	} else {
		profileStore = profile.NewInMemoryStore()
		historyStore = history.NewInMemoryStore()
		log.Warn("AMLGATE_DATABASE_URL not set, using in-memory stores")
	}

	profileOpts := []profile.Option{
		profile.WithLogger(log),
		profile.WithMetrics(m),
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		profileOpts = append(profileOpts,
			profile.WithCache(profile.NewRedisCache(redisClient.Client, config.ProfileCacheTTL, log)))
		log.Info("profile cache enabled", "ttl", config.ProfileCacheTTL)
	}
	profiles := profile.NewService(profileStore, profileOpts...)

	historyOpts := []history.Option{
		history.WithLogger(log),
		history.WithMetrics(m),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		mirror, err := history.NewKafkaMirror(cfg.Kafka.Brokers, cfg.Kafka.HistoryTopic, log)
		if err != nil {
			log.Error("kafka mirror setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mirror.Close(ctx); err != nil {
				log.Warn("kafka mirror close failed", "error", err)
			}
		}()
		historyOpts = append(historyOpts, history.WithMirror(mirror))
		log.Info("search history mirrored to kafka", "topic", cfg.Kafka.HistoryTopic)
	}
	audit := history.NewService(historyStore, historyOpts...)

	checker := provider.NewClient(provider.Config{
		BaseURL:  cfg.Provider.BaseURL,
		Username: cfg.Provider.Username,
		Secret:   cfg.Provider.Secret,
		Timeout:  cfg.Provider.Timeout,
	})
	builder := payload.New(payload.WithLogger(log))
	screener := pipeline.New(profiles, builder, checker, audit,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(m),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "amlgate", "amlgate-api")
	router := httptransport.NewRouter(
		httptransport.NewProfileHandler(screener, profiles, log),
		httptransport.NewHistoryHandler(audit, log),
		jwttoken.NewMiddlewareAdapter(jwtService),
		log,
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting amlgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
