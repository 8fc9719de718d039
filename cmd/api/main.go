package main

import (
	"context"
	"log/slog"

	"chainhistory-api/internal/config"
	"chainhistory-api/internal/db"
	httpapi "chainhistory-api/internal/http"
	"chainhistory-api/internal/service"
	"chainhistory-api/internal/telemetry"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		return
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
	})
	if err != nil {
		slog.Error("setup telemetry", "error", err)
		return
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("shutdown telemetry", "error", err)
		}
	}()

	database, err := db.OpenPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("open database", "error", err)
		return
	}
	defer database.Close()

	svc := service.New(
		database,
		service.WithAddressLimit(cfg.AddressRequestLimit),
		service.WithPageSize(cfg.HistoryPageSize),
		service.WithAuthConfig(cfg.JWTSecret, cfg.JWTIssuer),
	)
	if svc.AuthEnabled() {
		slog.Info("bearer token auth enabled", "issuer", cfg.JWTIssuer)
	}

	router := httpapi.NewRouter(svc, cfg.OTelServiceName)

	slog.Info("api listening", "port", cfg.Port, "address_limit", svc.AddressLimit())
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("run api", "error", err)
	}
}
