package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dp-213/insoledger/internal/allocation"
	allocationStore "github.com/dp-213/insoledger/internal/allocation/store"
	"github.com/dp-213/insoledger/internal/auth"
	"github.com/dp-213/insoledger/internal/breakdown"
	breakdownStore "github.com/dp-213/insoledger/internal/breakdown/store"
	"github.com/dp-213/insoledger/internal/config"
	"github.com/dp-213/insoledger/internal/database"
	"github.com/dp-213/insoledger/internal/forecast"
	forecastStore "github.com/dp-213/insoledger/internal/forecast/store"
	insoHttp "github.com/dp-213/insoledger/internal/http"
	allocationHandler "github.com/dp-213/insoledger/internal/http/allocation"
	breakdownHandler "github.com/dp-213/insoledger/internal/http/breakdown"
	forecastHandler "github.com/dp-213/insoledger/internal/http/forecast"
	ledgerHandler "github.com/dp-213/insoledger/internal/http/ledgerentry"
	sessionHandler "github.com/dp-213/insoledger/internal/http/session"
	"github.com/dp-213/insoledger/internal/ledger"
	ledgerStore "github.com/dp-213/insoledger/internal/ledger/store"
	"github.com/dp-213/insoledger/internal/split"
	splitStore "github.com/dp-213/insoledger/internal/split/store"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.Secret == "" || cfg.Auth.AdminPassword == "" {
		slog.Error("AUTH_SECRET and AUTH_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger := slog.Default()

	var (
		authService      = auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenLifetime, cfg.Auth.AdminUser, cfg.Auth.AdminPassword)
		ledgerService    = ledger.NewService(ledgerStore.New(db))
		breakdownService = breakdown.NewService(breakdownStore.New(db))
		splitEngine      = split.NewEngine(splitStore.New(db), logger)
		classifier       = allocation.NewClassifier(allocationStore.New(db), logger)
		composer         = forecast.NewComposer(forecastStore.New(db), nil, logger)
	)

	var (
		sessionH   = sessionHandler.NewHandler(authService)
		entriesH   = ledgerHandler.NewHandler(ledgerService)
		breakdownH = breakdownHandler.NewHandler(breakdownService, splitEngine)
		allocH     = allocationHandler.NewHandler(classifier)
		forecastH  = forecastHandler.NewHandler(composer)
	)

	router := insoHttp.New(authService, sessionH, entriesH, breakdownH, allocH, forecastH, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
