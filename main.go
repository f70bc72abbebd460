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

	"github.com/parisxmas/OxiDB/OxiIntake/internal/config"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/handler"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/kv"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/logging"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/notify"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/plaid"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/prefill"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/repository"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/router"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/telemetry"
)

const serviceName = "oxintake"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.Config{Level: cfg.LogLevel, ServiceName: serviceName, Version: version, GELFAddr: cfg.GELFAddr}
	log, logCloser, err := logging.New(logCfg)
	if err != nil {
		// GELF is optional; keep stdout logging.
		logCfg.GELFAddr = ""
		log, logCloser, _ = logging.New(logCfg)
		log.Warn().Err(err).Str("addr", cfg.GELFAddr).Msg("GELF init failed")
	} else if cfg.GELFAddr != "" {
		log.Info().Str("addr", cfg.GELFAddr).Msg("GELF logging enabled")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, serviceName)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}

	store, err := kv.Open(ctx, kv.Options{
		Backend:     cfg.Store,
		OxiDBHost:   cfg.OxiDBHost,
		OxiDBPort:   cfg.OxiDBPort,
		PoolSize:    cfg.PoolSize,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store).Msg("failed to open store")
	}
	defer store.Close()

	defaults, err := config.LoadCaseDefaults(cfg.CaseDefaultsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load case defaults")
	}

	var mailer notify.Mailer = notify.Disabled{}
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewResend(cfg.ResendAPIKey)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set; submission emails will fail")
	}

	plaidClient, err := plaid.New(plaid.Config{ClientID: cfg.PlaidClientID, Secret: cfg.PlaidSecret, Env: cfg.PlaidEnv})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure Plaid")
	}

	// Repositories
	caseRepo := repository.NewCaseRepo(store)
	subRepo := repository.NewSubmissionRepo(store)

	// Services
	autosaveSvc := service.NewAutosaveService(caseRepo, defaults, log)
	submitSvc := service.NewSubmissionService(subRepo, registry.Intake, mailer,
		service.MailConfig{From: cfg.FromEmail, To: []string{cfg.NotifyEmail}}, log)
	adminSvc := service.NewAdminService(subRepo, log)
	authSvc, err := service.NewAuthService(cfg.AdminPassword, cfg.JWTSecret, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}
	prefillSvc := prefill.NewService(plaidClient, log)

	// Handlers
	r := router.New(cfg.JWTSecret, log,
		handler.NewAutosaveHandler(autosaveSvc, cfg.AutosaveDelay),
		handler.NewSubmitHandler(submitSvc),
		handler.NewPrefillHandler(prefillSvc),
		handler.NewAuthHandler(authSvc),
		handler.NewAdminHandler(adminSvc, registry.Intake),
		handler.NewDashboardHandler(adminSvc),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Int("steps", registry.Intake.Len()).Msg("OxiIntake server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	<-done
}
