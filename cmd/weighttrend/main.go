package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "weighttrend/internal/adapter/http"
	"weighttrend/internal/adapter/memory"
	"weighttrend/internal/adapter/postgres"
	"weighttrend/internal/app"
	"weighttrend/internal/config"
	"weighttrend/internal/domain"
	"weighttrend/internal/logging"
	"weighttrend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const sessionPurgeInterval = time.Hour

// store is everything the services need from a storage backend.
type store interface {
	domain.WeightRepository
	domain.GoalRepository
	domain.CalorieRepository
	domain.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.Params{
		Level:       cfg.LogLevel,
		FormatJSON:  cfg.LogFormatJSON,
		FileName:    cfg.LogFile,
		LogToStdout: cfg.LogToStdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db       store
		sessions domain.SessionRepository
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = pg.Close() }()
		db, sessions = pg, postgres.NewSessionRepo(pg)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		mem := memory.New()
		db, sessions = mem, mem.NewSessionRepo()
	}

	metricsMgr := metrics.NewManager("weighttrend", "server", prometheus.DefaultRegisterer)

	authSvc := app.NewAuthService(db, sessions)
	svc := adapthttp.Services{
		Weight:     app.NewWeightService(db),
		Goals:      app.NewGoalService(db),
		Prediction: app.NewPredictionService(db, db, metricsMgr).WithWindowDays(cfg.PredictionWindowDays),
		Charts:     app.NewChartsService(db),
		Calories:   app.NewCalorieService(db, db, db),
		Auth:       authSvc,
	}

	oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC)
	if err != nil {
		log.Fatalf("sso: %v", err)
	}

	h := adapthttp.New(svc, cfg.WebDir).
		WithOIDC(oidcCfg).
		WithMetrics(metricsMgr, promhttp.Handler()).
		WithForwardAuth(cfg.ForwardAuth).
		WithRegistration(cfg.Registration).
		Handler()
	if cfg.ForwardAuth {
		log.Warn("forward auth enabled, trusting the Remote-User header")
	}

	go purgeSessions(ctx, authSvc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithField("addr", cfg.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Info("server stopped")
}

func purgeSessions(ctx context.Context, authSvc *app.AuthService) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authSvc.PurgeExpiredSessions(ctx); err != nil {
				log.WithError(err).Warn("purge expired sessions")
			}
		}
	}
}
