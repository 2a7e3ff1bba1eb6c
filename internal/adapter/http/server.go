// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"weighttrend/internal/app"
	"weighttrend/internal/domain"
	"weighttrend/internal/metrics"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Weight     *app.WeightService
	Goals      *app.GoalService
	Prediction *app.PredictionService
	Charts     *app.ChartsService
	Calories   *app.CalorieService
	Auth       *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight     *app.WeightService
	goals      *app.GoalService
	prediction *app.PredictionService
	charts     *app.ChartsService
	calories   *app.CalorieService
	authSvc    *app.AuthService

	oidcConfig     *OIDCConfig
	metrics        *metrics.Manager
	metricsHandler http.Handler
	webDir         string

	disableAuth  bool
	localUser    *domain.User
	forwardAuth  bool
	registration bool
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string) *Server {
	return &Server{
		weight:     svc.Weight,
		goals:      svc.Goals,
		prediction: svc.Prediction,
		charts:     svc.Charts,
		calories:   svc.Calories,
		authSvc:    svc.Auth,
		oidcConfig: &OIDCConfig{},
		webDir:     webDir,
	}
}

// WithOIDC enables SSO login through the given provider configuration.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithMetrics records request metrics into m and serves h on /metrics.
func (s *Server) WithMetrics(m *metrics.Manager, h http.Handler) *Server {
	s.metrics = m
	s.metricsHandler = h
	return s
}

// WithForwardAuth trusts the Remote-User header. Only enable it behind a
// proxy that authenticates every request and strips client-sent copies of
// the header.
func (s *Server) WithForwardAuth(enabled bool) *Server {
	s.forwardAuth = enabled
	return s
}

// WithRegistration opens /register to anyone.
func (s *Server) WithRegistration(enabled bool) *Server {
	s.registration = enabled
	return s
}

// WithoutAuth disables authentication; every request acts as user 1. Meant
// for tests and single-user local runs.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	s.localUser = &domain.User{ID: 1, Username: "local"}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	public.HandleFunc("/login", s.handleLogin)
	public.HandleFunc("/logout", s.handleLogout)
	public.HandleFunc("/setup", s.handleSetupUser)
	public.HandleFunc("/register", s.handleRegister)
	public.HandleFunc("/config", s.handleConfig)
	public.HandleFunc("/sso/login", s.handleSSOLogin)
	public.HandleFunc("/sso/callback", s.handleSSOCallback)

	private := http.NewServeMux()
	private.HandleFunc("/weight/today", s.handleWeightToday)
	private.HandleFunc("/weight/recent", s.handleWeightRecent)
	private.HandleFunc("/weight/history", s.handleWeightHistory)
	private.HandleFunc("/weight/undo-last", s.handleWeightUndoLast)
	private.HandleFunc("/goal", s.handleGoal)
	private.HandleFunc("/prediction", s.handlePrediction)
	private.HandleFunc("/charts/daily", s.handleChartsDaily)
	private.HandleFunc("/calories/today", s.handleCaloriesToday)
	private.HandleFunc("/calories/goal", s.handleCalorieGoal)
	public.Handle("/", s.authMiddleware(private))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", public))
	if s.metricsHandler != nil {
		root.Handle("/metrics", s.metricsHandler)
	}
	root.Handle("/", spaFromDisk(s.webDir))

	return s.recoveryMiddleware(s.loggingMiddleware(s.metricsMiddleware(withNoCache(root))))
}
