// Package server maps URLs to handlers and runs the HTTP listener.
//
// Everything under /api except /api/auth/init requires a session token;
// /healthz is open for load balancers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devagenda/internal/app"
	"github.com/sakif/devagenda/internal/auth"
	"github.com/sakif/devagenda/internal/handler"
	"github.com/sakif/devagenda/internal/middleware"
)

// Server serves the agenda API. It does not own the App; the caller
// closes it after Start returns.
type Server struct {
	router *chi.Mux
	app    *app.App
	port   int
	logger *slog.Logger
}

func New(a *app.App, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		app:    a,
		port:   a.Config.Port,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)

	a := s.app
	authHandler := handler.NewAuthHandler(a.Auth, a.Tokens, s.logger)
	projectHandler := handler.NewProjectHandler(a.Projects, a.Commits, a.Sync, a.Config.Location, s.logger)
	reportHandler := handler.NewReportHandler(a.Reports, s.logger)
	reflectionHandler := handler.NewReflectionHandler(a.Reflections, s.logger)
	githubHandler := handler.NewGitHubHandler(a.GitHub, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/init", authHandler.HandleInit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.Tokens))

			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Get("/me", authHandler.HandleMe)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.HandleList)
				r.Post("/", projectHandler.HandleCreate)
				r.Get("/by-status", projectHandler.HandleByStatus)
				r.Get("/{id}", projectHandler.HandleGet)
				r.Put("/{id}", projectHandler.HandleUpdate)
				r.Delete("/{id}", projectHandler.HandleDelete)
				r.Post("/{id}/sync", projectHandler.HandleSync)
				r.Get("/{id}/commits", projectHandler.HandleCommits)
				r.Get("/{id}/stats", projectHandler.HandleStats)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.HandleList)
				r.Get("/weekly", reportHandler.HandleWeekly)
				r.Get("/monthly", reportHandler.HandleMonthly)
				r.Get("/{id}", reportHandler.HandleGet)
			})

			r.Get("/reflections", reflectionHandler.HandleGet)
			r.Put("/reflections", reflectionHandler.HandleUpdate)

			r.Route("/github", func(r chi.Router) {
				r.Post("/connect", githubHandler.HandleConnect)
				r.Get("/repositories", githubHandler.HandleRepositories)
				r.Get("/user", githubHandler.HandleUser)
			})
		})
	})
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.app.DB.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

// Start listens until SIGINT/SIGTERM or ctx is done, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a sync fetches stats for up to 100 commits
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.port)),
			slog.String("database", s.app.Config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
