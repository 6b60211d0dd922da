// Package server wires services, handlers, and middleware into the HTTP
// server and owns its lifecycle. All dependencies are constructed here
// once at startup and passed into the handlers directly; there is no
// ambient global lookup.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clynamic/scrollstack/internal/config"
	"github.com/clynamic/scrollstack/internal/fetch"
	"github.com/clynamic/scrollstack/internal/handler"
	"github.com/clynamic/scrollstack/internal/middleware"
	"github.com/clynamic/scrollstack/internal/resolver"
	"github.com/clynamic/scrollstack/internal/service"
	"github.com/clynamic/scrollstack/internal/store"
)

type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *store.DB
}

func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Referenced tables must exist before the association table's
	// foreign keys, so services are constructed in dependency order.
	users, err := service.NewUsersService(s.db, s.logger)
	if err != nil {
		return err
	}
	projects, err := service.NewProjectsService(s.db, s.logger)
	if err != nil {
		return err
	}
	contents, err := service.NewContentsService(s.db, s.logger)
	if err != nil {
		return err
	}
	relations, err := service.NewUserProjectsService(s.db, s.logger)
	if err != nil {
		return err
	}

	client := fetch.NewClient()
	resolve := resolver.New(contents, s.logger, resolver.Options{Client: client})

	usersHandler := handler.NewUsersHandler(users, s.logger)
	projectsHandler := handler.NewProjectsHandler(projects, resolve, s.logger)
	contentsHandler := handler.NewContentsHandler(contents, client, s.logger)
	relationsHandler := handler.NewUserProjectsHandler(relations, s.logger)

	if s.cfg.AdminToken == "" {
		s.logger.Warn("no admin token set, write routes are unprotected")
	}
	admin := middleware.RequireAdmin(s.cfg.AdminToken, s.logger)

	s.router.Get("/users", usersHandler.HandleList)
	s.router.Get("/users/{id}", usersHandler.HandleGet)
	s.router.Get("/projects", projectsHandler.HandleList)
	s.router.Get("/projects/{id}", projectsHandler.HandleGet)
	s.router.Get("/user-projects/{userId}/{projectId}", relationsHandler.HandleGet)
	s.router.Get("/cdn/{id}", contentsHandler.HandleStream)

	s.router.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/users", usersHandler.HandleCreate)
		r.Put("/users/{id}", usersHandler.HandleUpdate)
		r.Delete("/users/{id}", usersHandler.HandleDelete)
		r.Post("/projects", projectsHandler.HandleCreate)
		r.Put("/projects/{id}", projectsHandler.HandleUpdate)
		r.Delete("/projects/{id}", projectsHandler.HandleDelete)
		r.Post("/user-projects", relationsHandler.HandleCreate)
		r.Delete("/user-projects/{userId}/{projectId}", relationsHandler.HandleDelete)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully
// and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
