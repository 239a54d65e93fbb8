package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/services/ranking"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
	"gitlab.com/codechallenge.net/internal/handlers"
	rankinghandler "gitlab.com/codechallenge.net/internal/handlers/ranking"
	"gitlab.com/codechallenge.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	submissionService submission.ISubmissionService
	rankingService    ranking.IRankingService
	metricsHandler    http.Handler
}

// NewServiceProvider bundles the services behind the HTTP surface. metrics may be nil.
func NewServiceProvider(
	submissionService submission.ISubmissionService,
	rankingService ranking.IRankingService,
	metrics http.Handler,
) *ServiceProvider {
	return &ServiceProvider{
		submissionService: submissionService,
		rankingService:    rankingService,
		metricsHandler:    metrics,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.submissionService == nil {
		return errors.New("submission service is required")
	}

	r := mux.NewRouter()
	middleware := handlers.New(s.logger)
	r.Use(middleware.Recoverer, middleware.RequestLogger)

	submissions.
		NewSubmissionHandler(s.ServiceProvider.submissionService, s.logger).
		RegisterRoutes(r)
	if s.ServiceProvider.rankingService != nil {
		rankinghandler.
			NewRankingHandler(s.ServiceProvider.rankingService, s.logger).
			RegisterRoutes(r)
	}
	if s.ServiceProvider.metricsHandler != nil {
		r.Handle("/metrics", s.ServiceProvider.metricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		handlers.ResponseWithJson(w, http.StatusOK, map[string]string{"status": "ok", "service": s.ServiceName})
	}).Methods(http.MethodGet)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background; errors other than a clean shutdown are sent on the returned channel
func (s *Server) Start() <-chan error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
