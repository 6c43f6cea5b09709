package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/accountsvc/apiserver/config"
	"github.com/accountsvc/apiserver/internal/db"
	"github.com/accountsvc/apiserver/internal/handlers"
	"github.com/accountsvc/apiserver/internal/mailer"
	"github.com/accountsvc/apiserver/internal/services"
	"github.com/accountsvc/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mailer     mailer.Mailer
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m, err := newMailer(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	accountRepo := store.NewAccountRepository(dbConn)
	accountService := services.NewAccountService(accountRepo, m)

	credentials := handlers.VerifyCredentials(accountService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/accounts", func(r chi.Router) {
		handlers.AccountRouter(r, accountService, credentials)
	})
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, accountService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mailer:     m,
	}, nil
}

func newMailer(ctx context.Context, cfg config.Config) (mailer.Mailer, error) {
	switch cfg.Mailer.Backend {
	case config.MailerBackendRabbitMQ:
		return mailer.NewRabbitMQMailer(cfg.RabbitMQ, cfg.Mailer.ActivationBaseURL)
	case config.MailerBackendPubSub:
		return mailer.NewPubSubMailer(ctx, cfg.PubSub, cfg.Mailer.ActivationBaseURL)
	case config.MailerBackendSMTP:
		return mailer.NewSMTPMailer(cfg.SMTP, cfg.Mailer.ActivationBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown mailer backend %q", cfg.Mailer.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if closer, ok := s.mailer.(io.Closer); ok {
		_ = closer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
