package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/config"
	"github.com/trampolim2024/trampolim-portal/internal/delivery/httpd"
	"github.com/trampolim2024/trampolim-portal/internal/form"
	"github.com/trampolim2024/trampolim-portal/internal/middleware"
	"github.com/trampolim2024/trampolim-portal/internal/service"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
	"github.com/trampolim2024/trampolim-portal/internal/storage"
)

type App struct {
	server   *http.Server
	logger   zerolog.Logger
	config   *config.Config
	db       *sql.DB
	previews *form.PreviewStore
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Clientes da API do Trampolim
	authClient := integration.NewAuthClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		log,
	)

	editalClient := integration.NewEditalClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		cfg.Backend.RetryCount,
		cfg.Backend.RetryDelay,
		log,
	)

	projectClient := integration.NewProjectClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		cfg.Backend.RetryCount,
		cfg.Backend.RetryDelay,
		log,
	)

	// Estado local durável: sessão e marcador de submissão pendente
	kv := storage.NewSQLiteStore(db, log)
	sessionStore := session.New(kv, log)
	flags := storage.NewPendingFlags(kv)

	// Rascunhos em memória com previews de arquivo em disco
	previews, err := form.NewPreviewStore(cfg.Storage.PreviewsDir, log)
	if err != nil {
		return nil, err
	}
	drafts := form.NewRegistry(previews)

	// Serviços
	statusService := service.NewStatusService(projectClient, editalClient, sessionStore, log)
	submissionService := service.NewSubmissionService(
		projectClient,
		statusService,
		sessionStore,
		flags,
		service.ConfirmPolicy{
			MaxAttempts: cfg.Confirm.MaxAttempts,
			Interval:    cfg.Confirm.Interval,
		},
		log,
	)

	handler := httpd.NewHandler(
		authClient,
		editalClient,
		statusService,
		submissionService,
		sessionStore,
		drafts,
		flags,
		log,
	)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:   server,
		logger:   log,
		config:   cfg,
		db:       db,
		previews: previews,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting trampolim portal on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down trampolim portal...")

	a.previews.Close()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close state database")
		}
	}

	return a.server.Shutdown(ctx)
}
