package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"eventsapp/config"
	"eventsapp/internal/adapters/auth"
	"eventsapp/internal/adapters/email"
	delivery "eventsapp/internal/delivery/http"
	"eventsapp/internal/delivery/http/web"
	"eventsapp/internal/metrics"
	"eventsapp/internal/repository/sqlstore"
	"eventsapp/internal/services"
)

const shutdownTimeout = 10 * time.Second

var (
	// Server flags (override config/env)
	serverPort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. The schema is applied on startup, then the HTML
pages, the JSON API under /api/, /swagger/, /metrics and /healthz are served
until SIGINT or SIGTERM.

Examples:
  # Start with configuration from the environment
  server serve

  # Start on another port with debug logging
  server serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: PORT or 8080)")
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}

	logger := config.NewLogger(logLevel)
	logger.Info("starting server", "version", Version, "env", cfg.Environment, "db_driver", cfg.DBDriver)
	metrics.Init(Version, cfg.DBDriver)

	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db, cfg.DBDriver); err != nil {
		return err
	}

	handler, err := buildHandler(cfg, db, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	return gracefulShutdown(ctx, server, serverErr, logger)
}

// buildHandler wires repositories, adapters and services into the HTTP router.
func buildHandler(cfg *config.Config, db *sql.DB, logger *slog.Logger) (http.Handler, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	authService := services.NewAuthService(
		sqlstore.NewUserRepository(db),
		sqlstore.NewLoginSessionRepository(db),
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewSessionTokens(cfg.SessionSecret),
		emailService,
		logger,
		services.AuthOptions{
			SessionTTL:     cfg.SessionTTL,
			RememberTTL:    cfg.RememberTTL,
			ContextTimeout: cfg.ContextTimeout,
		},
	)
	eventService := services.NewEventService(sqlstore.NewEventRepository(db), cfg.ContextTimeout)

	pages, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	return delivery.NewRouter(delivery.RouterConfig{
		Logger:             logger,
		Auth:               authService,
		Events:             eventService,
		Pages:              pages,
		CSRFKey:            []byte(cfg.CSRFKey),
		SecureCookies:      cfg.IsProduction(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
		Ping:               db.PingContext,
	}), nil
}

func gracefulShutdown(ctx context.Context, server *http.Server, serverErr <-chan error, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
