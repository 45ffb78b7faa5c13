package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/catalog"
	"github.com/andreasstove999/costify/internal/config"
	"github.com/andreasstove999/costify/internal/db"
	"github.com/andreasstove999/costify/internal/events"
	httpapi "github.com/andreasstove999/costify/internal/http"
	"github.com/andreasstove999/costify/internal/logging"
	"github.com/andreasstove999/costify/internal/quote"
	"github.com/andreasstove999/costify/internal/sequence"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	sessions := cart.NewSessions(func(sessionID string) cart.Persistence {
		return cart.NewSQLPersistence(sqlDB, sessionID)
	})

	// --- quote side effects ---
	quoteOpts := quote.ServiceOptions{}

	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err := events.NewPublisher(conn, sequence.NewCounter(pool), events.PublisherOptions{})
		if err != nil {
			return fmt.Errorf("create quote publisher: %w", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("publisher close failed", zap.Error(err))
			}
		}()
		quoteOpts.Publisher = publisher
	} else {
		logger.Info("RABBITMQ_URL not set, QuoteGenerated events disabled")
	}

	if cfg.QuotePDFBucket != "" {
		pdfs, err := quote.NewS3Store(cfg.QuotePDFRegion, cfg.QuotePDFBucket)
		if err != nil {
			return err
		}
		quoteOpts.PDFStore = pdfs
	}

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Catalog:          catalog.NewPostgresRepository(pool),
		Sessions:         sessions,
		Quotes:           quote.NewService(logger, quoteOpts),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RequestTimeout:   cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
