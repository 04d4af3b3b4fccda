package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"voltboard/backend/libs/logging"
	"voltboard/backend/services/dashboard-service/internal/app"
	"voltboard/backend/services/dashboard-service/internal/config"
	"voltboard/backend/services/dashboard-service/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("dashboard-service")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	application, err := app.New(cfg, logger)
	if err != nil {
		// Credential problems get a precise, user-facing diagnostic; the
		// dashboard must not come up half-initialized.
		switch {
		case errors.Is(err, db.ErrCredentialsMissing):
			logger.Fatal("store credentials not found; set DASHBOARD_POSTGRES_DSN or the store.dsn config key")
		case errors.Is(err, db.ErrCredentialsInvalid):
			logger.Fatal("store rejected the configured credentials; verify the DSN user, password and host", zap.Error(err))
		default:
			logger.Fatal("failed to init application", zap.Error(err))
		}
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("application stopped with error", zap.Error(err))
	}
}
