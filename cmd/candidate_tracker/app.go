package main

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-tracker/internal/db"
	"github.com/jonathan/candidate-tracker/internal/store"
	"github.com/jonathan/candidate-tracker/internal/tracker"
	"go.uber.org/zap"
)

// openService opens the configured backend and loads the collection into a tracker service.
// The returned close func releases the backend.
func openService(ctx context.Context, notifier tracker.Notifier) (*tracker.Service, func(), error) {
	backend, err := db.Open(ctx, db.Options{
		Driver:      cfg.StoreDriver,
		Path:        cfg.StorePath,
		DatabaseURL: cfg.DatabaseURL,
		Key:         cfg.StoreKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	st, err := store.Open(ctx, backend, logger.Named("store"))
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}

	logger.Debug("store opened",
		zap.String("driver", cfg.StoreDriver),
		zap.String("path", cfg.StorePath),
		zap.Int("candidates", st.Len()))

	service := tracker.New(st,
		tracker.WithNotifier(notifier),
		tracker.WithLogger(logger.Named("tracker")),
	)

	closeFn := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}
	return service, closeFn, nil
}
