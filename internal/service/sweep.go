package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/photostore"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"
)

// SweepWorker periodically deletes unverified accounts that never activated.
// It uses the same verify-then-delete path as user deletion so an account
// that activates mid-sweep survives.
type SweepWorker struct {
	accounts repository.AccountRepositoryInterface
	photos   photostore.PhotoStore
	logger   *slog.Logger
	interval time.Duration
	window   time.Duration
	done     chan struct{}
}

func NewSweepWorker(
	accounts repository.AccountRepositoryInterface,
	photos photostore.PhotoStore,
	logger *slog.Logger,
	interval, window time.Duration,
) *SweepWorker {
	if interval == 0 {
		interval = time.Hour
	}
	if window == 0 {
		window = time.Hour
	}

	return &SweepWorker{
		accounts: accounts,
		photos:   photos,
		logger:   logger,
		interval: interval,
		window:   window,
		done:     make(chan struct{}),
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sweep worker started",
		slog.Duration("interval", w.interval),
		slog.Duration("window", w.window),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped")
			return
		case <-w.done:
			w.logger.Info("sweep worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

func (w *SweepWorker) Stop() {
	close(w.done)
}

// Sweep runs one pass. Exposed for tests and for an eager pass at startup.
func (w *SweepWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.window)

	stale, err := w.accounts.ListStaleUnverified(ctx, cutoff)
	if err != nil {
		w.logger.Error("failed to list stale accounts", slog.Any("error", err))
		return
	}
	if len(stale) == 0 {
		return
	}

	var removed int
	for _, account := range stale {
		deleted, err := w.accounts.DeleteIfStale(ctx, account.ID, cutoff)
		if err != nil {
			w.logger.Error("failed to delete stale account",
				slog.Int64("account_id", account.ID),
				slog.Any("error", err),
			)
			continue
		}
		if !deleted {
			continue
		}

		removed++
		if account.PhotoPath != "" {
			if err := w.photos.Delete(ctx, account.PhotoPath); err != nil {
				w.logger.Warn("photo cleanup failed",
					slog.String("path", account.PhotoPath),
					slog.Any("error", err),
				)
			}
		}
	}

	if removed > 0 {
		w.logger.Info("stale accounts swept",
			slog.Int("removed", removed),
			slog.Int("candidates", len(stale)),
		)
	}
}
