package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

// HousekeepingService periodically deletes expired authorization codes,
// access tokens and refresh tokens so the tables do not grow unbounded.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the cleanup loop in the background until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each deletion is independent; a failure in one
// does not stop the others. It returns the number of passes that succeeded.
func (s *HousekeepingService) Cleanup(ctx context.Context) int {
	now := s.Now().UTC()
	s.Logger.Debug("starting housekeeping cleanup")

	steps := []struct {
		name string
		fn   func(context.Context, time.Time) error
	}{
		{"authorization codes", s.Store.AuthorizationCodes().DeleteExpiredAuthorizationCodes},
		{"access tokens", s.Store.AccessTokens().DeleteExpiredAccessTokens},
		{"refresh tokens", s.Store.RefreshTokens().DeleteExpiredRefreshTokens},
	}

	var ok int
	for _, step := range steps {
		if err := step.fn(ctx, now); err != nil {
			s.Logger.Error("failed to delete expired "+step.name, "error", err)
			continue
		}
		ok++
	}

	s.Logger.Info("housekeeping cleanup completed", "successful_cleanups", ok)
	return ok
}
