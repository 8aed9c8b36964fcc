package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"booking-service/internal/storage"
)

// DefaultRefreshInterval is how often open results views get fresh prices
const DefaultRefreshInterval = 30 * time.Second

// PriceRefresher re-queries pricing for every session with an open results view
type PriceRefresher struct {
	search   *SearchService
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	watched map[string]struct{}
}

// NewPriceRefresher creates a new price refresher
func NewPriceRefresher(search *SearchService, interval time.Duration) *PriceRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &PriceRefresher{
		search:   search,
		interval: interval,
		stopChan: make(chan struct{}),
		watched:  make(map[string]struct{}),
	}
}

// Start begins the background refresh loop
func (pr *PriceRefresher) Start() {
	go pr.refreshLoop()
	slog.Info("Price refresher started", "interval", pr.interval)
}

// Stop stops the background refresh loop
func (pr *PriceRefresher) Stop() {
	pr.stopOnce.Do(func() {
		close(pr.stopChan)
		slog.Info("Price refresher stopped")
	})
}

// Watch marks a session's results view as open
func (pr *PriceRefresher) Watch(sessionID string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.watched[sessionID] = struct{}{}
}

// Unwatch marks a session's results view as closed
func (pr *PriceRefresher) Unwatch(sessionID string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	delete(pr.watched, sessionID)
}

// Watching reports whether a session is being refreshed
func (pr *PriceRefresher) Watching(sessionID string) bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	_, ok := pr.watched[sessionID]
	return ok
}

// refreshLoop runs the background refresh loop
func (pr *PriceRefresher) refreshLoop() {
	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pr.refreshAll()
		case <-pr.stopChan:
			return
		}
	}
}

// refreshAll refreshes every watched session once
func (pr *PriceRefresher) refreshAll() {
	pr.mu.Lock()
	sessionIDs := make([]string, 0, len(pr.watched))
	for id := range pr.watched {
		sessionIDs = append(sessionIDs, id)
	}
	pr.mu.Unlock()

	for _, sessionID := range sessionIDs {
		ctx, cancel := context.WithTimeout(context.Background(), pr.interval)
		err := pr.search.Refresh(ctx, sessionID)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, storage.ErrSessionNotFound), errors.Is(err, ErrNoSearch):
			pr.Unwatch(sessionID)
			pr.search.Forget(sessionID)
		default:
			slog.Warn("Failed to refresh prices", "session_id", sessionID, "error", err)
		}
	}
}
