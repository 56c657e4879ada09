// Package host tracks the game sessions served over SSH and shuts them down together.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/meteorites/internal/store"
)

// Handle is one registered session.
type Handle struct {
	ID       int
	Username string

	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	tracked bool // Counted in the host's wait group
}

// Context is cancelled when the host shuts down or the handle is released.
func (h *Handle) Context() context.Context { return h.ctx }

// Host owns the player database and the set of live sessions.
type Host struct {
	db     *store.DB
	logger *log.Logger

	mu       sync.Mutex
	sessions map[int]*Handle
	nextID   int
	closing  bool
	wg       sync.WaitGroup
}

// New creates a host. A nil db keeps scores in memory for the session only.
func New(db *store.DB, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	return &Host{
		db:       db,
		logger:   logger,
		sessions: make(map[int]*Handle),
		nextID:   1,
	}
}

// Register adds a session for username. The returned handle's context is
// already cancelled when the host is shutting down.
func (h *Host) Register(parent context.Context, username string) *Handle {
	ctx, cancel := context.WithCancel(parent)

	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &Handle{ID: h.nextID, Username: username, ctx: ctx, cancel: cancel}
	h.nextID++
	if h.closing {
		// Shutdown may already be waiting; the handle is not tracked
		cancel()
		h.logger.Info("player refused during shutdown", "id", handle.ID, "user", username)
		return handle
	}
	handle.tracked = true
	h.sessions[handle.ID] = handle
	h.wg.Add(1)

	h.logger.Info("player connected", "id", handle.ID, "user", username, "sessions", len(h.sessions))
	return handle
}

// Unregister releases a session. Calling it twice is harmless.
func (h *Host) Unregister(handle *Handle) {
	handle.once.Do(func() {
		handle.cancel()
		if !handle.tracked {
			return
		}

		h.mu.Lock()
		delete(h.sessions, handle.ID)
		remaining := len(h.sessions)
		h.mu.Unlock()

		h.wg.Done()
		h.logger.Info("player disconnected", "id", handle.ID, "user", handle.Username, "sessions", remaining)
	})
}

// Sessions returns the number of live sessions.
func (h *Host) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Store returns the high score store for username.
func (h *Host) Store(username string) store.HighScoreStore {
	if h.db == nil {
		return store.NewMemory(0)
	}
	return h.db.ForPlayer(username)
}

// Leaderboard returns the best scores across players, or nil without a database.
func (h *Host) Leaderboard(limit int) ([]store.Entry, error) {
	if h.db == nil {
		return nil, nil
	}
	return h.db.Leaderboard(limit)
}

// Shutdown cancels every session and waits for them to unregister, up to
// timeout. It reports whether all sessions finished in time.
func (h *Host) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.closing = true
	for _, handle := range h.sessions {
		handle.cancel()
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		h.logger.Warn("sessions still running after shutdown timeout", "sessions", h.Sessions())
		return false
	}
}
