package host

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/meteorites/internal/store"
)

func newTestHost(t *testing.T, db *store.DB) *Host {
	t.Helper()
	return New(db, log.New(io.Discard))
}

func TestRegisterAssignsIDs(t *testing.T) {
	h := newTestHost(t, nil)
	a := h.Register(context.Background(), "alice")
	b := h.Register(context.Background(), "bob")

	if a.ID == b.ID {
		t.Errorf("Expected distinct IDs, got %d twice", a.ID)
	}
	if h.Sessions() != 2 {
		t.Errorf("Expected 2 sessions, got %d", h.Sessions())
	}

	h.Unregister(a)
	h.Unregister(a)
	if h.Sessions() != 1 {
		t.Errorf("Expected 1 session after unregister, got %d", h.Sessions())
	}
	if a.Context().Err() == nil {
		t.Error("Expected unregistered handle's context to be cancelled")
	}
	h.Unregister(b)
}

func TestShutdownWaitsForSessions(t *testing.T) {
	h := newTestHost(t, nil)
	for _, name := range []string{"alice", "bob", "carol"} {
		handle := h.Register(context.Background(), name)
		go func() {
			<-handle.Context().Done()
			time.Sleep(10 * time.Millisecond)
			h.Unregister(handle)
		}()
	}

	if !h.Shutdown(5 * time.Second) {
		t.Fatal("Expected all sessions to finish before the timeout")
	}
	if h.Sessions() != 0 {
		t.Errorf("Expected no sessions, got %d", h.Sessions())
	}

	late := h.Register(context.Background(), "dave")
	if late.Context().Err() == nil {
		t.Error("Expected sessions registered during shutdown to start cancelled")
	}
	if h.Sessions() != 0 {
		t.Errorf("Expected late session not to be tracked, got %d sessions", h.Sessions())
	}
	h.Unregister(late)
}

func TestRegisterWhileShutdownWaits(t *testing.T) {
	h := newTestHost(t, nil)
	slow := h.Register(context.Background(), "alice")
	release := make(chan struct{})
	go func() {
		<-release
		h.Unregister(slow)
	}()

	result := make(chan bool)
	go func() { result <- h.Shutdown(5 * time.Second) }()

	// Shutdown has cancelled the running session once its context is done
	<-slow.Context().Done()

	late := h.Register(context.Background(), "bob")
	if late.Context().Err() == nil {
		t.Error("Expected a session registered during shutdown to start cancelled")
	}
	h.Unregister(late)
	h.Unregister(late)

	close(release)
	if !<-result {
		t.Error("Expected shutdown to finish once the running session left")
	}
	if h.Sessions() != 0 {
		t.Errorf("Expected no sessions, got %d", h.Sessions())
	}
}

func TestShutdownTimeout(t *testing.T) {
	h := newTestHost(t, nil)
	stuck := h.Register(context.Background(), "alice")

	if h.Shutdown(20 * time.Millisecond) {
		t.Error("Expected shutdown to time out with a stuck session")
	}
	h.Unregister(stuck)
}

func TestStorePerPlayer(t *testing.T) {
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	h := newTestHost(t, db)
	if err := h.Store("alice").SaveHighScore(900); err != nil {
		t.Fatalf("SaveHighScore failed: %v", err)
	}
	if err := h.Store("bob").SaveHighScore(300); err != nil {
		t.Fatalf("SaveHighScore failed: %v", err)
	}

	got, err := h.Store("alice").LoadHighScore()
	if err != nil || got != 900 {
		t.Errorf("Expected alice's score 900, got %d (err %v)", got, err)
	}

	top, err := h.Leaderboard(1)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(top) != 1 || top[0].Player != "alice" {
		t.Errorf("Expected alice on top, got %+v", top)
	}
}

func TestMemoryStoreWithoutDatabase(t *testing.T) {
	h := newTestHost(t, nil)
	got, err := h.Store("alice").LoadHighScore()
	if err != nil || got != 0 {
		t.Errorf("Expected 0 without a database, got %d (err %v)", got, err)
	}
	top, err := h.Leaderboard(5)
	if err != nil || top != nil {
		t.Errorf("Expected no leaderboard without a database, got %+v (err %v)", top, err)
	}
}
