package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/config"
	"github.com/tomz197/meteorites/internal/draw"
	"github.com/tomz197/meteorites/internal/host"
	loopconfig "github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/store"
	"github.com/tomz197/meteorites/internal/terminal"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "meteorites.db"
	leaderboardSize    = 5
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	addr := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("SSH_DB", defaultDBPath)
	idle := time.Duration(config.GetEnvInt("SSH_IDLE_SECONDS", loopconfig.InactivityDisconnectUser)) * time.Second
	fadeRate := config.GetEnvFloat("METEORITES_FADE_RATE", 0)
	logger.Info("SSH config", "host", addr, "port", port, "host_key", hostKeyPath, "db", dbPath, "idle", idle)

	db, err := store.OpenDB(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	games := host.New(db, logger)
	if top, err := games.Leaderboard(leaderboardSize); err != nil {
		logger.Warn("read leaderboard", "err", err)
	} else {
		for i, e := range top {
			logger.Info("leaderboard", "rank", i+1, "player", e.Player, "score", e.Score)
		}
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(addr, port)),
		wish.WithMiddleware(
			gameMiddleware(games, logger, idle, fadeRate),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(addr, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Cancel running games and give them time to save their high scores
	if !games.Shutdown(15 * time.Second) {
		logger.Warn("some sessions did not finish in time", "sessions", games.Sessions())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// gameMiddleware runs one independent game per SSH session.
func gameMiddleware(games *host.Host, logger *log.Logger, idle time.Duration, fadeRate float64) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			handle := games.Register(sess.Context(), sess.User())
			defer games.Unregister(handle)

			sessLogger := logger.With("player", sess.User(), "session", handle.ID)
			sessLogger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c, err := terminal.NewClient(bufio.NewReader(sess), sess, terminal.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Store:        games.Store(sess.User()),
				Audio:        audio.Nop{},
				Logger:       sessLogger,
				FadeRate:     fadeRate,
				IdleTimeout:  idle,
			})
			if err != nil {
				sessLogger.Error("start game", "err", err)
				fmt.Fprintln(sess, "Error: could not load your high score, try again later")
				return
			}
			if err := c.Run(handle.Context()); err != nil {
				sessLogger.Error("game error", "err", err)
			}
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
