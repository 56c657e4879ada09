// Package terminal runs a game session on a raw-mode terminal, local or over SSH.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/draw"
	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/loop"
	"github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/object"
	"github.com/tomz197/meteorites/internal/store"
)

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Store        store.HighScoreStore
	Audio        audio.Player
	Logger       *log.Logger
	Rand         *rand.Rand
	FadeRate     float64
	IdleTimeout  time.Duration // Disconnect after this long without input; 0 disables
}

// Client handles rendering and input for a single terminal.
type Client struct {
	session  *loop.Session
	renderer *draw.TerminalRenderer
	input    input.Source
	logger   *log.Logger
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	screen := object.NewScreen(config.ScreenWidth, config.ScreenHeight)
	sess, err := loop.NewSession(loop.Options{
		Screen:   screen,
		Rand:     opts.Rand,
		Store:    opts.Store,
		Audio:    opts.Audio,
		Logger:   logger,
		FadeRate: opts.FadeRate,
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	var src input.Source = input.StartStream(r)
	if opts.IdleTimeout > 0 {
		src = newIdleGuard(src, opts.IdleTimeout, time.Now, logger)
	}

	return &Client{
		session:  sess,
		renderer: draw.NewTerminalRenderer(w, opts.TermSizeFunc, screen.Width, screen.Height),
		input:    src,
		logger:   logger,
	}, nil
}

// Session returns the game session.
func (c *Client) Session() *loop.Session { return c.session }

// Run plays until the player quits, the input closes or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	c.renderer.Start()
	defer c.renderer.Stop()

	err := loop.Run(ctx, loop.RunOptions{
		Session:  c.session,
		Input:    c.input,
		Renderer: c.renderer,
		Logger:   c.logger,
	})

	st := c.session.State()
	c.logger.Info("session ended", "score", st.Score, "wave", st.Wave, "high_score", st.HighScore)
	return err
}

// idleGuard turns a long stretch without input into a quit.
type idleGuard struct {
	src       input.Source
	timeout   time.Duration
	now       func() time.Time
	lastInput time.Time
	logger    *log.Logger
}

func newIdleGuard(src input.Source, timeout time.Duration, now func() time.Time, logger *log.Logger) *idleGuard {
	return &idleGuard{src: src, timeout: timeout, now: now, lastInput: now(), logger: logger}
}

// Poll implements input.Source.
func (g *idleGuard) Poll() input.Input {
	in := g.src.Poll()
	now := g.now()

	if in.Held != (input.Held{}) || len(in.Events) > 0 {
		g.lastInput = now
	}
	if !in.Quit && now.Sub(g.lastInput) > g.timeout {
		g.logger.Info("disconnecting idle player", "idle", now.Sub(g.lastInput).Round(time.Second))
		in.Quit = true
	}
	return in
}

// ResetKeys implements input.KeyResetter.
func (g *idleGuard) ResetKeys() {
	if r, ok := g.src.(input.KeyResetter); ok {
		r.ResetKeys()
	}
}
