// Package loop provides the game session and the main frame loop.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/render"
)

// maxElapsed caps a single tick after a stall (suspended terminal, slow link)
// so entities do not jump across the screen.
const maxElapsed = 25.0

// Elapsed converts a wall-clock frame delta into elapsed ticks.
func Elapsed(d time.Duration) float64 {
	e := float64(d) / float64(config.ElapsedUnit)
	return min(max(e, 0), maxElapsed)
}

// RunOptions wires a session to its frontend.
type RunOptions struct {
	Session  *Session
	Input    input.Source
	Renderer render.Renderer
	Logger   *log.Logger

	FrameTime time.Duration         // Defaults to config.TargetFrameTime
	Now       func() time.Time      // Defaults to time.Now
	Sleep     func(d time.Duration) // Defaults to time.Sleep
}

// Run drives the Input → Update → Draw cycle at a fixed frame rate until the
// player quits, the context is cancelled or rendering fails. The session's
// pending high score is flushed on every exit path.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.FrameTime <= 0 {
		opts.FrameTime = config.TargetFrameTime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	sess := opts.Session
	defer sess.Close()

	lastTime := opts.Now()
	for {
		if err := ctx.Err(); err != nil {
			opts.Logger.Debug("session cancelled", "err", err)
			return nil
		}

		frameStart := opts.Now()
		elapsed := Elapsed(frameStart.Sub(lastTime))
		lastTime = frameStart

		// ===== INPUT + UPDATE PHASE =====
		wasHidden := sess.Phase() == PhaseHidden
		running := sess.Tick(elapsed, opts.Input.Poll())

		// Keys held on the game over screen must not steer the new ship
		if wasHidden && sess.Phase() != PhaseHidden {
			if r, ok := opts.Input.(input.KeyResetter); ok {
				r.ResetKeys()
			}
		}

		// ===== DRAW PHASE =====
		if err := opts.Renderer.Render(sess.Frame()); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		if !running {
			opts.Logger.Debug("quit requested", "score", sess.State().Score)
			return nil
		}

		// ===== FRAME TIMING =====
		if spent := opts.Now().Sub(frameStart); spent < opts.FrameTime {
			opts.Sleep(opts.FrameTime - spent)
		}
	}
}
