// Package window runs a game session in a desktop window through ebiten.
package window

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/loop"
)

// Game adapts a session to ebiten's Update/Draw cycle.
type Game struct {
	session  *loop.Session
	renderer *Renderer
	input    input.Source
	logger   *log.Logger
	now      func() time.Time
	last     time.Time
	closed   bool
}

// NewGame wraps sess for ebiten.RunGame.
func NewGame(sess *loop.Session, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		session:  sess,
		renderer: NewRenderer(),
		input:    keyboard{},
		logger:   logger,
		now:      time.Now,
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.close()
		return ebiten.Termination
	}

	now := g.now()
	if g.last.IsZero() {
		g.last = now
	}
	elapsed := loop.Elapsed(now.Sub(g.last))
	g.last = now

	if !g.step(elapsed, g.input.Poll()) {
		return ebiten.Termination
	}
	ebiten.SetWindowTitle(caption(ebiten.ActualFPS()))
	return nil
}

// step ticks the session once and reports whether the game goes on.
func (g *Game) step(elapsed float64, in input.Input) bool {
	if g.closed {
		return false
	}
	if !g.session.Tick(elapsed, in) {
		g.close()
		return false
	}
	return true
}

func (g *Game) close() {
	if g.closed {
		return
	}
	g.closed = true
	g.session.Close()
	st := g.session.State()
	g.logger.Info("window closed", "score", st.Score, "wave", st.Wave, "high_score", st.HighScore)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetTarget(screen)
	if err := g.renderer.Render(g.session.Frame()); err != nil {
		g.logger.Error("render", "err", err)
	}
}

// Layout implements ebiten.Game. The playfield has a fixed logical size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	st := g.session.State()
	return st.Screen.Width, st.Screen.Height
}

func caption(fps float64) string {
	return fmt.Sprintf("Meteorites - %.0f FPS", fps)
}

var _ ebiten.Game = (*Game)(nil)
