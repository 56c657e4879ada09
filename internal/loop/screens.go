package loop

import (
	"fmt"
	"math"

	"github.com/tomz197/meteorites/internal/object"
	"github.com/tomz197/meteorites/internal/physics"
	"github.com/tomz197/meteorites/internal/render"
)

// HUD layout in logical units.
const (
	hudMargin      = 10.0
	hudLineHeight  = 25.0
	hudCharWidth   = 11.0 // Approximate advance of a HUD glyph
	trophyGap      = 50.0 // Gap between the score text and the trophy
	heartSize      = 40.0
	shipStroke     = 2.0
	asteroidStroke = 3.0
)

// BuildFrame describes the whole screen for the current state:
// the playfield and HUD, or the game over screen once hidden,
// with the fade overlay on top.
func BuildFrame(s *State) *render.Frame {
	f := render.NewFrame(s.Screen.Width, s.Screen.Height)

	if s.Hidden {
		drawGameOverScreen(f, s)
	} else {
		drawPlayfield(f, s)
		drawHUD(f, s)
	}

	if s.Fade.Active() {
		alpha := uint8(math.Round(s.Fade.Alpha))
		f.Rect(physics.Vec2{}, s.Screen.W(), s.Screen.H(), render.Black.WithAlpha(alpha))
	}
	return f
}

func drawPlayfield(f *render.Frame, s *State) {
	for _, a := range s.Asteroids {
		f.Polygon(a.Outline(), render.Yellow, asteroidStroke)
	}

	switch s.Ship.State {
	case object.ShipFlying:
		f.Polygon(s.Ship.Outline(), render.White, shipStroke)
	default:
		drawExplosion(f, s.Ship)
	}

	for _, p := range s.Projectiles {
		f.Circle(p.Pos, object.ProjectileRadius, render.White, true)
	}
}

// drawExplosion draws an expanding fireball for the first ExplosionFrames
// of the explosion counter.
func drawExplosion(f *render.Frame, ship *object.Ship) {
	frame := ship.ExplosionFrame
	if frame >= object.ExplosionFrames {
		return
	}
	progress := (frame + 1) / object.ExplosionFrames
	fade := uint8(255 * (1 - frame/object.ExplosionFrames))

	outer := object.ExplosionMaxRadius / 2 * progress
	f.Circle(ship.Pos, outer, render.Orange.WithAlpha(fade), true)
	f.Circle(ship.Pos, outer*0.6, render.Yellow.WithAlpha(fade), true)
}

func drawHUD(f *render.Frame, s *State) {
	scoreColor := render.White
	if s.NewHighScore {
		scoreColor = render.Yellow
	}
	scoreText := fmt.Sprintf("score: %d", s.Score)
	f.Text(physics.Vec2{X: hudMargin, Y: 0}, scoreText, scoreColor, render.TextMedium, render.AnchorTopLeft)
	f.Text(physics.Vec2{X: hudMargin, Y: hudLineHeight}, fmt.Sprintf("wave: %d", s.Wave), render.White, render.TextMedium, render.AnchorTopLeft)

	trophyX := hudMargin + float64(len(scoreText))*hudCharWidth + trophyGap
	f.Polygon(trophyOutline(physics.Vec2{X: trophyX, Y: hudMargin}), render.Yellow, 0)
	f.Text(physics.Vec2{X: trophyX + 25, Y: 0}, fmt.Sprintf("%d", s.HighScore), render.Yellow, render.TextMedium, render.AnchorTopLeft)

	for i := range s.Lives {
		origin := physics.Vec2{X: float64(i) * heartSize, Y: s.Screen.H() - heartSize}
		f.Polygon(heartOutline(origin), render.Red, 0)
	}
}

func drawGameOverScreen(f *render.Frame, s *State) {
	w, h := s.Screen.W(), s.Screen.H()

	f.Text(physics.Vec2{X: w / 2, Y: h / 3}, "Game Over", render.Red, render.TextTitle, render.AnchorCenter)

	scoreText := fmt.Sprintf("score %d", s.Score)
	if s.NewHighScore {
		scoreText = fmt.Sprintf("new high score! %d", s.Score)
	}
	f.Text(physics.Vec2{X: w / 2, Y: h/3 + 60}, scoreText, render.White, render.TextLarge, render.AnchorCenter)
	f.Text(physics.Vec2{X: w / 2, Y: h / 2}, "Press ENTER to play again", render.Yellow, render.TextSmall, render.AnchorCenter)
}

// heartOutline is a heart in a heartSize square with its top-left at origin.
func heartOutline(origin physics.Vec2) []physics.Vec2 {
	shape := []physics.Vec2{
		{X: 20, Y: 36}, {X: 4, Y: 20}, {X: 2, Y: 12}, {X: 6, Y: 5},
		{X: 13, Y: 4}, {X: 20, Y: 10}, {X: 27, Y: 4}, {X: 34, Y: 5},
		{X: 38, Y: 12}, {X: 36, Y: 20},
	}
	for i := range shape {
		shape[i] = shape[i].Add(origin)
	}
	return shape
}

// trophyOutline is a 17x22 cup with its top-left at origin.
func trophyOutline(origin physics.Vec2) []physics.Vec2 {
	shape := []physics.Vec2{
		{X: 0, Y: 0}, {X: 17, Y: 0}, {X: 15, Y: 10}, {X: 10, Y: 13},
		{X: 10, Y: 18}, {X: 14, Y: 22}, {X: 3, Y: 22}, {X: 7, Y: 18},
		{X: 7, Y: 13}, {X: 2, Y: 10},
	}
	for i := range shape {
		shape[i] = shape[i].Add(origin)
	}
	return shape
}
