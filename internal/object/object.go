// Package object holds the game entities: asteroids, projectiles and the ship.
package object

import (
	"math/rand/v2"

	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/physics"
)

// Controls is the held-key snapshot the ship reads each tick.
type Controls = input.Held

// Screen represents the playfield dimensions in logical units.
type Screen struct {
	Width  int
	Height int
}

// NewScreen returns a screen of the given size.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height}
}

// W returns the width as a float.
func (s Screen) W() float64 {
	return float64(s.Width)
}

// H returns the height as a float.
func (s Screen) H() float64 {
	return float64(s.Height)
}

// Center returns the middle of the screen.
func (s Screen) Center() physics.Vec2 {
	return physics.Vec2{X: s.W() / 2, Y: s.H() / 2}
}

// Contains reports whether p lies strictly inside the screen rectangle.
func (s Screen) Contains(p physics.Vec2) bool {
	return physics.InsideOpen(p, s.W(), s.H())
}

// NewRand returns a PCG-backed source. Tests pass fixed seeds for reproducible entities.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// uniform returns a float in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt returns an int in [lo, hi], inclusive on both ends.
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
