// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield resolution in logical units.
// Terminal and window renderers scale to fit.
const (
	ScreenWidth  = 800
	ScreenHeight = 800
)

// Player
const (
	InitialLives = 3
)

// Waves
const (
	InitialAsteroids  = 3 // Asteroids at the start of every game
	WaveBaseAsteroids = 3 // A new wave spawns WaveBaseAsteroids + wave asteroids
)

// Screen fade
const (
	FadeRate   = 2.0 // Opacity change per elapsed tick
	FadeOpaque = 255.0
)

// Audio fades
const (
	GameOverAudioFade = 1500 * time.Millisecond
	ReplayAudioFade   = 1000 * time.Millisecond
)

// Collision broad phase. Must be >= the largest asteroid hit radius
// (DefaultAsteroidSize/2) so a 3x3 cell lookup finds every hit.
const (
	CollisionCellSize = 80.0
)

// Inactivity (SSH sessions)
const (
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// ElapsedUnit is the wall time that counts as one elapsed tick.
	ElapsedUnit = 10 * time.Millisecond
)
