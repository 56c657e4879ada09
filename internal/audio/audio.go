// Package audio plays fire-and-forget sound cues.
package audio

import "time"

// Cue names a sound the game can trigger.
type Cue int

const (
	CueShoot Cue = iota
	CueShipExplode
	CueAsteroidExplode
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueShoot:
		return "shoot"
	case CueShipExplode:
		return "ship-explode"
	case CueAsteroidExplode:
		return "asteroid-explode"
	case CueGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Player triggers cues without waiting for them to finish.
type Player interface {
	Play(c Cue)
	// FadeOut fades every cue currently playing to silence over d.
	FadeOut(d time.Duration)
}

// Nop is a silent Player, used when no audio device is available.
type Nop struct{}

// Play implements Player.
func (Nop) Play(Cue) {}

// FadeOut implements Player.
func (Nop) FadeOut(time.Duration) {}

var _ Player = Nop{}
