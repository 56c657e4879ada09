package loop

import (
	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/object"
)

// updateShip flies the ship or runs its explosion, respawning it or ending
// the game once the explosion is over.
func updateShip(s *State, elapsed float64, ctl object.Controls) {
	if s.Ship.Alive() {
		s.Ship.Fly(elapsed, ctl, s.Screen)
		return
	}

	if !s.Ship.AdvanceExplosion(elapsed) {
		return
	}
	if s.Lives > 0 {
		s.Ship.Reset(s.Screen)
		return
	}
	enterGameOver(s)
}

// enterGameOver freezes the ship, persists a pending high score and fades out.
func enterGameOver(s *State) {
	if s.GameOver {
		return
	}
	s.GameOver = true
	s.Ship.State = object.ShipGameOver
	s.fadeAudio(config.GameOverAudioFade)
	s.cue(audio.CueGameOver)
	s.requestSave()
	s.Fade.StartOut()
}

// replay starts a new game from the game over screen.
func replay(s *State) {
	s.reset()
	s.fadeAudio(config.ReplayAudioFade)
}
