package loop

import "github.com/tomz197/meteorites/internal/loop/config"

// advanceWave starts the next wave once every asteroid is gone.
func advanceWave(s *State) {
	if len(s.Asteroids) > 0 {
		return
	}
	s.Wave++
	s.spawnAsteroids(config.WaveBaseAsteroids + s.Wave)
}

// asteroidScore is the score for destroying an asteroid of the given size.
func asteroidScore(size, wave int) int {
	return size * wave
}
