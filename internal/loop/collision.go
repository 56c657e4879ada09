package loop

import (
	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/object"
)

// updateAsteroids moves every asteroid and checks it against the ship.
func updateAsteroids(s *State, elapsed float64) {
	for _, a := range s.Asteroids {
		a.Update(elapsed, s.Screen)

		if s.Ship.Alive() && a.Collide(s.Ship.Pos) {
			s.Lives--
			s.Ship.Explode()
			s.cue(audio.CueShipExplode)
		}
	}
}

// populateGrid clears and re-inserts every live asteroid into the broad-phase grid.
func populateGrid(s *State) {
	s.grid.Clear()
	for i, a := range s.Asteroids {
		if !a.IsDestroyed() {
			s.grid.Insert(a.Pos, i)
		}
	}
}

// firstHit returns the index of the lowest-indexed live asteroid containing
// the point, or -1.
func firstHit(s *State, p *object.Projectile) int {
	hit := -1
	s.grid.QueryAround(p.Pos, func(i int) bool {
		if hit >= 0 && i > hit {
			return false
		}
		a := s.Asteroids[i]
		if !a.IsDestroyed() && a.Collide(p.Pos) {
			hit = i
		}
		return false
	})
	return hit
}

// updateProjectiles moves projectiles and resolves at most one asteroid hit
// per projectile. Removals are marked during the pass and compacted after it,
// and split children join the asteroid set only once the pass is done.
func updateProjectiles(s *State, elapsed float64) {
	populateGrid(s)

	for _, p := range s.Projectiles {
		if !s.Screen.Contains(p.Pos) {
			p.MarkDestroyed()
			continue
		}

		// The hit test uses the position that passed the bounds check
		hit := firstHit(s, p)
		p.Advance(elapsed)
		if hit < 0 {
			continue
		}

		a := s.Asteroids[hit]
		p.MarkDestroyed()
		a.MarkDestroyed()
		for _, child := range a.Split(s.rng, s.Screen) {
			s.Spawn(child)
		}
		s.AddScore(asteroidScore(a.Size, s.Wave))
		s.cue(audio.CueAsteroidExplode)
	}

	compact(s)
	s.FlushSpawned()
}

// compact drops destroyed entities in place.
func compact(s *State) {
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.IsDestroyed() {
			kept = append(kept, p)
		}
	}
	clear(s.Projectiles[len(kept):])
	s.Projectiles = kept

	asteroids := s.Asteroids[:0]
	for _, a := range s.Asteroids {
		if !a.IsDestroyed() {
			asteroids = append(asteroids, a)
		}
	}
	clear(s.Asteroids[len(asteroids):])
	s.Asteroids = asteroids
}
