package loop

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/object"
	"github.com/tomz197/meteorites/internal/physics"
)

// Phase is the session's place in the play / game over cycle.
type Phase int

const (
	PhaseFadingIn          Phase = iota // Screen fading in from black
	PhasePlaying                        // Normal play
	PhaseGameOverFadingOut              // Last life lost, fading to black
	PhaseHidden                         // Game over screen, waiting for replay
)

func (p Phase) String() string {
	switch p {
	case PhaseFadingIn:
		return "fading-in"
	case PhasePlaying:
		return "playing"
	case PhaseGameOverFadingOut:
		return "game-over-fading-out"
	case PhaseHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// State is the whole game session. Each subsystem update takes it by
// pointer and is the only writer for the duration of the call.
type State struct {
	Screen      object.Screen
	Ship        *object.Ship
	Asteroids   []*object.Asteroid
	Projectiles []*object.Projectile

	Wave         int
	Score        int
	HighScore    int
	Lives        int
	NewHighScore bool // Set once score beats the stored high score; never cleared
	GameOver     bool // Last life lost
	Hidden       bool // Game over fade-out finished, game over screen showing
	Fade         Fade

	rng     *rand.Rand
	nextID  uint64
	toSpawn []*object.Asteroid // Children queued during the projectile pass
	grid    *physics.SpatialGrid

	// Side effects collected during a tick, drained by the Session
	savePending bool // High score crossed and not yet persisted
	saveDue     bool // Persist now
	cues        []audio.Cue
	audioFade   time.Duration
}

// NewState creates a fresh game: wave 1, full lives, the opening asteroids
// and a screen fading in from black.
func NewState(screen object.Screen, rng *rand.Rand, highScore int, fadeRate float64) *State {
	s := &State{
		Screen:    screen,
		HighScore: highScore,
		Fade:      Fade{Rate: fadeRate},
		rng:       rng,
		grid:      physics.NewSpatialGrid(screen.W(), screen.H(), config.CollisionCellSize),
	}
	s.reset()
	return s
}

// reset starts a new game. The high score and NewHighScore flag survive.
func (s *State) reset() {
	s.Wave = 1
	s.Score = 0
	s.Lives = config.InitialLives
	s.GameOver = false
	s.Hidden = false
	s.Projectiles = s.Projectiles[:0]
	s.Asteroids = s.Asteroids[:0]
	s.toSpawn = s.toSpawn[:0]
	s.spawnAsteroids(config.InitialAsteroids)

	if s.Ship == nil {
		s.Ship = object.NewShip(s.Screen)
	} else {
		s.Ship.Reset(s.Screen)
	}
	s.Fade.StartIn()
}

// Phase derives the session phase from the state flags.
func (s *State) Phase() Phase {
	switch {
	case s.Hidden:
		return PhaseHidden
	case s.GameOver:
		return PhaseGameOverFadingOut
	case s.Fade.In:
		return PhaseFadingIn
	default:
		return PhasePlaying
	}
}

// spawnAsteroids adds n default-size asteroids at random screen edges.
func (s *State) spawnAsteroids(n int) {
	for range n {
		s.addAsteroid(object.NewAsteroid(s.rng, s.Screen, object.DefaultAsteroidSize))
	}
}

func (s *State) addAsteroid(a *object.Asteroid) {
	s.nextID++
	a.ID = s.nextID
	s.Asteroids = append(s.Asteroids, a)
}

// Spawn queues an asteroid to be added after the current pass.
func (s *State) Spawn(a *object.Asteroid) {
	s.toSpawn = append(s.toSpawn, a)
}

// FlushSpawned adds all queued asteroids and clears the queue.
func (s *State) FlushSpawned() {
	for _, a := range s.toSpawn {
		s.addAsteroid(a)
	}
	s.toSpawn = s.toSpawn[:0]
}

// Fire launches a projectile from the ship's position along its rotation.
func (s *State) Fire() {
	p := object.NewProjectile(s.Ship.Pos, s.Ship.Rotation)
	s.nextID++
	p.ID = s.nextID
	s.Projectiles = append(s.Projectiles, p)
	s.cue(audio.CueShoot)
}

// AddScore credits points and tracks a new high score.
func (s *State) AddScore(points int) {
	s.Score += points
	if s.Score > s.HighScore {
		s.HighScore = s.Score
		s.NewHighScore = true
		s.savePending = true
	}
}

// requestSave asks the session to persist the high score if a crossing is pending.
func (s *State) requestSave() {
	if s.savePending {
		s.saveDue = true
	}
}

func (s *State) cue(c audio.Cue) {
	s.cues = append(s.cues, c)
}

func (s *State) fadeAudio(d time.Duration) {
	s.audioFade = d
}
