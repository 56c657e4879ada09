package loop

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/object"
	"github.com/tomz197/meteorites/internal/render"
	"github.com/tomz197/meteorites/internal/store"
)

// Options configures a Session. Zero values pick defaults.
type Options struct {
	Screen   object.Screen
	Rand     *rand.Rand
	Store    store.HighScoreStore
	Audio    audio.Player
	Logger   *log.Logger
	FadeRate float64
}

// Session owns one game and its collaborators.
type Session struct {
	state  *State
	store  store.HighScoreStore
	audio  audio.Player
	logger *log.Logger
	quit   bool
}

// NewSession loads the high score and starts a game. A store that
// cannot be read is fatal; a missing record starts from 0.
func NewSession(opts Options) (*Session, error) {
	if opts.Screen.Width <= 0 || opts.Screen.Height <= 0 {
		opts.Screen = object.NewScreen(config.ScreenWidth, config.ScreenHeight)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory(0)
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.FadeRate <= 0 {
		opts.FadeRate = config.FadeRate
	}

	high, err := opts.Store.LoadHighScore()
	if err != nil {
		return nil, fmt.Errorf("load high score: %w", err)
	}
	opts.Logger.Debug("loaded high score", "score", high)

	return &Session{
		state:  NewState(opts.Screen, opts.Rand, high, opts.FadeRate),
		store:  opts.Store,
		audio:  opts.Audio,
		logger: opts.Logger,
	}, nil
}

// State exposes the game state for rendering and inspection.
func (s *Session) State() *State { return s.state }

// Phase returns the current session phase.
func (s *Session) Phase() Phase { return s.state.Phase() }

// Quit reports whether a quit was requested.
func (s *Session) Quit() bool { return s.quit }

// Tick advances the game by elapsed ticks and applies the input.
// It returns false once the player has quit.
func (s *Session) Tick(elapsed float64, in input.Input) bool {
	if s.quit {
		return false
	}
	st := s.state
	wasOver := st.GameOver

	updateFade(st, elapsed)

	if !st.Hidden {
		if !st.GameOver {
			advanceWave(st)
		}
		updateAsteroids(st, elapsed)
		updateShip(st, elapsed, in.Held)
		updateProjectiles(st, elapsed)
	}

	s.handleEvents(in)

	if !wasOver && st.GameOver {
		s.logger.Info("game over", "score", st.Score, "wave", st.Wave, "high_score", st.HighScore)
	}
	s.drain()
	return !s.quit
}

// handleEvents processes the discrete input queue in arrival order.
func (s *Session) handleEvents(in input.Input) {
	st := s.state
	if in.Quit {
		s.quit = true
		st.requestSave()
	}

	for _, ev := range in.Events {
		switch ev {
		case input.EventFire:
			if st.Ship.Alive() && !st.GameOver {
				st.Fire()
			}
		case input.EventConfirm:
			if st.Hidden && st.GameOver {
				replay(st)
				s.logger.Info("replay", "high_score", st.HighScore)
			}
		}
	}
}

// drain hands the tick's side effects to the audio player and store.
func (s *Session) drain() {
	st := s.state

	if st.audioFade > 0 {
		s.audio.FadeOut(st.audioFade)
		st.audioFade = 0
	}
	for _, c := range st.cues {
		s.audio.Play(c)
	}
	st.cues = st.cues[:0]

	if st.saveDue {
		st.saveDue = false
		s.save()
	}
}

// save persists the high score. Failures are logged and the save stays
// pending for the next flush.
func (s *Session) save() {
	st := s.state
	if err := s.store.SaveHighScore(st.HighScore); err != nil {
		s.logger.Error("save high score", "score", st.HighScore, "err", err)
		return
	}
	st.savePending = false
	s.logger.Info("saved high score", "score", st.HighScore)
}

// Close flushes a high score that was set but not yet saved.
func (s *Session) Close() {
	s.state.requestSave()
	s.drain()
}

// Frame builds the draw commands for the current state.
func (s *Session) Frame() *render.Frame {
	return BuildFrame(s.state)
}
