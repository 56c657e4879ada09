// Package sound synthesizes the game's cues and plays them through the speaker.
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/meteorites/internal/audio"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// fader lets a playing cue be faded out after it was started
type fader struct {
	streamer beep.Streamer
	gain     float64
	step     float64 // Gain removed per sample once fading
	done     bool
}

func (f *fader) Stream(samples [][2]float64) (n int, ok bool) {
	if f.done {
		return 0, false
	}
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if f.step > 0 {
			f.gain -= f.step
			if f.gain <= 0 {
				f.gain = 0
				f.done = true
			}
		}
		samples[i][0] *= f.gain
		samples[i][1] *= f.gain
	}
	if !ok {
		f.done = true
	}
	return n, ok
}

func (f *fader) Err() error { return f.streamer.Err() }

// SoundManager mixes cues onto the speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	active      []*fader
	master      float64
	initialized bool
	lock        func() // speaker.Lock, swapped out in tests
	unlock      func()
}

// NewSoundManager creates a sound manager with the given master volume.
func NewSoundManager(master float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		master: master,
		lock:   func() {},
		unlock: func() {},
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}

	sm.lock = speaker.Lock
	sm.unlock = speaker.Unlock
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play implements audio.Player.
func (sm *SoundManager) Play(c audio.Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.add(CreateCue(c, sampleRate, sm.master))
}

func (sm *SoundManager) add(s beep.Streamer) {
	f := &fader{streamer: s, gain: 1}

	sm.lock()
	defer sm.unlock()

	// Drop finished cues so the list does not grow for the whole session
	kept := sm.active[:0]
	for _, a := range sm.active {
		if !a.done {
			kept = append(kept, a)
		}
	}
	sm.active = append(kept, f)
	sm.mixer.Add(f)
}

// FadeOut implements audio.Player.
func (sm *SoundManager) FadeOut(d time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	n := sampleRate.N(d)
	if n < 1 {
		n = 1
	}

	sm.lock()
	defer sm.unlock()
	for _, a := range sm.active {
		if !a.done && a.step == 0 {
			a.step = a.gain / float64(n)
		}
	}
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	sm.lock()
	sm.mixer.Clear()
	sm.active = nil
	sm.unlock()

	// beep has no speaker Close; clearing the mixer leaves it streaming silence
	sm.initialized = false
}

var _ audio.Player = (*SoundManager)(nil)
