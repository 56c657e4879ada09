package sound

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/meteorites/internal/audio"
)

// drain streams s to completion and returns the sample count and peak level
func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if v := buf[i][0]; v > peak {
				peak = v
			} else if -v > peak {
				peak = -v
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

// TestOscillatorDuration verifies the oscillator stops after its duration
func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 0, 100*time.Millisecond, WaveSine, rate)

	total, peak := drain(osc)
	if total != rate.N(100*time.Millisecond) {
		t.Errorf("Expected %d samples, got %d", rate.N(100*time.Millisecond), total)
	}
	if peak > 1.0 {
		t.Errorf("Expected samples within [-1, 1], peak was %f", peak)
	}
}

// TestSquareWaveValues verifies square wave only emits -1 and 1
func TestSquareWaveValues(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(220, 0, 20*time.Millisecond, WaveSquare, rate)

	samples := make([][2]float64, 100)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		if v := samples[i][0]; v != -1.0 && v != 1.0 {
			t.Fatalf("Square wave sample %d should be -1.0 or 1.0, got %f", i, v)
		}
	}
}

// TestCuesAreFiniteAndAudible verifies every cue ends and produces sound
func TestCuesAreFiniteAndAudible(t *testing.T) {
	for _, c := range []audio.Cue{audio.CueShoot, audio.CueShipExplode, audio.CueAsteroidExplode, audio.CueGameOver} {
		total, peak := drain(CreateCue(c, sampleRate, 1))
		if total == 0 {
			t.Errorf("Cue %v produced no samples", c)
		}
		if total > sampleRate.N(2*time.Second) {
			t.Errorf("Cue %v is too long: %d samples", c, total)
		}
		if peak == 0 {
			t.Errorf("Cue %v is silent", c)
		}
	}
}

// TestZeroMasterIsSilent verifies a master volume of 0 mutes cues
func TestZeroMasterIsSilent(t *testing.T) {
	_, peak := drain(CreateCue(audio.CueShoot, sampleRate, 0))
	if peak != 0 {
		t.Errorf("Expected silence at master volume 0, peak was %f", peak)
	}
}

// TestFadeOutSilencesActiveCues verifies FadeOut ramps active cues to zero
func TestFadeOutSilencesActiveCues(t *testing.T) {
	sm := NewSoundManager(1)
	sm.initialized = true // mixer only, no speaker

	sm.Play(audio.CueShipExplode)
	if len(sm.active) != 1 {
		t.Fatalf("Expected 1 active cue, got %d", len(sm.active))
	}

	sm.FadeOut(10 * time.Millisecond)
	total, _ := drain(sm.active[0])
	if total > sampleRate.N(10*time.Millisecond)+512 {
		t.Errorf("Expected cue to stop shortly after the fade, streamed %d samples", total)
	}
	if !sm.active[0].done {
		t.Error("Expected faded cue to be done")
	}
}

// TestPlayBeforeInitializeIsNoop verifies cues are dropped without a speaker
func TestPlayBeforeInitializeIsNoop(t *testing.T) {
	sm := NewSoundManager(1)
	sm.Play(audio.CueShoot)
	if sm.mixer.Len() != 0 {
		t.Errorf("Expected empty mixer, got %d streamers", sm.mixer.Len())
	}
}
