package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/meteorites/internal/audio"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave for a fixed number of samples
type oscillator struct {
	freq     float64
	sweep    float64 // Frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *rand.Rand
}

// NewOscillator creates an oscillator; sweep bends the pitch over time.
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    rand.New(rand.NewPCG(uint64(freq*1000), uint64(duration))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		freq := math.Max(o.freq+o.sweep*t, 0)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decayEnvelope applies a short linear attack followed by exponential decay
type decayEnvelope struct {
	streamer beep.Streamer
	rate     beep.SampleRate
	attack   int
	decay    float64 // Per second
	position int
}

// NewDecayEnvelope shapes s with the given attack time and decay constant.
func NewDecayEnvelope(s beep.Streamer, attack time.Duration, decay float64, rate beep.SampleRate) beep.Streamer {
	return &decayEnvelope{streamer: s, rate: rate, attack: rate.N(attack), decay: decay}
}

func (e *decayEnvelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-e.decay * float64(e.position) / float64(e.rate))
		if e.position < e.attack && e.attack > 0 {
			vol *= float64(e.position) / float64(e.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *decayEnvelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain. math.Log2(0) is -Inf, so 0 is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// cueVolumes mirror the relative loudness of the four effects.
var cueVolumes = map[audio.Cue]float64{
	audio.CueShoot:           0.2,
	audio.CueShipExplode:     0.4,
	audio.CueAsteroidExplode: 0.15,
	audio.CueGameOver:        0.15,
}

// CreateCue synthesizes the streamer for a cue.
func CreateCue(c audio.Cue, rate beep.SampleRate, master float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case audio.CueShoot:
		// Falling laser blip
		osc := NewOscillator(1200, -6000, 90*time.Millisecond, WaveSquare, rate)
		s = NewDecayEnvelope(osc, 2*time.Millisecond, 25, rate)
	case audio.CueShipExplode:
		noise := NewOscillator(1, 0, 900*time.Millisecond, WaveNoise, rate)
		rumble := NewOscillator(70, -40, 900*time.Millisecond, WaveSine, rate)
		s = NewDecayEnvelope(beep.Mix(newVolume(noise, 0.6), newVolume(rumble, 0.5)), 5*time.Millisecond, 4, rate)
	case audio.CueAsteroidExplode:
		noise := NewOscillator(1, 0, 300*time.Millisecond, WaveNoise, rate)
		s = NewDecayEnvelope(noise, 2*time.Millisecond, 12, rate)
	case audio.CueGameOver:
		// Three descending notes
		s = beep.Seq(
			NewDecayEnvelope(NewOscillator(440, 0, 300*time.Millisecond, WaveSaw, rate), 10*time.Millisecond, 3, rate),
			NewDecayEnvelope(NewOscillator(349, 0, 300*time.Millisecond, WaveSaw, rate), 10*time.Millisecond, 3, rate),
			NewDecayEnvelope(NewOscillator(262, 0, 600*time.Millisecond, WaveSaw, rate), 10*time.Millisecond, 2, rate),
		)
	default:
		return beep.Silence(0)
	}
	return newVolume(s, cueVolumes[c]*master)
}
