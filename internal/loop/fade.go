package loop

import "github.com/tomz197/meteorites/internal/loop/config"

// Fade is the black overlay used for screen transitions.
// Alpha 255 is fully black.
type Fade struct {
	In    bool
	Out   bool
	Alpha float64
	Rate  float64 // Opacity change per elapsed tick
}

// StartIn begins a fade from black.
func (f *Fade) StartIn() {
	f.In, f.Out, f.Alpha = true, false, config.FadeOpaque
}

// StartOut begins a fade to black.
func (f *Fade) StartOut() {
	f.In, f.Out, f.Alpha = false, true, 0
}

// Active reports whether the overlay should be drawn.
func (f *Fade) Active() bool {
	return f.In || f.Out
}

// Step advances the fade and reports whether a fade-out just completed.
func (f *Fade) Step(elapsed float64) (outDone bool) {
	switch {
	case f.In:
		f.Alpha = max(f.Alpha-f.Rate*elapsed, 0)
		if f.Alpha == 0 {
			f.In = false
		}
	case f.Out:
		f.Alpha = min(f.Alpha+f.Rate*elapsed, config.FadeOpaque)
		if f.Alpha == config.FadeOpaque {
			f.Out = false
			return true
		}
	}
	return false
}

// updateFade runs the overlay and hides the playfield once the
// game over fade-out completes.
func updateFade(s *State, elapsed float64) {
	if !s.Fade.Step(elapsed) {
		return
	}
	if s.GameOver {
		s.Hidden = true
		s.Fade.StartIn()
	}
}
