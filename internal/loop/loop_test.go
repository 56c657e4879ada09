package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomz197/meteorites/internal/input"
	"github.com/tomz197/meteorites/internal/object"
	"github.com/tomz197/meteorites/internal/render"
	"github.com/tomz197/meteorites/internal/store"
)

// scriptedInput returns an empty snapshot until quitAfter polls, then Quit.
type scriptedInput struct {
	polls     int
	quitAfter int
}

func (s *scriptedInput) Poll() input.Input {
	s.polls++
	return input.Input{Quit: s.polls >= s.quitAfter}
}

type countingRenderer struct {
	frames int
	last   *render.Frame
	err    error
}

func (r *countingRenderer) Render(f *render.Frame) error {
	r.frames++
	r.last = f
	return r.err
}

// fakeClock advances by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{10 * time.Millisecond, 1},
		{16 * time.Millisecond, 1.6},
		{0, 0},
		{-time.Second, 0},
		{time.Hour, maxElapsed},
	}
	for _, tt := range tests {
		if got := Elapsed(tt.d); got != tt.want {
			t.Errorf("Elapsed(%v): expected %f, got %f", tt.d, tt.want, got)
		}
	}
}

func TestRunUntilQuit(t *testing.T) {
	mem := store.NewMemory(0)
	sess, _ := newTestSession(t, mem)
	sess.State().AddScore(70)

	src := &scriptedInput{quitAfter: 5}
	r := &countingRenderer{}
	clock := &fakeClock{step: 4 * time.Millisecond}
	var slept []time.Duration

	err := Run(context.Background(), RunOptions{
		Session:  sess,
		Input:    src,
		Renderer: r,
		Now:      clock.Now,
		Sleep:    func(d time.Duration) { slept = append(slept, d) },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.frames != 5 {
		t.Errorf("Expected 5 frames, got %d", r.frames)
	}
	if len(slept) != 4 {
		t.Errorf("Expected a sleep after each of the 4 running frames, got %d", len(slept))
	}
	if mem.Saves() != 1 {
		t.Errorf("Expected the pending high score saved once, got %d", mem.Saves())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	mem := store.NewMemory(0)
	sess, _ := newTestSession(t, mem)
	sess.State().AddScore(70)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &countingRenderer{}
	err := Run(ctx, RunOptions{
		Session:  sess,
		Input:    &scriptedInput{quitAfter: 1000},
		Renderer: r,
		Sleep:    func(time.Duration) {},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.frames != 0 {
		t.Errorf("Expected no frames, got %d", r.frames)
	}
	if mem.Saves() != 1 {
		t.Errorf("Expected pending high score flushed on cancel, got %d saves", mem.Saves())
	}
}

func TestRunReturnsRenderError(t *testing.T) {
	sess, _ := newTestSession(t, store.NewMemory(0))
	errGone := errors.New("connection closed")

	err := Run(context.Background(), RunOptions{
		Session:  sess,
		Input:    &scriptedInput{quitAfter: 1000},
		Renderer: &countingRenderer{err: errGone},
		Sleep:    func(time.Duration) {},
	})
	if !errors.Is(err, errGone) {
		t.Errorf("Expected wrapped render error, got %v", err)
	}
}

func TestBuildFramePlaying(t *testing.T) {
	sess, _ := newTestSession(t, store.NewMemory(0))
	st := sess.State()

	f := sess.Frame()
	// 3 asteroids + ship + trophy + 3 hearts
	if got := f.Count(render.KindPolygon); got != 3+1+1+3 {
		t.Errorf("Expected 8 polygons, got %d", got)
	}
	if got := f.Count(render.KindText); got != 3 {
		t.Errorf("Expected 3 HUD texts, got %d", got)
	}
	if got := f.Count(render.KindRect); got != 1 {
		t.Errorf("Expected the fade overlay during fade-in, got %d rects", got)
	}

	st.Fade.In = false
	st.Lives = 1
	f = BuildFrame(st)
	if got := f.Count(render.KindRect); got != 0 {
		t.Errorf("Expected no overlay once faded in, got %d", got)
	}
	if got := f.Count(render.KindPolygon); got != 3+1+1+1 {
		t.Errorf("Expected one heart, got %d polygons", got)
	}
}

func TestBuildFrameHighScoreColor(t *testing.T) {
	sess, _ := newTestSession(t, store.NewMemory(0))
	st := sess.State()
	st.AddScore(140)

	f := BuildFrame(st)
	for _, c := range f.Commands {
		if c.Kind == render.KindText && c.Text == "score: 140" {
			if c.Color != render.Yellow {
				t.Errorf("Expected highlighted score, got %+v", c.Color)
			}
			return
		}
	}
	t.Error("Score text not found")
}

func TestBuildFrameGameOverScreen(t *testing.T) {
	sess, _ := newTestSession(t, store.NewMemory(0))
	st := sess.State()
	st.AddScore(280)
	st.GameOver = true
	st.Hidden = true

	f := BuildFrame(st)
	want := map[string]bool{"Game Over": false, "new high score! 280": false, "Press ENTER to play again": false}
	for _, c := range f.Commands {
		if c.Kind == render.KindPolygon {
			t.Errorf("Expected no playfield on the game over screen")
		}
		if _, ok := want[c.Text]; ok {
			want[c.Text] = true
		}
	}
	for text, ok := range want {
		if !ok {
			t.Errorf("Expected %q on the game over screen", text)
		}
	}
}

// replayInput confirms on the first poll, quits on the second and counts key resets.
type replayInput struct {
	polls  int
	resets int
}

func (r *replayInput) Poll() input.Input {
	r.polls++
	if r.polls == 1 {
		return input.Input{Events: []input.Event{input.EventConfirm}}
	}
	return input.Input{Quit: true}
}

func (r *replayInput) ResetKeys() { r.resets++ }

func TestRunResetsKeysOnReplay(t *testing.T) {
	sess, _ := newTestSession(t, store.NewMemory(0))
	st := sess.State()
	st.GameOver = true
	st.Hidden = true
	st.Ship.State = object.ShipGameOver

	src := &replayInput{}
	clock := &fakeClock{step: time.Millisecond}
	err := Run(context.Background(), RunOptions{
		Session:  sess,
		Input:    src,
		Renderer: &countingRenderer{},
		Now:      clock.Now,
		Sleep:    func(time.Duration) {},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if st.GameOver || st.Lives != 3 {
		t.Errorf("Expected a fresh game after confirm, got game over %v lives %d", st.GameOver, st.Lives)
	}
	if src.resets != 1 {
		t.Errorf("Expected 1 key reset on replay, got %d", src.resets)
	}
}
