package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/meteorites/internal/physics"
	"github.com/tomz197/meteorites/internal/render"
)

func TestFitSquare(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 48, 24, 16, 0},
		{100, 100, 100, 50, 0, 25},
		{300, 120, 160, 80, 70, 20},
	}
	for _, tt := range tests {
		rw, rh, oc, or := FitSquare(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("FitSquare(%d, %d): expected (%d, %d, %d, %d), got (%d, %d, %d, %d)",
				tt.w, tt.h, tt.rw, tt.rh, tt.offCol, tt.offRow, rw, rh, oc, or)
		}
	}
}

func TestCanvasRendersOnlyChanges(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.SetFloat(physics.Vec2{X: 2, Y: 2}, render.White)

	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.ContainsRune(buf.String(), BlockUpperHalf) {
		t.Fatalf("Expected an upper half block in the first render, got %q", buf.String())
	}

	buf.Reset()
	c.Clear()
	c.SetFloat(physics.Vec2{X: 2, Y: 2}, render.White)
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("Expected no output for an unchanged frame, got %q", buf.String())
	}

	buf.Reset()
	c.Clear()
	c.Render(&buf)
	if strings.ContainsRune(buf.String(), BlockUpperHalf) || !strings.Contains(buf.String(), " ") {
		t.Errorf("Expected the pixel to be blanked, got %q", buf.String())
	}
}

func TestCanvasHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(physics.Vec2{X: 0, Y: 0}, render.White)
	c.SetFloat(physics.Vec2{X: 0, Y: 1}, render.White)
	c.SetFloat(physics.Vec2{X: 1, Y: 1}, render.Red)

	if got := c.cellAt(0, 0); got.ch != BlockFull {
		t.Errorf("Expected full block, got %q", got.ch)
	}
	if got := c.cellAt(0, 1); got.ch != BlockLowerHalf || got.fg != render.Red {
		t.Errorf("Expected red lower half, got %q %+v", got.ch, got.fg)
	}
	if got := c.cellAt(1, 0); got.ch != 0 {
		t.Errorf("Expected blank cell, got %q", got.ch)
	}
}

func TestCanvasDimHidesPixels(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(physics.Vec2{X: 0, Y: 0}, render.White)
	c.Dim(0)

	if got := c.cellAt(0, 0); got.ch != 0 {
		t.Errorf("Expected fully dimmed pixel to vanish, got %q", got.ch)
	}

	c.Clear()
	c.SetFloat(physics.Vec2{X: 0, Y: 0}, render.White)
	c.Dim(0.5)
	if got := c.cellAt(0, 0); got.fg.R != 127 {
		t.Errorf("Expected half brightness, got %+v", got.fg)
	}
}

func TestFilledPolygon(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	square := []physics.Vec2{{X: 2, Y: 2}, {X: 7, Y: 2}, {X: 7, Y: 7}, {X: 2, Y: 7}}
	c.DrawPolygon(square, render.White, true)

	if c.pixels[4*10+4].A == 0 {
		t.Error("Expected interior pixel to be filled")
	}
	if c.pixels[0].A != 0 {
		t.Error("Expected pixel outside the polygon to stay empty")
	}
}

func sized(w, h int) TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func TestTerminalRendererDrawsText(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, sized(80, 24), 800, 800)

	f := render.NewFrame(800, 800)
	f.Polygon([]physics.Vec2{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 150, Y: 200}}, render.Yellow, 3)
	f.Text(physics.Vec2{X: 10, Y: 0}, "score: 42", render.White, render.TextMedium, render.AnchorTopLeft)

	if err := r.Render(f); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out.String(), "score: 42") {
		t.Error("Expected HUD text in the output")
	}
	if !strings.Contains(out.String(), "38;2;255;255;0m") {
		t.Error("Expected yellow pixels in the output")
	}
}

func TestTerminalRendererHidesTextWhenFaded(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out, sized(80, 24), 800, 800)

	f := render.NewFrame(800, 800)
	f.Text(physics.Vec2{X: 400, Y: 400}, "Game Over", render.Red, render.TextTitle, render.AnchorCenter)
	f.Rect(physics.Vec2{}, 800, 800, render.Black.WithAlpha(250))

	if err := r.Render(f); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(out.String(), "Game Over") {
		t.Error("Expected text hidden behind a near-opaque fade")
	}
}

func TestTerminalRendererClearsOnResize(t *testing.T) {
	var out bytes.Buffer
	w, h := 80, 24
	r := NewTerminalRenderer(&out, func() (int, int, error) { return w, h, nil }, 800, 800)

	f := render.NewFrame(800, 800)
	r.Render(f)
	out.Reset()

	w, h = 120, 40
	r.Render(f)
	if !strings.Contains(out.String(), "\033[2J") {
		t.Error("Expected a screen clear after resize")
	}
	if r.Canvas().TerminalWidth() != 80 {
		t.Errorf("Expected render width 80, got %d", r.Canvas().TerminalWidth())
	}
}
