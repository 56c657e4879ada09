package draw

import (
	"io"
	"unicode/utf8"

	"github.com/tomz197/meteorites/internal/render"
)

// Render area limits in terminal cells. Larger terminals get a centered,
// bordered area so the picture stays legible.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 80
)

// minTextBrightness hides overlay text while the screen is mostly faded out.
const minTextBrightness = 0.25

// textSpan is a run of cells covered by text in the previous frame.
type textSpan struct {
	col, row, n int
}

// TerminalRenderer draws frames onto a terminal with half-block pixels.
type TerminalRenderer struct {
	out      io.Writer
	cw       *ChunkWriter
	canvas   *Canvas
	sizeFunc TermSizeFunc

	termWidth  int // Last seen terminal size
	termHeight int
	spans      []textSpan
}

// NewTerminalRenderer creates a renderer for a logical playfield of the given size.
func NewTerminalRenderer(w io.Writer, sizeFunc TermSizeFunc, logicalWidth, logicalHeight int) *TerminalRenderer {
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	r := &TerminalRenderer{
		out:      w,
		cw:       NewChunkWriter(w, 0, 0),
		sizeFunc: sizeFunc,
	}

	termWidth, termHeight, err := sizeFunc()
	if err != nil {
		termWidth, termHeight = 80, 24
	}
	renderWidth, renderHeight, offsetCol, offsetRow := FitSquare(termWidth, termHeight)
	r.canvas = NewScaledCanvas(renderWidth, renderHeight, float64(logicalWidth), float64(logicalHeight))
	r.canvas.SetOffset(offsetCol, offsetRow)
	r.cw.SetOffset(offsetCol, offsetRow)
	r.termWidth, r.termHeight = termWidth, termHeight
	return r
}

// FitSquare picks the largest render area that shows a square playfield
// with square pixels (one cell is one pixel wide and two pixels tall),
// clamped to the max render size and centered in the terminal.
func FitSquare(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	termWidth, termHeight = max(termWidth, 2), max(termHeight, 1)

	renderWidth = min(termWidth, termHeight*2, MaxTermWidth, MaxTermHeight*2)
	renderWidth -= renderWidth % 2
	renderWidth = max(renderWidth, 2)
	renderHeight = renderWidth / 2

	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// Start prepares the terminal for drawing.
func (r *TerminalRenderer) Start() {
	HideCursor(r.out)
	ClearScreen(r.out)
	r.canvas.ForceRedraw()
}

// Stop restores the terminal.
func (r *TerminalRenderer) Stop() {
	io.WriteString(r.out, ResetColor)
	ClearScreen(r.out)
	ShowCursor(r.out)
}

// Canvas returns the underlying canvas.
func (r *TerminalRenderer) Canvas() *Canvas { return r.canvas }

// updateScreen handles terminal resize. On size changes the terminal is
// cleared to remove residual pixels outside the new render area.
func (r *TerminalRenderer) updateScreen() {
	termWidth, termHeight, err := r.sizeFunc()
	if err != nil || (termWidth == r.termWidth && termHeight == r.termHeight) {
		return
	}
	r.termWidth, r.termHeight = termWidth, termHeight

	renderWidth, renderHeight, offsetCol, offsetRow := FitSquare(termWidth, termHeight)
	r.cw.WriteString(ResetColor + "\033[H\033[2J")
	r.canvas.Resize(renderWidth, renderHeight)
	r.canvas.SetOffset(offsetCol, offsetRow)
	r.canvas.ForceRedraw()
	r.cw.SetOffset(offsetCol, offsetRow)
	r.spans = r.spans[:0]
}

// Render implements render.Renderer.
func (r *TerminalRenderer) Render(f *render.Frame) error {
	r.updateScreen()

	c := r.canvas
	c.Clear()

	// Overlays dim everything, whatever their position in the list
	for _, cmd := range f.Commands {
		if cmd.Kind == render.KindRect {
			c.Dim(1 - float64(cmd.Color.A)/255)
		}
	}

	for _, cmd := range f.Commands {
		switch cmd.Kind {
		case render.KindPolygon:
			c.DrawPolygon(cmd.Points, cmd.Color, cmd.Width == 0)
		case render.KindCircle:
			c.DrawCircle(cmd.Center, cmd.Radius, cmd.Color, cmd.Filled)
		}
	}

	// Cells under last frame's text must be repainted
	for _, s := range r.spans {
		c.Invalidate(s.col, s.row, s.n)
	}
	r.spans = r.spans[:0]

	c.Render(r.cw)
	c.RenderBorder(r.cw)
	r.drawText(f)

	return r.cw.Flush()
}

// drawText writes the frame's labels over the canvas.
func (r *TerminalRenderer) drawText(f *render.Frame) {
	c := r.canvas
	if c.Brightness() < minTextBrightness {
		return
	}

	for _, cmd := range f.Commands {
		if cmd.Kind != render.KindText {
			continue
		}
		n := utf8.RuneCountInString(cmd.Text)
		col, row := c.LogicalToTerminal(cmd.Pos)
		if cmd.Anchor == render.AnchorCenter {
			col -= n / 2
		}

		// Clip to the render area
		if row < 1 || row > c.TerminalHeight() {
			continue
		}
		col = max(col, 1)
		if over := col + n - 1 - c.TerminalWidth(); over > 0 {
			if over >= n {
				continue
			}
			runes := []rune(cmd.Text)
			cmd.Text = string(runes[:n-over])
			n -= over
		}

		r.cw.WriteColoredAt(col, row, cmd.Text, Scale(cmd.Color, c.Brightness()))
		r.spans = append(r.spans, textSpan{col: col, row: row, n: n})
	}
}

var _ render.Renderer = (*TerminalRenderer)(nil)
