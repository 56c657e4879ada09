package window

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/meteorites/internal/physics"
	"github.com/tomz197/meteorites/internal/render"
)

// The debug font is a fixed 6x16 cell; larger text is scaled up from it.
const (
	glyphWidth   = 6
	glyphHeight  = 16
	maxTextRunes = 64
)

// textScale maps a text size to a scale of the debug font.
func textScale(size render.TextSize) float64 {
	switch size {
	case render.TextMedium:
		return 2
	case render.TextLarge:
		return 2.5
	case render.TextTitle:
		return 4
	default:
		return 1.5
	}
}

// textOrigin returns the top-left corner of a label and its rune count after clipping.
func textOrigin(cmd render.Command) (x, y float64, n int) {
	n = min(utf8.RuneCountInString(cmd.Text), maxTextRunes)
	x, y = cmd.Pos.X, cmd.Pos.Y
	if cmd.Anchor == render.AnchorCenter {
		s := textScale(cmd.Size)
		x -= float64(n*glyphWidth) * s / 2
		y -= glyphHeight * s / 2
	}
	return x, y, n
}

func toColor(c render.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Renderer draws frames onto an ebiten image with vector shapes.
type Renderer struct {
	target   *ebiten.Image
	scratch  *ebiten.Image // Text is printed here before scaling
	whiteSub *ebiten.Image // Solid source for filled triangles
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderer creates a window renderer.
func NewRenderer() *Renderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{
		scratch:  ebiten.NewImage(maxTextRunes*glyphWidth, glyphHeight),
		whiteSub: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// SetTarget selects the image the next Render call draws onto.
func (r *Renderer) SetTarget(dst *ebiten.Image) { r.target = dst }

// Render implements render.Renderer.
func (r *Renderer) Render(f *render.Frame) error {
	dst := r.target
	if dst == nil || f == nil {
		return nil
	}
	dst.Fill(color.Black)

	for _, cmd := range f.Commands {
		switch cmd.Kind {
		case render.KindPolygon:
			if cmd.Width == 0 {
				r.fillPolygon(dst, cmd.Points, cmd.Color)
			} else {
				strokePolygon(dst, cmd.Points, cmd.Width, cmd.Color)
			}
		case render.KindCircle:
			x, y, rad := float32(cmd.Center.X), float32(cmd.Center.Y), float32(cmd.Radius)
			if cmd.Filled {
				vector.DrawFilledCircle(dst, x, y, rad, toColor(cmd.Color), true)
			} else {
				vector.StrokeCircle(dst, x, y, rad, 1, toColor(cmd.Color), true)
			}
		case render.KindRect:
			vector.DrawFilledRect(dst, float32(cmd.Pos.X), float32(cmd.Pos.Y), float32(cmd.W), float32(cmd.H), toColor(cmd.Color), false)
		case render.KindText:
			r.drawText(dst, cmd)
		}
	}
	return nil
}

func strokePolygon(dst *ebiten.Image, points []physics.Vec2, width float64, c render.Color) {
	clr := toColor(c)
	for i, p := range points {
		q := points[(i+1)%len(points)]
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), float32(width), clr, true)
	}
}

func (r *Renderer) fillPolygon(dst *ebiten.Image, points []physics.Vec2, c render.Color) {
	if len(points) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	r.vertices, r.indices = path.AppendVerticesAndIndicesForFilling(r.vertices[:0], r.indices[:0])

	// Vertex colors are premultiplied
	a := float32(c.A) / 255
	for i := range r.vertices {
		v := &r.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(c.R) / 255 * a
		v.ColorG = float32(c.G) / 255 * a
		v.ColorB = float32(c.B) / 255 * a
		v.ColorA = a
	}

	op := &ebiten.DrawTrianglesOptions{FillRule: ebiten.FillRuleNonZero, AntiAlias: true}
	dst.DrawTriangles(r.vertices, r.indices, r.whiteSub, op)
}

func (r *Renderer) drawText(dst *ebiten.Image, cmd render.Command) {
	x, y, n := textOrigin(cmd)
	if n == 0 {
		return
	}
	text := cmd.Text
	if utf8.RuneCountInString(text) > n {
		text = string([]rune(text)[:n])
	}

	r.scratch.Clear()
	ebitenutil.DebugPrintAt(r.scratch, text, 0, 0)

	s := textScale(cmd.Size)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(toColor(cmd.Color))
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(r.scratch.SubImage(image.Rect(0, 0, n*glyphWidth, glyphHeight)).(*ebiten.Image), op)
}

var _ render.Renderer = (*Renderer)(nil)
