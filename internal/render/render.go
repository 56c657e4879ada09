// Package render describes a frame as an ordered list of draw commands.
// The simulation produces frames; terminal and window renderers consume them.
package render

import "github.com/tomz197/meteorites/internal/physics"

// Color is an 8-bit RGBA color. A is opacity (255 = opaque).
type Color struct {
	R, G, B, A uint8
}

// Palette used by the game.
var (
	White  = Color{R: 255, G: 255, B: 255, A: 255}
	Yellow = Color{R: 255, G: 255, B: 0, A: 255}
	Red    = Color{R: 255, G: 0, B: 0, A: 255}
	Orange = Color{R: 255, G: 140, B: 0, A: 255}
	Black  = Color{A: 255}
)

// WithAlpha returns c with its opacity replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Kind identifies a draw command.
type Kind int

const (
	KindPolygon Kind = iota
	KindCircle
	KindText
	KindRect
)

// TextSize selects one of the fonts a renderer offers.
type TextSize int

const (
	TextSmall  TextSize = iota // Replay prompt
	TextMedium                 // HUD
	TextLarge                  // Score on the game over screen
	TextTitle                  // "Game Over"
)

// Anchor selects how a text position is interpreted.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorCenter
)

// Command is one draw instruction. Only the fields relevant to Kind are set.
type Command struct {
	Kind   Kind
	Color  Color
	Points []physics.Vec2 // Polygon outline, closed
	Width  float64        // Polygon stroke width; 0 fills
	Center physics.Vec2   // Circle center
	Radius float64        // Circle radius
	Filled bool           // Circle fill
	Pos    physics.Vec2   // Text anchor or rect top-left
	Text   string
	Size   TextSize
	Anchor Anchor
	W, H   float64 // Rect size
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Width    int
	Height   int
	Commands []Command
}

// NewFrame starts an empty frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height}
}

// Polygon appends an outlined polygon.
func (f *Frame) Polygon(points []physics.Vec2, c Color, width float64) {
	f.Commands = append(f.Commands, Command{Kind: KindPolygon, Points: points, Color: c, Width: width})
}

// Circle appends a circle.
func (f *Frame) Circle(center physics.Vec2, radius float64, c Color, filled bool) {
	f.Commands = append(f.Commands, Command{Kind: KindCircle, Center: center, Radius: radius, Color: c, Filled: filled})
}

// Text appends a text label.
func (f *Frame) Text(pos physics.Vec2, s string, c Color, size TextSize, anchor Anchor) {
	f.Commands = append(f.Commands, Command{Kind: KindText, Pos: pos, Text: s, Color: c, Size: size, Anchor: anchor})
}

// Rect appends a filled rectangle.
func (f *Frame) Rect(pos physics.Vec2, w, h float64, c Color) {
	f.Commands = append(f.Commands, Command{Kind: KindRect, Pos: pos, W: w, H: h, Color: c})
}

// Count returns the number of commands of the given kind.
func (f *Frame) Count(kind Kind) int {
	n := 0
	for _, c := range f.Commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Renderer draws frames. Errors end the session (e.g. a dropped connection).
type Renderer interface {
	Render(f *Frame) error
}
