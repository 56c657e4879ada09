package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tomz197/meteorites/internal/physics"
	"github.com/tomz197/meteorites/internal/render"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// minVisible is the brightest channel value below which a dimmed pixel is not drawn.
const minVisible = 24

// cell is what one terminal character shows. The zero value is a blank cell.
type cell struct {
	ch rune
	fg render.Color
	bg render.Color // Only used when both halves are set with different colors
}

// invalidCell never matches a real cell, forcing a redraw.
var invalidCell = cell{ch: -1}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int            // Actual terminal columns
	termHeight     int            // Actual terminal rows
	subPixelHeight int            // termHeight * 2
	pixels         []render.Color // Flat slice: [y * termWidth + x]; A == 0 means unset
	prev           []cell         // What the terminal currently shows, per cell

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than the render area.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	dim float64 // Brightness multiplier in [0, 1] applied at Render

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []physics.Vec2
	intersectionBuf []float64
	circleBuf       []physics.Vec2
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the game.
// termWidth/Height are the terminal dimensions of the render area.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		dim:           1,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]render.Color, subPixelHeight*termWidth)
		c.prev = make([]cell, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.ForceRedraw()
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels and the brightness.
func (c *Canvas) Clear() {
	clear(c.pixels)
	c.dim = 1
}

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = invalidCell
	}
}

// Invalidate forces n cells starting at the 1-based canvas position (col, row)
// to be redrawn, e.g. because text was written over them.
func (c *Canvas) Invalidate(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.prev[r*c.termWidth+x] = invalidCell
	}
}

// Dim multiplies the brightness of everything rendered this frame by f.
func (c *Canvas) Dim(f float64) {
	c.dim *= math.Min(math.Max(f, 0), 1)
}

// Brightness returns the current brightness multiplier.
func (c *Canvas) Brightness() float64 {
	return c.dim
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col render.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(p physics.Vec2, col render.Color) {
	px := int(math.Round(p.X * c.scaleX))
	py := int(math.Round(p.Y * c.scaleY))
	c.setPixel(px, py, col)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 physics.Vec2, col render.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []physics.Vec2, col render.Color, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// circleSegments is the number of edges used to approximate a circle.
const circleSegments = 16

// DrawCircle draws a circle as a regular polygon. The center pixel is
// always set so circles smaller than a pixel stay visible.
func (c *Canvas) DrawCircle(center physics.Vec2, radius float64, col render.Color, filled bool) {
	if cap(c.circleBuf) < circleSegments {
		c.circleBuf = make([]physics.Vec2, circleSegments)
	}
	points := c.circleBuf[:circleSegments]
	for i := range points {
		s, co := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		points[i] = physics.Vec2{X: center.X + co*radius, Y: center.Y + s*radius}
	}
	c.DrawPolygon(points, col, filled)
	c.SetFloat(center, col)
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []physics.Vec2, col render.Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]physics.Vec2, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = physics.Vec2{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// shade applies the frame brightness, reporting false if the pixel is too dark to draw.
func (c *Canvas) shade(col render.Color) (render.Color, bool) {
	if col.A == 0 {
		return render.Color{}, false
	}
	col = Scale(col, c.dim*float64(col.A)/255)
	if max(col.R, col.G, col.B) < minVisible {
		return render.Color{}, false
	}
	col.A = 255
	return col, true
}

// cellAt builds the half-block cell for a terminal position.
func (c *Canvas) cellAt(row, col int) cell {
	top, hasTop := c.shade(c.pixels[row*2*c.termWidth+col])
	bottom, hasBottom := c.shade(c.pixels[(row*2+1)*c.termWidth+col])

	switch {
	case hasTop && hasBottom && top == bottom:
		return cell{ch: BlockFull, fg: top}
	case hasTop && hasBottom:
		return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
	case hasTop:
		return cell{ch: BlockUpperHalf, fg: top}
	case hasBottom:
		return cell{ch: BlockLowerHalf, fg: bottom}
	default:
		return cell{}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the cells that changed since the last Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg render.Color
	hasFg, hasBg := false, false

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cur := c.cellAt(row, col)
			idx := row*c.termWidth + col
			if c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur

			c.renderBuf.WriteString("\033[")
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
			c.renderBuf.WriteByte(';')
			c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
			c.renderBuf.WriteByte('H')

			if cur.ch == 0 {
				if hasFg || hasBg {
					c.renderBuf.WriteString(ResetColor)
					hasFg, hasBg = false, false
				}
				c.renderBuf.WriteRune(BlockEmpty)
				continue
			}

			wantBg := cur.bg.A != 0
			if hasBg && !wantBg {
				c.renderBuf.WriteString(ResetColor)
				hasFg, hasBg = false, false
			}
			if !hasFg || fg != cur.fg {
				c.renderBuf.Write(AppendFg(c.numBuf[:0], cur.fg))
				fg, hasFg = cur.fg, true
			}
			if wantBg && (!hasBg || bg != cur.bg) {
				c.renderBuf.Write(AppendBg(c.numBuf[:0], cur.bg))
				bg, hasBg = cur.bg, true
			}
			c.renderBuf.WriteRune(cur.ch)
		}
	}
	if hasFg || hasBg {
		c.renderBuf.WriteString(ResetColor)
	}

	writeChunked(w, c.renderBuf.String())
}

// writeChunked writes data in maxChunkSize pieces.
func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box border around the canvas area when the terminal
// is larger than the render area.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions in canvas coordinates (the writer adds the offset)
	left := 0
	right := c.termWidth + 1
	top := 0
	bottom := c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(1, top, line)
			cw.WriteAt(1, bottom, line)
		}
	}

	if hasH {
		for row := 1; row <= c.termHeight; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(p physics.Vec2) (col, row int) {
	px := int(math.Round(p.X * c.scaleX))
	py := int(math.Round(p.Y * c.scaleY))
	return px + 1, py/2 + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
