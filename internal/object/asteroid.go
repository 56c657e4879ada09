package object

import (
	"math"
	"math/rand/v2"

	"github.com/tomz197/meteorites/internal/physics"
)

// Asteroid properties.
const (
	DefaultAsteroidSize = 140 // Edge of the bounding square for wave asteroids
	MinAsteroidSize     = 35  // Children smaller than this are not spawned
	AsteroidVertices    = 20
	AsteroidSpeed       = 0.5 // Units per elapsed tick
)

// Edge identifies the screen side an asteroid enters from.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Asteroid is a destructible space rock.
type Asteroid struct {
	ID            uint64       // Stable identity, assigned by the owning state
	Pos           physics.Vec2 // Center
	Size          int          // Edge of the bounding square
	Radius        float64      // Mean vertex radius, used as the hit radius
	Heading       float64      // Degrees
	Rotation      float64      // Degrees, kept in [0, 359)
	RotationSpeed float64      // Degrees per elapsed tick
	Destroyed     bool         // Marked for removal this tick

	// Vertices are offsets inside the Size x Size square, fixed at creation.
	Vertices [AsteroidVertices]physics.Vec2
}

// NewAsteroid creates an asteroid just outside a random screen edge.
func NewAsteroid(rng *rand.Rand, screen Screen, size int) *Asteroid {
	a := &Asteroid{
		Size:          size,
		Heading:       uniform(rng, 0, 360),
		Rotation:      physics.Mod359(uniform(rng, -1, 1)),
		RotationSpeed: uniform(rng, -1, 1),
	}

	edge := Edge(rng.IntN(4))
	a.Pos = spawnPoint(rng, screen, edge, float64(size))
	a.Radius = a.generateVertices(rng)
	return a
}

// spawnPoint places a point one size-length beyond the given edge.
func spawnPoint(rng *rand.Rand, screen Screen, edge Edge, size float64) physics.Vec2 {
	w, h := screen.W(), screen.H()
	switch edge {
	case EdgeTop:
		return physics.Vec2{X: uniform(rng, 0, w), Y: -size}
	case EdgeRight:
		return physics.Vec2{X: w + size, Y: uniform(rng, 0, h)}
	case EdgeBottom:
		return physics.Vec2{X: uniform(rng, 0, w), Y: h + size}
	default:
		return physics.Vec2{X: -size, Y: uniform(rng, 0, h)}
	}
}

// generateVertices builds the irregular outline and returns the mean radius.
func (a *Asteroid) generateVertices(rng *rand.Rand) float64 {
	half := float64(a.Size / 2)
	lo, hi := a.Size/3, a.Size/2
	if hi < 1 {
		hi = 1
	}
	lo = min(lo, hi)

	total := 0
	for i := range a.Vertices {
		r := randInt(rng, lo, hi)
		total += r

		s, c := math.Sincos(physics.Radians(float64(i) * 360 / AsteroidVertices))
		a.Vertices[i] = physics.Vec2{
			X: half + s*float64(-r),
			Y: half + c*float64(-r),
		}
	}
	return float64(total) / AsteroidVertices
}

// Update moves and rotates the asteroid, wrapping it past the screen margin.
func (a *Asteroid) Update(elapsed float64, screen Screen) {
	a.Pos = a.Pos.Add(physics.HeadingToDelta(a.Heading, AsteroidSpeed*elapsed))
	a.Rotation = physics.Mod359(a.Rotation + a.RotationSpeed*elapsed)

	margin := float64(a.Size) / 2
	a.Pos.X = physics.WrapMargin(a.Pos.X, screen.W(), margin)
	a.Pos.Y = physics.WrapMargin(a.Pos.Y, screen.H(), margin)
}

// Collide reports whether p is strictly within the asteroid's mean radius.
func (a *Asteroid) Collide(p physics.Vec2) bool {
	return physics.CircleHit(a.Pos, p, a.Radius)
}

// Split returns the fragments a projectile hit produces: two half-size
// children at the current position heading +90 and -90 degrees off the
// parent, or none once halving would drop below MinAsteroidSize.
func (a *Asteroid) Split(rng *rand.Rand, screen Screen) []*Asteroid {
	if float64(a.Size)/2 < MinAsteroidSize {
		return nil
	}

	children := make([]*Asteroid, 0, 2)
	for i := 0; i < 2; i++ {
		child := NewAsteroid(rng, screen, a.Size/2)
		child.Pos = a.Pos
		if i == 1 {
			child.Heading = a.Heading - 90
		} else {
			child.Heading = a.Heading + 90
		}
		children = append(children, child)
	}
	return children
}

// Outline returns the vertices in screen coordinates, rotated by the current rotation.
func (a *Asteroid) Outline() []physics.Vec2 {
	half := float64(a.Size / 2)
	origin := physics.Vec2{X: half, Y: half}

	points := make([]physics.Vec2, len(a.Vertices))
	for i, v := range a.Vertices {
		points[i] = v.Sub(origin).Rotate(a.Rotation).Add(a.Pos)
	}
	return points
}

// MarkDestroyed marks the asteroid for removal at the end of the tick.
func (a *Asteroid) MarkDestroyed() {
	a.Destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for removal.
func (a *Asteroid) IsDestroyed() bool {
	return a.Destroyed
}
