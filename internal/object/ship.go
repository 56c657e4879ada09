package object

import (
	"math"

	"github.com/tomz197/meteorites/internal/physics"
)

// Ship tuning, in units per elapsed tick.
const (
	ShipMaxSpeed       = 5.0
	ShipThrust         = 0.05 // Speed gained per tick while Up/Down is held
	ShipFriction       = 0.02 // Speed lost per tick with neither held
	ShipTurnRate       = 3.0  // Degrees per tick
	ExplosionRate      = 0.2  // Explosion frames per tick
	ExplosionDuration  = 40.0 // Frame count after which the ship respawns
	ExplosionFrames    = 27   // Frames with a visible explosion
	ExplosionMaxRadius = 100.0
)

// ShipState is the ship's phase.
type ShipState int

const (
	ShipFlying    ShipState = iota // Accepts input
	ShipExploding                  // Destroyed, explosion animating
	ShipGameOver                   // No lives left, frozen
)

func (s ShipState) String() string {
	switch s {
	case ShipFlying:
		return "flying"
	case ShipExploding:
		return "exploding"
	case ShipGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// shipHull is the triangle drawn for the ship, relative to its center at rotation 0.
var shipHull = [3]physics.Vec2{
	{X: 0, Y: -15},
	{X: 10, Y: 10},
	{X: -10, Y: 10},
}

// Ship is the player-controlled spaceship.
type Ship struct {
	Pos            physics.Vec2 // Center
	Rotation       float64      // Degrees, kept in [0, 359)
	Speed          float64      // Forward speed in [-ShipMaxSpeed, ShipMaxSpeed]
	State          ShipState
	ExplosionFrame float64 // Advances only while destroyed
}

// NewShip creates a ship at the center of the screen.
func NewShip(screen Screen) *Ship {
	s := &Ship{}
	s.Reset(screen)
	return s
}

// Reset puts the ship back at the center, at rest, flying.
func (s *Ship) Reset(screen Screen) {
	s.Pos = screen.Center()
	s.Rotation = 0
	s.Speed = 0
	s.State = ShipFlying
	s.ExplosionFrame = 0
}

// Alive reports whether the ship is flying.
func (s *Ship) Alive() bool {
	return s.State == ShipFlying
}

// Fly applies thrust, friction and rotation from the held keys, then moves the ship.
func (s *Ship) Fly(elapsed float64, ctl Controls, screen Screen) {
	if s.State != ShipFlying {
		return
	}

	switch {
	case ctl.Up:
		s.Speed = math.Min(s.Speed+ShipThrust*elapsed, ShipMaxSpeed)
	case ctl.Down:
		s.Speed = math.Max(s.Speed-ShipThrust*elapsed, -ShipMaxSpeed)
	default:
		s.Speed = decay(s.Speed, ShipFriction*elapsed)
	}

	switch {
	case ctl.Left:
		s.Rotation += ShipTurnRate * elapsed
	case ctl.Right:
		s.Rotation -= ShipTurnRate * elapsed
	}
	s.Rotation = physics.Mod359(s.Rotation)

	s.Pos = s.Pos.Add(physics.HeadingToDelta(s.Rotation, -s.Speed*elapsed))
	s.Pos = physics.WrapPosition(s.Pos, screen.W(), screen.H())
}

// decay moves speed toward zero by step without crossing it.
// Within ShipFriction of zero it snaps to exactly zero.
func decay(speed, step float64) float64 {
	switch {
	case math.Abs(speed) <= ShipFriction:
		return 0
	case speed > 0:
		return math.Max(speed-step, 0)
	default:
		return math.Min(speed+step, 0)
	}
}

// Explode marks the ship destroyed and starts the explosion.
func (s *Ship) Explode() {
	s.State = ShipExploding
	s.Speed = 0
	s.ExplosionFrame = 0
}

// AdvanceExplosion runs the explosion counter. It returns true once the
// counter has passed ExplosionDuration and the ship should respawn or end the game.
func (s *Ship) AdvanceExplosion(elapsed float64) bool {
	if s.State == ShipFlying {
		return false
	}
	s.Speed = 0
	s.ExplosionFrame += ExplosionRate * elapsed
	return s.State == ShipExploding && s.ExplosionFrame > ExplosionDuration
}

// Outline returns the hull triangle in screen coordinates.
func (s *Ship) Outline() []physics.Vec2 {
	points := make([]physics.Vec2, len(shipHull))
	for i, p := range shipHull {
		points[i] = p.Rotate(s.Rotation).Add(s.Pos)
	}
	return points
}
