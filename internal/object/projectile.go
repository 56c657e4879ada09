package object

import "github.com/tomz197/meteorites/internal/physics"

// ProjectileSpeed is how far a projectile travels per elapsed tick.
const ProjectileSpeed = 8.0

// ProjectileRadius is the drawn size of a projectile.
const ProjectileRadius = 3.0

// Projectile is a bullet fired by the ship.
type Projectile struct {
	ID        uint64       // Stable identity, assigned by the owning state
	Pos       physics.Vec2 // Position
	Heading   float64      // Ship rotation at fire time
	destroyed bool         // Marked for removal
}

// NewProjectile creates a projectile at origin traveling along heading.
func NewProjectile(origin physics.Vec2, heading float64) *Projectile {
	return &Projectile{
		Pos:     origin,
		Heading: heading,
	}
}

// Advance moves the projectile. Bullets travel against the heading convention,
// the same way the ship moves forward.
func (p *Projectile) Advance(elapsed float64) {
	p.Pos = p.Pos.Add(physics.HeadingToDelta(p.Heading, -ProjectileSpeed*elapsed))
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for removal.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}
