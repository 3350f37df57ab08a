package sim

import (
	"fmt"
	"math"
)

// Landing behaviour tuning.
const (
	bounceDampX = 0.8
	bounceDampY = 0.6

	splitArc      = 30.0 // degrees covered by a cluster fan
	splitSpeed    = 3.0
	splitJitter   = 2.0
	splitLiftMin  = 2.0
	splitLiftSpan = 3.0
	splitRise     = 10.0 // fragments spawn this far above the impact

	rollLift     = 3.0 // a roller sits this far above the surface
	rollSpan     = 5.0 // columns compared on each side to find a trough
	maxRollTicks = 600
)

// updateProjectile advances the main shell by one tick.
func (m *Match) updateProjectile() {
	p := m.projectile
	if p == nil || !p.Active {
		return
	}
	m.advance(p)
}

// updateSubProjectiles advances every cluster fragment and drops the ones
// that have landed.
func (m *Match) updateSubProjectiles() {
	if len(m.subs) == 0 {
		return
	}
	live := m.subs[:0]
	for i := range m.subs {
		p := m.subs[i]
		m.advance(&p)
		if p.Active {
			live = append(live, p)
		}
	}
	m.subs = live
}

// advance integrates a shell or rolls it, and resolves any landing.
func (m *Match) advance(p *Projectile) {
	if p.Rolling {
		m.roll(p)
		return
	}
	r := Step(m.terrain, m.wind, p.Kinematics)
	if p.Weapon.kind() == KindTracer {
		m.addTrailPoint(r.X, r.Y)
	}
	if !r.Landed {
		p.Kinematics = r.Kinematics
		m.simLog.AddVerbose(m.tick, fmt.Sprintf("T%d", p.Owner), "flight", "step",
			fmt.Sprintf("x=%.1f y=%.1f vx=%.2f vy=%.2f", p.X, p.Y, p.VX, p.VY), p.Y)
		return
	}
	m.resolveLanding(p, r)
}

// resolveLanding decides what a landed shell does, keyed by its behaviour.
func (m *Match) resolveLanding(p *Projectile, r StepResult) {
	label := fmt.Sprintf("T%d", p.Owner)
	m.log(label, "impact", string(p.Weapon.kind()), fmt.Sprintf("%s at x=%.1f y=%.1f", p.Weapon.ID, r.HitX, r.HitY), r.HitX)

	switch b := p.Weapon.Behavior.(type) {
	case Bouncing:
		if p.BouncesLeft > 0 && r.OnTerrain {
			m.bounce(p, r)
			return
		}
		m.detonate(p, r.HitX, r.HitY)
	case Splitting:
		m.split(p, b, r)
	case Rolling:
		if !r.OnTerrain {
			m.detonate(p, r.HitX, r.HitY)
			return
		}
		m.startRoll(p, b, r)
	case Tracer:
		m.addTrailPoint(r.HitX, r.HitY)
		p.Active = false
	case Napalm:
		m.ignite(p, b, r)
	case Digging:
		m.dig(p, b, r)
	case Extracting:
		m.landExtractor(p, b, r)
	default:
		m.detonate(p, r.HitX, r.HitY)
	}
}

// detonate is the standard terminal blast: explosion, crater, then damage.
func (m *Match) detonate(p *Projectile, x, y float64) {
	w := p.Weapon
	m.explosions = append(m.explosions, newExplosion(x, y, w.Radius))
	m.deformCrater(x, w.Radius)
	m.applyDamage(x, y, w.Radius, w.Damage, p.Owner)
	p.Active = false
}

// bounce reflects the shell off the ground. The horizontal impact velocity
// is damped and the vertical one inverted and damped.
func (m *Match) bounce(p *Projectile, r StepResult) {
	p.X = r.HitX
	p.Y = m.terrain.GroundAt(r.HitX) - bounceLift
	p.VX = r.VX * bounceDampX
	p.VY = -math.Abs(r.VY) * bounceDampY
	p.BouncesLeft--
	m.log(fmt.Sprintf("T%d", p.Owner), "bounce", "reflect",
		fmt.Sprintf("left=%d vx=%.3f vy=%.3f", p.BouncesLeft, p.VX, p.VY), float64(p.BouncesLeft))
}

// split fans the shell out into standard fragments. The parent makes no
// blast of its own.
func (m *Match) split(p *Projectile, b Splitting, r StepResult) {
	n := b.Count
	if room := maxSubProjectiles - len(m.subs); n > room {
		n = room
	}
	frag := p.Weapon.asStandard()
	for i := 0; i < n; i++ {
		spread := (float64(i) - float64(n)/2) * splitArc / float64(n) * math.Pi / 180
		m.subs = append(m.subs, Projectile{
			Kinematics: Kinematics{
				X:  r.HitX,
				Y:  r.HitY - splitRise,
				VX: math.Cos(spread)*splitSpeed + (m.rng.Float64()-0.5)*splitJitter,
				VY: -(m.rng.Float64()*splitLiftSpan + splitLiftMin),
			},
			Weapon: frag,
			Owner:  p.Owner,
			Active: true,
			Sub:    true,
		})
	}
	p.Active = false
	m.log(fmt.Sprintf("T%d", p.Owner), "split", "spawn", fmt.Sprintf("%d fragments", n), float64(n))
}

// startRoll turns a landed roller into a surface crawler heading the way it
// was travelling. It goes off at once if it landed in a trough.
func (m *Match) startRoll(p *Projectile, b Rolling, r StepResult) {
	dir := 1.0
	if r.VX < 0 {
		dir = -1
	}
	p.Weapon = p.Weapon.asStandard()
	p.Rolling = true
	p.X = r.HitX
	p.Y = m.terrain.GroundAt(r.HitX) - rollLift
	p.VX = dir * b.Speed
	p.VY = 0
	m.log(fmt.Sprintf("T%d", p.Owner), "roll", "start", fmt.Sprintf("dir=%+.0f speed=%.1f", dir, b.Speed), p.X)
	if m.terrain.isResting(p.X, rollSpan) {
		m.settleRoller(p)
	}
}

// roll moves a crawler one tick along the surface.
func (m *Match) roll(p *Projectile) {
	p.RollTicks++
	p.X += p.VX
	if !InField(p.X) || p.RollTicks >= maxRollTicks {
		x := ClampWorldX(p.X)
		m.log(fmt.Sprintf("T%d", p.Owner), "roll", "abandon", fmt.Sprintf("x=%.1f ticks=%d", x, p.RollTicks), x)
		m.detonate(p, x, m.terrain.GroundAt(x))
		return
	}
	p.Y = m.terrain.GroundAt(p.X) - rollLift
	if m.terrain.isResting(p.X, rollSpan) {
		m.settleRoller(p)
	}
}

func (m *Match) settleRoller(p *Projectile) {
	ground := m.terrain.GroundAt(p.X)
	m.log(fmt.Sprintf("T%d", p.Owner), "roll", "rest", fmt.Sprintf("x=%.1f ticks=%d", p.X, p.RollTicks), p.X)
	m.detonate(p, p.X, ground)
}

// ignite spills burning particles around the impact and deals half damage
// straight away. Napalm does not crater.
func (m *Match) ignite(p *Projectile, b Napalm, r StepResult) {
	count := b.BurnDuration
	for i := 0; i < count; i++ {
		m.particles = append(m.particles, BurningParticle{
			X:       ClampWorldX(r.HitX + (m.rng.Float64()-0.5)*napalmJitter),
			Y:       r.HitY,
			Life:    float64(count) + m.rng.Float64()*napalmLifeSpread,
			MaxLife: float64(count) + napalmLifeSpread,
			Owner:   p.Owner,
		})
	}
	m.log(fmt.Sprintf("T%d", p.Owner), "napalm", "ignite", fmt.Sprintf("%d particles", count), float64(count))
	m.applyDamage(r.HitX, r.HitY, p.Weapon.Radius, p.Weapon.Damage/2, p.Owner)
	p.Active = false
}

// dig carves a shaft as wide as the blast radius, shows a half-size blast
// and deals full area damage.
func (m *Match) dig(p *Projectile, b Digging, r StepResult) {
	w := p.Weapon
	m.digShaft(r.HitX, b.Depth, w.Radius)
	m.explosions = append(m.explosions, newExplosion(r.HitX, r.HitY, w.Radius/2))
	m.log(fmt.Sprintf("T%d", p.Owner), "dig", "shaft", fmt.Sprintf("depth=%.0f width=%.0f", b.Depth, w.Radius), b.Depth)
	m.applyDamage(r.HitX, r.HitY, w.Radius, w.Damage, p.Owner)
	p.Active = false
}

// updateParticles flows napalm downhill, pulses its damage and burns it out.
func (m *Match) updateParticles() {
	if len(m.particles) == 0 {
		return
	}
	live := m.particles[:0]
	for _, bp := range m.particles {
		bp.Age++
		bp.Life--
		bp.X = ClampWorldX(bp.X + m.terrain.lowerNeighbour(bp.X)*napalmFlow)
		bp.Y = m.terrain.GroundAt(bp.X)
		if bp.Life <= 0 {
			continue
		}
		if !bp.Debris && bp.Age%napalmTickEvery == 0 {
			// Pulses are measured at hull height so a tank parked over the fire burns.
			m.applyDamage(bp.X, bp.Y-tankClearance, napalmTickRadius, napalmTickDamage, bp.Owner)
		}
		live = append(live, bp)
	}
	m.particles = live
}

// updateExplosions plays every blast forward one frame.
func (m *Match) updateExplosions() {
	if len(m.explosions) == 0 {
		return
	}
	live := m.explosions[:0]
	for _, e := range m.explosions {
		e.Frame++
		if !e.Done() {
			live = append(live, e)
		}
	}
	m.explosions = live
}

func (m *Match) addTrailPoint(x, y float64) {
	if len(m.trail) >= tracerTrailLimit {
		return
	}
	m.trail = append(m.trail, TrailPoint{X: x, Y: y})
}
