package sim

// Transient entity tuning.
const (
	explosionFrames = 15

	napalmJitter      = 30.0 // particles land within ±15 of the impact
	napalmLifeSpread  = 20.0
	napalmFlow        = 0.5 // horizontal drift per tick toward lower ground
	napalmTickEvery   = 10  // ticks of age between damage pulses
	napalmTickRadius  = 10.0
	napalmTickDamage  = 3.0
	debrisCount       = 15
	debrisJitter      = 40.0
	debrisLifeMin     = 30.0
	debrisLifeSpread  = 20.0
	tracerTrailLimit  = 4000
	materialTrailSize = 20
)

// Projectile is a shell in flight. Weapon is a private copy, so behaviour
// changes during resolution never leak back into an inventory.
type Projectile struct {
	Kinematics
	Weapon      Weapon
	Owner       int
	Active      bool
	BouncesLeft int
	Sub         bool // spawned by a splitting shell
	Rolling     bool
	RollTicks   int
}

// Explosion is a short-lived blast marker advanced once per tick.
type Explosion struct {
	X, Y      float64
	Radius    float64
	Frame     int
	MaxFrames int
}

// Done reports whether the explosion has played out.
func (e Explosion) Done() bool { return e.Frame >= e.MaxFrames }

// BurningParticle is one blob of napalm, or inert crash debris when Debris
// is set.
type BurningParticle struct {
	X, Y    float64
	Life    float64
	MaxLife float64
	Age     int
	Owner   int
	Debris  bool
}

// TrailPoint is one sample of a tracer or material trail.
type TrailPoint struct {
	X, Y float64
}

func newExplosion(x, y, radius float64) Explosion {
	return Explosion{X: x, Y: y, Radius: radius, MaxFrames: explosionFrames}
}
