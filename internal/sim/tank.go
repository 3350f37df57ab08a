package sim

import (
	"fmt"
	"math"
)

// Tank defaults and aim limits.
const (
	tankClearance = 8.0 // hull rests this far above the surface
	muzzleRise    = 5.0 // shots leave this far above the hull

	DefaultHealth = 50
	DefaultMoney  = 1000
	DefaultAngle  = 90.0
	DefaultPower  = 50.0

	MinAngle = 0.0
	MaxAngle = 180.0
	MinPower = 10.0
	MaxPower = 100.0

	buriedThreshold = 20.0 // ground falling away more than this beneath the hull buries it
	burialPenalty   = 25
)

// Tank is one combatant. Records persist for the whole match; Health <= 0
// marks the tank as out.
type Tank struct {
	ID            int
	Name          string
	X             float64
	Y             float64
	Angle         float64
	Power         float64
	Health        int
	MaxHealth     int
	Money         int
	Weapons       []Weapon
	Shields       int
	Parachutes    int
	Fuel          int
	CurrentWeapon int
	IsAI          bool
	Facing        float64 // +1 or -1, multiplies the horizontal launch velocity
}

// newTank places a tank on the terrain with full health and a fresh copy of
// the catalog.
func newTank(id int, name string, x float64, terrain *Terrain, catalog []Weapon, isAI bool) *Tank {
	weapons := make([]Weapon, len(catalog))
	copy(weapons, catalog)
	facing := -1.0
	if id == 0 {
		facing = 1
	}
	t := &Tank{
		ID:        id,
		Name:      name,
		X:         x,
		Angle:     DefaultAngle,
		Power:     DefaultPower,
		Health:    DefaultHealth,
		MaxHealth: DefaultHealth,
		Money:     DefaultMoney,
		Weapons:   weapons,
		IsAI:      isAI,
		Facing:    facing,
	}
	t.settle(terrain)
	return t
}

// Alive reports whether the tank is still in the match.
func (t *Tank) Alive() bool { return t.Health > 0 }

// Label returns the short tag used in the sim log, e.g. "T0".
func (t *Tank) Label() string { return fmt.Sprintf("T%d", t.ID) }

// Muzzle returns the launch point for the tank's shots.
func (t *Tank) Muzzle() (x, y float64) { return t.X, t.Y - muzzleRise }

// Weapon returns the selected weapon stack, or nil for an empty inventory.
func (t *Tank) Weapon() *Weapon {
	if t.CurrentWeapon < 0 || t.CurrentWeapon >= len(t.Weapons) {
		return nil
	}
	return &t.Weapons[t.CurrentWeapon]
}

// settle re-seats the hull on the surface under it.
func (t *Tank) settle(terrain *Terrain) {
	t.Y = terrain.HeightAt(t.X) - tankClearance
}

// takeDamage lowers health by n, flooring at zero, and returns the amount
// actually removed.
func (t *Tank) takeDamage(n int) int {
	if n <= 0 || t.Health <= 0 {
		return 0
	}
	if n > t.Health {
		n = t.Health
	}
	t.Health -= n
	return n
}

// clone returns a copy that shares no slices with t.
func (t *Tank) clone() Tank {
	c := *t
	c.Weapons = make([]Weapon, len(t.Weapons))
	copy(c.Weapons, t.Weapons)
	return c
}

// TankUpdate is a partial change applied by Match.UpdateTank. Nil fields are
// left untouched; set fields are clamped into their legal range.
type TankUpdate struct {
	Angle         *float64
	Power         *float64
	CurrentWeapon *int
}

// AimUpdate builds a TankUpdate that sets angle and power.
func AimUpdate(angle, power float64) TankUpdate {
	return TankUpdate{Angle: &angle, Power: &power}
}

// SelectWeapon builds a TankUpdate that selects the weapon at index i.
func SelectWeapon(i int) TankUpdate {
	return TankUpdate{CurrentWeapon: &i}
}

// finite rejects NaN and infinities, which would slip past clamp.
func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (u TankUpdate) apply(t *Tank) {
	if u.Angle != nil && finite(*u.Angle) {
		t.Angle = clamp(*u.Angle, MinAngle, MaxAngle)
	}
	if u.Power != nil && finite(*u.Power) {
		t.Power = clamp(*u.Power, MinPower, MaxPower)
	}
	if u.CurrentWeapon != nil && len(t.Weapons) > 0 {
		i := *u.CurrentWeapon
		if i < 0 {
			i = 0
		}
		if i >= len(t.Weapons) {
			i = len(t.Weapons) - 1
		}
		t.CurrentWeapon = i
	}
}
