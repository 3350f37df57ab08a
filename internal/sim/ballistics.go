package sim

import "math"

// Flight model constants. One Step is one simulation tick.
const (
	Gravity         = 0.15
	WindCoefficient = 0.02
	LaunchScale     = 0.15 // muzzle speed per point of power
	MaxFlightSteps  = 2000
)

// Kinematics is a point mass in flight.
type Kinematics struct {
	X, Y   float64
	VX, VY float64
}

// StepResult is the outcome of advancing a shell by one tick.
type StepResult struct {
	Kinematics // state after the step; velocity is the impact velocity on landing
	Landed     bool
	OnTerrain  bool // landed on the ground rather than leaving the field
	HitX       float64
	HitY       float64
}

// Step advances k by one tick. Velocity is updated first and the new
// velocity moves the shell (semi-implicit Euler); live flight and the shot
// planner both go through here, so their trajectories agree exactly.
//
// The shell lands when it reaches the surface, leaves [LeftBound, RightBound)
// or falls below the canvas. The impact point is clamped into the field and
// never lies below the surface.
func Step(t *Terrain, wind float64, k Kinematics) StepResult {
	k.VX += wind * WindCoefficient
	k.VY += Gravity
	k.X += k.VX
	k.Y += k.VY

	ground := t.GroundAt(k.X)
	inField := InField(k.X)
	if k.Y < ground && inField && k.Y <= CanvasHeight {
		return StepResult{Kinematics: k}
	}
	return StepResult{
		Kinematics: k,
		Landed:     true,
		OnTerrain:  inField,
		HitX:       ClampWorldX(k.X),
		HitY:       math.Min(k.Y, ground),
	}
}

// LaunchVelocity resolves an aim angle and power into a launch velocity.
// The aim angle is mirrored (math angle = 180 - aim) and the horizontal
// component is multiplied by the tank's facing. With facing +1, aim 0 fires
// toward -x and aim 180 toward +x; aim 90 is straight up either way.
func LaunchVelocity(aim, power, facing float64) (vx, vy float64) {
	rad := (180 - aim) * math.Pi / 180
	speed := power * LaunchScale
	return math.Cos(rad) * speed * facing, -math.Sin(rad) * speed
}

// SimulateFlight integrates a shell from k until it lands or MaxFlightSteps
// elapse, and returns the impact point. A shell still airborne after the
// step limit reports its last position.
func SimulateFlight(t *Terrain, wind float64, k Kinematics) (hitX, hitY float64) {
	for i := 0; i < MaxFlightSteps; i++ {
		r := Step(t, wind, k)
		if r.Landed {
			return r.HitX, r.HitY
		}
		k = r.Kinematics
	}
	return k.X, k.Y
}

// launchFrom returns the kinematics of a shot fired by a tank at the given
// aim, before any integration step.
func launchFrom(muzzleX, muzzleY, aim, power, facing float64) Kinematics {
	vx, vy := LaunchVelocity(aim, power, facing)
	return Kinematics{X: muzzleX, Y: muzzleY, VX: vx, VY: vy}
}
