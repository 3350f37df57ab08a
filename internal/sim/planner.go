package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
)

// Search grid of the shot planner.
const (
	planMinPower    = 20.0
	planMaxPower    = 100.0
	coarseAngleStep = 3.0
	coarsePowerStep = 5.0
	refineSpan      = 5.0
	refineStep      = 1.0
)

// Aim is an (angle, power) firing solution.
type Aim struct {
	Angle float64
	Power float64
}

// AngleWindow bounds the aim angles the planner may choose.
type AngleWindow struct {
	Min, Max float64
}

// FullWindow lets the planner fire either way.
var FullWindow = AngleWindow{Min: 10, Max: 170}

// WindowToward returns the half window whose shots travel from fromX toward
// toX for a tank with the given facing. The launch vector's horizontal sign
// is -cos(aim)*facing, so aims below 90 fire against the facing.
func WindowToward(facing, fromX, toX float64) AngleWindow {
	dir := 1.0
	if toX < fromX {
		dir = -1
	}
	if -dir*facing > 0 {
		return AngleWindow{Min: 10, Max: 80}
	}
	return AngleWindow{Min: 100, Max: 170}
}

func (w AngleWindow) clamp(a float64) float64 { return clamp(a, w.Min, w.Max) }

// ShotRequest describes a planning problem. The planner only reads Terrain,
// so a snapshot may be shared with a goroutine.
type ShotRequest struct {
	Terrain *Terrain
	Wind    float64
	StartX  float64 // muzzle position
	StartY  float64
	Facing  float64
	TargetX float64
	TargetY float64
	Point   bool // minimise straight-line distance instead of horizontal miss
	Window  AngleWindow
}

var errNoTerrain = errors.New("sim: shot request has no terrain")

// miss simulates one candidate and returns its distance from the target.
func (r ShotRequest) miss(angle, power float64) float64 {
	hx, hy := SimulateFlight(r.Terrain, r.Wind, launchFrom(r.StartX, r.StartY, angle, power, r.Facing))
	if r.Point {
		return dist(hx, hy, r.TargetX, r.TargetY)
	}
	return math.Abs(hx - r.TargetX)
}

// PlanShot finds the aim whose simulated landing is closest to the target.
// A coarse grid over the window is followed by a unit-step refinement of
// ±5 around the coarse best. Only strict improvements replace the best, so
// identical requests always return identical aims.
func PlanShot(ctx context.Context, r ShotRequest) (Aim, error) {
	if r.Terrain == nil {
		return Aim{}, errNoTerrain
	}
	w := r.Window
	if w.Max <= w.Min {
		w = FullWindow
	}
	if r.Facing == 0 {
		r.Facing = 1
	}

	best := Aim{Angle: w.Min, Power: planMinPower}
	bestMiss := math.Inf(1)
	try := func(a, p float64) {
		if d := r.miss(a, p); d < bestMiss {
			bestMiss = d
			best = Aim{Angle: a, Power: p}
		}
	}

	for a := w.Min; a <= w.Max; a += coarseAngleStep {
		if err := ctx.Err(); err != nil {
			return Aim{}, err
		}
		for p := planMinPower; p <= planMaxPower; p += coarsePowerStep {
			try(a, p)
		}
	}

	coarse := best
	for a := coarse.Angle - refineSpan; a <= coarse.Angle+refineSpan; a += refineStep {
		if a < w.Min || a > w.Max {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Aim{}, err
		}
		for p := coarse.Power - refineSpan; p <= coarse.Power+refineSpan; p += refineStep {
			if p < planMinPower || p > planMaxPower {
				continue
			}
			try(a, p)
		}
	}
	return best, nil
}

// MissVariants derives four deliberately imperfect aims from a perfect one:
// two that fall short and two that fly long. Results are clamped to the
// window and the planner's power range.
func MissVariants(perfect Aim, w AngleWindow, rng *rand.Rand) [4]Aim {
	offsets := [4][2]float64{
		{-8 - rng.Float64()*5, -10 - rng.Float64()*10},
		{5 + rng.Float64()*5, -15 - rng.Float64()*10},
		{-5 - rng.Float64()*5, 10 + rng.Float64()*10},
		{8 + rng.Float64()*5, 15 + rng.Float64()*10},
	}
	var out [4]Aim
	for i, o := range offsets {
		out[i] = Aim{
			Angle: w.clamp(perfect.Angle + o[0]),
			Power: clamp(perfect.Power+o[1], planMinPower, planMaxPower),
		}
	}
	return out
}
