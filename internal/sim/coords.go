package sim

import "math"

// --- Playfield geometry ---

const (
	CanvasWidth   = 1600 // visible playfield width
	CanvasHeight  = 500  // playfield height; also the terrain depth cap
	ScrollPadding = 200  // off-screen terrain kept on each side
	TotalWidth    = CanvasWidth + 2*ScrollPadding

	// LeftBound and RightBound delimit where a projectile is still in play.
	LeftBound  = -ScrollPadding
	RightBound = CanvasWidth + ScrollPadding

	// placementFallback is returned by HeightAt off the stored range.
	placementFallback = CanvasHeight * 0.75
	// offScreenGround is the collision sentinel used off the stored range.
	offScreenGround = CanvasHeight
)

// TerrainIndex converts a world x coordinate to a terrain column index.
// This is the only place the scroll padding offset is applied.
func TerrainIndex(x float64) int {
	return int(math.Floor(x)) + ScrollPadding
}

// WorldX converts a terrain column index back to world x.
func WorldX(index int) float64 {
	return float64(index - ScrollPadding)
}

// ClampWorldX clamps x into the last valid column range [LeftBound, RightBound-1].
func ClampWorldX(x float64) float64 {
	return math.Max(LeftBound, math.Min(RightBound-1, x))
}

// InField reports whether x lies inside the projectile bounds.
func InField(x float64) bool {
	return x >= LeftBound && x < RightBound
}

// clamp returns v limited to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return math.Sqrt(dx*dx + dy*dy)
}
