package sim

import (
	"math"
	"math/rand"
)

// Terrain generation envelope, as fractions of CanvasHeight.
const (
	terrainBase    = 0.70
	terrainMinFrac = 0.40
	terrainMaxFrac = 0.95
	terrainNoise   = 10.0
	smoothPasses   = 2
	craterScale    = 1.5 // crater depth multiplier on the circular profile
)

// terrainWave is one sine octave of the generated profile.
type terrainWave struct {
	freq  float64
	phase float64
	amp   float64
}

// Large rolling hills first, then mountains, then small peaks.
var terrainWaves = []terrainWave{
	{freq: 0.008, phase: 0, amp: 80},
	{freq: 0.015, phase: 2, amp: 50},
	{freq: 0.03, phase: 1, amp: 40},
	{freq: 0.05, phase: 3, amp: 25},
	{freq: 0.1, phase: 0.5, amp: 15},
}

// Terrain is the destructible heightmap. Each sample is the screen-space y of
// the ground surface for one column, so larger values are lower ground.
// The sample count is fixed for the lifetime of a match.
type Terrain struct {
	heights []float64
}

// GenerateTerrain builds a fractal-like profile from summed sine octaves plus
// uniform noise, clamps it to the generation envelope and smooths it.
func GenerateTerrain(rng *rand.Rand) *Terrain {
	h := make([]float64, TotalWidth)
	lo := CanvasHeight * terrainMinFrac
	hi := CanvasHeight * terrainMaxFrac
	for i := range h {
		cx := WorldX(i)
		y := CanvasHeight * terrainBase
		for _, w := range terrainWaves {
			y += math.Sin(cx*w.freq+w.phase) * w.amp
		}
		y += (rng.Float64() - 0.5) * terrainNoise
		h[i] = clamp(y, lo, hi)
	}
	// In-place moving average: each column sees its already-smoothed left neighbour.
	for pass := 0; pass < smoothPasses; pass++ {
		for i := 1; i < len(h)-1; i++ {
			h[i] = (h[i-1] + h[i] + h[i+1]) / 3
		}
	}
	return &Terrain{heights: h}
}

// NewTerrain wraps an explicit height profile. The slice must hold
// TotalWidth samples; shorter slices are padded with the last value.
func NewTerrain(heights []float64) *Terrain {
	h := make([]float64, TotalWidth)
	last := placementFallback
	for i := range h {
		if i < len(heights) {
			last = heights[i]
		}
		h[i] = last
	}
	return &Terrain{heights: h}
}

// FlatTerrain returns a level profile with the surface at y.
func FlatTerrain(y float64) *Terrain {
	h := make([]float64, TotalWidth)
	for i := range h {
		h[i] = y
	}
	return &Terrain{heights: h}
}

// Len returns the number of columns.
func (t *Terrain) Len() int { return len(t.heights) }

// Heights returns a copy of the samples for read-only consumers.
func (t *Terrain) Heights() []float64 {
	out := make([]float64, len(t.heights))
	copy(out, t.heights)
	return out
}

// Snapshot returns an independent copy of the terrain.
func (t *Terrain) Snapshot() *Terrain {
	return &Terrain{heights: t.Heights()}
}

// sample returns the column value and whether the column exists.
func (t *Terrain) sample(x float64) (float64, bool) {
	i := TerrainIndex(x)
	if i < 0 || i >= len(t.heights) {
		return 0, false
	}
	return t.heights[i], true
}

// HeightAt returns the surface y under world x, or 0.75 of the canvas height
// when x is outside the stored range. Used for placing entities.
func (t *Terrain) HeightAt(x float64) float64 {
	if y, ok := t.sample(x); ok {
		return y
	}
	return placementFallback
}

// GroundAt returns the surface y under world x, treating anything outside
// the stored range as off-screen (the bottom of the canvas). Used by flight,
// rolling and burning-particle flow.
func (t *Terrain) GroundAt(x float64) float64 {
	if y, ok := t.sample(x); ok {
		return y
	}
	return offScreenGround
}

// DeformCrater pushes the surface down in a circular bowl centred on cx.
// Every column within radius gains sqrt(r²-d²)*1.5, capped at the canvas
// height. Values never decrease.
//
// Callers must re-seat terrain-dependent entities afterwards; Match does so
// in the same call.
func (t *Terrain) DeformCrater(cx, radius float64) {
	if radius <= 0 {
		return
	}
	centre := cx + ScrollPadding
	start := int(math.Max(0, math.Floor(centre-radius)))
	end := int(math.Min(float64(len(t.heights)), math.Floor(centre+radius)))
	for i := start; i < end; i++ {
		d := math.Abs(float64(i) - centre)
		if d > radius {
			continue
		}
		depth := math.Sqrt(radius*radius-d*d) * craterScale
		t.heights[i] = math.Min(CanvasHeight, t.heights[i]+depth)
	}
}

// DigShaft carves a flat-bottomed vertical shaft: every column within
// width/2 of cx is pushed down by depth, capped at the canvas height.
func (t *Terrain) DigShaft(cx, depth, width float64) {
	if depth <= 0 || width <= 0 {
		return
	}
	half := width / 2
	centre := cx + ScrollPadding
	start := int(math.Max(0, math.Floor(centre-half)))
	end := int(math.Min(float64(len(t.heights)), math.Floor(centre+half)))
	for i := start; i < end; i++ {
		t.heights[i] = math.Min(CanvasHeight, t.heights[i]+depth)
	}
}

// isResting reports whether a roller at x sits in a trough or on a flat:
// the surface elevation is no higher than the columns span away on either
// side (stored y at least as large as both neighbours).
func (t *Terrain) isResting(x, span float64) bool {
	here := t.GroundAt(x)
	return here >= t.GroundAt(x-span) && here >= t.GroundAt(x+span)
}

// lowerNeighbour returns -1, 0 or +1 for the direction of lower ground
// one column away, preferring the left side.
func (t *Terrain) lowerNeighbour(x float64) float64 {
	here := t.GroundAt(x)
	if t.GroundAt(x-1) > here {
		return -1
	}
	if t.GroundAt(x+1) > here {
		return 1
	}
	return 0
}

// highestBand returns the threshold y below which (numerically) a column is
// in the top frac of the height range.
func (t *Terrain) highestBand(frac float64) float64 {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, y := range t.heights {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	return minY + (maxY-minY)*frac
}
