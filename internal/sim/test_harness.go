package sim

import (
	"fmt"
	"math/rand"
)

// TestMatch is a headless match harness used by tests and the batch
// reporter. It wires a Match with deterministic seeding, fixed terrain and
// a shared SimLog, and offers run-until helpers.
type TestMatch struct {
	*Match
	Log *SimLog

	seed    int64
	verbose bool
	opts    []Option
	battle  bool
}

// testOptionKind controls the pass in which an option is applied.
type testOptionKind int

const (
	testOptInfra testOptionKind = iota // seed, terrain, spawns, verbose: applied before the match exists
	testOptTank                        // tank edits: applied after InitGame
	testOptPhase                       // phase changes: applied last
)

// TestOption is a builder applied to a TestMatch during construction.
type TestOption struct {
	kind testOptionKind
	fn   func(*TestMatch)
}

// Seeded sets the RNG seed for deterministic runs.
func Seeded(seed int64) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) { tm.seed = seed }}
}

// VerboseLog records per-tick flight samples and task runs.
func VerboseLog() TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) { tm.verbose = true }}
}

// OnFlatGround replaces generated terrain with a level surface at y.
func OnFlatGround(y float64) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		tm.opts = append(tm.opts, WithTerrain(FlatTerrain(y)))
	}}
}

// OnSlope uses a straight ramp from leftY at the left edge of the field to
// rightY at the right edge.
func OnSlope(leftY, rightY float64) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		h := make([]float64, TotalWidth)
		for i := range h {
			h[i] = leftY + (rightY-leftY)*float64(i)/float64(TotalWidth-1)
		}
		tm.opts = append(tm.opts, WithTerrain(NewTerrain(h)))
	}}
}

// TanksAt places one tank per x position.
func TanksAt(xs ...float64) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		tm.opts = append(tm.opts, WithSpawns(xs...), WithTankCount(len(xs)))
	}}
}

// Humans sets how many tanks, from the first, take commands.
func Humans(n int) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		tm.opts = append(tm.opts, WithHumanTanks(n))
	}}
}

// Calm disables wind.
func Calm() TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		tm.opts = append(tm.opts, WithCalm())
	}}
}

// Configure passes raw match options through.
func Configure(opts ...Option) TestOption {
	return TestOption{testOptInfra, func(tm *TestMatch) {
		tm.opts = append(tm.opts, opts...)
	}}
}

// TankHealth overrides a tank's health after placement.
func TankHealth(id, hp int) TestOption {
	return TestOption{testOptTank, func(tm *TestMatch) {
		if t := tm.tankByID(id); t != nil {
			t.Health = hp
		}
	}}
}

// Stock sets the quantity of one weapon in a tank's inventory.
func Stock(id int, weaponID string, qty int) TestOption {
	return TestOption{testOptTank, func(tm *TestMatch) {
		t := tm.tankByID(id)
		if t == nil {
			return
		}
		if i := findWeapon(t.Weapons, weaponID); i >= 0 {
			t.Weapons[i].Quantity = qty
		}
	}}
}

// InBattle skips the buying phase.
func InBattle() TestOption {
	return TestOption{testOptPhase, func(tm *TestMatch) { tm.battle = true }}
}

// NewTestMatch constructs a TestMatch in three ordered passes:
//  1. Infrastructure (seed, terrain, spawns, verbose)
//  2. InitGame, then tank edits
//  3. Phase changes
func NewTestMatch(opts ...TestOption) *TestMatch {
	tm := &TestMatch{seed: 1}
	for _, o := range opts {
		if o.kind == testOptInfra {
			o.fn(tm)
		}
	}
	tm.Log = NewSimLog(tm.verbose)
	base := []Option{
		WithRand(rand.New(rand.NewSource(tm.seed))), // #nosec G404 -- test harness
		WithSimLog(tm.Log),
	}
	tm.Match = NewMatch(append(base, tm.opts...)...)
	tm.InitGame()
	for _, o := range opts {
		if o.kind == testOptTank {
			o.fn(tm)
		}
	}
	for _, o := range opts {
		if o.kind == testOptPhase {
			o.fn(tm)
		}
	}
	if tm.battle && tm.Phase() == PhaseBuying {
		_ = tm.EndBuyingPhase()
	}
	return tm
}

// RunTicks advances the match n ticks.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.Tick()
	}
}

// RunUntil advances the match up to maxTicks, stopping early once predicate
// holds. Returns the tick at which it held, or -1.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Tick()
		if predicate(tm) {
			return tm.CurrentTick()
		}
	}
	return -1
}

// RunUntilSettled runs until the shot being resolved has fully played out.
func (tm *TestMatch) RunUntilSettled(maxTicks int) int {
	return tm.RunUntil(func(tm *TestMatch) bool {
		return tm.quiescent()
	}, maxTicks)
}

// Shoot aims the current tank, selects weaponID and fires.
func (tm *TestMatch) Shoot(weaponID string, angle, power float64) error {
	t := tm.currentTank()
	if t == nil {
		return ErrUnknownTank
	}
	i := findWeapon(t.Weapons, weaponID)
	if i < 0 {
		return fmt.Errorf("shoot %q: %w", weaponID, ErrUnknownWeapon)
	}
	u := AimUpdate(angle, power)
	u.CurrentWeapon = &i
	if err := tm.UpdateTank(t.ID, u); err != nil {
		return err
	}
	return tm.Fire()
}
