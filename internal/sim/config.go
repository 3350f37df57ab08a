package sim

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Mode selects the rule set of a match.
type Mode int

const (
	// ModeSkirmish is a tank duel with a buying phase.
	ModeSkirmish Mode = iota
	// ModeCampaign is a single base tank harvesting material nodes.
	ModeCampaign
)

func (m Mode) String() string {
	switch m {
	case ModeSkirmish:
		return "skirmish"
	case ModeCampaign:
		return "campaign"
	default:
		return "unknown"
	}
}

// Default tick delays. The tick loop runs at 60 ticks per second.
const (
	DefaultThinkTicks   = 60
	DefaultFireTicks    = 30
	DefaultTurnEndTicks = 30
)

// MatchConfig is the setup of a Match. Build one with Options.
type MatchConfig struct {
	Mode          Mode
	TankCount     int
	HumanTanks    int
	StartingMoney int
	ThinkTicks    int
	FireTicks     int
	TurnEndTicks  int
	Calm          bool      // no wind at start and no drift between turns
	Spawns        []float64 // explicit tank x positions, overrides the spawn layout
	Terrain       *Terrain  // fixed terrain, copied on every InitGame
	Catalog       []Weapon
	Rand          *rand.Rand
	Logger        *log.Logger
	SimLog        *SimLog
}

// Option mutates a MatchConfig.
type Option func(*MatchConfig)

// WithMode selects skirmish or campaign rules. Campaign forces a single
// human tank.
func WithMode(m Mode) Option {
	return func(c *MatchConfig) { c.Mode = m }
}

// WithTankCount sets how many tanks take part.
func WithTankCount(n int) Option {
	return func(c *MatchConfig) { c.TankCount = n }
}

// WithHumanTanks sets how many of the tanks, counted from the first, are
// driven by commands rather than the built-in opponent.
func WithHumanTanks(n int) Option {
	return func(c *MatchConfig) { c.HumanTanks = n }
}

// WithStartingMoney overrides the starting balance of every tank.
func WithStartingMoney(n int) Option {
	return func(c *MatchConfig) { c.StartingMoney = n }
}

// WithThinkTicks sets the opponent's thinking delay.
func WithThinkTicks(n int) Option {
	return func(c *MatchConfig) { c.ThinkTicks = n }
}

// WithFireTicks sets the delay between the opponent aiming and firing.
func WithFireTicks(n int) Option {
	return func(c *MatchConfig) { c.FireTicks = n }
}

// WithTurnEndTicks sets the pause between a shot settling and the next turn.
func WithTurnEndTicks(n int) Option {
	return func(c *MatchConfig) { c.TurnEndTicks = n }
}

// WithCalm disables wind.
func WithCalm() Option {
	return func(c *MatchConfig) { c.Calm = true }
}

// WithSpawns places tanks at explicit x positions.
func WithSpawns(xs ...float64) Option {
	return func(c *MatchConfig) { c.Spawns = xs }
}

// WithTerrain uses t instead of generating terrain.
func WithTerrain(t *Terrain) Option {
	return func(c *MatchConfig) { c.Terrain = t }
}

// WithCatalog replaces the weapon catalog handed to each tank.
func WithCatalog(ws []Weapon) Option {
	return func(c *MatchConfig) { c.Catalog = ws }
}

// WithRand sets the random source. The source is only used from the tick
// loop.
func WithRand(r *rand.Rand) Option {
	return func(c *MatchConfig) { c.Rand = r }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(c *MatchConfig) { c.Rand = rand.New(rand.NewSource(seed)) } // #nosec G404 -- game randomness
}

// WithLogger sets the process logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *MatchConfig) { c.Logger = l }
}

// WithSimLog records match events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(c *MatchConfig) { c.SimLog = sl }
}

func newMatchConfig(opts []Option) MatchConfig {
	c := MatchConfig{
		Mode:          ModeSkirmish,
		TankCount:     2,
		HumanTanks:    1,
		StartingMoney: DefaultMoney,
		ThinkTicks:    DefaultThinkTicks,
		FireTicks:     DefaultFireTicks,
		TurnEndTicks:  DefaultTurnEndTicks,
	}
	for _, o := range opts {
		o(&c)
	}
	if c.Mode == ModeCampaign {
		c.TankCount, c.HumanTanks = 1, 1
	}
	if c.TankCount < 1 {
		c.TankCount = 1
	}
	if c.HumanTanks < 0 {
		c.HumanTanks = 0
	}
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}
	if c.Mode == ModeCampaign {
		c.Catalog = append(ExtractorCatalog(), c.Catalog...)
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game randomness
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	if c.SimLog == nil {
		c.SimLog = NewSimLog(false)
	}
	return c
}
