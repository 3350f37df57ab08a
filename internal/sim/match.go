package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Phase is the turn state machine position.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseBuying
	PhaseBattle
	PhaseTurnEnd
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseBuying:
		return "buying"
	case PhaseBattle:
		return "battle"
	case PhaseTurnEnd:
		return "turn_end"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Rejected commands return one of these and leave the match unchanged.
var (
	ErrShotInFlight      = errors.New("sim: a shot is already being resolved")
	ErrOutOfAmmo         = errors.New("sim: selected weapon has no rounds left")
	ErrWrongPhase        = errors.New("sim: command not allowed in this phase")
	ErrUnknownTank       = errors.New("sim: unknown tank")
	ErrUnknownWeapon     = errors.New("sim: unknown weapon")
	ErrUnknownItem       = errors.New("sim: unknown item")
	ErrInsufficientFunds = errors.New("sim: insufficient funds")
	ErrUnknownNode       = errors.New("sim: unknown material node")
)

// Match tuning.
const (
	windInitialSpread = 2.0
	windDriftSpread   = 0.5
	enemySpawnInset   = 300.0
	bounceLift        = 2.0
	maxSubProjectiles = 64
)

// Scheduled task names.
const (
	taskTurnEnd      = "turn_end"
	taskOpponentAim  = "opponent_aim"
	taskOpponentFire = "opponent_fire"
)

// Match owns all mutable state of one session. It is driven by Tick from a
// single goroutine; queries return copies.
type Match struct {
	cfg    MatchConfig
	rng    *rand.Rand
	logger *log.Logger
	simLog *SimLog

	session string
	tick    int
	phase   Phase
	turnID  int
	current int
	winner  int // tank id, -1 for none

	terrain    *Terrain
	tanks      []*Tank
	stats      []TankStats
	wind       float64
	processing bool

	projectile *Projectile
	subs       []Projectile
	explosions []Explosion
	particles  []BurningParticle
	trail      []TrailPoint

	nodes         []MaterialNode
	extractors    []Extractor
	materialShots []MaterialProjectile
	inventory     Inventory
	failureMsg    string
	failureTicks  int
	extractorSeq  int

	sched Scheduler
	opp   opponent
}

// NewMatch builds a match in the menu phase. Call InitGame to start it.
func NewMatch(opts ...Option) *Match {
	cfg := newMatchConfig(opts)
	return &Match{
		cfg:    cfg,
		rng:    cfg.Rand,
		logger: cfg.Logger,
		simLog: cfg.SimLog,
		phase:  PhaseMenu,
		winner: -1,
	}
}

// --- commands ---

// InitGame starts a new session: fresh terrain, tanks and wind. Pending
// deferred work from any previous session is discarded. Skirmish matches
// open in the buying phase, campaign matches go straight to battle.
func (m *Match) InitGame() {
	m.opp.stop()
	m.sched.Clear()
	m.session = uuid.New().String()
	m.turnID = 0
	m.current = 0
	m.winner = -1
	m.processing = false
	m.projectile = nil
	m.subs = nil
	m.explosions = nil
	m.particles = nil
	m.trail = nil
	m.nodes = nil
	m.extractors = nil
	m.materialShots = nil
	m.inventory = Inventory{}
	m.failureMsg, m.failureTicks = "", 0

	if m.cfg.Terrain != nil {
		m.terrain = m.cfg.Terrain.Snapshot()
	} else {
		m.terrain = GenerateTerrain(m.rng)
	}

	xs := m.spawnPositions()
	m.tanks = make([]*Tank, len(xs))
	m.stats = make([]TankStats, len(xs))
	for i, x := range xs {
		human := i < m.cfg.HumanTanks
		t := newTank(i, m.tankName(i, human), x, m.terrain, m.cfg.Catalog, !human)
		t.Money = m.cfg.StartingMoney
		m.tanks[i] = t
	}

	m.wind = 0
	if !m.cfg.Calm {
		m.wind = (m.rng.Float64() - 0.5) * windInitialSpread
	}

	if m.cfg.Mode == ModeCampaign {
		m.nodes = GenerateMaterialNodes(m.terrain, m.rng)
	}

	m.log("--", "phase", "init", fmt.Sprintf("session=%s mode=%s tanks=%d wind=%.3f", m.session, m.cfg.Mode, len(m.tanks), m.wind), m.wind)
	m.logger.Info("match initialised", "session", m.session, "mode", m.cfg.Mode, "tanks", len(m.tanks))

	if m.cfg.Mode == ModeCampaign {
		m.setPhase(PhaseBattle)
		m.startTurn()
		return
	}
	m.setPhase(PhaseBuying)
}

// SetPhase forces the phase. Entering battle hands the turn to the built-in
// opponent when it is the current tank.
func (m *Match) SetPhase(p Phase) error {
	if p < PhaseMenu || p > PhaseGameOver {
		return ErrWrongPhase
	}
	m.setPhase(p)
	if p == PhaseBattle {
		m.startTurn()
	}
	return nil
}

// EndBuyingPhase moves from buying to battle.
func (m *Match) EndBuyingPhase() error {
	if m.phase != PhaseBuying {
		return ErrWrongPhase
	}
	m.setPhase(PhaseBattle)
	m.startTurn()
	return nil
}

// UpdateTank applies a partial aim or weapon-selection change, clamped into
// range.
func (m *Match) UpdateTank(id int, u TankUpdate) error {
	t := m.tankByID(id)
	if t == nil {
		return ErrUnknownTank
	}
	u.apply(t)
	return nil
}

// Fire launches the current tank's selected weapon. Only one shot can be
// resolved at a time; a request while one is being processed is rejected.
func (m *Match) Fire() error {
	if m.phase != PhaseBattle {
		return ErrWrongPhase
	}
	if m.processing {
		return ErrShotInFlight
	}
	t := m.currentTank()
	if t == nil {
		return ErrUnknownTank
	}
	w := t.Weapon()
	if w == nil {
		return ErrUnknownWeapon
	}
	if !w.CanFire() {
		return ErrOutOfAmmo
	}

	mx, my := t.Muzzle()
	p := &Projectile{
		Kinematics: launchFrom(mx, my, t.Angle, t.Power, t.Facing),
		Weapon:     *w,
		Owner:      t.ID,
		Active:     true,
	}
	if b, ok := w.Behavior.(Bouncing); ok {
		p.BouncesLeft = b.Bounces
	}
	w.consume()

	m.projectile = p
	m.trail = nil
	m.processing = true
	if st := m.stat(t.ID); st != nil {
		st.ShotsFired++
	}
	m.log(t.Label(), "shot", "fired", fmt.Sprintf("%s angle=%.1f power=%.1f wind=%.3f", p.Weapon.ID, t.Angle, t.Power, m.wind), t.Power)
	m.logger.Debug("shot fired", "tank", t.Name, "weapon", p.Weapon.ID, "angle", t.Angle, "power", t.Power)
	return nil
}

// AdvanceTurn hands the turn to the next living tank. It is rejected while
// shells are still in the air.
func (m *Match) AdvanceTurn() error {
	if m.phase != PhaseBattle && m.phase != PhaseTurnEnd {
		return ErrWrongPhase
	}
	if m.shellsInFlight() {
		return ErrShotInFlight
	}
	m.processing = false
	if m.checkGameOver() {
		return nil
	}
	m.advanceTurn()
	return nil
}

// Tick advances the simulation by one step.
func (m *Match) Tick() {
	m.tick++
	ran, dropped := m.sched.Run(m.tick, m.token)
	for _, name := range ran {
		m.simLog.AddVerbose(m.tick, "--", "turn", "task_ran", name, 0)
	}
	for _, name := range dropped {
		m.log("--", "turn", "task_dropped", name, 0)
	}

	m.updateProjectile()
	m.updateSubProjectiles()
	m.updateParticles()
	m.updateExplosions()
	if m.cfg.Mode == ModeCampaign {
		m.updateExtraction()
	}
	if m.failureTicks > 0 {
		m.failureTicks--
		if m.failureTicks == 0 {
			m.failureMsg = ""
		}
	}
	m.checkQuiescence()
}

// --- queries ---

// Terrain returns the live terrain. Callers must not mutate it; use
// Heights or Snapshot for an independent copy. Nil before InitGame.
func (m *Match) Terrain() *Terrain { return m.terrain }

// Tanks returns copies of every tank, including destroyed ones.
func (m *Match) Tanks() []Tank {
	out := make([]Tank, len(m.tanks))
	for i, t := range m.tanks {
		out[i] = t.clone()
	}
	return out
}

// Tank returns a copy of the tank with the given id.
func (m *Match) Tank(id int) (Tank, bool) {
	t := m.tankByID(id)
	if t == nil {
		return Tank{}, false
	}
	return t.clone(), true
}

// CurrentTank returns a copy of the tank whose turn it is.
func (m *Match) CurrentTank() (Tank, bool) {
	t := m.currentTank()
	if t == nil {
		return Tank{}, false
	}
	return t.clone(), true
}

// Projectile returns the main shell, if one is active.
func (m *Match) Projectile() (Projectile, bool) {
	if m.projectile == nil || !m.projectile.Active {
		return Projectile{}, false
	}
	return *m.projectile, true
}

// SubProjectiles returns the active cluster fragments.
func (m *Match) SubProjectiles() []Projectile { return append([]Projectile(nil), m.subs...) }

// Explosions returns the blasts still playing.
func (m *Match) Explosions() []Explosion { return append([]Explosion(nil), m.explosions...) }

// Particles returns burning napalm and crash debris.
func (m *Match) Particles() []BurningParticle {
	return append([]BurningParticle(nil), m.particles...)
}

// TracerTrail returns the current tracer path.
func (m *Match) TracerTrail() []TrailPoint { return append([]TrailPoint(nil), m.trail...) }

// Wind returns the current wind.
func (m *Match) Wind() float64 { return m.wind }

// TurnID returns the monotonically increasing turn counter.
func (m *Match) TurnID() int { return m.turnID }

// Phase returns the state machine position.
func (m *Match) Phase() Phase { return m.phase }

// Processing reports whether a shot is being resolved.
func (m *Match) Processing() bool { return m.processing }

// Winner returns the surviving tank after game over. ok is false for a
// draw or a match still running.
func (m *Match) Winner() (Tank, bool) {
	if m.phase != PhaseGameOver || m.winner < 0 {
		return Tank{}, false
	}
	return m.Tank(m.winner)
}

// Mode returns the rule set.
func (m *Match) Mode() Mode { return m.cfg.Mode }

// Session returns the id of the current session.
func (m *Match) Session() string { return m.session }

// CurrentTick returns the number of ticks run so far.
func (m *Match) CurrentTick() int { return m.tick }

// SimLog returns the event log.
func (m *Match) SimLog() *SimLog { return m.simLog }

// Extractors returns the deployed extractors.
func (m *Match) Extractors() []Extractor { return append([]Extractor(nil), m.extractors...) }

// MaterialNodes returns the campaign deposits.
func (m *Match) MaterialNodes() []MaterialNode { return append([]MaterialNode(nil), m.nodes...) }

// MaterialProjectiles returns the resource loads in flight.
func (m *Match) MaterialProjectiles() []MaterialProjectile {
	out := make([]MaterialProjectile, len(m.materialShots))
	for i, p := range m.materialShots {
		p.Trail = append([]TrailPoint(nil), p.Trail...)
		out[i] = p
	}
	return out
}

// Inventory returns the campaign stockpile.
func (m *Match) Inventory() Inventory { return m.inventory }

// FailureMessage returns the latest extractor failure notice, or "" once it
// has expired.
func (m *Match) FailureMessage() string { return m.failureMsg }

// --- internals ---

func (m *Match) log(tank, category, key, value string, num float64) {
	m.simLog.Add(m.tick, tank, category, key, value, num)
}

func (m *Match) token() taskToken {
	return taskToken{session: m.session, turn: m.turnID}
}

func (m *Match) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.log("--", "phase", "change", fmt.Sprintf("%s -> %s", m.phase, p), float64(p))
	m.phase = p
}

func (m *Match) tankByID(id int) *Tank {
	for _, t := range m.tanks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (m *Match) stat(id int) *TankStats {
	if id < 0 || id >= len(m.stats) {
		return nil
	}
	return &m.stats[id]
}

func (m *Match) currentTank() *Tank {
	if m.current < 0 || m.current >= len(m.tanks) {
		return nil
	}
	return m.tanks[m.current]
}

func (m *Match) tankName(i int, human bool) string {
	if human {
		if m.cfg.HumanTanks == 1 {
			return "You"
		}
		return fmt.Sprintf("Player %d", i+1)
	}
	if m.cfg.TankCount-m.cfg.HumanTanks == 1 {
		return "Enemy"
	}
	return fmt.Sprintf("Enemy %d", i-m.cfg.HumanTanks+1)
}

// spawnPositions lays tanks out across the visible field. A duel puts the
// first tank in the middle and the second near a random edge.
func (m *Match) spawnPositions() []float64 {
	n := m.cfg.TankCount
	xs := make([]float64, n)
	switch {
	case len(m.cfg.Spawns) > 0:
		for i := range xs {
			if i < len(m.cfg.Spawns) {
				xs[i] = m.cfg.Spawns[i]
			} else {
				xs[i] = CanvasWidth * float64(i+1) / float64(n+1)
			}
		}
	case n == 1:
		xs[0] = CanvasWidth / 2
	case n == 2:
		xs[0] = CanvasWidth / 2
		xs[1] = CanvasWidth - enemySpawnInset
		if m.rng.Float64() < 0.5 {
			xs[1] = enemySpawnInset
		}
	default:
		for i := range xs {
			xs[i] = CanvasWidth * float64(i+1) / float64(n+1)
		}
	}
	return xs
}

func (m *Match) shellsInFlight() bool {
	return (m.projectile != nil && m.projectile.Active) || len(m.subs) > 0
}

func (m *Match) quiescent() bool {
	return !m.shellsInFlight() && len(m.particles) == 0 && len(m.explosions) == 0
}

// checkQuiescence ends the turn once everything a shot set in motion has
// settled. The turn advances after a short pause.
func (m *Match) checkQuiescence() {
	if !m.processing || m.phase != PhaseBattle || !m.quiescent() {
		return
	}
	m.setPhase(PhaseTurnEnd)
	m.sched.After(m.tick, m.cfg.TurnEndTicks, m.token(), taskTurnEnd, func() {
		m.processing = false
		if m.checkGameOver() {
			return
		}
		m.advanceTurn()
	})
}

// checkGameOver ends a skirmish when at most one tank is alive. A campaign
// ends only when its base tank is destroyed.
func (m *Match) checkGameOver() bool {
	if m.phase == PhaseGameOver {
		return true
	}
	alive := 0
	survivor := -1
	for _, t := range m.tanks {
		if t.Alive() {
			alive++
			survivor = t.ID
		}
	}
	over := alive <= 1
	if m.cfg.Mode == ModeCampaign {
		over = alive == 0
	}
	if !over {
		return false
	}
	m.winner = survivor
	if alive != 1 {
		m.winner = -1
	}
	m.opp.stop()
	m.setPhase(PhaseGameOver)
	m.log("--", "phase", "game_over", fmt.Sprintf("winner=%d turns=%d", m.winner, m.turnID), float64(m.winner))
	m.logger.Info("game over", "winner", m.winner, "turns", m.turnID, "session", m.session)
	return true
}

// advanceTurn moves to the next living tank, drifts the wind and clears the
// tracer trail.
func (m *Match) advanceTurn() {
	n := len(m.tanks)
	if n == 0 {
		return
	}
	for i := 1; i <= n; i++ {
		idx := (m.current + i) % n
		if m.tanks[idx].Alive() {
			m.current = idx
			break
		}
	}
	if !m.cfg.Calm {
		m.wind += (m.rng.Float64() - 0.5) * windDriftSpread
	}
	m.trail = nil
	m.turnID++
	m.opp.stop()
	m.setPhase(PhaseBattle)
	m.log(m.tanks[m.current].Label(), "turn", "advance", fmt.Sprintf("turn=%d wind=%.3f", m.turnID, m.wind), float64(m.turnID))
	m.logger.Debug("turn advanced", "turn", m.turnID, "tank", m.tanks[m.current].Name, "wind", m.wind)
	m.startTurn()
}

// startTurn hands control to the built-in opponent when it owns the turn.
func (m *Match) startTurn() {
	t := m.currentTank()
	if t == nil || !t.IsAI || m.phase != PhaseBattle || m.processing {
		return
	}
	if tok := m.token(); m.sched.Pending(taskOpponentAim, tok) || m.sched.Pending(taskOpponentFire, tok) {
		return
	}
	m.beginOpponentTurn(t)
}
