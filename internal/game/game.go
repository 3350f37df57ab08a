package game

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Scorch/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// statusTicks is how long a command's feedback line stays on screen.
const statusTicks = 180

// Aim steps per frame while an arrow key is held.
const (
	angleStep = 0.5
	powerStep = 0.5
)

// speeds lists the selectable simulation rates.
var speeds = []float64{0, 0.5, 1, 2, 4}

// Game is the ebiten presenter for a sim.Match. It holds no rules of its
// own: keys become match commands and Draw renders match queries.
type Game struct {
	match  *sim.Match
	logger *log.Logger

	width     int
	height    int
	gameWidth int
	offX      int
	offY      int

	prevKeys map[ebiten.Key]bool
	showHUD  bool
	showGrid bool
	shopRow  int // highlighted row of the shop during the buying phase
	nodeIdx  int // campaign node targeted by the aim assist

	simSpeed  float64
	tickAccum float64

	eventLog *EventLog
	logSeen  int // sim log entries already copied into eventLog

	status      string
	statusUntil int // match tick at which status is cleared

	terrainBuf *ebiten.Image
	hudBuf     *ebiten.Image
	face       text.Face
}

// New builds a presenter around a fresh match created from opts and starts
// its first session.
func New(logger *log.Logger, opts ...sim.Option) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts = append(opts, sim.WithLogger(logger))
	g := &Game{
		match:     sim.NewMatch(opts...),
		logger:    logger,
		width:     borderWidth + sim.CanvasWidth + borderWidth + logPanelWidth,
		height:    borderWidth + sim.CanvasHeight + borderWidth,
		gameWidth: sim.CanvasWidth,
		offX:      borderWidth,
		offY:      borderWidth,
		prevKeys:  make(map[ebiten.Key]bool),
		showHUD:   true,
		simSpeed:  1,
		eventLog:  NewEventLog(),
		face:      text.NewGoXFace(basicfont.Face7x13),
	}
	g.terrainBuf = ebiten.NewImage(sim.CanvasWidth, sim.CanvasHeight)
	// HUD buffer: 1/hudScale of the screen so it stays crisp when scaled up.
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.newGame()
	return g
}

// Match exposes the underlying simulation.
func (g *Game) Match() *sim.Match { return g.match }

func (g *Game) newGame() {
	g.match.InitGame()
	g.shopRow, g.nodeIdx = 0, 0
	g.tickAccum = 0
	g.eventLog.Reset()
	g.setStatus(fmt.Sprintf("new %s match", g.match.Mode()))
}

func (g *Game) Update() error {
	// Input is handled every frame regardless of sim speed.
	g.handleInput()

	if g.simSpeed > 0 {
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1.0 {
			g.tickAccum -= 1.0
			g.match.Tick()
		}
	}
	g.pullEvents()
	if g.status != "" && g.match.CurrentTick() >= g.statusUntil {
		g.status = ""
	}
	return nil
}

// pullEvents copies new sim log lines into the on-screen panel.
func (g *Game) pullEvents() {
	entries := g.match.SimLog().Entries()
	for _, e := range entries[g.logSeen:] {
		g.eventLog.AddSimEntry(e)
	}
	g.logSeen = len(entries)
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusUntil = g.match.CurrentTick() + statusTicks
}

// report surfaces a rejected command on the status line.
func (g *Game) report(action string, err error) {
	if err == nil {
		return
	}
	g.logger.Debug("command rejected", "action", action, "err", err)
	g.setStatus(fmt.Sprintf("%s: %v", action, err))
}

// humanTurn returns the current tank when it takes keyboard input.
func (g *Game) humanTurn() (sim.Tank, bool) {
	if g.match.Phase() != sim.PhaseBattle || g.match.Processing() {
		return sim.Tank{}, false
	}
	t, ok := g.match.CurrentTank()
	if !ok || t.IsAI || !t.Alive() {
		return sim.Tank{}, false
	}
	return t, true
}

// handleInput maps keys to match commands. Toggles are edge-triggered,
// aim adjustment repeats while held.
func (g *Game) handleInput() {
	cur := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		cur[k] = ebiten.IsKeyPressed(k)
		return cur[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyN) {
		g.newGame()
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if pressed(ebiten.KeyC) {
		g.copyReport()
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if pressed(ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}

	switch g.match.Phase() {
	case sim.PhaseBuying:
		g.handleShopInput(pressed)
	case sim.PhaseBattle:
		g.handleBattleInput(pressed)
	}

	g.prevKeys = cur
}

func (g *Game) handleShopInput(pressed func(ebiten.Key) bool) {
	rows := shopRows(g.match)
	if len(rows) == 0 {
		return
	}
	if pressed(ebiten.KeyArrowUp) {
		g.shopRow = (g.shopRow - 1 + len(rows)) % len(rows)
	}
	if pressed(ebiten.KeyArrowDown) {
		g.shopRow = (g.shopRow + 1) % len(rows)
	}
	g.shopRow = min(g.shopRow, len(rows)-1)
	if pressed(ebiten.KeyEnter) {
		row := rows[g.shopRow]
		var err error
		if row.item {
			err = g.match.BuyItem(0, row.id)
		} else {
			err = g.match.BuyWeapon(0, row.id)
		}
		if err != nil {
			g.report("buy "+row.name, err)
		} else {
			g.setStatus("bought " + row.name)
		}
	}
	if pressed(ebiten.KeyB) {
		g.report("end buying", g.match.EndBuyingPhase())
	}
}

func (g *Game) handleBattleInput(pressed func(ebiten.Key) bool) {
	t, ok := g.humanTurn()
	// Edge-triggered keys are sampled even off-turn so prevKeys stays honest.
	fire := pressed(ebiten.KeySpace)
	next := pressed(ebiten.KeyTab)
	assist := pressed(ebiten.KeyX)
	if !ok {
		return
	}

	angle, power := t.Angle, t.Power
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		angle -= angleStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		angle += angleStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		power += powerStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		power -= powerStep
	}
	if angle != t.Angle || power != t.Power {
		g.report("aim", g.match.UpdateTank(t.ID, sim.AimUpdate(angle, power)))
	}

	if next && len(t.Weapons) > 0 {
		g.report("select", g.match.UpdateTank(t.ID, sim.SelectWeapon(nextFireable(t.Weapons, t.CurrentWeapon))))
	}
	if assist && g.match.Mode() == sim.ModeCampaign {
		g.aimAtNextNode(t)
	}
	if fire {
		if err := g.match.Fire(); err != nil {
			g.report("fire", err)
		}
	}
}

// aimAtNextNode cycles through the material nodes and points the barrel at
// the next one with the extractor aim assist.
func (g *Game) aimAtNextNode(t sim.Tank) {
	nodes := g.match.MaterialNodes()
	if len(nodes) == 0 {
		return
	}
	g.nodeIdx = (g.nodeIdx + 1) % len(nodes)
	n := nodes[g.nodeIdx]
	aim, err := g.match.SuggestExtractorShot(context.Background(), n.ID)
	if err != nil {
		g.report("aim assist", err)
		return
	}
	g.report("aim", g.match.UpdateTank(t.ID, sim.AimUpdate(aim.Angle, aim.Power)))
	g.setStatus(fmt.Sprintf("aiming at %s %s (%s)", n.Material, n.ID, sim.GridLabel(n.X)))
}

// copyReport puts the match report on the system clipboard.
func (g *Game) copyReport() {
	if clipboard.Unsupported {
		g.setStatus("clipboard unavailable")
		return
	}
	if err := clipboard.WriteAll(g.match.Report().Format()); err != nil {
		g.report("copy report", err)
		return
	}
	g.setStatus("report copied to clipboard")
}

// nextFireable returns the index after from that can fire, wrapping around.
// It returns from itself when nothing else can.
func nextFireable(ws []sim.Weapon, from int) int {
	for step := 1; step <= len(ws); step++ {
		i := (from + step) % len(ws)
		if ws[i].CanFire() {
			return i
		}
	}
	return from
}

// slower returns the next speed below s.
func slower(s float64) float64 {
	for i := len(speeds) - 1; i >= 0; i-- {
		if speeds[i] < s {
			return speeds[i]
		}
	}
	return speeds[0]
}

// faster returns the next speed above s.
func faster(s float64) float64 {
	for _, v := range speeds {
		if v > s {
			return v
		}
	}
	return speeds[len(speeds)-1]
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
