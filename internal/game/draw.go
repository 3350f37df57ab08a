package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Scorch/internal/sim"
)

const (
	tankHalfW   = 10
	tankHullH   = 6
	barrelLen   = 14
	healthBarW  = 24
	shellRadius = 2.5
)

var (
	skyTop      = color.RGBA{R: 18, G: 22, B: 40, A: 255}
	groundCol   = color.RGBA{R: 96, G: 128, B: 64, A: 255}
	ridgeCol    = color.RGBA{R: 150, G: 180, B: 100, A: 255}
	playerCol   = color.RGBA{R: 70, G: 150, B: 230, A: 255}
	enemyCol    = color.RGBA{R: 220, G: 80, B: 70, A: 255}
	deadCol     = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	shellCol    = color.RGBA{R: 250, G: 250, B: 240, A: 255}
	trailCol    = color.RGBA{R: 255, G: 240, B: 120, A: 140}
	fireCol     = color.RGBA{R: 255, G: 120, B: 20, A: 255}
	debrisCol   = color.RGBA{R: 140, G: 120, B: 100, A: 255}
	gridLineCol = color.RGBA{R: 255, G: 255, B: 255, A: 28}
)

var materialCols = map[sim.Material]color.RGBA{
	sim.MaterialIron:   {R: 170, G: 170, B: 185, A: 255},
	sim.MaterialCopper: {R: 210, G: 120, B: 60, A: 255},
	sim.MaterialOil:    {R: 40, G: 40, B: 50, A: 255},
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background outside the playfield.
	screen.Fill(color.RGBA{R: 10, G: 11, B: 14, A: 255})

	ox, oy := float32(g.offX), float32(g.offY)
	gw, gh := float32(g.gameWidth), float32(sim.CanvasHeight)
	vector.FillRect(screen, ox, oy, gw, gh, skyTop, false)

	g.drawTerrain(screen, ox, oy)
	if g.showGrid && g.match.Mode() == sim.ModeCampaign {
		drawCampaignGrid(screen, ox, oy)
	}
	g.drawCampaign(screen, ox, oy)
	g.drawTanks(screen, ox, oy)
	g.drawShots(screen, ox, oy)
	g.drawEffects(screen, ox, oy)

	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, color.RGBA{R: 60, G: 75, B: 100, A: 255}, false)

	logX := g.offX + g.gameWidth + g.offX
	g.eventLog.Draw(screen, logX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// drawTerrain fills the visible ground profile. The silhouette is drawn in
// white into terrainBuf and tinted on composite.
func (g *Game) drawTerrain(screen *ebiten.Image, ox, oy float32) {
	t := g.match.Terrain()
	if t == nil {
		return
	}
	buf := g.terrainBuf
	buf.Clear()

	var path vector.Path
	path.MoveTo(0, sim.CanvasHeight)
	for x := 0; x < sim.CanvasWidth; x += 2 {
		path.LineTo(float32(x), float32(t.HeightAt(float64(x))))
	}
	path.LineTo(sim.CanvasWidth, float32(t.HeightAt(sim.CanvasWidth-1)))
	path.LineTo(sim.CanvasWidth, sim.CanvasHeight)
	path.Close()
	vector.FillPath(buf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(ox), float64(oy))
	opts.ColorScale.ScaleWithColor(groundCol)
	screen.DrawImage(buf, opts)

	// Surface ridge line.
	prev := float32(t.HeightAt(0))
	for x := 4; x < sim.CanvasWidth; x += 4 {
		y := float32(t.HeightAt(float64(x)))
		vector.StrokeLine(screen, ox+float32(x-4), oy+prev, ox+float32(x), oy+y, 1.5, ridgeCol, true)
		prev = y
	}
}

// drawCampaignGrid overlays the A1..H8 segment grid.
func drawCampaignGrid(screen *ebiten.Image, ox, oy float32) {
	for s := 0; s <= sim.GridSegments; s += sim.GridCols {
		x := ox + float32(float64(s)*sim.SegmentWidth)
		vector.StrokeLine(screen, x, oy, x, oy+sim.CanvasHeight, 1.0, gridLineCol, false)
		if s < sim.GridSegments {
			ebitenutil.DebugPrintAt(screen, sim.GridLabel(float64(s)*sim.SegmentWidth), int(x)+3, int(oy)+3)
		}
	}
}

func (g *Game) drawCampaign(screen *ebiten.Image, ox, oy float32) {
	for _, n := range g.match.MaterialNodes() {
		col := materialCols[n.Material]
		vector.FillCircle(screen, ox+float32(n.X), oy+float32(n.Y), 6, col, true)
		vector.StrokeCircle(screen, ox+float32(n.X), oy+float32(n.Y), 8, 1.0, color.RGBA{R: 255, G: 255, B: 255, A: 90}, true)
	}
	for _, e := range g.match.Extractors() {
		x, y := ox+float32(e.X), oy+float32(e.Y)
		col := materialCols[e.Material]
		if !e.Alive() {
			col = deadCol
		}
		// The mast rises as deployment progresses.
		h := float32(4 + 14*e.DeployProgress())
		vector.FillRect(screen, x-4, y-2, 8, 6, col, false)
		vector.StrokeLine(screen, x, y-2, x, y-2-h, 2.0, col, false)
		if e.Alive() {
			drawHealthBar(screen, x, y-h-8, e.Health, e.MaxHealth)
		}
	}
	for _, p := range g.match.MaterialProjectiles() {
		col := materialCols[p.Material]
		for i := 1; i < len(p.Trail); i++ {
			a, b := p.Trail[i-1], p.Trail[i]
			vector.StrokeLine(screen, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), 1.0, col, true)
		}
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), 3, col, true)
	}
}

func (g *Game) drawTanks(screen *ebiten.Image, ox, oy float32) {
	cur, hasCur := g.match.CurrentTank()
	for _, t := range g.match.Tanks() {
		x, y := ox+float32(t.X), oy+float32(t.Y)
		col := enemyCol
		if !t.IsAI {
			col = playerCol
		}
		if !t.Alive() {
			col = deadCol
		}

		// Barrel: aim angle measured from the facing side, 90 = straight up.
		rad := (180 - t.Angle) * math.Pi / 180
		bx := x + float32(math.Cos(rad)*barrelLen*t.Facing)
		by := y - tankHullH/2 - float32(math.Sin(rad)*barrelLen)
		vector.StrokeLine(screen, x, y-tankHullH/2, bx, by, 2.0, col, true)

		vector.FillRect(screen, x-tankHalfW, y-tankHullH/2, 2*tankHalfW, tankHullH, col, false)
		vector.FillCircle(screen, x, y-tankHullH/2, 4, col, true)

		if hasCur && cur.ID == t.ID && t.Alive() && g.match.Phase() == sim.PhaseBattle {
			vector.StrokeRect(screen, x-tankHalfW-3, y-tankHullH-6, 2*tankHalfW+6, tankHullH+12, 1.0, color.RGBA{R: 255, G: 255, B: 255, A: 120}, false)
		}
		if t.Alive() {
			drawHealthBar(screen, x, y-tankHullH-10, t.Health, t.MaxHealth)
		}
		ebitenutil.DebugPrintAt(screen, t.Name, int(x)-len(t.Name)*3, int(y)+6)
	}
}

func drawHealthBar(screen *ebiten.Image, cx, y float32, hp, maxHP int) {
	if maxHP <= 0 {
		return
	}
	frac := float32(hp) / float32(maxHP)
	vector.FillRect(screen, cx-healthBarW/2, y, healthBarW, 3, color.RGBA{R: 40, G: 10, B: 10, A: 220}, false)
	col := color.RGBA{R: 80, G: 220, B: 90, A: 255}
	if frac < 0.35 {
		col = color.RGBA{R: 230, G: 90, B: 60, A: 255}
	}
	vector.FillRect(screen, cx-healthBarW/2, y, healthBarW*frac, 3, col, false)
}

func (g *Game) drawShots(screen *ebiten.Image, ox, oy float32) {
	trail := g.match.TracerTrail()
	for i := 1; i < len(trail); i++ {
		a, b := trail[i-1], trail[i]
		vector.StrokeLine(screen, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), 1.0, trailCol, true)
	}
	if p, ok := g.match.Projectile(); ok {
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), shellRadius, shellCol, true)
	}
	for _, p := range g.match.SubProjectiles() {
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), shellRadius-0.5, shellCol, true)
	}
}

func (g *Game) drawEffects(screen *ebiten.Image, ox, oy float32) {
	for _, e := range g.match.Explosions() {
		// Blast grows to full radius over its frames while fading out.
		f := float32(e.Frame+1) / float32(max(e.MaxFrames, 1))
		alpha := uint8(220 * (1 - f))
		r := float32(e.Radius) * (0.4 + 0.6*f)
		vector.FillCircle(screen, ox+float32(e.X), oy+float32(e.Y), r, color.RGBA{R: 255, G: 160, B: 40, A: alpha}, true)
		vector.StrokeCircle(screen, ox+float32(e.X), oy+float32(e.Y), r, 1.5, color.RGBA{R: 255, G: 230, B: 150, A: alpha}, true)
	}
	for _, bp := range g.match.Particles() {
		col := fireCol
		if bp.Debris {
			col = debrisCol
		}
		if bp.MaxLife > 0 {
			col.A = uint8(80 + 175*math.Max(0, bp.Life/bp.MaxLife))
		}
		vector.FillCircle(screen, ox+float32(bp.X), oy+float32(bp.Y), 2, col, false)
	}
}
