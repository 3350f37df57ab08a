package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Scorch/internal/sim"
)

// HUD text metrics at 1x (basicfont.Face7x13).
const (
	hudLineH = 13
	hudCharW = 7
	hudPadX  = 5
	hudPadY  = 4

	shopVisibleRows = 10
)

var (
	hudPanelCol  = color.RGBA{R: 6, G: 8, B: 12, A: 210}
	hudBorderCol = color.RGBA{R: 60, G: 80, B: 110, A: 180}
	hudTextCol   = color.RGBA{R: 220, G: 225, B: 230, A: 255}
	hudMarkCol   = color.RGBA{R: 255, G: 210, B: 90, A: 255}
)

// shopRow is one purchasable line in the buying phase.
type shopRow struct {
	id    string
	name  string
	price int
	owned int
	item  bool
}

// shopRows lists everything the first tank can buy: paid weapons first,
// then the consumable items.
func shopRows(m *sim.Match) []shopRow {
	t, ok := m.Tank(0)
	if !ok {
		return nil
	}
	var rows []shopRow
	for _, w := range t.Weapons {
		if w.Price == 0 {
			continue
		}
		rows = append(rows, shopRow{id: w.ID, name: w.Name, price: w.Price, owned: w.Quantity})
	}
	for _, it := range sim.ShopItems {
		owned := 0
		switch it.ID {
		case sim.ItemShield:
			owned = t.Shields
		case sim.ItemParachute:
			owned = t.Parachutes
		case sim.ItemFuel:
			owned = t.Fuel
		}
		rows = append(rows, shopRow{id: it.ID, name: it.Name, price: it.Price, owned: owned, item: true})
	}
	return rows
}

func speedLabel(s float64) string {
	switch s {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", s)
	default:
		return fmt.Sprintf("%.1fx", s)
	}
}

func ammoLabel(w sim.Weapon) string {
	if w.IsUnlimited() {
		return "inf"
	}
	return fmt.Sprintf("%d", w.Quantity)
}

// statusLines describes the match state for the top-left panel.
func statusLines(m *sim.Match, speed float64) []string {
	lines := []string{
		fmt.Sprintf("%s  %s  turn %d  wind %+.2f  sim %s",
			m.Mode(), m.Phase(), m.TurnID(), m.Wind(), speedLabel(speed)),
	}
	if t, ok := m.CurrentTank(); ok && m.Phase() != sim.PhaseGameOver {
		who := "player"
		if t.IsAI {
			who = "AI"
		}
		line := fmt.Sprintf("%s (%s)  hp %d  $%d  angle %.1f  power %.1f",
			t.Name, who, t.Health, t.Money, t.Angle, t.Power)
		if w := t.Weapon(); w != nil {
			line += fmt.Sprintf("  %s [%s]", w.Name, ammoLabel(*w))
		}
		lines = append(lines, line)
	}
	if m.Mode() == sim.ModeCampaign {
		inv := m.Inventory()
		lines = append(lines, fmt.Sprintf("iron %d  copper %d  oil %d  extractors %d",
			inv.Iron, inv.Copper, inv.Oil, len(m.Extractors())))
		if msg := m.FailureMessage(); msg != "" {
			lines = append(lines, msg)
		}
	}
	if m.Phase() == sim.PhaseGameOver {
		out := sim.DetermineMatchOutcome(m)
		line := fmt.Sprintf("GAME OVER: %s (%s)", out.Outcome, out.Description)
		if w, ok := m.Winner(); ok {
			line += "  winner " + w.Name
		}
		lines = append(lines, line, "N=new game  C=copy report")
	}
	return lines
}

// legendLines lists the keyboard shortcuts for the current phase.
func legendLines(phase sim.Phase, mode sim.Mode) []string {
	lines := []string{"P=pause  ,/. speed  H=hide HUD  N=new  C=copy report"}
	switch phase {
	case sim.PhaseBuying:
		lines = append(lines, "Up/Down=select  Enter=buy  B=start battle")
	case sim.PhaseBattle, sim.PhaseTurnEnd:
		lines = append(lines, "Left/Right=angle  Up/Down=power  Tab=weapon  Space=fire")
		if mode == sim.ModeCampaign {
			lines = append(lines, "X=aim at next node  G=grid")
		}
	}
	return lines
}

// drawHUD renders the status and legend panels.
// Text is drawn into hudBuf at 1x then composited at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	g.hudBuf.Clear()
	bufH := float32(g.height / hudScale)

	top := statusLines(g.match, g.simSpeed)
	if g.status != "" {
		top = append(top, "> "+g.status)
	}
	g.drawPanel(top, 4, 4)

	if g.match.Phase() == sim.PhaseBuying {
		g.drawShop(4, 8+panelHeight(len(top)))
	}

	legend := legendLines(g.match.Phase(), g.match.Mode())
	g.drawPanel(legend, 4, bufH-panelHeight(len(legend))-4)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func panelHeight(lines int) float32 {
	return float32(lines*hudLineH + hudPadY*2)
}

// drawPanel draws a boxed block of text into hudBuf.
func (g *Game) drawPanel(lines []string, bx, by float32) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*hudCharW + hudPadX*2)
	boxH := panelHeight(len(lines))

	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, hudPanelCol, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, hudBorderCol, false)
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 90, G: 120, B: 160, A: 80}, false)

	for i, line := range lines {
		g.drawText(line, bx+hudPadX, by+hudPadY+float32(i*hudLineH), hudTextCol)
	}
}

// drawShop lists purchasable stock with the selected row marked.
func (g *Game) drawShop(bx, by float32) {
	t, ok := g.match.Tank(0)
	if !ok {
		return
	}
	rows := shopRows(g.match)
	first := shopWindow(g.shopRow, len(rows))
	last := min(first+shopVisibleRows, len(rows))
	lines := []string{fmt.Sprintf("SHOP  %s  $%d  (%d/%d)", t.Name, t.Money, g.shopRow+1, len(rows))}
	for i := first; i < last; i++ {
		r := rows[i]
		lines = append(lines, fmt.Sprintf("  %-18s %5d  have %d", r.name, r.price, max(r.owned, 0)))
	}
	g.drawPanel(lines, bx, by)
	y := by + hudPadY + float32((g.shopRow-first+1)*hudLineH)
	g.drawText(">", bx+hudPadX, y, hudMarkCol)
}

// shopWindow returns the first visible shop row so that sel stays in view.
func shopWindow(sel, n int) int {
	first := sel - shopVisibleRows/2
	first = min(first, n-shopVisibleRows)
	return max(first, 0)
}

func (g *Game) drawText(s string, x, y float32, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	text.Draw(g.hudBuf, s, g.face, op)
}
