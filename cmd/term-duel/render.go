package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Scorch/internal/sim"
)

// hudRows is how many terminal rows the status lines take above the field.
const hudRows = 2

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleGround  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGreen)
	styleSurface = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLime)
	styleShell   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorYellow).Bold(true)
	styleBlast   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorOrange)
	styleDead    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)
	tankStyles   = []tcell.Style{
		tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorAqua).Bold(true),
		tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorRed).Bold(true),
		tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorFuchsia).Bold(true),
		tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorYellow).Bold(true),
	}
)

// canvas is the part of tcell.Screen the renderer draws through.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// view maps the playfield onto a w×h block of terminal cells below the HUD.
type view struct {
	w, h int
}

func (v view) fieldRows() int { return max(v.h-hudRows, 1) }

// cell converts world coordinates to a terminal cell. ok is false when the
// point lies outside the visible playfield.
func (v view) cell(x, y float64) (cx, cy int, ok bool) {
	if x < 0 || x >= sim.CanvasWidth || y < 0 || y >= sim.CanvasHeight {
		return 0, 0, false
	}
	cx = int(x * float64(v.w) / sim.CanvasWidth)
	cy = hudRows + int(y*float64(v.fieldRows())/sim.CanvasHeight)
	return cx, cy, true
}

// surfaceRow returns the terminal row of the ground under column cx.
func (v view) surfaceRow(terrain []float32, cx int) int {
	if len(terrain) == 0 {
		return v.h
	}
	// Sample the column midpoint in world space.
	wx := (float64(cx) + 0.5) * sim.CanvasWidth / float64(v.w)
	i := sim.TerrainIndex(wx)
	i = max(0, min(i, len(terrain)-1))
	y := float64(terrain[i])
	return hudRows + int(y*float64(v.fieldRows())/sim.CanvasHeight)
}

func drawText(c canvas, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		c.SetContent(x+i, y, r, nil, style)
	}
}

// render draws one snapshot. The caller clears and shows the screen.
func render(c canvas, snap sim.MatchSnapshot, w, h int, speed int, paused bool) {
	v := view{w: w, h: h}

	drawText(c, 0, 0, headerLine(snap, speed, paused), styleDefault)
	drawText(c, 0, 1, tanksLine(snap), styleDefault)

	for cx := 0; cx < w; cx++ {
		top := v.surfaceRow(snap.Terrain, cx)
		for cy := max(top, hudRows); cy < h; cy++ {
			r, st := '█', styleGround
			if cy == top {
				r, st = '▀', styleSurface
			}
			c.SetContent(cx, cy, r, nil, st)
		}
	}

	for _, b := range snap.Blasts {
		// Blast radius in cells along x; rows are taller than columns.
		rx := max(1, int(b.Radius*float64(w)/sim.CanvasWidth))
		ry := max(1, int(b.Radius*float64(v.fieldRows())/sim.CanvasHeight))
		bx, by, ok := v.cell(b.X, b.Y)
		if !ok {
			continue
		}
		for dy := -ry; dy <= ry; dy++ {
			for dx := -rx; dx <= rx; dx++ {
				if float64(dx*dx)/float64(rx*rx)+float64(dy*dy)/float64(ry*ry) <= 1 {
					c.SetContent(bx+dx, by+dy, '*', nil, styleBlast)
				}
			}
		}
	}

	for i, t := range snap.Tanks {
		cx, cy, ok := v.cell(t.X, t.Y)
		if !ok {
			continue
		}
		st := tankStyles[i%len(tankStyles)]
		if t.Health <= 0 {
			st = styleDead
		}
		c.SetContent(cx, cy, 'A', nil, st)
		if t.Health > 0 {
			c.SetContent(cx+barrelDX(t.Angle, i), cy-1, barrelRune(t.Angle, i), nil, st)
		}
	}

	for _, s := range snap.Shells {
		if cx, cy, ok := v.cell(s.X, s.Y); ok {
			r := '●'
			if s.Sub {
				r = '•'
			}
			c.SetContent(cx, cy, r, nil, styleShell)
		}
	}
}

// barrelRune picks a glyph for the barrel direction. Tank 0 faces right,
// the others face left, matching the launch convention.
func barrelRune(angle float64, id int) rune {
	a := screenAngle(angle, id)
	switch {
	case a > 112.5:
		return '\\'
	case a >= 67.5:
		return '|'
	default:
		return '/'
	}
}

func barrelDX(angle float64, id int) int {
	a := screenAngle(angle, id)
	switch {
	case a > 112.5:
		return -1
	case a >= 67.5:
		return 0
	default:
		return 1
	}
}

// screenAngle returns the barrel direction measured anticlockwise from the
// +x axis of the screen.
func screenAngle(angle float64, id int) float64 {
	rad := (180 - angle) * math.Pi / 180
	dx := math.Cos(rad)
	if id != 0 {
		dx = -dx
	}
	return math.Atan2(math.Sin(rad), dx) * 180 / math.Pi
}

func headerLine(snap sim.MatchSnapshot, speed int, paused bool) string {
	state := fmt.Sprintf("x%d", speed)
	if paused {
		state = "PAUSED"
	}
	line := fmt.Sprintf("SCORCH  %s  turn %d  tick %d  wind %+.2f  %s  [space]=pause [+/-]=speed [n]=new [q]=quit",
		snap.Phase, snap.Turn, snap.Tick, snap.Wind, state)
	if snap.Winner >= 0 && snap.Winner < len(snap.Tanks) {
		line = fmt.Sprintf("GAME OVER  winner %s  turn %d  [n]=new [q]=quit", snap.Tanks[snap.Winner].Name, snap.Turn)
	} else if snap.Phase == sim.PhaseGameOver.String() {
		line = fmt.Sprintf("GAME OVER  draw  turn %d  [n]=new [q]=quit", snap.Turn)
	}
	return line
}

func tanksLine(snap sim.MatchSnapshot) string {
	line := ""
	for i, t := range snap.Tanks {
		mark := " "
		if i == snap.Current {
			mark = ">"
		}
		line += fmt.Sprintf("%s%s hp=%d a=%.0f p=%.0f %s  ", mark, t.Name, t.Health, t.Angle, t.Power, t.Weapon)
	}
	return line
}
