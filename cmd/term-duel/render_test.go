package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Scorch/internal/sim"
)

// grid records SetContent calls.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g *grid) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) row(y int) string { return string(g.cells[y]) }

func flatSnapshot(groundY float32) sim.MatchSnapshot {
	ter := make([]float32, sim.TotalWidth)
	for i := range ter {
		ter[i] = groundY
	}
	return sim.MatchSnapshot{
		Phase:   sim.PhaseBattle.String(),
		Winner:  -1,
		Terrain: ter,
		Tanks: []sim.TankState{
			{ID: 0, Name: "Enemy 1", X: 400, Y: float64(groundY) - 8, Angle: 90, Health: 50},
			{ID: 1, Name: "Enemy 2", X: 1200, Y: float64(groundY) - 8, Angle: 90, Health: 0},
		},
	}
}

func TestView_Cell(t *testing.T) {
	v := view{w: 80, h: 27}
	cases := []struct {
		x, y   float64
		cx, cy int
		ok     bool
	}{
		{0, 0, 0, hudRows, true},
		{800, 250, 40, hudRows + 12, true},
		{1599, 499, 79, hudRows + 24, true},
		{-1, 100, 0, 0, false},
		{sim.CanvasWidth, 100, 0, 0, false},
		{100, sim.CanvasHeight, 0, 0, false},
	}
	for _, c := range cases {
		cx, cy, ok := v.cell(c.x, c.y)
		if ok != c.ok || (ok && (cx != c.cx || cy != c.cy)) {
			t.Errorf("cell(%.0f,%.0f) = %d,%d,%v want %d,%d,%v", c.x, c.y, cx, cy, ok, c.cx, c.cy, c.ok)
		}
	}
}

func TestRender_TerrainTanksAndHeader(t *testing.T) {
	const w, h = 80, 27
	g := newGrid(w, h)
	snap := flatSnapshot(300)
	snap.Shells = []sim.ShellState{{X: 800, Y: 100, Kind: "standard"}}
	render(g, snap, w, h, 2, false)

	if !strings.HasPrefix(g.row(0), "SCORCH  battle") {
		t.Errorf("header = %q", g.row(0))
	}
	if !strings.Contains(g.row(1), ">Enemy 1 hp=50") {
		t.Errorf("tank line = %q", g.row(1))
	}

	surface := hudRows + 300*(h-hudRows)/sim.CanvasHeight
	for x := 0; x < w; x++ {
		if g.cells[surface][x] != '▀' && g.cells[surface][x] != 'A' {
			t.Fatalf("column %d surface = %q", x, g.cells[surface][x])
		}
		if g.cells[h-1][x] != '█' {
			t.Fatalf("column %d not filled to the bottom", x)
		}
	}

	tankY := 292.0
	tankRow := hudRows + int(tankY*float64(h-hudRows)/sim.CanvasHeight)
	if g.cells[tankRow][20] != 'A' || g.cells[tankRow][60] != 'A' {
		t.Errorf("tank row = %q", g.row(tankRow))
	}
	if g.cells[tankRow-1][20] != '|' {
		t.Errorf("live tank barrel missing: %q", g.row(tankRow-1))
	}
	if g.cells[tankRow-1][60] == '|' {
		t.Error("a destroyed tank should not draw a barrel")
	}
	if g.cells[hudRows+5][40] != '●' {
		t.Errorf("shell not drawn: %q", g.row(hudRows+5))
	}
}

func TestRender_GameOverHeader(t *testing.T) {
	g := newGrid(80, 10)
	snap := flatSnapshot(300)
	snap.Phase = sim.PhaseGameOver.String()
	snap.Winner = 0
	render(g, snap, 80, 10, 1, false)
	if !strings.HasPrefix(g.row(0), "GAME OVER  winner Enemy 1") {
		t.Errorf("header = %q", g.row(0))
	}

	snap.Winner = -1
	g = newGrid(80, 10)
	render(g, snap, 80, 10, 1, false)
	if !strings.HasPrefix(g.row(0), "GAME OVER  draw") {
		t.Errorf("draw header = %q", g.row(0))
	}
}

func TestBarrelRune(t *testing.T) {
	cases := []struct {
		angle float64
		id    int
		want  rune
	}{
		{90, 0, '|'},
		{90, 1, '|'},
		{170, 0, '/'},
		{10, 0, '\\'},
		{170, 1, '\\'},
		{10, 1, '/'},
	}
	for _, c := range cases {
		if got := barrelRune(c.angle, c.id); got != c.want {
			t.Errorf("barrelRune(%.0f, %d) = %q, want %q", c.angle, c.id, got, c.want)
		}
	}
}
