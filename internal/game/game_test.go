package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Scorch/internal/sim"
)

func TestEventLog_RingBuffer(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(EventEntry{Tick: i, Label: "T0", Category: "shot", Message: "fired"})
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("len = %d, want %d", len(got), logMaxEntries)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != logMaxEntries+4 {
		t.Errorf("window = %d..%d", got[0].Tick, got[len(got)-1].Tick)
	}
	el.Reset()
	if len(el.Recent()) != 0 {
		t.Error("reset kept entries")
	}
}

func TestEventLog_AddSimEntry(t *testing.T) {
	el := NewEventLog()
	el.AddSimEntry(sim.SimLogEntry{Tick: 42, Tank: "T1", Category: "damage", Key: "hit", Value: "-30 hp (now 20) from T0 at d=0.0 after two bounces"})
	e := el.Recent()[0]
	if e.Label != "T1" || e.Category != "damage" || !strings.HasPrefix(e.Message, "hit -30 hp") {
		t.Fatalf("entry = %+v", e)
	}
	line := entryLine(e)
	if len(line) != logMaxChars || !strings.HasSuffix(line, "~") {
		t.Errorf("long line not truncated: %q", line)
	}
	if short := entryLine(EventEntry{Tick: 1, Label: "--", Message: "init"}); short != "    1 -- init" {
		t.Errorf("short line = %q", short)
	}
}

func TestSpeedSteps(t *testing.T) {
	if faster(1) != 2 || faster(4) != 4 || faster(0) != 0.5 {
		t.Error("faster")
	}
	if slower(1) != 0.5 || slower(0) != 0 || slower(4) != 2 {
		t.Error("slower")
	}
	if speedLabel(0) != "PAUSED" || speedLabel(2) != "2x" || speedLabel(0.5) != "0.5x" {
		t.Error("speedLabel")
	}
}

func TestNextFireable(t *testing.T) {
	ws := sim.DefaultCatalog()
	// Only the free starter and the fourth weapon can fire.
	ws[3].Quantity = 2
	if got := nextFireable(ws, 0); got != 3 {
		t.Errorf("from 0 = %d, want 3", got)
	}
	if got := nextFireable(ws, 3); got != 0 {
		t.Errorf("from 3 = %d, want 0 (wrap)", got)
	}
	only := ws[:1]
	if got := nextFireable(only, 0); got != 0 {
		t.Errorf("single weapon = %d", got)
	}
}

func newSkirmish(t *testing.T) *sim.Match {
	t.Helper()
	m := sim.NewMatch(sim.WithSeed(3), sim.WithCalm())
	m.InitGame()
	return m
}

func TestShopRows(t *testing.T) {
	m := newSkirmish(t)
	rows := shopRows(m)
	paid := 0
	for _, w := range sim.DefaultCatalog() {
		if w.Price > 0 {
			paid++
		}
	}
	if len(rows) != paid+len(sim.ShopItems) {
		t.Fatalf("rows = %d, want %d", len(rows), paid+len(sim.ShopItems))
	}
	last := rows[len(rows)-1]
	if !last.item || last.id != sim.ItemFuel {
		t.Errorf("items should close the list, got %+v", last)
	}
	if err := m.BuyItem(0, sim.ItemShield); err != nil {
		t.Fatal(err)
	}
	for _, r := range shopRows(m) {
		if r.id == sim.ItemShield && r.owned != 1 {
			t.Errorf("shield owned = %d", r.owned)
		}
	}
}

func TestShopWindow(t *testing.T) {
	cases := []struct{ sel, n, want int }{
		{0, 22, 0},
		{5, 22, 0},
		{10, 22, 5},
		{21, 22, 12},
		{3, 4, 0},
	}
	for _, c := range cases {
		if got := shopWindow(c.sel, c.n); got != c.want {
			t.Errorf("shopWindow(%d, %d) = %d, want %d", c.sel, c.n, got, c.want)
		}
	}
}

func TestStatusLines(t *testing.T) {
	m := newSkirmish(t)
	lines := statusLines(m, 1)
	if !strings.HasPrefix(lines[0], "skirmish  buying") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "You (player)") || !strings.Contains(lines[1], "Baby Missile [inf]") {
		t.Errorf("tank line = %q", lines[1])
	}

	camp := sim.NewMatch(sim.WithSeed(3), sim.WithMode(sim.ModeCampaign))
	camp.InitGame()
	found := false
	for _, l := range statusLines(camp, 0) {
		if strings.HasPrefix(l, "iron 0  copper 0  oil 0") {
			found = true
		}
	}
	if !found {
		t.Error("campaign inventory missing")
	}
}

func TestLegendLines(t *testing.T) {
	if l := legendLines(sim.PhaseBuying, sim.ModeSkirmish); !strings.Contains(l[1], "Enter=buy") {
		t.Errorf("buying legend = %v", l)
	}
	if l := legendLines(sim.PhaseBattle, sim.ModeCampaign); len(l) != 3 || !strings.Contains(l[2], "X=aim") {
		t.Errorf("campaign legend = %v", l)
	}
	if l := legendLines(sim.PhaseGameOver, sim.ModeSkirmish); len(l) != 1 {
		t.Errorf("game over legend = %v", l)
	}
}
