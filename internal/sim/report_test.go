package sim

import (
	"strings"
	"testing"
)

func TestReport_FormatSections(t *testing.T) {
	tm := quietDuel(InBattle(), Stock(0, "missile", 1))
	if err := tm.Shoot("missile", 120, 40); err != nil {
		t.Fatal(err)
	}
	tm.RunUntilSettled(2000)

	r := tm.Report()
	text := r.Format()
	t.Log(text)
	for _, want := range []string{"=== Match Report (skirmish", "--- Tanks ---", "--- Impacts ---", "standard", "T0", "T1"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(text, "--- Inventory ---") {
		t.Error("skirmish report should not list an inventory")
	}
	if !strings.HasPrefix(r.Tanks[0].LastEvent, "[T=") || !strings.Contains(text, "      last [T=") {
		t.Errorf("tank 0 last event = %q", r.Tanks[0].LastEvent)
	}
	if r.Impacts[KindStandard] != 1 {
		t.Errorf("impacts = %v", r.Impacts)
	}
	if r.Outcome.Outcome != OutcomeInconclusive {
		t.Errorf("running match outcome = %s", r.Outcome.Outcome)
	}
}

func TestOutcome_FlawlessVictory(t *testing.T) {
	tm := quietDuel(InBattle(), TankHealth(1, 0))
	_ = tm.AdvanceTurn()
	out := DetermineMatchOutcome(tm.Match)
	if out.Description != "flawless_victory" || out.Survivors != 1 || out.Total != 2 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestOutcome_CampaignRunsUntilBaseFalls(t *testing.T) {
	tm := campaign()
	if err := tm.AdvanceTurn(); err != nil {
		t.Fatal(err)
	}
	if tm.Phase() == PhaseGameOver {
		t.Fatal("a lone campaign tank is not a victory")
	}
	if out := DetermineMatchOutcome(tm.Match); out.Description != "inconclusive_campaign_running" {
		t.Errorf("outcome = %+v", out)
	}
	tm.tankByID(0).Health = 0
	_ = tm.AdvanceTurn()
	if tm.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s", tm.Phase())
	}
	if out := DetermineMatchOutcome(tm.Match); out.Outcome != OutcomeDefeat {
		t.Errorf("campaign loss = %s", out.Outcome)
	}
}

func TestSnapshot_EncodeDecode(t *testing.T) {
	tm := quietDuel(InBattle())
	if err := tm.Shoot("baby-missile", 120, 50); err != nil {
		t.Fatal(err)
	}
	tm.RunTicks(5)

	snap := tm.Snapshot()
	data, err := snap.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Session != tm.Session() || got.Tick != 5 || got.Phase != "battle" {
		t.Errorf("header = %s/%d/%s", got.Session, got.Tick, got.Phase)
	}
	if len(got.Tanks) != 2 || got.Tanks[0].Weapon != "baby-missile" {
		t.Errorf("tanks = %+v", got.Tanks)
	}
	if len(got.Shells) != 1 || got.Shells[0].Sub {
		t.Errorf("shells = %+v", got.Shells)
	}
	if len(got.Terrain) != TotalWidth || got.Winner != -1 {
		t.Errorf("terrain=%d winner=%d", len(got.Terrain), got.Winner)
	}

	if _, err := DecodeSnapshot([]byte{0xc1}); err == nil {
		t.Error("garbage decoded")
	}
}

func TestSimLog_QueriesAndFormat(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "T0", "shot", "fired", "missile angle=120.0", 50)
	sl.AddVerbose(2, "T0", "flight", "step", "x=1", 1)
	sl.Add(3, "T1", "damage", "hit", "-30 hp (now 20)", 30)

	if sl.Len() != 2 {
		t.Fatalf("verbose entry recorded in quiet mode: %d entries", sl.Len())
	}
	if len(sl.ForTank("T1")) != 1 || sl.CountCategory("shot", "") != 1 {
		t.Error("filters broken")
	}
	last, ok := sl.LastOf("", "")
	if !ok || last.Tick != 3 {
		t.Errorf("last = %+v", last)
	}
	if !sl.HasEntry("damage", "hit", "now 20") || sl.HasEntry("damage", "hit", "now 0") {
		t.Error("HasEntry substring match broken")
	}
	line := last.String()
	if !strings.HasPrefix(line, "[T=0003] T1") {
		t.Errorf("line = %q", line)
	}
	if strings.Count(sl.Tail(1), "\n") != 1 || strings.Count(sl.Format(), "\n") != 2 {
		t.Error("Tail/Format line counts")
	}
}
