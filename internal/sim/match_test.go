package sim

import (
	"errors"
	"math"
	"testing"
)

func TestMatch_PhaseFlow(t *testing.T) {
	m := NewMatch(WithSeed(1))
	if m.Phase() != PhaseMenu {
		t.Fatalf("new match phase = %s", m.Phase())
	}
	m.InitGame()
	if m.Phase() != PhaseBuying {
		t.Fatalf("skirmish should open in buying, got %s", m.Phase())
	}
	if err := m.Fire(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("fire while buying: %v", err)
	}
	if err := m.EndBuyingPhase(); err != nil {
		t.Fatal(err)
	}
	if m.Phase() != PhaseBattle {
		t.Fatalf("phase after buying = %s", m.Phase())
	}
	if err := m.EndBuyingPhase(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("second EndBuyingPhase: %v", err)
	}
	if err := m.SetPhase(Phase(42)); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("bogus phase accepted: %v", err)
	}
}

func TestMatch_DuelSetup(t *testing.T) {
	m := NewMatch(WithSeed(2))
	m.InitGame()
	tanks := m.Tanks()
	if len(tanks) != 2 {
		t.Fatalf("expected 2 tanks, got %d", len(tanks))
	}
	if tanks[0].Name != "You" || tanks[1].Name != "Enemy" {
		t.Errorf("names = %q, %q", tanks[0].Name, tanks[1].Name)
	}
	if tanks[0].IsAI || !tanks[1].IsAI {
		t.Error("first tank should be human and second the opponent")
	}
	if tanks[0].X != CanvasWidth/2 {
		t.Errorf("player x = %.0f", tanks[0].X)
	}
	if x := tanks[1].X; x != enemySpawnInset && x != CanvasWidth-enemySpawnInset {
		t.Errorf("enemy x = %.0f", x)
	}
	if tanks[0].Facing != 1 || tanks[1].Facing != -1 {
		t.Errorf("facing = %+.0f, %+.0f", tanks[0].Facing, tanks[1].Facing)
	}
	for _, tk := range tanks {
		if tk.Y != m.Terrain().HeightAt(tk.X)-tankClearance {
			t.Errorf("%s not resting on the ground", tk.Label())
		}
		if tk.Health != DefaultHealth || tk.Money != DefaultMoney || tk.Angle != DefaultAngle || tk.Power != DefaultPower {
			t.Errorf("%s defaults = %+v", tk.Label(), tk)
		}
	}
	if w := m.Wind(); w < -1 || w > 1 {
		t.Errorf("initial wind %.3f outside ±1", w)
	}
}

func TestMatch_InitGameStartsNewSession(t *testing.T) {
	tm := quietDuel(InBattle(), TankHealth(1, 5))
	first := tm.Session()
	if err := tm.Shoot("baby-missile", 90, 30); err != nil {
		t.Fatal(err)
	}
	tm.InitGame()
	if tm.Session() == first || tm.Session() == "" {
		t.Fatal("InitGame should mint a new session id")
	}
	if tm.Processing() || tm.shellsInFlight() {
		t.Fatal("shot survived a new session")
	}
	if mustTank(t, tm, 1).Health != DefaultHealth {
		t.Fatal("tanks not rebuilt")
	}
	if tm.TurnID() != 0 || tm.sched.Len() != 0 {
		t.Fatal("turn state not reset")
	}
}

func TestMatch_FireRejectedWhileInFlight(t *testing.T) {
	tm := quietDuel(InBattle())
	if err := tm.Shoot("baby-missile", 120, 50); err != nil {
		t.Fatal(err)
	}
	if err := tm.Fire(); !errors.Is(err, ErrShotInFlight) {
		t.Fatalf("second fire: %v", err)
	}
	if err := tm.AdvanceTurn(); !errors.Is(err, ErrShotInFlight) {
		t.Fatalf("advance while in flight: %v", err)
	}
	if tm.Stats()[0].ShotsFired != 1 {
		t.Fatalf("shots fired = %d", tm.Stats()[0].ShotsFired)
	}
}

func TestMatch_AmmoRules(t *testing.T) {
	tm := quietDuel(InBattle())
	if err := tm.Shoot("missile", 120, 50); !errors.Is(err, ErrOutOfAmmo) {
		t.Fatalf("empty missile stack fired: %v", err)
	}
	if tm.Processing() {
		t.Fatal("rejected shot left the match processing")
	}

	if err := tm.Shoot("baby-missile", 120, 50); err != nil {
		t.Fatal(err)
	}
	tk := mustTank(t, tm, 0)
	w := tk.Weapon()
	if w.ID != "baby-missile" || w.Quantity != Unlimited {
		t.Fatalf("unlimited stack changed: %+v", w)
	}
}

func TestMatch_FiniteStackDecrements(t *testing.T) {
	tm := quietDuel(InBattle(), Stock(0, "missile", 2))
	if err := tm.Shoot("missile", 120, 50); err != nil {
		t.Fatal(err)
	}
	tk := mustTank(t, tm, 0)
	if got := tk.Weapon().Quantity; got != 1 {
		t.Fatalf("missile stack = %d, want 1", got)
	}
	if p, ok := tm.Projectile(); !ok || p.Weapon.ID != "missile" || p.Owner != 0 {
		t.Fatalf("projectile = %+v ok=%v", p, ok)
	}
}

func TestMatch_UpdateTankClamps(t *testing.T) {
	tm := quietDuel()
	if err := tm.UpdateTank(0, AimUpdate(200, 5)); err != nil {
		t.Fatal(err)
	}
	tk := mustTank(t, tm, 0)
	if tk.Angle != MaxAngle || tk.Power != MinPower {
		t.Errorf("aim not clamped: %.0f/%.0f", tk.Angle, tk.Power)
	}
	if err := tm.UpdateTank(0, SelectWeapon(999)); err != nil {
		t.Fatal(err)
	}
	if got := mustTank(t, tm, 0).CurrentWeapon; got != len(tk.Weapons)-1 {
		t.Errorf("weapon index = %d", got)
	}
	power := 70.0
	if err := tm.UpdateTank(0, TankUpdate{Power: &power}); err != nil {
		t.Fatal(err)
	}
	tk = mustTank(t, tm, 0)
	if tk.Power != 70 || tk.Angle != MaxAngle {
		t.Errorf("partial update touched other fields: %.0f/%.0f", tk.Angle, tk.Power)
	}
	if err := tm.UpdateTank(0, AimUpdate(math.NaN(), math.Inf(1))); err != nil {
		t.Fatal(err)
	}
	tk = mustTank(t, tm, 0)
	if tk.Angle != MaxAngle || tk.Power != 70 {
		t.Errorf("non-finite aim was stored: %v/%v", tk.Angle, tk.Power)
	}
	if err := tm.UpdateTank(7, AimUpdate(1, 1)); !errors.Is(err, ErrUnknownTank) {
		t.Errorf("unknown tank: %v", err)
	}
}

func TestMatch_QueriesReturnCopies(t *testing.T) {
	tm := quietDuel()
	tanks := tm.Tanks()
	tanks[0].Health = -5
	tanks[0].Weapons[0].Quantity = 99
	tk := mustTank(t, tm, 0)
	if tk.Health != DefaultHealth || tk.Weapons[0].Quantity == 99 {
		t.Fatal("query result aliases match state")
	}
}

func TestMatch_TurnCycle(t *testing.T) {
	tm := quietDuel(InBattle(), Stock(0, "tracer", 1))
	if err := tm.Shoot("tracer", 120, 40); err != nil {
		t.Fatal(err)
	}
	if tm.RunUntil(func(tm *TestMatch) bool { return tm.Phase() == PhaseTurnEnd }, 2000) < 0 {
		t.Fatal("shot never settled")
	}
	if !tm.Processing() {
		t.Fatal("processing cleared before the turn advanced")
	}
	settled := tm.CurrentTick()
	at := tm.RunUntil(func(tm *TestMatch) bool { return tm.Phase() == PhaseBattle }, 200)
	if at-settled != DefaultTurnEndTicks {
		t.Errorf("turn advanced after %d ticks, want %d", at-settled, DefaultTurnEndTicks)
	}
	cur, _ := tm.CurrentTank()
	if cur.ID != 1 || tm.TurnID() != 1 || tm.Processing() {
		t.Fatalf("after advance: current=%d turn=%d processing=%v", cur.ID, tm.TurnID(), tm.Processing())
	}
	if len(tm.TracerTrail()) != 0 {
		t.Error("tracer trail should clear on turn change")
	}
}

func TestMatch_AdvanceSkipsDeadTanks(t *testing.T) {
	tm := NewTestMatch(Seeded(3), OnFlatGround(300), Calm(), TanksAt(300, 800, 1300), Humans(3), TankHealth(1, 0), InBattle())
	if err := tm.AdvanceTurn(); err != nil {
		t.Fatal(err)
	}
	cur, _ := tm.CurrentTank()
	if cur.ID != 2 {
		t.Fatalf("current = %d, want 2", cur.ID)
	}
	if err := tm.AdvanceTurn(); err != nil {
		t.Fatal(err)
	}
	if cur, _ = tm.CurrentTank(); cur.ID != 0 {
		t.Fatalf("current = %d, want wrap to 0", cur.ID)
	}
	if tm.Phase() != PhaseBattle {
		t.Fatalf("two tanks alive but phase = %s", tm.Phase())
	}
}

func TestMatch_WindDrift(t *testing.T) {
	tm := NewTestMatch(Seeded(8), OnFlatGround(300), TanksAt(400, 1200), Humans(2), InBattle())
	for i := 0; i < 20; i++ {
		before := tm.Wind()
		if err := tm.AdvanceTurn(); err != nil {
			t.Fatal(err)
		}
		if d := tm.Wind() - before; d < -windDriftSpread/2 || d > windDriftSpread/2 {
			t.Fatalf("wind drift %.3f exceeds ±%.2f", d, windDriftSpread/2)
		}
	}

	calm := quietDuel(InBattle())
	_ = calm.AdvanceTurn()
	if calm.Wind() != 0 {
		t.Fatalf("calm match has wind %.3f", calm.Wind())
	}
}

func TestMatch_GameOverLastTankStanding(t *testing.T) {
	tm := quietDuel(InBattle(), TankHealth(1, 0))
	if err := tm.AdvanceTurn(); err != nil {
		t.Fatal(err)
	}
	if tm.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s", tm.Phase())
	}
	w, ok := tm.Winner()
	if !ok || w.ID != 0 {
		t.Fatalf("winner = %+v ok=%v", w, ok)
	}
	if err := tm.Fire(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("fire after game over: %v", err)
	}
	out := DetermineMatchOutcome(tm.Match)
	if out.Outcome != OutcomeVictory || out.WinnerName != "Player 1" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestMatch_Draw(t *testing.T) {
	tm := quietDuel(InBattle(), TankHealth(0, 0), TankHealth(1, 0))
	_ = tm.AdvanceTurn()
	if _, ok := tm.Winner(); ok {
		t.Fatal("draw reported a winner")
	}
	if out := DetermineMatchOutcome(tm.Match); out.Outcome != OutcomeDraw {
		t.Fatalf("outcome = %s", out.Outcome)
	}
}

func TestMatch_ShotEndsGame(t *testing.T) {
	tm := quietDuel(InBattle(), TankHealth(1, 10), Stock(0, "missile", 1))
	me := mustTank(t, tm, 0)
	foe := mustTank(t, tm, 1)
	mx, my := me.Muzzle()
	aim, err := planFor(tm, mx, my, me.Facing, foe.X, foe.Y)
	if err != nil {
		t.Fatal(err)
	}
	if err := tm.Shoot("missile", aim.Angle, aim.Power); err != nil {
		t.Fatal(err)
	}
	if tm.RunUntil(func(tm *TestMatch) bool { return tm.Phase() == PhaseGameOver }, 3000) < 0 {
		dumpLog(t, tm)
		t.Fatal("match did not end")
	}
	dumpSummary(t, tm)
	if w, ok := tm.Winner(); !ok || w.ID != 0 {
		t.Fatalf("winner = %+v ok=%v", w, ok)
	}
}
