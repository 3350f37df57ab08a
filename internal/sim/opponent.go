package sim

import (
	"context"
	"fmt"
)

// planResult carries a finished plan back to the tick loop.
type planResult struct {
	aim Aim
	err error
}

// opponent is the built-in player's in-flight planning job. The plan runs
// on its own goroutine against a terrain snapshot; everything else,
// including every random draw, happens on the tick loop.
type opponent struct {
	cancel  context.CancelFunc
	results chan planResult
	window  AngleWindow
}

// stop abandons any planning in progress.
func (o *opponent) stop() {
	if o.cancel != nil {
		o.cancel()
	}
	*o = opponent{}
}

// beginOpponentTurn starts planning for t and schedules the aiming step
// after the thinking delay.
func (m *Match) beginOpponentTurn(t *Tank) {
	target := m.pickTarget(t)
	if target == nil {
		return
	}
	m.opp.stop()
	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan planResult, 1)
	mx, my := t.Muzzle()
	req := ShotRequest{
		Terrain: m.terrain.Snapshot(),
		Wind:    m.wind,
		StartX:  mx,
		StartY:  my,
		Facing:  t.Facing,
		TargetX: target.X,
		TargetY: target.Y,
		Window:  FullWindow,
	}
	m.opp = opponent{cancel: cancel, results: results, window: req.Window}
	go func() {
		aim, err := PlanShot(ctx, req)
		results <- planResult{aim: aim, err: err}
	}()

	m.log(t.Label(), "ai", "thinking", fmt.Sprintf("target=%s at x=%.1f", target.Label(), target.X), target.X)
	m.sched.After(m.tick, m.cfg.ThinkTicks, m.token(), taskOpponentAim, m.opponentAim)
}

// opponentAim picks one of the perfect aim and its four miss variants,
// applies it and schedules the shot. A plan that is not ready yet is polled
// again next tick.
func (m *Match) opponentAim() {
	t := m.currentTank()
	if t == nil || m.opp.results == nil {
		return
	}
	var res planResult
	select {
	case res = <-m.opp.results:
	default:
		m.sched.After(m.tick, 1, m.token(), taskOpponentAim, m.opponentAim)
		return
	}
	window := m.opp.window
	m.opp.stop()

	pick := Aim{Angle: t.Angle, Power: t.Power}
	if res.err != nil {
		m.log(t.Label(), "ai", "plan_failed", res.err.Error(), 0)
		m.logger.Warn("opponent planning failed", "tank", t.Name, "err", res.err)
	} else {
		variants := MissVariants(res.aim, window, m.rng)
		options := append([]Aim{res.aim}, variants[:]...)
		choice := m.rng.Intn(len(options))
		pick = options[choice]
		m.log(t.Label(), "ai", "aim", fmt.Sprintf("perfect=%.0f/%.0f chose #%d %.1f/%.1f",
			res.aim.Angle, res.aim.Power, choice, pick.Angle, pick.Power), float64(choice))
	}

	u := AimUpdate(pick.Angle, pick.Power)
	if w := t.Weapon(); w == nil || !w.CanFire() {
		if i := firstFireable(t.Weapons); i >= 0 {
			u.CurrentWeapon = &i
		}
	}
	_ = m.UpdateTank(t.ID, u)
	m.sched.After(m.tick, m.cfg.FireTicks, m.token(), taskOpponentFire, m.opponentFire)
}

func (m *Match) opponentFire() {
	if err := m.Fire(); err != nil {
		m.log("--", "ai", "fire_rejected", err.Error(), 0)
		m.logger.Warn("opponent fire rejected", "err", err)
	}
}

// pickTarget returns the nearest living tank other than t.
func (m *Match) pickTarget(t *Tank) *Tank {
	var best *Tank
	bestD := 0.0
	for _, o := range m.tanks {
		if o.ID == t.ID || !o.Alive() {
			continue
		}
		d := o.X - t.X
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestD {
			best, bestD = o, d
		}
	}
	return best
}

func firstFireable(ws []Weapon) int {
	for i, w := range ws {
		if w.CanFire() {
			return i
		}
	}
	return -1
}
