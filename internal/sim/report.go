package sim

import (
	"fmt"
	"strings"
)

// TankStats accumulates per-tank combat figures over a match.
type TankStats struct {
	ShotsFired  int
	DamageDealt int
	DamageTaken int
	Kills       int
	Burials     int
}

// TankReport is one tank's line in a MatchReport.
type TankReport struct {
	Label  string
	Name   string
	IsAI   bool
	Health int
	Money  int
	Stats  TankStats

	LastEvent string // newest log line for the tank, if any
}

// MatchReport is a printable summary of a match.
type MatchReport struct {
	Session string
	Mode    Mode
	Ticks   int
	Turns   int
	Wind    float64
	Phase   Phase
	Outcome MatchOutcomeReason
	Tanks   []TankReport

	Impacts   map[BehaviorKind]int
	Inventory Inventory
}

// Stats returns a copy of the per-tank figures, indexed by tank id.
func (m *Match) Stats() []TankStats { return append([]TankStats(nil), m.stats...) }

// Report collects a MatchReport from the current state.
func (m *Match) Report() MatchReport {
	r := MatchReport{
		Session:   m.session,
		Mode:      m.cfg.Mode,
		Ticks:     m.tick,
		Turns:     m.turnID,
		Wind:      m.wind,
		Phase:     m.phase,
		Outcome:   DetermineMatchOutcome(m),
		Impacts:   make(map[BehaviorKind]int),
		Inventory: m.inventory,
	}
	for _, t := range m.tanks {
		tr := TankReport{
			Label:  t.Label(),
			Name:   t.Name,
			IsAI:   t.IsAI,
			Health: t.Health,
			Money:  t.Money,
		}
		if st := m.stat(t.ID); st != nil {
			tr.Stats = *st
		}
		if evs := m.simLog.ForTank(tr.Label); len(evs) > 0 {
			tr.LastEvent = evs[len(evs)-1].String()
		}
		r.Tanks = append(r.Tanks, tr)
	}
	for _, e := range m.simLog.Filter("impact", "") {
		r.Impacts[BehaviorKind(e.Key)]++
	}
	return r
}

// Format returns a human-readable multi-line report.
func (r MatchReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Report (%s, session %s) ===\n", r.Mode, r.Session)
	fmt.Fprintf(&sb, "phase=%s ticks=%d turns=%d wind=%+.3f\n", r.Phase, r.Ticks, r.Turns, r.Wind)
	fmt.Fprintf(&sb, "outcome=%s (%s)", r.Outcome.Outcome, r.Outcome.Description)
	if r.Outcome.Winner >= 0 {
		fmt.Fprintf(&sb, " winner=%s", r.Outcome.WinnerName)
	}
	sb.WriteByte('\n')

	sb.WriteString("\n--- Tanks ---\n")
	for _, t := range r.Tanks {
		ctl := "human"
		if t.IsAI {
			ctl = "cpu"
		}
		fmt.Fprintf(&sb, "  %-3s %-8s %-5s hp=%3d money=%5d shots=%2d dealt=%3d taken=%3d kills=%d buried=%d\n",
			t.Label, t.Name, ctl, t.Health, t.Money,
			t.Stats.ShotsFired, t.Stats.DamageDealt, t.Stats.DamageTaken, t.Stats.Kills, t.Stats.Burials)
		if t.LastEvent != "" {
			fmt.Fprintf(&sb, "      last %s\n", t.LastEvent)
		}
	}

	if len(r.Impacts) > 0 {
		sb.WriteString("\n--- Impacts ---\n")
		kinds := []BehaviorKind{KindStandard, KindBouncing, KindSplitting, KindRolling, KindTracer, KindNapalm, KindDigging, KindExtracting}
		for _, k := range kinds {
			if n := r.Impacts[k]; n > 0 {
				fmt.Fprintf(&sb, "  %-10s %d\n", k, n)
			}
		}
	}

	if r.Mode == ModeCampaign {
		sb.WriteString("\n--- Inventory ---\n")
		fmt.Fprintf(&sb, "  iron=%d copper=%d oil=%d\n", r.Inventory.Iron, r.Inventory.Copper, r.Inventory.Oil)
	}
	return sb.String()
}
