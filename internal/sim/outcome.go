package sim

type MatchOutcome int

const (
	OutcomeInconclusive MatchOutcome = iota
	OutcomeVictory
	OutcomeDraw
	OutcomeDefeat // campaign base destroyed
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type MatchOutcomeReason struct {
	Outcome     MatchOutcome
	Winner      int // tank id, -1 when nobody won
	WinnerName  string
	Survivors   int
	Total       int
	Turns       int
	Description string
}

// DetermineMatchOutcome classifies a match from its current state. A match
// that has not reached game over is inconclusive, however lopsided.
func DetermineMatchOutcome(m *Match) MatchOutcomeReason {
	r := MatchOutcomeReason{Winner: -1, Total: len(m.tanks), Turns: m.turnID}
	for _, t := range m.tanks {
		if t.Alive() {
			r.Survivors++
		}
	}
	switch {
	case m.phase != PhaseGameOver:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_match_running"
		if m.cfg.Mode == ModeCampaign {
			r.Description = "inconclusive_campaign_running"
		}
	case m.winner >= 0:
		r.Outcome = OutcomeVictory
		r.Winner = m.winner
		if t := m.tankByID(m.winner); t != nil {
			r.WinnerName = t.Name
		}
		r.Description = "victory_last_tank_standing"
		if st := m.stat(m.winner); st != nil && st.DamageTaken == 0 {
			r.Description = "flawless_victory"
		}
	case m.cfg.Mode == ModeCampaign:
		r.Outcome = OutcomeDefeat
		r.Description = "base_destroyed"
	default:
		r.Outcome = OutcomeDraw
		r.Description = "mutual_destruction"
	}
	return r
}
