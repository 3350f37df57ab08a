package sim

import (
	"fmt"
	"math"
)

// moneyPerDamage is the credit an attacker earns per point dealt to another tank.
const moneyPerDamage = 5

// Falloff returns the damage dealt at distance d from a blast of the given
// radius: floor(damage * (1 - d/radius)) inside the radius, zero outside.
func Falloff(damage, radius, d float64) int {
	if radius <= 0 || d >= radius {
		return 0
	}
	return int(math.Floor(damage * (1 - d/radius)))
}

// applyDamage hits every tank and extractor strictly inside radius of
// (x, y). The attacker is credited for damage dealt to other tanks.
func (m *Match) applyDamage(x, y, radius, damage float64, attacker int) {
	if radius <= 0 || damage <= 0 {
		return
	}
	credit := 0
	for _, t := range m.tanks {
		d := dist(t.X, t.Y, x, y)
		dealt := t.takeDamage(Falloff(damage, radius, d))
		if dealt == 0 {
			continue
		}
		m.log(t.Label(), "damage", "hit", fmt.Sprintf("-%d hp (now %d) from T%d at d=%.1f", dealt, t.Health, attacker, d), float64(dealt))
		if st := m.stat(t.ID); st != nil {
			st.DamageTaken += dealt
		}
		foreign := t.ID != attacker
		if foreign {
			credit += dealt * moneyPerDamage
			if st := m.stat(attacker); st != nil {
				st.DamageDealt += dealt
			}
		}
		if !t.Alive() {
			if st := m.stat(attacker); st != nil && foreign {
				st.Kills++
			}
			m.log(t.Label(), "damage", "destroyed", "tank destroyed", 0)
			m.logger.Info("tank destroyed", "tank", t.Name, "attacker", attacker)
		}
	}
	for i := range m.extractors {
		e := &m.extractors[i]
		dealt := e.takeDamage(Falloff(damage, radius, dist(e.X, e.Y, x, y)))
		if dealt > 0 {
			m.log("--", "damage", "extractor_hit", fmt.Sprintf("%s -%d hp (now %d)", e.ID, dealt, e.Health), float64(dealt))
		}
	}
	if credit > 0 {
		if a := m.tankByID(attacker); a != nil {
			a.Money += credit
			m.log(a.Label(), "damage", "credit", fmt.Sprintf("+%d money", credit), float64(credit))
		}
	}
}

// deformCrater craters the terrain and re-seats everything standing on it.
func (m *Match) deformCrater(x, radius float64) {
	if radius <= 0 {
		return
	}
	before := m.restingHeights()
	m.terrain.DeformCrater(x, radius)
	m.log("--", "terrain", "crater", fmt.Sprintf("x=%.1f r=%.1f", x, radius), radius)
	m.settleEntities(before)
}

// digShaft carves a shaft and re-seats everything standing on it.
func (m *Match) digShaft(x, depth, width float64) {
	if depth <= 0 || width <= 0 {
		return
	}
	before := m.restingHeights()
	m.terrain.DigShaft(x, depth, width)
	m.log("--", "terrain", "shaft", fmt.Sprintf("x=%.1f depth=%.1f width=%.1f", x, depth, width), depth)
	m.settleEntities(before)
}

func (m *Match) restingHeights() []float64 {
	ys := make([]float64, len(m.tanks))
	for i, t := range m.tanks {
		ys[i] = t.Y
	}
	return ys
}

// settleEntities re-seats tanks and extractors after a terrain mutation and
// applies the burial penalty to any living tank whose column now sits more
// than buriedThreshold below its previous hull position.
func (m *Match) settleEntities(before []float64) {
	for i, t := range m.tanks {
		if t.Alive() && m.terrain.HeightAt(t.X) > before[i]+buriedThreshold {
			lost := t.takeDamage(burialPenalty)
			if st := m.stat(t.ID); st != nil {
				st.DamageTaken += lost
				st.Burials++
			}
			m.log(t.Label(), "burial", "buried", fmt.Sprintf("-%d hp (now %d)", lost, t.Health), float64(lost))
		}
		t.settle(m.terrain)
	}
	for i := range m.extractors {
		m.extractors[i].settle(m.terrain)
	}
}
