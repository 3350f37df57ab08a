package sim

import (
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// TankState is the wire view of a tank.
type TankState struct {
	ID     int     `msgpack:"id"`
	Name   string  `msgpack:"n"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Angle  float64 `msgpack:"a"`
	Power  float64 `msgpack:"p"`
	Health int     `msgpack:"hp"`
	Money  int     `msgpack:"m"`
	Weapon string  `msgpack:"w"`
	IsAI   bool    `msgpack:"ai"`
}

// ShellState is the wire view of a projectile.
type ShellState struct {
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Kind string  `msgpack:"k"`
	Sub  bool    `msgpack:"s,omitempty"`
}

// BlastState is the wire view of an explosion.
type BlastState struct {
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Radius float64 `msgpack:"r"`
	Frame  int     `msgpack:"f"`
}

// MatchSnapshot is a point-in-time view of a match for exporting. It is a
// report format, not a save game: nothing reads it back into a Match.
type MatchSnapshot struct {
	Session   string       `msgpack:"sid"`
	Tick      int          `msgpack:"t"`
	Turn      int          `msgpack:"turn"`
	Phase     string       `msgpack:"ph"`
	Wind      float64      `msgpack:"wind"`
	Current   int          `msgpack:"cur"`
	Winner    int          `msgpack:"win"`
	Terrain   []float32    `msgpack:"ter"`
	Tanks     []TankState  `msgpack:"tanks"`
	Shells    []ShellState `msgpack:"shells,omitempty"`
	Blasts    []BlastState `msgpack:"blasts,omitempty"`
	Particles int          `msgpack:"np"`
	Inventory [3]int       `msgpack:"inv,omitempty"`
}

// Snapshot captures the current state.
func (m *Match) Snapshot() MatchSnapshot {
	s := MatchSnapshot{
		Session:   m.session,
		Tick:      m.tick,
		Turn:      m.turnID,
		Phase:     m.phase.String(),
		Wind:      round2(m.wind),
		Current:   m.current,
		Winner:    -1,
		Particles: len(m.particles),
		Inventory: [3]int{m.inventory.Iron, m.inventory.Copper, m.inventory.Oil},
	}
	if m.phase == PhaseGameOver {
		s.Winner = m.winner
	}
	if m.terrain != nil {
		s.Terrain = make([]float32, len(m.terrain.heights))
		for i, h := range m.terrain.heights {
			s.Terrain[i] = float32(h)
		}
	}
	for _, t := range m.tanks {
		ts := TankState{
			ID: t.ID, Name: t.Name, X: round2(t.X), Y: round2(t.Y),
			Angle: t.Angle, Power: t.Power, Health: t.Health, Money: t.Money, IsAI: t.IsAI,
		}
		if w := t.Weapon(); w != nil {
			ts.Weapon = w.ID
		}
		s.Tanks = append(s.Tanks, ts)
	}
	if p, ok := m.Projectile(); ok {
		s.Shells = append(s.Shells, ShellState{X: round2(p.X), Y: round2(p.Y), Kind: string(p.Weapon.kind())})
	}
	for _, p := range m.subs {
		s.Shells = append(s.Shells, ShellState{X: round2(p.X), Y: round2(p.Y), Kind: string(p.Weapon.kind()), Sub: true})
	}
	for _, e := range m.explosions {
		s.Blasts = append(s.Blasts, BlastState{X: round2(e.X), Y: round2(e.Y), Radius: e.Radius, Frame: e.Frame})
	}
	return s
}

// Encode serialises the snapshot with msgpack.
func (s *MatchSnapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot produced by Encode.
func DecodeSnapshot(data []byte) (MatchSnapshot, error) {
	var s MatchSnapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return MatchSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
