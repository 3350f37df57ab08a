package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// Material is a resource type found in campaign nodes.
type Material string

const (
	MaterialIron   Material = "iron"
	MaterialCopper Material = "copper"
	MaterialOil    Material = "oil"
)

// Materials lists every resource type in generation order.
var Materials = []Material{MaterialIron, MaterialCopper, MaterialOil}

// Extraction tuning, in ticks where timing is involved.
const (
	extractorDeployTicks    = 120
	extractionIntervalTicks = 60
	extractionAmount        = 5
	extractorHealth         = 25
	extractorProximity      = 50.0
	defaultExtractorSuccess = 0.2
	extractorImpactRadius   = 15.0
	extractorCrashRadius    = 20.0
	failureMessageTicks     = 120
	materialLaunchSpeed     = 4.5
	materialLaunchLift      = 0.3 // radians above the direct line to the base
	materialCollectRadius   = 30.0
	nodeBandFrac            = 0.3
	nodePlacementAttempts   = 50
	nodeCountMin            = 2
	nodeCountSpread         = 3
	msgLandingFailed        = "Extraction landing failed!"
	msgWrongMaterial        = "Wrong material type!"
)

// Campaign grid: 8 rows (A-H) by 8 columns over the visible width.
const (
	GridRows     = 8
	GridCols     = 8
	GridSegments = GridRows * GridCols
	SegmentWidth = float64(CanvasWidth) / GridSegments
)

// MaterialNode is a deposit sitting on high ground.
type MaterialNode struct {
	ID       string
	X, Y     float64
	Material Material
	Segment  int
}

// Extractor is a deployed structure mining one node.
type Extractor struct {
	ID        string
	X, Y      float64
	Material  Material
	Health    int
	MaxHealth int
	NodeID    string
	Age       int // ticks since landing
	sinceLast int
}

// DeployProgress returns how far the deployment animation has run, 0..1.
func (e Extractor) DeployProgress() float64 {
	return math.Min(1, float64(e.Age)/extractorDeployTicks)
}

// Deployed reports whether the extractor has finished deploying.
func (e Extractor) Deployed() bool { return e.Age >= extractorDeployTicks }

// Alive reports whether the extractor is still standing.
func (e Extractor) Alive() bool { return e.Health > 0 }

func (e *Extractor) takeDamage(n int) int {
	if n <= 0 || e.Health <= 0 {
		return 0
	}
	if n > e.Health {
		n = e.Health
	}
	e.Health -= n
	return n
}

func (e *Extractor) settle(t *Terrain) {
	e.Y = t.HeightAt(e.X) - tankClearance
}

// MaterialProjectile is a load of resources arcing back to the base tank.
type MaterialProjectile struct {
	Kinematics
	Material Material
	Amount   int
	Trail    []TrailPoint
}

// Inventory is the campaign stockpile.
type Inventory struct {
	Iron   int
	Copper int
	Oil    int
}

// Get returns the stock of m.
func (inv Inventory) Get(m Material) int {
	switch m {
	case MaterialIron:
		return inv.Iron
	case MaterialCopper:
		return inv.Copper
	case MaterialOil:
		return inv.Oil
	}
	return 0
}

func (inv *Inventory) add(m Material, n int) {
	switch m {
	case MaterialIron:
		inv.Iron += n
	case MaterialCopper:
		inv.Copper += n
	case MaterialOil:
		inv.Oil += n
	}
}

// GenerateMaterialNodes scatters 2-4 nodes of each material over the grid.
// Nodes sit at segment centres on the highest 30% of the terrain and never
// share a segment with a neighbour.
func GenerateMaterialNodes(t *Terrain, rng *rand.Rand) []MaterialNode {
	var nodes []MaterialNode
	threshold := t.highestBand(nodeBandFrac)
	used := make(map[int]bool)
	for _, m := range Materials {
		count := nodeCountMin + rng.Intn(nodeCountSpread)
		for i := 0; i < count; i++ {
			for attempt := 0; attempt < nodePlacementAttempts; attempt++ {
				seg := rng.Intn(GridSegments)
				right := (seg + 1) % GridSegments
				if used[seg] || used[right] {
					continue
				}
				x := (float64(seg) + 0.5) * SegmentWidth
				y := t.HeightAt(x)
				if y > threshold {
					continue
				}
				used[seg], used[right] = true, true
				nodes = append(nodes, MaterialNode{
					ID:       fmt.Sprintf("%s-%d", m, i),
					X:        x,
					Y:        y,
					Material: m,
					Segment:  seg,
				})
				break
			}
		}
	}
	return nodes
}

// GridLabel names the campaign grid segment containing x, e.g. "C4".
// Positions past the last row report row H.
func GridLabel(x float64) string {
	seg := int(math.Floor(x / SegmentWidth))
	if seg < 0 {
		seg = 0
	}
	col := seg%GridCols + 1
	row := seg / GridCols
	if row >= GridRows {
		row = GridRows - 1
	}
	return string(rune('A'+row)) + strconv.Itoa(col)
}

// GridSegmentBounds returns the x range covered by a label such as "A1".
func GridSegmentBounds(label string) (minX, maxX float64, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("grid label %q: too short", label)
	}
	row := int(label[0] - 'A')
	col, err := strconv.Atoi(label[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("grid label %q: %w", label, err)
	}
	if row < 0 || row >= GridRows || col < 1 || col > GridCols {
		return 0, 0, fmt.Errorf("grid label %q: out of range", label)
	}
	seg := row*GridCols + col - 1
	return float64(seg) * SegmentWidth, float64(seg+1) * SegmentWidth, nil
}

// launchMaterial fires a load from an extractor toward the base along a
// lofted arc.
func launchMaterial(e *Extractor, baseX, baseY float64) MaterialProjectile {
	angle := math.Atan2(baseY-e.Y, baseX-e.X)
	if baseX < e.X {
		angle += materialLaunchLift
	} else {
		angle -= materialLaunchLift
	}
	return MaterialProjectile{
		Kinematics: Kinematics{
			X:  e.X,
			Y:  e.Y - muzzleRise,
			VX: math.Cos(angle) * materialLaunchSpeed,
			VY: math.Sin(angle) * materialLaunchSpeed,
		},
		Material: e.Material,
		Amount:   extractionAmount,
	}
}

// stepMaterial advances a load by one tick. It reports collected when the
// load reaches the base, and lost when it leaves the playfield.
func stepMaterial(p *MaterialProjectile, baseX, baseY float64) (collected, lost bool) {
	p.VY += Gravity
	nx, ny := p.X+p.VX, p.Y+p.VY
	p.Trail = append(p.Trail, TrailPoint{X: p.X, Y: p.Y})
	if len(p.Trail) > materialTrailSize {
		p.Trail = p.Trail[len(p.Trail)-materialTrailSize:]
	}
	if dist(nx, ny, baseX, baseY) < materialCollectRadius {
		return true, false
	}
	if !InField(nx) || ny > CanvasHeight || ny < 0 {
		return false, true
	}
	p.X, p.Y = nx, ny
	return false, false
}

// nodeVerdict checks a landing point against the node field. It returns the
// nearest node of the wanted material within reach, and whether a node of
// another material is also within reach.
func nodeVerdict(nodes []MaterialNode, m Material, x, y float64) (match *MaterialNode, wrong bool) {
	best := extractorProximity
	for i := range nodes {
		n := &nodes[i]
		d := dist(n.X, n.Y, x, y)
		if d >= extractorProximity {
			continue
		}
		if n.Material != m {
			wrong = true
			continue
		}
		if d < best {
			best = d
			match = n
		}
	}
	return match, wrong
}

// landExtractor resolves an extractor shell. Every landing shows a small
// blast; only a share of them deploy, and only on a deposit of the right
// material with no other material within reach.
func (m *Match) landExtractor(p *Projectile, b Extracting, r StepResult) {
	p.Active = false
	m.explosions = append(m.explosions, newExplosion(r.HitX, r.HitY, extractorImpactRadius))
	label := fmt.Sprintf("T%d", p.Owner)
	if m.rng.Float64() >= b.SuccessRate {
		m.crashExtractor(r.HitX, r.HitY, msgLandingFailed)
		m.log(label, "extract", "landing_failed", string(b.Material), r.HitX)
		return
	}
	node, wrong := nodeVerdict(m.nodes, b.Material, r.HitX, r.HitY)
	if node == nil || wrong {
		msg := msgLandingFailed
		if wrong {
			msg = msgWrongMaterial
		}
		m.explosions = append(m.explosions, newExplosion(r.HitX, r.HitY, extractorCrashRadius))
		m.crashExtractor(r.HitX, r.HitY, msg)
		m.log(label, "extract", "rejected", msg, r.HitX)
		return
	}
	m.extractorSeq++
	e := Extractor{
		ID:        fmt.Sprintf("extractor-%d", m.extractorSeq),
		X:         r.HitX,
		Material:  b.Material,
		Health:    extractorHealth,
		MaxHealth: extractorHealth,
		NodeID:    node.ID,
	}
	e.settle(m.terrain)
	m.extractors = append(m.extractors, e)
	m.log(label, "extract", "deployed", fmt.Sprintf("%s on %s at %s", e.ID, node.ID, GridLabel(e.X)), e.X)
	m.logger.Info("extractor deployed", "id", e.ID, "node", node.ID, "material", b.Material)
}

// crashExtractor scatters inert debris and raises the failure notice.
func (m *Match) crashExtractor(x, y float64, msg string) {
	for i := 0; i < debrisCount; i++ {
		m.particles = append(m.particles, BurningParticle{
			X:       ClampWorldX(x + (m.rng.Float64()-0.5)*debrisJitter),
			Y:       y,
			Life:    debrisLifeMin + m.rng.Float64()*debrisLifeSpread,
			MaxLife: debrisLifeMin + debrisLifeSpread,
			Owner:   -1,
			Debris:  true,
		})
	}
	m.failureMsg = msg
	m.failureTicks = failureMessageTicks
}

// updateExtraction runs deployed extractors and flies their loads home to
// the base tank.
func (m *Match) updateExtraction() {
	base := m.tankByID(0)
	if base == nil {
		m.materialShots = nil
		return
	}
	for i := range m.extractors {
		e := &m.extractors[i]
		e.Age++
		if !e.Deployed() || !e.Alive() || !m.hasNode(e.NodeID) {
			continue
		}
		e.sinceLast++
		if e.sinceLast < extractionIntervalTicks {
			continue
		}
		e.sinceLast = 0
		m.materialShots = append(m.materialShots, launchMaterial(e, base.X, base.Y))
		m.simLog.AddVerbose(m.tick, "--", "extract", "launch", e.ID, float64(extractionAmount))
	}

	if len(m.materialShots) == 0 {
		return
	}
	live := m.materialShots[:0]
	for _, mp := range m.materialShots {
		collected, lost := stepMaterial(&mp, base.X, base.Y)
		switch {
		case collected:
			m.inventory.add(mp.Material, mp.Amount)
			m.log(base.Label(), "extract", "collected", fmt.Sprintf("+%d %s", mp.Amount, mp.Material), float64(m.inventory.Get(mp.Material)))
		case lost:
			m.log("--", "extract", "lost", string(mp.Material), mp.X)
		default:
			live = append(live, mp)
		}
	}
	m.materialShots = live
}

func (m *Match) hasNode(id string) bool {
	if id == "" {
		return false
	}
	for _, n := range m.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// SuggestExtractorShot plans a shot from the current tank onto a material
// node. The angle window is restricted to trajectories heading toward the
// node, and the objective is straight-line distance to the node.
func (m *Match) SuggestExtractorShot(ctx context.Context, nodeID string) (Aim, error) {
	var node *MaterialNode
	for i := range m.nodes {
		if m.nodes[i].ID == nodeID {
			node = &m.nodes[i]
			break
		}
	}
	if node == nil {
		return Aim{}, ErrUnknownNode
	}
	t := m.currentTank()
	if t == nil {
		return Aim{}, ErrUnknownTank
	}
	mx, my := t.Muzzle()
	return PlanShot(ctx, ShotRequest{
		Terrain: m.terrain,
		Wind:    m.wind,
		StartX:  mx,
		StartY:  my,
		Facing:  t.Facing,
		TargetX: node.X,
		TargetY: node.Y,
		Point:   true,
		Window:  WindowToward(t.Facing, t.X, node.X),
	})
}
