package sim

import (
	"encoding/json"
	"fmt"
	"os"
)

// weaponDef is the on-disk form of a catalog entry.
type weaponDef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Damage      float64     `json:"damage"`
	Radius      float64     `json:"radius"`
	Price       int         `json:"price"`
	Quantity    int         `json:"quantity"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Behavior    behaviorDef `json:"behavior"`
}

type behaviorDef struct {
	Kind         string   `json:"kind"`
	Bounces      int      `json:"bounces,omitempty"`
	Count        int      `json:"count,omitempty"`
	Speed        float64  `json:"speed,omitempty"`
	BurnDuration int      `json:"burn_duration,omitempty"`
	Depth        float64  `json:"depth,omitempty"`
	Material     Material `json:"material,omitempty"`
	SuccessRate  float64  `json:"success_rate,omitempty"`
}

func (b behaviorDef) behavior() (Behavior, error) {
	switch BehaviorKind(b.Kind) {
	case KindStandard, "":
		return Standard{}, nil
	case KindBouncing:
		return Bouncing{Bounces: b.Bounces}, nil
	case KindSplitting:
		if b.Count <= 0 {
			return nil, fmt.Errorf("splitting behaviour needs a positive count")
		}
		return Splitting{Count: b.Count}, nil
	case KindRolling:
		if b.Speed <= 0 {
			return nil, fmt.Errorf("rolling behaviour needs a positive speed")
		}
		return Rolling{Speed: b.Speed}, nil
	case KindTracer:
		return Tracer{}, nil
	case KindNapalm:
		return Napalm{BurnDuration: b.BurnDuration}, nil
	case KindDigging:
		return Digging{Depth: b.Depth}, nil
	case KindExtracting:
		switch b.Material {
		case MaterialIron, MaterialCopper, MaterialOil:
		default:
			return nil, fmt.Errorf("extracting behaviour has unknown material %q", b.Material)
		}
		rate := b.SuccessRate
		if rate == 0 {
			rate = defaultExtractorSuccess
		}
		return Extracting{Material: b.Material, SuccessRate: rate}, nil
	}
	return nil, fmt.Errorf("unknown behaviour kind %q", b.Kind)
}

// ParseCatalog decodes a JSON array of weapon definitions.
func ParseCatalog(data []byte) ([]Weapon, error) {
	var defs []weaponDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weapon definitions: %w", err)
	}
	out := make([]Weapon, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("weapon definition without id")
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate weapon id %q", d.ID)
		}
		seen[d.ID] = true
		b, err := d.Behavior.behavior()
		if err != nil {
			return nil, fmt.Errorf("weapon %q: %w", d.ID, err)
		}
		out = append(out, Weapon{
			ID:          d.ID,
			Name:        d.Name,
			Damage:      d.Damage,
			Radius:      d.Radius,
			Price:       d.Price,
			Quantity:    d.Quantity,
			Category:    Category(d.Category),
			Description: d.Description,
			Behavior:    b,
		})
	}
	return out, nil
}

// LoadCatalog reads weapon definitions from a JSON file.
func LoadCatalog(path string) ([]Weapon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weapon definitions file: %w", err)
	}
	return ParseCatalog(data)
}

// MergeCatalog replaces entries of base that share an id with an override
// and appends the remaining overrides. base is not modified.
func MergeCatalog(base, overrides []Weapon) []Weapon {
	out := make([]Weapon, len(base))
	copy(out, base)
	for _, w := range overrides {
		if i := findWeapon(out, w.ID); i >= 0 {
			out[i] = w
			continue
		}
		out = append(out, w)
	}
	return out
}
