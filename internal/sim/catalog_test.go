package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat) != 21 {
		t.Fatalf("catalog has %d weapons, want 21", len(cat))
	}
	seen := map[string]bool{}
	for _, w := range cat {
		if seen[w.ID] {
			t.Errorf("duplicate id %s", w.ID)
		}
		seen[w.ID] = true
		if w.Behavior == nil {
			t.Errorf("%s has no behaviour", w.ID)
		}
	}
	if !cat[0].IsUnlimited() || cat[0].Price != 0 {
		t.Error("the free starter weapon should lead the catalog")
	}
	for _, w := range cat[1:] {
		if w.Quantity != 0 {
			t.Errorf("%s starts with %d rounds", w.ID, w.Quantity)
		}
	}
	// Fresh copies are independent.
	cat[0].Quantity = 3
	if DefaultCatalog()[0].Quantity != Unlimited {
		t.Fatal("DefaultCatalog shares storage between calls")
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`[
		{"id": "pebble", "name": "Pebble", "damage": 5, "radius": 8, "price": 0, "quantity": -1, "category": "basic"},
		{"id": "hopper", "name": "Hopper", "damage": 20, "radius": 25, "price": 90, "category": "special",
		 "behavior": {"kind": "bouncing", "bounces": 2}},
		{"id": "drill", "name": "Drill", "damage": 5, "radius": 10, "price": 40, "category": "digger",
		 "behavior": {"kind": "digging", "depth": 30}},
		{"id": "probe", "name": "Probe", "radius": 15, "category": "extractor",
		 "behavior": {"kind": "extracting", "material": "oil"}}
	]`)
	ws, err := ParseCatalog(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 4 {
		t.Fatalf("parsed %d weapons", len(ws))
	}
	if _, ok := ws[0].Behavior.(Standard); !ok || !ws[0].IsUnlimited() {
		t.Errorf("pebble = %+v", ws[0])
	}
	if b, ok := ws[1].Behavior.(Bouncing); !ok || b.Bounces != 2 {
		t.Errorf("hopper behaviour = %#v", ws[1].Behavior)
	}
	if b, ok := ws[2].Behavior.(Digging); !ok || b.Depth != 30 {
		t.Errorf("drill behaviour = %#v", ws[2].Behavior)
	}
	if b, ok := ws[3].Behavior.(Extracting); !ok || b.Material != MaterialOil || b.SuccessRate != defaultExtractorSuccess {
		t.Errorf("probe behaviour = %#v", ws[3].Behavior)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{`,
		"missing id":   `[{"name": "x"}]`,
		"duplicate":    `[{"id": "a"}, {"id": "a"}]`,
		"unknown kind": `[{"id": "a", "behavior": {"kind": "teleport"}}]`,
		"empty split":  `[{"id": "a", "behavior": {"kind": "splitting"}}]`,
		"still roller": `[{"id": "a", "behavior": {"kind": "rolling"}}]`,
		"strange ore":  `[{"id": "a", "behavior": {"kind": "extracting", "material": "gold"}}]`,
	}
	for name, data := range cases {
		if _, err := ParseCatalog([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weapons.json")
	if err := os.WriteFile(path, []byte(`[{"id": "missile", "name": "Big Missile", "damage": 60, "radius": 40, "price": 80}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	ws, err := LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	merged := MergeCatalog(DefaultCatalog(), ws)
	if len(merged) != 21 {
		t.Fatalf("override should replace, not append: %d weapons", len(merged))
	}
	if i := findWeapon(merged, "missile"); merged[i].Damage != 60 {
		t.Errorf("override not applied: %+v", merged[i])
	}

	if _, err := LoadCatalog(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "read") {
		t.Fatalf("missing file: %v", err)
	}
}
