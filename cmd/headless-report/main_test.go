package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/Garsondee/Scorch/internal/sim"
)

func entry(tick int, tank, category, key, value string) sim.SimLogEntry {
	return sim.SimLogEntry{Tick: tick, Tank: tank, Category: category, Key: key, Value: value}
}

func TestCountHitShots(t *testing.T) {
	entries := []sim.SimLogEntry{
		entry(10, "T0", "shot", "fired", "missile"),
		entry(90, "T1", "damage", "hit", "-20 hp (now 30)"),
		entry(91, "T1", "damage", "hit", "-5 hp (now 25)"),
		entry(200, "T1", "shot", "fired", "baby-missile"),
		entry(300, "--", "terrain", "crater", "x=10"),
		entry(400, "T0", "shot", "fired", "baby-missile"),
		entry(480, "T1", "damage", "hit", "-15 hp (now 10)"),
	}
	if got := countHitShots(entries); got != 2 {
		t.Fatalf("hit shots = %d, want 2", got)
	}
	if got := firstTick(entries, "damage", "hit", "now 10"); got != 480 {
		t.Errorf("firstTick = %d", got)
	}
	if got := firstTick(entries, "burial", "", ""); got != -1 {
		t.Errorf("missing marker = %d", got)
	}
}

func TestDetectStalemate_TrueWhenNobodyLandsHits(t *testing.T) {
	rs := runStats{tanksTotal: 2, survivors: 2, shots: 40, hits: 3}
	stale, reason := detectStalemate(rs)
	if !stale {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "no_casualties") || !strings.Contains(reason, "low_hit_rate") {
		t.Fatalf("reason = %s", reason)
	}
}

func TestDetectStalemate_FalseWhenFinished(t *testing.T) {
	rs := runStats{finished: true, tanksTotal: 2, survivors: 1, shots: 40, hits: 3}
	if stale, reason := detectStalemate(rs); stale {
		t.Fatalf("finished match flagged (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenAttritionSteady(t *testing.T) {
	rs := runStats{tanksTotal: 3, survivors: 2, shots: 12, hits: 8, burials: 1}
	if stale, reason := detectStalemate(rs); stale {
		t.Fatalf("steady attrition flagged (reason=%s)", reason)
	}
}

func TestFormatCounts(t *testing.T) {
	if got := formatCounts(map[string]int{"victory": 3, "draw": 1}); got != "draw=1 victory=3" {
		t.Errorf("formatCounts = %q", got)
	}
	if got := formatCounts(nil); got != "none" {
		t.Errorf("empty = %q", got)
	}
}

func TestRunDuel_DumpsFinalSnapshot(t *testing.T) {
	cfg := config{tanks: 2, maxTicks: 300}
	var buf bytes.Buffer
	rs, err := runDuel(1, 7, cfg, sim.DefaultCatalog(), newLogger(io.Discard, "error"), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if rs.ticks != 300 || rs.finished {
		t.Fatalf("ticks=%d finished=%v", rs.ticks, rs.finished)
	}
	if n := strings.Count(rs.tail, "\n"); n == 0 || n > unfinishedTailLines {
		t.Errorf("unfinished run tail has %d lines", n)
	}
	if rs.tanksTotal != 2 {
		t.Errorf("tanks = %d", rs.tanksTotal)
	}
	snap, err := sim.DecodeSnapshot(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Tick != 300 || snap.Session != rs.report.Session || len(snap.Tanks) != 2 {
		t.Errorf("snapshot header = %d/%s/%d", snap.Tick, snap.Session, len(snap.Tanks))
	}
}

func TestLoadCatalog_DefaultWithoutFile(t *testing.T) {
	ws, err := loadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != len(sim.DefaultCatalog()) {
		t.Fatalf("catalog = %d weapons", len(ws))
	}
	if _, err := loadCatalog("does-not-exist.json"); err == nil {
		t.Fatal("missing weapons file accepted")
	}
}
