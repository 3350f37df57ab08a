package sim

import (
	"context"
	"math"
	"testing"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, tm *TestMatch) {
	t.Helper()
	if tm.Log.Len() == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range tm.Log.Entries() {
		t.Log(e.String())
	}
}

// dumpSummary prints the per-tank status block.
func dumpSummary(t *testing.T, tm *TestMatch) {
	t.Helper()
	t.Log(tm.Log.Summary(tm.CurrentTick(), tm.Tanks()))
}

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func mustTank(t *testing.T, tm *TestMatch, id int) Tank {
	t.Helper()
	tk, ok := tm.Tank(id)
	if !ok {
		t.Fatalf("tank %d missing", id)
	}
	return tk
}

// planFor asks the planner for a shot toward (tx, ty) on the live terrain.
func planFor(tm *TestMatch, sx, sy, facing, tx, ty float64) (Aim, error) {
	return PlanShot(context.Background(), ShotRequest{
		Terrain: tm.Terrain(),
		Wind:    tm.Wind(),
		StartX:  sx,
		StartY:  sy,
		Facing:  facing,
		TargetX: tx,
		TargetY: ty,
		Window:  WindowToward(facing, sx, tx),
	})
}
