package sim

import (
	"reflect"
	"testing"
)

func TestScheduler_RunsDueTasksInOrder(t *testing.T) {
	var s Scheduler
	tok := taskToken{session: "a", turn: 1}
	var order []string
	s.After(0, 2, tok, "second", func() { order = append(order, "second") })
	s.After(0, 1, tok, "first", func() { order = append(order, "first") })
	s.After(0, 5, tok, "later", func() { order = append(order, "later") })

	current := func() taskToken { return tok }
	ran, dropped := s.Run(2, current)

	if !reflect.DeepEqual(order, []string{"second", "first"}) {
		t.Fatalf("run order = %v", order)
	}
	if len(ran) != 2 || len(dropped) != 0 {
		t.Fatalf("ran=%v dropped=%v", ran, dropped)
	}
	if s.Len() != 1 || !s.Pending("later", tok) {
		t.Fatal("future task should stay queued")
	}
}

func TestScheduler_DropsStaleTokens(t *testing.T) {
	var s Scheduler
	old := taskToken{session: "a", turn: 1}
	now := taskToken{session: "a", turn: 2}
	fired := false
	s.After(0, 0, old, "stale", func() { fired = true })

	_, dropped := s.Run(10, func() taskToken { return now })

	if fired {
		t.Fatal("stale task ran")
	}
	if !reflect.DeepEqual(dropped, []string{"stale"}) {
		t.Fatalf("dropped = %v", dropped)
	}
	if s.Len() != 0 {
		t.Fatal("stale task kept")
	}
}

func TestScheduler_SessionChangeInvalidates(t *testing.T) {
	var s Scheduler
	s.After(0, 0, taskToken{session: "old", turn: 3}, "x", func() { t.Fatal("ran across sessions") })
	s.Run(1, func() taskToken { return taskToken{session: "new", turn: 3} })
}

func TestScheduler_TurnChangeMidRun(t *testing.T) {
	var s Scheduler
	tok := taskToken{session: "a", turn: 1}
	cur := tok
	secondRan := false
	s.After(0, 0, tok, "advance", func() { cur.turn++ })
	s.After(0, 0, tok, "follow", func() { secondRan = true })

	ran, dropped := s.Run(1, func() taskToken { return cur })

	if secondRan {
		t.Fatal("task behind a turn change should be stale")
	}
	if !reflect.DeepEqual(ran, []string{"advance"}) || !reflect.DeepEqual(dropped, []string{"follow"}) {
		t.Fatalf("ran=%v dropped=%v", ran, dropped)
	}
}

func TestScheduler_TasksQueuedDuringRunWait(t *testing.T) {
	var s Scheduler
	tok := taskToken{session: "a"}
	count := 0
	var requeue func()
	requeue = func() {
		count++
		s.After(1, 0, tok, "poll", requeue)
	}
	s.After(0, 0, tok, "poll", requeue)

	s.Run(1, func() taskToken { return tok })
	if count != 1 {
		t.Fatalf("requeued task ran in the same pass: count=%d", count)
	}
	s.Run(2, func() taskToken { return tok })
	if count != 2 {
		t.Fatalf("requeued task did not run on the next pass: count=%d", count)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatal("Clear left tasks")
	}
}
