package sim

// taskToken ties a deferred task to the session and turn that scheduled it.
// A task whose token no longer matches the match state is stale and is
// dropped instead of run.
type taskToken struct {
	session string
	turn    int
}

type deferredTask struct {
	due   int
	token taskToken
	name  string
	fn    func()
}

// Scheduler runs deferred work on the tick loop. It replaces wall-clock
// timers: every delay is counted in ticks and every task carries a token.
type Scheduler struct {
	tasks []deferredTask
}

// After queues fn to run once the tick counter reaches now+delay.
func (s *Scheduler) After(now, delay int, tok taskToken, name string, fn func()) {
	s.tasks = append(s.tasks, deferredTask{due: now + delay, token: tok, name: name, fn: fn})
}

// Run executes due tasks whose token matches current(), in scheduling
// order, and discards tasks whose token is stale. current is consulted per
// task, so a task that changes the turn invalidates the ones behind it.
// Tasks queued by a running task are kept for a later tick. It returns the
// names of the tasks that ran and of those dropped as stale.
func (s *Scheduler) Run(now int, current func() taskToken) (ran, dropped []string) {
	if len(s.tasks) == 0 {
		return nil, nil
	}
	pending := s.tasks
	s.tasks = nil
	var keep []deferredTask
	for _, t := range pending {
		switch {
		case t.token != current():
			dropped = append(dropped, t.name)
		case t.due <= now:
			t.fn()
			ran = append(ran, t.name)
		default:
			keep = append(keep, t)
		}
	}
	s.tasks = append(keep, s.tasks...)
	return ran, dropped
}

// Pending reports whether a live task with the given name is queued for tok.
func (s *Scheduler) Pending(name string, tok taskToken) bool {
	for _, t := range s.tasks {
		if t.name == name && t.token == tok {
			return true
		}
	}
	return false
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// Clear drops every queued task.
func (s *Scheduler) Clear() { s.tasks = nil }
