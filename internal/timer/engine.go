package timer

import "time"

// actionLockWindow is the cooldown absorbing accidental double
// activation of a single user gesture. Repeated actions inside the
// window are ignored, not queued.
const actionLockWindow = 350 * time.Millisecond

// Engine owns the session and daily stats, applies the pure transitions
// from transition.go and persists every resulting state through the KV
// adapter. There is exactly one writer, so no locking beyond the action
// cooldown is needed.
type Engine struct {
	kv  KV
	now func() time.Time

	hydrated  bool
	lockUntil time.Time
	session   Session
	stats     DailyStats
}

// New creates an engine on the system clock. Call Hydrate before use;
// every action is a no-op until then.
func New(kv KV) *Engine {
	return NewWithClock(kv, time.Now)
}

// NewWithClock creates an engine with an injected time source, for
// deterministic tests.
func NewWithClock(kv KV, now func() time.Time) *Engine {
	return &Engine{kv: kv, now: now}
}

// Hydrate loads today's stats and the persisted session. A same-day
// session is adopted but forced paused: a session never resumes running
// across a reload. Any other session is replaced by a fresh one for
// today, persisted immediately.
func (e *Engine) Hydrate() {
	today := DateKey(e.now())
	e.stats = LoadStats(e.kv, today)

	if s, ok := LoadSession(e.kv); ok && s.DateKey == today {
		s.Phase = s.Phase.paused()
		s.StartAt = 0
		e.session = s
	} else {
		e.session = NewSession(today)
		SaveSession(e.kv, e.session)
	}
	e.hydrated = true
}

// Hydrated reports whether the one-time hydration step has run.
func (e *Engine) Hydrated() bool { return e.hydrated }

// StartIdle begins a fresh running idling segment, counting the start.
func (e *Engine) StartIdle() bool { return e.do(ActionStartIdle) }

// StartWork begins a fresh running work segment. Only valid while
// awaiting the end-of-idling choice.
func (e *Engine) StartWork() bool { return e.do(ActionStartWork) }

// StartBreak begins a fresh running break segment, folding a running
// work segment's time into the day's work seconds. Valid from the
// end-of-idling choice or from running work.
func (e *Engine) StartBreak() bool { return e.do(ActionStartBreak) }

// Resume restarts the paused segment in place, keeping its banked time.
func (e *Engine) Resume() bool { return e.do(ActionResume) }

// ResetToday discards the session and today's stats unconditionally.
func (e *Engine) ResetToday() bool { return e.do(ActionResetToday) }

func (e *Engine) do(a Action) bool {
	if !e.hydrated {
		return false
	}
	now := e.now()
	if now.Before(e.lockUntil) {
		return false
	}
	s, stats, changed := Apply(e.session, e.stats, a, now)
	if !changed {
		return false
	}
	e.lockUntil = now.Add(actionLockWindow)
	e.commit(s, stats, now)
	return true
}

func (e *Engine) commit(s Session, stats DailyStats, now time.Time) {
	if stats != e.stats {
		e.stats = stats
		SaveStats(e.kv, stats)
	}
	e.session = s
	SaveSession(e.kv, s.snapshot(now))
}

// Tick re-samples the wall clock: it runs the day-rollover check, then
// the one-minute boundary check while a segment is running, persisting
// progress so a crash loses at most one tick.
func (e *Engine) Tick() {
	if !e.hydrated {
		return
	}
	now := e.now()
	if e.ensureToday(now) {
		return
	}
	if !e.session.Phase.Running() {
		return
	}

	// A finished break auto-starts idling via the same transition a
	// user action would take, so it honors the cooldown; the skipped
	// tick is retried 250ms later. The idling hard stop is not an
	// action and fires regardless.
	if e.session.Phase == PhaseBreakRunning && now.Before(e.lockUntil) {
		return
	}
	s, stats, changed := CheckBoundary(e.session, e.stats, now)
	if changed {
		if e.session.Phase == PhaseBreakRunning {
			e.lockUntil = now.Add(actionLockWindow)
		}
		e.commit(s, stats, now)
		return
	}
	SaveSession(e.kv, e.session.snapshot(now))
}

// EnsureToday runs the day-rollover check outside the tick loop (e.g.
// when the terminal regains focus).
func (e *Engine) EnsureToday() {
	if !e.hydrated {
		return
	}
	e.ensureToday(e.now())
}

func (e *Engine) ensureToday(now time.Time) bool {
	today := DateKey(now)
	if e.stats.Date == today {
		return false
	}
	// Crossing midnight drops any in-progress segment on purpose: a
	// stale running session is never carried into the new date.
	e.stats = EmptyStats(today)
	SaveStats(e.kv, e.stats)
	e.session = NewSession(today)
	SaveSession(e.kv, e.session)
	return true
}

// State reports the current segment kind.
func (e *Engine) State() TimerState { return e.session.Phase.State() }

// StateLabel is the human-readable label for the current state.
func (e *Engine) StateLabel() string { return e.State().Label() }

// IsRunning reports whether the segment clock is advancing.
func (e *Engine) IsRunning() bool { return e.session.Phase.Running() }

// AwaitingChoice reports whether the engine is paused at the end of an
// idling minute, pending the user's work-or-break decision.
func (e *Engine) AwaitingChoice() bool { return e.session.Phase.AwaitingChoice() }

// DisplayMs is the clock value to render: counting down for IDLE and
// BREAK, up for WORK.
func (e *Engine) DisplayMs() int64 { return e.session.DisplayMs(e.now()) }

// ElapsedMs is the capped effective elapsed time of the current segment.
func (e *Engine) ElapsedMs() int64 { return e.session.CappedElapsedMs(e.now()) }

// Stats returns today's counters.
func (e *Engine) Stats() DailyStats { return e.stats }

// TotalWorkSeconds includes the running work segment's whole seconds on
// top of the banked stats.
func (e *Engine) TotalWorkSeconds() int64 {
	return e.session.TotalWorkSeconds(e.stats, e.now())
}

// ActionLocked reports whether the action cooldown is active.
func (e *Engine) ActionLocked() bool { return e.now().Before(e.lockUntil) }
