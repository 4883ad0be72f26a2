package timer

import "time"

// Action is a user-invokable state transition.
type Action uint8

const (
	ActionStartIdle Action = iota
	ActionStartWork
	ActionStartBreak
	ActionResume
	ActionResetToday
)

func runningSegment(dateKey string, state TimerState, now time.Time) Session {
	return Session{
		DateKey: dateKey,
		Phase:   phaseFor(state, true, false),
		StartAt: now.UnixMilli(),
	}
}

// Apply is the pure transition function: it maps the current session
// and stats through an action at a given instant, with no side effects.
// changed is false when the action's precondition is not met.
//
// Every action first runs the day-rollover check: when the stats record
// belongs to a different date than now, both session and stats are
// rebuilt fresh for today before the action applies. In-progress time
// is discarded across the boundary, deliberately: a running segment
// from yesterday is never credited to either day.
func Apply(s Session, stats DailyStats, a Action, now time.Time) (Session, DailyStats, bool) {
	today := DateKey(now)
	rolledOver := stats.Date != today
	base := stats
	if rolledOver {
		base = EmptyStats(today)
	}

	switch a {
	case ActionStartIdle:
		base.IdleStartCount++
		return runningSegment(today, StateIdle, now), base, true

	case ActionStartWork:
		if !s.Phase.AwaitingChoice() {
			return s, stats, false
		}
		return runningSegment(today, StateWork, now), base, true

	case ActionStartBreak:
		fromIdle := s.Phase.AwaitingChoice()
		fromWork := s.Phase == PhaseWorkRunning
		if !fromIdle && !fromWork {
			return s, stats, false
		}
		if fromWork && !rolledOver {
			base.WorkSeconds += s.EffectiveElapsedMs(now) / 1000
		}
		base.BreakCount++
		return runningSegment(today, StateBreak, now), base, true

	case ActionResume:
		if s.Phase.Running() || s.Phase.AwaitingChoice() {
			return s, stats, false
		}
		if rolledOver {
			s = NewSession(today)
		}
		s.DateKey = today
		s.Phase = s.Phase.running()
		s.StartAt = now.UnixMilli()
		return s, base, true

	case ActionResetToday:
		return NewSession(today), EmptyStats(today), true
	}
	return s, stats, false
}

// CheckBoundary applies the one-minute boundary rule to a running
// session: a finished idling minute hard-stops into awaiting-choice (a
// user decision is always required to leave idling), and a finished
// break auto-starts a new idling segment.
func CheckBoundary(s Session, stats DailyStats, now time.Time) (Session, DailyStats, bool) {
	if !s.Phase.Running() || s.CappedElapsedMs(now) < SegmentMs {
		return s, stats, false
	}
	switch s.Phase {
	case PhaseIdleRunning:
		s.Phase = PhaseAwaitingChoice
		s.StartAt = 0
		s.ElapsedMs = SegmentMs
		return s, stats, true
	case PhaseBreakRunning:
		return Apply(s, stats, ActionStartIdle, now)
	}
	return s, stats, false
}
