package timer

import "time"

// SegmentMs is the nominal duration of every segment (idling, work,
// break alike): one minute.
const SegmentMs int64 = 60_000

// Session is the current, possibly in-progress timer session. Only the
// absolute start timestamp and the banked elapsed time are stored;
// everything else is recomputed from "now" so the clock cannot drift.
type Session struct {
	DateKey   string
	Phase     Phase
	StartAt   int64 // epoch ms the running interval began; 0 unless Phase.Running()
	ElapsedMs int64 // banked milliseconds, excluding the running interval
}

// NewSession returns a fresh paused idling session for the given date.
func NewSession(dateKey string) Session {
	return Session{DateKey: dateKey, Phase: PhaseIdle}
}

// DailyStats holds the cumulative counters for one calendar date.
type DailyStats struct {
	Date           string `json:"date"`
	WorkSeconds    int64  `json:"workSeconds"`
	IdleStartCount int64  `json:"idleStartCount"`
	BreakCount     int64  `json:"breakCount"`
}

// EmptyStats returns a zeroed record for the given date.
func EmptyStats(dateKey string) DailyStats {
	return DailyStats{Date: dateKey}
}

// DateKey formats t as the local-time calendar key (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// EffectiveElapsedMs is the banked time plus the running interval's
// contribution as of now, floored at zero.
func (s Session) EffectiveElapsedMs(now time.Time) int64 {
	ms := s.ElapsedMs
	if s.Phase.Running() && s.StartAt != 0 {
		ms += now.UnixMilli() - s.StartAt
	}
	if ms < 0 {
		return 0
	}
	return ms
}

// CappedElapsedMs caps the effective elapsed time at the one-minute
// boundary for IDLE and BREAK. Work counts up without a ceiling.
func (s Session) CappedElapsedMs(now time.Time) int64 {
	ms := s.EffectiveElapsedMs(now)
	if s.Phase.State() == StateWork {
		return ms
	}
	return min(SegmentMs, ms)
}

// DisplayMs is what the clock shows: elapsed time for WORK, remaining
// time for IDLE and BREAK, never negative.
func (s Session) DisplayMs(now time.Time) int64 {
	capped := s.CappedElapsedMs(now)
	if s.Phase.State() == StateWork {
		return capped
	}
	return max(0, SegmentMs-capped)
}

// TotalWorkSeconds is the day's banked work seconds plus, during a work
// segment, the current segment's whole seconds. The running segment is
// shown as already earned without touching the stored stats.
func (s Session) TotalWorkSeconds(stats DailyStats, now time.Time) int64 {
	if s.Phase.State() == StateWork {
		return stats.WorkSeconds + s.CappedElapsedMs(now)/1000
	}
	return stats.WorkSeconds
}

// snapshot folds the running interval into the banked elapsed time and
// clears the start timestamp, so a reload resumes paused instead of
// silently fast-forwarding.
func (s Session) snapshot(now time.Time) Session {
	s.ElapsedMs = s.CappedElapsedMs(now)
	s.StartAt = 0
	return s
}
