package timer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// sessionKey is the fixed storage key for the persisted session.
const sessionKey = "idlemin-session"

// KV is the persistence adapter: a string-to-JSON-text store. A nil KV
// (no storage available) degrades every load to its default and every
// save to a no-op; errors from the adapter are treated the same way.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// sessionRecord is the wire shape of a persisted session.
type sessionRecord struct {
	DateKey        string     `json:"dateKey"`
	State          TimerState `json:"state"`
	IsRunning      bool       `json:"isRunning"`
	StartAt        *int64     `json:"startAt"`
	ElapsedMs      int64      `json:"elapsedMs"`
	AwaitingChoice bool       `json:"awaitingChoice"`
}

// Persisted blobs may be stale or corrupt (old app versions, hand
// edits), so every field is coerced independently instead of trusting
// the stored shape.

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n, true
		}
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(n, 64)
		if err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			return parsed, true
		}
	}
	return 0, false
}

// toInt64 additionally rejects values outside the int64 range; the
// float-to-int conversion is implementation-defined there.
func toInt64(v any) (int64, bool) {
	n, ok := toNumber(v)
	if !ok || n < float64(math.MinInt64) || n >= float64(math.MaxInt64) {
		return 0, false
	}
	return int64(n), true
}

func toNonNegative(v any) int64 {
	n, ok := toInt64(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func toBool(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if b == "true" {
			return true
		}
		if b == "false" {
			return false
		}
	}
	return fallback
}

func toTimerState(v any) (TimerState, bool) {
	if s, ok := v.(string); ok {
		switch TimerState(s) {
		case StateIdle, StateWork, StateBreak:
			return TimerState(s), true
		}
	}
	return "", false
}

func parseObject(raw string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

// LoadStats reads the stats record stored under dateKey, sanitizing
// every field. Absent, unparsable or non-object values yield an empty
// record. The returned date is always the requested key, never the
// stored one, to defend against a key/content mismatch.
func LoadStats(kv KV, dateKey string) DailyStats {
	if kv == nil {
		return EmptyStats(dateKey)
	}
	raw, err := kv.Get(dateKey)
	if err != nil {
		return EmptyStats(dateKey)
	}
	m := parseObject(raw)
	if m == nil {
		return EmptyStats(dateKey)
	}
	return DailyStats{
		Date:           dateKey,
		WorkSeconds:    toNonNegative(m["workSeconds"]),
		IdleStartCount: toNonNegative(m["idleStartCount"]),
		BreakCount:     toNonNegative(m["breakCount"]),
	}
}

// SaveStats writes the record under its own date key. Unavailable
// storage is a silent no-op.
func SaveStats(kv KV, stats DailyStats) {
	if kv == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	kv.Set(stats.Date, string(data))
}

// LoadSession reads the persisted session, returning ok=false when
// nothing usable is stored. Semantic consistency is enforced on load: a
// non-running session never carries a start timestamp, and awaiting
// choice only survives for IDLE.
func LoadSession(kv KV) (Session, bool) {
	if kv == nil {
		return Session{}, false
	}
	raw, err := kv.Get(sessionKey)
	if err != nil {
		return Session{}, false
	}
	m := parseObject(raw)
	if m == nil {
		return Session{}, false
	}
	dateKey, _ := m["dateKey"].(string)
	if dateKey == "" {
		return Session{}, false
	}

	state, ok := toTimerState(m["state"])
	if !ok {
		state = StateIdle
	}
	isRunning := toBool(m["isRunning"], false)
	awaitingChoice := false
	if state == StateIdle {
		awaitingChoice = toBool(m["awaitingChoice"], false)
	}
	phase := phaseFor(state, isRunning, awaitingChoice)

	var startAt int64
	if phase.Running() {
		if n, ok := toInt64(m["startAt"]); ok {
			startAt = n
		}
	}

	return Session{
		DateKey:   dateKey,
		Phase:     phase,
		StartAt:   startAt,
		ElapsedMs: toNonNegative(m["elapsedMs"]),
	}, true
}

// SaveSession writes the session under the fixed key. Unavailable
// storage is a silent no-op.
func SaveSession(kv KV, s Session) {
	if kv == nil {
		return
	}
	rec := sessionRecord{
		DateKey:        s.DateKey,
		State:          s.Phase.State(),
		IsRunning:      s.Phase.Running(),
		ElapsedMs:      s.ElapsedMs,
		AwaitingChoice: s.Phase.AwaitingChoice(),
	}
	if s.StartAt != 0 {
		rec.StartAt = &s.StartAt
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	kv.Set(sessionKey, string(data))
}

// ClearSession removes the persisted session. Not used by the rollover
// path, which overwrites with a fresh session instead.
func ClearSession(kv KV) {
	if kv == nil {
		return
	}
	kv.Remove(sessionKey)
}
