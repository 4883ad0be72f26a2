package timer

import (
	"errors"
	"testing"
)

// memKV is an in-memory persistence adapter for tests.
type memKV struct {
	m map[string]string
}

func newMemKV() *memKV {
	return &memKV{m: make(map[string]string)}
}

var errNoRecord = errors.New("no record")

func (k *memKV) Get(key string) (string, error) {
	v, ok := k.m[key]
	if !ok {
		return "", errNoRecord
	}
	return v, nil
}

func (k *memKV) Set(key, value string) error {
	k.m[key] = value
	return nil
}

func (k *memKV) Remove(key string) error {
	delete(k.m, key)
	return nil
}

// ============================================================
// Stats codec
// ============================================================

func TestLoadStatsNilAdapter(t *testing.T) {
	stats := LoadStats(nil, "2025-03-14")
	if stats != EmptyStats("2025-03-14") {
		t.Fatalf("nil adapter should yield empty stats, got %+v", stats)
	}
}

func TestLoadStatsMissing(t *testing.T) {
	kv := newMemKV()
	stats := LoadStats(kv, "2025-03-14")
	if stats.Date != "2025-03-14" || stats.WorkSeconds != 0 || stats.IdleStartCount != 0 || stats.BreakCount != 0 {
		t.Fatalf("missing record should yield empty stats, got %+v", stats)
	}
}

func TestLoadStatsSanitization(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DailyStats
	}{
		{
			"well-formed",
			`{"date":"2025-03-14","workSeconds":90,"idleStartCount":3,"breakCount":2}`,
			DailyStats{Date: "2025-03-14", WorkSeconds: 90, IdleStartCount: 3, BreakCount: 2},
		},
		{
			"numeric strings parse",
			`{"workSeconds":"120","idleStartCount":"2","breakCount":"1"}`,
			DailyStats{Date: "2025-03-14", WorkSeconds: 120, IdleStartCount: 2, BreakCount: 1},
		},
		{
			"negative clamps to zero",
			`{"workSeconds":-5,"idleStartCount":-1,"breakCount":2}`,
			DailyStats{Date: "2025-03-14", BreakCount: 2},
		},
		{
			"garbage falls back to zero",
			`{"workSeconds":"abc","idleStartCount":true,"breakCount":null}`,
			DailyStats{Date: "2025-03-14"},
		},
		{
			"values beyond int64 fall back to zero, never wrap",
			`{"workSeconds":1e300,"idleStartCount":"-1e300","breakCount":9223372036854775807,"date":"2025-03-14"}`,
			DailyStats{Date: "2025-03-14"},
		},
		{
			"stored date never wins over the key",
			`{"date":"1999-01-01","workSeconds":30}`,
			DailyStats{Date: "2025-03-14", WorkSeconds: 30},
		},
		{
			"not an object",
			`[1,2,3]`,
			DailyStats{Date: "2025-03-14"},
		},
		{
			"unparsable",
			`{broken`,
			DailyStats{Date: "2025-03-14"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			kv.m["2025-03-14"] = tt.raw
			got := LoadStats(kv, "2025-03-14")
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatsRoundTrip(t *testing.T) {
	kv := newMemKV()
	want := DailyStats{Date: "2025-03-14", WorkSeconds: 321, IdleStartCount: 7, BreakCount: 4}
	SaveStats(kv, want)
	got := LoadStats(kv, "2025-03-14")
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSaveStatsNilAdapter(t *testing.T) {
	// Must not panic.
	SaveStats(nil, EmptyStats("2025-03-14"))
}

// ============================================================
// Session codec
// ============================================================

func TestLoadSessionMissing(t *testing.T) {
	if _, ok := LoadSession(newMemKV()); ok {
		t.Fatal("missing record should not load")
	}
	if _, ok := LoadSession(nil); ok {
		t.Fatal("nil adapter should not load")
	}
}

func TestLoadSessionRejectsBadBlobs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unparsable", `{broken`},
		{"not an object", `"IDLE"`},
		{"missing dateKey", `{"state":"WORK"}`},
		{"non-string dateKey", `{"dateKey":42}`},
		{"empty dateKey", `{"dateKey":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			kv.m[sessionKey] = tt.raw
			if _, ok := LoadSession(kv); ok {
				t.Fatal("should not load")
			}
		})
	}
}

func TestLoadSessionSanitization(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Session
	}{
		{
			"invalid state defaults to idle",
			`{"dateKey":"2025-03-14","state":"NAP","isRunning":false,"elapsedMs":500}`,
			Session{DateKey: "2025-03-14", Phase: PhaseIdle, ElapsedMs: 500},
		},
		{
			"startAt forced null when not running",
			`{"dateKey":"2025-03-14","state":"WORK","isRunning":false,"startAt":123456,"elapsedMs":1000}`,
			Session{DateKey: "2025-03-14", Phase: PhaseWork, ElapsedMs: 1000},
		},
		{
			"awaitingChoice forced false outside idle",
			`{"dateKey":"2025-03-14","state":"WORK","isRunning":true,"startAt":123456,"awaitingChoice":true}`,
			Session{DateKey: "2025-03-14", Phase: PhaseWorkRunning, StartAt: 123456},
		},
		{
			"awaiting choice wins over a running flag",
			`{"dateKey":"2025-03-14","state":"IDLE","isRunning":true,"startAt":123456,"elapsedMs":60000,"awaitingChoice":true}`,
			Session{DateKey: "2025-03-14", Phase: PhaseAwaitingChoice, ElapsedMs: 60000},
		},
		{
			"boolean strings accepted",
			`{"dateKey":"2025-03-14","state":"BREAK","isRunning":"true","startAt":99,"elapsedMs":"250"}`,
			Session{DateKey: "2025-03-14", Phase: PhaseBreakRunning, StartAt: 99, ElapsedMs: 250},
		},
		{
			"negative elapsed clamps",
			`{"dateKey":"2025-03-14","state":"IDLE","elapsedMs":-100}`,
			Session{DateKey: "2025-03-14", Phase: PhaseIdle},
		},
		{
			"non-finite startAt dropped",
			`{"dateKey":"2025-03-14","state":"WORK","isRunning":true,"startAt":"soon"}`,
			Session{DateKey: "2025-03-14", Phase: PhaseWorkRunning},
		},
		{
			"values beyond int64 dropped, never wrap",
			`{"dateKey":"2025-03-14","state":"WORK","isRunning":true,"startAt":1e300,"elapsedMs":"9e99"}`,
			Session{DateKey: "2025-03-14", Phase: PhaseWorkRunning},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			kv.m[sessionKey] = tt.raw
			got, ok := LoadSession(kv)
			if !ok {
				t.Fatal("should load")
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := []Session{
		{DateKey: "2025-03-14", Phase: PhaseIdle, ElapsedMs: 1250},
		{DateKey: "2025-03-14", Phase: PhaseWorkRunning, StartAt: 1741900000000, ElapsedMs: 30000},
		{DateKey: "2025-03-14", Phase: PhaseAwaitingChoice, ElapsedMs: 60000},
		{DateKey: "2025-03-14", Phase: PhaseBreak, ElapsedMs: 10},
	}
	for _, want := range sessions {
		kv := newMemKV()
		SaveSession(kv, want)
		got, ok := LoadSession(kv)
		if !ok {
			t.Fatalf("round trip of %+v did not load", want)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestClearSession(t *testing.T) {
	kv := newMemKV()
	SaveSession(kv, NewSession("2025-03-14"))
	ClearSession(kv)
	if _, ok := LoadSession(kv); ok {
		t.Fatal("session should be gone after clear")
	}
	// Nil adapter must not panic.
	ClearSession(nil)
}

func TestLoadSessionNeverBreaksInvariants(t *testing.T) {
	// Whatever the blob claims, a non-running phase carries no start
	// timestamp and awaiting-choice only exists for IDLE.
	blobs := []string{
		`{"dateKey":"d","state":"WORK","isRunning":false,"startAt":5,"awaitingChoice":true}`,
		`{"dateKey":"d","state":"BREAK","isRunning":"false","startAt":5,"awaitingChoice":"true"}`,
		`{"dateKey":"d","state":"IDLE","isRunning":false,"startAt":5,"awaitingChoice":true}`,
	}
	for _, raw := range blobs {
		kv := newMemKV()
		kv.m[sessionKey] = raw
		s, ok := LoadSession(kv)
		if !ok {
			t.Fatalf("blob %s should load", raw)
		}
		if !s.Phase.Running() && s.StartAt != 0 {
			t.Fatalf("blob %s: paused session carries startAt %d", raw, s.StartAt)
		}
		if s.Phase.AwaitingChoice() && s.Phase.State() != StateIdle {
			t.Fatalf("blob %s: awaiting choice outside IDLE", raw)
		}
	}
}
