package timer

// TimerState is the coarse segment kind, as persisted on the wire.
type TimerState string

const (
	StateIdle  TimerState = "IDLE"
	StateWork  TimerState = "WORK"
	StateBreak TimerState = "BREAK"
)

var stateLabels = map[TimerState]string{
	StateIdle:  "IDLE / warming up",
	StateWork:  "WORK / focused",
	StateBreak: "BREAK / resting",
}

// Label returns the human-readable label shown next to the clock.
func (t TimerState) Label() string {
	return stateLabels[t]
}

// Phase enumerates exactly the legal session states. Segment kind,
// running flag and the awaiting-choice sub-state are packed into one
// value so that an illegal combination (awaiting choice during WORK,
// awaiting choice while running) cannot be represented.
type Phase uint8

const (
	PhaseIdle Phase = iota // idling, paused
	PhaseIdleRunning
	PhaseAwaitingChoice // idling minute finished, paused until the user picks
	PhaseWork           // work, paused
	PhaseWorkRunning
	PhaseBreak // break, paused
	PhaseBreakRunning
)

// State reports the segment kind of the phase.
func (p Phase) State() TimerState {
	switch p {
	case PhaseWork, PhaseWorkRunning:
		return StateWork
	case PhaseBreak, PhaseBreakRunning:
		return StateBreak
	default:
		return StateIdle
	}
}

// Running reports whether the segment clock is advancing.
func (p Phase) Running() bool {
	switch p {
	case PhaseIdleRunning, PhaseWorkRunning, PhaseBreakRunning:
		return true
	}
	return false
}

// AwaitingChoice reports whether the idling minute has completed and
// the session is paused pending a user decision.
func (p Phase) AwaitingChoice() bool {
	return p == PhaseAwaitingChoice
}

// paused returns the non-running variant of the phase. Awaiting-choice
// is already paused.
func (p Phase) paused() Phase {
	switch p {
	case PhaseIdleRunning:
		return PhaseIdle
	case PhaseWorkRunning:
		return PhaseWork
	case PhaseBreakRunning:
		return PhaseBreak
	}
	return p
}

// running returns the running variant of the phase. Awaiting-choice has
// no running variant; it is returned unchanged.
func (p Phase) running() Phase {
	switch p {
	case PhaseIdle:
		return PhaseIdleRunning
	case PhaseWork:
		return PhaseWorkRunning
	case PhaseBreak:
		return PhaseBreakRunning
	}
	return p
}

// phaseFor reconstructs a Phase from the persisted triple. Awaiting
// choice only exists for IDLE and is never a running state, so it wins
// over the running flag when a stored blob claims both.
func phaseFor(state TimerState, isRunning, awaitingChoice bool) Phase {
	if state == StateIdle && awaitingChoice {
		return PhaseAwaitingChoice
	}
	var p Phase
	switch state {
	case StateWork:
		p = PhaseWork
	case StateBreak:
		p = PhaseBreak
	default:
		p = PhaseIdle
	}
	if isRunning {
		return p.running()
	}
	return p
}
