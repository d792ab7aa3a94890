// Package onboarding drives a new tenant's first conversation: an
// introduction, a structured registry audit, a gap review, and an
// open-ended chat, ending in a persisted completed state.
package onboarding

import "fmt"

// State is one step of the onboarding conversation.
type State string

const (
	StateIntroduction State = "introduction"
	StateAuditRunning State = "audit_running"
	StateGapReview    State = "gap_review"
	StateChat         State = "chat"
	StateComplete     State = "complete"
)

// allowedTransitions is the directed graph of the machine. Onboarding
// only ever moves forward; complete is terminal and there is no path
// back into introduction, even when new data gaps appear later.
var allowedTransitions = map[State][]State{
	StateIntroduction: {StateAuditRunning},
	StateAuditRunning: {StateGapReview},
	StateGapReview:    {StateChat, StateComplete},
	StateChat:         {StateComplete},
	StateComplete:     {},
}

// CanTransition reports whether from -> to is an allowed step.
func CanTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStates returns the states reachable from the given one.
func NextStates(from State) []State {
	return allowedTransitions[from]
}

// Event is an operator action that moves the machine.
type Event string

const (
	// EventFillGaps starts the gap-filling chat.
	EventFillGaps Event = "fill_gaps"
	// EventDefer skips gap filling ("do this later") straight to steady state.
	EventDefer Event = "defer"
	// EventExit leaves the chat loop for the main application.
	EventExit Event = "exit"
)

// eventTargets maps operator events to their destination states.
var eventTargets = map[Event]State{
	EventFillGaps: StateChat,
	EventDefer:    StateComplete,
	EventExit:     StateComplete,
}

// Resolve validates an event against the current state and returns the
// destination state.
func Resolve(from State, event Event) (State, error) {
	to, ok := eventTargets[event]
	if !ok {
		return "", fmt.Errorf("unknown onboarding event %q", event)
	}
	if !CanTransition(from, to) {
		return "", fmt.Errorf("invalid onboarding transition: %s -> %s", from, to)
	}
	// defer is only meaningful from gap review, exit only from chat
	if event == EventDefer && from != StateGapReview {
		return "", fmt.Errorf("event %q not valid in state %s", event, from)
	}
	if event == EventExit && from != StateChat {
		return "", fmt.Errorf("event %q not valid in state %s", event, from)
	}
	return to, nil
}
