// Package domain defines the core entities of the task management system:
// tasks, applications, plans, users and the task lifecycle states.
package domain

// State represents a task lifecycle state.
type State string

const (
	StateOpen  State = "Open"
	StateToDo  State = "ToDo"
	StateDoing State = "Doing"
	StateDone  State = "Done"
	StateClose State = "Close"
)

// promoteNext maps each state to its promotion target. Close is terminal
// and has no entry.
var promoteNext = map[State]State{
	StateOpen:  StateToDo,
	StateToDo:  StateDoing,
	StateDoing: StateDone,
	StateDone:  StateClose,
}

// Valid reports whether s is one of the five lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateOpen, StateToDo, StateDoing, StateDone, StateClose:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing edges.
func (s State) Terminal() bool {
	return s == StateClose
}

// Next returns the promotion target for s. The second return is false
// when s is terminal or unknown.
func (s State) Next() (State, bool) {
	next, ok := promoteNext[s]
	return next, ok
}

// CanReject reports whether a task in s may be rejected (Done -> Doing).
func (s State) CanReject() bool {
	return s == StateDone
}

// CanReturn reports whether a task in s may be returned (Doing -> ToDo).
func (s State) CanReturn() bool {
	return s == StateDoing
}

// CanAssignPlan reports whether a task in s may have its plan changed.
// Plans are only assignable while the task is still Open.
func (s State) CanAssignPlan() bool {
	return s == StateOpen
}
