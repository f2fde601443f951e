package domain

import "time"

// Application groups tasks under an immutable acronym and carries the
// per-state permit configuration plus the running number used for task
// ID generation.
type Application struct {
	Acronym     string    `json:"app_acronym"`
	Description string    `json:"app_description,omitempty"`
	StartDate   time.Time `json:"app_start_date,omitempty"`
	EndDate     time.Time `json:"app_end_date,omitempty"`

	// RNumber is the running number consumed by task creation. It only
	// ever grows; each successful creation increments it exactly once.
	RNumber int64 `json:"app_rnumber"`

	// Permits name the single group allowed to act per decision point.
	// An empty value means nobody is authorized (fail-closed).
	PermitCreate string `json:"app_permit_create,omitempty"`
	PermitOpen   string `json:"app_permit_open,omitempty"`
	PermitToDo   string `json:"app_permit_todo,omitempty"`
	PermitDoing  string `json:"app_permit_doing,omitempty"`
	PermitDone   string `json:"app_permit_done,omitempty"`
}

// PermitFor returns the group permitted to act on tasks currently in
// state, or "" when none is configured. Close has no permit entry: it is
// terminal and never the pre-transition state of a checked operation.
func (a *Application) PermitFor(state State) string {
	switch state {
	case StateOpen:
		return a.PermitOpen
	case StateToDo:
		return a.PermitToDo
	case StateDoing:
		return a.PermitDoing
	case StateDone:
		return a.PermitDone
	}
	return ""
}
