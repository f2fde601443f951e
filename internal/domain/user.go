package domain

// User is an account that acts on tasks. Groups is semantically a set;
// the comma-delimited storage form never leaks past the store boundary.
type User struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Groups   GroupSet `json:"group_list"`
	Disabled bool     `json:"is_disabled"`
}

// Plan is an optional milestone a task can be attached to while Open.
// Identity is composite: owning application acronym plus plan name.
type Plan struct {
	AppAcronym string `json:"plan_app_acronym"`
	Name       string `json:"plan_mvp_name"`
	StartDate  string `json:"plan_start_date,omitempty"`
	EndDate    string `json:"plan_end_date,omitempty"`
	Colour     string `json:"plan_colour,omitempty"`
}
