// Package store defines the persistence ports consumed by the workflow
// engine and the CLI. All backing stores implement these interfaces so
// the engine never touches a database handle directly.
package store

import (
	"context"

	"github.com/SebastinST/tms-backend/internal/domain"
)

// Store is the minimal interface all stores must implement.
type Store interface {
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// Close releases any resources held by the store.
	Close() error
}

// TaskFilter defines query parameters for listing tasks.
type TaskFilter struct {
	App   string       // owning application acronym ("" = all)
	State domain.State // lifecycle state ("" = all)
	Plan  string       // plan name ("" = all)
	Limit int          // maximum results (0 = no limit)
}

// WithState returns a copy of the filter narrowed to a state.
func (f TaskFilter) WithState(s domain.State) TaskFilter {
	f.State = s
	return f
}

// WithLimit returns a copy of the filter with a new limit.
func (f TaskFilter) WithLimit(n int) TaskFilter {
	f.Limit = n
	return f
}

// Tasks provides access to task rows.
type Tasks interface {
	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	// ListTasks retrieves tasks matching the filter, newest first.
	ListTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	// CreateTask inserts the task and increments the owning
	// application's running number as one atomic unit. Neither change
	// is visible unless both succeed.
	CreateTask(ctx context.Context, task *domain.Task) error
	// UpdateTask persists a task snapshot guarded by the version it was
	// loaded at. A concurrent writer having bumped the version since
	// the load surfaces as ErrStaleWrite; nothing is written.
	UpdateTask(ctx context.Context, task *domain.Task) error
}

// Applications provides access to application rows.
type Applications interface {
	// GetApplication retrieves an application by acronym.
	GetApplication(ctx context.Context, acronym string) (*domain.Application, error)
	// ListApplications retrieves all applications.
	ListApplications(ctx context.Context) ([]*domain.Application, error)
	// CreateApplication inserts a new application.
	CreateApplication(ctx context.Context, app *domain.Application) error
	// UpdateApplication updates permits, dates and description. The
	// acronym and running number are never touched by this path.
	UpdateApplication(ctx context.Context, app *domain.Application) error
}

// Users provides access to user accounts.
type Users interface {
	// GetUser retrieves a user by username.
	GetUser(ctx context.Context, username string) (*domain.User, error)
	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *domain.User) error
	// UpdateUser updates email, groups and the disabled flag.
	UpdateUser(ctx context.Context, user *domain.User) error
}

// Plans provides access to plan rows.
type Plans interface {
	// GetPlan retrieves a plan by its composite identity.
	GetPlan(ctx context.Context, acronym, name string) (*domain.Plan, error)
	// PlanExists reports whether the plan exists without loading it.
	PlanExists(ctx context.Context, acronym, name string) (bool, error)
	// ListPlans retrieves all plans of an application.
	ListPlans(ctx context.Context, acronym string) ([]*domain.Plan, error)
	// CreatePlan inserts a new plan.
	CreatePlan(ctx context.Context, plan *domain.Plan) error
}

// Backend combines every port over one backing database.
type Backend interface {
	Store
	Tasks
	Applications
	Users
	Plans
}
