// Package workflow implements the task state machine: lifecycle
// transitions, group-scoped authorization and the audit trail. It is
// the only component allowed to mutate tasks; everything it persists
// goes through the injected store ports as one atomic unit.
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/SebastinST/tms-backend/internal/audit"
	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/logging"
	"github.com/SebastinST/tms-backend/internal/metrics"
	"github.com/SebastinST/tms-backend/internal/notify"
	"github.com/SebastinST/tms-backend/internal/store"
)

// Engine orchestrates task workflow operations over the store ports.
type Engine struct {
	db     store.Backend
	events notify.Publisher
	log    *logging.Logger

	// now is the commit-attempt clock; swappable in tests.
	now func() time.Time

	// notifyTimeout bounds the post-commit best-effort publish.
	notifyTimeout time.Duration
}

// New creates a workflow engine. A nil events publisher disables
// notifications.
func New(db store.Backend, events notify.Publisher) *Engine {
	if events == nil {
		events = notify.Nop{}
	}
	return &Engine{
		db:            db,
		events:        events,
		log:           logging.New("workflow"),
		now:           time.Now,
		notifyTimeout: 3 * time.Second,
	}
}

// Create makes a new task under the application identified by acronym.
// The task ID is minted from the application's running number; counter
// increment and insert commit together or not at all.
func (e *Engine) Create(ctx context.Context, name, description, acronym, actor string) (*domain.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errf(KindInvalidInput, "task name is required")
	}
	if strings.TrimSpace(acronym) == "" {
		return nil, errf(KindInvalidInput, "application acronym is required")
	}

	user, werr := e.loadActor(ctx, actor)
	if werr != nil {
		return nil, werr
	}

	app, err := e.db.GetApplication(ctx, acronym)
	if err != nil {
		return nil, storeErr(err, "load application "+acronym)
	}

	if !AuthorizedCreate(app, user) {
		metrics.Global().RecordForbidden()
		return nil, errf(KindForbidden, "user %s is not permitted to create tasks under %s", actor, acronym)
	}

	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionCreate, at)
	entry.ToState = string(domain.StateOpen)

	task := &domain.Task{
		Name:        name,
		Description: description,
		AppAcronym:  acronym,
		State:       domain.StateOpen,
		Creator:     actor,
		Owner:       actor,
		Notes:       audit.Trail{entry},
		CreateDate:  at.UTC(),
	}

	if err := e.db.CreateTask(ctx, task); err != nil {
		metrics.Global().RecordCreate(false)
		return nil, storeErr(err, "create task under "+acronym)
	}

	metrics.Global().RecordCreate(true)
	e.log.WithTask(task.ID).WithApp(acronym).WithActor(actor).Info("task_created", nil)
	e.emit(notify.NewEvent(notify.EventTaskCreated, task, actor, "", domain.StateOpen, at))

	return task, nil
}

// Get retrieves a task by ID.
func (e *Engine) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := e.db.GetTask(ctx, id)
	if err != nil {
		return nil, storeErr(err, "load task "+id)
	}
	return task, nil
}

// Promote advances the task one step along its lifecycle. The edge is
// selected solely by the current state; Close is terminal.
func (e *Engine) Promote(ctx context.Context, id, note, actor string) (*domain.Task, error) {
	user, task, app, werr := e.loadForUpdate(ctx, id, actor)
	if werr != nil {
		return nil, werr
	}

	next, ok := task.State.Next()
	if !ok {
		return nil, errf(KindInvalidTransition, "task %s is %s and cannot be promoted", id, task.State)
	}
	if werr := e.requirePermit(app, task, user); werr != nil {
		return nil, werr
	}

	from := task.State
	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionPromote, at)
	entry.FromState = string(from)
	entry.ToState = string(next)
	entry.Text = note

	task.State = next
	task.Owner = actor
	task.Notes = task.Notes.Prepend(entry)

	if werr := e.commit(ctx, task); werr != nil {
		return nil, werr
	}

	metrics.Global().RecordTransition(true)
	e.log.WithTask(id).WithActor(actor).Info("task_promoted", map[string]interface{}{
		"from": string(from),
		"to":   string(next),
	})

	if next == domain.StateDone {
		e.emit(notify.NewEvent(notify.EventTaskDone, task, actor, from, next, at))
	}

	return task, nil
}

// Reject moves a Done task back to Doing. The plan may be updated in
// the same commit when a new value is supplied.
func (e *Engine) Reject(ctx context.Context, id, note string, plan *string, actor string) (*domain.Task, error) {
	user, task, app, werr := e.loadForUpdate(ctx, id, actor)
	if werr != nil {
		return nil, werr
	}

	if !task.State.CanReject() {
		return nil, errf(KindInvalidTransition, "task %s is %s; only Done tasks can be rejected", id, task.State)
	}
	if werr := e.requirePermit(app, task, user); werr != nil {
		return nil, werr
	}

	if plan != nil && *plan != "" {
		exists, err := e.db.PlanExists(ctx, task.AppAcronym, *plan)
		if err != nil {
			return nil, wrapf(KindInternal, err, "check plan %s/%s", task.AppAcronym, *plan)
		}
		if !exists {
			return nil, errf(KindInvalidInput, "plan %s does not exist under %s", *plan, task.AppAcronym)
		}
	}

	from := task.State
	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionReject, at)
	entry.FromState = string(from)
	entry.ToState = string(domain.StateDoing)
	entry.Text = note

	task.State = domain.StateDoing
	task.Owner = actor
	if plan != nil {
		task.Plan = *plan
	}
	task.Notes = task.Notes.Prepend(entry)

	if werr := e.commit(ctx, task); werr != nil {
		return nil, werr
	}

	metrics.Global().RecordTransition(true)
	e.log.WithTask(id).WithActor(actor).Info("task_rejected", nil)

	return task, nil
}

// Return moves a Doing task back to ToDo.
func (e *Engine) Return(ctx context.Context, id, note, actor string) (*domain.Task, error) {
	user, task, app, werr := e.loadForUpdate(ctx, id, actor)
	if werr != nil {
		return nil, werr
	}

	if !task.State.CanReturn() {
		return nil, errf(KindInvalidTransition, "task %s is %s; only Doing tasks can be returned", id, task.State)
	}
	if werr := e.requirePermit(app, task, user); werr != nil {
		return nil, werr
	}

	from := task.State
	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionReturn, at)
	entry.FromState = string(from)
	entry.ToState = string(domain.StateToDo)
	entry.Text = note

	task.State = domain.StateToDo
	task.Owner = actor
	task.Notes = task.Notes.Prepend(entry)

	if werr := e.commit(ctx, task); werr != nil {
		return nil, werr
	}

	metrics.Global().RecordTransition(true)
	e.log.WithTask(id).WithActor(actor).Info("task_returned", nil)

	return task, nil
}

// AssignPlan sets or clears the task's plan. Legal only while the task
// is still Open; the state itself never changes.
func (e *Engine) AssignPlan(ctx context.Context, id, plan, note, actor string) (*domain.Task, error) {
	user, task, app, werr := e.loadForUpdate(ctx, id, actor)
	if werr != nil {
		return nil, werr
	}

	if !task.State.CanAssignPlan() {
		return nil, errf(KindInvalidTransition, "task %s is %s; plans can only change while Open", id, task.State)
	}
	if werr := e.requirePermit(app, task, user); werr != nil {
		return nil, werr
	}

	if plan != "" {
		exists, err := e.db.PlanExists(ctx, task.AppAcronym, plan)
		if err != nil {
			return nil, wrapf(KindInternal, err, "check plan %s/%s", task.AppAcronym, plan)
		}
		if !exists {
			return nil, errf(KindInvalidInput, "plan %s does not exist under %s", plan, task.AppAcronym)
		}
	}

	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionAssignPlan, at)
	entry.Plan = plan
	entry.Text = note

	task.Plan = plan
	task.Owner = actor
	task.Notes = task.Notes.Prepend(entry)

	if werr := e.commit(ctx, task); werr != nil {
		return nil, werr
	}

	e.log.WithTask(id).WithActor(actor).Info("plan_assigned", map[string]interface{}{
		"plan": plan,
	})

	return task, nil
}

// AddNotes appends free-text notes to the task. Any valid, non-disabled
// user may annotate in any state; there is deliberately no permit check
// on this path.
func (e *Engine) AddNotes(ctx context.Context, id, note, actor string) (*domain.Task, error) {
	if strings.TrimSpace(note) == "" {
		return nil, errf(KindInvalidInput, "note text is required")
	}

	_, task, _, werr := e.loadForUpdate(ctx, id, actor)
	if werr != nil {
		return nil, werr
	}

	at := e.now()
	entry := audit.NewEntry(actor, audit.ActionNotes, at)
	entry.Text = note

	task.Owner = actor
	task.Notes = task.Notes.Prepend(entry)

	if werr := e.commit(ctx, task); werr != nil {
		return nil, werr
	}

	metrics.Global().RecordNote()
	e.log.WithTask(id).WithActor(actor).Info("notes_added", nil)

	return task, nil
}

// loadActor fetches the acting user and rejects disabled accounts.
func (e *Engine) loadActor(ctx context.Context, username string) (*domain.User, *Error) {
	if strings.TrimSpace(username) == "" {
		return nil, errf(KindInvalidInput, "acting user is required")
	}
	user, err := e.db.GetUser(ctx, username)
	if err != nil {
		return nil, storeErr(err, "load user "+username)
	}
	if user.Disabled {
		metrics.Global().RecordForbidden()
		return nil, errf(KindForbidden, "user %s is disabled", username)
	}
	return user, nil
}

// loadForUpdate resolves actor, task and owning application. All
// preconditions are checked before any mutation is attempted.
func (e *Engine) loadForUpdate(ctx context.Context, id, actor string) (*domain.User, *domain.Task, *domain.Application, *Error) {
	user, werr := e.loadActor(ctx, actor)
	if werr != nil {
		return nil, nil, nil, werr
	}

	task, err := e.db.GetTask(ctx, id)
	if err != nil {
		return nil, nil, nil, storeErr(err, "load task "+id)
	}

	app, err := e.db.GetApplication(ctx, task.AppAcronym)
	if err != nil {
		return nil, nil, nil, storeErr(err, "load application "+task.AppAcronym)
	}

	return user, task, app, nil
}

// requirePermit enforces the group permit for the task's pre-transition
// state.
func (e *Engine) requirePermit(app *domain.Application, task *domain.Task, user *domain.User) *Error {
	if Authorized(app, task.State, user) {
		return nil
	}
	metrics.Global().RecordForbidden()
	return errf(KindForbidden, "user %s is not permitted to act on task %s in state %s",
		user.Username, task.ID, task.State)
}

// commit persists the task snapshot; a lost version race surfaces as
// Conflict and the caller-visible task is untouched on failure.
func (e *Engine) commit(ctx context.Context, task *domain.Task) *Error {
	if err := e.db.UpdateTask(ctx, task); err != nil {
		if store.IsStaleWrite(err) {
			metrics.Global().RecordConflict()
		}
		metrics.Global().RecordTransition(false)
		return storeErr(err, "update task "+task.ID)
	}
	return nil
}

// emit publishes a post-commit event. Bounded and best-effort: a
// delivery failure is logged, counted and dropped.
func (e *Engine) emit(event notify.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), e.notifyTimeout)
	defer cancel()

	if err := e.events.Publish(ctx, event); err != nil {
		metrics.Global().RecordNotify(false)
		e.log.Warn("notify_failed", map[string]interface{}{
			"task": event.TaskID,
			"type": string(event.Type),
		}, err)
		return
	}
	metrics.Global().RecordNotify(true)
}
