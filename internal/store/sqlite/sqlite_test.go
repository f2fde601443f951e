package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastinST/tms-backend/internal/audit"
	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/store"
)

func testBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func seedApp(t *testing.T, b *Backend, acronym string) {
	t.Helper()
	err := b.CreateApplication(context.Background(), &domain.Application{
		Acronym:      acronym,
		Description:  "test application",
		PermitCreate: "dev",
		PermitOpen:   "dev",
	})
	require.NoError(t, err)
}

func newTask(acronym string) *domain.Task {
	at := time.Now().UTC().Truncate(time.Second)
	entry := audit.NewEntry("alice", audit.ActionCreate, at)
	entry.ToState = string(domain.StateOpen)
	return &domain.Task{
		Name:       "fix bug",
		AppAcronym: acronym,
		State:      domain.StateOpen,
		Creator:    "alice",
		Owner:      "alice",
		Notes:      audit.Trail{entry},
		CreateDate: at,
	}
}

func TestBackendPing(t *testing.T) {
	b := testBackend(t)
	require.NoError(t, b.Ping(context.Background()))
}

func TestCreateTaskMintsSequentialIDs(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")

	first := newTask("ABC")
	require.NoError(t, b.CreateTask(ctx, first))
	assert.Equal(t, "ABC0", first.ID)

	second := newTask("ABC")
	require.NoError(t, b.CreateTask(ctx, second))
	assert.Equal(t, "ABC1", second.ID)

	app, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(2), app.RNumber)
}

func TestCreateTaskConcurrent(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")

	// Concurrent creations against one application serialize on the
	// counter row; no two may ever mint the same running number.
	const n = 20
	ids := make(chan string, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := newTask("ABC")
			if err := b.CreateTask(ctx, task); err != nil {
				errs <- err
				return
			}
			ids <- task.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[string]bool, n)
	for id := range ids {
		require.False(t, seen[id], "task ID %s minted twice", id)
		seen[id] = true
	}
	require.Len(t, seen, n)

	app, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(n), app.RNumber)
}

func TestCreateTaskUnknownApp(t *testing.T) {
	b := testBackend(t)
	err := b.CreateTask(context.Background(), newTask("NOPE"))
	assert.True(t, store.IsNotFound(err))
}

func TestGetTaskRoundTrip(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")

	task := newTask("ABC")
	require.NoError(t, b.CreateTask(ctx, task))

	got, err := b.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, domain.StateOpen, got.State)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, audit.ActionCreate, got.Notes[0].Action)
	assert.Equal(t, task.Notes[0].ID, got.Notes[0].ID)

	_, err = b.GetTask(ctx, "ABC99")
	assert.True(t, store.IsNotFound(err))
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "task", nf.Entity)
}

func TestUpdateTaskVersionGuard(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")

	task := newTask("ABC")
	require.NoError(t, b.CreateTask(ctx, task))

	// Two readers load the same version.
	a, err := b.GetTask(ctx, task.ID)
	require.NoError(t, err)
	c, err := b.GetTask(ctx, task.ID)
	require.NoError(t, err)

	a.State = domain.StateToDo
	require.NoError(t, b.UpdateTask(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	// The second writer still holds version 1 and must lose.
	c.State = domain.StateToDo
	err = b.UpdateTask(ctx, c)
	assert.True(t, store.IsStaleWrite(err))

	got, err := b.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateToDo, got.State)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateTaskNotes(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")

	task := newTask("ABC")
	require.NoError(t, b.CreateTask(ctx, task))

	entry := audit.NewEntry("bob", audit.ActionNotes, time.Now())
	entry.Text = "looks tricky"
	task.Notes = task.Notes.Prepend(entry)
	task.Owner = "bob"
	require.NoError(t, b.UpdateTask(ctx, task))

	got, err := b.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "looks tricky", got.Notes[0].Text)
	assert.Equal(t, "bob", got.Owner)
}

func TestListTasks(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")
	seedApp(t, b, "XYZ")

	for i := 0; i < 3; i++ {
		require.NoError(t, b.CreateTask(ctx, newTask("ABC")))
	}
	require.NoError(t, b.CreateTask(ctx, newTask("XYZ")))

	all, err := b.ListTasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	abc, err := b.ListTasks(ctx, store.TaskFilter{App: "ABC"})
	require.NoError(t, err)
	assert.Len(t, abc, 3)

	open, err := b.ListTasks(ctx, store.TaskFilter{App: "ABC"}.WithState(domain.StateDone))
	require.NoError(t, err)
	assert.Empty(t, open)

	limited, err := b.ListTasks(ctx, store.TaskFilter{}.WithLimit(2))
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestApplicationRoundTrip(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()

	app := &domain.Application{
		Acronym:      "ABC",
		Description:  "billing revamp",
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		PermitCreate: "pl",
		PermitOpen:   "pl",
		PermitToDo:   "dev",
		PermitDoing:  "dev",
		PermitDone:   "pl",
	}
	require.NoError(t, b.CreateApplication(ctx, app))

	err := b.CreateApplication(ctx, app)
	assert.True(t, store.IsAlreadyExists(err))

	got, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, app.Description, got.Description)
	assert.Equal(t, "pl", got.PermitDone)
	assert.Equal(t, int64(0), got.RNumber)
	assert.True(t, app.StartDate.Equal(got.StartDate))

	got.PermitDone = "qa"
	require.NoError(t, b.UpdateApplication(ctx, got))
	again, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "qa", again.PermitDone)

	_, err = b.GetApplication(ctx, "NOPE")
	assert.True(t, store.IsNotFound(err))
}

func TestUpdateApplicationNeverTouchesCounter(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")
	require.NoError(t, b.CreateTask(ctx, newTask("ABC")))

	app, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	app.RNumber = 99
	app.Description = "changed"
	require.NoError(t, b.UpdateApplication(ctx, app))

	got, err := b.GetApplication(ctx, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)
	assert.Equal(t, int64(1), got.RNumber)
}

func TestUserRoundTrip(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()

	user := &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Groups:   domain.NewGroupSet("dev", "qa"),
	}
	require.NoError(t, b.CreateUser(ctx, user))

	err := b.CreateUser(ctx, user)
	assert.True(t, store.IsAlreadyExists(err))

	got, err := b.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.Groups.Contains("dev"))
	assert.True(t, got.Groups.Contains("qa"))
	assert.False(t, got.Disabled)

	got.Disabled = true
	require.NoError(t, b.UpdateUser(ctx, got))
	again, err := b.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, again.Disabled)

	_, err = b.GetUser(ctx, "nobody")
	assert.True(t, store.IsNotFound(err))
}

func TestPlanRoundTrip(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()
	seedApp(t, b, "ABC")
	seedApp(t, b, "XYZ")

	plan := &domain.Plan{AppAcronym: "ABC", Name: "sprint-1", Colour: "#ff0000"}
	require.NoError(t, b.CreatePlan(ctx, plan))

	err := b.CreatePlan(ctx, plan)
	assert.True(t, store.IsAlreadyExists(err))

	// Same name under another application is a distinct plan.
	require.NoError(t, b.CreatePlan(ctx, &domain.Plan{AppAcronym: "XYZ", Name: "sprint-1"}))

	ok, err := b.PlanExists(ctx, "ABC", "sprint-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.PlanExists(ctx, "ABC", "sprint-2")
	require.NoError(t, err)
	assert.False(t, ok)

	plans, err := b.ListPlans(ctx, "ABC")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "#ff0000", plans[0].Colour)

	// Plans require an existing application.
	err = b.CreatePlan(ctx, &domain.Plan{AppAcronym: "NOPE", Name: "sprint-1"})
	assert.True(t, store.IsNotFound(err))
}
