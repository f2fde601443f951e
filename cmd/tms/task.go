package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/render"
	"github.com/SebastinST/tms-backend/internal/store"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task workflow operations",
		Long: `Create tasks and move them through their lifecycle.

Transitions are selected by the task's current state:
  promote   Open→ToDo, ToDo→Doing, Doing→Done, Done→Close
  reject    Done→Doing only
  return    Doing→ToDo only

Who may act per state is configured on the owning application.`,
	}

	cmd.AddCommand(
		taskCreateCmd(),
		taskShowCmd(),
		taskListCmd(),
		taskNotesCmd(),
		taskPromoteCmd(),
		taskRejectCmd(),
		taskReturnCmd(),
		taskAssignCmd(),
	)
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var description, app, user string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a task",
		Long: `Create a task under an application.

The task ID is the application acronym concatenated with its running
number; the new task starts in Open.

Examples:
  tms task create "fix login bug" --app ABC --user alice`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("app", app)
			requireFlag("user", user)

			task, err := engine.Create(context.Background(), args[0], description, app, user)
			if err != nil {
				fatalWorkflow(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Task(task))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&app, "app", "a", "", "Owning application acronym")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")

	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its note trail",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			task, err := engine.Get(context.Background(), args[0])
			if err != nil {
				fatalWorkflow(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Task(task))
		},
	}
}

func taskListCmd() *cobra.Command {
	var app, state, plan string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Run: func(cmd *cobra.Command, args []string) {
			filter := store.TaskFilter{
				App:   app,
				State: domain.State(state),
				Plan:  plan,
				Limit: limit,
			}
			tasks, err := backend.ListTasks(context.Background(), filter)
			if err != nil {
				fatalError(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Tasks(tasks))
		},
	}
	cmd.Flags().StringVarP(&app, "app", "a", "", "Filter by application")
	cmd.Flags().StringVarP(&state, "state", "s", "", "Filter by state (Open, ToDo, Doing, Done, Close)")
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "Filter by plan")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results")

	return cmd
}

func taskNotesCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "notes <task-id> <text>",
		Short: "Append notes to a task",
		Long: `Append free-text notes to a task's trail.

Any valid, non-disabled user may annotate a task in any state.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("user", user)

			task, err := engine.AddNotes(context.Background(), args[0], args[1], user)
			if err != nil {
				fatalWorkflow(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Trail(task.Notes, task.Name))
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")

	return cmd
}

func taskPromoteCmd() *cobra.Command {
	var note, user string

	cmd := &cobra.Command{
		Use:   "promote <task-id>",
		Short: "Advance a task to its next state",
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("user", user)

			task, err := engine.Promote(context.Background(), args[0], note, user)
			if err != nil {
				fatalWorkflow(err)
			}

			render.Stdout().Println("%s %s is now %s",
				render.StateIcon(string(task.State)), task.ID, task.State)
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&note, "note", "m", "", "Optional note")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")

	return cmd
}

func taskRejectCmd() *cobra.Command {
	var note, user, plan string

	cmd := &cobra.Command{
		Use:   "reject <task-id>",
		Short: "Reject a Done task back to Doing",
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("user", user)

			var planPtr *string
			if cmd.Flags().Changed("plan") {
				planPtr = &plan
			}

			task, err := engine.Reject(context.Background(), args[0], note, planPtr, user)
			if err != nil {
				fatalWorkflow(err)
			}

			render.Stdout().Println("%s %s is now %s",
				render.StateIcon(string(task.State)), task.ID, task.State)
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&note, "note", "m", "", "Optional note")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "Replacement plan (optional)")

	return cmd
}

func taskReturnCmd() *cobra.Command {
	var note, user string

	cmd := &cobra.Command{
		Use:   "return <task-id>",
		Short: "Return a Doing task back to ToDo",
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("user", user)

			task, err := engine.Return(context.Background(), args[0], note, user)
			if err != nil {
				fatalWorkflow(err)
			}

			render.Stdout().Println("%s %s is now %s",
				render.StateIcon(string(task.State)), task.ID, task.State)
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&note, "note", "m", "", "Optional note")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")

	return cmd
}

func taskAssignCmd() *cobra.Command {
	var note, user, plan string

	cmd := &cobra.Command{
		Use:   "assign <task-id>",
		Short: "Assign or clear a task's plan (Open tasks only)",
		Long: `Assign a plan to an Open task, or clear it.

Examples:
  tms task assign ABC0 --plan sprint-1 --user alice
  tms task assign ABC0 --user alice          # clears the plan`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("user", user)

			task, err := engine.AssignPlan(context.Background(), args[0], plan, note, user)
			if err != nil {
				fatalWorkflow(err)
			}

			if task.Plan == "" {
				render.Stdout().Println("%s plan cleared", task.ID)
			} else {
				render.Stdout().Println("%s assigned to %s", task.ID, task.Plan)
			}
		},
	}
	cmd.Flags().StringVarP(&note, "note", "m", "", "Optional note")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Acting user")
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "Plan name (omit to clear)")

	return cmd
}
