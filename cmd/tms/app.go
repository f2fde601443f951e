package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/render"
)

func appCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Application management",
		Long: `Manage applications: the containers tasks live in.

Each application carries five permit fields naming the single group
allowed to act at each decision point (create, and each of the four
non-terminal task states). An unset permit authorizes nobody.`,
	}

	cmd.AddCommand(
		appCreateCmd(),
		appListCmd(),
		appPermitsCmd(),
	)
	return cmd
}

func appCreateCmd() *cobra.Command {
	var description, startDate, endDate string

	cmd := &cobra.Command{
		Use:   "create <acronym>",
		Short: "Create an application",
		Long: `Create an application.

A new application starts with every permit unset, which authorizes
nobody: tasks cannot be created under it until a create permit is
configured with 'tms app permits <acronym> --create <group>'.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app := &domain.Application{
				Acronym:     args[0],
				Description: description,
			}
			if startDate != "" {
				t, err := time.Parse("2006-01-02", startDate)
				if err != nil {
					fatalError(err)
				}
				app.StartDate = t
			}
			if endDate != "" {
				t, err := time.Parse("2006-01-02", endDate)
				if err != nil {
					fatalError(err)
				}
				app.EndDate = t
			}

			if err := backend.CreateApplication(context.Background(), app); err != nil {
				fatalError(err)
			}

			render.Stdout().Println("Application %s created", app.Acronym)
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Application description")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")

	return cmd
}

func appListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications with their permits",
		Run: func(cmd *cobra.Command, args []string) {
			apps, err := backend.ListApplications(context.Background())
			if err != nil {
				fatalError(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Applications(apps))
		},
	}
}

func appPermitsCmd() *cobra.Command {
	var create, open, todo, doing, done string

	cmd := &cobra.Command{
		Use:   "permits <acronym>",
		Short: "Set the permitted group per decision point",
		Long: `Set which group may act at each decision point.

Only flags given are changed; pass an empty value to clear a permit.

Examples:
  tms app permits ABC --open dev --doing dev --done lead`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			app, err := backend.GetApplication(ctx, args[0])
			if err != nil {
				fatalError(err)
			}

			if cmd.Flags().Changed("create") {
				app.PermitCreate = create
			}
			if cmd.Flags().Changed("open") {
				app.PermitOpen = open
			}
			if cmd.Flags().Changed("todo") {
				app.PermitToDo = todo
			}
			if cmd.Flags().Changed("doing") {
				app.PermitDoing = doing
			}
			if cmd.Flags().Changed("done") {
				app.PermitDone = done
			}

			if err := backend.UpdateApplication(ctx, app); err != nil {
				fatalError(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Applications([]*domain.Application{app}))
		},
	}
	cmd.Flags().StringVar(&create, "create", "", "Group permitted to create tasks")
	cmd.Flags().StringVar(&open, "open", "", "Group permitted to act on Open tasks")
	cmd.Flags().StringVar(&todo, "todo", "", "Group permitted to act on ToDo tasks")
	cmd.Flags().StringVar(&doing, "doing", "", "Group permitted to act on Doing tasks")
	cmd.Flags().StringVar(&done, "done", "", "Group permitted to act on Done tasks")

	return cmd
}
