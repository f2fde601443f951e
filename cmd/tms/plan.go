package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/render"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan management",
		Long: `Manage plans: named milestones tasks can be attached to while Open.

A plan's identity is composite: application acronym plus plan name.`,
	}

	cmd.AddCommand(
		planCreateCmd(),
		planListCmd(),
	)
	return cmd
}

func planCreateCmd() *cobra.Command {
	var app, startDate, endDate, colour string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a plan under an application",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("app", app)

			plan := &domain.Plan{
				AppAcronym: app,
				Name:       args[0],
				StartDate:  startDate,
				EndDate:    endDate,
				Colour:     colour,
			}
			if err := backend.CreatePlan(context.Background(), plan); err != nil {
				fatalError(err)
			}

			render.Stdout().Println("Plan %s/%s created", plan.AppAcronym, plan.Name)
		},
	}
	cmd.Flags().StringVarP(&app, "app", "a", "", "Owning application acronym")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&colour, "colour", "", "Display colour (hex)")

	return cmd
}

func planListCmd() *cobra.Command {
	var app string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans of an application",
		Run: func(cmd *cobra.Command, args []string) {
			requireFlag("app", app)

			plans, err := backend.ListPlans(context.Background(), app)
			if err != nil {
				fatalError(err)
			}

			r := render.New(pretty)
			render.Stdout().Print("%s", r.Plans(plans))
		},
	}
	cmd.Flags().StringVarP(&app, "app", "a", "", "Application acronym")

	return cmd
}
