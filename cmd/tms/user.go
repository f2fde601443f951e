package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SebastinST/tms-backend/internal/domain"
	"github.com/SebastinST/tms-backend/internal/render"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User account management",
	}

	cmd.AddCommand(
		userCreateCmd(),
		userShowCmd(),
		userGroupsCmd(),
		userDisableCmd(),
	)
	return cmd
}

func userCreateCmd() *cobra.Command {
	var email, groups string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			user := &domain.User{
				Username: args[0],
				Email:    email,
				Groups:   domain.ParseGroupSet(groups),
			}
			if err := backend.CreateUser(context.Background(), user); err != nil {
				fatalError(err)
			}

			render.Stdout().Println("User %s created", user.Username)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&groups, "groups", "g", "", "Comma-separated group names")

	return cmd
}

func userShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			user, err := backend.GetUser(context.Background(), args[0])
			if err != nil {
				fatalError(err)
			}

			w := render.Stdout()
			w.Println("%s", user.Username)
			if user.Email != "" {
				w.Item("email:  %s", user.Email)
			}
			w.Item("groups: %s", strings.Join(user.Groups.Names(), ", "))
			if user.Disabled {
				w.Item("status: disabled")
			}
		},
	}
}

func userGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <username> <group,...>",
		Short: "Replace a user's group memberships",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			user, err := backend.GetUser(ctx, args[0])
			if err != nil {
				fatalError(err)
			}

			user.Groups = domain.ParseGroupSet(args[1])
			if err := backend.UpdateUser(ctx, user); err != nil {
				fatalError(err)
			}

			render.Stdout().Println("%s groups: %s", user.Username, strings.Join(user.Groups.Names(), ", "))
		},
	}
}

func userDisableCmd() *cobra.Command {
	var enable bool

	cmd := &cobra.Command{
		Use:   "disable <username>",
		Short: "Disable (or re-enable) a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			user, err := backend.GetUser(ctx, args[0])
			if err != nil {
				fatalError(err)
			}

			user.Disabled = !enable
			if err := backend.UpdateUser(ctx, user); err != nil {
				fatalError(err)
			}

			if user.Disabled {
				render.Stdout().Println("User %s disabled", user.Username)
			} else {
				render.Stdout().Println("User %s enabled", user.Username)
			}
		},
	}
	cmd.Flags().BoolVar(&enable, "undo", false, "Re-enable instead")

	return cmd
}
