package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dev-kunalpandey/tudu/api/dao"
	"github.com/dev-kunalpandey/tudu/api/db"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/util"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(db.DB); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				generated, err := util.RandomPassword(12)
				if err != nil {
					return err
				}
				password = generated
				fmt.Printf("generated password: %s\n", password)
			}

			hashed, err := util.HashPassword(password)
			if err != nil {
				return err
			}

			users := dao.NewUserDAO(db.DB)
			user := &model.User{
				Email:    email,
				Name:     name,
				Password: hashed,
				Role:     model.RoleAdmin,
			}
			if err := users.CreateUser(cmd.Context(), user); err != nil {
				return err
			}

			fmt.Printf("admin %s created (id %d)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (generated when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password and clear MFA enrollment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				generated, err := util.RandomPassword(12)
				if err != nil {
					return err
				}
				password = generated
				fmt.Printf("generated password: %s\n", password)
			}

			hashed, err := util.HashPassword(password)
			if err != nil {
				return err
			}

			users := dao.NewUserDAO(db.DB)
			user, err := users.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}

			// MFA is cleared so the user re-enrolls on next login.
			_, err = users.UpdateUser(cmd.Context(), user.ID, map[string]interface{}{
				"password":    hashed,
				"mfa_enabled": false,
				"mfa_secret":  "",
			})
			if err != nil {
				return err
			}

			fmt.Printf("password reset for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email address")
	cmd.Flags().StringVar(&password, "password", "", "new password (generated when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListUsersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := dao.NewUserDAO(db.DB).ListUsers(cmd.Context(), 0, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tMFA")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.Name, u.Role, u.MFAEnabled)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of users to print")
	return cmd
}
