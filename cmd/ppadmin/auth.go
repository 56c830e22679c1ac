package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/models"
)

// --- login ---

var loginCmd = &cobra.Command{
	Use:         "login",
	Short:       "Sign in and store the session",
	Annotations: guarded("public"),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}

		res, err := current.auth().Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		printSuccess("Signed in as %s", res.Role)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:         "signup",
	Short:       "Create an account",
	Annotations: guarded("public"),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		if name == "" || email == "" || password == "" {
			return errors.New("--name, --email and --password are required")
		}

		msg, err := current.auth().Register(cmd.Context(), models.Registration{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     role,
		})
		if err != nil {
			return err
		}
		printSuccess("%s", msg)
		return nil
	},
}

var forgotCmd = &cobra.Command{
	Use:         "forgot-password",
	Short:       "Email a password reset link",
	Annotations: guarded("public"),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.New("--email is required")
		}
		msg, err := current.auth().ForgotPassword(cmd.Context(), email)
		if err != nil {
			return err
		}
		printSuccess("%s", msg)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:         "reset-password <token>",
	Short:       "Set a new password with a mailed reset token",
	Args:        cobra.ExactArgs(1),
	Annotations: guarded("public"),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return errors.New("--password is required")
		}
		msg, err := current.auth().ResetPassword(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		printSuccess("%s", msg)
		return nil
	},
}

// --- logout / whoami ---

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Clear the stored session",
	Annotations: guarded("protected"),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.auth().Logout(); err != nil {
			return fmt.Errorf("signing out: %w", err)
		}
		printSuccess("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in account",
	Annotations: guarded("protected"),
	RunE: func(cmd *cobra.Command, args []string) error {
		printStatus("Role", "%s", current.session.Role())
		printStatus("User", "%s", current.session.UserID())
		printStatus("API", "%s", current.client.BaseURL())
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")

	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("email", "", "account email")
	signupCmd.Flags().String("password", "", "account password")
	signupCmd.Flags().String("role", "", "account role (default admin)")

	forgotCmd.Flags().String("email", "", "account email")

	resetCmd.Flags().String("password", "", "new password")
}
