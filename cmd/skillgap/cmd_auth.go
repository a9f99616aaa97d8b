package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jrsteele09/go-skillgap-client/internal/utils"
	"github.com/jrsteele09/go-skillgap-client/session"
	"github.com/jrsteele09/go-skillgap-client/users"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store session credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			result := app.session.Login(cmd.Context(), email, password)
			if !result.OK {
				printResult(result)
				return fmt.Errorf("login failed")
			}

			snapshot := app.session.Current()
			fmt.Printf("Logged in as %s\n", snapshot.User)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var registration users.Registration
	var experience string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			registration.ExperienceLevel = users.ExperienceLevel(experience)

			result := app.session.Register(cmd.Context(), registration)
			if !result.OK {
				printResult(result)
				return fmt.Errorf("registration failed")
			}

			fmt.Printf("Account created for %s\n", app.session.Current().User)
			return nil
		},
	}
	cmd.Flags().StringVar(&registration.Email, "email", "", "account email")
	cmd.Flags().StringVar(&registration.Password, "password", "", "account password")
	cmd.Flags().StringVar(&registration.FullName, "name", "", "full name")
	cmd.Flags().StringSliceVar(&registration.Skills, "skills", nil, "current skills")
	cmd.Flags().StringSliceVar(&registration.TargetRoles, "roles", nil, "target roles")
	cmd.Flags().StringVar(&experience, "experience", "", "experience level")
	cmd.Flags().StringVar(&registration.Location, "location", "", "location")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.Logout(cmd.Context())
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := app.session.Bootstrap(cmd.Context())
			switch snapshot.Status {
			case session.StatusAuthenticated:
				printProfile(snapshot.User)
			case session.StatusAnonymous:
				app.showLoginHint()
			default:
				fmt.Println("Could not reach the server to validate your session.")
			}
			return nil
		},
	}
}

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in user's profile",
	}
	cmd.AddCommand(newProfileUpdateCmd(app))
	return cmd
}

func newProfileUpdateCmd(app *app) *cobra.Command {
	var name, experience, location string
	var skills, roles []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; unset flags are left untouched",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			var patch users.ProfileUpdate
			if cmd.Flags().Changed("name") {
				patch.FullName = utils.Ptr(name)
			}
			if cmd.Flags().Changed("skills") {
				patch.Skills = utils.Ptr(skills)
			}
			if cmd.Flags().Changed("roles") {
				patch.TargetRoles = utils.Ptr(roles)
			}
			if cmd.Flags().Changed("experience") {
				patch.ExperienceLevel = utils.Ptr(users.ExperienceLevel(experience))
			}
			if cmd.Flags().Changed("location") {
				patch.Location = utils.Ptr(location)
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update, set at least one flag")
			}

			result := app.session.UpdateProfile(cmd.Context(), patch)
			if !result.OK {
				app.reportFailure(result)
				return fmt.Errorf("profile update failed")
			}

			printProfile(app.session.Current().User)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "current skills (replaces the stored list)")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "target roles (replaces the stored list)")
	cmd.Flags().StringVar(&experience, "experience", "", "experience level")
	cmd.Flags().StringVar(&location, "location", "", "location")
	return cmd
}

// requireSession bootstraps the session and reports whether the command can
// proceed as an authenticated user.
func (a *app) requireSession(cmd *cobra.Command) bool {
	snapshot := a.session.Bootstrap(cmd.Context())
	switch snapshot.Status {
	case session.StatusAuthenticated:
		return true
	case session.StatusAnonymous:
		a.showLoginHint()
	default:
		fmt.Println("Could not reach the server, try again later.")
	}
	return false
}

// reportFailure prints a failed result and shows the login hint when the
// session itself is gone.
func (a *app) reportFailure(result session.Result) {
	printResult(result)
	if a.session.Current().Status == session.StatusAnonymous {
		a.showLoginHint()
	}
}

func printProfile(profile *users.Profile) {
	fmt.Printf("%s\n", profile)
	if len(profile.Skills) > 0 {
		fmt.Printf("Skills:       %s\n", strings.Join(profile.Skills, ", "))
	}
	if len(profile.TargetRoles) > 0 {
		fmt.Printf("Target roles: %s\n", strings.Join(profile.TargetRoles, ", "))
	}
	if profile.ExperienceLevel != "" {
		fmt.Printf("Experience:   %s\n", profile.ExperienceLevel)
	}
	if profile.Location != "" {
		fmt.Printf("Location:     %s\n", profile.Location)
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
