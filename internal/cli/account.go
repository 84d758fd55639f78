package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/services/session"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.app.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return sessionError(err)
			}

			out := rt.output(cmd)
			out.Print(*user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func newSignupCmd(rt *runtime) *cobra.Command {
	var req session.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a player account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confirm-password") {
				req.ConfirmPassword = req.Password
			}

			user, err := rt.app.Sessions.Signup(cmd.Context(), req)
			if err != nil {
				return sessionError(err)
			}

			out := rt.output(cmd)
			out.Print(*user)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Location, "location", "", "City or area")

	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.app.Sessions.Logout(cmd.Context())
			rt.output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoAmICmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rt.output(cmd)

			current, ok := rt.app.Sessions.Session()
			if !ok {
				out.PrintMessage("Not logged in")
				return nil
			}

			age := current.Age(rt.app.Clock.Now()).Round(time.Second)
			out.Print(WhoAmI{
				User:           current.User,
				SessionAge:     age.String(),
				CanAccessAdmin: rt.app.Sessions.CanAccessAdminArea(),
			})
			return nil
		},
	}
}

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(newProfileUpdateCmd(rt))

	return cmd
}

func newProfileUpdateCmd(rt *runtime) *cobra.Command {
	var name, email, phone, location, bio, avatar string
	var sports []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update fields of the current user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch session.ProfilePatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("phone") {
				patch.Phone = &phone
			}
			if flags.Changed("location") {
				patch.Location = &location
			}
			if flags.Changed("bio") {
				patch.Bio = &bio
			}
			if flags.Changed("avatar") {
				patch.Avatar = &avatar
			}
			if flags.Changed("sports") {
				patch.Sports = append([]string{}, sports...)
			}

			user, err := rt.app.Sessions.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return sessionError(err)
			}

			out := rt.output(cmd)
			out.Print(*user)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&location, "location", "", "City or area")
	cmd.Flags().StringVar(&bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar glyph")
	cmd.Flags().StringSliceVar(&sports, "sports", nil, "Comma-separated list of sports")

	return cmd
}
