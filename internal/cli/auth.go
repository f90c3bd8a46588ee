package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wanderlust-labs/destination-portal/internal/service"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var in service.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			if err := p.fill("Email", &in.Email); err != nil {
				return err
			}
			if err := p.fill("Password", &in.Password); err != nil {
				return err
			}
			if err := rt.auth.Login(rt.ctx(cmd), rt.provider, in); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", rt.provider.Session().Subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email (prompted if omitted)")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			if err := p.fill("Name", &in.Name); err != nil {
				return err
			}
			if err := p.fill("Email", &in.Email); err != nil {
				return err
			}
			passwordGiven := in.Password != ""
			if err := p.fill("Password", &in.Password); err != nil {
				return err
			}
			if in.ConfirmPassword == "" && passwordGiven {
				in.ConfirmPassword = in.Password
			}
			if err := p.fill("Confirm password", &in.ConfirmPassword); err != nil {
				return err
			}
			if err := rt.auth.Register(rt.ctx(cmd), rt.provider, in); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", rt.provider.Session().Subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name (prompted if omitted)")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email (prompted if omitted)")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (prompted if omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
	cmd.Flags().StringVar(&in.Role, "role", "", "USER or ADMIN (default USER)")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.auth.Logout(rt.ctx(cmd), rt.provider); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.guard(cmd, false); err != nil {
				return err
			}
			s := rt.provider.Session()
			if rt.jsonOutput {
				return printJSON(cmd, map[string]any{
					"subject":     s.Subject,
					"authorities": s.Authorities,
					"isAdmin":     rt.provider.IsAdmin(),
					"expiresAt":   s.ExpiresAt,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject:     %s\n", s.Subject)
			fmt.Fprintf(out, "Authorities: %s\n", strings.Join(s.Authorities, ", "))
			fmt.Fprintf(out, "Admin:       %t\n", rt.provider.IsAdmin())
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Expires:     %s\n", s.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
