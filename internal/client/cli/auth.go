package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/certshowcase/internal/client/session"
	"github.com/dmitrijs2005/certshowcase/internal/common"
)

func (a *App) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and open the admin listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) == 1 {
				email = args[0]
			}
			return a.Login(cmd.Context(), email)
		},
	}
}

// Login prompts for whatever credentials are missing and signs in through
// the gate. A rejected sign-in returns the server's message unchanged. On
// success the admin listing is shown.
func (a *App) Login(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = readLine(a.in, a.out, "Enter email"); err != nil {
			return err
		}
	}

	password, err := readSecret(a.in, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	redirect := false
	unsubscribe := a.gate.Subscribe(func(c session.Change) {
		if c.State == session.Authenticated {
			redirect = true
		}
	})
	defer unsubscribe()

	if err := a.gate.SignIn(ctx, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", a.gate.Session().User.Email)
	if redirect {
		return a.AdminList(ctx)
	}
	return nil
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Logout(cmd.Context())
		},
	}
}

func (a *App) Logout(ctx context.Context) error {
	if a.gate.State() != session.Authenticated {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	if err := a.gate.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
			user, profile, err := a.api.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, user.Email)
			if profile != nil {
				fmt.Fprintf(a.out, "username: %s\nadmin: %t\n", profile.Username, profile.IsAdmin)
			}
			return nil
		}),
	}
}
