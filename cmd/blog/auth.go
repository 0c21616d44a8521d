package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skinx/blog-api/cmd/blog/ui"
	"github.com/skinx/blog-api/internal/client"
)

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := credentialFlags(cmd)
			if err := ui.Credentials(&email, &password, true); err != nil {
				return err
			}

			session, err := a.api.Register(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Welcome, %s!", session.User.Email))
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := credentialFlags(cmd)
			if err := ui.Credentials(&email, &password, false); err != nil {
				return err
			}

			session, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Logged in as "+session.User.Email)
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			ui.PrintProfile(cmd.OutOrStdout(), profile)

			token, _ := a.api.Tokens().Load()
			if exp, ok := client.TokenExpiry(token); ok {
				ui.PrintHint(cmd.OutOrStdout(), "  Session expires in "+ui.Until(exp, time.Now()))
			}
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Clear the stored token as soon as it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			out := cmd.OutOrStdout()

			watcher := client.NewExpiryWatcher(a.api.Tokens(), interval, func() {
				ui.PrintError(out, "Session expired, please log in again")
			})

			ui.PrintHint(out, "Watching session token, press Ctrl+C to stop")
			err := watcher.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Duration("interval", client.DefaultExpiryInterval, "How often to check the token")
	return cmd
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
}

func credentialFlags(cmd *cobra.Command) (email, password string) {
	email, _ = cmd.Flags().GetString("email")
	password, _ = cmd.Flags().GetString("password")
	return email, password
}
