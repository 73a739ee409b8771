package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/guitar-shop/internal/client"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/account"
	"github.com/magabrotheeeer/guitar-shop/internal/navigation"
)

type accountOptions struct {
	email    string
	password string
	logout   bool
}

func accountCmd(opts *globalOptions) *cobra.Command {
	var ao accountOptions

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the account page",
		Long: `Open the storefront, optionally log in, and show the account page.

A logged out session is sent to the login page instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (ao.email == "") != (ao.password == "") {
				return errors.New("--email and --password go together")
			}
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			return showAccount(cmd.Context(), cmd.OutOrStdout(), c, ao)
		},
	}

	cmd.Flags().StringVar(&ao.email, "email", "", "login email")
	cmd.Flags().StringVar(&ao.password, "password", "", "login password")
	cmd.Flags().BoolVar(&ao.logout, "logout", false, "log out after showing the account")

	return cmd
}

// showAccount повторяет поведение страницы аккаунта в клиенте:
// гидратирует хранилища, проверяет вход через Gate и печатает данные.
func showAccount(ctx context.Context, w io.Writer, c *client.Client, ao accountOptions) error {
	if _, err := c.Open(ctx, "/"); err != nil {
		return err
	}
	if ao.email != "" {
		if err := c.Login(ctx, ao.email, ao.password); err != nil {
			return err
		}
	}

	nav := navigation.NewRecorder()
	gate := account.NewGate()
	if gate.Check(c.Session().LoggedIn(), nav) != account.StateAuthenticated {
		color.New(color.FgYellow).Fprintf(w, "Not logged in, redirecting to %s\n", nav.Destination())
		return nil
	}

	cyan := color.New(color.FgCyan)
	page := account.NewPage(c.Session())
	id := page.Identity()
	color.New(color.FgGreen).Fprintln(w, "My Account")
	cyan.Fprint(w, "  First name: ")
	fmt.Fprintln(w, id.FirstName)
	cyan.Fprint(w, "  Last name:  ")
	fmt.Fprintln(w, id.LastName)
	cyan.Fprint(w, "  Email:      ")
	fmt.Fprintln(w, id.Email)

	if !ao.logout {
		return nil
	}
	if err := c.Logout(ctx); err != nil {
		return err
	}
	page.Logout(nav)
	fmt.Fprintf(w, "Logged out, redirecting to %s\n", nav.Destination())
	return nil
}
