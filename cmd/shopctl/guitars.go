package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/guitar-shop/internal/client"
)

func guitarsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guitars",
		Short: "List the guitar catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			return listGuitars(cmd.Context(), cmd.OutOrStdout(), c)
		},
	}
}

func listGuitars(ctx context.Context, w io.Writer, c *client.Client) error {
	guitars, err := c.Guitars(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	if len(guitars) == 0 {
		color.New(color.FgYellow).Fprintln(w, "The catalog is empty")
		return nil
	}
	for _, g := range guitars {
		cyan.Fprintf(w, "%-4d", g.ID)
		fmt.Fprintf(w, "%s %s  ", g.Manufacturer, g.Model)
		green.Fprintln(w, g.Price())
		fmt.Fprintf(w, "    %s\n", g.CardImage())
	}
	return nil
}
