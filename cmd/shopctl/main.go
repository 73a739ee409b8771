// Command shopctl - консольный клиент витрины Leo's Guitar Shop.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/guitar-shop/internal/client"
)

type globalOptions struct {
	baseURL string
	timeout time.Duration
	verbose bool
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "Command line client for Leo's Guitar Shop",
		Long: `shopctl talks to a running storefront the way a browser does.

It keeps the session cookie between requests and hydrates its
session store once, from the first page it opens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("SHOP_URL", "http://localhost:8080"), "storefront base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print debug logs")

	rootCmd.AddCommand(
		guitarsCmd(opts),
		accountCmd(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (o *globalOptions) newClient() (*client.Client, error) {
	var w io.Writer = io.Discard
	if o.verbose {
		w = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return client.New(o.baseURL, o.timeout, log)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
