// Command catalog-seed добавляет гитары из JSON-файла в каталог витрины.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/guitar-shop/internal/cache"
	"github.com/magabrotheeeer/guitar-shop/internal/config"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	catalogservice "github.com/magabrotheeeer/guitar-shop/internal/services/catalog"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog-seed FILE",
		Short: "Add guitars from a JSON file to the catalog",
		Long: `catalog-seed reads a JSON array of guitars and inserts each one
into the catalog database. Connection settings come from the
storefront config at CONFIG_PATH. When redis is configured the
cached catalog list is invalidated after every insert.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	cfg := config.MustLoad()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	guitars, err := readGuitars(path)
	if err != nil {
		return err
	}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close postgres", sl.Err(err))
		}
	}()

	var catalogCache catalogservice.Cache
	if cfg.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn("failed to close redis", sl.Err(err))
			}
		}()
		catalogCache = c
	}

	svc := catalogservice.NewService(db, catalogCache, cfg.CacheTTL, log)
	return seedCatalog(ctx, cmd.OutOrStdout(), svc, guitars)
}
