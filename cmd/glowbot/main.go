package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/useglowbot/glowbot/bot"
	"github.com/useglowbot/glowbot/catalog"
	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/server"
	"github.com/useglowbot/glowbot/store"
	"github.com/useglowbot/glowbot/store/db"
	"github.com/useglowbot/glowbot/transport/telegram"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "glowbot",
	Short: "Telegram bot for browsing the makeup product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		prof, err := buildProfile()
		if err != nil {
			return err
		}
		return run(prof)
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "", `mode of the process, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address of the health server")
	rootCmd.PersistentFlags().Int("port", 8230, "binding port of the health server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "", `preference driver, can be "file", "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "preference storage location (file path or connection string)")

	viper.SetEnvPrefix("glowbot")
	viper.AutomaticEnv()
	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func buildProfile() (*profile.Profile, error) {
	prof := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	prof.FromEnv()
	if err := prof.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	if prof.TelegramToken == "" {
		return nil, errors.New("GLOWBOT_TELEGRAM_TOKEN is required")
	}
	return prof, nil
}

func run(prof *profile.Profile) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	driver, err := db.NewDriver(prof)
	if err != nil {
		return err
	}
	prefStore := store.New(driver)
	if err := prefStore.Load(ctx); err != nil {
		return err
	}

	client := catalog.NewClient(&catalog.Config{BaseURL: prof.CatalogBaseURL})

	// The process must not start with a partially built index.
	index, err := catalog.BuildIndex(ctx, client)
	if err != nil {
		return errors.Wrap(err, "build catalog index")
	}
	slog.Info("catalog index built",
		"tags", len(index.Tags()),
		"brands", len(index.Brands()),
		"product_types", len(index.ProductTypes()),
		"categories", len(index.Categories()))

	router := bot.NewRouter(client, index, prefStore)

	transport, err := telegram.New(prof.TelegramToken, router)
	if err != nil {
		return err
	}

	hour, minute, err := prof.TipClock()
	if err != nil {
		return err
	}
	scheduler := bot.NewTipScheduler(prefStore, transport, bot.SchedulerConfig{Hour: hour, Minute: minute})
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	httpServer := server.NewServer(prof, prefStore, index)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return transport.Run(gctx)
	})
	g.Go(func() error {
		return httpServer.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	scheduler.Stop()
	if closeErr := prefStore.Close(context.Background()); closeErr != nil {
		slog.Error("failed to close preference store", "error", closeErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
