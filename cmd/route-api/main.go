package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"route-api/internal/auth"
	"route-api/internal/config"
	"route-api/internal/service/routecard"
	"route-api/internal/storage/procedure"
	"route-api/internal/storage/sqlstore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "route-api",
		Short:         "Routing records API for manufacturing operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the yaml config (default $CONFIG_PATH or ./config/local.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		userCmd(&configPath),
	)

	return root
}

func userCmd(configPath *string) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	var username, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := setupLogger(cfg.Env)

			store, err := open(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.CreateUser(cmd.Context(), username, password, nil)
			if err != nil {
				return err
			}

			log.Info("user created", slog.String("username", username), slog.Int64("id", id))
			return nil
		},
	}
	add.Flags().StringVarP(&username, "username", "u", "", "login name")
	add.Flags().StringVarP(&password, "password", "p", "", "password, stored as a bcrypt hash")
	_ = add.MarkFlagRequired("username")
	_ = add.MarkFlagRequired("password")

	user.AddCommand(add)
	return user
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := setupLogger(cfg.Env)

	store, err := open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, store, tokens, routecard.New(store)),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		return err
	}

	log.Info("server stopped")
	return nil
}

// open connects to the configured database. Local sqlite files get the
// bundled schema; mysql schemas are managed outside this service.
func open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sqlstore.Storage, error) {
	store, err := sqlstore.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == procedure.DriverSQLite {
		if err := store.ApplySchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}

	return store, nil
}
