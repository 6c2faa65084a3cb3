package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/auth"
	"github.com/eugeniogarcia/django/internal/config"
	"github.com/eugeniogarcia/django/internal/database"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/server"
	"github.com/eugeniogarcia/django/internal/user"
)

func main() {
	cfg := config.LoadConfig()
	if err := rootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Blog, todo et journal : API REST et panneau d'administration",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	databaseFlags(root.PersistentFlags(), cfg)

	root.AddCommand(serveCmd(cfg), migrateCmd(cfg), createSuperuserCmd(cfg))
	return root
}

func databaseFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "postgres, mysql ou sqlite")
	fs.StringVar(&cfg.DBUrl, "database-url", cfg.DBUrl, "DSN de la base")
	fs.StringVar(&cfg.DBLogLevel, "db-log-level", cfg.DBLogLevel, "silent, error, warn ou info")
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	return database.Open(cfg.DBDriver, cfg.DBUrl, cfg.DBLogLevel)
}

func serveCmd(cfg *config.Config) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Démarre le serveur HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			gin.SetMode(cfg.GinMode)

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if migrate {
				if err := database.Migrate(db, server.Models()...); err != nil {
					return err
				}
			}

			r, err := server.New(server.Deps{
				DB:        db,
				JWTSecret: []byte(cfg.JWTSecret),
				TokenTTL:  cfg.TokenTTL,
			})
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg.Addr, r)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "adresse d'écoute HTTP")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "clé HS256 des tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "durée de validité des tokens")
	fs.BoolVar(&migrate, "migrate", false, "migrer les tables avant de démarrer")
	return cmd
}

// run sert HTTP jusqu'à SIGINT/SIGTERM puis s'arrête proprement.
func run(ctx context.Context, addr string, handler http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.LogJSON("INFO", "Server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logs.LogJSON("INFO", "Server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crée ou met à jour les tables",
		RunE: func(*cobra.Command, []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db, server.Models()...); err != nil {
				return err
			}
			logs.LogJSON("INFO", "Migration done", map[string]interface{}{"driver": cfg.DBDriver})
			return nil
		},
	}
}

func createSuperuserCmd(cfg *config.Config) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Crée un compte administrateur",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv("SUPERUSER_PASSWORD")
			}

			u, err := auth.CreateSuperuser(cmd.Context(), user.NewRepository(db), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s créé (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "nom d'utilisateur")
	cmd.Flags().StringVar(&email, "email", "", "adresse email")
	cmd.Flags().StringVar(&password, "password", "", "mot de passe (ou SUPERUSER_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
