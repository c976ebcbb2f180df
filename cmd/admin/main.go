// Command admin runs maintenance tasks against the catalog database: loading
// the initial catalog and managing user accounts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"pollos-admin/internal/repository"
	"pollos-admin/internal/service"
	"pollos-admin/pkg/config"
	"pollos-admin/pkg/database"
	"pollos-admin/pkg/jwt"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/session"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Maintenance commands for the Pollos catalog",
	Long: `Maintenance commands for the Pollos catalog.

Configuration is read from the environment (and .env when present), the same
way the web server reads it.`,
	SilenceUsage: true,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// env is what every subcommand needs once configuration has been read.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	client *database.Client
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	appLog := logger.New(logger.Options{
		ServiceName: "pollos-admin-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      "console",
		Output:      os.Stderr,
	})

	client, err := database.Connect(ctx, cfg.DB, false, appLog)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(client.DB()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &env{cfg: cfg, log: appLog, client: client}, nil
}

func (e *env) Close() {
	if err := e.client.Close(); err != nil {
		e.log.Error(context.Background(), "closing database", err)
	}
}

// authService builds the account service. Sessions are never issued from the
// command line, so an in-memory registry is enough.
func (e *env) authService() (service.AuthService, error) {
	signer, err := jwt.NewSigner(e.cfg.Session)
	if err != nil {
		return nil, err
	}
	registry, err := session.NewRegistry(session.NewMemoryStore(), e.cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	return service.NewAuthService(e.client.DB(), signer, registry, e.log, nil), nil
}

// withEnv adapts a command body that needs a bootstrapped env into a RunE.
func withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, args, e)
	}
}
