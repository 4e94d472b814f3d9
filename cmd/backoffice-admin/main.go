// Command backoffice-admin seeds admin accounts. An existing account with the
// same email is promoted to admin and keeps its password.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/observability"
	"github.com/storefront/backoffice/internal/persistence"
	"github.com/storefront/backoffice/internal/repository"
	"github.com/storefront/backoffice/internal/service"
)

func main() {
	envFile := flag.String("env-file", "", "load environment from this file")
	name := flag.String("name", "Admin", "display name of the admin")
	email := flag.StringP("email", "e", "", "admin email (required)")
	password := flag.StringP("password", "p", "", "admin password, at least 6 characters (required)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	var (
		cfg *config.Config
		err error
	)
	if *envFile != "" {
		cfg, err = config.LoadFile(*envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		CustomerRepo: repository.NewCustomerRepository(pg.PoolHandle()),
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	admin, created, err := authService.CreateAdmin(ctx, *name, *email, *password)
	if err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}
	if created {
		fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
	} else {
		fmt.Printf("promoted %s (%s) to admin\n", admin.Email, admin.ID)
	}
}
